// Package frames turns decoded video frames into bitmaps.
//
// Frames are RGB buffers produced by an external decode and scale pipeline.
// A frame whose buffer doesn't match its declared geometry is skipped, not
// treated as a failure, so callers can tell dropped frames from broken ones.
package frames

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"sync/atomic"

	"bwimg/bitmap"
	"bwimg/parallel"
	"bwimg/stream"
)

// Frame is one decoded frame: interleaved 8-bit RGB, row-major.
type Frame struct {
	Pix    []byte
	Width  uint32
	Height uint32
}

type Options struct {
	// Threshold is the luma cutoff: pixels brighter than it are on.
	// The zero value is a cutoff of 0, which turns on every pixel that isn't
	// pure black, so start from DefaultOptions.
	Threshold uint8
	// Workers converting frames concurrently. Zero means one per CPU.
	Workers int
	// Window is how many frames WriteStream converts before writing them.
	// Zero means four per worker.
	Window int
	Logger *slog.Logger
}

// DefaultOptions uses bitmap.DefaultThreshold and one worker per CPU.
func DefaultOptions() Options {
	return Options{Threshold: bitmap.DefaultThreshold}
}

func (o *Options) Validate() error {
	switch {
	case o.Workers < 0:
		return fmt.Errorf("invalid worker count: %d", o.Workers)
	case o.Window < 0:
		return fmt.Errorf("invalid window: %d", o.Window)
	}
	return nil
}

// Result is the outcome of converting one frame.
type Result struct {
	Index int
	Image *bitmap.Image
	// Skipped frames had a pixel count that didn't match their geometry.
	Skipped bool
	Err     error
}

type Stats struct {
	Converted uint64
	Skipped   uint64
	Errors    uint64
}

func (s Stats) Total() uint64 {
	return s.Converted + s.Skipped + s.Errors
}

type Converter struct {
	threshold uint8
	workers   int
	window    int
	logger    *slog.Logger
}

func NewConverter(opts Options) (*Converter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	c := &Converter{
		threshold: opts.Threshold,
		workers:   opts.Workers,
		window:    opts.Window,
		logger:    opts.Logger,
	}
	if c.workers == 0 {
		c.workers = parallel.DefaultWorkers()
	}
	if c.window == 0 {
		c.window = 4 * c.workers
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c, nil
}

// Frame converts a single frame.
func (c *Converter) Frame(f Frame) (*bitmap.Image, error) {
	src := bitmap.NewRGB(f.Pix, f.Width, f.Height)
	src.SetThreshold(c.threshold)
	return bitmap.Build(src)
}

// Convert converts every frame, in order.
func (c *Converter) Convert(frames iter.Seq[Frame]) ([]Result, Stats) {
	var stats counters
	res := c.convert(frames, 0, &stats)
	c.logStats(stats.load())
	return res, stats.load()
}

// WriteStream converts frames and writes them to enc in order, dropping
// skipped frames. It stops at the first frame that fails for another reason.
func (c *Converter) WriteStream(enc *stream.Encoder, frames iter.Seq[Frame]) (Stats, error) {
	var stats counters
	defer func() { c.logStats(stats.load()) }()

	offset := 0
	for batch := range chunk(frames, c.window) {
		for _, r := range c.convert(slices.Values(batch), offset, &stats) {
			switch {
			case r.Skipped:
				continue
			case r.Err != nil:
				return stats.load(), fmt.Errorf("converting frame %d: %w", r.Index, r.Err)
			}

			if err := enc.Encode(r.Image); err != nil {
				return stats.load(), fmt.Errorf("writing frame %d: %w", r.Index, err)
			}
		}
		offset += len(batch)
	}

	return stats.load(), nil
}

func (c *Converter) convert(frames iter.Seq[Frame], offset int, stats *counters) []Result {
	return parallel.Map(c.workers, frames, func(i int, f Frame) Result {
		idx := offset + i
		logger := c.logger.With("frame", idx)

		img, err := c.Frame(f)
		switch {
		case errors.Is(err, bitmap.ErrWrongSize):
			stats.skipped.Add(1)
			logger.Warn("skipping frame", "error", err)
			return Result{Index: idx, Skipped: true, Err: err}
		case err != nil:
			stats.errors.Add(1)
			logger.Error("could not convert frame", "error", err)
			return Result{Index: idx, Err: err}
		}

		stats.converted.Add(1)
		return Result{Index: idx, Image: img}
	})
}

func (c *Converter) logStats(s Stats) {
	c.logger.Info("stats", "converted", s.Converted, "skipped", s.Skipped, "errors", s.Errors,
		"total", s.Total())
}

type counters struct {
	converted, skipped, errors atomic.Uint64
}

func (c *counters) load() Stats {
	return Stats{
		Converted: c.converted.Load(),
		Skipped:   c.skipped.Load(),
		Errors:    c.errors.Load(),
	}
}

// chunk splits seq into slices of up to n items.
func chunk[T any](seq iter.Seq[T], n int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		batch := make([]T, 0, n)
		for v := range seq {
			batch = append(batch, v)
			if len(batch) == n {
				if !yield(batch) {
					return
				}
				batch = make([]T, 0, n)
			}
		}
		if len(batch) > 0 {
			yield(batch)
		}
	}
}
