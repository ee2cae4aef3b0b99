// Package stream packs many bitmaps into one, optionally compressed, stream.
//
// Frames are bwfile encoded bitmaps written back to back. The format has no
// frame index, so decoding yields frames in exactly the order they were written.
package stream

import (
	"fmt"
	"io"
	"iter"

	"bwimg/bitmap"
	"bwimg/bwfile"
)

// Error is a failure to decode one frame of a stream.
type Error struct {
	// Index of the frame, from 0.
	Index int
	// Position is the offset of the frame's header in the uncompressed stream.
	Position uint64
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("decoding image %d at byte %d: %v", e.Index, e.Position, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Encoder writes frames to a stream. It must be closed to finish the compression.
type Encoder struct {
	zw      io.WriteCloser
	count   int
	written uint64
	closed  bool
}

// NewEncoder starts a stream on w. A nil compression writes raw frames.
func NewEncoder(w io.Writer, c Compression) (*Encoder, error) {
	if c == nil {
		c = None
	}

	zw, err := c.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("could not open %s writer: %w", c.Name(), err)
	}

	return &Encoder{zw: zw}, nil
}

func (e *Encoder) Encode(img *bitmap.Image) error {
	if e.closed {
		return fmt.Errorf("encoding image %d: %w", e.count, io.ErrClosedPipe)
	}

	if err := bwfile.Encode(e.zw, img); err != nil {
		return fmt.Errorf("encoding image %d: %w", e.count, err)
	}

	e.count++
	e.written += bwfile.FrameLen(img.Size())
	return nil
}

// Count is the number of frames written so far.
func (e *Encoder) Count() int {
	return e.count
}

// Written is the uncompressed length of the frames written so far.
func (e *Encoder) Written() uint64 {
	return e.written
}

// Close finishes the compressed stream. It doesn't close the underlying writer.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	if err := e.zw.Close(); err != nil {
		return fmt.Errorf("finishing stream: %w", err)
	}
	return nil
}

// Encode writes imgs as one stream.
func Encode(w io.Writer, c Compression, imgs ...*bitmap.Image) error {
	enc, err := NewEncoder(w, c)
	if err != nil {
		return err
	}

	for _, img := range imgs {
		if err := enc.Encode(img); err != nil {
			return err
		}
	}

	return enc.Close()
}

// Decoder reads frames one at a time. It keeps a cursor, so it must only be
// used from one goroutine.
type Decoder struct {
	zr       io.ReadCloser
	index    int
	position uint64
	err      error
}

// NewDecoder reads a stream from r. A nil compression reads raw frames.
func NewDecoder(r io.Reader, c Compression) (*Decoder, error) {
	if c == nil {
		c = None
	}

	zr, err := c.NewReader(r)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("could not open %s reader: %w", c.Name(), err)}
	}

	return &Decoder{zr: zr}, nil
}

// Open reads a stream whose compression is detected from its first bytes.
func Open(r io.Reader) (*Decoder, error) {
	c, br, err := Detect(r)
	if err != nil {
		return nil, &Error{Err: err}
	}

	return NewDecoder(br, c)
}

// Next decodes the next frame. It returns io.EOF once the stream ends cleanly.
// Any other error is an *Error, and is returned again by later calls.
func (d *Decoder) Next() (*bitmap.Image, error) {
	if d.err != nil {
		return nil, d.err
	}

	img, err := bwfile.Decode(d.zr)
	switch {
	case err != nil:
		d.err = &Error{Index: d.index, Position: d.position, Err: err}
		return nil, d.err
	case img == nil:
		d.err = io.EOF
		return nil, io.EOF
	}

	d.index++
	d.position += bwfile.FrameLen(img.Size())
	return img, nil
}

// Index is the index of the next frame.
func (d *Decoder) Index() int {
	return d.index
}

// Position is the uncompressed offset of the next frame.
func (d *Decoder) Position() uint64 {
	return d.position
}

// All yields the remaining frames. A decode error is yielded once, last.
func (d *Decoder) All() iter.Seq2[*bitmap.Image, error] {
	return func(yield func(*bitmap.Image, error) bool) {
		for {
			img, err := d.Next()
			switch {
			case err == io.EOF:
				return
			case err != nil:
				yield(nil, err)
				return
			}

			if !yield(img, nil) {
				return
			}
		}
	}
}

// Close releases the decompressor. It doesn't close the underlying reader.
func (d *Decoder) Close() error {
	return d.zr.Close()
}

// Decode reads every frame of a stream.
func Decode(r io.Reader, c Compression) ([]*bitmap.Image, error) {
	dec, err := NewDecoder(r, c)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var imgs []*bitmap.Image
	for img, err := range dec.All() {
		if err != nil {
			return imgs, err
		}
		imgs = append(imgs, img)
	}

	return imgs, nil
}
