package stream

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz"
)

// Compression wraps a whole stream. Writers are opened once per batch and
// closed after the last frame.
type Compression interface {
	Name() string
	NewWriter(w io.Writer) (io.WriteCloser, error)
	NewReader(r io.Reader) (io.ReadCloser, error)
}

type codec struct {
	name      string
	newWriter func(io.Writer) (io.WriteCloser, error)
	newReader func(io.Reader) (io.ReadCloser, error)
}

func (c codec) Name() string                                  { return c.name }
func (c codec) NewWriter(w io.Writer) (io.WriteCloser, error) { return c.newWriter(w) }
func (c codec) NewReader(r io.Reader) (io.ReadCloser, error)  { return c.newReader(r) }

func (c codec) String() string { return c.name }

var (
	None Compression = codec{
		name: "none",
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return nopWriteCloser{w}, nil
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(r), nil
		},
	}

	Deflate Compression = codec{
		name: "deflate",
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(w, flate.DefaultCompression)
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return flate.NewReader(r), nil
		},
	}

	Gzip Compression = codec{
		name: "gzip",
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return gzip.NewWriter(w), nil
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(r)
		},
	}

	Zstd Compression = codec{
		name: "zstd",
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w, zstd.WithZeroFrames(true))
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			dec, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return dec.IOReadCloser(), nil
		},
	}

	LZ4 Compression = codec{
		name: "lz4",
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return lz4.NewWriter(w), nil
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(lz4.NewReader(r)), nil
		},
	}

	XZ Compression = codec{
		name: "xz",
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return xz.NewWriter(w)
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			xr, err := xz.NewReader(r)
			if err != nil {
				return nil, err
			}
			return io.NopCloser(xr), nil
		},
	}
)

// Compressions lists every supported compression, None first.
func Compressions() []Compression {
	return []Compression{None, Deflate, Gzip, Zstd, LZ4, XZ}
}

// ParseCompression looks a compression up by name. An empty name is None.
func ParseCompression(name string) (Compression, error) {
	if name == "" {
		return None, nil
	}

	for _, c := range Compressions() {
		if strings.EqualFold(c.Name(), name) {
			return c, nil
		}
	}

	return nil, fmt.Errorf("unsupported compression: %q", name)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Flush passes flushes through to the wrapped writer, if it has any.
func (w nopWriteCloser) Flush() error {
	if f, ok := w.Writer.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
