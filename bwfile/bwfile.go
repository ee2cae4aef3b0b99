// Package bwfile reads and writes single bitmaps in the BWIM file format.
//
// A file is a 16 byte header followed by the packed pixels:
//
//	0-3   magic "BWIM"
//	4-7   version, uint32 = 1
//	8-11  width, uint32
//	12-15 height, uint32
//	16-   Size.PaddedLen() bytes of pixels
//
// All integers are little endian. Files can be concatenated without any
// separator.
package bwfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"bwimg/bitmap"
)

const (
	HeaderLen = 16
	Version   = 1

	// MaxBodyLen bounds the pixel buffer allocated for a single header.
	MaxBodyLen = 1 << 31
)

var Magic = [4]byte{'B', 'W', 'I', 'M'}

var (
	ErrBadMagic        = errors.New("invalid magic number")
	ErrBadVersion      = errors.New("invalid version number")
	ErrTruncatedHeader = errors.New("truncated header")
	ErrReadHeader      = errors.New("could not read header")
	ErrTooLarge        = errors.New("image too large")
)

// HeaderError is a header that couldn't be parsed.
// It unwraps to one of ErrBadMagic, ErrBadVersion, ErrTruncatedHeader or
// ErrReadHeader, and to the underlying read error if there was one.
type HeaderError struct {
	Reason error
	Err    error
}

func (e *HeaderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("file header: %v: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("file header: %v", e.Reason)
}

func (e *HeaderError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Reason, e.Err}
	}
	return []error{e.Reason}
}

// FrameLen is the number of bytes a bitmap of size takes once encoded.
func FrameLen(size bitmap.Size) uint64 {
	return HeaderLen + size.PaddedLen()
}

// ParseHeader reads one header.
// It returns ok == false, with no error, if r is at a clean end of input.
func ParseHeader(r io.Reader) (size bitmap.Size, ok bool, err error) {
	var header [HeaderLen]byte

	n, err := io.ReadFull(r, header[:])
	switch {
	case n == 0 && errors.Is(err, io.EOF):
		return bitmap.Size{}, false, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		return bitmap.Size{}, false, &HeaderError{Reason: ErrTruncatedHeader, Err: fmt.Errorf("got %d of %d bytes: %w", n, HeaderLen, err)}
	case err != nil:
		return bitmap.Size{}, false, &HeaderError{Reason: ErrReadHeader, Err: err}
	}

	if [4]byte(header[0:4]) != Magic {
		return bitmap.Size{}, false, &HeaderError{Reason: ErrBadMagic}
	}
	if v := binary.LittleEndian.Uint32(header[4:8]); v != Version {
		return bitmap.Size{}, false, &HeaderError{Reason: ErrBadVersion, Err: fmt.Errorf("version %d", v)}
	}

	return bitmap.Size{
		Width:  binary.LittleEndian.Uint32(header[8:12]),
		Height: binary.LittleEndian.Uint32(header[12:16]),
	}, true, nil
}

// AppendHeader appends the header for size to b.
func AppendHeader(b []byte, size bitmap.Size) []byte {
	b = append(b, Magic[:]...)
	b = binary.LittleEndian.AppendUint32(b, Version)
	b = binary.LittleEndian.AppendUint32(b, size.Width)
	return binary.LittleEndian.AppendUint32(b, size.Height)
}

func WriteHeader(w io.Writer, size bitmap.Size) error {
	_, err := w.Write(AppendHeader(make([]byte, 0, HeaderLen), size))
	return err
}

// ParseBody reads the pixels of a bitmap whose header has already been parsed.
func ParseBody(r io.Reader, size bitmap.Size) (*bitmap.Image, error) {
	if size.PaddedLen() > MaxBodyLen {
		return nil, fmt.Errorf("%w: %v", ErrTooLarge, size)
	}

	pix := make([]byte, size.PaddedLen())
	if _, err := io.ReadFull(r, pix); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("reading %v pixels: %w", size, err)
	}

	return bitmap.New(size, pix)
}

// Decode reads one bitmap. It returns nil, nil at a clean end of input.
func Decode(r io.Reader) (*bitmap.Image, error) {
	size, ok, err := ParseHeader(r)
	if err != nil || !ok {
		return nil, err
	}

	return ParseBody(r, size)
}

type flusher interface {
	Flush() error
}

// Encode writes img's header and pixels, then flushes w if it can be flushed.
func Encode(w io.Writer, img *bitmap.Image) error {
	if err := WriteHeader(w, img.Size()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if _, err := w.Write(img.Bytes()); err != nil {
		return fmt.Errorf("writing pixels: %w", err)
	}

	if f, ok := w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flushing: %w", err)
		}
	}

	return nil
}
