// Package bitmap holds 1-bit-per-pixel images and the sources they are built from.
//
// Pixels are packed MSB-first: bit 7 of a byte is the leftmost of its eight
// pixels. Every row starts on a byte boundary, so a row takes Size.RowBytes
// bytes and the low bits of its last byte are off when the width isn't a
// multiple of 8.
package bitmap

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
)

// Image is an immutable packed bitmap.
type Image struct {
	size Size
	pix  []byte
}

// New creates an Image, taking ownership of pix.
// pix must be exactly size.PaddedLen() bytes long.
func New(size Size, pix []byte) (*Image, error) {
	if uint64(len(pix)) != size.PaddedLen() {
		return nil, fmt.Errorf("%w: %v image needs %d bytes, got %d", ErrPixelLength, size, size.PaddedLen(), len(pix))
	}

	return &Image{size: size, pix: pix}, nil
}

// Build packs src into an Image. Nothing is returned if src fails.
func Build(src Source) (*Image, error) {
	size := src.Size()

	pix, err := src.PackedBits()
	if err != nil {
		return nil, err
	}

	return New(size, pix)
}

func (m *Image) Size() Size {
	return m.size
}

// Bytes returns the packed pixels. The slice must not be modified.
func (m *Image) Bytes() []byte {
	return m.pix
}

// On reports whether the pixel at (x, y) is foreground. Out of bounds pixels are off.
func (m *Image) On(x, y uint32) bool {
	if x >= m.size.Width || y >= m.size.Height {
		return false
	}
	i := uint64(y)*m.size.RowBytes() + uint64(x/8)
	return m.pix[i]&((1<<7)>>(x%8)) != 0
}

func (m *Image) Equal(o *Image) bool {
	return m.size == o.size && bytes.Equal(m.pix, o.pix)
}

// Iter walks the bitmap in the given direction.
func (m *Image) Iter(d Direction) *Iter {
	return NewIter(m.size, m.pix, d)
}

// Palette maps off pixels to black and on pixels to white.
func Palette() color.Palette {
	return color.Palette{color.Black, color.White}
}

// Paletted converts the bitmap to a two color image, which image/png
// encodes as a 1 bit image.
func (m *Image) Paletted() *image.Paletted {
	dst := image.NewPaletted(image.Rect(0, 0, int(m.size.Width), int(m.size.Height)), Palette())

	for y := uint32(0); y < m.size.Height; y++ {
		for x := uint32(0); x < m.size.Width; x++ {
			if m.On(x, y) {
				dst.SetColorIndex(int(x), int(y), 1)
			}
		}
	}

	return dst
}
