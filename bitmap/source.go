package bitmap

import (
	"image"
	"image/color"
	"math"
)

// Source provides pixels to pack into a bitmap.
//
// Implementations pack rows top to bottom, pixels left to right, MSB-first,
// and pad each row to a byte boundary with off bits.
type Source interface {
	Size() Size
	PackedBits() ([]byte, error)
}

var (
	_ Source = &RGB{}
	_ Source = &Picture{}
)

// RGB is a flat buffer of interleaved 8-bit R, G, B samples in row-major order.
type RGB struct {
	pix       []byte
	size      Size
	threshold uint8
}

func NewRGB(pix []byte, width, height uint32) *RGB {
	return &RGB{
		pix:       pix,
		size:      Size{Width: width, Height: height},
		threshold: DefaultThreshold,
	}
}

func (s *RGB) SetThreshold(threshold uint8) {
	s.threshold = threshold
}

func (s *RGB) Size() Size {
	return s.size
}

func (s *RGB) PackedBits() ([]byte, error) {
	if len(s.pix)%3 != 0 || uint64(len(s.pix)/3) != s.size.Pixels() {
		return nil, &WrongSizeError{
			Width:  s.size.Width,
			Height: s.size.Height,
			Pixels: uint64(len(s.pix) / 3),
		}
	}

	p := newPacker(s.size.PaddedLen())
	stride := int(s.size.Width) * 3
	for y := 0; y < int(s.size.Height); y++ {
		row := s.pix[y*stride : (y+1)*stride]
		for i := 0; i < len(row); i += 3 {
			p.push(On(row[i], row[i+1], row[i+2], s.threshold))
		}
		p.flush()
	}

	return p.bytes(), nil
}

// Picture is an already decoded image.
type Picture struct {
	img       image.Image
	threshold uint8
}

func NewPicture(img image.Image) *Picture {
	return &Picture{
		img:       img,
		threshold: DefaultThreshold,
	}
}

func (s *Picture) SetThreshold(threshold uint8) {
	s.threshold = threshold
}

func (s *Picture) Image() image.Image {
	return s.img
}

func (s *Picture) Size() Size {
	b := s.img.Bounds()
	return Size{Width: uint32(b.Dx()), Height: uint32(b.Dy())}
}

func (s *Picture) PackedBits() ([]byte, error) {
	b := s.img.Bounds()
	if uint64(b.Dx()) > math.MaxUint32 || uint64(b.Dy()) > math.MaxUint32 {
		return nil, &WrongSizeError{
			Width:  uint32(b.Dx()),
			Height: uint32(b.Dy()),
			Pixels: uint64(b.Dx()) * uint64(b.Dy()),
		}
	}

	p := newPacker(s.Size().PaddedLen())

	switch img := s.img.(type) {
	case *image.NRGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			i := img.PixOffset(b.Min.X, y)
			for x := b.Min.X; x < b.Max.X; x++ {
				p.push(On(img.Pix[i], img.Pix[i+1], img.Pix[i+2], s.threshold))
				i += 4
			}
			p.flush()
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				p.push(On(c.R, c.G, c.B, s.threshold))
			}
			p.flush()
		}
	}

	return p.bytes(), nil
}
