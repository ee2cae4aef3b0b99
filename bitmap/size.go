package bitmap

import "fmt"

// Size is the geometry of a bitmap in pixels.
type Size struct {
	Width  uint32
	Height uint32
}

// RowBytes is the number of bytes holding one packed row, including the
// padding bits of a final partial byte.
func (s Size) RowBytes() uint64 {
	return (uint64(s.Width) + 7) / 8
}

// PaddedLen is the length of a packed pixel buffer for s.
// Every row is padded to a byte boundary.
func (s Size) PaddedLen() uint64 {
	return s.RowBytes() * uint64(s.Height)
}

// Pixels is the number of pixels covered by s.
func (s Size) Pixels() uint64 {
	return uint64(s.Width) * uint64(s.Height)
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
