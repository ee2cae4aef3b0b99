package bitmap

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongSize matches any WrongSizeError with errors.Is.
	ErrWrongSize = errors.New("pixel count does not match geometry")

	// ErrPixelLength is returned when a packed buffer isn't exactly Size.PaddedLen bytes.
	ErrPixelLength = errors.New("packed pixel length does not match geometry")
)

// WrongSizeError reports a source whose pixel buffer disagrees with its
// declared geometry.
type WrongSizeError struct {
	Width  uint32
	Height uint32
	// Pixels is the number of whole pixels actually present.
	Pixels uint64
}

func (e *WrongSizeError) Error() string {
	return fmt.Sprintf("%dx%d image has %d pixels", e.Width, e.Height, e.Pixels)
}

func (e *WrongSizeError) Is(target error) bool {
	return target == ErrWrongSize
}
