package frames

import (
	"fmt"
	"image"
	"iter"
	"math"

	"golang.org/x/image/draw"
)

// FromImage scales img to width x height and flattens it to an RGB frame.
// A zero dimension is derived from the other one and img's aspect ratio;
// both zero keeps img's size.
func FromImage(img image.Image, width, height int) (Frame, error) {
	if err := checkScale(width, height); err != nil {
		return Frame{}, err
	}
	return scale(img, width, height), nil
}

func checkScale(width, height int) error {
	switch {
	case width < 0:
		return fmt.Errorf("invalid scale width: %d", width)
	case height < 0:
		return fmt.Errorf("invalid scale height: %d", height)
	}
	return nil
}

// scale expects dimensions accepted by checkScale.
func scale(img image.Image, width, height int) Frame {
	srcBounds := img.Bounds()
	srcWidth := float64(srcBounds.Dx())
	srcHeight := float64(srcBounds.Dy())

	if srcWidth == 0 || srcHeight == 0 {
		return Frame{}
	}

	destWidth := float64(width)
	destHeight := float64(height)
	switch {
	case width == 0 && height == 0:
		destWidth, destHeight = srcWidth, srcHeight
	case width == 0:
		destWidth = math.Max(1, math.Round(destHeight*srcWidth/srcHeight))
	case height == 0:
		destHeight = math.Max(1, math.Round(destWidth*srcHeight/srcWidth))
	}

	dest := image.NewNRGBA(image.Rect(0, 0, int(destWidth), int(destHeight)))
	if (srcWidth == destWidth) && (srcHeight == destHeight) {
		draw.Draw(dest, dest.Bounds(), img, srcBounds.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dest, dest.Bounds(), img, srcBounds, draw.Src, nil)
	}

	return Frame{
		Pix:    rgb(dest),
		Width:  uint32(dest.Bounds().Dx()),
		Height: uint32(dest.Bounds().Dy()),
	}
}

// Images scales every image of seq into a frame, see FromImage.
// The dimensions are checked once, before anything is scaled.
func Images(seq iter.Seq[image.Image], width, height int) (iter.Seq[Frame], error) {
	if err := checkScale(width, height); err != nil {
		return nil, err
	}

	return func(yield func(Frame) bool) {
		for img := range seq {
			if !yield(scale(img, width, height)) {
				return
			}
		}
	}, nil
}

// rgb drops the alpha channel of a tightly packed NRGBA image.
func rgb(img *image.NRGBA) []byte {
	out := make([]byte, 0, len(img.Pix)/4*3)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		out = append(out, img.Pix[i], img.Pix[i+1], img.Pix[i+2])
	}
	return out
}
