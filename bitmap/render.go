package bitmap

import (
	"bufio"
	"io"
)

// BitsOf expands the first n pixels of a packed byte, MSB first.
func BitsOf(b byte, n int) []bool {
	n = max(0, min(n, 8))
	bits := make([]bool, n)
	for i := range n {
		bits[i] = b&((1<<7)>>i) != 0
	}
	return bits
}

// Render draws m as text, two characters per pixel and one line per row.
func Render(w io.Writer, m *Image) error {
	bw := bufio.NewWriter(w)

	for out := range m.Iter(Horizontal{}).All() {
		if out.Kind == RowEnd {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
			continue
		}

		for _, on := range BitsOf(out.Byte, out.Len) {
			px := "  "
			if on {
				px = "██"
			}
			if _, err := bw.WriteString(px); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}
