package bitmap

import "iter"

type Kind uint8

const (
	// Chunk carries up to 8 pixels.
	Chunk Kind = iota
	// RowEnd ends a row (Horizontal) or a column (Vertical).
	RowEnd
)

func (k Kind) String() string {
	switch k {
	case Chunk:
		return "Chunk"
	case RowEnd:
		return "RowEnd"
	default:
		return "Unknown"
	}
}

// Output is one step of an Iter.
// For chunks, Len pixels are held MSB-first in Byte.
type Output struct {
	Kind Kind
	Byte byte
	Len  int
}

type Position struct {
	X, Y uint32
}

// State is what a Direction sees of an iteration.
type State struct {
	Size   Size
	Pos    Position
	Pixels []byte
}

// Direction is a traversal order. Next returns the position after this step
// and its output, or false once the traversal is over.
type Direction interface {
	Next(s State) (Position, Output, bool)
}

var (
	_ Direction = Horizontal{}
	_ Direction = Vertical{}
)

// Horizontal walks rows top to bottom, 8 pixels at a time.
type Horizontal struct{}

func (Horizontal) Next(s State) (Position, Output, bool) {
	x, y := s.Pos.X, s.Pos.Y
	switch {
	case y >= s.Size.Height:
		return s.Pos, Output{}, false
	case x >= s.Size.Width:
		return Position{0, y + 1}, Output{Kind: RowEnd}, true
	}

	i := uint64(y)*s.Size.RowBytes() + uint64(x/8)
	return Position{advance(x, 8, s.Size.Width), y}, Output{
		Kind: Chunk,
		Byte: s.Pixels[i],
		Len:  int(min(8, s.Size.Width-x)),
	}, true
}

// Vertical walks columns left to right, transposing 8 rows at a time into
// one byte with the topmost row in bit 7.
type Vertical struct{}

func (Vertical) Next(s State) (Position, Output, bool) {
	x, y := s.Pos.X, s.Pos.Y
	switch {
	case x >= s.Size.Width:
		return s.Pos, Output{}, false
	case y >= s.Size.Height:
		return Position{x + 1, 0}, Output{Kind: RowEnd}, true
	}

	rowBytes := s.Size.RowBytes()
	shift := 7 - x%8

	var (
		byt byte
		n   uint32
	)
	for rows := advance(y, 8, s.Size.Height) - y; n < rows; n++ {
		i := uint64(y+n)*rowBytes + uint64(x/8)
		if i >= uint64(len(s.Pixels)) {
			break
		}
		byt |= ((s.Pixels[i] >> shift) & 1) << (7 - n)
	}

	if n == 0 {
		// Buffer shorter than the geometry: end the column rather than spin.
		return Position{x + 1, 0}, Output{Kind: RowEnd}, true
	}

	return Position{x, y + n}, Output{Kind: Chunk, Byte: byt, Len: int(n)}, true
}

// advance moves p by n without passing limit or wrapping around.
func advance(p, n, limit uint32) uint32 {
	return uint32(min(uint64(p)+uint64(n), uint64(limit)))
}

// Iter is a single pass walk over packed pixels. It never modifies them, so
// several Iters may share one buffer.
type Iter struct {
	state State
	dir   Direction
}

// NewIter starts a walk at (0, 0). pixels should hold size.PaddedLen() bytes;
// Horizontal panics on a shorter buffer.
func NewIter(size Size, pixels []byte, d Direction) *Iter {
	return &Iter{
		state: State{Size: size, Pixels: pixels},
		dir:   d,
	}
}

// Next returns the next output, or false when the walk is over.
func (it *Iter) Next() (Output, bool) {
	pos, out, ok := it.dir.Next(it.state)
	if !ok {
		return Output{}, false
	}
	it.state.Pos = pos
	return out, true
}

// Position is where the next step starts.
func (it *Iter) Position() Position {
	return it.state.Pos
}

// All yields the remaining outputs.
func (it *Iter) All() iter.Seq[Output] {
	return func(yield func(Output) bool) {
		for {
			out, ok := it.Next()
			if !ok || !yield(out) {
				return
			}
		}
	}
}
