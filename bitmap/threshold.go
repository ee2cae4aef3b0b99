package bitmap

// DefaultThreshold is the luma cutoff used unless a source is told otherwise.
const DefaultThreshold uint8 = 128

// Luma is the ITU-R BT.601 brightness of an RGB pixel, truncated to an integer.
//
// The products are computed in float32 and explicitly rounded before being
// summed so the compiler can't fuse them; files written by other encoders
// depend on the exact truncation.
func Luma(r, g, b uint8) uint8 {
	y := float32(0.299*float32(r)) + float32(0.587*float32(g))
	y += float32(0.114 * float32(b))
	return uint8(y)
}

// On reports whether a pixel is foreground: its luma is strictly above threshold.
func On(r, g, b, threshold uint8) bool {
	return Luma(r, g, b) > threshold
}

// packer accumulates pixels MSB-first into bytes.
type packer struct {
	buf []byte
	cur byte
	n   uint
}

func newPacker(capacity uint64) *packer {
	return &packer{buf: make([]byte, 0, capacity)}
}

func (p *packer) push(on bool) {
	if on {
		p.cur |= (1 << 7) >> p.n
	}
	p.n++
	if p.n == 8 {
		p.flush()
	}
}

// flush emits a partial byte, leaving the missing low bits off.
// Called at the end of every row.
func (p *packer) flush() {
	if p.n == 0 {
		return
	}
	p.buf = append(p.buf, p.cur)
	p.cur, p.n = 0, 0
}

func (p *packer) bytes() []byte {
	p.flush()
	return p.buf
}
