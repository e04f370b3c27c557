package ntt

import "github.com/jonathanmweiss/go-ntt/field"

// Direction selects the forward or the inverse transform.
type Direction bool

const (
	Forward Direction = true
	Inverse Direction = false
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}

	return "inverse"
}

// Forward writes the transform of src into dst: dst[k] = sum_j src[j]*root^(jk).
//
// Both slices must have length Size and src must hold values below Modulus;
// neither is checked. dst and src may be the same slice but must not
// partially overlap.
func (p *Plan) Forward(dst, src []uint64) {
	p.run(dst, src, p.forward)
}

// Inverse writes the inverse transform of src into dst. Same contract as Forward.
func (p *Plan) Inverse(dst, src []uint64) {
	p.run(dst, src, p.inverse)

	mod, s := p.modulus, p.sizeInv
	for i, v := range dst {
		dst[i] = field.MulMod(v, s, mod)
	}
}

// Transform transforms buf in place, checking its length first.
func (p *Plan) Transform(buf []uint64, dir Direction) error {
	if len(buf) != p.size {
		return ErrLengthMismatch
	}

	if dir == Forward {
		p.Forward(buf, buf)
	} else {
		p.Inverse(buf, buf)
	}

	return nil
}

// Apply returns the transform of src in a newly allocated slice.
// It panics if len(src) != Size.
func (p *Plan) Apply(src []uint64, dir Direction) []uint64 {
	if len(src) != p.size {
		panic(ErrLengthMismatch)
	}

	dst := make([]uint64, p.size)
	if dir == Forward {
		p.Forward(dst, src)
	} else {
		p.Inverse(dst, src)
	}

	return dst
}

/*
run permutes src into a start buffer and applies log stages, each reading one
buffer and writing the other.

The start buffer is picked by the parity of log so that the last stage writes
into dst. Only an in-place call (dst == src) with an even log cannot avoid the
final copy: the permutation must not read and write the same slice.
*/
func (p *Plan) run(dst, src, twiddles []uint64) {
	cur, nxt := dst, p.scratch
	if p.log&1 == 1 || sameSlice(dst, src) {
		cur, nxt = nxt, cur
	}

	for i, r := range p.rev {
		cur[i] = src[r]
	}

	for s := p.log - 1; s >= 0; s-- {
		butterflies(nxt, cur, twiddles, uint(s), p.modulus)
		cur, nxt = nxt, cur
	}

	if !sameSlice(cur, dst) {
		copy(dst, cur)
	}
}

// butterflies applies one stage: out[j], out[j+n/2] = e + o*w, e - o*w
// with e, o = in[2j], in[2j+1] and w = twiddles[j>>s<<s].
func butterflies(out, in, twiddles []uint64, s uint, mod uint64) {
	half := len(in) >> 1
	lo, hi := out[:half], out[half:len(in)]
	for j := range lo {
		e, o := in[2*j], in[2*j+1]
		t := field.MulMod(o, twiddles[j>>s<<s], mod)

		sum := e + t
		if sum >= mod {
			sum -= mod
		}

		lo[j] = sum
		hi[j] = foldNeg(int64(e)-int64(t), mod)
	}
}

// foldNeg maps x in (-mod, mod) to [0, mod) by adding mod when the sign bit is set.
func foldNeg(x int64, mod uint64) uint64 {
	return uint64(x + int64(mod)&(x>>63))
}

func sameSlice(a, b []uint64) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}
