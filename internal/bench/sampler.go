package bench

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/sha3"
)

// Sampler draws uniform residues mod a prime from a SHAKE128 stream, so a
// sweep with the same seed always transforms the same inputs.
type Sampler struct {
	xof  sha3.ShakeHash
	mod  uint64
	mask uint64
	buf  [8]byte
}

func NewSampler(seed string, mod uint64) *Sampler {
	h := sha3.NewShake128()
	h.Write([]byte(seed))

	return &Sampler{
		xof:  h,
		mod:  mod,
		mask: 1<<bits.Len64(mod-1) - 1,
	}
}

// Uint64 returns the next value in [0, mod) by rejection sampling.
func (s *Sampler) Uint64() uint64 {
	for {
		s.xof.Read(s.buf[:])
		v := binary.LittleEndian.Uint64(s.buf[:]) & s.mask
		if v < s.mod {
			return v
		}
	}
}

func (s *Sampler) Vector(n int) []uint64 {
	v := make([]uint64, n)
	for i := range v {
		v[i] = s.Uint64()
	}

	return v
}
