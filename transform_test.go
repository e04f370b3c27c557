package ntt

import (
	"fmt"
	"math/bits"
	"math/rand"
	"testing"

	"github.com/jonathanmweiss/go-ntt/field"
	"github.com/stretchr/testify/assert"
)

const (
	smallPrime = 998244353           // 119*2^23 + 1
	largePrime = 4179340454199820289 // 29*2^57 + 1
)

func randomVector(rnd *rand.Rand, n int, mod uint64) []uint64 {
	v := make([]uint64, n)
	for i := range v {
		v[i] = rnd.Uint64() % mod
	}

	return v
}

// dft is the O(n^2) definition: out[k] = sum_j a[j]*w^(jk).
func dft(a []uint64, w, mod uint64) []uint64 {
	n := uint64(len(a))
	out := make([]uint64, n)
	for k := uint64(0); k < n; k++ {
		var acc uint64
		for j := uint64(0); j < n; j++ {
			acc = field.AddMod(acc, field.MulMod(a[j], field.ModPow(w, j*k%n, mod), mod), mod)
		}
		out[k] = acc
	}

	return out
}

func TestSmallScenario(t *testing.T) {
	a := assert.New(t)

	plan, err := NewPlan(2, 5)
	a.NoError(err)
	a.Equal(4, plan.Size())
	a.Equal(uint64(2), plan.Root())
	a.Equal(uint64(4), plan.SizeInverse())

	fwd := plan.Apply([]uint64{1, 2, 3, 4}, Forward)
	a.Equal([]uint64{0, 4, 3, 2}, fwd)

	back := plan.Apply(fwd, Inverse)
	a.Equal([]uint64{1, 2, 3, 4}, back)
}

func TestKnownTransforms(t *testing.T) {
	a := assert.New(t)

	plan, err := NewPlan(2, 17)
	a.NoError(err)
	a.Equal([]uint64{10, 6, 15, 7}, plan.Apply([]uint64{1, 2, 3, 4}, Forward))

	plan, err = NewPlan(3, 17)
	a.NoError(err)
	a.Equal([]uint64{2, 1, 12, 3, 13, 6, 14, 8}, plan.Apply([]uint64{1, 2, 3, 4, 5, 6, 7, 8}, Forward))
}

func TestForwardMatchesDFT(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for _, mod := range []uint64{smallPrime, largePrime} {
		for lg := 0; lg <= 7; lg++ {
			t.Run(fmt.Sprintf("p=%d/log=%d", mod, lg), func(t *testing.T) {
				a := assert.New(t)

				plan, err := NewPlan(lg, mod)
				a.NoError(err)

				in := randomVector(rnd, plan.Size(), mod)
				a.Equal(dft(in, plan.Root(), mod), plan.Apply(in, Forward))

				inv, err := field.InverseMod(plan.Root(), mod)
				a.NoError(err)

				want := dft(in, inv, mod)
				for i := range want {
					want[i] = field.MulMod(want[i], plan.SizeInverse(), mod)
				}
				a.Equal(want, plan.Apply(in, Inverse))
			})
		}
	}
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))

	for _, mod := range []uint64{5, 17, 7340033, smallPrime, largePrime} {
		maxLog := min(12, bits.TrailingZeros64(mod-1))
		for lg := 0; lg <= maxLog; lg++ {
			t.Run(fmt.Sprintf("p=%d/log=%d", mod, lg), func(t *testing.T) {
				a := assert.New(t)

				plan, err := NewPlan(lg, mod)
				a.NoError(err)

				in := randomVector(rnd, plan.Size(), mod)

				// out of place.
				fwd := make([]uint64, plan.Size())
				back := make([]uint64, plan.Size())
				plan.Forward(fwd, in)
				plan.Inverse(back, fwd)
				a.Equal(in, back)

				for _, v := range fwd {
					a.Less(v, mod)
				}

				// in place, both parities of log go through here.
				buf := append([]uint64(nil), in...)
				a.NoError(plan.Transform(buf, Forward))
				a.Equal(fwd, buf)
				a.NoError(plan.Transform(buf, Inverse))
				a.Equal(in, buf)
			})
		}
	}
}

func TestRootOfUnityOrder(t *testing.T) {
	a := assert.New(t)

	for _, mod := range []uint64{5, 17, 97, 65537, smallPrime, largePrime} {
		for lg := 1; lg <= min(16, bits.TrailingZeros64(mod-1)); lg++ {
			plan, err := NewPlan(lg, mod)
			a.NoError(err)

			n := uint64(plan.Size())
			a.Equal(uint64(1), field.ModPow(plan.Root(), n, mod), "p=%d log=%d", mod, lg)
			a.NotEqual(uint64(1), field.ModPow(plan.Root(), n/2, mod), "p=%d log=%d", mod, lg)

			inv, err := field.InverseMod(n, mod)
			a.NoError(err)
			a.Equal(inv, plan.SizeInverse())
		}
	}
}

func TestLinearity(t *testing.T) {
	a := assert.New(t)
	rnd := rand.New(rand.NewSource(3))

	plan, err := NewPlan(9, smallPrime)
	a.NoError(err)

	x := randomVector(rnd, plan.Size(), smallPrime)
	y := randomVector(rnd, plan.Size(), smallPrime)

	sum := make([]uint64, plan.Size())
	for i := range sum {
		sum[i] = field.AddMod(x[i], y[i], smallPrime)
	}

	fx, fy, fsum := plan.Apply(x, Forward), plan.Apply(y, Forward), plan.Apply(sum, Forward)
	for i := range fsum {
		a.Equal(field.AddMod(fx[i], fy[i], smallPrime), fsum[i])
	}
}

func TestTransformDoesNotTouchSource(t *testing.T) {
	a := assert.New(t)

	plan, err := NewPlan(5, smallPrime)
	a.NoError(err)

	in := randomVector(rand.New(rand.NewSource(4)), plan.Size(), smallPrime)
	cpy := append([]uint64(nil), in...)

	out := make([]uint64, plan.Size())
	plan.Forward(out, in)
	a.Equal(cpy, in)
}

func TestTransformLengthMismatch(t *testing.T) {
	a := assert.New(t)

	plan, err := NewPlan(3, 17)
	a.NoError(err)

	a.ErrorIs(plan.Transform(make([]uint64, 4), Forward), ErrLengthMismatch)
	a.Panics(func() { plan.Apply(make([]uint64, 9), Inverse) })
}

func TestDirectionString(t *testing.T) {
	a := assert.New(t)

	a.Equal("forward", Forward.String())
	a.Equal("inverse", Inverse.String())
}

func FuzzRoundTrip(f *testing.F) {
	f.Add(uint64(1), uint8(3))
	f.Add(uint64(1<<62), uint8(8))
	f.Add(uint64(largePrime-1), uint8(0))

	cache := NewPlanCache(largePrime)

	f.Fuzz(func(t *testing.T, seed uint64, lg uint8) {
		plan, err := cache.Plan(int(lg % 11))
		if err != nil {
			t.Fatal(err)
		}

		in := randomVector(rand.New(rand.NewSource(int64(seed))), plan.Size(), largePrime)
		buf := append([]uint64(nil), in...)

		plan.Forward(buf, buf)
		plan.Inverse(buf, buf)

		for i := range in {
			if in[i] != buf[i] {
				t.Fatalf("index %d: expected %d, got %d", i, in[i], buf[i])
			}
		}
	})
}

func BenchmarkForward(b *testing.B) {
	for _, lg := range []int{8, 12, 16, 20} {
		b.Run(fmt.Sprintf("log=%d", lg), func(b *testing.B) {
			plan, err := NewPlan(lg, smallPrime)
			if err != nil {
				b.Fatal(err)
			}

			buf := randomVector(rand.New(rand.NewSource(5)), plan.Size(), smallPrime)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				plan.Forward(buf, buf)
			}
		})
	}
}

func BenchmarkInverse(b *testing.B) {
	plan, err := NewPlan(16, largePrime)
	if err != nil {
		b.Fatal(err)
	}

	src := randomVector(rand.New(rand.NewSource(6)), plan.Size(), largePrime)
	dst := make([]uint64, plan.Size())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		plan.Inverse(dst, src)
	}
}
