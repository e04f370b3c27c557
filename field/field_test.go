package field

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

const largePrime = 9191248642791733759

func TestRootsOfUnity(t *testing.T) {
	a := assert.New(t)

	f, err := NewPrimeField(65537)
	a.NoError(err)

	root, err := f.RootOfUnity(4)
	a.NoError(err)
	a.Equal(uint64(65281), root)

	root, err = f.RootOfUnity(8)
	a.NoError(err)
	a.Equal(uint64(4096), root)

	f, err = NewPrimeField(157)
	a.NoError(err)

	root, err = f.RootOfUnity(4)
	a.NoError(err)
	a.Equal(uint64(129), root)

	_, err = f.RootOfUnity(3)
	a.ErrorIs(err, ErrNotPowerOfTwo)

	_, err = f.RootOfUnity(8)
	a.ErrorIs(err, ErrNotDivisible)
}

func TestRootOfUnityOrder(t *testing.T) {
	a := assert.New(t)

	for _, p := range []uint64{5, 17, 97, 65537, 998244353, 4179340454199820289} {
		f, err := NewPrimeField(p)
		a.NoError(err)

		for n := uint64(2); (p-1)%n == 0 && n <= 1<<20; n <<= 1 {
			w, err := f.RootOfUnity(n)
			a.NoError(err)

			a.Equal(uint64(1), f.Pow(w, n), "p=%d n=%d", p, n)
			a.NotEqual(uint64(1), f.Pow(w, n/2), "p=%d n=%d", p, n)
		}
	}
}

func TestNewPrimeField(t *testing.T) {
	a := assert.New(t)

	_, err := NewPrimeField(1 << 63)
	a.ErrorIs(err, ErrPrimeTooLarge)

	_, err = NewPrimeField(15)
	a.ErrorIs(err, errNotPrime)

	f, err := NewPrimeField(998244353)
	a.NoError(err)
	a.Equal(uint64(3), f.Generator())
	a.Equal([]uint64{2, 7, 17}, f.Factors())
}

func TestCorrectOps(t *testing.T) {
	a := assert.New(t)

	f, err := NewPrimeField(largePrime) // p > 2^62
	a.NoError(err)

	n := uint64((1 << 63) - 1)

	e1 := f.Reduce(n)

	asBigInt := new(big.Int).SetUint64(largePrime)
	e2 := new(big.Int).SetUint64(n)
	e2.Mul(e2, e2)
	e2.Mod(e2, asBigInt)

	a.Equal(e2.Uint64(), f.Mul(e1, e1))

	res := f.Mul(e1, f.Inverse(e1))
	a.Equal(uint64(1), res)

	a.Equal(uint64(0), f.Add(e1, f.Neg(e1)))
	a.Equal(f.Neg(1), f.Sub(0, 1))
}

func TestModPow(t *testing.T) {
	a := assert.New(t)

	a.Equal(uint64(0), ModPow(5, 3, 1))
	a.Equal(uint64(1), ModPow(0, 0, 7))
	a.Equal(uint64(1), ModPow(2, 4, 5))
	a.Equal(uint64(4), ModPow(2, 2, 5))
	// base larger than the modulus is reduced first.
	a.Equal(ModPow(3, 10, 7), ModPow(10, 10, 7))

	m := uint64(largePrime)
	x := uint64(1<<63 + 12345)
	want := new(big.Int).Exp(new(big.Int).SetUint64(x), big.NewInt(1<<40+3), new(big.Int).SetUint64(m))
	a.Equal(want.Uint64(), ModPow(x, 1<<40+3, m))
}

func TestInverseMod(t *testing.T) {
	a := assert.New(t)

	inv, err := InverseMod(3, 7)
	a.NoError(err)
	a.Equal(uint64(5), inv)

	// composite modulus, coprime value.
	inv, err = InverseMod(7, 40)
	a.NoError(err)
	a.Equal(uint64(23), inv)

	_, err = InverseMod(4, 8)
	a.ErrorIs(err, ErrNotInvertible)

	_, err = InverseMod(0, 17)
	a.ErrorIs(err, ErrNotInvertible)

	_, err = InverseMod(3, 0)
	a.ErrorIs(err, ErrNotInvertible)

	inv, err = InverseMod(12345, 1)
	a.NoError(err)
	a.Equal(uint64(0), inv)

	f, err := NewPrimeField(largePrime)
	a.NoError(err)

	for _, v := range []uint64{1, 2, 54347, 1<<62 + 1, largePrime - 1} {
		inv, err := InverseMod(v, largePrime)
		a.NoError(err)
		a.Equal(f.Inverse(v), inv)
	}
}

// FuzzInverse checks that Fermat and Euclid agree on every nonzero residue.
func FuzzInverse(f *testing.F) {
	for _, seed := range []uint64{1, 2, 54347, largePrime - 1, 1<<63 - 1} {
		f.Add(seed)
	}

	fld, err := NewPrimeField(largePrime)
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, x uint64) {
		x = fld.Reduce(x)
		if x == 0 {
			t.Skip()
		}

		fermat := fld.Inverse(x)
		euclid, err := InverseMod(x, largePrime)
		if err != nil {
			t.Fatal(err)
		}

		if fermat != euclid || fld.Mul(x, fermat) != 1 {
			t.Fatalf("inverse of %d: fermat %d, euclid %d", x, fermat, euclid)
		}
	})
}

// FuzzFieldOps compares Add, Sub, Mul and Neg with math/big.
func FuzzFieldOps(f *testing.F) {
	f.Add(uint64(0), uint64(0))
	f.Add(uint64(largePrime-1), uint64(largePrime-1))
	f.Add(uint64(1<<63-1), uint64(12345))

	fld, err := NewPrimeField(largePrime)
	if err != nil {
		f.Fatal(err)
	}
	m := new(big.Int).SetUint64(largePrime)

	f.Fuzz(func(t *testing.T, x, y uint64) {
		x, y = fld.Reduce(x), fld.Reduce(y)
		bx, by := new(big.Int).SetUint64(x), new(big.Int).SetUint64(y)

		check := func(op string, got uint64, want *big.Int) {
			if want.Mod(want, m).Uint64() != got {
				t.Fatalf("%s(%d, %d) = %d, want %d", op, x, y, got, want)
			}
		}

		check("add", fld.Add(x, y), new(big.Int).Add(bx, by))
		check("sub", fld.Sub(x, y), new(big.Int).Sub(bx, by))
		check("mul", fld.Mul(x, y), new(big.Int).Mul(bx, by))
		check("neg", fld.Neg(x), new(big.Int).Neg(bx))
	})
}

func BenchmarkMulMod(b *testing.B) {
	e1 := uint64(largePrime - 2)
	e2 := uint64((1 << 60) + 312)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MulMod(e1, e2, largePrime)
	}
}

func powSlow(x, k, m uint64) uint64 {
	if k == 0 {
		return 1
	}

	eBigInt := new(big.Int).SetUint64(x)
	kBigInt := new(big.Int).SetUint64(k)
	mBigInt := new(big.Int).SetUint64(m)

	return eBigInt.Exp(eBigInt, kBigInt, mBigInt).Uint64()
}

func BenchmarkPowMod(b *testing.B) {
	e1 := uint64((1 << 63) - 2)

	b.ResetTimer()
	b.Run("Pow", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			ModPow(e1, 1<<62, largePrime)
		}
	})

	b.Run("PowBig", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			powSlow(e1, 1<<62, largePrime)
		}
	})
}
