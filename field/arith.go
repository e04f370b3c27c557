package field

import "math/bits"

// AddMod returns a+b (mod m) for a, b < m < 2^63, where a+b cannot overflow.
func AddMod(a, b, m uint64) uint64 {
	s := a + b
	if s >= m {
		s -= m
	}

	return s
}

// SubMod returns a-b (mod m) for a, b < m.
func SubMod(a, b, m uint64) uint64 {
	if a < b {
		return m - (b - a)
	}

	return a - b
}

// MulMod returns a*b (mod m) through a 128-bit product. a and b must be below m,
// otherwise bits.Div64 panics on quotient overflow.
func MulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi, lo, m)

	return rem
}

// ModPow returns x^k (mod m) by square-and-multiply over the bits of k.
// x may be unreduced; any x^0 is 1 except modulo 1.
func ModPow(x, k, m uint64) uint64 {
	if m == 1 {
		return 0
	}

	base, res := x%m, uint64(1)
	for ; k > 0; k >>= 1 {
		if k&1 == 1 {
			res = MulMod(res, base, m)
		}
		base = MulMod(base, base, m)
	}

	return res
}

// RootOfUnity returns g^((m-1)/n) mod m. When g generates (Z/mZ)* this is a
// primitive n-th root of unity: its order is exactly n.
func RootOfUnity(g, n, m uint64) (uint64, error) {
	if n == 0 {
		return 0, errZeroOrder
	}

	if (m-1)%n != 0 {
		return 0, ErrNotDivisible
	}

	return ModPow(g, (m-1)/n, m), nil
}
