package ntt

import "lukechampine.com/uint128"

// products are below 2^126; one more fits as long as the accumulator stays below 2^126 too.
const lazyReduceHi = 1 << 62

func reduced(a []uint64, mod uint64) []uint64 {
	out := make([]uint64, len(a))
	for i, v := range a {
		out[i] = v % mod
	}

	return out
}

// NaiveConvolve returns the linear convolution of a and b modulo mod < 2^63 in O(len(a)*len(b)).
// Each output coefficient is accumulated in 128 bits and reduced lazily.
func NaiveConvolve(a, b []uint64, mod uint64) []uint64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	ar, br := reduced(a, mod), reduced(b, mod)

	out := make([]uint64, len(a)+len(b)-1)
	for k := range out {
		lo := max(0, k-len(br)+1)
		hi := min(k, len(ar)-1)

		acc := uint128.Zero
		for i := lo; i <= hi; i++ {
			acc = accumulate(acc, ar[i], br[k-i], mod)
		}

		out[k] = acc.Mod64(mod)
	}

	return out
}

// NaiveCyclicConvolve returns out[k] = sum_{i+j = k mod n} a[i]*b[j] for len(a) == len(b) == n.
func NaiveCyclicConvolve(a, b []uint64, mod uint64) []uint64 {
	n := len(a)
	ar, br := reduced(a, mod), reduced(b, mod)

	out := make([]uint64, n)
	for k := range out {
		acc := uint128.Zero
		for i := 0; i < n; i++ {
			j := k - i
			if j < 0 {
				j += n
			}

			acc = accumulate(acc, ar[i], br[j], mod)
		}

		out[k] = acc.Mod64(mod)
	}

	return out
}

func accumulate(acc uint128.Uint128, x, y, mod uint64) uint128.Uint128 {
	acc = acc.Add(uint128.From64(x).Mul64(y))
	if acc.Hi >= lazyReduceHi {
		acc = uint128.From64(acc.Mod64(mod))
	}

	return acc
}
