package field

import (
	"errors"
	"math/big"
	"slices"
)

var ErrNoGenerator = errors.New("no generator found, modulus is not prime")

// trialBound is where trial division hands over to Pollard's rho.
const trialBound = 1 << 16

// PrimeFactors returns the distinct prime divisors of n in increasing order.
//
// Trial division runs up to min(sqrt(n), trialBound). For NTT moduli k*2^s+1 this
// is already everything: k is small. A large cofactor left after trial division
// is either prime or split with Pollard's rho.
func PrimeFactors(n uint64) []uint64 {
	var factors []uint64
	for i := uint64(2); i <= n/i && i < trialBound; i++ {
		if n%i != 0 {
			continue
		}

		factors = append(factors, i)
		for n%i == 0 {
			n /= i
		}
	}

	if n > 1 {
		factors = append(factors, largeFactors(n)...)
	}

	slices.Sort(factors)

	return slices.Compact(factors)
}

// largeFactors returns the prime factors of n, which has no divisor below trialBound.
func largeFactors(n uint64) []uint64 {
	if n == 1 {
		return nil
	}

	// exact for every n < 2^64.
	if new(big.Int).SetUint64(n).ProbablyPrime(0) {
		return []uint64{n}
	}

	d := pollardRho(n)

	return append(largeFactors(d), largeFactors(n/d)...)
}

// pollardRho returns a non-trivial divisor of the odd composite n.
// https://en.wikipedia.org/wiki/Pollard%27s_rho_algorithm
func pollardRho(n uint64) uint64 {
	for c := uint64(1); ; c++ {
		next := func(x uint64) uint64 {
			s := MulMod(x, x, n) + c
			if s < c || s >= n {
				s -= n
			}

			return s
		}

		x, y, d := uint64(2), uint64(2), uint64(1)
		for d == 1 {
			x = next(x)
			y = next(next(y))

			diff := x - y
			if x < y {
				diff = y - x
			}

			d = gcd(diff, n)
		}

		if d != n {
			return d
		}
	}
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}

// IsGenerator reports whether g generates (Z/mZ)*, given the prime factors of m-1.
// g is a generator iff g^((m-1)/q) != 1 for every prime q dividing m-1.
func IsGenerator(g, m uint64, factors []uint64) bool {
	if g%m == 0 {
		return false
	}

	for _, q := range factors {
		if ModPow(g, (m-1)/q, m) == 1 {
			return false
		}
	}

	return true
}

// maxCandidate bounds the generator search. The least primitive root of every
// prime below 2^63 is far smaller, so hitting it means m is not prime.
const maxCandidate = 1 << 16

// PrimitiveRoot returns the smallest generator of (Z/mZ)* for a prime m.
// Primality is not checked: for a composite m the result is meaningless, and
// ErrNoGenerator is returned once every candidate below min(m, 2^16) was rejected.
func PrimitiveRoot(m uint64) (uint64, error) {
	if m < 2 {
		return 0, ErrNoGenerator
	}

	return primitiveRoot(m, PrimeFactors(m-1))
}

func primitiveRoot(m uint64, factors []uint64) (uint64, error) {
	if m == 2 {
		return 1, nil
	}

	for g := uint64(2); g < min(m, maxCandidate); g++ {
		if IsGenerator(g, m, factors) {
			return g, nil
		}
	}

	return 0, ErrNoGenerator
}
