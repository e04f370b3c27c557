// Package field implements arithmetic modulo a prime below 2^63: modular
// helpers on raw uint64 values, generator search, and a PrimeField that caches
// both for one prime.
package field

import (
	"errors"
	"math/big"
)

// Field is arithmetic in Z/pZ for a prime p. Arguments to the binary
// operations are assumed reduced.
type Field interface {
	Add(a, b uint64) uint64
	Sub(a, b uint64) uint64
	Mul(a, b uint64) uint64
	Pow(base, exp uint64) uint64

	Neg(a uint64) uint64
	Inverse(a uint64) uint64
	Reduce(a uint64) uint64

	Modulus() uint64
	Generator() uint64
	RootOfUnity(n uint64) (uint64, error)
}

// MaxBitUsage bounds the modulus so that a+b never overflows a uint64.
const MaxBitUsage = 63

var (
	ErrPrimeTooLarge = errors.New("modulus must be below 2^63")
	errNotPrime      = errors.New("modulus is not prime")

	ErrNotPowerOfTwo = errors.New("n must be a power of 2")
	ErrNotDivisible  = errors.New("n must divide p-1")
	errZeroOrder     = errors.New("n must be >= 1")
)

type PrimeField struct {
	prime     uint64
	generator uint64
	factors   []uint64
}

var _ Field = (*PrimeField)(nil)

/*
NewPrimeField checks primality once (big.Int.ProbablyPrime is exact below 2^64)
and caches the generator and the prime factors of p-1.
*/
func NewPrimeField(prime uint64) (*PrimeField, error) {
	if prime >= 1<<MaxBitUsage {
		return nil, ErrPrimeTooLarge
	}

	if !new(big.Int).SetUint64(prime).ProbablyPrime(1) {
		return nil, errNotPrime
	}

	factors := PrimeFactors(prime - 1)

	g, err := primitiveRoot(prime, factors)
	if err != nil {
		return nil, err
	}

	return &PrimeField{
		prime:     prime,
		generator: g,
		factors:   factors,
	}, nil
}

func (f *PrimeField) Modulus() uint64 {
	return f.prime
}

// Generator returns the smallest generator of the multiplicative group.
func (f *PrimeField) Generator() uint64 {
	return f.generator
}

// Factors returns the distinct primes dividing p-1, ascending.
func (f *PrimeField) Factors() []uint64 {
	return append([]uint64(nil), f.factors...)
}

// RootOfUnity returns the primitive n-th root of unity derived from the generator.
// n must be a power of two dividing p-1.
func (f *PrimeField) RootOfUnity(n uint64) (uint64, error) {
	if n == 0 {
		return 0, errZeroOrder
	}

	if n&(n-1) != 0 {
		return 0, ErrNotPowerOfTwo
	}

	return RootOfUnity(f.generator, n, f.prime)
}

func (f *PrimeField) Reduce(a uint64) uint64 {
	return a % f.prime
}

func (f *PrimeField) Add(a, b uint64) uint64 {
	return AddMod(a, b, f.prime)
}

func (f *PrimeField) Sub(a, b uint64) uint64 {
	return SubMod(a, b, f.prime)
}

func (f *PrimeField) Mul(a, b uint64) uint64 {
	return MulMod(a, b, f.prime)
}

func (f *PrimeField) Pow(base, exp uint64) uint64 {
	return ModPow(base, exp, f.prime)
}

func (f *PrimeField) Neg(a uint64) uint64 {
	if a == 0 {
		return 0
	}

	return f.prime - a
}

// Inverse returns a^(p-2), the inverse of a by Fermat's little theorem.
// It panics on zero.
func (f *PrimeField) Inverse(a uint64) uint64 {
	if a%f.prime == 0 {
		panic("field: zero has no inverse")
	}

	return ModPow(a, f.prime-2, f.prime)
}
