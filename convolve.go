package ntt

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/jonathanmweiss/go-ntt/field"
)

var ErrEmptyInput = errors.New("cannot convolve an empty sequence")

// PointwiseMul computes dst[i] = a[i]*b[i] (mod Modulus). Lengths are not checked.
func (p *Plan) PointwiseMul(dst, a, b []uint64) {
	mod := p.modulus
	for i := range dst {
		dst[i] = field.MulMod(a[i], b[i], mod)
	}
}

/*
Convolve replaces a with the cyclic convolution of a and b:
a[k] = sum_{i+j = k mod Size} a[i]*b[j].

b is overwritten with its forward transform. Both slices must have length Size
and hold reduced values.
*/
func (p *Plan) Convolve(a, b []uint64) error {
	if len(a) != p.size || len(b) != p.size {
		return ErrLengthMismatch
	}

	p.Forward(a, a)
	p.Forward(b, b)
	p.PointwiseMul(a, a, b)
	p.Inverse(a, a)

	return nil
}

// DefaultNaiveThreshold is the shorter input length up to which Multiply uses
// the schoolbook product.
const DefaultNaiveThreshold = 32

// Convolver multiplies sequences (polynomial coefficient vectors) modulo a fixed prime.
// It is safe for concurrent use.
type Convolver struct {
	cache          *PlanCache
	naiveThreshold int
}

type Option func(*Convolver)

// WithNaiveThreshold sets the shorter-input length at or below which the
// schoolbook product is used instead of transforms. A negative value disables it.
func WithNaiveThreshold(n int) Option {
	return func(c *Convolver) {
		c.naiveThreshold = n
	}
}

// WithPlanCache shares an existing cache instead of creating one.
func WithPlanCache(cache *PlanCache) Option {
	return func(c *Convolver) {
		c.cache = cache
	}
}

func NewConvolver(modulus uint64, opts ...Option) (*Convolver, error) {
	if err := validateModulus(modulus); err != nil {
		return nil, err
	}

	c := &Convolver{naiveThreshold: DefaultNaiveThreshold}
	for _, opt := range opts {
		opt(c)
	}

	if c.cache == nil {
		c.cache = NewPlanCache(modulus)
	}

	if c.cache.Modulus() != modulus {
		return nil, fmt.Errorf("plan cache modulus %d differs from %d", c.cache.Modulus(), modulus)
	}

	return c, nil
}

func (c *Convolver) Modulus() uint64 {
	return c.cache.Modulus()
}

// MaxProductLen returns the longest product the modulus can support with transforms,
// i.e. the largest power of two dividing modulus-1 (capped at 2^MaxLog).
func (c *Convolver) MaxProductLen() int {
	tz := bits.TrailingZeros64(c.Modulus() - 1)

	return 1 << min(tz, MaxLog)
}

/*
Multiply returns the linear convolution of a and b modulo the prime, of length
len(a)+len(b)-1: the coefficients of the product polynomial.

Inputs are reduced first and never modified.
*/
func (c *Convolver) Multiply(a, b []uint64) ([]uint64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}

	mod := c.Modulus()
	if min(len(a), len(b)) <= c.naiveThreshold {
		return NaiveConvolve(a, b, mod), nil
	}

	n := len(a) + len(b) - 1
	lg := bits.Len(uint(n - 1)) // smallest lg with 1<<lg >= n
	if n > c.MaxProductLen() {
		return nil, fmt.Errorf("product length %d: %w", n, ErrNoRootOfUnity)
	}

	plan, err := c.cache.Acquire(lg)
	if err != nil {
		return nil, err
	}
	defer c.cache.Release(plan)

	fa := make([]uint64, plan.Size())
	fb := make([]uint64, plan.Size())
	for i, v := range a {
		fa[i] = v % mod
	}

	for i, v := range b {
		fb[i] = v % mod
	}

	if err := plan.Convolve(fa, fb); err != nil {
		return nil, err
	}

	return fa[:n], nil
}

// Square returns the linear convolution of a with itself, using one forward transform.
func (c *Convolver) Square(a []uint64) ([]uint64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}

	mod := c.Modulus()
	if len(a) <= c.naiveThreshold {
		return NaiveConvolve(a, a, mod), nil
	}

	n := 2*len(a) - 1
	if n > c.MaxProductLen() {
		return nil, fmt.Errorf("product length %d: %w", n, ErrNoRootOfUnity)
	}

	plan, err := c.cache.Acquire(bits.Len(uint(n - 1)))
	if err != nil {
		return nil, err
	}
	defer c.cache.Release(plan)

	fa := make([]uint64, plan.Size())
	for i, v := range a {
		fa[i] = v % mod
	}

	plan.Forward(fa, fa)
	plan.PointwiseMul(fa, fa, fa)
	plan.Inverse(fa, fa)

	return fa[:n], nil
}
