package ntt

import (
	"errors"
	"sync"

	"github.com/jonathanmweiss/go-ntt/field"
)

var errTooManyCoefficients = errors.New("polynomial has more coefficients than the transform size")

/*
Evaluator evaluates coefficient vectors at the Size-th roots of unity
1, w, w^2, ... and interpolates them back, both through a plan.

It inherits the plan's concurrency contract: one goroutine at a time.
*/
type Evaluator struct {
	plan *Plan

	once   sync.Once
	points []uint64
}

func NewEvaluator(plan *Plan) *Evaluator {
	return &Evaluator{plan: plan}
}

func (e *Evaluator) Plan() *Plan {
	return e.plan
}

// EvaluationPoints returns the points w^i in evaluation order. The slice is shared; do not modify it.
func (e *Evaluator) EvaluationPoints() []uint64 {
	e.once.Do(func() {
		n := e.plan.Size()
		if n == 1 {
			e.points = []uint64{1}
			return
		}

		// make polynomial p(x) = x.
		// then its transform is the list of evaluation points.
		inner := make([]uint64, n)
		inner[1] = 1
		e.plan.Forward(inner, inner)

		e.points = inner
	})

	return e.points
}

// Evaluate returns the values of the polynomial with the given coefficients
// (lowest degree first) at every evaluation point. coeffs is zero-padded to Size.
func (e *Evaluator) Evaluate(coeffs []uint64) ([]uint64, error) {
	n := e.plan.Size()
	if len(coeffs) > n {
		return nil, errTooManyCoefficients
	}

	mod := e.plan.Modulus()
	padded := make([]uint64, n)
	for i, c := range coeffs {
		padded[i] = c % mod
	}

	e.plan.Forward(padded, padded)

	return padded, nil
}

// Interpolate returns the coefficients of the unique polynomial of degree < Size
// taking the given values at the evaluation points, without trailing zeros.
// The zero polynomial is returned as [0].
func (e *Evaluator) Interpolate(values []uint64) ([]uint64, error) {
	if len(values) != e.plan.Size() {
		return nil, ErrLengthMismatch
	}

	mod := e.plan.Modulus()
	coeffs := make([]uint64, len(values))
	for i, v := range values {
		coeffs[i] = v % mod
	}

	e.plan.Inverse(coeffs, coeffs)

	return trimTrailingZeros(coeffs), nil
}

// VanishingPolynomial returns the coefficients of x^Size - 1, which is zero on every evaluation point.
func (e *Evaluator) VanishingPolynomial() []uint64 {
	n := e.plan.Size()
	f := e.plan.Modulus()

	inner := make([]uint64, n+1)
	inner[0] = field.SubMod(0, 1, f)
	inner[n] = 1

	return inner
}

func trimTrailingZeros(p []uint64) []uint64 {
	i := len(p) - 1
	for i > 0 && p[i] == 0 {
		i--
	}

	return p[:i+1]
}
