package ntt

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/jonathanmweiss/go-ntt/field"
)

// MaxLog bounds the transform size to 2^MaxLog.
const MaxLog = 30

var (
	ErrNegativeLog     = errors.New("log must be non-negative")
	ErrLogTooLarge     = fmt.Errorf("log must be at most %d", MaxLog)
	ErrModulusTooSmall = errors.New("modulus must be at least 2")
	ErrModulusTooLarge = fmt.Errorf("modulus must be below 2^%d", field.MaxBitUsage)
	ErrNoRootOfUnity   = errors.New("modulus admits no root of unity of the transform size: size must divide modulus-1")
	ErrBadMultiplier   = errors.New("multiplier must be positive and k*size+1 must fit in 63 bits")
	ErrLengthMismatch  = errors.New("buffer length does not match the plan size")
)

// tables is the read-only part of a plan. It is shared between plan handles.
type tables struct {
	log     int
	size    int
	modulus uint64
	root    uint64
	sizeInv uint64

	// forward[i] = root^i, inverse[i] = root^-i.
	// stage s reads index j>>s<<s, so one flat table serves every stage.
	forward []uint64
	inverse []uint64
	rev     []int
}

/*
Plan is a transform of size 2^log modulo a prime.

The twiddle and bit-reversal tables are computed once and never change. The
scratch buffer makes a Plan unsafe for concurrent use: give every goroutine
its own handle with Clone, which shares the tables.
*/
type Plan struct {
	*tables
	scratch []uint64

	// set while the handle sits in a PlanCache pool.
	inPool atomic.Bool
}

// NewPlan builds a plan of size 2^log over the prime modulus, which must satisfy modulus = 1 (mod 2^log).
// Primality is the caller's responsibility.
func NewPlan(log int, modulus uint64) (*Plan, error) {
	t, err := buildTables(log, modulus)
	if err != nil {
		return nil, err
	}

	return t.newPlan(), nil
}

// NewPlanFromMultiplier builds a plan of size 2^log over the modulus k*2^log + 1.
func NewPlanFromMultiplier(log int, k uint64) (*Plan, error) {
	if err := validateLog(log); err != nil {
		return nil, err
	}

	// k*2^log + 1 <= 2^63 - 1
	if k == 0 || k > (1<<field.MaxBitUsage-2)>>log {
		return nil, ErrBadMultiplier
	}

	return NewPlan(log, k<<log+1)
}

// NewPlanForField builds a plan of size 2^log over f, reusing its generator
// instead of searching for one.
func NewPlanForField(log int, f field.Field) (*Plan, error) {
	if err := checkSize(log, f.Modulus()); err != nil {
		return nil, err
	}

	t, err := newTables(log, f.Modulus(), f.Generator())
	if err != nil {
		return nil, err
	}

	return t.newPlan(), nil
}

func validateLog(log int) error {
	if log < 0 {
		return ErrNegativeLog
	}

	if log > MaxLog {
		return ErrLogTooLarge
	}

	return nil
}

func validateModulus(modulus uint64) error {
	switch {
	case modulus < 2:
		return ErrModulusTooSmall
	case modulus >= 1<<field.MaxBitUsage:
		return ErrModulusTooLarge
	}

	return nil
}

func checkSize(log int, modulus uint64) error {
	if err := validateLog(log); err != nil {
		return err
	}

	if err := validateModulus(modulus); err != nil {
		return err
	}

	if (modulus-1)%(uint64(1)<<log) != 0 {
		return ErrNoRootOfUnity
	}

	return nil
}

func generator(modulus uint64) (uint64, error) {
	g, err := field.PrimitiveRoot(modulus)
	if err != nil {
		return 0, fmt.Errorf("modulus %d: %w", modulus, err)
	}

	return g, nil
}

func buildTables(log int, modulus uint64) (*tables, error) {
	if err := checkSize(log, modulus); err != nil {
		return nil, err
	}

	g, err := generator(modulus)
	if err != nil {
		return nil, err
	}

	return newTables(log, modulus, g)
}

// newTables derives the root of unity from the generator g; the size checks have been done.
func newTables(lg int, modulus, g uint64) (*tables, error) {
	n := 1 << lg
	root, err := field.RootOfUnity(g, uint64(n), modulus)
	if err != nil {
		return nil, err
	}

	t := &tables{
		log:     lg,
		size:    n,
		modulus: modulus,
		root:    root,
		// n | modulus-1, so n * (modulus - (modulus-1)/n) = 1 (mod modulus).
		sizeInv: modulus - (modulus-1)/uint64(n),
		forward: make([]uint64, n),
		inverse: make([]uint64, n),
		rev:     make([]int, n),
	}

	t.forward[0], t.inverse[0] = 1, 1
	for i := 1; i < n; i++ {
		t.forward[i] = field.MulMod(t.forward[i-1], root, modulus)
		// root^-i = root^(n-i)
		t.inverse[n-i] = t.forward[i]
		t.rev[i] = t.rev[i>>1]>>1 | (i&1)<<(lg-1)
	}

	logger().Debug().
		Int("log", lg).
		Int("size", n).
		Uint64("modulus", modulus).
		Uint64("generator", g).
		Uint64("root", root).
		Msg("ntt plan built")

	return t, nil
}

func (t *tables) newPlan() *Plan {
	return &Plan{
		tables:  t,
		scratch: make([]uint64, t.size),
	}
}

// Clone returns a plan sharing p's tables with a scratch buffer of its own.
func (p *Plan) Clone() *Plan {
	return p.tables.newPlan()
}

func (p *Plan) Log() int {
	return p.log
}

// Size returns the transform length 2^Log.
func (p *Plan) Size() int {
	return p.size
}

func (p *Plan) Modulus() uint64 {
	return p.modulus
}

// Root returns the primitive Size-th root of unity used by the forward transform.
func (p *Plan) Root() uint64 {
	return p.root
}

// SizeInverse returns Size^-1 (mod Modulus), the scaling factor of the inverse transform.
func (p *Plan) SizeInverse() uint64 {
	return p.sizeInv
}
