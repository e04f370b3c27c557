// Package bench times transforms and convolutions over a range of sizes and
// renders the results as an HTML chart.
package bench

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jonathanmweiss/go-ntt"
	"github.com/jonathanmweiss/go-ntt/internal/logging"
	"github.com/pkg/errors"
)

type Options struct {
	Modulus uint64
	MinLog  int
	MaxLog  int
	Rounds  int
	Seed    string
	// Workers is the batch parallelism; 0 means GOMAXPROCS.
	Workers int
}

// Result holds the fastest of Rounds runs for one transform size.
type Result struct {
	Log      int
	Size     int
	Forward  time.Duration
	Inverse  time.Duration
	Multiply time.Duration
	// Batch is the per-buffer time of one TransformBatch call over several buffers.
	Batch time.Duration
}

func (r Result) String() string {
	return fmt.Sprintf("log=%-2d n=%-8d forward=%-12v inverse=%-12v multiply=%-12v batch=%v",
		r.Log, r.Size, r.Forward, r.Inverse, r.Multiply, r.Batch)
}

// ErrRoundTrip is returned when an inverse transform does not restore its input.
var ErrRoundTrip = errors.New("inverse transform did not restore the input")

const batchBuffers = 8

// Run sweeps log from MinLog to MaxLog. Every round trip is checked, so a sweep
// doubles as a smoke test of the modulus.
func Run(ctx context.Context, o Options) ([]Result, error) {
	if o.Rounds <= 0 {
		return nil, errors.Errorf("rounds must be positive, got %d", o.Rounds)
	}

	logger := logging.Component("bench")
	cache := ntt.NewPlanCache(o.Modulus)

	conv, err := ntt.NewConvolver(o.Modulus, ntt.WithPlanCache(cache), ntt.WithNaiveThreshold(-1))
	if err != nil {
		return nil, err
	}

	sampler := NewSampler(o.Seed, o.Modulus)

	results := make([]Result, 0, max(0, o.MaxLog-o.MinLog+1))
	for lg := o.MinLog; lg <= o.MaxLog; lg++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		plan, err := cache.Plan(lg)
		if err != nil {
			return results, errors.Wrapf(err, "log %d", lg)
		}

		res, err := measure(ctx, plan, conv, sampler, o)
		if err != nil {
			return results, errors.Wrapf(err, "log %d", lg)
		}

		logger.Info().
			Int("log", lg).
			Dur("forward", res.Forward).
			Dur("inverse", res.Inverse).
			Dur("multiply", res.Multiply).
			Msg("size measured")

		results = append(results, res)
	}

	return results, nil
}

func measure(ctx context.Context, plan *ntt.Plan, conv *ntt.Convolver, s *Sampler, o Options) (Result, error) {
	n := plan.Size()
	res := Result{Log: plan.Log(), Size: n}

	in := s.Vector(n)
	fwd := make([]uint64, n)
	back := make([]uint64, n)

	res.Forward = fastest(o.Rounds, func() { plan.Forward(fwd, in) })
	res.Inverse = fastest(o.Rounds, func() { plan.Inverse(back, fwd) })

	if !slices.Equal(in, back) {
		return res, ErrRoundTrip
	}

	// two halves, so the product exactly fills the plan.
	half := max(1, n/2)
	x, y := s.Vector(half), s.Vector(half)
	var merr error
	res.Multiply = fastest(o.Rounds, func() {
		if _, err := conv.Multiply(x, y); err != nil {
			merr = err
		}
	})
	if merr != nil {
		return res, merr
	}

	bufs := make([][]uint64, batchBuffers)
	for i := range bufs {
		bufs[i] = s.Vector(n)
	}

	var berr error
	res.Batch = fastest(o.Rounds, func() {
		if err := ntt.TransformBatch(ctx, plan, bufs, ntt.Forward, o.Workers); err != nil {
			berr = err
		}
	}) / batchBuffers

	return res, berr
}

func fastest(rounds int, f func()) time.Duration {
	best := time.Duration(1<<63 - 1)
	for i := 0; i < rounds; i++ {
		start := time.Now()
		f()
		best = min(best, time.Since(start))
	}

	return best
}
