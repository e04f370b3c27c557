package ntt

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

/*
TransformBatch transforms every buffer of bufs in place, spreading them over
workers goroutines (GOMAXPROCS when workers <= 0).

Each worker runs on its own clone of plan, so plan itself is never used and
may be in use elsewhere. Lengths are checked before any work starts. The
context is checked between buffers; a single transform is never interrupted.
*/
func TransformBatch(ctx context.Context, plan *Plan, bufs [][]uint64, dir Direction, workers int) error {
	for i, buf := range bufs {
		if len(buf) != plan.Size() {
			return fmt.Errorf("buffer %d: %w", i, ErrLengthMismatch)
		}
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(bufs))

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			p := plan.Clone()
			for i := w; i < len(bufs); i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}

				if dir == Forward {
					p.Forward(bufs[i], bufs[i])
				} else {
					p.Inverse(bufs[i], bufs[i])
				}
			}

			return nil
		})
	}

	return g.Wait()
}
