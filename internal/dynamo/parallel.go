package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelFor calls fn(i) for every i in [0, n) on at most workers goroutines.
// workers <= 0 means GOMAXPROCS. The first error cancels the remaining calls.
func ParallelFor(ctx context.Context, n, workers int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < n; i++ {
		if err := gctx.Err(); err != nil {
			break
		}
		idx := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, idx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
