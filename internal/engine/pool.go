package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ordered runs fn over inputs on at most limit goroutines and returns the
// kept outputs in input order. fn returning keep=false leaves no output for
// that position. The first error cancels the remaining work.
func ordered[In, Out any](ctx context.Context, e *Engine, limit int, inputs []In, fn func(ctx context.Context, i int, in In) (out Out, keep bool, err error)) ([]Out, error) {
	if limit < 1 {
		limit = 1
	}

	outs := make([]Out, len(inputs))
	keep := make([]bool, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, in := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			e.metrics.ActiveWorkers.Add(1)
			defer e.metrics.ActiveWorkers.Add(-1)

			out, ok, err := fn(gctx, i, in)
			if err != nil {
				return err
			}
			outs[i], keep[i] = out, ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make([]Out, 0, len(inputs))
	for i, ok := range keep {
		if ok {
			result = append(result, outs[i])
		}
	}
	return result, nil
}
