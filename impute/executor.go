// SPDX-License-Identifier: MIT

package impute

import (
	"context"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/errgroup"
)

// Task imputes one asset. Tasks are independent and safe to run concurrently.
type Task func(ctx context.Context) Outcome

// Outcome is the result of one Task. Index is the asset position in the
// correlation matrix and is the merge key.
type Outcome struct {
	Index  int
	Column []float64
	Report Report
}

// Dispatcher runs tasks and returns one outcome per task, in any order.
// It returns an error only when it could not run every task (e.g. ctx done).
type Dispatcher interface {
	Dispatch(ctx context.Context, tasks []Task) ([]Outcome, error)
}

type sequential struct{}

func (sequential) Dispatch(ctx context.Context, tasks []Task) ([]Outcome, error) {
	out := make([]Outcome, 0, len(tasks))
	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out = append(out, t(ctx))
	}

	return out, nil
}

// errgroupPool is the Pool mode executor.
type errgroupPool struct{ workers int }

func (p errgroupPool) Dispatch(ctx context.Context, tasks []Task) ([]Outcome, error) {
	out := make([]Outcome, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, t := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = t(gctx)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// concPool is the Distributed mode executor.
type concPool struct{ workers int }

func (p concPool) Dispatch(ctx context.Context, tasks []Task) ([]Outcome, error) {
	rp := pool.NewWithResults[Outcome]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(p.workers)
	for _, t := range tasks {
		rp.Go(func(ctx context.Context) (Outcome, error) {
			if err := ctx.Err(); err != nil {
				return Outcome{}, err
			}

			return t(ctx), nil
		})
	}

	return rp.Wait()
}

// guard turns a panic inside fn into an Outcome carrying an *AssetError.
// The asset column is returned as it was before the task ran.
func guard(index int, asset string, column []float64, fn Task) Task {
	return func(ctx context.Context) Outcome {
		var (
			pc  panics.Catcher
			out Outcome
		)
		pc.Try(func() { out = fn(ctx) })
		if r := pc.Recovered(); r != nil {
			return Outcome{
				Index:  index,
				Column: column,
				Report: Report{
					Asset:  asset,
					Reason: Crashed,
					Err:    &AssetError{Asset: asset, Err: r.AsError()},
				},
			}
		}

		return out
	}
}
