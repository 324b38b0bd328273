// SPDX-License-Identifier: MIT

package flag

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/plantqc/frame"
)

// columnKernel flags one column; j is the column position for per-column options.
type columnKernel func(v []float64, j int) []bool

// resolveColumns maps an empty selection to every column of the frame.
func resolveColumns(f *frame.Frame, cols []string) ([]string, error) {
	if f == nil {
		return nil, frame.ErrNilFrame
	}
	if len(cols) == 0 {
		return f.Columns(), nil
	}
	if err := f.Require(cols...); err != nil {
		return nil, err
	}

	return append([]string(nil), cols...), nil
}

// resolveSchema is resolveColumns over a plan's schema; it does not run the plan.
func resolveSchema(lf *frame.LazyFrame, cols []string) ([]string, error) {
	if lf == nil {
		return nil, frame.ErrNilFrame
	}
	have, err := lf.Columns()
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return have, nil
	}

	return resolveSchemaFrom(have, cols)
}

// resolveSchemaFrom checks that every name in cols is part of schema.
func resolveSchemaFrom(schema, cols []string) ([]string, error) {
	set := make(map[string]struct{}, len(schema))
	for _, c := range schema {
		set[c] = struct{}{}
	}
	for _, c := range cols {
		if _, ok := set[c]; !ok {
			return nil, fmt.Errorf("%w: %q", frame.ErrUnknownColumn, c)
		}
	}

	return append([]string(nil), cols...), nil
}

// broadcast expands a length-1 option to n entries, or checks its length is n.
func broadcast(name string, v []float64, n int) ([]float64, error) {
	switch len(v) {
	case 1:
		out := make([]float64, n)
		for i := range out {
			out[i] = v[0]
		}

		return out, nil
	case n:
		return append([]float64(nil), v...), nil
	}

	return nil, fmt.Errorf("%w: %s has %d values for %d columns", ErrLengthMismatch, name, len(v), n)
}

// applyKernel runs kernel over every named column and assembles the mask.
func applyKernel(f *frame.Frame, cols []string, kernel columnKernel) (*frame.Mask, error) {
	out := make([]frame.BoolSeries, len(cols))
	for j, name := range cols {
		v, err := f.View(name)
		if err != nil {
			return nil, err
		}
		out[j] = frame.BoolSeries{Name: name, Values: kernel(v, j)}
	}

	return frame.NewMask(f.Len(), f.Index(), out...)
}

// lazyKernel defers applyKernel over a plan.
func lazyKernel(lf *frame.LazyFrame, name string, cols []string, kernel columnKernel) *frame.LazyMask {
	return frame.NewLazyMask(lf, name, cols, func(_ context.Context, f *frame.Frame) (*frame.Mask, error) {
		return applyKernel(f, cols, kernel)
	})
}

func isNull(v float64) bool { return math.IsNaN(v) }
