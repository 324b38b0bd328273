// SPDX-License-Identifier: MIT

package flag

import (
	"fmt"
	"math"

	"github.com/katalvlaran/plantqc/frame"
)

// RangeOptions configures Range.
//   - Columns: columns to flag; empty ⇒ every column.
//   - Lower/Upper: inclusive bounds, one value (broadcast) or one per column.
type RangeOptions struct {
	Columns []string
	Lower   []float64
	Upper   []float64
}

// DefaultRangeOptions returns unbounded options over every column.
func DefaultRangeOptions() RangeOptions {
	return RangeOptions{
		Lower: []float64{math.Inf(-1)},
		Upper: []float64{math.Inf(1)},
	}
}

// Range flags values outside [Lower, Upper]. Values on a bound are not
// flagged; NaN is not flagged.
//
// Errors:
//   - frame.ErrUnknownColumn, ErrLengthMismatch, ErrInvalidOption (lower > upper or NaN bound).
//
// Complexity: O(rows · columns).
func Range(f *frame.Frame, opts RangeOptions) (*frame.Mask, error) {
	cols, err := resolveColumns(f, opts.Columns)
	if err != nil {
		return nil, fmt.Errorf("flag: Range: %w", err)
	}
	kernel, err := rangeKernel(opts, len(cols))
	if err != nil {
		return nil, err
	}

	return applyKernel(f, cols, kernel)
}

// RangeLazy is Range over a deferred plan.
func RangeLazy(lf *frame.LazyFrame, opts RangeOptions) (*frame.LazyMask, error) {
	cols, err := resolveSchema(lf, opts.Columns)
	if err != nil {
		return nil, fmt.Errorf("flag: RangeLazy: %w", err)
	}
	kernel, err := rangeKernel(opts, len(cols))
	if err != nil {
		return nil, err
	}

	return lazyKernel(lf, "range", cols, kernel), nil
}

func rangeKernel(opts RangeOptions, n int) (columnKernel, error) {
	lower, err := broadcast("Lower", opts.Lower, n)
	if err != nil {
		return nil, fmt.Errorf("flag: Range: %w", err)
	}
	upper, err := broadcast("Upper", opts.Upper, n)
	if err != nil {
		return nil, fmt.Errorf("flag: Range: %w", err)
	}
	for j := range lower {
		if math.IsNaN(lower[j]) || math.IsNaN(upper[j]) || lower[j] > upper[j] {
			return nil, fmt.Errorf("%w: bounds [%v, %v] for column %d", ErrInvalidOption, lower[j], upper[j], j)
		}
	}

	return func(v []float64, j int) []bool {
		return outside(v, lower[j], upper[j])
	}, nil
}

// outside reports x < lo || x > hi per element; NaN compares false.
func outside(v []float64, lo, hi float64) []bool {
	out := make([]bool, len(v))
	for i, x := range v {
		out[i] = x < lo || x > hi
	}

	return out
}
