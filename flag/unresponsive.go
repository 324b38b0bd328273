// SPDX-License-Identifier: MIT

package flag

import (
	"fmt"

	"github.com/katalvlaran/plantqc/frame"
)

// DefaultUnresponsiveThreshold is the run length that marks a stuck sensor.
const DefaultUnresponsiveThreshold = 3

// UnresponsiveOptions configures Unresponsive.
//   - Columns: columns to flag; empty ⇒ every column.
//   - Threshold: minimum number of consecutive identical readings (≥ 1).
type UnresponsiveOptions struct {
	Columns   []string
	Threshold int
}

// DefaultUnresponsiveOptions returns Threshold 3 over every column.
func DefaultUnresponsiveOptions() UnresponsiveOptions {
	return UnresponsiveOptions{Threshold: DefaultUnresponsiveThreshold}
}

// Unresponsive flags every observation that belongs to a maximal run of at
// least Threshold consecutive identical non-null values.
//
// Behavior highlights:
//   - The whole run is flagged, including the readings before the one that
//     confirms it.
//   - NaN never equals anything: it breaks runs and is never flagged.
//   - A run cut short by the end of the data is flagged only if it already
//     reached Threshold.
//
// Errors:
//   - ErrInvalidThreshold, frame.ErrUnknownColumn.
//
// Complexity: O(rows · columns).
func Unresponsive(f *frame.Frame, opts UnresponsiveOptions) (*frame.Mask, error) {
	if opts.Threshold < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, opts.Threshold)
	}
	cols, err := resolveColumns(f, opts.Columns)
	if err != nil {
		return nil, fmt.Errorf("flag: Unresponsive: %w", err)
	}

	return applyKernel(f, cols, unresponsiveKernel(opts.Threshold))
}

// UnresponsiveLazy is Unresponsive over a deferred plan.
func UnresponsiveLazy(lf *frame.LazyFrame, opts UnresponsiveOptions) (*frame.LazyMask, error) {
	if opts.Threshold < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, opts.Threshold)
	}
	cols, err := resolveSchema(lf, opts.Columns)
	if err != nil {
		return nil, fmt.Errorf("flag: UnresponsiveLazy: %w", err)
	}

	return lazyKernel(lf, "unresponsive", cols, unresponsiveKernel(opts.Threshold)), nil
}

func unresponsiveKernel(threshold int) columnKernel {
	return func(v []float64, _ int) []bool {
		return stuckRuns(v, threshold)
	}
}

// stuckRuns marks maximal runs of identical non-null values of length ≥ threshold.
func stuckRuns(v []float64, threshold int) []bool {
	out := make([]bool, len(v))
	start := 0
	for i := 1; i <= len(v); i++ {
		if i < len(v) && !isNull(v[i]) && v[i] == v[i-1] {
			continue
		}
		// run is v[start:i]
		if !isNull(v[start]) && i-start >= threshold {
			for k := start; k < i; k++ {
				out[k] = true
			}
		}
		start = i
	}

	return out
}
