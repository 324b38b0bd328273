// SPDX-License-Identifier: MIT

package flag

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/plantqc/frame"
)

// WindowOptions configures WindowRange. Bounds are inclusive.
type WindowOptions struct {
	WindowColumn string
	WindowStart  float64
	WindowEnd    float64
	ValueColumn  string
	ValueMin     float64
	ValueMax     float64
}

// DefaultWindowOptions returns unbounded windows for the two columns.
func DefaultWindowOptions(windowColumn, valueColumn string) WindowOptions {
	return WindowOptions{
		WindowColumn: windowColumn,
		WindowStart:  math.Inf(-1),
		WindowEnd:    math.Inf(1),
		ValueColumn:  valueColumn,
		ValueMin:     math.Inf(-1),
		ValueMax:     math.Inf(1),
	}
}

// WindowRange flags rows where WindowStart ≤ window ≤ WindowEnd and the value
// is outside [ValueMin, ValueMax]. A null in either column is not flagged.
// The mask has a single column named after ValueColumn.
func WindowRange(f *frame.Frame, opts WindowOptions) (*frame.Mask, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, frame.ErrNilFrame
	}

	return windowMask(f, opts)
}

// WindowRangeLazy is WindowRange over a deferred plan.
func WindowRangeLazy(lf *frame.LazyFrame, opts WindowOptions) (*frame.LazyMask, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if _, err := resolveSchema(lf, []string{opts.WindowColumn, opts.ValueColumn}); err != nil {
		return nil, fmt.Errorf("flag: WindowRangeLazy: %w", err)
	}

	return frame.NewLazyMask(lf, "window_range", []string{opts.ValueColumn},
		func(_ context.Context, f *frame.Frame) (*frame.Mask, error) {
			return windowMask(f, opts)
		}), nil
}

func (o WindowOptions) validate() error {
	if o.WindowColumn == "" || o.ValueColumn == "" {
		return fmt.Errorf("%w: window and value columns are required", ErrInvalidOption)
	}
	if !(o.WindowStart <= o.WindowEnd) || !(o.ValueMin <= o.ValueMax) {
		return fmt.Errorf("%w: window [%v, %v], value [%v, %v]",
			ErrInvalidOption, o.WindowStart, o.WindowEnd, o.ValueMin, o.ValueMax)
	}

	return nil
}

func windowMask(f *frame.Frame, opts WindowOptions) (*frame.Mask, error) {
	w, err := f.View(opts.WindowColumn)
	if err != nil {
		return nil, fmt.Errorf("flag: WindowRange: %w", err)
	}
	v, err := f.View(opts.ValueColumn)
	if err != nil {
		return nil, fmt.Errorf("flag: WindowRange: %w", err)
	}
	out := make([]bool, len(v))
	for i := range v {
		inWindow := w[i] >= opts.WindowStart && w[i] <= opts.WindowEnd
		out[i] = inWindow && (v[i] < opts.ValueMin || v[i] > opts.ValueMax)
	}

	return frame.NewMask(f.Len(), f.Index(), frame.BoolSeries{Name: opts.ValueColumn, Values: out})
}
