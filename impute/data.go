// SPDX-License-Identifier: MIT

package impute

import (
	"fmt"
	"math"

	"github.com/katalvlaran/plantqc/frame"
)

// Fit methods. MethodLinear is MethodPolynomial with degree 1.
const (
	MethodLinear     = "linear"
	MethodPolynomial = "polynomial"
)

// Data returns a copy of target where every null with a finite reference
// value is replaced by the polynomial fit of target on reference.
// Rows where the reference is also missing stay null.
//
// Errors:
//   - ErrLengthMismatch, ErrInvalidDegree, ErrInsufficientData.
func Data(target, reference []float64, degree int) ([]float64, error) {
	p, err := PolyFit(reference, target, degree)
	if err != nil {
		return nil, err
	}
	out := append([]float64(nil), target...)
	fill(out, reference, p)

	return out, nil
}

// DataByIndex is Data for columns of two frames, aligned on the time index
// of target (left join). Reference rows without a matching time are missing.
// When neither frame has an index the rows are aligned by position.
//
// Errors:
//   - frame.ErrUnknownColumn, frame.ErrNoIndex when only one side is indexed,
//     ErrLengthMismatch for positional alignment, plus those of Data.
func DataByIndex(target *frame.Frame, targetCol string, reference *frame.Frame, referenceCol string, degree int) ([]float64, error) {
	if target == nil || reference == nil {
		return nil, frame.ErrNilFrame
	}
	t, err := target.View(targetCol)
	if err != nil {
		return nil, fmt.Errorf("impute: DataByIndex: %w", err)
	}
	r, err := reference.View(referenceCol)
	if err != nil {
		return nil, fmt.Errorf("impute: DataByIndex: %w", err)
	}
	switch {
	case !target.HasIndex() && !reference.HasIndex():
		return Data(t, r, degree)
	case target.HasIndex() != reference.HasIndex():
		return nil, fmt.Errorf("impute: DataByIndex: %w", frame.ErrNoIndex)
	}

	at := make(map[int64]int, reference.Len())
	for i, ts := range reference.Index() {
		at[ts.UnixNano()] = i
	}
	aligned := make([]float64, target.Len())
	for i, ts := range target.Index() {
		aligned[i] = math.NaN()
		if j, ok := at[ts.UnixNano()]; ok {
			aligned[i] = r[j]
		}
	}

	return Data(t, aligned, degree)
}

// fill writes p(reference) into every null of column with a finite reference.
// It returns the number of values written.
func fill(column, reference []float64, p *Polynomial) int {
	n := 0
	for i, v := range column {
		if math.IsNaN(v) && finite(reference[i]) {
			column[i] = p.Eval(reference[i])
			n++
		}
	}

	return n
}

// methodDegree resolves a method name and degree to the polynomial degree.
func methodDegree(method string, degree int) (int, error) {
	switch method {
	case MethodLinear:
		return 1, nil
	case MethodPolynomial:
		if degree < 0 {
			return 0, fmt.Errorf("%w: %d", ErrInvalidDegree, degree)
		}

		return degree, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
}
