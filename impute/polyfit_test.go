// SPDX-License-Identifier: MIT
package impute_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/plantqc/frame"
	"github.com/katalvlaran/plantqc/impute"
)

var nan = math.NaN()

// TestPolyFit_Linear ensures an exact line is recovered.
func TestPolyFit_Linear(t *testing.T) {
	x := []float64{0, 1, nan, 2, 3}
	y := []float64{1, 3, 100, 5, 7}
	p, err := impute.PolyFit(x, y, 1)
	require.NoError(t, err)
	assert.Equal(t, [2]float64{0, 3}, p.Domain)
	assert.InDelta(t, 21.0, p.Eval(10), 1e-9)
	assert.InDelta(t, 1.0, p.Eval(0), 1e-9)
}

// TestPolyFit_Quadratic ensures an exact parabola is recovered.
func TestPolyFit_Quadratic(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{0, 1, 4, 9, 16}
	p, err := impute.PolyFit(x, y, 2)
	require.NoError(t, err)
	require.Len(t, p.Coef, 3)
	assert.InDelta(t, 25.0, p.Eval(5), 1e-9)
	assert.InDelta(t, 2.25, p.Eval(1.5), 1e-9)
}

// TestPolyFit_LeastSquares ensures noisy points give the least-squares fit.
func TestPolyFit_LeastSquares(t *testing.T) {
	// Symmetric residuals around y = x: the best line is y = x.
	x := []float64{0, 0, 2, 2}
	y := []float64{-1, 1, 1, 3}
	p, err := impute.PolyFit(x, y, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, p.Eval(0), 1e-12)
	assert.InDelta(t, 2.0, p.Eval(2), 1e-12)
}

// TestPolyFit_Errors ensures degenerate data and bad degrees fail.
func TestPolyFit_Errors(t *testing.T) {
	_, err := impute.PolyFit([]float64{1}, []float64{2}, 1)
	assert.ErrorIs(t, err, impute.ErrInsufficientData)

	_, err = impute.PolyFit([]float64{3, 3, 3}, []float64{1, 2, 3}, 1)
	assert.ErrorIs(t, err, impute.ErrInsufficientData, "no spread in x")

	_, err = impute.PolyFit([]float64{nan, 1, 2}, []float64{1, nan, nan}, 1)
	assert.ErrorIs(t, err, impute.ErrInsufficientData, "no complete pairs")

	_, err = impute.PolyFit([]float64{1, 2}, []float64{1}, 1)
	assert.ErrorIs(t, err, impute.ErrLengthMismatch)

	_, err = impute.PolyFit([]float64{1, 2}, []float64{1, 2}, -1)
	assert.ErrorIs(t, err, impute.ErrInvalidDegree)
}

// TestData_FillsOnlyExplainedNulls ensures only target nulls with a reference value are filled.
func TestData_FillsOnlyExplainedNulls(t *testing.T) {
	target := []float64{1, nan, 5, nan, 9}
	ref := []float64{0, 1, 2, nan, 4}
	got, err := impute.Data(target, ref, 1)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got[1], 1e-9)
	assert.True(t, math.IsNaN(got[3]), "reference missing")
	assert.Equal(t, []float64{1, 5, 9}, []float64{got[0], got[2], got[4]})
	assert.True(t, math.IsNaN(target[1]), "input untouched")
}

// TestDataByIndex_AlignsOnTime ensures the reference is matched by timestamp.
func TestDataByIndex_AlignsOnTime(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	target, err := frame.New([]time.Time{at(0), at(1), at(2), at(3)},
		frame.Series{Name: "power", Values: []float64{1, 3, nan, 7}})
	require.NoError(t, err)
	// Reference is shifted and reordered; hour 2 is present, hour 0 is not.
	reference, err := frame.New([]time.Time{at(3), at(2), at(1), at(5)},
		frame.Series{Name: "power", Values: []float64{3, 2, 1, 99}})
	require.NoError(t, err)

	got, err := impute.DataByIndex(target, "power", reference, "power", 1)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got[2], 1e-9)

	positional, err := frame.New(nil, frame.Series{Name: "power", Values: []float64{1, 2, 3, 4}})
	require.NoError(t, err)
	_, err = impute.DataByIndex(target, "power", positional, "power", 1)
	assert.ErrorIs(t, err, frame.ErrNoIndex)
}
