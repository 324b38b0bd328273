// SPDX-License-Identifier: MIT
package flag_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/plantqc/flag"
	"github.com/katalvlaran/plantqc/frame"
)

var nan = math.NaN()

func mustFrame(t *testing.T, cols ...frame.Series) *frame.Frame {
	t.Helper()
	f, err := frame.New(nil, cols...)
	require.NoError(t, err)

	return f
}

func column(t *testing.T, m *frame.Mask, name string) []bool {
	t.Helper()
	v, err := m.Column(name)
	require.NoError(t, err)

	return v
}

// collectEqual asserts that a lazy mask collects to the eager one.
func collectEqual(t *testing.T, eager *frame.Mask, lazy *frame.LazyMask) {
	t.Helper()
	got, err := lazy.Collect(context.Background())
	require.NoError(t, err)
	require.Equal(t, eager.Columns(), got.Columns())
	for _, c := range eager.Columns() {
		assert.Equal(t, column(t, eager, c), column(t, got, c), c)
	}
}

// TestRange_BoundsAreInclusive ensures values equal to a bound are kept.
func TestRange_BoundsAreInclusive(t *testing.T) {
	f := mustFrame(t, frame.Series{Name: "x", Values: []float64{-1, 0, 5, 10, 11, nan}})
	opts := flag.RangeOptions{Lower: []float64{0}, Upper: []float64{10}}

	m, err := flag.Range(f, opts)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false, false, true, false}, column(t, m, "x"))

	lazy, err := flag.RangeLazy(f.Lazy(), opts)
	require.NoError(t, err)
	collectEqual(t, m, lazy)
}

// TestRange_PerColumnBounds ensures each column uses its own bounds.
func TestRange_PerColumnBounds(t *testing.T) {
	f := mustFrame(t,
		frame.Series{Name: "a", Values: []float64{1, 2, 3}},
		frame.Series{Name: "b", Values: []float64{1, 2, 3}},
	)
	m, err := flag.Range(f, flag.RangeOptions{Lower: []float64{2, 0}, Upper: []float64{3, 2}})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false}, column(t, m, "a"))
	assert.Equal(t, []bool{false, false, true}, column(t, m, "b"))
}

// TestRange_Errors ensures malformed bounds and unknown columns fail.
func TestRange_Errors(t *testing.T) {
	f := mustFrame(t,
		frame.Series{Name: "a", Values: []float64{1}},
		frame.Series{Name: "b", Values: []float64{1}},
	)
	_, err := flag.Range(f, flag.RangeOptions{Lower: []float64{0, 0, 0}, Upper: []float64{1}})
	assert.ErrorIs(t, err, flag.ErrLengthMismatch)

	_, err = flag.Range(f, flag.RangeOptions{Lower: []float64{2}, Upper: []float64{1}})
	assert.ErrorIs(t, err, flag.ErrInvalidOption)

	_, err = flag.Range(f, flag.RangeOptions{Columns: []string{"zz"}, Lower: []float64{0}, Upper: []float64{1}})
	assert.ErrorIs(t, err, frame.ErrUnknownColumn)

	_, err = flag.RangeLazy(f.Lazy(), flag.RangeOptions{Columns: []string{"zz"}, Lower: []float64{0}, Upper: []float64{1}})
	assert.ErrorIs(t, err, frame.ErrUnknownColumn)
}

// TestRange_KeepsIndex ensures the mask carries the frame index.
func TestRange_KeepsIndex(t *testing.T) {
	idx := []time.Time{time.Unix(0, 0).UTC(), time.Unix(600, 0).UTC()}
	f, err := frame.New(idx, frame.Series{Name: "x", Values: []float64{1, 100}})
	require.NoError(t, err)

	m, err := flag.Range(f, flag.RangeOptions{Lower: []float64{0}, Upper: []float64{10}})
	require.NoError(t, err)
	assert.Equal(t, idx, m.Index())
	assert.Equal(t, 1, m.Count("x"))
}

// TestUnresponsive_MinimumRun ensures only runs at or above the threshold are flagged.
func TestUnresponsive_MinimumRun(t *testing.T) {
	cases := []struct {
		name      string
		in        []float64
		threshold int
		want      []bool
	}{
		{"run at start", []float64{1, 1, 1, 2, 3}, 3, []bool{true, true, true, false, false}},
		{"run too short", []float64{1, 1, 2, 2, 3}, 3, []bool{false, false, false, false, false}},
		{"run at end", []float64{5, 1, 2, 2, 2}, 3, []bool{false, false, true, true, true}},
		{"null breaks run", []float64{2, 2, nan, 2, 2}, 3, []bool{false, false, false, false, false}},
		{"null runs ignored", []float64{nan, nan, nan, nan}, 2, []bool{false, false, false, false}},
		{"threshold one", []float64{1, nan, 2}, 1, []bool{true, false, true}},
		{"long run", []float64{7, 7, 7, 7, 7, 7}, 3, []bool{true, true, true, true, true, true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := mustFrame(t, frame.Series{Name: "x", Values: tc.in})
			opts := flag.UnresponsiveOptions{Threshold: tc.threshold}
			m, err := flag.Unresponsive(f, opts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, column(t, m, "x"))

			lazy, err := flag.UnresponsiveLazy(f.Lazy(), opts)
			require.NoError(t, err)
			collectEqual(t, m, lazy)
		})
	}
}

// TestUnresponsive_InvalidThreshold ensures invalid run thresholds are rejected.
func TestUnresponsive_InvalidThreshold(t *testing.T) {
	f := mustFrame(t, frame.Series{Name: "x", Values: []float64{1}})
	_, err := flag.Unresponsive(f, flag.UnresponsiveOptions{Threshold: 0})
	assert.ErrorIs(t, err, flag.ErrInvalidThreshold)

	_, err = flag.UnresponsiveLazy(f.Lazy(), flag.UnresponsiveOptions{Threshold: -1})
	assert.ErrorIs(t, err, flag.ErrInvalidThreshold)
}

// TestWindowRange ensures only in-window values outside the range are flagged.
func TestWindowRange(t *testing.T) {
	f := mustFrame(t,
		frame.Series{Name: "wind", Values: []float64{0, 5, 10, 15, nan, 7}},
		frame.Series{Name: "power", Values: []float64{100, -1, 50, 200, 500, nan}},
	)
	opts := flag.DefaultWindowOptions("wind", "power")
	opts.WindowStart, opts.WindowEnd = 5, 10
	opts.ValueMin, opts.ValueMax = 0, 100

	m, err := flag.WindowRange(f, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"power"}, m.Columns())
	assert.Equal(t, []bool{false, true, false, false, false, false}, column(t, m, "power"))

	lazy, err := flag.WindowRangeLazy(f.Lazy(), opts)
	require.NoError(t, err)
	collectEqual(t, m, lazy)
}

// TestWindowRange_DefaultsFlagNothing ensures the default window is empty.
func TestWindowRange_DefaultsFlagNothing(t *testing.T) {
	f := mustFrame(t,
		frame.Series{Name: "w", Values: []float64{1, 2}},
		frame.Series{Name: "v", Values: []float64{-1e300, 1e300}},
	)
	m, err := flag.WindowRange(f, flag.DefaultWindowOptions("w", "v"))
	require.NoError(t, err)
	assert.Zero(t, m.Count("v"))

	bad := flag.DefaultWindowOptions("w", "v")
	bad.ValueMin, bad.ValueMax = 2, 1
	_, err = flag.WindowRange(f, bad)
	assert.ErrorIs(t, err, flag.ErrInvalidOption)
}

// TestMask_ApplyAfterFlags ensures combined flags null the flagged values.
func TestMask_ApplyAfterFlags(t *testing.T) {
	f := mustFrame(t, frame.Series{Name: "x", Values: []float64{1, 1, 1, 50, 2}})
	stuck, err := flag.Unresponsive(f, flag.DefaultUnresponsiveOptions())
	require.NoError(t, err)
	out, err := flag.Range(f, flag.RangeOptions{Lower: []float64{0}, Upper: []float64{10}})
	require.NoError(t, err)

	both, err := stuck.Or(out)
	require.NoError(t, err)
	clean, err := both.Apply(f)
	require.NoError(t, err)
	v, err := clean.Column("x")
	require.NoError(t, err)
	assert.Equal(t, 4, frame.CountNull(v))
	assert.Equal(t, 2.0, v[4])
}
