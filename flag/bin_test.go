// SPDX-License-Identifier: MIT
package flag_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/plantqc/flag"
	"github.com/katalvlaran/plantqc/frame"
)

// TestBinEdges checks edge layout on sample ranges.
func TestBinEdges(t *testing.T) {
	cases := []struct {
		name         string
		lo, hi, step float64
		want         []float64
	}{
		{"partial last bin", 0, 10, 3, []float64{0, 3, 6, 9, 10}},
		{"exact multiple", 0, 9, 3, []float64{0, 3, 6, 9}},
		{"width beyond range", 2, 3, 5, []float64{2, 3}},
		{"degenerate", 4, 4, 1, []float64{4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := flag.BinEdges(tc.lo, tc.hi, tc.step)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := flag.BinEdges(0, 1, 0)
	assert.ErrorIs(t, err, flag.ErrInvalidOption)
	_, err = flag.BinEdges(1, 0, 1)
	assert.ErrorIs(t, err, flag.ErrInvalidOption)
	_, err = flag.BinEdges(0, math.Inf(1), 1)
	assert.ErrorIs(t, err, flag.ErrInvalidOption)
}

// TestBinEdges_TooManyBins ensures widths that would need more than MaxBins
// bins are rejected instead of allocating.
func TestBinEdges_TooManyBins(t *testing.T) {
	for _, tc := range []struct {
		name         string
		lo, hi, step float64
	}{
		{"tiny width", 0, 25, 1e-300},
		{"just over the cap", 0, flag.MaxBins + 1, 1},
		{"span overflows", -1e308, 1e308, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := flag.BinEdges(tc.lo, tc.hi, tc.step)
			assert.ErrorIs(t, err, flag.ErrInvalidOption)
		})
	}

	edges, err := flag.BinEdges(0, flag.MaxBins, 1)
	require.NoError(t, err)
	assert.Len(t, edges, flag.MaxBins+1)

	f := mustFrame(t,
		frame.Series{Name: "ws", Values: []float64{0, 12.5, 25}},
		frame.Series{Name: "p", Values: []float64{1, 2, 3}},
	)
	_, err = flag.Bin(f, flag.DefaultBinOptions("ws", "p", 1e-300))
	assert.ErrorIs(t, err, flag.ErrInvalidOption)
}

// binPlant places outliers on and beyond the limits [0, 10] and one inside.
func binPlant(t *testing.T) *frame.Frame {
	t.Helper()
	return mustFrame(t,
		frame.Series{Name: "ws", Values: []float64{
			-2, -1, -0.5, 0, // bin 0, the value at 0 is an outlier on Min
			1, 2, 3, 4, // bin 1, the value at 4 is an outlier
			6, 7, 8, 10, // bin 2, the value at 10 is an outlier on Max
			11, 12, 13, 14, // bin 3, beyond Max
			nan, 3,
		}},
		frame.Series{Name: "power", Values: []float64{
			10, 10, 10, 1000,
			10, 10, 10, 50,
			10, 10, 10, 1000,
			10, 1000, 10, 10,
			1000, nan,
		}},
	)
}

// TestBin_BoundaryRowsAreNeverFlagged ensures rows on or beyond the limits stay unflagged.
func TestBin_BoundaryRowsAreNeverFlagged(t *testing.T) {
	f := binPlant(t)
	opts := flag.DefaultBinOptions("ws", "power", 5)
	opts.Min, opts.Max = 0, 10
	opts.Center = flag.CenterMedian
	opts.ThresholdType = flag.ThresholdScalar
	opts.Threshold = 5
	opts.ReturnCenter = true

	res, err := flag.Bin(f, opts)
	require.NoError(t, err)
	want := make([]bool, f.Len())
	want[7] = true
	assert.Equal(t, want, column(t, res.Mask, "power"))

	require.Len(t, res.Stats, 4)
	b1 := res.Stats[1]
	assert.Equal(t, 1, b1.Index)
	assert.Equal(t, 0.0, b1.Lower)
	assert.Equal(t, 5.0, b1.Upper)
	assert.Equal(t, 4, b1.Count, "null value excluded")
	assert.Equal(t, 10.0, b1.Center, "median of an even sample averages the middle pair")
	assert.Equal(t, 5.0, b1.Spread)
	assert.True(t, math.IsInf(res.Stats[0].Lower, -1))
	assert.True(t, math.IsInf(res.Stats[3].Upper, 1))

	_, err = flag.BinLazy(f.Lazy(), opts)
	assert.ErrorIs(t, err, flag.ErrUnsupportedMode, "per-bin statistics need the eager call")

	opts.ReturnCenter = false
	lazy, err := flag.BinLazy(f.Lazy(), opts)
	require.NoError(t, err)
	collectEqual(t, res.Mask, lazy)
}

// TestBin_StdDirections ensures the std spread honours the flag direction.
func TestBin_StdDirections(t *testing.T) {
	// Limits default to the covariate extremes 0 and 2, one bin (0, 2].
	f := mustFrame(t,
		frame.Series{Name: "ws", Values: []float64{0, 1, 1, 1, 1, 1, 1, 1, 1, 2}},
		frame.Series{Name: "power", Values: []float64{500, 10, 10, 10, 10, 10, 10, 10, 100, 10}},
	)
	want := make([]bool, f.Len())
	want[8] = true

	opts := flag.DefaultBinOptions("ws", "power", 2)
	res, err := flag.Bin(f, opts)
	require.NoError(t, err)
	assert.Nil(t, res.Stats)
	assert.Equal(t, want, column(t, res.Mask, "power"))

	opts.Direction = flag.DirectionAbove
	res, err = flag.Bin(f, opts)
	require.NoError(t, err)
	assert.Equal(t, want, column(t, res.Mask, "power"))

	opts.Direction = flag.DirectionBelow
	res, err = flag.Bin(f, opts)
	require.NoError(t, err)
	assert.Zero(t, res.Mask.Count("power"))
}

// TestBin_InvalidOptionsFailFirst ensures option errors win over a nil frame.
func TestBin_InvalidOptionsFailFirst(t *testing.T) {
	base := flag.DefaultBinOptions("ws", "power", 1)
	mutate := []func(*flag.BinOptions){
		func(o *flag.BinOptions) { o.Center = "mode" },
		func(o *flag.BinOptions) { o.ThresholdType = "iqr" },
		func(o *flag.BinOptions) { o.Direction = "sideways" },
		func(o *flag.BinOptions) { o.Width = 0 },
		func(o *flag.BinOptions) { o.Min, o.Max = 5, 1 },
	}
	for i, m := range mutate {
		opts := base
		m(&opts)
		_, err := flag.Bin(nil, opts)
		assert.ErrorIs(t, err, flag.ErrInvalidOption, "case %d", i)
	}
}

// TestBin_CenterAndThresholdVariants ensures the MAD spread, a zero MAD and
// a mean center with a one-sided direction flag the expected rows.
func TestBin_CenterAndThresholdVariants(t *testing.T) {
	// One bin (0, 10]; every covariate lies strictly inside the limits.
	// median 10, |v-10| sorted {0,0,0,1,1,2,15,20} so MAD is 1, mean 10.875.
	f := mustFrame(t,
		frame.Series{Name: "ws", Values: []float64{1, 2, 3, 4, 5, 6, 7, 8}},
		frame.Series{Name: "power", Values: []float64{10, 11, 9, 10, 12, 10, 30, -5}},
		frame.Series{Name: "flat", Values: []float64{10, 10, 10, 10, 10.5, 10, 10, 10}},
	)
	rows := func(idx ...int) []bool {
		out := make([]bool, f.Len())
		for _, i := range idx {
			out[i] = true
		}
		return out
	}

	cases := []struct {
		name      string
		value     string
		center    flag.Center
		kind      flag.ThresholdType
		threshold float64
		direction flag.Direction
		want      []bool
	}{
		{"mad both sides", "power", flag.CenterMedian, flag.ThresholdMAD, 3, flag.DirectionAll, rows(6, 7)},
		{"mad above", "power", flag.CenterMedian, flag.ThresholdMAD, 3, flag.DirectionAbove, rows(6)},
		{"mad of zero flags any deviation", "flat", flag.CenterMedian, flag.ThresholdMAD, 3, flag.DirectionAll, rows(4)},
		{"mean center below", "power", flag.CenterMean, flag.ThresholdScalar, 5, flag.DirectionBelow, rows(7)},
		{"mean center above", "power", flag.CenterMean, flag.ThresholdScalar, 5, flag.DirectionAbove, rows(6)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := flag.DefaultBinOptions("ws", tc.value, 10)
			opts.Min, opts.Max = 0, 10
			opts.Center = tc.center
			opts.ThresholdType = tc.kind
			opts.Threshold = tc.threshold
			opts.Direction = tc.direction

			res, err := flag.Bin(f, opts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, column(t, res.Mask, tc.value))

			lazy, err := flag.BinLazy(f.Lazy(), opts)
			require.NoError(t, err)
			collectEqual(t, res.Mask, lazy)
		})
	}
}

// TestBin_AllNullCovariate ensures a covariate without values flags nothing.
func TestBin_AllNullCovariate(t *testing.T) {
	f := mustFrame(t,
		frame.Series{Name: "ws", Values: []float64{nan, nan}},
		frame.Series{Name: "power", Values: []float64{1, 2}},
	)
	res, err := flag.Bin(f, flag.DefaultBinOptions("ws", "power", 1))
	require.NoError(t, err)
	assert.Zero(t, res.Mask.Count("power"))
}
