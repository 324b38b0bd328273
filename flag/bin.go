// SPDX-License-Identifier: MIT

package flag

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/plantqc/frame"
)

// Center selects the per-bin center statistic.
type Center string

// ThresholdType selects how the per-bin spread is derived from Threshold.
type ThresholdType string

// Direction selects which side of the center is flagged.
type Direction string

const (
	CenterMean   Center = "mean"
	CenterMedian Center = "median"

	ThresholdStd    ThresholdType = "std"    // k · sample std of the bin
	ThresholdScalar ThresholdType = "scalar" // k itself
	ThresholdMAD    ThresholdType = "mad"    // k · median(|x − center|)

	DirectionAll   Direction = "all"
	DirectionAbove Direction = "above"
	DirectionBelow Direction = "below"
)

// DefaultBinThreshold is the spread multiplier used by DefaultBinOptions.
const DefaultBinThreshold = 2.0

// BinOptions configures Bin and BinLazy.
//   - BinColumn: covariate used for binning (e.g. wind speed).
//   - ValueColumn: column to flag (e.g. power).
//   - Width: bin width in covariate units (> 0).
//   - Threshold: spread multiplier k.
//   - Center, ThresholdType, Direction: see the constants above.
//   - Min/Max: binning limits; NaN ⇒ the non-null covariate extremes.
//   - ReturnCenter: fill BinResult.Stats.
type BinOptions struct {
	BinColumn     string
	ValueColumn   string
	Width         float64
	Threshold     float64
	Center        Center
	ThresholdType ThresholdType
	Direction     Direction
	Min           float64
	Max           float64
	ReturnCenter  bool
}

// DefaultBinOptions returns mean-centered, 2·std, two-sided options with
// limits taken from the data.
func DefaultBinOptions(binColumn, valueColumn string, width float64) BinOptions {
	return BinOptions{
		BinColumn:     binColumn,
		ValueColumn:   valueColumn,
		Width:         width,
		Threshold:     DefaultBinThreshold,
		Center:        CenterMean,
		ThresholdType: ThresholdStd,
		Direction:     DirectionAll,
		Min:           math.NaN(),
		Max:           math.NaN(),
	}
}

// BinStat describes one populated bin. Bin i covers (Lower, Upper]; the
// outermost bins are open towards ±Inf.
type BinStat struct {
	Index  int
	Lower  float64
	Upper  float64
	Center float64
	Spread float64
	Count  int
}

// BinResult is the outcome of Bin.
type BinResult struct {
	Mask  *frame.Mask
	Stats []BinStat // nil unless ReturnCenter was set
}

// MaxBins bounds the number of bins BinEdges may produce.
const MaxBins = 1 << 20

// BinEdges returns min + k·width for every k with a value below max, then
// max itself. The result is strictly increasing, starts at min and ends at max.
//
// Errors:
//   - ErrInvalidOption when width ≤ 0, min > max, a bound is not finite or
//     the range would need more than MaxBins bins.
func BinEdges(lo, hi, width float64) ([]float64, error) {
	if !(width > 0) || math.IsInf(width, 0) {
		return nil, fmt.Errorf("%w: bin width %v", ErrInvalidOption, width)
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || lo > hi {
		return nil, fmt.Errorf("%w: bin limits [%v, %v]", ErrInvalidOption, lo, hi)
	}
	count := math.Ceil((hi - lo) / width)
	if math.IsInf(count, 0) || count > MaxBins {
		return nil, fmt.Errorf("%w: bin width %v over [%v, %v] exceeds %d bins", ErrInvalidOption, width, lo, hi, MaxBins)
	}
	n := int(count)
	edges := make([]float64, 0, n+1)
	for k := 0; k < n; k++ {
		if e := lo + float64(k)*width; e < hi {
			edges = append(edges, e)
		}
	}
	edges = append(edges, hi)

	return slices.Compact(edges), nil
}

// Bin groups ValueColumn by the BinColumn covariate and flags values whose
// distance from their bin center exceeds the bin spread.
//
// Behavior highlights:
//   - Bins are right-closed: bin i holds edges[i-1] < x ≤ edges[i]; x ≤ edges[0]
//     lands in bin 0 and x > edges[last] in bin len(edges).
//   - Flags are strict: above is v > c+d, below is v < c−d.
//   - Rows whose covariate is ≤ Min or ≥ Max are never flagged.
//   - A null covariate or value is never flagged and does not enter the statistics.
//   - A bin with a single value has an undefined std and flags nothing under ThresholdStd.
//
// Errors:
//   - ErrInvalidOption for unknown enums, Width ≤ 0 or Min > Max (checked first),
//     and for a Width that would need more than MaxBins bins.
//   - frame.ErrUnknownColumn.
func Bin(f *frame.Frame, opts BinOptions) (*BinResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, frame.ErrNilFrame
	}

	return binFrame(f, opts)
}

// BinLazy is Bin over a deferred plan. Per-bin statistics are only
// available from the eager call: ReturnCenter fails with ErrUnsupportedMode.
func BinLazy(lf *frame.LazyFrame, opts BinOptions) (*frame.LazyMask, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.ReturnCenter {
		return nil, fmt.Errorf("%w: ReturnCenter on BinLazy, use Bin on the collected frame", ErrUnsupportedMode)
	}
	if _, err := resolveSchema(lf, []string{opts.BinColumn, opts.ValueColumn}); err != nil {
		return nil, fmt.Errorf("flag: BinLazy: %w", err)
	}
	return frame.NewLazyMask(lf, "bin", []string{opts.ValueColumn},
		func(_ context.Context, f *frame.Frame) (*frame.Mask, error) {
			res, err := binFrame(f, opts)
			if err != nil {
				return nil, err
			}

			return res.Mask, nil
		}), nil
}

func (o BinOptions) validate() error {
	switch o.Center {
	case CenterMean, CenterMedian:
	default:
		return fmt.Errorf("%w: center %q, want mean or median", ErrInvalidOption, o.Center)
	}
	switch o.ThresholdType {
	case ThresholdStd, ThresholdScalar, ThresholdMAD:
	default:
		return fmt.Errorf("%w: threshold type %q, want std, scalar or mad", ErrInvalidOption, o.ThresholdType)
	}
	switch o.Direction {
	case DirectionAll, DirectionAbove, DirectionBelow:
	default:
		return fmt.Errorf("%w: direction %q, want all, above or below", ErrInvalidOption, o.Direction)
	}
	if o.BinColumn == "" || o.ValueColumn == "" {
		return fmt.Errorf("%w: bin and value columns are required", ErrInvalidOption)
	}
	if !(o.Width > 0) {
		return fmt.Errorf("%w: bin width %v", ErrInvalidOption, o.Width)
	}
	if math.IsNaN(o.Threshold) || o.Threshold < 0 {
		return fmt.Errorf("%w: threshold %v", ErrInvalidOption, o.Threshold)
	}
	if math.IsInf(o.Min, 0) || math.IsInf(o.Max, 0) || o.Min > o.Max {
		return fmt.Errorf("%w: bin limits [%v, %v]", ErrInvalidOption, o.Min, o.Max)
	}

	return nil
}

func binFrame(f *frame.Frame, opts BinOptions) (*BinResult, error) {
	x, err := f.View(opts.BinColumn)
	if err != nil {
		return nil, fmt.Errorf("flag: Bin: %w", err)
	}
	v, err := f.View(opts.ValueColumn)
	if err != nil {
		return nil, fmt.Errorf("flag: Bin: %w", err)
	}

	flags := make([]bool, len(v))
	res := &BinResult{}
	lo, hi, ok := binLimits(x, opts.Min, opts.Max)
	if ok {
		edges, err := BinEdges(lo, hi, opts.Width)
		if err != nil {
			return nil, err
		}
		stats := binStatistics(x, v, edges, opts)
		for i := range v {
			if isNull(x[i]) || isNull(v[i]) || x[i] <= lo || x[i] >= hi {
				continue
			}
			s := stats[sort.SearchFloat64s(edges, x[i])]
			above := v[i] > s.Center+s.Spread
			below := v[i] < s.Center-s.Spread
			switch opts.Direction {
			case DirectionAbove:
				flags[i] = above
			case DirectionBelow:
				flags[i] = below
			default:
				flags[i] = above || below
			}
		}
		if opts.ReturnCenter {
			res.Stats = populated(stats)
		}
	}

	res.Mask, err = frame.NewMask(f.Len(), f.Index(), frame.BoolSeries{Name: opts.ValueColumn, Values: flags})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// binLimits resolves NaN limits to the covariate extremes; ok is false when
// the covariate has no non-null value to take them from.
func binLimits(x []float64, lo, hi float64) (float64, float64, bool) {
	if !math.IsNaN(lo) && !math.IsNaN(hi) {
		return lo, hi, true
	}
	finite := nonNull(x)
	if len(finite) == 0 {
		return 0, 0, false
	}
	if math.IsNaN(lo) {
		lo = slices.Min(finite)
	}
	if math.IsNaN(hi) {
		hi = slices.Max(finite)
	}

	return lo, hi, lo <= hi
}

// binStatistics returns one BinStat per possible bin index (len(edges)+1).
func binStatistics(x, v, edges []float64, opts BinOptions) []BinStat {
	groups := make([][]float64, len(edges)+1)
	for i := range v {
		if isNull(x[i]) || isNull(v[i]) {
			continue
		}
		b := sort.SearchFloat64s(edges, x[i])
		groups[b] = append(groups[b], v[i])
	}

	stats := make([]BinStat, len(groups))
	for b, g := range groups {
		s := BinStat{Index: b, Lower: math.Inf(-1), Upper: math.Inf(1), Count: len(g)}
		if b > 0 {
			s.Lower = edges[b-1]
		}
		if b < len(edges) {
			s.Upper = edges[b]
		}
		s.Center, s.Spread = math.NaN(), math.NaN()
		if len(g) > 0 {
			s.Center = binCenter(g, opts.Center)
			s.Spread = binSpread(g, s.Center, opts)
		}
		stats[b] = s
	}

	return stats
}

func binCenter(g []float64, c Center) float64 {
	if c == CenterMedian {
		return median(g)
	}

	return stat.Mean(g, nil)
}

func binSpread(g []float64, center float64, opts BinOptions) float64 {
	switch opts.ThresholdType {
	case ThresholdScalar:
		return opts.Threshold
	case ThresholdMAD:
		dev := make([]float64, len(g))
		for i, x := range g {
			dev[i] = math.Abs(x - center)
		}

		return median(dev) * opts.Threshold
	}
	if len(g) < 2 {
		return math.NaN()
	}

	return stat.StdDev(g, nil) * opts.Threshold
}

// median averages the two middle values of an even-length sample.
func median(v []float64) float64 {
	s := slices.Clone(v)
	slices.Sort(s)
	m := len(s) / 2
	if len(s)%2 == 1 {
		return s[m]
	}

	return (s[m-1] + s[m]) / 2
}

func populated(stats []BinStat) []BinStat {
	out := make([]BinStat, 0, len(stats))
	for _, s := range stats {
		if s.Count > 0 {
			out = append(out, s)
		}
	}

	return out
}
