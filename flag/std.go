// SPDX-License-Identifier: MIT

package flag

import (
	"context"
	"fmt"
	"math"

	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/plantqc/correlation"
	"github.com/katalvlaran/plantqc/frame"
)

// Over selects the population the standard deviation is taken over.
type Over int

const (
	// OverTime pools every row of a column.
	OverTime Over = iota
	// OverAsset compares each asset with its correlated peers at every row.
	OverAsset
)

// String implements fmt.Stringer.
func (o Over) String() string {
	switch o {
	case OverTime:
		return "time"
	case OverAsset:
		return "asset"
	}

	return fmt.Sprintf("Over(%d)", int(o))
}

// StdRange defaults.
const (
	DefaultStdThreshold        = 2.0
	DefaultR2Threshold         = 0.7
	DefaultMinCorrelatedAssets = 3
)

// StdRangeReport describes a cluster-mode pass.
type StdRangeReport struct {
	// PeakMemoryPercent is the highest system memory utilisation sampled
	// during the pass (0 unless TrackMemory is set).
	PeakMemoryPercent float64
	// Peers holds, per flagged column, the peer columns its statistics used.
	Peers map[string][]string
}

// StdRangeOptions configures StdRange and StdRangeLazy.
//   - Columns: pooled mode columns; empty ⇒ every column.
//   - Threshold: k, one value or one per column (pooled) / per feature (cluster).
//   - Over: OverTime (pooled) or OverAsset (cluster, lazy only).
//   - Features: cluster mode feature maps, processed in order.
//   - R2Threshold: peers need correlation strictly above it.
//   - MinCorrelatedAssets: minimum peer count, padded from the ranking.
//   - TrackMemory: sample system memory during the cluster pass.
//   - OnReport: receives the report after a cluster pass (may be nil).
//   - Logger: cluster-mode diagnostics (nil ⇒ zap.NewNop()).
type StdRangeOptions struct {
	Columns             []string
	Threshold           []float64
	Over                Over
	Features            []frame.AssetColumns
	R2Threshold         float64
	MinCorrelatedAssets int
	TrackMemory         bool
	OnReport            func(StdRangeReport)
	Logger              *zap.Logger
}

// DefaultStdRangeOptions returns pooled options with k = 2.
func DefaultStdRangeOptions() StdRangeOptions {
	return StdRangeOptions{
		Threshold:           []float64{DefaultStdThreshold},
		Over:                OverTime,
		R2Threshold:         DefaultR2Threshold,
		MinCorrelatedAssets: DefaultMinCorrelatedAssets,
	}
}

// StdRange flags values strictly beyond mean ± k·std (sample std, ddof 1)
// of their column. A value exactly on either boundary is not flagged.
// Columns with fewer than two non-null values flag nothing.
//
// Errors:
//   - ErrUnsupportedMode for OverAsset (use StdRangeLazy).
//   - frame.ErrUnknownColumn, ErrLengthMismatch, ErrInvalidOption.
func StdRange(f *frame.Frame, opts StdRangeOptions) (*frame.Mask, error) {
	switch opts.Over {
	case OverTime:
	case OverAsset:
		return nil, fmt.Errorf("%w: over=%s requires a lazy frame", ErrUnsupportedMode, opts.Over)
	default:
		return nil, fmt.Errorf("%w: over=%s", ErrInvalidOption, opts.Over)
	}
	cols, err := resolveColumns(f, opts.Columns)
	if err != nil {
		return nil, fmt.Errorf("flag: StdRange: %w", err)
	}
	k, err := stdThresholds(opts.Threshold, len(cols))
	if err != nil {
		return nil, err
	}

	return applyKernel(f, cols, pooledKernel(k))
}

// StdRangeLazy is StdRange over a deferred plan and additionally supports
// the cluster mode (OverAsset).
//
// Cluster mode, per feature map and per asset:
//   - peers = other assets with correlation > R2Threshold;
//   - if fewer than MinCorrelatedAssets, pad with the next best-ranked assets
//     not yet selected (never the asset itself);
//   - per row, mean and sample std over the non-null peer values;
//   - flag the asset's value strictly outside mean ± k·std.
//
// Mask columns are the feature columns, features side by side in order.
func StdRangeLazy(lf *frame.LazyFrame, opts StdRangeOptions) (*frame.LazyMask, error) {
	switch opts.Over {
	case OverTime:
		cols, err := resolveSchema(lf, opts.Columns)
		if err != nil {
			return nil, fmt.Errorf("flag: StdRangeLazy: %w", err)
		}
		k, err := stdThresholds(opts.Threshold, len(cols))
		if err != nil {
			return nil, err
		}

		return lazyKernel(lf, "std_range", cols, pooledKernel(k)), nil
	case OverAsset:
		return clusterStdLazy(lf, opts)
	}

	return nil, fmt.Errorf("%w: over=%s", ErrInvalidOption, opts.Over)
}

func stdThresholds(threshold []float64, n int) ([]float64, error) {
	k, err := broadcast("Threshold", threshold, n)
	if err != nil {
		return nil, fmt.Errorf("flag: StdRange: %w", err)
	}
	for _, x := range k {
		if math.IsNaN(x) || x < 0 {
			return nil, fmt.Errorf("%w: std threshold %v", ErrInvalidOption, x)
		}
	}

	return k, nil
}

func pooledKernel(k []float64) columnKernel {
	return func(v []float64, j int) []bool {
		finite := nonNull(v)
		if len(finite) < 2 {
			return make([]bool, len(v))
		}
		mean, std := stat.MeanStdDev(finite, nil)

		return outside(v, mean-k[j]*std, mean+k[j]*std)
	}
}

func nonNull(v []float64) []float64 {
	out := make([]float64, 0, len(v))
	for _, x := range v {
		if !isNull(x) {
			out = append(out, x)
		}
	}

	return out
}

func clusterStdLazy(lf *frame.LazyFrame, opts StdRangeOptions) (*frame.LazyMask, error) {
	if lf == nil {
		return nil, frame.ErrNilFrame
	}
	if len(opts.Features) == 0 {
		return nil, fmt.Errorf("%w: cluster mode needs at least one feature map", ErrInvalidOption)
	}
	if math.IsNaN(opts.R2Threshold) {
		return nil, fmt.Errorf("%w: R2Threshold is NaN", ErrInvalidOption)
	}
	if opts.MinCorrelatedAssets < 0 {
		return nil, fmt.Errorf("%w: MinCorrelatedAssets %d", ErrInvalidOption, opts.MinCorrelatedAssets)
	}
	k, err := stdThresholds(opts.Threshold, len(opts.Features))
	if err != nil {
		return nil, err
	}
	schema, err := lf.Columns()
	if err != nil {
		return nil, fmt.Errorf("flag: StdRangeLazy: %w", err)
	}
	var cols []string
	for _, feat := range opts.Features {
		if _, err := resolveSchemaFrom(schema, feat.Columns()); err != nil {
			return nil, fmt.Errorf("flag: StdRangeLazy: %s: %w", feat.Feature(), err)
		}
		cols = append(cols, feat.Columns()...)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// Every feature reads the same plan; cache it so it materializes once.
	src := lf.Cache()

	return frame.NewLazyMask(src, "std_range_cluster", cols, func(ctx context.Context, f *frame.Frame) (*frame.Mask, error) {
		tracker := memoryTracker{enabled: opts.TrackMemory}
		tracker.sample(ctx)
		report := StdRangeReport{Peers: make(map[string][]string, len(cols))}
		out := make([]frame.BoolSeries, 0, len(cols))
		for fi, feat := range opts.Features {
			corr, err := correlation.BuildLazy(ctx, src, feat)
			if err != nil {
				return nil, err
			}
			tracker.sample(ctx)
			for _, asset := range feat.Assets() {
				peers, err := peerSet(corr, asset, opts.R2Threshold, opts.MinCorrelatedAssets)
				if err != nil {
					return nil, err
				}
				col, _ := feat.Column(asset) // asset comes from feat
				peerCols := make([]string, len(peers))
				for i, p := range peers {
					peerCols[i], _ = feat.Column(p)
				}
				flags, err := peerDeviation(f, col, peerCols, k[fi])
				if err != nil {
					return nil, err
				}
				report.Peers[col] = peerCols
				out = append(out, frame.BoolSeries{Name: col, Values: flags})
				log.Debug("std range cluster",
					zap.String("feature", feat.Feature()),
					zap.String("asset", asset),
					zap.Strings("peers", peers))
			}
			tracker.sample(ctx)
		}
		report.PeakMemoryPercent = tracker.peak
		if opts.OnReport != nil {
			opts.OnReport(report)
		}

		return frame.NewMask(f.Len(), f.Index(), out...)
	}), nil
}

// peerSet returns the assets whose correlation with asset is > r2, padded to
// minPeers from the ranking. The asset itself is never selected.
func peerSet(corr *correlation.Matrix, asset string, r2 float64, minPeers int) ([]string, error) {
	ranking, err := corr.Rank(asset)
	if err != nil {
		return nil, err
	}
	row, err := corr.Row(asset)
	if err != nil {
		return nil, err
	}
	assets := corr.Assets()
	selected := make(map[string]struct{}, len(assets))
	var peers []string
	// Qualifying peers keep matrix order.
	for j, rho := range row {
		if assets[j] != asset && rho > r2 {
			peers = append(peers, assets[j])
			selected[assets[j]] = struct{}{}
		}
	}
	for _, nb := range ranking {
		if len(peers) >= minPeers {
			break
		}
		if _, ok := selected[nb.Asset]; ok {
			continue
		}
		peers = append(peers, nb.Asset)
		selected[nb.Asset] = struct{}{}
	}

	return peers, nil
}

// peerDeviation flags target rows strictly outside mean ± k·std of the peers.
func peerDeviation(f *frame.Frame, target string, peers []string, k float64) ([]bool, error) {
	tv, err := f.View(target)
	if err != nil {
		return nil, err
	}
	pv := make([][]float64, len(peers))
	for i, p := range peers {
		if pv[i], err = f.View(p); err != nil {
			return nil, err
		}
	}
	out := make([]bool, len(tv))
	buf := make([]float64, 0, len(peers))
	for r := range tv {
		buf = buf[:0]
		for _, col := range pv {
			if !isNull(col[r]) {
				buf = append(buf, col[r])
			}
		}
		if len(buf) < 2 || isNull(tv[r]) {
			continue
		}
		mean, std := stat.MeanStdDev(buf, nil)
		out[r] = tv[r] < mean-k*std || tv[r] > mean+k*std
	}

	return out, nil
}

// memoryTracker records the peak system memory utilisation.
type memoryTracker struct {
	enabled bool
	peak    float64
}

func (t *memoryTracker) sample(ctx context.Context) {
	if !t.enabled {
		return
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return
	}
	t.peak = math.Max(t.peak, vm.UsedPercent)
}
