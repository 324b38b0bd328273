// SPDX-License-Identifier: MIT

package impute

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/plantqc/correlation"
	"github.com/katalvlaran/plantqc/frame"
)

// DefaultPrefix is the column prefix used by Result.Renamed callers that
// want the conventional imputed_ names.
const DefaultPrefix = "imputed_"

// Report describes one asset's cascade.
type Report struct {
	Asset       string
	Column      string
	Reason      Reason
	Fits        int
	NullsBefore int
	NullsAfter  int
	Neighbors   []string // peers whose fit was applied, in order
	Err         error    // fit failure cause, or *AssetError for a crash
}

// Result is the best-effort imputation of every asset.
type Result struct {
	// Frame is the input with every impute column replaced by its filled
	// version, original names kept.
	Frame *frame.Frame
	// Reports are in matrix (asset) order.
	Reports []Report

	columns []string
}

// Incomplete lists the assets that still hold nulls, including crashed ones.
func (r *Result) Incomplete() []string {
	var out []string
	for _, rep := range r.Reports {
		if rep.NullsAfter > 0 {
			out = append(out, rep.Asset)
		}
	}

	return out
}

// Failed lists the assets whose task crashed.
func (r *Result) Failed() []string {
	var out []string
	for _, rep := range r.Reports {
		if rep.Reason == Crashed {
			out = append(out, rep.Asset)
		}
	}

	return out
}

// Renamed returns Frame with prefix prepended to every imputed column.
func (r *Result) Renamed(prefix string) (*frame.Frame, error) {
	set := make(map[string]struct{}, len(r.columns))
	for _, c := range r.columns {
		set[c] = struct{}{}
	}

	return r.Frame.Rename(func(name string) string {
		if _, ok := set[name]; ok {
			return prefix + name
		}

		return name
	})
}

// AllAssets fills the nulls of every impute column from correlated peers.
//
// Implementation:
//   - Stage 1: resolve options (ErrUnknownMethod, ErrUnknownMode) and check
//     that every mapped column exists and every asset has a reference column.
//   - Stage 2: correlate the impute columns and rank each asset's peers.
//   - Stage 3: run one cascade per asset through the selected executor.
//     The fit regresses the asset's original impute column on the peer's
//     reference column.
//   - Stage 4: merge the filled columns by asset into a copy of f.
//
// reference may be the zero AssetColumns, in which case impute is used.
//
// Errors:
//   - configuration errors before any computation;
//   - ctx errors when the executor stops early (no Result);
//   - the joined *AssetError of crashed tasks, next to a non-nil Result.
func AllAssets(ctx context.Context, f *frame.Frame, impute, reference frame.AssetColumns, opts ...Option) (*Result, error) {
	o := NewOptions(opts...)
	degree, dispatcher, err := o.resolve()
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, frame.ErrNilFrame
	}
	if reference.Len() == 0 {
		reference = impute
	}
	if err := checkColumns(f, impute, reference); err != nil {
		return nil, fmt.Errorf("impute: AllAssets: %w", err)
	}

	corr, err := correlation.Build(f, impute)
	if err != nil {
		return nil, fmt.Errorf("impute: AllAssets: %w", err)
	}
	ranking := corr.Ranking()
	refColumn := func(asset string) ([]float64, error) {
		name, err := reference.Column(asset)
		if err != nil {
			return nil, err
		}

		return f.View(name)
	}

	assets := corr.Assets()
	tasks := make([]Task, len(assets))
	for i, asset := range assets {
		name, _ := impute.Column(asset) // asset comes from impute
		target, _ := f.View(name)
		c := &cascade{
			target:    target,
			ranking:   ranking[asset],
			reference: refColumn,
			threshold: o.threshold,
			degree:    degree,
		}
		tasks[i] = guard(i, asset, target, func(context.Context) Outcome {
			s := c.run(start(asset, target))

			return Outcome{Index: i, Column: s.Column, Report: report(s, name, frame.CountNull(target))}
		})
	}

	outcomes, err := dispatcher.Dispatch(ctx, tasks)
	if err != nil {
		return nil, fmt.Errorf("impute: AllAssets: %w", err)
	}

	return merge(f, impute, outcomes, o.logger)
}

// AllAssetsLazy defers AllAssets until Collect. Options and schema are
// checked now.
func AllAssetsLazy(lf *frame.LazyFrame, impute, reference frame.AssetColumns, opts ...Option) (*LazyResult, error) {
	if lf == nil {
		return nil, frame.ErrNilFrame
	}
	if _, _, err := NewOptions(opts...).resolve(); err != nil {
		return nil, err
	}
	schema, err := lf.Columns()
	if err != nil {
		return nil, fmt.Errorf("impute: AllAssetsLazy: %w", err)
	}
	have := make(map[string]struct{}, len(schema))
	for _, c := range schema {
		have[c] = struct{}{}
	}
	for _, c := range append(impute.Columns(), reference.Columns()...) {
		if _, ok := have[c]; !ok {
			return nil, fmt.Errorf("impute: AllAssetsLazy: %w: %q", frame.ErrUnknownColumn, c)
		}
	}

	return &LazyResult{plan: lf, impute: impute, reference: reference, opts: opts}, nil
}

// LazyResult is a deferred AllAssets call.
type LazyResult struct {
	plan      *frame.LazyFrame
	impute    frame.AssetColumns
	reference frame.AssetColumns
	opts      []Option
}

// Collect materializes the plan and imputes it.
func (lr *LazyResult) Collect(ctx context.Context) (*Result, error) {
	f, err := lr.plan.Collect(ctx)
	if err != nil {
		return nil, err
	}

	return AllAssets(ctx, f, lr.impute, lr.reference, lr.opts...)
}

// Frame returns the imputed frame as a plan node, so it can be composed
// with further lazy operations. A crashed asset fails the plan.
func (lr *LazyResult) Frame() *frame.LazyFrame {
	return lr.plan.Pipe(frame.NewOperation("impute "+lr.impute.Feature(), nil,
		func(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
			res, err := AllAssets(ctx, f, lr.impute, lr.reference, lr.opts...)
			if err != nil {
				return nil, err
			}

			return res.Frame, nil
		}))
}

func checkColumns(f *frame.Frame, impute, reference frame.AssetColumns) error {
	if err := impute.Validate(f); err != nil {
		return err
	}
	if err := reference.Validate(f); err != nil {
		return err
	}
	for _, a := range impute.Assets() {
		if reference.Pos(a) < 0 {
			return fmt.Errorf("%w: %q has no reference column", frame.ErrUnknownAsset, a)
		}
	}

	return nil
}

func report(s State, column string, before int) Report {
	return Report{
		Asset:       s.Asset,
		Column:      column,
		Reason:      s.Reason,
		Fits:        s.Fits,
		NullsBefore: before,
		NullsAfter:  s.Nulls,
		Neighbors:   s.Used,
		Err:         s.Err,
	}
}

// merge writes every outcome into a copy of f by asset position. The order
// of outcomes does not matter.
func merge(f *frame.Frame, impute frame.AssetColumns, outcomes []Outcome, log *zap.Logger) (*Result, error) {
	columns := impute.Columns()
	reports := make([]Report, len(columns))
	series := make([]frame.Series, len(columns))
	seen := make([]bool, len(columns))
	for _, oc := range outcomes {
		if oc.Index < 0 || oc.Index >= len(columns) || len(oc.Column) != f.Len() {
			return nil, fmt.Errorf("impute: malformed outcome for index %d", oc.Index)
		}
		seen[oc.Index] = true
		oc.Report.Column = columns[oc.Index]
		if oc.Report.Reason == Crashed {
			oc.Report.NullsBefore = frame.CountNull(oc.Column)
			oc.Report.NullsAfter = oc.Report.NullsBefore
		}
		reports[oc.Index] = oc.Report
		series[oc.Index] = frame.Series{Name: columns[oc.Index], Values: oc.Column}
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("impute: no outcome for asset %q", impute.Assets()[i])
		}
	}

	out, err := f.WithColumns(series...)
	if err != nil {
		return nil, fmt.Errorf("impute: %w", err)
	}

	var errs []error
	for _, rep := range reports {
		fields := []zap.Field{
			zap.String("asset", rep.Asset),
			zap.String("reason", rep.Reason.String()),
			zap.Int("fits", rep.Fits),
			zap.Int("nulls_before", rep.NullsBefore),
			zap.Int("nulls_after", rep.NullsAfter),
			zap.Strings("neighbors", rep.Neighbors),
		}
		switch rep.Reason {
		case Crashed:
			errs = append(errs, rep.Err)
			log.Error("impute asset crashed", append(fields, zap.Error(rep.Err))...)
		case FitFailed:
			log.Warn("impute fit failed", append(fields, zap.Error(rep.Err))...)
		default:
			log.Debug("impute asset done", fields...)
		}
	}

	return &Result{Frame: out, Reports: reports, columns: columns}, errors.Join(errs...)
}
