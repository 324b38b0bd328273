// Package frame is the column adapter shared by every data-quality
// component: an immutable time-indexed table of float64 columns, boolean
// masks, explicit asset→column maps and deferred (lazy) plans.
//
// What is here?
//
//   - Frame: ordered, named float64 columns over an optional time index.
//     NaN is the single missing-value marker. Every transform returns a new
//     Frame; inputs are never mutated.
//   - Mask: boolean columns aligned row-for-row with the Frame they were
//     computed from (true = flagged).
//   - AssetColumns: the mapping asset id → column name for one feature,
//     built once at the boundary so that core code never parses names.
//   - LazyFrame / LazyMask: immutable plans that run only on Collect(ctx).
//     Cache() marks a node whose result is computed at most once.
//   - Long: (time, asset, features...) records, pivoted with Wide.
//   - Arrow interop: FromRecord, (*Frame).ToRecord, (*Mask).ToRecord.
//
// Usage:
//
//	f, _ := frame.New(times,
//	    frame.Series{Name: "power_T1", Values: p1},
//	    frame.Series{Name: "power_T2", Values: p2},
//	)
//	power, _ := frame.ParseAssetColumns("power", f.Columns())
//	lf := f.Lazy().Cache()
//	out, _ := lf.Select(power.Columns()...).Collect(ctx)
package frame
