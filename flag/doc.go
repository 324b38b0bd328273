// Package flag implements the data-quality flags for multi-asset telemetry.
//
// Every flag returns a *frame.Mask aligned row-for-row with its input
// (true = suspect). Rows are never added or dropped, and a missing value
// (NaN) is never flagged by any comparison.
//
// Flags:
//
//   - Range:        value outside the inclusive [lower, upper] bounds.
//   - Unresponsive: value is part of a run of ≥ Threshold identical readings.
//   - StdRange:     value beyond k sample standard deviations from the mean,
//     pooled over time, or (lazy only) across correlated peer assets.
//   - WindowRange:  value outside its band while a window signal is inside its band.
//   - Bin:          value far from its covariate bin's center (mean or median).
//   - ClusterMahalanobis: 2-D k-means, then per-cluster Mahalanobis outliers.
//
// Eager and lazy:
//
//	Each flag is one column kernel with two backends. The eager function
//	runs the kernel now on a *frame.Frame; the Lazy variant validates its
//	options and schema immediately and returns a *frame.LazyMask that runs
//	the same kernel on Collect.
//
// Options follow one pattern: a struct with DefaultXOptions() constructors.
// Invalid options fail with a sentinel error before any computation.
package flag
