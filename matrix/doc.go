// SPDX-License-Identifier: MIT

// Package matrix provides the small dense linear-algebra core used by the
// plant data-quality packages.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with safe accessors (At/Set return
//     errors, never panic) and an explicit numeric policy for NaN/Inf.
//   - Canonical kernels: Mul, Transpose, Scale, MatVec, LU and Inverse.
//   - Column statistics: CenterColumns, Covariance and the NaN-aware
//     PairwiseCorrelation used to correlate assets over a shared time axis.
//
// Numeric policy:
//
//	By default Set rejects NaN and ±Inf (ErrNaNInf). Correlation matrices use
//	NaN as "undefined", so they are allocated with WithNoValidateNaNInf().
//
// Determinism:
//
//	Every kernel uses fixed i→j→k loop orders; results are bit-identical for
//	identical inputs on the same platform.
//
// See example_test.go for usage patterns.
package matrix
