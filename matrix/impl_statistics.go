// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide the column statistics used by the quality flags and the imputer:
//     centering, sample covariance and NaN-aware pairwise Pearson correlation.
//   - Covariance is a composition over canonical kernels (Transpose/Mul/Scale).
//
// Exposed API:
//   - CenterColumns(X)              -> (Xc, means)  // subtract per-column mean
//   - Covariance(X)                 -> (Cov, means) // sample covariance: (Xcᵀ Xc)/(r-1)
//   - PairwiseCorrelation(X, minP)  -> Corr         // Pearson over pairwise-complete rows
//
// Determinism & Performance:
//   - Fixed i→j traversal for all explicit loops.
//   - Dense fast-paths operate on row-major flat buffers.

package matrix

import "math"

const (
	opCenterColumns       = "CenterColumns"
	opCovariance          = "Covariance"
	opPairwiseCorrelation = "PairwiseCorrelation"
)

// CenterColumns subtracts the per-column mean from every element.
//
// Implementation:
//   - Stage 1: validate X (non-nil).
//   - Stage 2: accumulate column sums (Dense fast-path; At fallback) and divide by r.
//   - Stage 3: ewBroadcastSubCols builds the centered copy.
//
// Returns:
//   - Matrix: centered copy (r×c).
//   - []float64: column means (len=c).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func CenterColumns(X Matrix) (Matrix, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	d, err := toDense(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}

	r, c := d.r, d.c
	means := make([]float64, c)
	var i, j, base int
	for i = 0; i < r; i++ {
		base = i * c
		for j = 0; j < c; j++ {
			means[j] += d.data[base+j]
		}
	}
	invR := 1.0 / float64(r)
	for j = 0; j < c; j++ {
		means[j] *= invR
	}

	Xc, err := ewBroadcastSubCols(d, means)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}

	return Xc, means, nil
}

// Covariance computes the sample covariance of the columns of X.
//
// Implementation:
//   - Stage 1: center columns.
//   - Stage 2: Cov = (Xcᵀ · Xc) / (r − 1).
//
// Errors:
//   - ErrNilMatrix.
//   - ErrDimensionMismatch when X has fewer than two rows (ddof 1 undefined).
//
// Complexity:
//   - Time O(r·c²), Space O(c²).
func Covariance(X Matrix) (Matrix, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	if X.Rows() < 2 {
		return nil, nil, matrixErrorf(opCovariance, ErrDimensionMismatch)
	}
	Xc, means, err := CenterColumns(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	XcT, err := Transpose(Xc)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	prod, err := Mul(XcT, Xc)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	cov, err := Scale(prod, 1.0/float64(X.Rows()-1))
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}

	return cov, means, nil
}

// PairwiseCorrelation computes the Pearson correlation of every pair of
// columns of X using only rows where both columns are finite.
//
// Implementation:
//   - Stage 1: validate X and minPeriods (values below 2 are raised to 2).
//   - Stage 2: for each pair i<j, two passes over the overlap (means, then
//     centered products) and write the result to both (i,j) and (j,i).
//   - Stage 3: the diagonal is NaN.
//
// Behavior highlights:
//   - Fewer than minPeriods overlapping rows ⇒ NaN.
//   - Zero variance of either column over the overlap ⇒ NaN.
//   - Results are clamped to [-1, 1] to absorb rounding.
//
// Returns:
//   - *Dense (c×c) with NaN validation disabled.
//
// Complexity:
//   - Time O(r·c²), Space O(c²).
func PairwiseCorrelation(X Matrix, minPeriods int) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opPairwiseCorrelation, err)
	}
	d, err := toDense(X)
	if err != nil {
		return nil, matrixErrorf(opPairwiseCorrelation, err)
	}
	if minPeriods < 2 {
		minPeriods = 2
	}

	r, c := d.r, d.c
	out, err := newResult(c, c)
	if err != nil {
		return nil, matrixErrorf(opPairwiseCorrelation, err)
	}
	for i := 0; i < c; i++ {
		out.data[i*c+i] = math.NaN()
		for j := i + 1; j < c; j++ {
			rho := pairPearson(d.data, r, c, i, j, minPeriods)
			out.data[i*c+j] = rho
			out.data[j*c+i] = rho
		}
	}

	return out, nil
}

// pairPearson evaluates Pearson's r for columns a and b of a row-major buffer.
func pairPearson(data []float64, r, c, a, b, minPeriods int) float64 {
	var (
		n          int
		sumA, sumB float64
		va, vb     float64
	)
	for i := 0; i < r; i++ {
		va, vb = data[i*c+a], data[i*c+b]
		if !finite(va) || !finite(vb) {
			continue
		}
		sumA += va
		sumB += vb
		n++
	}
	if n < minPeriods {
		return math.NaN()
	}
	meanA, meanB := sumA/float64(n), sumB/float64(n)

	var sab, saa, sbb, da, db float64
	for i := 0; i < r; i++ {
		va, vb = data[i*c+a], data[i*c+b]
		if !finite(va) || !finite(vb) {
			continue
		}
		da, db = va-meanA, vb-meanB
		sab += da * db
		saa += da * da
		sbb += db * db
	}
	if saa == 0 || sbb == 0 {
		return math.NaN()
	}
	rho := sab / math.Sqrt(saa*sbb)

	return math.Max(-1, math.Min(1, rho))
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
