// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// matrix multiplication, transpose, scalar scaling, matrix-vector products,
// LU factorization and inversion. All functions perform strict fail-fast
// validation and return clear errors on dimension mismatches.
//
// Notes:
//   - Every kernel has a *Dense fast-path on the flat buffer and a generic
//     At/Set fallback with full error propagation.
//   - Results are always fresh *Dense values that allow NaN/Inf, since
//     kernels must be able to propagate undefined statistics.

package matrix

import (
	"fmt"
	"math"
)

// ZeroSum is the initial sum value for forward/backward substitution and similar.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opMul       = "Mul"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opMatVec    = "MatVec"
	opLU        = "LU"
	opInverse   = "Inverse"
	opQuadForm  = "QuadForm"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// newResult allocates a kernel output buffer. Outputs never reject NaN/Inf.
func newResult(rows, cols int) (*Dense, error) {
	return NewDense(rows, cols, WithNoValidateNaNInf())
}

// toDense returns m as *Dense, copying through At for foreign implementations.
func toDense(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	out, err := newResult(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	var v float64
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, fmt.Errorf("At(%d,%d): %w", i, j, err)
			}
			out.data[i*out.c+j] = v
		}
	}

	return out, nil
}

// Mul performs standard matrix multiplication C = A × B.
//
// Implementation:
//   - Stage 1: validate non-nil operands and a.Cols == b.Rows.
//   - Stage 2: Dense×Dense uses the i-k-j loop on flat buffers.
//   - Stage 3: otherwise a generic i-j-k loop through At.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (wrapped with "Mul").
//
// Complexity:
//   - Time O(r·n·c), Space O(r·c).
func Mul(a, b Matrix) (Matrix, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := newResult(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k int
		av, bv  float64
	)
	da, okA := a.(*Dense)
	db, okB := b.(*Dense)
	if okA && okB {
		var rowA, rowB, rowR int
		for i = 0; i < aRows; i++ {
			rowA = i * aCols
			rowR = i * bCols
			for k = 0; k < aCols; k++ {
				av = da.data[rowA+k]
				rowB = k * bCols
				for j = 0; j < bCols; j++ {
					res.data[rowR+j] += av * db.data[rowB+j]
				}
			}
		}

		return res, nil
	}

	var sum float64
	for i = 0; i < aRows; i++ {
		for j = 0; j < bCols; j++ {
			sum = ZeroSum
			for k = 0; k < aCols; k++ {
				if av, err = a.At(i, k); err != nil {
					return nil, matrixErrorf(opMul, fmt.Errorf("At(%d,%d): %w", i, k, err))
				}
				if bv, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, fmt.Errorf("At(%d,%d): %w", k, j, err))
				}
				sum += av * bv
			}
			res.data[i*bCols+j] = sum
		}
	}

	return res, nil
}

// Transpose returns mᵀ as a fresh Dense.
// Complexity: O(r·c).
func Transpose(m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := d.r, d.c
	res, err := newResult(cols, rows)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j, base int
	for i = 0; i < rows; i++ {
		base = i * cols
		for j = 0; j < cols; j++ {
			res.data[j*rows+i] = d.data[base+j]
		}
	}

	return res, nil
}

// Scale returns alpha·m.
// Complexity: O(r·c).
func Scale(m Matrix, alpha float64) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res, err := newResult(d.r, d.c)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	for idx, v := range d.data {
		res.data[idx] = v * alpha
	}

	return res, nil
}

// MatVec computes y = m·x.
// Errors: ErrNilMatrix, ErrDimensionMismatch when len(x) != m.Cols().
// Complexity: O(r·c).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, d.r)
	var sum float64
	for i := 0; i < d.r; i++ {
		sum = ZeroSum
		base := i * d.c
		for j := 0; j < d.c; j++ {
			sum += d.data[base+j] * x[j]
		}
		y[i] = sum
	}

	return y, nil
}

// QuadForm computes xᵀ·A·x for a square A.
// Used for Mahalanobis distances with an inverse covariance.
// Complexity: O(n²).
func QuadForm(a Matrix, x []float64) (float64, error) {
	if err := ValidateNotNil(a); err != nil {
		return 0, matrixErrorf(opQuadForm, err)
	}
	if err := ValidateSquare(a); err != nil {
		return 0, matrixErrorf(opQuadForm, err)
	}
	ax, err := MatVec(a, x)
	if err != nil {
		return 0, matrixErrorf(opQuadForm, err)
	}
	q := ZeroSum
	for i := range x {
		q += x[i] * ax[i]
	}

	return q, nil
}

// LU computes the Doolittle factorization m = L·U (unit diagonal on L), no pivoting.
//
// Implementation:
//   - Stage 1: validate non-nil and square.
//   - Stage 2: per-pivot guard: |U[i,i]| ≤ eps·|m[i,i]| ⇒ ErrSingular
//     (rows with a zero diagonal use their largest entry instead).
//   - Stage 3: row-major Doolittle loops on flat buffers.
//
// Behavior highlights:
//   - Exactly collinear data produces a tiny non-zero pivot in floating point;
//     the relative guard reports it as singular instead of returning garbage.
//   - The guard is invariant to rescaling a variable, so a covariance whose
//     variances differ by many orders of magnitude is not singular for that alone.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular (wrapped with "LU").
//
// Complexity:
//   - Time O(n³), Space O(n²).
func LU(m Matrix, opts ...Option) (Matrix, Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	if err := ValidateSquare(m); err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	a, err := toDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	o := gatherOptions(opts...)

	n := a.r
	L, err := newResult(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	U, err := newResult(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}

	for _, v := range a.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, matrixErrorf(opLU, ErrNaNInf)
		}
	}

	var (
		i, j, k int
		sum     float64
	)
	for i = 0; i < n; i++ {
		L.data[i*n+i] = 1.0
		for j = i; j < n; j++ {
			sum = ZeroSum
			for k = 0; k < i; k++ {
				sum += L.data[i*n+k] * U.data[k*n+j]
			}
			U.data[i*n+j] = a.data[i*n+j] - sum
		}
		if math.Abs(U.data[i*n+i]) <= o.eps*pivotScale(a, i) {
			return nil, nil, matrixErrorf(opLU, ErrSingular)
		}
		for j = i + 1; j < n; j++ {
			sum = ZeroSum
			for k = 0; k < i; k++ {
				sum += L.data[j*n+k] * U.data[k*n+i]
			}
			L.data[j*n+i] = (a.data[j*n+i] - sum) / U.data[i*n+i]
		}
	}

	return L, U, nil
}

// pivotScale is the magnitude the i-th pivot is compared against.
func pivotScale(a *Dense, i int) float64 {
	n := a.c
	if d := math.Abs(a.data[i*n+i]); d > 0 {
		return d
	}
	s := 0.0
	for _, v := range a.data[i*n : (i+1)*n] {
		s = math.Max(s, math.Abs(v))
	}

	return s
}

// Inverse computes A^{-1} using Doolittle LU factorization without pivoting.
//
// Implementation:
//   - Stage 1: LU(m) with the same options (pivot guard).
//   - Stage 2: for each unit vector e_col solve L·y = e_col, then U·x = y.
//   - Stage 3: write x into column col of the result.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular, ErrNaNInf (wrapped with "Inverse").
//
// Complexity:
//   - Time O(n³), Space O(n²).
func Inverse(m Matrix, opts ...Option) (Matrix, error) {
	Lm, Um, err := LU(m, opts...)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	L := Lm.(*Dense)
	U := Um.(*Dense)

	n := L.r
	inv, err := newResult(n, n)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	var (
		col, i, k int
		sum       float64
		y         = make([]float64, n)
		x         = make([]float64, n)
	)
	for col = 0; col < n; col++ {
		// Forward substitution: L*y = e_col
		for i = 0; i < n; i++ {
			sum = ZeroSum
			for k = 0; k < i; k++ {
				sum += L.data[i*n+k] * y[k]
			}
			if i == col {
				y[i] = 1.0 - sum
			} else {
				y[i] = ZeroSum - sum // avoids -0 for untouched entries
			}
		}
		// Backward substitution: U*x = y
		for i = n - 1; i >= 0; i-- {
			sum = ZeroSum
			for k = i + 1; k < n; k++ {
				sum += U.data[i*n+k] * x[k]
			}
			x[i] = (y[i] - sum) / U.data[i*n+i]
		}
		for i = 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}

	return inv, nil
}
