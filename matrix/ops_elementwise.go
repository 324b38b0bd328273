// SPDX-License-Identifier: MIT
// Package: matrix
//
// Element-wise micro-kernels shared by the statistics transforms.

package matrix

const opBroadcastSubCols = "ewBroadcastSubCols"

// ewBroadcastSubCols returns X with v[j] subtracted from every element of column j.
// Errors: ErrDimensionMismatch when len(v) != X.Cols().
// Complexity: O(r*c).
func ewBroadcastSubCols(X *Dense, v []float64) (*Dense, error) {
	if err := ValidateVecLen(v, X.c); err != nil {
		return nil, matrixErrorf(opBroadcastSubCols, err)
	}
	out, err := newResult(X.r, X.c)
	if err != nil {
		return nil, matrixErrorf(opBroadcastSubCols, err)
	}
	var i, j, base int
	for i = 0; i < X.r; i++ {
		base = i * X.c
		for j = 0; j < X.c; j++ {
			out.data[base+j] = X.data[base+j] - v[j]
		}
	}

	return out, nil
}
