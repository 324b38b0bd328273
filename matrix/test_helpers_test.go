// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers.
//
// Purpose:
//   - Provide small, deterministic fixtures for kernels.
//   - Force the At/Set fallback paths through an interface-hiding wrapper.

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/plantqc/matrix"
)

// hide wraps any Matrix to hide its concrete type from type assertions,
// forcing the non-*Dense fallback paths in code under test.
type hide struct{ matrix.Matrix }

// MustDenseFrom allocates an r×c *Dense from row-major data or fails the test.
func MustDenseFrom(t *testing.T, r, c int, data []float64, opts ...matrix.Option) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(r, c, data, opts...)
	require.NoError(t, err)

	return m
}

// MustAt reads (i,j) or fails the test.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// requireAllClose compares two matrices element-wise within tol; NaN equals NaN.
func requireAllClose(t *testing.T, want, got matrix.Matrix, tol float64) {
	t.Helper()
	require.Equal(t, want.Rows(), got.Rows(), "rows")
	require.Equal(t, want.Cols(), got.Cols(), "cols")
	for i := 0; i < want.Rows(); i++ {
		for j := 0; j < want.Cols(); j++ {
			w, g := MustAt(t, want, i, j), MustAt(t, got, i, j)
			if math.IsNaN(w) {
				require.Truef(t, math.IsNaN(g), "[%d,%d] want NaN, got %v", i, j, g)
				continue
			}
			require.InDeltaf(t, w, g, tol, "[%d,%d]", i, j)
		}
	}
}
