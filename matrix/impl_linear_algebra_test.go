// SPDX-License-Identifier: MIT
package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/plantqc/matrix"
)

// TestMul_FastPathMatchesFallback ensures the dense fast path matches the generic product.
func TestMul_FastPathMatchesFallback(t *testing.T) {
	a := MustDenseFrom(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	b := MustDenseFrom(t, 3, 2, []float64{7, 8, 9, 10, 11, 12})
	want := MustDenseFrom(t, 2, 2, []float64{58, 64, 139, 154})

	fast, err := matrix.Mul(a, b)
	require.NoError(t, err)
	requireAllClose(t, want, fast, 0)

	slow, err := matrix.Mul(hide{a}, b)
	require.NoError(t, err)
	requireAllClose(t, want, slow, 0)

	_, err = matrix.Mul(a, a)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Mul(nil, a)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestTransposeScaleMatVec checks the small helper products by hand.
func TestTransposeScaleMatVec(t *testing.T) {
	a := MustDenseFrom(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})

	at, err := matrix.Transpose(hide{a})
	require.NoError(t, err)
	requireAllClose(t, MustDenseFrom(t, 3, 2, []float64{1, 4, 2, 5, 3, 6}), at, 0)

	s, err := matrix.Scale(a, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 3.0, MustAt(t, s, 1, 2))

	y, err := matrix.MatVec(a, []float64{1, 0, -1})
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -2}, y)

	_, err = matrix.MatVec(a, []float64{1})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestInverse_RoundTrip ensures A·A⁻¹ is the identity.
func TestInverse_RoundTrip(t *testing.T) {
	a := MustDenseFrom(t, 3, 3, []float64{
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	})
	inv, err := matrix.Inverse(a)
	require.NoError(t, err)
	id, err := matrix.Mul(a, inv)
	require.NoError(t, err)
	requireAllClose(t, MustDenseFrom(t, 3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}), id, 1e-12)

	q, err := matrix.QuadForm(inv, []float64{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, q)
}

// TestInverse_Singular ensures singular inputs report ErrSingular.
func TestInverse_Singular(t *testing.T) {
	// Second row is exactly twice the first.
	a := MustDenseFrom(t, 2, 2, []float64{1, 2, 2, 4})
	_, err := matrix.Inverse(a)
	assert.ErrorIs(t, err, matrix.ErrSingular)

	// Collinear covariance with rounding noise is still caught by the relative guard.
	b := MustDenseFrom(t, 2, 2, []float64{0.1, 0.3, 0.3, 0.9 + 1e-17})
	_, err = matrix.Inverse(b, matrix.WithEpsilon(1e-9))
	assert.ErrorIs(t, err, matrix.ErrSingular)

	_, err = matrix.Inverse(MustDenseFrom(t, 2, 3, []float64{1, 2, 3, 4, 5, 6}))
	assert.ErrorIs(t, err, matrix.ErrNonSquare)
}

// TestInverse_AnisotropicCovariance ensures variances twenty orders of
// magnitude apart do not trip the pivot guard when the matrix is invertible.
func TestInverse_AnisotropicCovariance(t *testing.T) {
	// det = 1e-8 − 0.25e-8; correlation 0.5.
	a := MustDenseFrom(t, 2, 2, []float64{
		1e-14, 0.5e-4,
		0.5e-4, 1e6,
	})
	inv, err := matrix.Inverse(a)
	require.NoError(t, err)
	id, err := matrix.Mul(a, inv)
	require.NoError(t, err)
	requireAllClose(t, MustDenseFrom(t, 2, 2, []float64{1, 0, 0, 1}), id, 1e-9)
}
