// SPDX-License-Identifier: MIT

package cluster

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/plantqc/matrix"
)

// singularEpsilon is the relative pivot guard used when inverting covariances.
const singularEpsilon = 1e-12

// Mahalanobis returns, for every point, its Mahalanobis distance to centroid
// under the sample covariance (ddof 1) of points.
//
// Implementation:
//   - Stage 1: validate shape and finiteness; require len(points) ≥ d+1.
//   - Stage 2: matrix.Covariance, then matrix.Inverse with a relative pivot guard.
//   - Stage 3: sqrt((p−c)ᵀ Σ⁻¹ (p−c)) per point via matrix.QuadForm.
//
// Errors:
//   - ErrEmptyInput, ErrDimensionMismatch, ErrNonFinite.
//   - ErrSingularCovariance when there are too few points or Σ is singular.
//
// Complexity:
//   - Time O(n·d² + d³), Space O(n·d).
func Mahalanobis(points [][]float64, centroid []float64) ([]float64, error) {
	d, err := validatePoints(points)
	if err != nil {
		return nil, err
	}
	if len(centroid) != d {
		return nil, fmt.Errorf("%w: centroid has %d coordinates, want %d", ErrDimensionMismatch, len(centroid), d)
	}
	if len(points) < d+1 {
		return nil, fmt.Errorf("%w: %d points in %d dimensions", ErrSingularCovariance, len(points), d)
	}

	inv, err := InverseCovariance(points)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(points))
	diff := make([]float64, d)
	for i, p := range points {
		for j := range p {
			diff[j] = p[j] - centroid[j]
		}
		q, err := matrix.QuadForm(inv, diff)
		if err != nil {
			return nil, fmt.Errorf("cluster: Mahalanobis: %w", err)
		}
		// Rounding can push a zero distance slightly negative.
		out[i] = math.Sqrt(math.Max(q, 0))
	}

	return out, nil
}

// InverseCovariance returns Σ⁻¹ of the sample covariance of points.
func InverseCovariance(points [][]float64) (matrix.Matrix, error) {
	d, err := validatePoints(points)
	if err != nil {
		return nil, err
	}
	data := make([]float64, 0, len(points)*d)
	for _, p := range points {
		data = append(data, p...)
	}
	x, err := matrix.NewDenseFrom(len(points), d, data)
	if err != nil {
		return nil, fmt.Errorf("cluster: %w", err)
	}
	cov, _, err := matrix.Covariance(x)
	if err != nil {
		if errors.Is(err, matrix.ErrDimensionMismatch) {
			return nil, fmt.Errorf("%w: %v", ErrSingularCovariance, err)
		}

		return nil, fmt.Errorf("cluster: %w", err)
	}
	inv, err := matrix.Inverse(cov, matrix.WithEpsilon(singularEpsilon))
	if err != nil {
		if errors.Is(err, matrix.ErrSingular) {
			return nil, fmt.Errorf("%w: %w", ErrSingularCovariance, err)
		}

		return nil, fmt.Errorf("cluster: %w", err)
	}

	return inv, nil
}
