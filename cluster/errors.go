// SPDX-License-Identifier: MIT

package cluster

import "errors"

var (
	// ErrEmptyInput is returned when there are no points to cluster.
	ErrEmptyInput = errors.New("cluster: no points")

	// ErrInvalidK is returned when k < 1 or k exceeds the number of points.
	ErrInvalidK = errors.New("cluster: invalid number of clusters")

	// ErrDimensionMismatch is returned for ragged points or a centroid of the wrong size.
	ErrDimensionMismatch = errors.New("cluster: dimension mismatch")

	// ErrNonFinite is returned when a point holds NaN or ±Inf.
	ErrNonFinite = errors.New("cluster: non-finite coordinate")

	// ErrSingularCovariance is returned when a cluster's covariance cannot be inverted.
	ErrSingularCovariance = errors.New("cluster: singular covariance matrix")
)
