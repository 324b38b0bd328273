// SPDX-License-Identifier: MIT

package flag

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/plantqc/cluster"
	"github.com/katalvlaran/plantqc/frame"
)

// ClusterMahalanobis defaults.
const (
	DefaultClusters      = 13
	DefaultDistThreshold = 3.0
)

// ClusterOptions configures ClusterMahalanobis.
//   - Column1/Column2: the two coordinates (e.g. wind speed and power).
//   - Clusters: k-means cluster count, 1 ≤ Clusters ≤ complete rows.
//   - DistThreshold: flag distances strictly above it.
//   - Seed, MaxIter, Tolerance: forwarded to cluster.KMeans.
//   - Logger: per-cluster diagnostics (nil ⇒ zap.NewNop()).
type ClusterOptions struct {
	Column1       string
	Column2       string
	Clusters      int
	DistThreshold float64
	Seed          int64
	MaxIter       int
	Tolerance     float64
	Logger        *zap.Logger
}

// DefaultClusterOptions returns 13 clusters and a distance threshold of 3.
func DefaultClusterOptions(column1, column2 string) ClusterOptions {
	return ClusterOptions{
		Column1:       column1,
		Column2:       column2,
		Clusters:      DefaultClusters,
		DistThreshold: DefaultDistThreshold,
		MaxIter:       cluster.DefaultMaxIter,
		Tolerance:     cluster.DefaultTolerance,
	}
}

// ClusterMahalanobis partitions the (Column1, Column2) points with k-means and
// flags every point whose Mahalanobis distance to its cluster centroid,
// under that cluster's sample covariance, exceeds DistThreshold.
//
// Rows with a missing or non-finite coordinate take no part in clustering
// and are never flagged. The mask has one column named after Column1.
//
// Errors:
//   - ErrInvalidOption, frame.ErrUnknownColumn.
//   - ErrInvalidClusters when Clusters < 1 or exceeds the complete rows.
//   - cluster.ErrSingularCovariance, wrapped with the cluster index, when a
//     cluster has fewer than 3 points or a singular covariance.
func ClusterMahalanobis(f *frame.Frame, opts ClusterOptions) (*frame.Mask, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, frame.ErrNilFrame
	}

	return clusterMask(f, opts)
}

// ClusterMahalanobisLazy is ClusterMahalanobis over a deferred plan.
func ClusterMahalanobisLazy(lf *frame.LazyFrame, opts ClusterOptions) (*frame.LazyMask, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if _, err := resolveSchema(lf, []string{opts.Column1, opts.Column2}); err != nil {
		return nil, fmt.Errorf("flag: ClusterMahalanobisLazy: %w", err)
	}

	return frame.NewLazyMask(lf, "cluster_mahalanobis", []string{opts.Column1},
		func(_ context.Context, f *frame.Frame) (*frame.Mask, error) {
			return clusterMask(f, opts)
		}), nil
}

func (o ClusterOptions) validate() error {
	if o.Column1 == "" || o.Column2 == "" {
		return fmt.Errorf("%w: both columns are required", ErrInvalidOption)
	}
	if o.Clusters < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidClusters, o.Clusters)
	}
	if math.IsNaN(o.DistThreshold) || o.DistThreshold < 0 {
		return fmt.Errorf("%w: distance threshold %v", ErrInvalidOption, o.DistThreshold)
	}

	return nil
}

func clusterMask(f *frame.Frame, opts ClusterOptions) (*frame.Mask, error) {
	x, err := f.View(opts.Column1)
	if err != nil {
		return nil, fmt.Errorf("flag: ClusterMahalanobis: %w", err)
	}
	y, err := f.View(opts.Column2)
	if err != nil {
		return nil, fmt.Errorf("flag: ClusterMahalanobis: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	rows := make([]int, 0, len(x))
	points := make([][]float64, 0, len(x))
	for i := range x {
		if finite(x[i]) && finite(y[i]) {
			rows = append(rows, i)
			points = append(points, []float64{x[i], y[i]})
		}
	}
	if opts.Clusters > len(points) {
		return nil, fmt.Errorf("%w: %d clusters for %d complete rows", ErrInvalidClusters, opts.Clusters, len(points))
	}

	km, err := cluster.KMeans(points, cluster.KMeansOptions{
		K:         opts.Clusters,
		Seed:      opts.Seed,
		MaxIter:   opts.MaxIter,
		Tolerance: opts.Tolerance,
	})
	if err != nil {
		return nil, fmt.Errorf("flag: ClusterMahalanobis: %w", err)
	}

	members := make([][]int, opts.Clusters)
	for p, c := range km.Labels {
		members[c] = append(members[c], p)
	}
	flags := make([]bool, len(x))
	for c, idx := range members {
		if len(idx) == 0 {
			continue
		}
		pts := make([][]float64, len(idx))
		for i, p := range idx {
			pts[i] = points[p]
		}
		dist, err := cluster.Mahalanobis(pts, km.Centroids[c])
		if err != nil {
			return nil, fmt.Errorf("flag: ClusterMahalanobis: cluster %d: %w", c, err)
		}
		flagged := 0
		for i, d := range dist {
			if d > opts.DistThreshold {
				flags[rows[idx[i]]] = true
				flagged++
			}
		}
		log.Debug("cluster mahalanobis",
			zap.Int("cluster", c),
			zap.Int("points", len(idx)),
			zap.Int("flagged", flagged))
	}

	return frame.NewMask(f.Len(), f.Index(), frame.BoolSeries{Name: opts.Column1, Values: flags})
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
