// SPDX-License-Identifier: MIT
package flag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/plantqc/cluster"
	"github.com/katalvlaran/plantqc/flag"
	"github.com/katalvlaran/plantqc/frame"
)

// gridWithOutlier is a 5×5 grid on [-2, 2]² plus (8, 8) and one incomplete row.
func gridWithOutlier(t *testing.T) *frame.Frame {
	t.Helper()
	var xs, ys []float64
	for x := -2.0; x <= 2; x++ {
		for y := -2.0; y <= 2; y++ {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	xs = append(xs, 8, nan)
	ys = append(ys, 8, 100)

	return mustFrame(t,
		frame.Series{Name: "ws", Values: xs},
		frame.Series{Name: "power", Values: ys},
	)
}

// TestClusterMahalanobis_SingleCluster ensures far points of one cluster are flagged.
func TestClusterMahalanobis_SingleCluster(t *testing.T) {
	f := gridWithOutlier(t)
	opts := flag.DefaultClusterOptions("ws", "power")
	opts.Clusters = 1

	m, err := flag.ClusterMahalanobis(f, opts)
	require.NoError(t, err)
	got := column(t, m, "ws")
	require.Len(t, got, f.Len())
	assert.Equal(t, 1, m.Count("ws"))
	assert.True(t, got[25], "outlier at (8, 8)")
	assert.False(t, got[26], "incomplete row")

	lazy, err := flag.ClusterMahalanobisLazy(f.Lazy(), opts)
	require.NoError(t, err)
	collectEqual(t, m, lazy)
}

// TestClusterMahalanobis_SingularCovariance ensures a degenerate cluster reports ErrSingularCovariance.
func TestClusterMahalanobis_SingularCovariance(t *testing.T) {
	line := mustFrame(t,
		frame.Series{Name: "a", Values: []float64{1, 2, 3, 4}},
		frame.Series{Name: "b", Values: []float64{2, 4, 6, 8}},
	)
	opts := flag.DefaultClusterOptions("a", "b")
	opts.Clusters = 1
	_, err := flag.ClusterMahalanobis(line, opts)
	assert.ErrorIs(t, err, cluster.ErrSingularCovariance)
	assert.ErrorContains(t, err, "cluster 0")

	pair := mustFrame(t,
		frame.Series{Name: "a", Values: []float64{1, 2}},
		frame.Series{Name: "b", Values: []float64{5, 3}},
	)
	_, err = flag.ClusterMahalanobis(pair, opts)
	assert.ErrorIs(t, err, cluster.ErrSingularCovariance, "two points in two dimensions")
}

// TestClusterMahalanobis_InvalidClusters ensures bad cluster counts and columns are rejected.
func TestClusterMahalanobis_InvalidClusters(t *testing.T) {
	f := mustFrame(t,
		frame.Series{Name: "a", Values: []float64{1, 2, nan}},
		frame.Series{Name: "b", Values: []float64{5, 3, 1}},
	)
	opts := flag.DefaultClusterOptions("a", "b")
	opts.Clusters = 0
	_, err := flag.ClusterMahalanobis(f, opts)
	assert.ErrorIs(t, err, flag.ErrInvalidClusters)

	opts.Clusters = 3
	_, err = flag.ClusterMahalanobis(f, opts)
	assert.ErrorIs(t, err, flag.ErrInvalidClusters, "only two complete rows")

	opts.Column2 = "missing"
	_, err = flag.ClusterMahalanobis(f, opts)
	assert.ErrorIs(t, err, frame.ErrUnknownColumn)
}
