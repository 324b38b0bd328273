// SPDX-License-Identifier: MIT

package cluster

import (
	"fmt"
	"math"
	"math/rand"
)

// KMeans defaults.
const (
	DefaultMaxIter   = 300
	DefaultTolerance = 1e-4
	DefaultRestarts  = 1
)

// KMeansOptions configures KMeans.
//   - K: number of clusters, 1 ≤ K ≤ len(points).
//   - Seed: RNG seed for k-means++ (0 ⇒ fixed default).
//   - MaxIter: Lloyd iterations per restart (≤0 ⇒ DefaultMaxIter).
//   - Tolerance: convergence threshold on the squared centroid shift,
//     relative to the mean per-dimension variance of the data (≤0 ⇒ DefaultTolerance).
//   - Restarts: independent seedings; the lowest inertia wins (≤0 ⇒ DefaultRestarts).
type KMeansOptions struct {
	K         int
	Seed      int64
	MaxIter   int
	Tolerance float64
	Restarts  int
}

// DefaultKMeansOptions returns options with k clusters and documented defaults.
func DefaultKMeansOptions(k int) KMeansOptions {
	return KMeansOptions{
		K:         k,
		MaxIter:   DefaultMaxIter,
		Tolerance: DefaultTolerance,
		Restarts:  DefaultRestarts,
	}
}

// KMeansResult is a partition of the input points.
type KMeansResult struct {
	Labels     []int       // cluster index per point
	Centroids  [][]float64 // K centroids
	Inertia    float64     // Σ squared distance to the assigned centroid
	Iterations int         // Lloyd iterations of the winning restart
}

// KMeans partitions points into opts.K clusters.
//
// Implementation:
//   - Stage 1: validate shape, finiteness and K.
//   - Stage 2: per restart, k-means++ seeding from a derived RNG stream.
//   - Stage 3: Lloyd iterations until the centroid shift ≤ tol or MaxIter.
//     An emptied cluster is re-seeded with the point farthest from its centroid.
//   - Stage 4: keep the restart with the lowest inertia (first wins on ties).
//
// Errors:
//   - ErrEmptyInput, ErrDimensionMismatch, ErrNonFinite, ErrInvalidK.
func KMeans(points [][]float64, opts KMeansOptions) (*KMeansResult, error) {
	d, err := validatePoints(points)
	if err != nil {
		return nil, err
	}
	if opts.K < 1 || opts.K > len(points) {
		return nil, fmt.Errorf("%w: k=%d for %d points", ErrInvalidK, opts.K, len(points))
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultMaxIter
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	if opts.Restarts <= 0 {
		opts.Restarts = DefaultRestarts
	}
	tol := opts.Tolerance * meanVariance(points, d)

	base := rngFromSeed(opts.Seed)
	var best *KMeansResult
	for r := 0; r < opts.Restarts; r++ {
		rng := deriveRNG(base, uint64(r))
		res := lloyd(points, seedPlusPlus(points, opts.K, rng), opts.MaxIter, tol)
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}

	return best, nil
}

func validatePoints(points [][]float64) (int, error) {
	if len(points) == 0 {
		return 0, ErrEmptyInput
	}
	d := len(points[0])
	if d == 0 {
		return 0, ErrDimensionMismatch
	}
	for i, p := range points {
		if len(p) != d {
			return 0, fmt.Errorf("%w: point %d has %d coordinates, want %d", ErrDimensionMismatch, i, len(p), d)
		}
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, fmt.Errorf("%w: point %d", ErrNonFinite, i)
			}
		}
	}

	return d, nil
}

// seedPlusPlus picks k initial centroids with the k-means++ rule.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.Intn(n)]))
	dist := make([]float64, n)
	for i, p := range points {
		dist[i] = sqDist(p, centroids[0])
	}
	for len(centroids) < k {
		next := clone(points[weightedPick(rng, dist)])
		centroids = append(centroids, next)
		for i, p := range points {
			if dd := sqDist(p, next); dd < dist[i] {
				dist[i] = dd
			}
		}
	}

	return centroids
}

func lloyd(points [][]float64, centroids [][]float64, maxIter int, tol float64) *KMeansResult {
	n, k, d := len(points), len(centroids), len(points[0])
	labels := make([]int, n)
	counts := make([]int, k)
	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, d)
	}

	iter := 0
	for iter < maxIter {
		iter++
		assign(points, centroids, labels)

		for c := 0; c < k; c++ {
			counts[c] = 0
			for j := range sums[c] {
				sums[c][j] = 0
			}
		}
		for i, p := range points {
			c := labels[i]
			counts[c]++
			for j, v := range p {
				sums[c][j] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				reseedEmpty(points, centroids, labels, counts, sums, c)
			}
		}

		shift := 0.0
		for c := 0; c < k; c++ {
			for j := 0; j < d; j++ {
				nv := sums[c][j] / float64(counts[c])
				diff := nv - centroids[c][j]
				shift += diff * diff
				centroids[c][j] = nv
			}
		}
		if shift <= tol {
			break
		}
	}
	// Final assignment against the converged centroids.
	assign(points, centroids, labels)

	inertia := 0.0
	for i, p := range points {
		inertia += sqDist(p, centroids[labels[i]])
	}

	return &KMeansResult{Labels: labels, Centroids: centroids, Inertia: inertia, Iterations: iter}
}

// reseedEmpty moves the point farthest from its centroid into empty cluster c.
func reseedEmpty(points, centroids [][]float64, labels, counts []int, sums [][]float64, c int) {
	far, farDist := -1, -1.0
	for i, p := range points {
		if counts[labels[i]] <= 1 {
			continue
		}
		if dd := sqDist(p, centroids[labels[i]]); dd > farDist {
			far, farDist = i, dd
		}
	}
	if far < 0 {
		return
	}
	old := labels[far]
	counts[old]--
	for j, v := range points[far] {
		sums[old][j] -= v
		sums[c][j] = v
	}
	counts[c] = 1
	labels[far] = c
}

func assign(points, centroids [][]float64, labels []int) {
	for i, p := range points {
		best, bestDist := 0, math.Inf(1)
		for c, ctr := range centroids {
			if dd := sqDist(p, ctr); dd < bestDist {
				best, bestDist = c, dd
			}
		}
		labels[i] = best
	}
}

func meanVariance(points [][]float64, d int) float64 {
	n := float64(len(points))
	total := 0.0
	for j := 0; j < d; j++ {
		mean := 0.0
		for _, p := range points {
			mean += p[j]
		}
		mean /= n
		v := 0.0
		for _, p := range points {
			v += (p[j] - mean) * (p[j] - mean)
		}
		total += v / n
	}

	return total / float64(d)
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		diff := a[i] - b[i]
		s += diff * diff
	}

	return s
}

func clone(p []float64) []float64 { return append([]float64(nil), p...) }
