// Package cluster provides the unsupervised building blocks of the
// cluster-distance flag: deterministic k-means and per-cluster Mahalanobis
// distances.
//
// KMeans:
//
//	k-means++ seeding followed by Lloyd iterations. Randomness comes only
//	from KMeansOptions.Seed (seed 0 maps to a fixed default), so identical
//	inputs always produce identical partitions. Multiple restarts draw
//	independent derived streams and keep the lowest inertia.
//
// Mahalanobis:
//
//	Sample covariance (ddof 1) of the cluster members, inverted with the
//	LU kernels of package matrix; a cluster with fewer than dims+1 members
//	or a (near-)singular covariance fails with ErrSingularCovariance.
//
// Complexity:
//
//   - KMeans: O(restarts · iterations · n · k · d).
//   - Mahalanobis: O(n·d² + d³).
package cluster
