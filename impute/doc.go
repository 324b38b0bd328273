// SPDX-License-Identifier: MIT

// Package impute fills missing asset measurements from correlated peers.
//
// For every asset the imputer ranks the other assets by the correlation of
// their impute columns, regresses the asset on its best peer, fills the rows
// the peer can explain, and cascades down the ranking while nulls remain and
// the next peer is still correlated above the threshold.
//
// Building blocks:
//
//   - PolyFit: ordinary least-squares polynomial with the x domain mapped to
//     [-1, 1], solved by QR.
//   - Data / DataByIndex: one target column filled from one reference column.
//   - State and its step transition: the per-asset cascade as an explicit
//     state machine (Scanning → Fitting → Filling → Done).
//   - AllAssets / AllAssetsLazy: every asset of an AssetColumns map, run
//     sequentially, on an errgroup worker pool, or on a conc result pool.
//
// Failure policy:
//
//	A fit that cannot be computed stops that asset's cascade and is reported,
//	not returned. A panicking asset task is isolated: its column is left as
//	it was, its report carries an *AssetError, and AllAssets returns the
//	joined AssetErrors next to the best-effort Result.
//
// Execution modes produce identical values; only wall-clock time differs.
package impute
