// Package correlation builds asset-by-asset Pearson correlation matrices for
// one feature and ranks every asset's peers by correlation.
//
// The matrix is computed over pairwise-complete rows (both assets finite),
// requires at least two overlapping rows per pair, and leaves the diagonal
// undefined (NaN) so that an asset can never be selected as its own
// neighbour. Rankings order peers by descending correlation, keep the
// original asset order on ties and put undefined correlations last.
//
// Usage:
//
//	power, _ := frame.ParseAssetColumns("power", f.Columns())
//	corr, _ := correlation.Build(f, power)
//	for _, nb := range corr.Rank("T1") { ... }
package correlation
