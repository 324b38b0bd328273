// SPDX-License-Identifier: MIT

package frame

import (
	"fmt"
	"strings"
)

// AssetColumn binds one asset id to the column holding its measurement.
type AssetColumn struct {
	Asset  string
	Column string
}

// AssetColumns maps asset identifiers to column names for one feature.
// Asset order is preserved and defines matrix and output ordering downstream.
type AssetColumns struct {
	feature string
	assets  []string
	columns []string
	byAsset map[string]int
}

// NewAssetColumns builds an explicit asset→column map.
//
// Errors:
//   - ErrInvalidName for an empty feature, asset or column.
//   - ErrDuplicateKey when an asset appears twice.
//   - ErrDuplicateColumn when two assets point at the same column.
func NewAssetColumns(feature string, pairs ...AssetColumn) (AssetColumns, error) {
	if feature == "" {
		return AssetColumns{}, ErrInvalidName
	}
	ac := AssetColumns{
		feature: feature,
		assets:  make([]string, 0, len(pairs)),
		columns: make([]string, 0, len(pairs)),
		byAsset: make(map[string]int, len(pairs)),
	}
	seen := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		if p.Asset == "" || p.Column == "" {
			return AssetColumns{}, ErrInvalidName
		}
		if _, dup := ac.byAsset[p.Asset]; dup {
			return AssetColumns{}, fmt.Errorf("%w: asset %q", ErrDuplicateKey, p.Asset)
		}
		if _, dup := seen[p.Column]; dup {
			return AssetColumns{}, fmt.Errorf("%w: %q", ErrDuplicateColumn, p.Column)
		}
		seen[p.Column] = struct{}{}
		ac.byAsset[p.Asset] = len(ac.assets)
		ac.assets = append(ac.assets, p.Asset)
		ac.columns = append(ac.columns, p.Column)
	}

	return ac, nil
}

// ParseAssetColumns selects the columns named "{feature}_{asset}" and maps
// each to its asset suffix, in column order. Columns without the prefix are
// ignored.
func ParseAssetColumns(feature string, columns []string) (AssetColumns, error) {
	if feature == "" {
		return AssetColumns{}, ErrInvalidName
	}
	prefix := feature + "_"
	pairs := make([]AssetColumn, 0, len(columns))
	for _, c := range columns {
		if asset, ok := strings.CutPrefix(c, prefix); ok && asset != "" {
			pairs = append(pairs, AssetColumn{Asset: asset, Column: c})
		}
	}

	return NewAssetColumns(feature, pairs...)
}

// Feature returns the feature name the map was built for.
func (a AssetColumns) Feature() string { return a.feature }

// Len returns the number of assets.
func (a AssetColumns) Len() int { return len(a.assets) }

// Assets returns the asset ids in order.
func (a AssetColumns) Assets() []string { return append([]string(nil), a.assets...) }

// Columns returns the column names in asset order.
func (a AssetColumns) Columns() []string { return append([]string(nil), a.columns...) }

// Column returns the column bound to asset.
func (a AssetColumns) Column(asset string) (string, error) {
	i, ok := a.byAsset[asset]
	if !ok {
		return "", fmt.Errorf("%w: %q in %q", ErrUnknownAsset, asset, a.feature)
	}

	return a.columns[i], nil
}

// Pos returns the position of asset, or -1.
func (a AssetColumns) Pos(asset string) int {
	i, ok := a.byAsset[asset]
	if !ok {
		return -1
	}

	return i
}

// Pairs returns the (asset, column) pairs in order.
func (a AssetColumns) Pairs() []AssetColumn {
	out := make([]AssetColumn, len(a.assets))
	for i := range a.assets {
		out[i] = AssetColumn{Asset: a.assets[i], Column: a.columns[i]}
	}

	return out
}

// Validate checks that every mapped column exists in f.
func (a AssetColumns) Validate(f *Frame) error {
	if f == nil {
		return ErrNilFrame
	}

	return f.Require(a.columns...)
}
