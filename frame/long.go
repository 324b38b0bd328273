// SPDX-License-Identifier: MIT

package frame

import (
	"fmt"
	"slices"
	"time"
)

// Long is a (time, asset) keyed table: one row per asset per timestamp,
// one Series per feature. It is the two-level-key form of plant telemetry.
type Long struct {
	Time     []time.Time
	Asset    []string
	Features []Series
}

// Wide pivots the long table to one column per (feature, asset), named
// "{feature}_{asset}". Times are sorted ascending; assets keep first-seen
// order. Missing (time, asset) cells become NaN.
//
// Returns the wide frame and one AssetColumns per feature, in feature order.
//
// Errors:
//   - ErrLengthMismatch when Time, Asset and feature lengths differ.
//   - ErrDuplicateKey when a (time, asset) pair occurs twice.
func (l Long) Wide() (*Frame, []AssetColumns, error) {
	n := len(l.Time)
	if len(l.Asset) != n {
		return nil, nil, fmt.Errorf("%w: %d asset keys for %d times", ErrLengthMismatch, len(l.Asset), n)
	}
	for _, s := range l.Features {
		if len(s.Values) != n {
			return nil, nil, fmt.Errorf("%w: feature %q has %d rows, want %d", ErrLengthMismatch, s.Name, len(s.Values), n)
		}
	}

	times := append([]time.Time(nil), l.Time...)
	slices.SortFunc(times, func(a, b time.Time) int { return a.Compare(b) })
	times = slices.CompactFunc(times, func(a, b time.Time) bool { return a.Equal(b) })
	rowOf := make(map[int64]int, len(times))
	for i, t := range times {
		rowOf[t.UnixNano()] = i
	}

	var assets []string
	assetPos := map[string]int{}
	for _, a := range l.Asset {
		if a == "" {
			return nil, nil, ErrInvalidName
		}
		if _, ok := assetPos[a]; !ok {
			assetPos[a] = len(assets)
			assets = append(assets, a)
		}
	}

	seen := make(map[[2]int]struct{}, n)
	for k := 0; k < n; k++ {
		key := [2]int{rowOf[l.Time[k].UnixNano()], assetPos[l.Asset[k]]}
		if _, dup := seen[key]; dup {
			return nil, nil, fmt.Errorf("%w: %s at %s", ErrDuplicateKey, l.Asset[k], l.Time[k].Format(time.RFC3339Nano))
		}
		seen[key] = struct{}{}
	}

	cols := make([]Series, 0, len(l.Features)*len(assets))
	maps := make([]AssetColumns, 0, len(l.Features))
	for _, feat := range l.Features {
		block := make([][]float64, len(assets))
		for j := range block {
			block[j] = make([]float64, len(times))
			for i := range block[j] {
				block[j][i] = nan
			}
		}
		for k := 0; k < n; k++ {
			block[assetPos[l.Asset[k]]][rowOf[l.Time[k].UnixNano()]] = feat.Values[k]
		}
		pairs := make([]AssetColumn, len(assets))
		for j, a := range assets {
			name := feat.Name + "_" + a
			pairs[j] = AssetColumn{Asset: a, Column: name}
			cols = append(cols, Series{Name: name, Values: block[j]})
		}
		ac, err := NewAssetColumns(feat.Name, pairs...)
		if err != nil {
			return nil, nil, err
		}
		maps = append(maps, ac)
	}

	f, err := New(times, cols...)
	if err != nil {
		return nil, nil, err
	}

	return f, maps, nil
}

// ToLong reverses Wide: for every timestamp and every asset of the first
// map, one row holding each feature's value (NaN when the asset is absent
// from a feature map).
func ToLong(f *Frame, features ...AssetColumns) (Long, error) {
	if f == nil {
		return Long{}, ErrNilFrame
	}
	if !f.HasIndex() {
		return Long{}, ErrNoIndex
	}
	if len(features) == 0 {
		return Long{}, nil
	}
	for _, ac := range features {
		if err := ac.Validate(f); err != nil {
			return Long{}, err
		}
	}
	assets := features[0].Assets()
	rows := f.Len() * len(assets)
	out := Long{
		Time:     make([]time.Time, 0, rows),
		Asset:    make([]string, 0, rows),
		Features: make([]Series, len(features)),
	}
	for k, ac := range features {
		out.Features[k] = Series{Name: ac.Feature(), Values: make([]float64, 0, rows)}
	}
	for i, t := range f.index {
		for _, a := range assets {
			out.Time = append(out.Time, t)
			out.Asset = append(out.Asset, a)
			for k, ac := range features {
				v := nan
				if col, err := ac.Column(a); err == nil {
					v = f.cols[col][i]
				}
				out.Features[k].Values = append(out.Features[k].Values, v)
			}
		}
	}

	return out, nil
}
