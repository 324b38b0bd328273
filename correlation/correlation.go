// SPDX-License-Identifier: MIT

package correlation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/plantqc/frame"
	"github.com/katalvlaran/plantqc/matrix"
)

// MinPeriods is the minimum number of pairwise-complete rows for a defined correlation.
const MinPeriods = 2

// symmetryTolerance bounds |ρ(a,b) − ρ(b,a)| for a well-formed matrix.
const symmetryTolerance = 1e-12

// ErrNoAssets is returned when the asset map is empty.
var ErrNoAssets = errors.New("correlation: no assets")

// Neighbor is one ranked peer of an asset.
type Neighbor struct {
	Asset       string
	Correlation float64
}

// Matrix is a square, asset-keyed correlation matrix with an undefined diagonal.
// It is immutable after Build and safe for concurrent readers.
type Matrix struct {
	assets []string
	pos    map[string]int
	data   *matrix.Dense
	ranked [][]Neighbor
}

// Build computes the correlation matrix of the assets in cols over f.
//
// Implementation:
//   - Stage 1: validate that every mapped column exists.
//   - Stage 2: copy the columns into an n×k Dense (NaN kept as missing).
//   - Stage 3: matrix.PairwiseCorrelation with MinPeriods; diagonal NaN.
//   - Stage 4: precompute every asset's ranking.
//
// Errors:
//   - ErrNoAssets, frame.ErrUnknownColumn.
//
// Complexity:
//   - Time O(n·k²), Space O(k²).
func Build(f *frame.Frame, cols frame.AssetColumns) (*Matrix, error) {
	if f == nil {
		return nil, frame.ErrNilFrame
	}
	if cols.Len() == 0 {
		return nil, ErrNoAssets
	}
	if err := cols.Validate(f); err != nil {
		return nil, fmt.Errorf("correlation: %w", err)
	}

	k := cols.Len()
	var corr *matrix.Dense
	if f.Len() == 0 {
		nanData := make([]float64, k*k)
		for i := range nanData {
			nanData[i] = math.NaN()
		}
		d, err := matrix.NewDenseFrom(k, k, nanData, matrix.WithNoValidateNaNInf())
		if err != nil {
			return nil, fmt.Errorf("correlation: %w", err)
		}
		corr = d
	} else {
		x, err := f.Dense(cols.Columns()...)
		if err != nil {
			return nil, fmt.Errorf("correlation: %w", err)
		}
		if corr, err = matrix.PairwiseCorrelation(x, MinPeriods); err != nil {
			return nil, fmt.Errorf("correlation: %w", err)
		}
	}
	if err := matrix.ValidateSymmetric(corr, symmetryTolerance); err != nil {
		return nil, fmt.Errorf("correlation: %w", err)
	}

	m := &Matrix{
		assets: cols.Assets(),
		pos:    make(map[string]int, k),
		data:   corr,
	}
	for i, a := range m.assets {
		m.pos[a] = i
	}
	m.ranked = make([][]Neighbor, k)
	for i := range m.assets {
		m.ranked[i] = m.rank(i)
	}

	return m, nil
}

// BuildLazy materializes only the mapped columns of lf and builds the matrix.
func BuildLazy(ctx context.Context, lf *frame.LazyFrame, cols frame.AssetColumns) (*Matrix, error) {
	if lf == nil {
		return nil, frame.ErrNilFrame
	}
	if cols.Len() == 0 {
		return nil, ErrNoAssets
	}
	f, err := lf.Select(cols.Columns()...).Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("correlation: %w", err)
	}

	return Build(f, cols)
}

// Assets returns the asset order of both axes.
func (m *Matrix) Assets() []string { return append([]string(nil), m.assets...) }

// Len returns the number of assets.
func (m *Matrix) Len() int { return len(m.assets) }

// At returns ρ(a, b). The diagonal is NaN.
func (m *Matrix) At(a, b string) (float64, error) {
	i, err := m.index(a)
	if err != nil {
		return 0, err
	}
	j, err := m.index(b)
	if err != nil {
		return 0, err
	}

	return m.data.At(i, j)
}

// Row returns the correlations of asset a with every asset, in matrix order.
func (m *Matrix) Row(a string) ([]float64, error) {
	i, err := m.index(a)
	if err != nil {
		return nil, err
	}

	return m.data.Row(i)
}

// Rank returns the peers of a ordered by descending correlation.
// The asset itself is never included. Undefined correlations come last.
func (m *Matrix) Rank(a string) ([]Neighbor, error) {
	i, err := m.index(a)
	if err != nil {
		return nil, err
	}

	return slices.Clone(m.ranked[i]), nil
}

// Ranking returns every asset's ranking, keyed by asset.
func (m *Matrix) Ranking() map[string][]Neighbor {
	out := make(map[string][]Neighbor, len(m.assets))
	for i, a := range m.assets {
		out[a] = slices.Clone(m.ranked[i])
	}

	return out
}

// Dense returns a copy of the underlying matrix.
func (m *Matrix) Dense() *matrix.Dense {
	return m.data.Clone().(*matrix.Dense)
}

func (m *Matrix) index(a string) (int, error) {
	i, ok := m.pos[a]
	if !ok {
		return 0, fmt.Errorf("correlation: %w: %q", frame.ErrUnknownAsset, a)
	}

	return i, nil
}

func (m *Matrix) rank(i int) []Neighbor {
	row, _ := m.data.Row(i) // i is a valid row
	out := make([]Neighbor, 0, len(row)-1)
	for j, rho := range row {
		if j == i {
			continue
		}
		out = append(out, Neighbor{Asset: m.assets[j], Correlation: rho})
	}
	slices.SortStableFunc(out, func(a, b Neighbor) int {
		an, bn := math.IsNaN(a.Correlation), math.IsNaN(b.Correlation)
		switch {
		case an && bn:
			return 0
		case an:
			return 1
		case bn:
			return -1
		case a.Correlation > b.Correlation:
			return -1
		case a.Correlation < b.Correlation:
			return 1
		}

		return 0
	})

	return out
}
