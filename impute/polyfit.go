// SPDX-License-Identifier: MIT

package impute

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Polynomial is a least-squares fit in a scaled variable: x is mapped from
// Domain onto [-1, 1] before the coefficients apply.
type Polynomial struct {
	// Coef holds c0..cd in ascending powers of the scaled variable.
	Coef []float64
	// Domain is the [min, max] of the fitted x values.
	Domain [2]float64
}

// PolyFit fits y ≈ p(x) of the given degree by ordinary least squares over
// the rows where both x and y are finite.
//
// Implementation:
//   - Stage 1: collect complete pairs; require ≥ degree+1 of them and a
//     non-zero x range.
//   - Stage 2: map x onto [-1, 1] and build the Vandermonde matrix.
//   - Stage 3: solve the least-squares system with a QR factorization.
//
// Errors:
//   - ErrInvalidDegree, ErrLengthMismatch.
//   - ErrInsufficientData for too few points, constant x or a rank-deficient system.
//
// Complexity:
//   - Time O(n·d²), Space O(n·d) for n pairs and degree d.
func PolyFit(x, y []float64, degree int) (*Polynomial, error) {
	if degree < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDegree, degree)
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}

	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range x {
		if !finite(x[i]) || !finite(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
		lo, hi = math.Min(lo, x[i]), math.Max(hi, x[i])
	}
	if len(xs) < degree+1 {
		return nil, fmt.Errorf("%w: %d complete points for degree %d", ErrInsufficientData, len(xs), degree)
	}
	if degree > 0 && !(hi > lo) {
		return nil, fmt.Errorf("%w: reference has no spread", ErrInsufficientData)
	}

	p := &Polynomial{Domain: [2]float64{lo, hi}}
	cols := degree + 1
	a := mat.NewDense(len(xs), cols, nil)
	for i, v := range xs {
		t := p.scale(v)
		pow := 1.0
		for j := 0; j < cols; j++ {
			a.Set(i, j, pow)
			pow *= t
		}
	}

	var qr mat.QR
	qr.Factorize(a)
	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, mat.NewVecDense(len(ys), ys)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsufficientData, err)
	}
	p.Coef = make([]float64, cols)
	for j := range p.Coef {
		p.Coef[j] = coef.AtVec(j)
	}

	return p, nil
}

// Eval evaluates the polynomial at x (Horner in the scaled variable).
func (p *Polynomial) Eval(x float64) float64 {
	t := p.scale(x)
	out := 0.0
	for j := len(p.Coef) - 1; j >= 0; j-- {
		out = out*t + p.Coef[j]
	}

	return out
}

// scale maps x from Domain onto [-1, 1]; a degenerate domain maps to 0.
func (p *Polynomial) scale(x float64) float64 {
	lo, hi := p.Domain[0], p.Domain[1]
	if !(hi > lo) {
		return 0
	}

	return (2*x - (hi + lo)) / (hi - lo)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
