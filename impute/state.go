// SPDX-License-Identifier: MIT

package impute

import (
	"fmt"

	"github.com/katalvlaran/plantqc/correlation"
	"github.com/katalvlaran/plantqc/frame"
)

// Phase is the tag of a cascade State.
type Phase int

const (
	Scanning Phase = iota
	Fitting
	Filling
	Done
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case Scanning:
		return "scanning"
	case Fitting:
		return "fitting"
	case Filling:
		return "filling"
	case Done:
		return "done"
	}

	return fmt.Sprintf("Phase(%d)", int(p))
}

// Reason says why a cascade reached Done.
type Reason int

const (
	// Running is the reason of every non-terminal state.
	Running Reason = iota
	// Complete: the column had no nulls; it is returned unchanged.
	Complete
	// BelowThreshold: the best peer is not correlated above the threshold.
	BelowThreshold
	// FitFailed: a regression could not be computed; earlier fills are kept.
	FitFailed
	// Filled: every null was filled.
	Filled
	// NeighborsExhausted: nulls remain but every peer has been used.
	NeighborsExhausted
	// NextBelowThreshold: nulls remain and the next peer is not correlated enough.
	NextBelowThreshold
	// Crashed: the task panicked; set by the executor, never by step.
	Crashed
)

var reasonNames = [...]string{
	Running:            "running",
	Complete:           "complete",
	BelowThreshold:     "below_threshold",
	FitFailed:          "fit_failed",
	Filled:             "filled",
	NeighborsExhausted: "neighbors_exhausted",
	NextBelowThreshold: "next_below_threshold",
	Crashed:            "crashed",
}

// String implements fmt.Stringer.
func (r Reason) String() string {
	if r >= 0 && int(r) < len(reasonNames) {
		return reasonNames[r]
	}

	return fmt.Sprintf("Reason(%d)", int(r))
}

// State is one asset's cascade position. Column is owned by the state and
// replaced, never modified, by step.
type State struct {
	Asset       string
	Phase       Phase
	Reason      Reason
	Column      []float64 // current fill
	Rank        int       // position of the current neighbor in the ranking
	Nulls       int       // nulls left in Column
	Correlation float64   // correlation with the current neighbor
	Fits        int       // regressions attempted
	Used        []string  // neighbors whose fit succeeded, in order
	Err         error     // cause of FitFailed
}

// cascade holds the read-only inputs shared by one asset's transitions.
type cascade struct {
	target    []float64            // original impute column of the asset
	ranking   []correlation.Neighbor
	reference func(asset string) ([]float64, error)
	threshold float64
	degree    int
}

// start returns the Scanning state of an asset.
func start(asset string, target []float64) State {
	return State{
		Asset:  asset,
		Phase:  Scanning,
		Column: append([]float64(nil), target...),
		Nulls:  frame.CountNull(target),
	}
}

// step performs one transition. It never mutates s.
//
//	Scanning → Done(Complete)            no nulls
//	Scanning → Done(BelowThreshold)      no peer, or best peer ≤ threshold
//	Scanning → Fitting                   best peer > threshold
//	Fitting  → Done(FitFailed)           regression failed
//	Fitting  → Filling                   regression applied
//	Filling  → Done(Filled)              no nulls left
//	Filling  → Done(NeighborsExhausted)  no next peer
//	Filling  → Done(NextBelowThreshold)  next peer ≤ threshold
//	Filling  → Fitting                   next peer > threshold
func (c *cascade) step(s State) State {
	switch s.Phase {
	case Scanning:
		if s.Nulls == 0 {
			return done(s, Complete)
		}
		if len(c.ranking) == 0 || !(c.ranking[0].Correlation > c.threshold) {
			return done(s, BelowThreshold)
		}
		s.Phase, s.Rank, s.Correlation = Fitting, 0, c.ranking[0].Correlation

		return s

	case Fitting:
		s.Fits++
		nb := c.ranking[s.Rank].Asset
		ref, err := c.reference(nb)
		if err != nil {
			s.Err = err
			return done(s, FitFailed)
		}
		p, err := PolyFit(ref, c.target, c.degree)
		if err != nil {
			s.Err = fmt.Errorf("neighbor %q: %w", nb, err)
			return done(s, FitFailed)
		}
		col := append([]float64(nil), s.Column...)
		s.Nulls -= fill(col, ref, p)
		s.Column = col
		s.Used = append(append([]string(nil), s.Used...), nb)
		s.Phase = Filling

		return s

	case Filling:
		if s.Nulls == 0 {
			return done(s, Filled)
		}
		next := s.Rank + 1
		if next >= len(c.ranking) {
			return done(s, NeighborsExhausted)
		}
		if !(c.ranking[next].Correlation > c.threshold) {
			return done(s, NextBelowThreshold)
		}
		s.Phase, s.Rank, s.Correlation = Fitting, next, c.ranking[next].Correlation

		return s
	}

	return s
}

// run steps s until Done. The cascade is bounded by len(ranking) fits.
func (c *cascade) run(s State) State {
	for s.Phase != Done {
		s = c.step(s)
	}

	return s
}

func done(s State, r Reason) State {
	s.Phase, s.Reason = Done, r

	return s
}
