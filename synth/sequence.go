// SPDX-License-Identifier: MIT

package synth

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Power curve shape, in m/s.
const (
	cutIn      = 3.0
	ratedSpeed = 12.0
	cutOut     = 25.0
)

func turbineNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("T%02d", i+1)
	}

	return names
}

func rngFrom(cfg plantConfig, seed int64) *rand.Rand {
	if cfg.rng != nil {
		return cfg.rng
	}

	return rand.New(rand.NewSource(seed))
}

// plantWind is the wind every turbine sees before its own bias and noise:
// mean + diurnal sine + AR(1) gust, clamped at zero.
func plantWind(rows int, cfg plantConfig, rng *rand.Rand) []float64 {
	perDay := float64(24*time.Hour) / float64(cfg.step)
	out := make([]float64, rows)
	gust := 0.0
	for i := range out {
		gust = defaultGustPhi*gust + defaultGustSigma*rng.NormFloat64()
		diurnal := defaultDiurnalAmp * math.Sin(2*math.Pi*float64(i)/perDay)
		out[i] = math.Max(0, cfg.meanWind+diurnal+gust)
	}

	return out
}

// powerCurve maps wind speed to power: zero below cut-in and above cut-out,
// cubic up to rated speed, flat at rated power in between.
func powerCurve(v, rated float64) float64 {
	switch {
	case v < cutIn || v >= cutOut:
		return 0
	case v >= ratedSpeed:
		return rated
	}
	c3 := cutIn * cutIn * cutIn

	return rated * (v*v*v - c3) / (ratedSpeed*ratedSpeed*ratedSpeed - c3)
}

func clamp(v, lo, hi float64) float64 { return math.Min(hi, math.Max(lo, v)) }

func timeIndex(rows int, start time.Time, step time.Duration) []time.Time {
	idx := make([]time.Time, rows)
	for i := range idx {
		idx[i] = start.Add(time.Duration(i) * step)
	}

	return idx
}
