// SPDX-License-Identifier: MIT

package synth

import (
	"math/rand"
	"time"
)

// Option customizes Plant. Option constructors panic on meaningless input;
// Plant itself returns errors.
type Option func(*plantConfig)

// Stuck holds a turbine's power reading constant for Length rows from Start.
type Stuck struct {
	Turbine string
	Start   int
	Length  int
}

// Defaults.
const (
	DefaultTurbines    = 4
	DefaultStep        = 10 * time.Minute
	DefaultMeanWind    = 8.0    // m/s
	DefaultRatedPower  = 2000.0 // kW
	defaultDiurnalAmp  = 2.5    // m/s
	defaultGustPhi     = 0.9    // AR(1) persistence
	defaultGustSigma   = 0.6    // m/s
	defaultBiasSigma   = 0.05   // relative per-turbine wind bias
	defaultWindNoise   = 0.2    // m/s
	defaultPowerNoise  = 0.01   // fraction of rated power
	defaultSpikeFactor = 1.8    // spike height as a multiple of rated power
)

type plantConfig struct {
	rng        *rand.Rand
	turbines   []string
	start      time.Time
	step       time.Duration
	meanWind   float64
	rated      float64
	windNoise  float64
	powerNoise float64
	missing    float64
	spikes     float64
	stuck      []Stuck
}

func newPlantConfig(opts ...Option) plantConfig {
	cfg := plantConfig{
		turbines:   turbineNames(DefaultTurbines),
		start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		step:       DefaultStep,
		meanWind:   DefaultMeanWind,
		rated:      DefaultRatedPower,
		windNoise:  defaultWindNoise,
		powerNoise: defaultPowerNoise,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithRand draws from r instead of a stream seeded by Plant's seed.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("synth: WithRand(nil)")
	}

	return func(c *plantConfig) { c.rng = r }
}

// WithTurbines generates n turbines named T01, T02, ...
func WithTurbines(n int) Option {
	if n < 1 {
		panic("synth: WithTurbines: n must be >= 1")
	}

	return func(c *plantConfig) { c.turbines = turbineNames(n) }
}

// WithIndex sets the first timestamp and the sampling step.
func WithIndex(start time.Time, step time.Duration) Option {
	if step <= 0 {
		panic("synth: WithIndex: step must be > 0")
	}

	return func(c *plantConfig) {
		c.start = start
		c.step = step
	}
}

// WithMeanWind sets the plant-wide mean wind speed in m/s.
func WithMeanWind(v float64) Option {
	if !(v > 0) {
		panic("synth: WithMeanWind: mean must be > 0")
	}

	return func(c *plantConfig) { c.meanWind = v }
}

// WithNoise sets the wind noise (m/s) and power noise (fraction of rated).
func WithNoise(wind, power float64) Option {
	if wind < 0 || power < 0 {
		panic("synth: WithNoise: sigma must be >= 0")
	}

	return func(c *plantConfig) {
		c.windNoise = wind
		c.powerNoise = power
	}
}

// WithMissing blanks each reading with probability rate.
func WithMissing(rate float64) Option {
	if !(rate >= 0 && rate < 1) {
		panic("synth: WithMissing: rate must be in [0, 1)")
	}

	return func(c *plantConfig) { c.missing = rate }
}

// WithSpikes replaces each power reading with an out-of-range spike with
// probability rate.
func WithSpikes(rate float64) Option {
	if !(rate >= 0 && rate < 1) {
		panic("synth: WithSpikes: rate must be in [0, 1)")
	}

	return func(c *plantConfig) { c.spikes = rate }
}

// WithStuck adds stuck power runs.
func WithStuck(runs ...Stuck) Option {
	return func(c *plantConfig) { c.stuck = append(c.stuck, runs...) }
}
