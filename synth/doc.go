// SPDX-License-Identifier: MIT

// Package synth generates deterministic wind-plant telemetry for tests,
// demos and benchmarks.
//
// Plant(rows, seed, opts...) emits one wind-speed and one power column per
// turbine on a regular time index. Every turbine sees the same plant-wide
// wind (diurnal cycle plus an autoregressive gust term) scaled by its own
// bias, and converts it to power through a cubic power curve. Corruption is
// stacked on top in a fixed order: stuck runs, spikes, then missing values.
//
// Determinism: the output depends only on (rows, seed, options). WithRand
// shares one stream across several calls instead.
//
// Telemetry.Injected marks the cells that were corrupted on purpose (stuck
// and spiked, not missing) so flag tests can measure what they catch.
package synth
