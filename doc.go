// SPDX-License-Identifier: MIT

// Package plantqc is a data-quality and gap-filling layer for multi-asset
// plant telemetry such as wind turbines.
//
// It flags suspect readings and fills missing ones from the best
// correlated peer asset. Every flag has an eager form over a *frame.Frame
// and a deferred form over a *frame.LazyFrame built from the same column
// kernel.
//
// Packages:
//
//	frame/       eager and lazy tables, masks, asset maps, long/wide, Arrow
//	matrix/      dense matrices, LU inverse, covariance and correlation
//	correlation/ asset×asset correlation and neighbor ranking
//	cluster/     deterministic k-means and Mahalanobis distance
//	flag/        range, unresponsive, std, window, bin and cluster flags
//	impute/      polynomial fit and the correlation-ranked cascade
//	config/      YAML/env profiles and one-shot runtime tuning
//	synth/       deterministic synthetic plant telemetry
//
// A typical pass:
//
//	tel, _ := synth.Plant(1008, 1)
//	mask, _ := flag.Unresponsive(tel.Frame, flag.DefaultUnresponsiveOptions())
//	clean, _ := mask.Apply(tel.Frame)
//	res, _ := impute.AllAssets(ctx, clean, tel.Power, tel.WindSpeed)
//
// See examples/ for a runnable end-to-end program.
package plantqc
