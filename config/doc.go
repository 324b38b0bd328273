// SPDX-License-Identifier: MIT

// Package config loads plantqc run profiles and performs the one-shot
// process tuning step.
//
// A Profile groups the tunables of every flag and of the imputer. Load
// layers YAML files (merged in order; missing files are skipped) and
// PLANTQC_* environment variables over the built-in defaults, then checks
// the result with struct tags:
//
//	flags:
//	  unresponsive:
//	    threshold: 4
//	impute:
//	  mode: process-pool
//	  workers: 8
//
// overridden by PLANTQC_IMPUTE_MODE=distributed.
//
// Profiles translate into library options with the *Options methods, so the
// numeric packages never depend on this one.
//
// InitRuntime sets GOMAXPROCS once per process; later calls return the
// first setting untouched.
package config
