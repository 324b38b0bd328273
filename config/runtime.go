// SPDX-License-Identifier: MIT

package config

import (
	"runtime"
	"sync"
)

// Runtime holds process-wide tuning.
//   - Threads: GOMAXPROCS for numeric work; 0 keeps the current value.
type Runtime struct {
	Threads int `mapstructure:"threads" validate:"gte=0"`
}

var (
	runtimeOnce sync.Once
	runtimeSet  Runtime
)

// InitRuntime applies r once per process and returns the setting in effect.
// Later calls are no-ops that return the first setting, whatever r holds.
// Threads is reported as the resulting GOMAXPROCS.
func InitRuntime(r Runtime) Runtime {
	runtimeOnce.Do(func() {
		if r.Threads > 0 {
			runtime.GOMAXPROCS(r.Threads)
		}
		runtimeSet = Runtime{Threads: runtime.GOMAXPROCS(0)}
	})

	return runtimeSet
}
