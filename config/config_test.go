// SPDX-License-Identifier: MIT
package config_test

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/katalvlaran/plantqc/config"
	"github.com/katalvlaran/plantqc/flag"
	"github.com/katalvlaran/plantqc/impute"
)

func writeProfile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

// TestLoad_DefaultsWithoutFiles ensures missing profile files fall back to Default.
func TestLoad_DefaultsWithoutFiles(t *testing.T) {
	p, err := config.Load(zaptest.NewLogger(t), filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), *p)
}

// TestLoad_FilesMergeInOrder ensures later profile files override earlier ones key by key.
func TestLoad_FilesMergeInOrder(t *testing.T) {
	base := writeProfile(t, "base.yaml", `
flags:
  unresponsive:
    threshold: 5
impute:
  mode: process-pool
  workers: 4
`)
	site := writeProfile(t, "site.yaml", `
impute:
  workers: 2
  method: polynomial
  degree: 2
`)
	p, err := config.Load(nil, base, site)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Flags.Unresponsive.Threshold)
	assert.Equal(t, "process-pool", p.Impute.Mode, "kept from the first file")
	assert.Equal(t, 2, p.Impute.Workers, "overridden by the second file")
	assert.Equal(t, "polynomial", p.Impute.Method)
	assert.Equal(t, flag.DefaultClusters, p.Flags.Cluster.Clusters)
}

// TestLoad_EnvironmentOverridesFiles ensures PLANTQC_ variables win over file values.
func TestLoad_EnvironmentOverridesFiles(t *testing.T) {
	path := writeProfile(t, "p.yaml", "impute:\n  mode: process-pool\n")
	t.Setenv("PLANTQC_IMPUTE_MODE", "distributed")
	t.Setenv("PLANTQC_FLAGS_STD_THRESHOLD", "3.5")

	p, err := config.Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "distributed", p.Impute.Mode)
	assert.InDelta(t, 3.5, p.Flags.Std.Threshold, 0)
}

// TestLoad_Errors ensures malformed YAML maps to ErrLoad and failed validation to ErrInvalidProfile.
func TestLoad_Errors(t *testing.T) {
	bad := writeProfile(t, "bad.yaml", "impute: [unclosed\n")
	_, err := config.Load(nil, bad)
	assert.ErrorIs(t, err, config.ErrLoad)

	invalid := writeProfile(t, "invalid.yaml", "impute:\n  mode: cluster\n")
	_, err = config.Load(nil, invalid)
	assert.ErrorIs(t, err, config.ErrInvalidProfile)

	t.Setenv("PLANTQC_FLAGS_BIN_WIDTH", "0")
	_, err = config.Load(nil)
	assert.ErrorIs(t, err, config.ErrInvalidProfile)
}

// TestProfile_Validate checks the validator tags on every profile section.
func TestProfile_Validate(t *testing.T) {
	cases := map[string]func(*config.Profile){
		"unresponsive threshold": func(p *config.Profile) { p.Flags.Unresponsive.Threshold = 0 },
		"std r2 above one":       func(p *config.Profile) { p.Flags.Std.R2Threshold = 1.5 },
		"bin center":             func(p *config.Profile) { p.Flags.Bin.Center = "mode" },
		"clusters":               func(p *config.Profile) { p.Flags.Cluster.Clusters = 0 },
		"impute method":          func(p *config.Profile) { p.Impute.Method = "spline" },
		"negative workers":       func(p *config.Profile) { p.Impute.Workers = -1 },
		"log level":              func(p *config.Profile) { p.Logging.Level = "trace" },
		"negative threads":       func(p *config.Profile) { p.Runtime.Threads = -2 },
	}
	require.NoError(t, config.Default().Validate())
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := config.Default()
			mutate(&p)
			assert.ErrorIs(t, p.Validate(), config.ErrInvalidProfile)
		})
	}
}

// TestProfile_Options ensures a profile converts into flag and impute options.
func TestProfile_Options(t *testing.T) {
	p := config.Default()
	p.Flags.Unresponsive.Threshold = 6
	p.Flags.Bin.Center = "median"
	p.Flags.Bin.Width = 0.5
	p.Flags.Cluster.Seed = 11
	p.Impute.Mode = "distributed"
	p.Impute.Workers = 3

	u := p.UnresponsiveOptions("ws_T1")
	assert.Equal(t, 6, u.Threshold)
	assert.Equal(t, []string{"ws_T1"}, u.Columns)

	b := p.BinOptions("ws", "power")
	assert.Equal(t, flag.CenterMedian, b.Center)
	assert.InDelta(t, 0.5, b.Width, 0)
	assert.True(t, math.IsNaN(b.Min), "data extremes by default")

	c := p.ClusterOptions("ws", "power", nil)
	assert.Equal(t, int64(11), c.Seed)
	assert.Equal(t, flag.DefaultClusters, c.Clusters)

	s := p.StdRangeOptions(nil)
	assert.Equal(t, []float64{flag.DefaultStdThreshold}, s.Threshold)

	opts, err := p.ImputeOptions(nil)
	require.NoError(t, err)
	resolved := impute.NewOptions(opts...)
	assert.Equal(t, impute.Distributed, resolved.Mode())
	assert.Equal(t, 3, resolved.Workers())

	p.Impute.Mode = "process-pool"
	opts, err = p.ImputeOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, impute.Pool, impute.NewOptions(opts...).Mode())

	p.Impute.Mode = "grid"
	_, err = p.ImputeOptions(nil)
	assert.ErrorIs(t, err, impute.ErrUnknownMode)
}

// TestLoggingConfig_Logger ensures the configured level and encoding build a zap logger.
func TestLoggingConfig_Logger(t *testing.T) {
	l, err := config.LoggingConfig{Level: "warn"}.Logger()
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	_, err = config.LoggingConfig{Level: "loud"}.Logger()
	assert.Error(t, err)
}

// TestInitRuntime_OnlyFirstCallApplies ensures InitRuntime applies its settings once.
func TestInitRuntime_OnlyFirstCallApplies(t *testing.T) {
	current := runtime.GOMAXPROCS(0)
	first := config.InitRuntime(config.Runtime{Threads: current})
	assert.Equal(t, current, first.Threads)

	again := config.InitRuntime(config.Runtime{Threads: current + 3})
	assert.Equal(t, first, again)
	assert.Equal(t, current, runtime.GOMAXPROCS(0))
}
