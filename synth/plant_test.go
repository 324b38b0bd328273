// SPDX-License-Identifier: MIT
package synth_test

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/plantqc/correlation"
	"github.com/katalvlaran/plantqc/flag"
	"github.com/katalvlaran/plantqc/frame"
	"github.com/katalvlaran/plantqc/synth"
)

func values(t *testing.T, f *frame.Frame, name string) []float64 {
	t.Helper()
	v, err := f.Column(name)
	require.NoError(t, err)

	return v
}

func sameFrame(t *testing.T, a, b *frame.Frame) bool {
	t.Helper()
	require.Equal(t, a.Columns(), b.Columns())
	for _, name := range a.Columns() {
		va, vb := values(t, a, name), values(t, b, name)
		for i := range va {
			if math.Float64bits(va[i]) != math.Float64bits(vb[i]) {
				return false
			}
		}
	}

	return true
}

// TestPlant_Shape ensures the frame holds one power and wind column per turbine.
func TestPlant_Shape(t *testing.T) {
	start := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	tel, err := synth.Plant(6, 1, synth.WithTurbines(3), synth.WithIndex(start, time.Hour))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"ws_T01", "ws_T02", "ws_T03", "power_T01", "power_T02", "power_T03",
	}, tel.Frame.Columns())
	assert.Equal(t, []string{"T01", "T02", "T03"}, tel.Turbines())
	assert.Equal(t, []string{"T01", "T02", "T03"}, tel.WindSpeed.Assets())
	require.Equal(t, 6, tel.Frame.Len())
	idx := tel.Frame.Index()
	assert.Equal(t, start, idx[0])
	assert.Equal(t, start.Add(5*time.Hour), idx[5])
}

// TestPlant_Deterministic ensures a seed fixes the output.
func TestPlant_Deterministic(t *testing.T) {
	opts := []synth.Option{synth.WithMissing(0.1), synth.WithSpikes(0.02)}
	a, err := synth.Plant(200, 42, opts...)
	require.NoError(t, err)
	b, err := synth.Plant(200, 42, opts...)
	require.NoError(t, err)
	c, err := synth.Plant(200, 43, opts...)
	require.NoError(t, err)

	assert.True(t, sameFrame(t, a.Frame, b.Frame), "same seed")
	assert.False(t, sameFrame(t, a.Frame, c.Frame), "different seed")

	// A shared stream continues across calls.
	r := rand.New(rand.NewSource(42))
	first, err := synth.Plant(50, 0, synth.WithRand(r))
	require.NoError(t, err)
	second, err := synth.Plant(50, 0, synth.WithRand(r))
	require.NoError(t, err)
	assert.False(t, sameFrame(t, first.Frame, second.Frame))
}

// TestPlant_CleanIsPhysical ensures clean power stays within [0, rated] without gaps.
func TestPlant_CleanIsPhysical(t *testing.T) {
	tel, err := synth.Plant(500, 7, synth.WithMissing(0.2))
	require.NoError(t, err)
	for _, name := range tel.Power.Columns() {
		for i, v := range values(t, tel.Clean, name) {
			require.False(t, math.IsNaN(v), "%s row %d", name, i)
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, synth.DefaultRatedPower)
		}
	}
	for _, name := range tel.WindSpeed.Columns() {
		n, err := tel.Clean.NullCount(name)
		require.NoError(t, err)
		assert.Zero(t, n)
	}

	corr, err := correlation.Build(tel.Clean, tel.Power)
	require.NoError(t, err)
	best, err := corr.Rank("T01")
	require.NoError(t, err)
	assert.Greater(t, best[0].Correlation, 0.9, "turbines share the plant wind")
}

// TestPlant_MissingRate ensures the missing share tracks WithMissing.
func TestPlant_MissingRate(t *testing.T) {
	tel, err := synth.Plant(2000, 3, synth.WithMissing(0.2))
	require.NoError(t, err)
	for _, name := range tel.Frame.Columns() {
		n, err := tel.Frame.NullCount(name)
		require.NoError(t, err)
		assert.InDelta(t, 400, n, 100, name)
	}
}

// TestPlant_FaultsAreFlagged ensures injected stuck runs are caught by Unresponsive.
func TestPlant_FaultsAreFlagged(t *testing.T) {
	tel, err := synth.Plant(300, 11,
		synth.WithStuck(synth.Stuck{Turbine: "T02", Start: 40, Length: 12}))
	require.NoError(t, err)

	mask, err := flag.Unresponsive(tel.Frame, flag.UnresponsiveOptions{
		Columns:   tel.Power.Columns(),
		Threshold: 12,
	})
	require.NoError(t, err)
	flagged, err := mask.Column("power_T02")
	require.NoError(t, err)
	injected := tel.Injected["power_T02"]
	for i := 40; i < 52; i++ {
		assert.True(t, injected[i], "row %d injected", i)
		assert.True(t, flagged[i], "row %d flagged", i)
	}
	assert.False(t, injected[39])
	assert.False(t, injected[52])

	spiky, err := synth.Plant(300, 5, synth.WithSpikes(0.05))
	require.NoError(t, err)
	ranged, err := flag.Range(spiky.Frame, flag.RangeOptions{
		Columns: spiky.Power.Columns(),
		Lower:   []float64{0},
		Upper:   []float64{synth.DefaultRatedPower},
	})
	require.NoError(t, err)
	total := 0
	for _, name := range spiky.Power.Columns() {
		got, err := ranged.Column(name)
		require.NoError(t, err)
		assert.Equal(t, spiky.Injected[name], got, name)
		total += ranged.Count(name)
	}
	assert.Positive(t, total)
}

// TestPlant_Errors ensures bad options are rejected.
func TestPlant_Errors(t *testing.T) {
	_, err := synth.Plant(0, 1)
	assert.ErrorIs(t, err, synth.ErrInvalidRows)

	_, err = synth.Plant(10, 1, synth.WithStuck(synth.Stuck{Turbine: "T09", Start: 0, Length: 3}))
	assert.ErrorIs(t, err, synth.ErrUnknownTurbine)

	_, err = synth.Plant(10, 1, synth.WithStuck(synth.Stuck{Turbine: "T01", Start: 8, Length: 3}))
	assert.ErrorIs(t, err, synth.ErrFaultOutOfRange)

	assert.Panics(t, func() { synth.WithTurbines(0) })
	assert.Panics(t, func() { synth.WithMissing(1) })
	assert.Panics(t, func() { synth.WithRand(nil) })
	assert.Panics(t, func() { synth.WithIndex(time.Time{}, 0) })
}
