// SPDX-License-Identifier: MIT

package synth

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/katalvlaran/plantqc/frame"
)

// Feature names used for the generated columns (ws_T01, power_T01, ...).
const (
	WindSpeedFeature = "ws"
	PowerFeature     = "power"
)

// Telemetry is a generated plant.
type Telemetry struct {
	// Frame holds the corrupted readings, wind speed columns first.
	Frame *frame.Frame
	// Clean holds the same columns before any corruption.
	Clean *frame.Frame
	// WindSpeed and Power map each turbine to its columns.
	WindSpeed frame.AssetColumns
	Power     frame.AssetColumns
	// Injected marks stuck and spiked cells per power column.
	Injected map[string][]bool
}

// Turbines returns the turbine identifiers in column order.
func (t *Telemetry) Turbines() []string { return t.Power.Assets() }

// Plant generates rows samples of plant telemetry.
//
// Errors:
//   - ErrInvalidRows if rows < 1.
//   - ErrUnknownTurbine, ErrFaultOutOfRange for bad WithStuck runs.
//
// Complexity: O(rows · turbines).
func Plant(rows int, seed int64, opts ...Option) (*Telemetry, error) {
	if rows < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRows, rows)
	}
	cfg := newPlantConfig(opts...)
	for _, s := range cfg.stuck {
		if !slices.Contains(cfg.turbines, s.Turbine) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTurbine, s.Turbine)
		}
		if s.Start < 0 || s.Length < 1 || s.Start+s.Length > rows {
			return nil, fmt.Errorf("%w: %s rows [%d, %d) of %d",
				ErrFaultOutOfRange, s.Turbine, s.Start, s.Start+s.Length, rows)
		}
	}

	rng := rngFrom(cfg, seed)
	wind := plantWind(rows, cfg, rng)

	k := len(cfg.turbines)
	ws := make([][]float64, k)
	power := make([][]float64, k)
	for t := range cfg.turbines {
		bias := 1 + defaultBiasSigma*rng.NormFloat64()
		ws[t] = make([]float64, rows)
		power[t] = make([]float64, rows)
		for i := range wind {
			v := math.Max(0, wind[i]*bias+cfg.windNoise*rng.NormFloat64())
			p := powerCurve(v, cfg.rated) + cfg.powerNoise*cfg.rated*rng.NormFloat64()
			ws[t][i] = v
			power[t][i] = clamp(p, 0, cfg.rated)
		}
	}

	index := timeIndex(rows, cfg.start, cfg.step)
	clean, err := assemble(index, cfg.turbines, ws, power)
	if err != nil {
		return nil, err
	}

	injected := make(map[string][]bool, k)
	for _, name := range cfg.turbines {
		injected[column(PowerFeature, name)] = make([]bool, rows)
	}

	for _, s := range cfg.stuck {
		t := slices.Index(cfg.turbines, s.Turbine)
		mark := injected[column(PowerFeature, s.Turbine)]
		held := power[t][s.Start]
		for i := s.Start; i < s.Start+s.Length; i++ {
			power[t][i] = held
			mark[i] = true
		}
	}
	if cfg.spikes > 0 {
		for t, name := range cfg.turbines {
			mark := injected[column(PowerFeature, name)]
			for i := range power[t] {
				if rng.Float64() < cfg.spikes {
					power[t][i] = defaultSpikeFactor * cfg.rated
					mark[i] = true
				}
			}
		}
	}
	if cfg.missing > 0 {
		for t, name := range cfg.turbines {
			mark := injected[column(PowerFeature, name)]
			for i := 0; i < rows; i++ {
				if rng.Float64() < cfg.missing {
					ws[t][i] = math.NaN()
				}
				if rng.Float64() < cfg.missing && !mark[i] {
					power[t][i] = math.NaN()
				}
			}
		}
	}

	corrupted, err := assemble(index, cfg.turbines, ws, power)
	if err != nil {
		return nil, err
	}
	wsCols, err := frame.ParseAssetColumns(WindSpeedFeature, corrupted.Columns())
	if err != nil {
		return nil, err
	}
	powerCols, err := frame.ParseAssetColumns(PowerFeature, corrupted.Columns())
	if err != nil {
		return nil, err
	}

	return &Telemetry{
		Frame:     corrupted,
		Clean:     clean,
		WindSpeed: wsCols,
		Power:     powerCols,
		Injected:  injected,
	}, nil
}

func column(feature, turbine string) string { return feature + "_" + turbine }

func assemble(index []time.Time, turbines []string, ws, power [][]float64) (*frame.Frame, error) {
	cols := make([]frame.Series, 0, 2*len(turbines))
	for t, name := range turbines {
		cols = append(cols, frame.Series{Name: column(WindSpeedFeature, name), Values: ws[t]})
	}
	for t, name := range turbines {
		cols = append(cols, frame.Series{Name: column(PowerFeature, name), Values: power[t]})
	}

	return frame.New(index, cols...)
}
