// SPDX-License-Identifier: MIT

package impute

import (
	"fmt"

	"github.com/katalvlaran/plantqc/correlation"
)

// Test bridge: exposes the cascade transition and the panic guard to
// impute_test without widening the production API.

// Cascade is the test-visible name of the per-asset transition context.
type Cascade = cascade

// NewCascade builds a cascade over explicit reference columns.
func NewCascade(target []float64, ranking []correlation.Neighbor, refs map[string][]float64, threshold float64, degree int) *Cascade {
	return &cascade{
		target:  target,
		ranking: ranking,
		reference: func(asset string) ([]float64, error) {
			v, ok := refs[asset]
			if !ok {
				return nil, fmt.Errorf("no reference for %q", asset)
			}

			return v, nil
		},
		threshold: threshold,
		degree:    degree,
	}
}

// Start is the Scanning state of an asset.
func Start(asset string, target []float64) State { return start(asset, target) }

// Step performs one transition.
func (c *cascade) Step(s State) State { return c.step(s) }

// Guard wraps a task with the executor's panic isolation.
var Guard = guard
