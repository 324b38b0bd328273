// SPDX-License-Identifier: MIT

package synth

import "errors"

var (
	// ErrInvalidRows is returned when rows < 1.
	ErrInvalidRows = errors.New("synth: rows must be >= 1")

	// ErrUnknownTurbine is returned when an injected fault names a missing turbine.
	ErrUnknownTurbine = errors.New("synth: unknown turbine")

	// ErrFaultOutOfRange is returned when an injected fault does not fit in the rows.
	ErrFaultOutOfRange = errors.New("synth: fault out of range")
)
