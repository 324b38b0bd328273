// SPDX-License-Identifier: MIT

package config

import "errors"

var (
	// ErrInvalidProfile is returned when a loaded profile fails validation.
	ErrInvalidProfile = errors.New("config: invalid profile")

	// ErrLoad is returned when a profile file exists but cannot be read or parsed.
	ErrLoad = errors.New("config: load failed")
)
