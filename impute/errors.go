// SPDX-License-Identifier: MIT

package impute

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when a fit has fewer than degree+1
	// complete points or no spread in x.
	ErrInsufficientData = errors.New("impute: not enough data to fit")

	// ErrUnknownMethod is returned for a method other than "linear" or "polynomial".
	ErrUnknownMethod = errors.New("impute: unknown method")

	// ErrInvalidDegree is returned for a negative polynomial degree.
	ErrInvalidDegree = errors.New("impute: invalid polynomial degree")

	// ErrUnknownMode is returned for an execution mode outside Sequential, Pool, Distributed.
	ErrUnknownMode = errors.New("impute: unknown execution mode")

	// ErrLengthMismatch is returned when target and reference differ in length.
	ErrLengthMismatch = errors.New("impute: target and reference lengths differ")
)

// AssetError reports a task that crashed while imputing one asset.
type AssetError struct {
	Asset string
	Err   error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("impute: asset %q: %v", e.Asset, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }
