// SPDX-License-Identifier: MIT

package flag

import "errors"

var (
	// ErrLengthMismatch is returned when a per-column option list does not
	// have length 1 or the number of columns.
	ErrLengthMismatch = errors.New("flag: option length does not match column count")

	// ErrInvalidOption is returned for out-of-domain option values
	// (unknown enum, non-positive width, Min > Max, …).
	ErrInvalidOption = errors.New("flag: invalid option")

	// ErrInvalidThreshold is returned when the unresponsive threshold is < 1.
	ErrInvalidThreshold = errors.New("flag: threshold must be >= 1")

	// ErrUnsupportedMode is returned when a mode is requested on a backend that
	// does not provide it (cluster std mode on an eager frame).
	ErrUnsupportedMode = errors.New("flag: mode not supported on this backend")

	// ErrInvalidClusters is returned when the cluster count is < 1 or exceeds
	// the number of complete points.
	ErrInvalidClusters = errors.New("flag: invalid number of clusters")
)
