// SPDX-License-Identifier: MIT

package frame

import "errors"

var (
	// ErrUnknownColumn is returned when a referenced column does not exist.
	ErrUnknownColumn = errors.New("frame: unknown column")

	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("frame: duplicate column")

	// ErrLengthMismatch is returned when a column or mask does not match the row count.
	ErrLengthMismatch = errors.New("frame: length mismatch")

	// ErrInvalidName is returned for empty column, feature or asset names.
	ErrInvalidName = errors.New("frame: invalid name")

	// ErrUnknownAsset is returned when an asset is not part of an AssetColumns map.
	ErrUnknownAsset = errors.New("frame: unknown asset")

	// ErrDuplicateKey is returned when a long table holds two rows for one (time, asset).
	ErrDuplicateKey = errors.New("frame: duplicate (time, asset) key")

	// ErrNoIndex is returned when an operation needs a time index and the frame has none.
	ErrNoIndex = errors.New("frame: frame has no time index")

	// ErrNullIndex is returned when an Arrow time column holds a null timestamp.
	ErrNullIndex = errors.New("frame: null timestamp in time index")

	// ErrUnsupportedType is returned for Arrow columns that cannot be read as float64.
	ErrUnsupportedType = errors.New("frame: unsupported column type")

	// ErrNilFrame is returned when a nil *Frame, *Mask or plan is used.
	ErrNilFrame = errors.New("frame: nil frame")
)
