// SPDX-License-Identifier: MIT

package frame

import (
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/plantqc/matrix"
)

// Series is a named float64 column. NaN marks a missing value.
type Series struct {
	Name   string
	Values []float64
}

// Frame is an immutable table of float64 columns sharing one row index.
//   - index may be nil for purely positional data.
//   - names keeps column order; cols stores the data keyed by name.
type Frame struct {
	n     int
	index []time.Time
	names []string
	cols  map[string][]float64
}

// New builds a Frame from an optional time index and a list of columns.
//
// Behavior highlights:
//   - Input slices are copied; later mutations by the caller do not leak in.
//   - Row count is len(index) when index is non-nil, otherwise the length of
//     the first column.
//
// Errors:
//   - ErrInvalidName for an empty column name.
//   - ErrDuplicateColumn for repeated names.
//   - ErrLengthMismatch when a column length differs from the row count.
func New(index []time.Time, cols ...Series) (*Frame, error) {
	n := len(index)
	if index == nil && len(cols) > 0 {
		n = len(cols[0].Values)
	}
	f := &Frame{
		n:     n,
		names: make([]string, 0, len(cols)),
		cols:  make(map[string][]float64, len(cols)),
	}
	if index != nil {
		f.index = append([]time.Time(nil), index...)
	}
	for _, s := range cols {
		if s.Name == "" {
			return nil, ErrInvalidName
		}
		if _, dup := f.cols[s.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, s.Name)
		}
		if len(s.Values) != n {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrLengthMismatch, s.Name, len(s.Values), n)
		}
		f.names = append(f.names, s.Name)
		f.cols[s.Name] = append([]float64(nil), s.Values...)
	}

	return f, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int { return f.n }

// Index returns a copy of the time index (nil when the frame is positional).
func (f *Frame) Index() []time.Time {
	if f.index == nil {
		return nil
	}

	return append([]time.Time(nil), f.index...)
}

// HasIndex reports whether the frame carries a time index.
func (f *Frame) HasIndex() bool { return f.index != nil }

// Columns returns the column names in order.
func (f *Frame) Columns() []string { return append([]string(nil), f.names...) }

// Has reports whether a column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]

	return ok
}

// Column returns a copy of the named column.
func (f *Frame) Column(name string) ([]float64, error) {
	v, err := f.View(name)
	if err != nil {
		return nil, err
	}

	return append([]float64(nil), v...), nil
}

// View returns the named column without copying. Callers must not modify it.
func (f *Frame) View(name string) ([]float64, error) {
	v, ok := f.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}

	return v, nil
}

// Require returns ErrUnknownColumn for the first name that is not present.
func (f *Frame) Require(names ...string) error {
	for _, name := range names {
		if !f.Has(name) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
	}

	return nil
}

// NullCount returns the number of NaN values in a column.
func (f *Frame) NullCount(name string) (int, error) {
	v, err := f.View(name)
	if err != nil {
		return 0, err
	}

	return CountNull(v), nil
}

// Select returns a frame with only the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	if err := f.Require(names...); err != nil {
		return nil, err
	}
	out := f.shell(len(names))
	for _, name := range names {
		if _, dup := out.cols[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		out.names = append(out.names, name)
		out.cols[name] = f.cols[name]
	}

	return out, nil
}

// WithColumns returns a frame where existing columns are replaced in place
// and new ones are appended, in argument order.
func (f *Frame) WithColumns(cols ...Series) (*Frame, error) {
	out := f.shell(len(f.names) + len(cols))
	out.names = append(out.names, f.names...)
	for _, name := range f.names {
		out.cols[name] = f.cols[name]
	}
	for _, s := range cols {
		if s.Name == "" {
			return nil, ErrInvalidName
		}
		if len(s.Values) != f.n {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrLengthMismatch, s.Name, len(s.Values), f.n)
		}
		if _, ok := out.cols[s.Name]; !ok {
			out.names = append(out.names, s.Name)
		}
		out.cols[s.Name] = append([]float64(nil), s.Values...)
	}

	return out, nil
}

// Rename returns a frame with every column renamed by fn.
func (f *Frame) Rename(fn func(string) string) (*Frame, error) {
	out := f.shell(len(f.names))
	for _, name := range f.names {
		next := fn(name)
		if next == "" {
			return nil, ErrInvalidName
		}
		if _, dup := out.cols[next]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, next)
		}
		out.names = append(out.names, next)
		out.cols[next] = f.cols[name]
	}

	return out, nil
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	out := f.shell(len(f.names))
	for _, name := range f.names {
		out.names = append(out.names, name)
		out.cols[name] = append([]float64(nil), f.cols[name]...)
	}

	return out
}

// Dense copies the named columns into an n×k matrix (NaN allowed).
func (f *Frame) Dense(names ...string) (*matrix.Dense, error) {
	if err := f.Require(names...); err != nil {
		return nil, err
	}
	k := len(names)
	data := make([]float64, f.n*k)
	for j, name := range names {
		col := f.cols[name]
		for i := 0; i < f.n; i++ {
			data[i*k+j] = col[i]
		}
	}
	m, err := matrix.NewDenseFrom(f.n, k, data, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, fmt.Errorf("frame: Dense: %w", err)
	}

	return m, nil
}

// Lazy wraps the frame as the source of a deferred plan.
func (f *Frame) Lazy() *LazyFrame {
	return &LazyFrame{source: f}
}

// shell returns an empty frame sharing the (immutable) index.
func (f *Frame) shell(capacity int) *Frame {
	return &Frame{
		n:     f.n,
		index: f.index,
		names: make([]string, 0, capacity),
		cols:  make(map[string][]float64, capacity),
	}
}

var nan = math.NaN()

// IsNull reports whether v is a missing value.
func IsNull(v float64) bool { return math.IsNaN(v) }

// CountNull counts NaN values.
func CountNull(v []float64) int {
	n := 0
	for _, x := range v {
		if math.IsNaN(x) {
			n++
		}
	}

	return n
}
