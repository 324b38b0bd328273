// SPDX-License-Identifier: MIT

package frame

import (
	"fmt"
	"time"
)

// BoolSeries is a named boolean column.
type BoolSeries struct {
	Name   string
	Values []bool
}

// Mask is the result of a flag: boolean columns aligned with the input rows.
// true means the value at that row was flagged.
type Mask struct {
	n     int
	index []time.Time
	names []string
	cols  map[string][]bool
}

// NewMask builds a mask over n rows. index may be nil; when set, its length must be n.
func NewMask(n int, index []time.Time, cols ...BoolSeries) (*Mask, error) {
	if index != nil && len(index) != n {
		return nil, fmt.Errorf("%w: index has %d rows, want %d", ErrLengthMismatch, len(index), n)
	}
	m := &Mask{
		n:     n,
		index: index,
		names: make([]string, 0, len(cols)),
		cols:  make(map[string][]bool, len(cols)),
	}
	for _, s := range cols {
		if err := m.add(s.Name, append([]bool(nil), s.Values...)); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// NewMaskFor builds an empty mask aligned with f.
func NewMaskFor(f *Frame) *Mask {
	return &Mask{n: f.n, index: f.index, cols: map[string][]bool{}}
}

func (m *Mask) add(name string, v []bool) error {
	if name == "" {
		return ErrInvalidName
	}
	if _, dup := m.cols[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if len(v) != m.n {
		return fmt.Errorf("%w: mask %q has %d rows, want %d", ErrLengthMismatch, name, len(v), m.n)
	}
	m.names = append(m.names, name)
	m.cols[name] = v

	return nil
}

// With returns a copy of m with one more column. The slice is taken over.
func (m *Mask) With(name string, v []bool) (*Mask, error) {
	out := m.clone()
	if err := out.add(name, v); err != nil {
		return nil, err
	}

	return out, nil
}

// Len returns the number of rows.
func (m *Mask) Len() int { return m.n }

// Index returns a copy of the time index, if any.
func (m *Mask) Index() []time.Time {
	if m.index == nil {
		return nil
	}

	return append([]time.Time(nil), m.index...)
}

// Columns returns the mask column names in order.
func (m *Mask) Columns() []string { return append([]string(nil), m.names...) }

// Column returns a copy of the named mask column.
func (m *Mask) Column(name string) ([]bool, error) {
	v, ok := m.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}

	return append([]bool(nil), v...), nil
}

// Count returns the number of flagged rows in a column (0 for unknown names).
func (m *Mask) Count(name string) int {
	c := 0
	for _, b := range m.cols[name] {
		if b {
			c++
		}
	}

	return c
}

// Any returns, per row, whether any column is flagged.
func (m *Mask) Any() []bool {
	out := make([]bool, m.n)
	for _, name := range m.names {
		for i, b := range m.cols[name] {
			out[i] = out[i] || b
		}
	}

	return out
}

// Or combines two masks with the same columns element-wise.
func (m *Mask) Or(o *Mask) (*Mask, error) {
	return m.combine(o, func(a, b bool) bool { return a || b })
}

// And combines two masks with the same columns element-wise.
func (m *Mask) And(o *Mask) (*Mask, error) {
	return m.combine(o, func(a, b bool) bool { return a && b })
}

func (m *Mask) combine(o *Mask, fn func(a, b bool) bool) (*Mask, error) {
	if o == nil {
		return nil, ErrNilFrame
	}
	if o.n != m.n || len(o.names) != len(m.names) {
		return nil, ErrLengthMismatch
	}
	out := &Mask{n: m.n, index: m.index, cols: make(map[string][]bool, len(m.names))}
	for _, name := range m.names {
		b, ok := o.cols[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		a := m.cols[name]
		v := make([]bool, m.n)
		for i := range v {
			v[i] = fn(a[i], b[i])
		}
		out.names = append(out.names, name)
		out.cols[name] = v
	}

	return out, nil
}

// Concat places the columns of others to the right of m's columns.
func Concat(masks ...*Mask) (*Mask, error) {
	if len(masks) == 0 || masks[0] == nil {
		return nil, ErrNilFrame
	}
	out := masks[0].clone()
	for _, o := range masks[1:] {
		if o == nil {
			return nil, ErrNilFrame
		}
		for _, name := range o.names {
			if err := out.add(name, o.cols[name]); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// Apply returns a frame where every flagged value is replaced by NaN.
// Columns without a mask column are copied unchanged.
func (m *Mask) Apply(f *Frame) (*Frame, error) {
	if f.n != m.n {
		return nil, ErrLengthMismatch
	}
	out := f.Clone()
	for _, name := range m.names {
		col, ok := out.cols[name]
		if !ok {
			continue
		}
		for i, b := range m.cols[name] {
			if b {
				col[i] = nan
			}
		}
	}

	return out, nil
}

func (m *Mask) clone() *Mask {
	out := &Mask{
		n:     m.n,
		index: m.index,
		names: append([]string(nil), m.names...),
		cols:  make(map[string][]bool, len(m.names)),
	}
	for k, v := range m.cols {
		out.cols[k] = v
	}

	return out
}
