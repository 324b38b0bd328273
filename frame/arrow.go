// SPDX-License-Identifier: MIT

package frame

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// TimeField is the Arrow field name of the exported time index.
const TimeField = "time"

// FromRecord reads an Arrow record into a Frame.
//
// Behavior highlights:
//   - timeColumn (if non-empty) must be a timestamp column without nulls and
//     becomes the index; a null timestamp fails with ErrNullIndex.
//   - float64, float32, int64 and int32 columns become float64 columns; Arrow
//     nulls become NaN.
//   - Any other column type fails with ErrUnsupportedType.
//
// The record is only read; the caller keeps ownership.
func FromRecord(rec arrow.Record, timeColumn string) (*Frame, error) {
	if rec == nil {
		return nil, ErrNilFrame
	}
	n := int(rec.NumRows())
	var (
		index []time.Time
		cols  []Series
	)
	for i, field := range rec.Schema().Fields() {
		arr := rec.Column(i)
		if field.Name == timeColumn && timeColumn != "" {
			ts, ok := arr.(*array.Timestamp)
			if !ok {
				return nil, fmt.Errorf("%w: index %q is %s", ErrUnsupportedType, field.Name, arr.DataType())
			}
			unit := ts.DataType().(*arrow.TimestampType).Unit
			index = make([]time.Time, n)
			for r := 0; r < n; r++ {
				if ts.IsNull(r) {
					return nil, fmt.Errorf("%w: %q row %d", ErrNullIndex, field.Name, r)
				}
				index[r] = ts.Value(r).ToTime(unit)
			}
			continue
		}
		values, err := float64Values(arr)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", field.Name, err)
		}
		cols = append(cols, Series{Name: field.Name, Values: values})
	}
	if timeColumn != "" && index == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, timeColumn)
	}
	if index == nil && len(cols) == 0 {
		return New(make([]time.Time, 0))
	}

	return New(index, cols...)
}

func float64Values(arr arrow.Array) ([]float64, error) {
	out := make([]float64, arr.Len())
	switch a := arr.(type) {
	case *array.Float64:
		for i := range out {
			out[i] = a.Value(i)
		}
	case *array.Float32:
		for i := range out {
			out[i] = float64(a.Value(i))
		}
	case *array.Int64:
		for i := range out {
			out[i] = float64(a.Value(i))
		}
	case *array.Int32:
		for i := range out {
			out[i] = float64(a.Value(i))
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, arr.DataType())
	}
	for i := range out {
		if arr.IsNull(i) {
			out[i] = nan
		}
	}

	return out, nil
}

// ToRecord exports the frame as an Arrow record. The index, if any, becomes
// a nanosecond UTC timestamp field named TimeField; NaN becomes Arrow null.
// The caller must Release the record.
func (f *Frame) ToRecord(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	fields := make([]arrow.Field, 0, len(f.names)+1)
	arrays := make([]arrow.Array, 0, len(f.names)+1)
	defer func() {
		for _, a := range arrays {
			a.Release()
		}
	}()

	if f.index != nil {
		fields, arrays = appendIndex(mem, fields, arrays, f.index)
	}
	for _, name := range f.names {
		b := array.NewFloat64Builder(mem)
		b.Reserve(f.n)
		for _, v := range f.cols[name] {
			if IsNull(v) {
				b.AppendNull()
				continue
			}
			b.Append(v)
		}
		arrays = append(arrays, b.NewArray())
		b.Release()
		fields = append(fields, arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: true})
	}

	return array.NewRecord(arrow.NewSchema(fields, nil), arrays, int64(f.n)), nil
}

// ToRecord exports the mask as an Arrow record of boolean columns.
// The caller must Release the record.
func (m *Mask) ToRecord(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	fields := make([]arrow.Field, 0, len(m.names)+1)
	arrays := make([]arrow.Array, 0, len(m.names)+1)
	defer func() {
		for _, a := range arrays {
			a.Release()
		}
	}()

	if m.index != nil {
		fields, arrays = appendIndex(mem, fields, arrays, m.index)
	}
	for _, name := range m.names {
		b := array.NewBooleanBuilder(mem)
		b.AppendValues(m.cols[name], nil)
		arrays = append(arrays, b.NewArray())
		b.Release()
		fields = append(fields, arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Boolean})
	}

	return array.NewRecord(arrow.NewSchema(fields, nil), arrays, int64(m.n)), nil
}

func appendIndex(mem memory.Allocator, fields []arrow.Field, arrays []arrow.Array, index []time.Time) ([]arrow.Field, []arrow.Array) {
	typ := &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"}
	b := array.NewTimestampBuilder(mem, typ)
	defer b.Release()
	for _, t := range index {
		b.Append(arrow.Timestamp(t.UnixNano()))
	}

	return append(fields, arrow.Field{Name: TimeField, Type: typ}), append(arrays, b.NewArray())
}
