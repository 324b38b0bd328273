// SPDX-License-Identifier: MIT

package frame

import (
	"context"
	"fmt"
	"strings"
)

// MaskFunc evaluates a flag over a materialized frame.
type MaskFunc func(ctx context.Context, f *Frame) (*Mask, error)

// LazyMask is a deferred flag result. It is built on top of a LazyFrame and
// evaluated on Collect. Combinators return new LazyMask values; nothing runs
// until Collect.
type LazyMask struct {
	name    string
	columns []string
	eval    func(ctx context.Context) (*Mask, error)
	explain func(sb *strings.Builder, depth int)
}

// NewLazyMask defers fn over plan. columns is the output schema of the mask,
// known without running the plan.
func NewLazyMask(plan *LazyFrame, name string, columns []string, fn MaskFunc) *LazyMask {
	return &LazyMask{
		name:    name,
		columns: append([]string(nil), columns...),
		eval: func(ctx context.Context) (*Mask, error) {
			if plan == nil {
				return nil, ErrNilFrame
			}
			f, err := plan.Collect(ctx)
			if err != nil {
				return nil, err
			}
			m, err := fn(ctx, f)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}

			return m, nil
		},
		explain: func(sb *strings.Builder, depth int) {
			pad := strings.Repeat("  ", depth)
			sb.WriteString(pad + "mask " + name + "\n")
			if plan != nil {
				plan.explain(sb, depth+1)
			}
		},
	}
}

// Columns returns the mask column names without evaluating anything.
func (lm *LazyMask) Columns() []string { return append([]string(nil), lm.columns...) }

// Collect evaluates the mask.
func (lm *LazyMask) Collect(ctx context.Context) (*Mask, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return lm.eval(ctx)
}

// Explain renders the deferred computation.
func (lm *LazyMask) Explain() string {
	var sb strings.Builder
	lm.explain(&sb, 0)

	return sb.String()
}

// Or combines two lazy masks with the same columns.
func (lm *LazyMask) Or(o *LazyMask) *LazyMask {
	return lm.binary("or", o, (*Mask).Or)
}

// And combines two lazy masks with the same columns.
func (lm *LazyMask) And(o *LazyMask) *LazyMask {
	return lm.binary("and", o, (*Mask).And)
}

// Concat places the columns of others to the right of lm's.
func (lm *LazyMask) Concat(others ...*LazyMask) *LazyMask {
	all := append([]*LazyMask{lm}, others...)
	cols := make([]string, 0, len(lm.columns))
	for _, m := range all {
		cols = append(cols, m.columns...)
	}

	return &LazyMask{
		name:    "concat",
		columns: cols,
		eval: func(ctx context.Context) (*Mask, error) {
			parts := make([]*Mask, len(all))
			for i, m := range all {
				p, err := m.Collect(ctx)
				if err != nil {
					return nil, err
				}
				parts[i] = p
			}

			return Concat(parts...)
		},
		explain: func(sb *strings.Builder, depth int) {
			sb.WriteString(strings.Repeat("  ", depth) + "concat\n")
			for _, m := range all {
				m.explain(sb, depth+1)
			}
		},
	}
}

func (lm *LazyMask) binary(name string, o *LazyMask, fn func(a, b *Mask) (*Mask, error)) *LazyMask {
	return &LazyMask{
		name:    name,
		columns: lm.columns,
		eval: func(ctx context.Context) (*Mask, error) {
			a, err := lm.Collect(ctx)
			if err != nil {
				return nil, err
			}
			b, err := o.Collect(ctx)
			if err != nil {
				return nil, err
			}

			return fn(a, b)
		},
		explain: func(sb *strings.Builder, depth int) {
			sb.WriteString(strings.Repeat("  ", depth) + name + "\n")
			lm.explain(sb, depth+1)
			o.explain(sb, depth+1)
		},
	}
}
