// SPDX-License-Identifier: MIT

package frame

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// LazyOperation represents a deferred transform on a Frame.
//   - Apply runs the transform on a materialized input.
//   - Columns resolves the output schema from the input schema without data.
type LazyOperation interface {
	Apply(ctx context.Context, f *Frame) (*Frame, error)
	Columns(in []string) ([]string, error)
	String() string
}

// LazyFrame is an immutable deferred plan: a root (a source frame or a cached
// plan) followed by a list of operations. Every combinator returns a new
// LazyFrame; the receiver is never modified, so plans can branch freely.
// Collect is the only point where work happens.
type LazyFrame struct {
	source     *Frame
	cached     *cachedPlan
	operations []LazyOperation
}

// cachedPlan memoizes the materialized result of a plan.
// Cancellation errors are not memoized; a later Collect retries.
type cachedPlan struct {
	plan  *LazyFrame
	mu    sync.Mutex
	done  bool
	frame *Frame
	err   error
}

func (c *cachedPlan) collect(ctx context.Context) (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return c.frame, c.err
	}
	f, err := c.plan.Collect(ctx)
	if err != nil && ctx.Err() != nil {
		return nil, err
	}
	c.frame, c.err, c.done = f, err, true

	return f, err
}

func (lf *LazyFrame) with(op LazyOperation) *LazyFrame {
	operations := make([]LazyOperation, len(lf.operations), len(lf.operations)+1)
	copy(operations, lf.operations)
	operations = append(operations, op)

	return &LazyFrame{source: lf.source, cached: lf.cached, operations: operations}
}

// Select keeps only the named columns.
func (lf *LazyFrame) Select(columns ...string) *LazyFrame {
	return lf.with(&selectOperation{columns: append([]string(nil), columns...)})
}

// WithColumn adds or replaces a column computed from the materialized input.
func (lf *LazyFrame) WithColumn(name string, fn func(f *Frame) ([]float64, error)) *LazyFrame {
	return lf.with(&withColumnOperation{name: name, fn: fn})
}

// Pipe appends an arbitrary operation.
func (lf *LazyFrame) Pipe(op LazyOperation) *LazyFrame {
	return lf.with(op)
}

// Cache returns a plan whose root is the memoized result of lf. All plans
// built on the returned node share one materialization of lf.
func (lf *LazyFrame) Cache() *LazyFrame {
	return &LazyFrame{cached: &cachedPlan{plan: lf}}
}

// Columns resolves the output column names without executing the plan.
func (lf *LazyFrame) Columns() ([]string, error) {
	var cols []string
	switch {
	case lf.cached != nil:
		c, err := lf.cached.plan.Columns()
		if err != nil {
			return nil, err
		}
		cols = c
	case lf.source != nil:
		cols = lf.source.Columns()
	default:
		return nil, ErrNilFrame
	}
	var err error
	for _, op := range lf.operations {
		if cols, err = op.Columns(cols); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return cols, nil
}

// Collect materializes the plan. ctx is checked before every operation.
func (lf *LazyFrame) Collect(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		cur *Frame
		err error
	)
	switch {
	case lf.cached != nil:
		if cur, err = lf.cached.collect(ctx); err != nil {
			return nil, err
		}
	case lf.source != nil:
		cur = lf.source
	default:
		return nil, ErrNilFrame
	}
	for _, op := range lf.operations {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if cur, err = op.Apply(ctx, cur); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return cur, nil
}

// Explain renders the plan, one node per line, root first.
func (lf *LazyFrame) Explain() string {
	var sb strings.Builder
	lf.explain(&sb, 0)

	return sb.String()
}

func (lf *LazyFrame) explain(sb *strings.Builder, depth int) {
	pad := strings.Repeat("  ", depth)
	switch {
	case lf.cached != nil:
		sb.WriteString(pad + "cache\n")
		lf.cached.plan.explain(sb, depth+1)
	case lf.source != nil:
		fmt.Fprintf(sb, "%ssource [%d rows x %d cols]\n", pad, lf.source.Len(), len(lf.source.names))
	}
	for _, op := range lf.operations {
		sb.WriteString(pad + op.String() + "\n")
	}
}

type selectOperation struct {
	columns []string
}

func (o *selectOperation) Apply(_ context.Context, f *Frame) (*Frame, error) {
	return f.Select(o.columns...)
}

func (o *selectOperation) Columns(in []string) ([]string, error) {
	have := make(map[string]struct{}, len(in))
	for _, c := range in {
		have[c] = struct{}{}
	}
	for _, c := range o.columns {
		if _, ok := have[c]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
	}

	return append([]string(nil), o.columns...), nil
}

func (o *selectOperation) String() string {
	return "select " + strings.Join(o.columns, ", ")
}

type withColumnOperation struct {
	name string
	fn   func(f *Frame) ([]float64, error)
}

func (o *withColumnOperation) Apply(_ context.Context, f *Frame) (*Frame, error) {
	v, err := o.fn(f)
	if err != nil {
		return nil, err
	}

	return f.WithColumns(Series{Name: o.name, Values: v})
}

func (o *withColumnOperation) Columns(in []string) ([]string, error) {
	if o.name == "" {
		return nil, ErrInvalidName
	}
	for _, c := range in {
		if c == o.name {
			return in, nil
		}
	}

	return append(append([]string(nil), in...), o.name), nil
}

func (o *withColumnOperation) String() string { return "with_column " + o.name }

// funcOperation adapts plain functions to LazyOperation.
type funcOperation struct {
	name    string
	columns func(in []string) ([]string, error)
	apply   func(ctx context.Context, f *Frame) (*Frame, error)
}

// NewOperation builds a LazyOperation from a schema function and an apply
// function. A nil columns function keeps the input schema.
func NewOperation(
	name string,
	columns func(in []string) ([]string, error),
	apply func(ctx context.Context, f *Frame) (*Frame, error),
) LazyOperation {
	return &funcOperation{name: name, columns: columns, apply: apply}
}

func (o *funcOperation) Apply(ctx context.Context, f *Frame) (*Frame, error) { return o.apply(ctx, f) }

func (o *funcOperation) Columns(in []string) ([]string, error) {
	if o.columns == nil {
		return in, nil
	}

	return o.columns(in)
}

func (o *funcOperation) String() string { return o.name }
