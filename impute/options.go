// SPDX-License-Identifier: MIT

package impute

import (
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"
)

// Mode selects how asset cascades are executed.
type Mode int

const (
	// Sequential runs assets one after another in matrix order.
	Sequential Mode = iota
	// Pool runs assets on an errgroup limited to Workers goroutines.
	Pool
	// Distributed runs assets on a conc result pool limited to Workers goroutines.
	Distributed
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Pool:
		return "process-pool"
	case Distributed:
		return "distributed"
	}

	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps "sequential", "process-pool" or "distributed" to a Mode.
// It is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{Sequential, Pool, Distributed} {
		if m.String() == s {
			return m, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Defaults.
const (
	DefaultR2Threshold = 0.7
	DefaultDegree      = 1
	DefaultMethod      = MethodLinear
)

const (
	panicThresholdInvalid = "impute: WithR2Threshold: threshold must not be NaN"
	panicWorkersInvalid   = "impute: WithWorkers: workers must be >= 1"
)

// Option configures AllAssets.
type Option func(*Options)

// Options is the resolved configuration of an AllAssets call.
type Options struct {
	threshold  float64
	degree     int
	method     string
	mode       Mode
	workers    int
	logger     *zap.Logger
	dispatcher Dispatcher
}

// WithR2Threshold sets the correlation a peer must exceed to be used.
// Panics on NaN.
func WithR2Threshold(r2 float64) Option {
	if math.IsNaN(r2) {
		panic(panicThresholdInvalid)
	}

	return func(o *Options) { o.threshold = r2 }
}

// WithDegree sets the polynomial degree for MethodPolynomial.
func WithDegree(d int) Option {
	return func(o *Options) { o.degree = d }
}

// WithMethod selects MethodLinear or MethodPolynomial. Other names fail
// AllAssets with ErrUnknownMethod.
func WithMethod(method string) Option {
	return func(o *Options) { o.method = method }
}

// WithMode selects the execution mode.
func WithMode(m Mode) Option {
	return func(o *Options) { o.mode = m }
}

// WithWorkers bounds the goroutines of Pool and Distributed. Panics when < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithLogger sets the logger for per-asset outcomes.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDispatcher replaces the built-in executor of the selected mode.
func WithDispatcher(d Dispatcher) Option {
	return func(o *Options) { o.dispatcher = d }
}

// Threshold returns the resolved correlation threshold.
func (o Options) Threshold() float64 { return o.threshold }

// Mode returns the resolved execution mode.
func (o Options) Mode() Mode { return o.mode }

// Workers returns the resolved worker bound.
func (o Options) Workers() int { return o.workers }

// NewOptions resolves setters against the defaults.
func NewOptions(opts ...Option) Options {
	o := Options{
		threshold: DefaultR2Threshold,
		degree:    DefaultDegree,
		method:    DefaultMethod,
		mode:      Sequential,
		workers:   runtime.GOMAXPROCS(0),
		logger:    zap.NewNop(),
	}
	for _, set := range opts {
		if set != nil {
			set(&o)
		}
	}

	return o
}

// resolve validates the options and picks the executor.
func (o Options) resolve() (int, Dispatcher, error) {
	degree, err := methodDegree(o.method, o.degree)
	if err != nil {
		return 0, nil, err
	}
	if o.dispatcher != nil {
		return degree, o.dispatcher, nil
	}
	switch o.mode {
	case Sequential:
		return degree, sequential{}, nil
	case Pool:
		return degree, errgroupPool{workers: o.workers}, nil
	case Distributed:
		return degree, concPool{workers: o.workers}, nil
	}

	return 0, nil, fmt.Errorf("%w: %s", ErrUnknownMode, o.mode)
}
