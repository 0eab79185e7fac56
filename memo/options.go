package memo

import (
	"time"

	"github.com/jonwraymond/memoize/observe"
)

// Options configures a memoized function.
type Options struct {
	// TTL is how long a result stays cached after it is stored. Required.
	TTL time.Duration

	// Size is the maximum number of cached results. Required.
	// When full, the oldest stored result is dropped first.
	Size int

	// Name identifies the function in logs, spans and metrics.
	// Default: "memo"
	Name string

	// Keyer derives cache keys from arguments.
	// Default: DefaultKeyer
	Keyer Keyer

	// Logger receives debug and error events.
	// Default: no-op
	Logger observe.Logger

	// Metrics records lookups, invocations and evictions.
	// Default: no-op
	Metrics observe.Metrics

	// Tracer wraps each invocation of the underlying function in a span.
	// Default: no-op
	Tracer observe.Tracer

	// ReclaimLocks drops per-key lock state once no caller holds or waits
	// on it. By default lock state lives as long as the memoized function.
	ReclaimLocks bool
}

// DefaultName is used when Options.Name is empty.
const DefaultName = "memo"

// Validate checks the required fields.
func (o Options) Validate() error {
	if o.TTL <= 0 {
		return ErrInvalidTTL
	}
	if o.Size <= 0 {
		return ErrInvalidSize
	}
	return nil
}

// withDefaults fills unset optional fields.
func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.Keyer == nil {
		o.Keyer = NewDefaultKeyer()
	}
	if o.Logger == nil {
		o.Logger = observe.NopLogger()
	}
	if o.Metrics == nil {
		o.Metrics = observe.NopMetrics()
	}
	if o.Tracer == nil {
		o.Tracer = observe.NopTracer()
	}
	return o
}

// WithObserver returns a copy of o whose Logger, Metrics and Tracer come from obs.
func (o Options) WithObserver(obs *observe.Observer) (Options, error) {
	if obs == nil {
		return o, observe.ErrNilObserver
	}
	o.Tracer = obs.Tracer()
	o.Metrics = obs.Metrics()
	o.Logger = obs.Logger()
	return o, nil
}
