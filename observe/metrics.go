package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// LookupResult classifies how a call was answered.
type LookupResult string

const (
	// LookupHit means the lock-free cache read found the result.
	LookupHit LookupResult = "hit"
	// LookupShared means the result appeared while the caller waited on the key lock.
	LookupShared LookupResult = "shared"
	// LookupMiss means the caller had to invoke the wrapped function.
	LookupMiss LookupResult = "miss"
)

// Metrics records memoization metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records how a call was answered.
	RecordLookup(ctx context.Context, meta FuncMeta, result LookupResult)

	// RecordInvocation records one invocation of the wrapped function.
	RecordInvocation(ctx context.Context, meta FuncMeta, duration time.Duration, err error)

	// RecordEviction records a cached result leaving the cache.
	RecordEviction(ctx context.Context, meta FuncMeta, reason string)
}

type metricsImpl struct {
	lookups      metric.Int64Counter
	invocations  metric.Int64Counter
	errors       metric.Int64Counter
	durationHist metric.Float64Histogram
	evictions    metric.Int64Counter
}

// NewMetrics creates Metrics instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	lookups, err := meter.Int64Counter(
		"memo.lookup.total",
		metric.WithDescription("Calls to memoized functions by lookup result"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	invocations, err := meter.Int64Counter(
		"memo.invoke.total",
		metric.WithDescription("Invocations of wrapped functions"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter(
		"memo.invoke.errors",
		metric.WithDescription("Failed invocations of wrapped functions"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"memo.invoke.duration_ms",
		metric.WithDescription("Wrapped function duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64Counter(
		"memo.evictions",
		metric.WithDescription("Cached results removed by capacity or expiry"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		lookups:      lookups,
		invocations:  invocations,
		errors:       errs,
		durationHist: durationHist,
		evictions:    evictions,
	}, nil
}

func (m *metricsImpl) RecordLookup(ctx context.Context, meta FuncMeta, result LookupResult) {
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("memo.func", meta.Name),
		attribute.String("memo.result", string(result)),
	))
}

func (m *metricsImpl) RecordInvocation(ctx context.Context, meta FuncMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("memo.func", meta.Name))

	m.invocations.Add(ctx, 1, opt)
	if err != nil {
		m.errors.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordEviction(ctx context.Context, meta FuncMeta, reason string) {
	m.evictions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("memo.func", meta.Name),
		attribute.String("memo.reason", reason),
	))
}

type noopMetrics struct{}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics {
	return noopMetrics{}
}

func (noopMetrics) RecordLookup(context.Context, FuncMeta, LookupResult)              {}
func (noopMetrics) RecordInvocation(context.Context, FuncMeta, time.Duration, error) {}
func (noopMetrics) RecordEviction(context.Context, FuncMeta, string)                 {}
