package observe

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/memoize/observe/exporters"
)

// ScopeName is the instrumentation scope of every tracer and meter created
// by an Observer.
const ScopeName = "github.com/jonwraymond/memoize"

// Config selects the telemetry pipeline behind an Observer. An empty
// exporter or log level turns that signal off.
type Config struct {
	// ServiceName is the service.name resource attribute. Required.
	ServiceName string

	// Version is the service.version resource attribute.
	Version string

	// TraceExporter is one of otlp, jaeger, stdout or none.
	TraceExporter string

	// SampleRatio is the fraction of invocations traced, in [0, 1].
	// Default: 1
	SampleRatio float64

	// MetricsExporter is one of otlp, prometheus, stdout or none.
	MetricsExporter string

	// LogLevel is one of debug, info, warn or error.
	LogLevel string

	// Attributes are added to the resource of every signal, for example to
	// tell apart several memoized layers in one service.
	Attributes []attribute.KeyValue
}

var (
	traceExporters   = []string{"otlp", "jaeger", "stdout", "none"}
	metricsExporters = []string{"otlp", "prometheus", "stdout", "none"}
	logLevels        = []string{"debug", "info", "warn", "error"}
)

func oneOf(v string, allowed []string) bool {
	if v == "" {
		return true
	}
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.ServiceName == "" {
		return ErrMissingServiceName
	}
	if !oneOf(c.TraceExporter, traceExporters) {
		return fmt.Errorf("%w: %q", ErrInvalidTracingExporter, c.TraceExporter)
	}
	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		return fmt.Errorf("%w, got: %f", ErrInvalidSamplePct, c.SampleRatio)
	}
	if !oneOf(c.MetricsExporter, metricsExporters) {
		return fmt.Errorf("%w: %q", ErrInvalidMetricsExporter, c.MetricsExporter)
	}
	if !oneOf(c.LogLevel, logLevels) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return nil
}

// Logger is a minimal structured logging interface.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort and must not panic.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	WithFunc(meta FuncMeta) Logger
}

// Field represents a structured log field.
type Field struct {
	Key   string
	Value any
}

// Observer owns the providers behind the Tracer, Metrics and Logger handed to
// memoized functions. Providers are private to the Observer; the global
// OpenTelemetry providers are left untouched.
type Observer struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewObserver builds the telemetry pipeline described by cfg.
func NewObserver(ctx context.Context, cfg Config) (*Observer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	obs := &Observer{
		tracer:  NopTracer(),
		metrics: NopMetrics(),
		logger:  NopLogger(),
	}

	if cfg.TraceExporter != "" {
		tp, err := newTracerProvider(ctx, cfg, res)
		if err != nil {
			return nil, fmt.Errorf("failed to setup tracing: %w", err)
		}
		obs.tracerProvider = tp
		obs.tracer = NewTracer(tp.Tracer(ScopeName, trace.WithInstrumentationVersion(cfg.Version)))
	}

	if cfg.MetricsExporter != "" {
		mp, err := newMeterProvider(ctx, cfg, res)
		if err != nil {
			_ = obs.Shutdown(ctx)
			return nil, fmt.Errorf("failed to setup metrics: %w", err)
		}
		obs.meterProvider = mp
		metrics, err := NewMetrics(mp.Meter(ScopeName, metric.WithInstrumentationVersion(cfg.Version)))
		if err != nil {
			_ = obs.Shutdown(ctx)
			return nil, fmt.Errorf("failed to create metrics: %w", err)
		}
		obs.metrics = metrics
	}

	if cfg.LogLevel != "" {
		obs.logger = NewLogger(cfg.LogLevel)
	}

	return obs, nil
}

func newResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		attribute.String("memo.library", ScopeName),
	}
	if cfg.Version != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.Version))
	}
	attrs = append(attrs, cfg.Attributes...)
	return resource.New(ctx, resource.WithAttributes(attrs...))
}

func newTracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := exporters.NewTracingExporter(ctx, cfg.TraceExporter)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	ratio := cfg.SampleRatio
	if ratio == 0 {
		ratio = 1
	}
	sampler := sdktrace.AlwaysSample()
	if ratio < 1 {
		sampler = sdktrace.TraceIDRatioBased(ratio)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
		sdktrace.WithBatcher(exporter),
	), nil
}

func newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	reader, err := exporters.NewMetricsReader(ctx, cfg.MetricsExporter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics reader: %w", err)
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	), nil
}

// Tracer returns the memo tracer; a no-op when tracing is off.
func (o *Observer) Tracer() Tracer { return o.tracer }

// Metrics returns the memo metrics; a no-op when metrics are off.
func (o *Observer) Metrics() Metrics { return o.metrics }

// Logger returns the logger; a no-op when logging is off.
func (o *Observer) Logger() Logger { return o.logger }

// Shutdown flushes and stops the providers. Later calls return the result of
// the first.
func (o *Observer) Shutdown(ctx context.Context) error {
	o.shutdownOnce.Do(func() {
		var errs []error
		if o.tracerProvider != nil {
			if err := o.tracerProvider.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
			}
		}
		if o.meterProvider != nil {
			if err := o.meterProvider.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
			}
		}
		o.shutdownErr = errors.Join(errs...)
	})
	return o.shutdownErr
}

type noopLogger struct{}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return noopLogger{}
}

func (noopLogger) Info(context.Context, string, ...Field)  {}
func (noopLogger) Warn(context.Context, string, ...Field)  {}
func (noopLogger) Error(context.Context, string, ...Field) {}
func (noopLogger) Debug(context.Context, string, ...Field) {}
func (l noopLogger) WithFunc(FuncMeta) Logger               { return l }
