// Package observe provides logging, tracing and metrics for memoized functions.
//
// It is a pure instrumentation library: the memoizer calls into the Logger,
// Tracer and Metrics interfaces, and NewObserver wires them to OpenTelemetry
// providers and exporters. Every interface has a no-op implementation so
// instrumentation is optional.
package observe
