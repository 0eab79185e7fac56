package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer() (Tracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return NewTracer(tp.Tracer("test")), recorder
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestFuncMeta_SpanName(t *testing.T) {
	meta := FuncMeta{Name: "get_user"}
	if got := meta.SpanName(); got != "memo.invoke.get_user" {
		t.Errorf("SpanName() = %q, want %q", got, "memo.invoke.get_user")
	}
}

func TestTracer_SuccessfulSpan(t *testing.T) {
	tracer, recorder := newRecordingTracer()
	meta := FuncMeta{Name: "get_user", Arity: 2}

	_, span := tracer.StartSpan(context.Background(), meta)
	tracer.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != "memo.invoke.get_user" {
		t.Errorf("span name = %q", s.Name())
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", s.Status().Code)
	}
	if v, ok := attrValue(s.Attributes(), "memo.arity"); !ok || v.AsInt64() != 2 {
		t.Errorf("memo.arity = %v, want 2", v)
	}
	if v, ok := attrValue(s.Attributes(), "memo.error"); !ok || v.AsBool() {
		t.Errorf("memo.error = %v, want false", v)
	}
}

func TestTracer_ErrorSpan(t *testing.T) {
	tracer, recorder := newRecordingTracer()

	_, span := tracer.StartSpan(context.Background(), FuncMeta{Name: "fetch"})
	tracer.EndSpan(span, errors.New("connection refused"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", s.Status().Code)
	}
	if s.Status().Description != "connection refused" {
		t.Errorf("status description = %q", s.Status().Description)
	}
	if v, ok := attrValue(s.Attributes(), "memo.error"); !ok || !v.AsBool() {
		t.Errorf("memo.error = %v, want true", v)
	}
	if len(s.Events()) == 0 {
		t.Error("expected the error to be recorded as a span event")
	}
}

func TestNopTracer(t *testing.T) {
	tracer := NopTracer()
	ctx, span := tracer.StartSpan(context.Background(), FuncMeta{Name: "x"})
	if ctx == nil || span == nil {
		t.Fatal("NopTracer must return a usable context and span")
	}
	tracer.EndSpan(span, errors.New("ignored"))
}
