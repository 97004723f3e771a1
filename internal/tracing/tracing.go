// Package tracing sets up OpenTelemetry and wraps collaborators with spans.
// Spans are observational only: a tracing failure never changes a result.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName is the tracer name used by every span in the service.
const InstrumentationName = "github.com/kailas-cloud/talentmatch"

// Common span attribute keys.
const (
	AttrThreadKey = attribute.Key("talentmatch.thread_key")
	AttrUserID    = attribute.Key("talentmatch.user_id")
	AttrRole      = attribute.Key("talentmatch.role")
	AttrIntent    = attribute.Key("talentmatch.intent")
	AttrNode      = attribute.Key("talentmatch.node")
)

// Config controls the tracer provider.
type Config struct {
	Enabled     bool
	Exporter    string // stdout, none
	ServiceName string
	Writer      io.Writer // stdout exporter destination; os.Stdout when nil
}

// Shutdown flushes and stops the provider.
type Shutdown func(ctx context.Context) error

// Setup builds a tracer provider and registers it globally.
// A disabled config yields a no-op provider.
func Setup(cfg Config) (trace.TracerProvider, Shutdown, error) {
	if !cfg.Enabled || cfg.Exporter == "none" {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return tp, func(context.Context) error { return nil }, nil
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}

	var exp sdktrace.SpanExporter
	switch cfg.Exporter {
	case "", "stdout":
		e, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, nil, fmt.Errorf("stdout exporter: %w", err)
		}
		exp = e
	default:
		return nil, nil, fmt.Errorf("unknown trace exporter %q", cfg.Exporter)
	}

	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp, tp.Shutdown, nil
}

// Tracer returns the service tracer from tp, or a no-op tracer when tp is nil.
func Tracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return tp.Tracer(InstrumentationName)
}

// End records err on the span (if any) and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
