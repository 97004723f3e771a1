package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kailas-cloud/talentmatch/internal/domain"
)

// Completer wraps a domain.Completer with one span per call.
type Completer struct {
	inner  domain.Completer
	tracer trace.Tracer
}

// NewCompleter creates a tracing decorator.
func NewCompleter(inner domain.Completer, tp trace.TracerProvider) *Completer {
	return &Completer{inner: inner, tracer: Tracer(tp)}
}

// Complete delegates to the inner completer inside an "llm.<name>" span.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	name := req.Name
	if name == "" {
		name = "completion"
	}

	ctx, span := c.tracer.Start(ctx, "llm."+name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.request", name),
			attribute.Bool("llm.json_mode", req.JSON),
			attribute.Float64("llm.temperature", float64(req.Temperature)),
			attribute.Int("llm.messages", len(req.Messages)),
		),
	)

	out, err := c.inner.Complete(ctx, req)
	if err == nil {
		span.SetAttributes(
			attribute.Int("llm.tokens.prompt", out.PromptTokens),
			attribute.Int("llm.tokens.completion", out.CompletionTokens),
		)
	}
	End(span, err)
	return out, err //nolint:wrapcheck // transparent decorator
}

// Embedder wraps a domain.Embedder with one span per call.
type Embedder struct {
	inner  domain.Embedder
	tracer trace.Tracer
	name   string
}

// NewEmbedder creates a tracing decorator; name distinguishes the document and query chains.
func NewEmbedder(inner domain.Embedder, tp trace.TracerProvider, name string) *Embedder {
	return &Embedder{inner: inner, tracer: Tracer(tp), name: name}
}

// Embed delegates to the inner embedder inside an "embedding.<name>" span.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	ctx, span := e.tracer.Start(ctx, "embedding."+e.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("embedding.text_len", len(text))),
	)

	out, err := e.inner.Embed(ctx, text)
	if err == nil {
		span.SetAttributes(
			attribute.Int("embedding.dimensions", len(out.Embedding)),
			attribute.Int("embedding.tokens", out.TotalTokens),
		)
	}
	End(span, err)
	return out, err //nolint:wrapcheck // transparent decorator
}
