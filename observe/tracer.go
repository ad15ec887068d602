package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// FuncMeta identifies a memoized computation for telemetry purposes.
type FuncMeta struct {
	ID      string   // Fully qualified identifier (package.name or just name)
	Package string   // Owning package or subsystem (may be empty)
	Name    string   // Computation name (required)
	Version string   // Version of the computation's owner (optional)
	Tags    []string // Invalidation tags the wrapper observes (optional)
}

// SpanName returns the deterministic span name for this computation.
// Format: memo.compute.<package>.<name> or memo.compute.<name>
func (m FuncMeta) SpanName() string {
	if m.Package != "" {
		return "memo.compute." + m.Package + "." + m.Name
	}
	return "memo.compute." + m.Name
}

// FuncID returns the fully qualified identifier. If the ID field is set it
// wins; otherwise the ID is built from package and name.
func (m FuncMeta) FuncID() string {
	if m.ID != "" {
		return m.ID
	}
	if m.Package != "" {
		return m.Package + "." + m.Name
	}
	return m.Name
}

// Tracer wraps OpenTelemetry tracing with computation-scoped span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a computation run.
	StartSpan(ctx context.Context, meta FuncMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with the computation's metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta FuncMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("memo.func.id", meta.FuncID()),
		attribute.String("memo.func.name", meta.Name),
		attribute.Bool("memo.error", false), // Updated in EndSpan on error
	}

	if meta.Package != "" {
		attrs = append(attrs, attribute.String("memo.func.package", meta.Package))
	}
	if meta.Version != "" {
		attrs = append(attrs, attribute.String("memo.func.version", meta.Version))
	}
	if len(meta.Tags) > 0 {
		attrs = append(attrs, attribute.StringSlice("memo.func.tags", meta.Tags))
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("memo.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta FuncMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
