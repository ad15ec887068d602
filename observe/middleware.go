package observe

import (
	"context"
	"time"
)

// ComputeFunc is the signature for an instrumented computation run. It is
// the shape Middleware wraps; adapting a typed memoized computation to it is
// a one-line closure.
type ComputeFunc func(ctx context.Context, meta FuncMeta, args []any) (any, error)

// Middleware instruments memoized computations with tracing, metrics, and
// logging.
//
// Contract:
//   - Concurrency: WrapCompute() returns a thread-safe ComputeFunc.
//   - Context: propagates context through tracing spans.
//   - Errors: errors from the wrapped function are recorded and propagated unchanged.
//   - Ownership: arguments and results are passed through without modification.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability
// components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// WrapCompute wraps a ComputeFunc with tracing, metrics, and logging. Use it
// around the compute function before memoizing so that only real misses are
// traced; hits never reach the wrapped function.
func (m *Middleware) WrapCompute(fn ComputeFunc) ComputeFunc {
	return func(ctx context.Context, meta FuncMeta, args []any) (any, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)

		start := time.Now()
		result, err := fn(ctx, meta, args)
		duration := time.Since(start)

		m.tracer.EndSpan(span, err)
		m.metrics.RecordCompute(ctx, meta, duration, err)

		funcLogger := m.logger.WithFunc(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			funcLogger.Error(ctx, "computation failed", fields...)
		} else {
			funcLogger.Debug(ctx, "computation completed", fields...)
		}

		return result, err
	}
}

// LookupHooks returns hit, miss, and stale callbacks that record lookup
// outcomes for meta. Their signatures match the fields of memo.Hooks, so
// they can be assigned directly:
//
//	onHit, onMiss, onStale := mw.LookupHooks(meta)
//	f, err := memo.Wrap(fn, memo.WithHooks(memo.Hooks{
//		OnHit:   onHit,
//		OnMiss:  onMiss,
//		OnStale: onStale,
//	}))
func (m *Middleware) LookupHooks(meta FuncMeta) (onHit, onMiss func(ctx context.Context, key string), onStale func(ctx context.Context)) {
	onHit = func(ctx context.Context, key string) {
		m.metrics.RecordLookup(ctx, meta, OutcomeHit)
	}
	onMiss = func(ctx context.Context, key string) {
		m.metrics.RecordLookup(ctx, meta, OutcomeMiss)
	}
	onStale = func(ctx context.Context) {
		m.metrics.RecordLookup(ctx, meta, OutcomeStale)
		m.logger.WithFunc(meta).Info(ctx, "store cleared by tag invalidation")
	}
	return onHit, onMiss, onStale
}

// RecordInvalidation records the tags named in one invalidation request.
// Call it alongside memo.Invalidate; the engine does not report
// invalidations itself.
func (m *Middleware) RecordInvalidation(ctx context.Context, tags ...string) {
	m.metrics.RecordInvalidation(ctx, tags)
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	tracer := newTracer(obs.Tracer())

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}
