package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome classifies a single cache lookup.
type Outcome string

// Lookup outcomes.
const (
	// OutcomeHit means the lookup was served from the store.
	OutcomeHit Outcome = "hit"
	// OutcomeMiss means the lookup fell through to the computation,
	// including lookups that found only an expired entry.
	OutcomeMiss Outcome = "miss"
	// OutcomeStale means a tag version change cleared the store before
	// the lookup.
	OutcomeStale Outcome = "stale"
)

// Metrics records cache and computation metrics for memoized functions.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records a single cache lookup and its outcome.
	RecordLookup(ctx context.Context, meta FuncMeta, outcome Outcome)

	// RecordCompute records one run of the wrapped computation with its
	// duration and error status.
	RecordCompute(ctx context.Context, meta FuncMeta, duration time.Duration, err error)

	// RecordInvalidation records a tag invalidation request.
	RecordInvalidation(ctx context.Context, tags []string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter           metric.Meter
	lookupCount     metric.Int64Counter
	computeCount    metric.Int64Counter
	computeErrors   metric.Int64Counter
	computeDuration metric.Float64Histogram
	invalidations   metric.Int64Counter
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	lookupCount, err := meter.Int64Counter(
		"memo.lookups.total",
		metric.WithDescription("Total number of cache lookups, by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	computeCount, err := meter.Int64Counter(
		"memo.computes.total",
		metric.WithDescription("Total number of computation runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	computeErrors, err := meter.Int64Counter(
		"memo.computes.errors",
		metric.WithDescription("Total number of failed computation runs"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	computeDuration, err := meter.Float64Histogram(
		"memo.compute.duration_ms",
		metric.WithDescription("Computation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	invalidations, err := meter.Int64Counter(
		"memo.invalidations.total",
		metric.WithDescription("Total number of tags named in invalidation requests"),
		metric.WithUnit("{tag}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:           meter,
		lookupCount:     lookupCount,
		computeCount:    computeCount,
		computeErrors:   computeErrors,
		computeDuration: computeDuration,
		invalidations:   invalidations,
	}, nil
}

// funcAttrs builds the common attribute set for a computation.
func funcAttrs(meta FuncMeta) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("memo.func.id", meta.FuncID()),
		attribute.String("memo.func.name", meta.Name),
	}
	if meta.Package != "" {
		attrs = append(attrs, attribute.String("memo.func.package", meta.Package))
	}
	return attrs
}

// RecordLookup records a lookup with its outcome attribute.
func (m *metricsImpl) RecordLookup(ctx context.Context, meta FuncMeta, outcome Outcome) {
	attrs := append(funcAttrs(meta), attribute.String("memo.outcome", string(outcome)))
	m.lookupCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCompute records one computation run.
func (m *metricsImpl) RecordCompute(ctx context.Context, meta FuncMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(funcAttrs(meta)...)

	m.computeCount.Add(ctx, 1, opt)
	if err != nil {
		m.computeErrors.Add(ctx, 1, opt)
	}
	m.computeDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordInvalidation records the tags named in one invalidation request.
func (m *metricsImpl) RecordInvalidation(ctx context.Context, tags []string) {
	for _, tag := range tags {
		m.invalidations.Add(ctx, 1, metric.WithAttributes(attribute.String("memo.tag", tag)))
	}
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordLookup(ctx context.Context, meta FuncMeta, outcome Outcome) {}
func (m *noopMetrics) RecordCompute(ctx context.Context, meta FuncMeta, duration time.Duration, err error) {
}
func (m *noopMetrics) RecordInvalidation(ctx context.Context, tags []string) {}
