// Package observe provides OpenTelemetry metrics for the name resolution
// pipeline. Production wires a Prometheus exporter through InitProvider;
// tests build Metrics against their own MeterProvider.
package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// meterName is the instrumentation scope name used for all metrics
const meterName = "github.com/Kimen6931/BlockLocker"

// Submission outcomes
const (
	OutcomeQueued     = "queued"
	OutcomeDuplicate  = "duplicate"
	OutcomeDegenerate = "degenerate"
)

// Metrics holds the metric instruments. All fields are safe for concurrent use.
type Metrics struct {
	// Submissions counts resolver submissions by outcome
	Submissions metric.Int64Counter

	// Batches counts drained batches that issued a lookup, by status (ok, failed)
	Batches metric.Int64Counter

	// Names counts looked-up names by result (resolved, not_found)
	Names metric.Int64Counter

	// SignsSaved counts signs written back after resolution
	SignsSaved metric.Int64Counter

	// LookupDuration tracks batch lookup latency in seconds
	LookupDuration metric.Float64Histogram
}

var lookupBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// NewMetrics creates all instruments on the given MeterProvider
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Submissions, err = m.Int64Counter("blocklocker.resolver.submissions",
		metric.WithDescription("Protections submitted for name resolution."),
	); err != nil {
		return nil, err
	}
	if met.Batches, err = m.Int64Counter("blocklocker.resolver.batches",
		metric.WithDescription("Batches sent to the player directory."),
	); err != nil {
		return nil, err
	}
	if met.Names, err = m.Int64Counter("blocklocker.resolver.names",
		metric.WithDescription("Names looked up in the player directory."),
	); err != nil {
		return nil, err
	}
	if met.SignsSaved, err = m.Int64Counter("blocklocker.updater.signs_saved",
		metric.WithDescription("Signs rewritten with resolved identities."),
	); err != nil {
		return nil, err
	}
	if met.LookupDuration, err = m.Float64Histogram("blocklocker.resolver.lookup.duration",
		metric.WithDescription("Latency of batch name lookups."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(lookupBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// NopMetrics returns Metrics that record nothing
func NopMetrics() *Metrics {
	m, err := NewMetrics(noop.NewMeterProvider())
	if err != nil {
		// The noop provider never fails
		panic(err)
	}
	return m
}

// RecordSubmission counts one submission with the given outcome
func (m *Metrics) RecordSubmission(ctx context.Context, outcome string) {
	m.Submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordBatch counts one batch and its lookup latency
func (m *Metrics) RecordBatch(ctx context.Context, ok bool, seconds float64) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.Batches.Add(ctx, 1, attrs)
	m.LookupDuration.Record(ctx, seconds, attrs)
}

// RecordNames counts resolved and unresolved names of a batch
func (m *Metrics) RecordNames(ctx context.Context, resolved, notFound int) {
	if resolved > 0 {
		m.Names.Add(ctx, int64(resolved), metric.WithAttributes(attribute.String("result", "resolved")))
	}
	if notFound > 0 {
		m.Names.Add(ctx, int64(notFound), metric.WithAttributes(attribute.String("result", "not_found")))
	}
}
