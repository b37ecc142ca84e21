package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records cmdgraph metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordSubmission records one node submission with its wait-set size
	// and error status.
	RecordSubmission(ctx context.Context, nodeID uint64, waits int, err error)

	// RecordRun records completion of a whole graph run.
	RecordRun(ctx context.Context, success bool, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	submissions  metric.Int64Counter
	waitSetSize  metric.Int64Histogram
	submitErrors metric.Int64Counter
	runs         metric.Int64Counter
	runLatency   metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("cmdgraph")

	submissions, err := meter.Int64Counter("cmdgraph.node.submissions",
		metric.WithDescription("Number of node submissions"),
	)
	if err != nil {
		return nil, err
	}

	waitSetSize, err := meter.Int64Histogram("cmdgraph.node.wait_set",
		metric.WithDescription("Resolved wait-set size per submission"),
	)
	if err != nil {
		return nil, err
	}

	submitErrors, err := meter.Int64Counter("cmdgraph.submit.errors",
		metric.WithDescription("Number of failed submissions"),
	)
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter("cmdgraph.runs",
		metric.WithDescription("Number of graph runs"),
	)
	if err != nil {
		return nil, err
	}

	runLatency, err := meter.Float64Histogram("cmdgraph.run.latency_ms",
		metric.WithDescription("Graph run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		submissions:  submissions,
		waitSetSize:  waitSetSize,
		submitErrors: submitErrors,
		runs:         runs,
		runLatency:   runLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordSubmission records one node submission.
func (m *otelMetrics) RecordSubmission(ctx context.Context, nodeID uint64, waits int, err error) {
	attrs := []attribute.KeyValue{
		attribute.Int64("node_id", int64(nodeID)),
	}

	m.submissions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.waitSetSize.Record(ctx, int64(waits), metric.WithAttributes(attrs...))

	if err != nil {
		m.submitErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordRun records a graph run.
func (m *otelMetrics) RecordRun(ctx context.Context, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.runLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}
