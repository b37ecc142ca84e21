package cmdgraph

import (
	"log/slog"

	"github.com/randalmurphal/cmdgraph/pkg/cmdgraph/journal"
	"github.com/randalmurphal/cmdgraph/pkg/cmdgraph/observability"
)

// execConfig holds configuration for one Execute call.
type execConfig struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager

	tracingEnabled bool
	runID          string

	journal             journal.Store
	journalFailureFatal bool
}

// defaultExecConfig returns the default execution configuration:
// no logging, no-op metrics and tracing, no journal.
func defaultExecConfig() execConfig {
	return execConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// ExecOption configures Execute, ExecuteAndWait, and Instantiate.
type ExecOption func(*execConfig)

// WithLogger enables structured logging of run and submission events.
func WithLogger(logger *slog.Logger) ExecOption {
	return func(c *execConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics recording.
// The global OTel meter provider must be configured by the caller.
func WithMetrics(enabled bool) ExecOption {
	return func(c *execConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry span creation: one run span with a
// child span per node submission.
// The global OTel tracer provider must be configured by the caller.
func WithTracing(enabled bool) ExecOption {
	return func(c *execConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithRunID sets the run identifier used in logs, metrics, spans, and
// journal entries. A UUID is generated when not set.
func WithRunID(id string) ExecOption {
	return func(c *execConfig) {
		c.runID = id
	}
}

// WithJournal records every submission of the run to the given store.
func WithJournal(store journal.Store) ExecOption {
	return func(c *execConfig) {
		c.journal = store
	}
}

// WithJournalFailureFatal makes journal append failures abort the run.
// By default they are logged as warnings and the run continues.
func WithJournalFailureFatal(fatal bool) ExecOption {
	return func(c *execConfig) {
		c.journalFailureFatal = fatal
	}
}
