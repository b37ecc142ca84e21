// Package observability provides production-grade observability features
// for cmdgraph: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds cmdgraph context to a logger.
// Returns a new logger with run_id and node_id fields.
func EnrichLogger(logger *slog.Logger, runID string, nodeID uint64) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.Uint64("node_id", nodeID),
	)
}

// LogRunStart logs the start of a graph submission run.
func LogRunStart(logger *slog.Logger, runID string, scheduled int) {
	if logger == nil {
		return
	}
	logger.Info("graph run starting",
		slog.String("run_id", runID),
		slog.Int("scheduled_nodes", scheduled),
	)
}

// LogRunComplete logs that every node in the schedule was submitted.
func LogRunComplete(logger *slog.Logger, runID string, durationMs float64, submitted int) {
	if logger == nil {
		return
	}
	logger.Info("graph run submitted",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("nodes_submitted", submitted),
	)
}

// LogRunError logs graph run failure.
func LogRunError(logger *slog.Logger, runID string, err error, durationMs float64, nodeID uint64) {
	if logger == nil {
		return
	}
	logger.Error("graph run failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.Uint64("node_id", nodeID),
	)
}

// LogNodeSubmitted logs one node submission.
func LogNodeSubmitted(logger *slog.Logger, nodeID uint64, waits int) {
	if logger == nil {
		return
	}
	logger.Debug("node submitted",
		slog.Uint64("node_id", nodeID),
		slog.Int("waits", waits),
	)
}

// LogSubmitError logs an executor submission failure.
func LogSubmitError(logger *slog.Logger, nodeID uint64, err error) {
	if logger == nil {
		return
	}
	logger.Error("node submission failed",
		slog.Uint64("node_id", nodeID),
		slog.String("error", err.Error()),
	)
}

// LogJournalError logs a journal failure (non-fatal by default).
func LogJournalError(logger *slog.Logger, nodeID uint64, err error) {
	if logger == nil {
		return
	}
	logger.Warn("journal append failed",
		slog.Uint64("node_id", nodeID),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
