// Package executor defines the boundary between a command graph and the
// asynchronous runtime that performs its work.
//
// The core graph only requires the minimum contract in this package:
// Submit enqueues one unit of work behind a wait set and returns a
// completion Handle immediately; WaitAll drains everything previously
// submitted. A production deployment can bind a graph to any runtime that
// satisfies Executor; the Local executor in this package is an in-process
// implementation suitable for host-side work and tests.
package executor

import (
	"context"
	"log/slog"
)

// Body is one conceptual unit of work. It carries no dependency semantics
// of its own: ordering is injected by the graph through the wait set that
// accompanies the submission.
type Body func(sc SubmissionContext) error

// SubmissionContext is the context a Body runs under.
// It extends context.Context with submission metadata and a logger.
//
// Implementations are created by the executor at run time; the graph
// attaches metadata to the submission's context.Context via ContextWithRun,
// ContextWithNode, and ContextWithLogger.
type SubmissionContext interface {
	context.Context

	// Logger returns the configured logger, enriched with run and node
	// context. Never returns nil - defaults to slog.Default().
	Logger() *slog.Logger

	// RunID identifies the execution session this submission belongs to.
	// Empty if the graph was executed without run metadata.
	RunID() string

	// NodeID is the graph node that produced this submission.
	// Zero if the work was submitted outside a graph.
	NodeID() uint64
}

// Handle represents the completion state of one submission.
// Implementations must be safe for concurrent use.
type Handle interface {
	// Done returns a channel closed when the work has finished,
	// successfully or not.
	Done() <-chan struct{}

	// Err returns the work's error, or nil. Only meaningful after Done
	// is closed; before that it reports nil.
	Err() error

	// Wait blocks until the work finishes or ctx is cancelled.
	// Returns the work's error, or the context error on cancellation.
	Wait(ctx context.Context) error
}

// Executor is the asynchronous runtime the graph submits to.
//
// Submit must return immediately: the returned Handle completes
// out-of-band once the wait set has been honored and the work has run.
// Submission order does not constrain completion order.
type Executor interface {
	// Submit enqueues work behind the given wait set.
	// The wait set may contain duplicate or overlapping handles;
	// implementations must tolerate both, and nil entries are ignored.
	Submit(ctx context.Context, work Body, waits []Handle) (Handle, error)

	// WaitAll blocks until all previously submitted work has completed,
	// or ctx is cancelled.
	WaitAll(ctx context.Context) error
}

// Context keys for submission metadata.
type (
	runIDKey  struct{}
	nodeIDKey struct{}
	loggerKey struct{}
)

// ContextWithRun attaches a run identifier to ctx.
func ContextWithRun(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// ContextWithNode attaches a node identifier to ctx.
func ContextWithNode(ctx context.Context, nodeID uint64) context.Context {
	return context.WithValue(ctx, nodeIDKey{}, nodeID)
}

// ContextWithLogger attaches a logger to ctx.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// RunFromContext returns the run identifier attached to ctx, or "".
func RunFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}
	return ""
}

// NodeFromContext returns the node identifier attached to ctx, or 0.
func NodeFromContext(ctx context.Context) uint64 {
	if id, ok := ctx.Value(nodeIDKey{}).(uint64); ok {
		return id
	}
	return 0
}

// LoggerFromContext returns the logger attached to ctx, or nil.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return nil
}

// submissionContext is the internal implementation of SubmissionContext.
type submissionContext struct {
	context.Context

	logger *slog.Logger
	runID  string
	nodeID uint64
}

// NewSubmissionContext builds a SubmissionContext from a submission's
// context, reading run, node, and logger metadata attached by the graph.
// Executor implementations call this before invoking a Body; tests can use
// it to run a Body directly.
func NewSubmissionContext(ctx context.Context) SubmissionContext {
	sc := &submissionContext{
		Context: ctx,
		logger:  LoggerFromContext(ctx),
		runID:   RunFromContext(ctx),
		nodeID:  NodeFromContext(ctx),
	}
	if sc.logger == nil {
		sc.logger = slog.Default()
	}
	if sc.runID != "" || sc.nodeID != 0 {
		sc.logger = sc.logger.With(
			slog.String("run_id", sc.runID),
			slog.Uint64("node_id", sc.nodeID),
		)
	}
	return sc
}

// Logger returns the submission logger.
func (c *submissionContext) Logger() *slog.Logger { return c.logger }

// RunID returns the execution session identifier.
func (c *submissionContext) RunID() string { return c.runID }

// NodeID returns the submitting node identifier.
func (c *submissionContext) NodeID() uint64 { return c.nodeID }
