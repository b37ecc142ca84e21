package cmdgraph

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/cmdgraph/pkg/cmdgraph/executor"
	"github.com/randalmurphal/cmdgraph/pkg/cmdgraph/journal"
	"github.com/randalmurphal/cmdgraph/pkg/cmdgraph/observability"
)

// Execute submits the graph's nodes to exec in topological order and
// returns as soon as every node has been handed off. Completion is the
// executor's business: wait on individual node handles or call the
// executor's WaitAll (or use ExecuteAndWait).
//
// For each non-empty node, Execute resolves the set of completion handles
// the node must wait on (flattening through empty nodes), submits the
// node's body with that wait set, and stores the returned handle on the
// node. Empty nodes submit nothing; a configured journal still records
// them, marked empty.
//
// Execute never blocks on node bodies. A submission failure stops the run
// at the failing node and is returned as a *SubmitError wrapping the
// executor's error; already-submitted nodes keep running.
func (g *Graph) Execute(ctx context.Context, exec executor.Executor, opts ...ExecOption) error {
	if exec == nil {
		return ErrNilExecutor
	}

	cfg := defaultExecConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.runID == "" {
		cfg.runID = uuid.NewString()
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.computeSchedule(); err != nil {
		observability.LogRunError(cfg.logger, cfg.runID, err, 0, 0)
		return err
	}

	ctx, runSpan := cfg.spans.StartRunSpan(ctx, cfg.runID)
	elapsed := observability.TimedOperation()
	observability.LogRunStart(cfg.logger, cfg.runID, len(g.schedule))

	submitted := 0
	seq := 0
	record := func(n *Node, waits int, empty bool) error {
		if cfg.journal == nil {
			return nil
		}
		seq++
		entry := journal.Entry{
			RunID:       cfg.runID,
			NodeID:      n.id,
			Seq:         seq,
			Waits:       waits,
			Empty:       empty,
			SubmittedAt: time.Now().UTC(),
		}
		if jerr := cfg.journal.Append(entry); jerr != nil {
			if cfg.journalFailureFatal {
				return &JournalError{NodeID: n.id, Err: jerr}
			}
			observability.LogJournalError(cfg.logger, n.id, jerr)
		}
		return nil
	}

	for _, n := range g.schedule {
		if n.empty {
			if jerr := record(n, 0, true); jerr != nil {
				observability.LogRunError(cfg.logger, cfg.runID, jerr, elapsed(), n.id)
				cfg.spans.EndSpanWithError(runSpan, jerr)
				return jerr
			}
			continue
		}
		if n.body == nil {
			observability.LogRunError(cfg.logger, cfg.runID, ErrEmptyBodyInvariant, elapsed(), n.id)
			cfg.spans.EndSpanWithError(runSpan, ErrEmptyBodyInvariant)
			return ErrEmptyBodyInvariant
		}

		waits := n.resolveWaitSet()

		nodeCtx := executor.ContextWithRun(ctx, cfg.runID)
		nodeCtx = executor.ContextWithNode(nodeCtx, n.id)
		if cfg.logger != nil {
			// NewSubmissionContext enriches with run and node fields.
			nodeCtx = executor.ContextWithLogger(nodeCtx, cfg.logger)
		}
		nodeCtx, nodeSpan := cfg.spans.StartNodeSpan(nodeCtx, n.id)

		handle, err := exec.Submit(nodeCtx, n.body, waits)
		cfg.metrics.RecordSubmission(nodeCtx, n.id, len(waits), err)
		cfg.spans.EndSpanWithError(nodeSpan, err)
		if err != nil {
			submitErr := &SubmitError{NodeID: n.id, Err: err}
			observability.LogSubmitError(cfg.logger, n.id, err)
			observability.LogRunError(cfg.logger, cfg.runID, submitErr, elapsed(), n.id)
			cfg.spans.EndSpanWithError(runSpan, submitErr)
			return submitErr
		}
		n.handle = handle
		submitted++
		observability.LogNodeSubmitted(cfg.logger, n.id, len(waits))

		if jerr := record(n, len(waits), false); jerr != nil {
			observability.LogRunError(cfg.logger, cfg.runID, jerr, elapsed(), n.id)
			cfg.spans.EndSpanWithError(runSpan, jerr)
			return jerr
		}
	}

	observability.LogRunComplete(cfg.logger, cfg.runID, elapsed(), submitted)
	cfg.spans.EndSpanWithError(runSpan, nil)
	return nil
}

// ExecuteAndWait submits the graph like Execute, then blocks until the
// executor reports all outstanding work finished or ctx is cancelled.
// Run-level metrics (success and latency) are recorded when enabled.
func (g *Graph) ExecuteAndWait(ctx context.Context, exec executor.Executor, opts ...ExecOption) error {
	if exec == nil {
		return ErrNilExecutor
	}

	cfg := defaultExecConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.runID == "" {
		cfg.runID = uuid.NewString()
	}
	opts = append(opts, WithRunID(cfg.runID))

	start := time.Now()
	err := g.Execute(ctx, exec, opts...)
	if err == nil {
		err = exec.WaitAll(ctx)
		if err != nil {
			observability.LogRunError(cfg.logger, cfg.runID, err,
				float64(time.Since(start).Milliseconds()), 0)
		}
	}
	cfg.metrics.RecordRun(ctx, err == nil, time.Since(start))
	return err
}
