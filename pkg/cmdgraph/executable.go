package cmdgraph

import (
	"context"

	"github.com/google/uuid"

	"github.com/randalmurphal/cmdgraph/pkg/cmdgraph/executor"
)

// Executable is a graph bound to an executor whose work is already in
// flight: Instantiate submits every node before returning. It exists for
// callers that want construction and submission fused, with waiting as a
// separate, repeatable step.
type Executable struct {
	graph *Graph
	exec  executor.Executor
	runID string
}

// Instantiate binds g to exec and eagerly submits the whole graph. The
// returned Executable's work is already running when Instantiate returns;
// call Wait to block on completion.
//
// The graph must be acyclic and the submission must succeed; any Execute
// error aborts instantiation and is returned in its place.
func (g *Graph) Instantiate(ctx context.Context, exec executor.Executor, opts ...ExecOption) (*Executable, error) {
	if exec == nil {
		return nil, ErrNilExecutor
	}

	cfg := defaultExecConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.runID == "" {
		cfg.runID = uuid.NewString()
	}
	opts = append(opts, WithRunID(cfg.runID))

	if err := g.Execute(ctx, exec, opts...); err != nil {
		return nil, err
	}
	return &Executable{graph: g, exec: exec, runID: cfg.runID}, nil
}

// RunID returns the identifier assigned to the eager submission.
func (e *Executable) RunID() string { return e.runID }

// Graph returns the underlying graph. Mutating it does not affect work
// already submitted.
func (e *Executable) Graph() *Graph { return e.graph }

// Wait blocks until the executor reports all outstanding work finished or
// ctx is cancelled.
func (e *Executable) Wait(ctx context.Context) error {
	return e.exec.WaitAll(ctx)
}

// Resubmit runs the graph again on the same executor under a fresh run id
// and returns once every node is handed off.
func (e *Executable) Resubmit(ctx context.Context, opts ...ExecOption) error {
	return e.graph.Execute(ctx, e.exec, opts...)
}
