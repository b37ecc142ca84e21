/*
Package cmdgraph builds command-dependency graphs and schedules them
against an asynchronous executor.

# Overview

cmdgraph is a Go library for recording units of asynchronous work as
nodes of a directed acyclic graph, where edges express dependencies, and
then submitting the whole graph to an executor in a valid topological
order. Each submission passes the executor the completion handles of the
node's dependencies, so ordering is enforced by the executor rather than
by blocking at submission time.

The library provides:
  - A mutable graph with stable node ids, explicit dependencies, and a
    chained-recording capture mode
  - A deterministic, cached topological scheduler with cycle detection
  - Empty nodes as pure synchronization points, flattened out of wait
    sets at submission time
  - An executor boundary with a goroutine-backed local implementation
  - OpenTelemetry integration and a submission journal for auditing

# Basic Usage

Build a graph, then submit it against an executor:

	g := cmdgraph.New()

	src := make([]int, 1024)
	dst := make([]int, 1024)

	fill, _ := g.AddNode(ops.Fill(src, 7))
	_, _ = g.AddNode(ops.Copy(dst, src), fill)

	exec := executor.NewLocal()
	if err := g.ExecuteAndWait(ctx, exec, cmdgraph.WithLogger(logger)); err != nil {
	    log.Fatal(err)
	}

Dependencies can also be declared after the fact with AddEdge, and a
node's body and dependency set can be replaced with UpdateNode without
changing its id.

# Capture Mode

CaptureNode threads each new node after the previously captured one,
producing a linear chain without spelling out dependencies:

	g := cmdgraph.New()
	g.CaptureNode(stepOne)
	g.CaptureNode(stepTwo)   // depends on stepOne
	g.CaptureNode(stepThree) // depends on stepTwo

# Empty Nodes

AddEmptyNode creates a synchronization point carrying no work. An empty
node is never submitted; nodes depending on it wait on its predecessors'
handles instead, transitively through chains of empty nodes:

	join, _ := g.AddEmptyNode(a, b, c)
	after, _ := g.AddNode(work, join) // waits on a, b, and c

# Eager Instantiation

Instantiate fuses construction and submission: the returned Executable's
work is already in flight, and Wait blocks on completion:

	exe, err := g.Instantiate(ctx, exec)
	if err != nil {
	    log.Fatal(err)
	}
	if err := exe.Wait(ctx); err != nil {
	    log.Fatal(err)
	}

# Observability

Enable logging, metrics, tracing, and the submission journal:

	store, _ := journal.NewSQLiteStore("./runs.db")
	defer store.Close()

	err := g.ExecuteAndWait(ctx, exec,
	    cmdgraph.WithLogger(logger),
	    cmdgraph.WithMetrics(true),
	    cmdgraph.WithTracing(true),
	    cmdgraph.WithJournal(store),
	    cmdgraph.WithRunID("run-123"))

Logs carry structured fields: run_id, node_id, waits, duration_ms.
OpenTelemetry metrics: cmdgraph.node.submissions, cmdgraph.runs, etc.
OpenTelemetry tracing: cmdgraph.run > cmdgraph.node.{id} spans.

# Error Handling

Errors are matchable with errors.Is and errors.As:

	_, err := g.Schedule()
	var cycleErr *cmdgraph.CycleError
	if errors.As(err, &cycleErr) {
	    log.Printf("cycle through nodes %v", cycleErr.Path)
	}
	if errors.Is(err, cmdgraph.ErrCycle) {
	    // same condition, sentinel form
	}

Executor errors pass through Execute unmodified, wrapped in a
*SubmitError naming the failing node.

# Thread Safety

  - Graph construction is synchronous; build from one goroutine
  - Execute and Schedule are safe to call from one goroutine at a time
  - executor.Local and the journal stores are safe for concurrent use

# Subpackages

  - executor: the submission boundary and a local goroutine executor
  - ops: ready-made node bodies (fill, copy, memset, kernels)
  - journal: submission journal storage (memory, SQLite)
  - config: YAML graph manifests and the op registry
  - observability: logging, metrics, and tracing helpers
*/
package cmdgraph
