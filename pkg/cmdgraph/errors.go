package cmdgraph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for graph building and scheduling.
var (
	// ErrCycle indicates the graph contains a dependency cycle.
	ErrCycle = errors.New("dependency cycle detected")

	// ErrInvalidNode indicates an operation received a node that does not
	// belong to the graph (or any of its ancestors).
	ErrInvalidNode = errors.New("node does not belong to graph")

	// ErrNodeNotFound indicates a lookup by id missed.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEmptyBodyInvariant indicates a node marked non-empty carried no
	// body at submission time.
	ErrEmptyBodyInvariant = errors.New("non-empty node has no body")

	// ErrNilExecutor indicates Execute was called with a nil executor.
	ErrNilExecutor = errors.New("executor cannot be nil")
)

// CycleError reports a dependency cycle found while computing a schedule.
// Path holds the node ids along the cycle, in traversal order, ending at
// the node that closed it.
type CycleError struct {
	// Path is the sequence of node ids forming the cycle.
	Path []uint64
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return ErrCycle.Error()
	}
	ids := make([]string, len(e.Path))
	for i, id := range e.Path {
		ids[i] = strconv.FormatUint(id, 10)
	}
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(ids, " -> "))
}

// Unwrap returns ErrCycle for errors.Is support.
func (e *CycleError) Unwrap() error { return ErrCycle }

// InvalidNodeError reports an operation applied to a node from a different
// graph, or to an unattached node where a member was required.
type InvalidNodeError struct {
	// Op is the operation that rejected the node.
	Op string
	// NodeID is the offending node's id (0 for unattached nodes).
	NodeID uint64
}

// Error implements the error interface.
func (e *InvalidNodeError) Error() string {
	if e.NodeID == 0 {
		return fmt.Sprintf("%s: node is not attached to a graph", e.Op)
	}
	return fmt.Sprintf("%s: node %d does not belong to graph", e.Op, e.NodeID)
}

// Unwrap returns ErrInvalidNode for errors.Is support.
func (e *InvalidNodeError) Unwrap() error { return ErrInvalidNode }

// SubmitError wraps an executor submission failure with node context.
// The underlying executor error is passed through unmodified.
type SubmitError struct {
	// NodeID is the node whose submission failed.
	NodeID uint64
	// Err is the executor's error.
	Err error
}

// Error implements the error interface.
func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit node %d: %v", e.NodeID, e.Err)
}

// Unwrap returns the executor error for errors.Is/As support.
func (e *SubmitError) Unwrap() error { return e.Err }

// JournalError wraps a submission journal failure.
// Journal failures are non-fatal by default; see WithJournalFailureFatal.
type JournalError struct {
	// NodeID is the node whose journal entry failed.
	NodeID uint64
	// Err is the underlying store error.
	Err error
}

// Error implements the error interface.
func (e *JournalError) Error() string {
	return fmt.Sprintf("journal node %d: %v", e.NodeID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *JournalError) Unwrap() error { return e.Err }
