package cmdgraph

import (
	"github.com/randalmurphal/cmdgraph/pkg/cmdgraph/executor"
)

// Body is one schedulable unit of work. It is an alias for the executor
// boundary type so callers building graphs rarely need to import the
// executor package directly.
type Body = executor.Body

// traversal marks used by the scheduler. Three states so that a cycle is
// detected (a back edge reaches a node still being visited) rather than
// looping forever.
type mark uint8

const (
	markNone mark = iota
	markVisiting
	markDone
)

// Node is one unit of work plus its dependency links.
//
// Nodes are created by Graph operations (AddNode, AddEmptyNode,
// CaptureNode, BindNode) or by NewNode for later in-place binding.
// A node's id is assigned when it joins a graph and is stable across
// UpdateNode/BindNode calls.
//
// An empty node carries no body and is a pure synchronization point: it is
// never submitted, and nodes depending on it transparently inherit its
// predecessors' completion handles.
type Node struct {
	id    uint64
	graph *Graph

	empty bool
	body  Body
	mark  mark

	// Insertion-ordered; duplicates are allowed and preserved, since
	// submission-time traversal order must be deterministic.
	successors   []*Node
	predecessors []*Node

	// Last completion handle produced by submitting this node.
	// Nil until the first execution.
	handle executor.Handle
}

// NewNode creates an unattached node for later in-place binding with
// Graph.BindNode. The node has no id and no body until it joins a graph.
func NewNode() *Node {
	return &Node{empty: true}
}

// ID returns the node's graph-assigned identifier, or 0 if unattached.
func (n *Node) ID() uint64 { return n.id }

// IsEmpty reports whether the node carries no executable body.
func (n *Node) IsEmpty() bool { return n.empty }

// Handle returns the completion handle from the node's most recent
// submission, or nil if the node has not been submitted.
func (n *Node) Handle() executor.Handle { return n.handle }

// Successors returns a copy of the node's successor list.
func (n *Node) Successors() []*Node {
	out := make([]*Node, len(n.successors))
	copy(out, n.successors)
	return out
}

// Predecessors returns a copy of the node's predecessor list.
func (n *Node) Predecessors() []*Node {
	out := make([]*Node, len(n.predecessors))
	copy(out, n.predecessors)
	return out
}

// hasLocalPredecessor reports whether any predecessor belongs to the same
// graph as n. Predecessors in an enclosing graph order execution through
// wait sets but do not affect root membership.
func (n *Node) hasLocalPredecessor() bool {
	for _, p := range n.predecessors {
		if p.graph == n.graph {
			return true
		}
	}
	return false
}

// linkSuccessor appends the bidirectional link n -> other.
// Pure link mutation: root-set consistency is the caller's job.
func (n *Node) linkSuccessor(other *Node) {
	n.successors = append(n.successors, other)
	other.predecessors = append(other.predecessors, n)
}

// setBody replaces the node's body and clears its traversal mark so a
// future schedule revisits it.
func (n *Node) setBody(body Body) {
	n.body = body
	n.empty = body == nil
	n.mark = markNone
}

// resolveWaitSet collects the completion handles this node must wait on.
//
// Empty predecessors are flattened transitively: instead of waiting on an
// empty node (which produces no handle), the walk pushes that node's own
// predecessors onto the worklist, visiting every non-empty ancestor along
// every empty chain. Redundant handles are harmless and preserved; nil
// handles (nodes never submitted) are skipped.
func (n *Node) resolveWaitSet() []executor.Handle {
	var waits []executor.Handle
	worklist := make([]*Node, len(n.predecessors))
	copy(worklist, n.predecessors)

	for len(worklist) > 0 {
		curr := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if curr.empty {
			worklist = append(worklist, curr.predecessors...)
			continue
		}
		if curr.handle != nil {
			waits = append(waits, curr.handle)
		}
	}
	return waits
}
