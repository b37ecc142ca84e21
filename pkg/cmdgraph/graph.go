package cmdgraph

import (
	"sync"
)

// Graph is a mutable command-dependency graph.
// Use New to create a graph, then AddNode, AddEmptyNode, AddEdge, and
// UpdateNode to define the work and its ordering constraints.
//
// Graph construction and scheduling are synchronous; the internal lock
// only guards against accidental cross-goroutine mutation and does not
// make interleaved multi-step edits meaningful. Build from one goroutine.
//
// Example:
//
//	g := cmdgraph.New()
//	a, _ := g.AddNode(ops.Fill(buf, 0))
//	b, _ := g.AddNode(ops.Memset(out, 1), a)
//	err := g.ExecuteAndWait(ctx, executor.NewLocal())
type Graph struct {
	mu sync.Mutex

	// nodes is the arena of all nodes ever added, in creation order.
	nodes []*Node
	byID  map[uint64]*Node

	// roots holds the nodes with zero predecessors, insertion-ordered for
	// deterministic scheduling.
	roots []*Node

	// schedule is the cached topological order; nil means stale.
	schedule []*Node

	// lastCaptured is the chained-recording cursor; see CaptureNode.
	lastCaptured *Node

	parent *Graph
	nextID uint64
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{byID: make(map[uint64]*Node)}
}

// Subgraph creates an empty graph nested under g. Nodes of the subgraph
// may take dependencies on nodes of g (or of any enclosing graph) through
// AddNode deps or AddEdge. Each graph schedules only its own nodes: a
// subgraph node whose predecessors all live in enclosing graphs stays a
// root of the subgraph, and cross-graph edges order execution through
// wait sets rather than through either graph's schedule.
func (g *Graph) Subgraph() *Graph {
	child := New()
	child.parent = g
	return child
}

// IsSubgraph reports whether g is nested under another graph.
func (g *Graph) IsSubgraph() bool { return g.parent != nil }

// AddNode creates a node carrying body and wires the given dependencies.
// With no dependencies the node becomes a root. Returns the new node.
//
// Panics if body is nil: use AddEmptyNode for synchronization points.
// Returns an InvalidNodeError without mutating the graph if any dependency
// belongs to a different graph.
func (g *Graph) AddNode(body Body, deps ...*Node) (*Node, error) {
	if body == nil {
		panic("cmdgraph: node body cannot be nil (use AddEmptyNode)")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkDeps("AddNode", deps); err != nil {
		return nil, err
	}

	n := g.newNode()
	n.setBody(body)
	g.wireDeps(n, deps)
	return n, nil
}

// AddEmptyNode creates a node with no body: a pure synchronization point.
// Nodes depending on it wait on its predecessors' handles instead.
func (g *Graph) AddEmptyNode(deps ...*Node) (*Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkDeps("AddEmptyNode", deps); err != nil {
		return nil, err
	}

	n := g.newNode()
	g.wireDeps(n, deps)
	return n, nil
}

// CaptureNode adds a node in chained-recording mode: the first captured
// node becomes a root, every subsequent one is linked as sole successor of
// the previously captured node. Explicit dependencies are never consulted
// in capture mode; the result is a single linear chain.
//
// Panics if body is nil.
func (g *Graph) CaptureNode(body Body) *Node {
	if body == nil {
		panic("cmdgraph: node body cannot be nil (use AddEmptyNode)")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.newNode()
	n.setBody(body)

	if g.lastCaptured == nil {
		g.addRoot(n)
	} else {
		g.lastCaptured.linkSuccessor(n)
		g.invalidate()
	}
	g.lastCaptured = n
	return n
}

// BindNode binds body and dependencies onto an existing node object,
// keeping its identity stable across the redefinition.
//
// An unattached node (from NewNode) is adopted by g and assigned an id; a
// node already belonging to g is redefined in place, augmenting its
// dependency set (use UpdateNode for replace semantics). A node belonging
// to a different graph is rejected with an InvalidNodeError.
//
// A nil body makes the node empty.
func (g *Graph) BindNode(n *Node, body Body, deps ...*Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if n == nil {
		return &InvalidNodeError{Op: "BindNode"}
	}
	if n.graph != nil && n.graph != g {
		return &InvalidNodeError{Op: "BindNode", NodeID: n.id}
	}
	if err := g.checkDeps("BindNode", deps); err != nil {
		return err
	}

	if n.graph == nil {
		g.adopt(n)
	}
	n.setBody(body)
	g.wireDeps(n, deps)
	return nil
}

// UpdateNode replaces an existing node's body and dependency set.
//
// Replace semantics: all existing predecessor links are severed (the node
// is removed from each predecessor's successor list) before the new
// dependencies are applied, so repeated updates never accumulate stale
// edges. An empty dependency set re-roots the node. Successor links are
// untouched: downstream nodes keep their declared dependency on n.
//
// A nil body makes the node an empty synchronization point.
func (g *Graph) UpdateNode(n *Node, body Body, deps ...*Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if n == nil || n.graph != g {
		id := uint64(0)
		if n != nil {
			id = n.id
		}
		return &InvalidNodeError{Op: "UpdateNode", NodeID: id}
	}
	if err := g.checkDeps("UpdateNode", deps); err != nil {
		return err
	}

	g.severPredecessors(n)
	n.setBody(body)
	g.wireDeps(n, deps)
	return nil
}

// AddEdge declares that receiver depends on sender: sender is appended to
// receiver's predecessors, receiver to sender's successors. When sender
// belongs to g, receiver leaves the root set; an edge from an enclosing
// graph orders execution without changing root membership. The cached
// schedule is invalidated.
//
// sender may belong to g or to any enclosing graph; receiver must belong
// to g. Preconditions are validated before any mutation. Duplicate edges
// are allowed and preserved.
func (g *Graph) AddEdge(sender, receiver *Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.addEdge("AddEdge", sender, receiver)
}

// NumNodes returns the number of nodes in the graph.
func (g *Graph) NumNodes() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// NumEdges returns the number of edges in the graph, counted over every
// node's successor list.
func (g *Graph) NumEdges() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	count := 0
	for _, n := range g.nodes {
		count += len(n.successors)
	}
	return count
}

// FindNode looks a node up by id. The second result reports whether the
// id is known to this graph.
func (g *Graph) FindNode(id uint64) (*Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.byID[id]
	return n, ok
}

// Roots returns a copy of the current root set, in insertion order.
func (g *Graph) Roots() []*Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]*Node, len(g.roots))
	copy(out, g.roots)
	return out
}

// newNode allocates a node in the arena and indexes it. Caller holds g.mu.
func (g *Graph) newNode() *Node {
	n := &Node{empty: true}
	g.adopt(n)
	return n
}

// adopt assigns an id to n and records it in the arena. Caller holds g.mu.
func (g *Graph) adopt(n *Node) {
	g.nextID++
	n.id = g.nextID
	n.graph = g
	g.nodes = append(g.nodes, n)
	g.byID[n.id] = n
}

// checkDeps validates every dependency before any mutation happens.
// Caller holds g.mu.
func (g *Graph) checkDeps(op string, deps []*Node) error {
	for _, d := range deps {
		if d == nil || !g.owns(d) {
			id := uint64(0)
			if d != nil {
				id = d.id
			}
			return &InvalidNodeError{Op: op, NodeID: id}
		}
	}
	return nil
}

// owns reports whether n belongs to g or to any enclosing graph.
func (g *Graph) owns(n *Node) bool {
	for p := g; p != nil; p = p.parent {
		if n.graph == p {
			return true
		}
	}
	return false
}

// wireDeps links a node to its dependencies and fixes its root
// membership: a node is a root while it has no same-graph predecessors,
// so one depending only on enclosing-graph nodes stays rooted here.
// Deps were validated by the caller. Caller holds g.mu.
func (g *Graph) wireDeps(n *Node, deps []*Node) {
	for _, d := range deps {
		d.linkSuccessor(n)
	}
	if n.hasLocalPredecessor() {
		g.removeRoot(n)
	} else {
		g.addRoot(n)
	}
	g.invalidate()
}

// addEdge implements AddEdge with precondition checks. Caller holds g.mu.
func (g *Graph) addEdge(op string, sender, receiver *Node) error {
	if sender == nil || !g.owns(sender) {
		id := uint64(0)
		if sender != nil {
			id = sender.id
		}
		return &InvalidNodeError{Op: op, NodeID: id}
	}
	if receiver == nil || receiver.graph != g {
		id := uint64(0)
		if receiver != nil {
			id = receiver.id
		}
		return &InvalidNodeError{Op: op, NodeID: id}
	}

	sender.linkSuccessor(receiver)
	if sender.graph == g {
		g.removeRoot(receiver)
	}
	g.invalidate()
	return nil
}

// severPredecessors removes every predecessor link touching n.
// Caller holds g.mu.
func (g *Graph) severPredecessors(n *Node) {
	for _, p := range n.predecessors {
		kept := p.successors[:0]
		for _, s := range p.successors {
			if s != n {
				kept = append(kept, s)
			}
		}
		p.successors = kept
	}
	n.predecessors = nil
	g.invalidate()
}

// addRoot inserts n into the root set and invalidates the schedule.
// Caller holds g.mu.
func (g *Graph) addRoot(n *Node) {
	for _, r := range g.roots {
		if r == n {
			return
		}
	}
	g.roots = append(g.roots, n)
	g.invalidate()
}

// removeRoot removes n from the root set, preserving insertion order of
// the remaining roots, and invalidates the schedule. Caller holds g.mu.
func (g *Graph) removeRoot(n *Node) {
	for i, r := range g.roots {
		if r == n {
			g.roots = append(g.roots[:i], g.roots[i+1:]...)
			break
		}
	}
	g.invalidate()
}

// invalidate discards the cached schedule and resets every traversal mark
// so the next Schedule recomputes from a clean slate. Caller holds g.mu.
func (g *Graph) invalidate() {
	g.schedule = nil
	for _, n := range g.nodes {
		n.mark = markNone
	}
}
