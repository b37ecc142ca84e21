package cmdgraph

// frame is one level of the scheduler's explicit DFS stack: a node being
// visited and the index of its next unexplored successor.
type frame struct {
	node *Node
	next int
}

// Schedule returns one valid topological order of the graph's nodes,
// computing and caching it if no valid cached order exists.
//
// The order is deterministic: roots are traversed in insertion order and
// successor lists in declaration order, with each node placed before all
// of its successors (reverse postorder of an iterative depth-first walk).
// Only this graph's nodes appear: edges crossing into or out of a nested
// graph are ordered at execution time through wait sets, not here.
//
// Precondition: the graph must be acyclic. A cycle is detected explicitly
// via three-state traversal marks and reported as a *CycleError (matching
// errors.Is(err, ErrCycle)); the graph structure is left unmodified and
// the cache stays cleared. Nodes that a cycle makes unreachable from every
// root are detected as well.
func (g *Graph) Schedule() ([]*Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.computeSchedule(); err != nil {
		return nil, err
	}

	out := make([]*Node, len(g.schedule))
	copy(out, g.schedule)
	return out, nil
}

// computeSchedule fills g.schedule if stale. Caller holds g.mu.
func (g *Graph) computeSchedule() error {
	if g.schedule != nil {
		return nil
	}

	postorder := make([]*Node, 0, len(g.nodes))

	for _, root := range g.roots {
		if root.mark == markDone {
			continue
		}

		stack := []frame{{node: root}}
		root.mark = markVisiting

		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			if top.next < len(top.node.successors) {
				succ := top.node.successors[top.next]
				top.next++

				// Successors in a nested graph are scheduled by that
				// graph; only same-graph edges shape this order.
				if succ.graph != g {
					continue
				}

				switch succ.mark {
				case markVisiting:
					err := cycleError(stack, succ)
					g.resetMarks()
					return err
				case markDone:
					continue
				}
				succ.mark = markVisiting
				stack = append(stack, frame{node: succ})
				continue
			}

			top.node.mark = markDone
			postorder = append(postorder, top.node)
			stack = stack[:len(stack)-1]
		}
	}

	// A node never reached from any root has every path to it blocked by
	// a cycle: over same-graph edges an acyclic graph always exposes its
	// sources as roots (cross-graph predecessors never unroot a node).
	if len(postorder) != len(g.nodes) {
		var path []uint64
		for _, n := range g.nodes {
			if n.mark != markDone {
				path = append(path, n.id)
			}
		}
		g.resetMarks()
		return &CycleError{Path: path}
	}

	// Reverse postorder: every node precedes its successors.
	schedule := make([]*Node, len(postorder))
	for i, n := range postorder {
		schedule[len(postorder)-1-i] = n
	}
	g.schedule = schedule
	return nil
}

// cycleError builds a CycleError from the DFS stack. The path runs from
// the first stacked occurrence of the closing node down to the node whose
// back edge closed the cycle.
func cycleError(stack []frame, closing *Node) error {
	start := 0
	for i := range stack {
		if stack[i].node == closing {
			start = i
			break
		}
	}
	path := make([]uint64, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.node.id)
	}
	path = append(path, closing.id)
	return &CycleError{Path: path}
}

// resetMarks clears traversal marks after a failed schedule so a later
// attempt starts clean. Caller holds g.mu.
func (g *Graph) resetMarks() {
	for _, n := range g.nodes {
		n.mark = markNone
	}
}
