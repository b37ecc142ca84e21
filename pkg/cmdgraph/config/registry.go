package config

import (
	"fmt"

	"github.com/randalmurphal/cmdgraph/pkg/cmdgraph"
	"github.com/randalmurphal/cmdgraph/pkg/cmdgraph/ops"
)

// Buffers holds the named byte buffers a manifest run operates on.
type Buffers map[string][]byte

// Get returns the named buffer or an ErrUnknownBuffer error.
func (b Buffers) Get(name string) ([]byte, error) {
	buf, ok := b[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuffer, name)
	}
	return buf, nil
}

// Factory builds a node body from a manifest parameter block and the
// run's buffers. Returning a nil body with a nil error requests a pure
// synchronization node (Build adds it with AddEmptyNode).
type Factory func(p Params, bufs Buffers) (cmdgraph.Body, error)

// Registry maps op names to body factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry preloaded with the built-in ops:
// noop, empty, fill, memset, copy, prefetch, and advise. The empty op
// produces a body-less synchronization node; noop produces a body that
// does nothing but still yields a completion handle.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("noop", func(Params, Buffers) (cmdgraph.Body, error) {
		return ops.Noop(), nil
	})
	r.Register("empty", func(Params, Buffers) (cmdgraph.Body, error) {
		return nil, nil
	})
	r.Register("fill", buildFill)
	r.Register("memset", buildMemset)
	r.Register("copy", buildCopy)
	r.Register("prefetch", buildPrefetch)
	r.Register("advise", buildAdvise)
	return r
}

// Register adds or replaces a factory for the given op name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Lookup returns the factory for name, or an ErrUnknownOp error.
func (r *Registry) Lookup(name string) (Factory, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, name)
	}
	return f, nil
}

func buildFill(p Params, bufs Buffers) (cmdgraph.Body, error) {
	buf, err := bufs.Get(p.String("buffer", ""))
	if err != nil {
		return nil, err
	}
	return ops.Fill(buf, byte(p.Int("value", 0))), nil
}

func buildMemset(p Params, bufs Buffers) (cmdgraph.Body, error) {
	buf, err := bufs.Get(p.String("buffer", ""))
	if err != nil {
		return nil, err
	}
	return ops.Memset(buf, byte(p.Int("value", 0))), nil
}

func buildCopy(p Params, bufs Buffers) (cmdgraph.Body, error) {
	dst, err := bufs.Get(p.String("dst", ""))
	if err != nil {
		return nil, err
	}
	src, err := bufs.Get(p.String("src", ""))
	if err != nil {
		return nil, err
	}
	return ops.Copy(dst, src), nil
}

func buildPrefetch(p Params, bufs Buffers) (cmdgraph.Body, error) {
	buf, err := bufs.Get(p.String("buffer", ""))
	if err != nil {
		return nil, err
	}
	return ops.Prefetch(buf), nil
}

func buildAdvise(p Params, bufs Buffers) (cmdgraph.Body, error) {
	buf, err := bufs.Get(p.String("buffer", ""))
	if err != nil {
		return nil, err
	}
	var advice ops.Advice
	switch s := p.String("advice", "default"); s {
	case "default":
		advice = ops.AdviceDefault
	case "read_mostly":
		advice = ops.AdviceReadMostly
	case "will_need":
		advice = ops.AdviceWillNeed
	case "dont_need":
		advice = ops.AdviceDontNeed
	default:
		return nil, fmt.Errorf("advise: unknown advice %q", s)
	}
	return ops.Advise(buf, advice), nil
}

// Result is the output of Build: the constructed graph, its nodes keyed
// by manifest id, and the allocated buffers keyed by name.
type Result struct {
	Graph   *cmdgraph.Graph
	Nodes   map[string]*cmdgraph.Node
	Buffers Buffers
}

// Node returns the built node for a manifest id, or an error wrapping
// cmdgraph.ErrNodeNotFound for ids the manifest never declared.
func (r *Result) Node(id string) (*cmdgraph.Node, error) {
	n, ok := r.Nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %q: %w", id, cmdgraph.ErrNodeNotFound)
	}
	return n, nil
}

// Build allocates the manifest's buffers and constructs its graph using
// the registry's factories. The manifest is validated first.
//
// A factory returning a nil body yields an empty synchronization node.
// In capture mode every node is added with CaptureNode, chaining it after
// the previous one; Deps entries are ignored and body-less nodes are
// rejected, since a capture chain records only submittable work.
func Build(m *Manifest, reg *Registry) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	bufs := make(Buffers, len(m.Buffers))
	for name, spec := range m.Buffers {
		bufs[name] = make([]byte, spec.Size)
	}

	g := cmdgraph.New()
	nodes := make(map[string]*cmdgraph.Node, len(m.Nodes))

	for _, spec := range m.Nodes {
		factory, err := reg.Lookup(spec.Op)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", spec.ID, err)
		}
		body, err := factory(NewParams(spec.Params), bufs)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", spec.ID, err)
		}

		var node *cmdgraph.Node
		switch {
		case m.Capture && body == nil:
			return nil, fmt.Errorf("node %q: op %q yields no body and cannot be captured", spec.ID, spec.Op)
		case m.Capture:
			node = g.CaptureNode(body)
		default:
			deps := make([]*cmdgraph.Node, len(spec.Deps))
			for i, dep := range spec.Deps {
				d, ok := nodes[dep]
				if !ok {
					return nil, fmt.Errorf("node %q: dep %q: %w", spec.ID, dep, cmdgraph.ErrNodeNotFound)
				}
				deps[i] = d
			}
			if body == nil {
				node, err = g.AddEmptyNode(deps...)
			} else {
				node, err = g.AddNode(body, deps...)
			}
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", spec.ID, err)
			}
		}
		nodes[spec.ID] = node
	}

	return &Result{Graph: g, Nodes: nodes, Buffers: bufs}, nil
}
