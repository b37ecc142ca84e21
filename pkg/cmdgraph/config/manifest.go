package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validation errors returned by Manifest.Validate and Build.
var (
	// ErrDuplicateNode indicates two manifest nodes share an id.
	ErrDuplicateNode = errors.New("duplicate node id")

	// ErrUnknownDep indicates a node depends on an id that is not defined
	// earlier in the manifest.
	ErrUnknownDep = errors.New("unknown dependency")

	// ErrUnknownOp indicates a node names an op the registry does not have.
	ErrUnknownOp = errors.New("unknown op")

	// ErrUnknownBuffer indicates an op parameter names a buffer the
	// manifest does not declare.
	ErrUnknownBuffer = errors.New("unknown buffer")
)

// BufferSpec declares one named byte buffer allocated by Build.
type BufferSpec struct {
	// Size is the buffer length in bytes. Must be non-negative.
	Size int `yaml:"size"`
}

// NodeSpec declares one graph node: the op to run, its parameters, and
// the ids of the nodes it depends on.
type NodeSpec struct {
	ID     string         `yaml:"id"`
	Op     string         `yaml:"op"`
	Params map[string]any `yaml:"params"`
	Deps   []string       `yaml:"deps"`
}

// Manifest is a declarative graph description loaded from YAML.
//
// Nodes are listed in definition order; dependencies may only reference
// nodes defined earlier, which rules out cycles by construction. With
// Capture set, nodes form a single chain in listed order and any Deps
// entries are ignored.
type Manifest struct {
	Buffers map[string]BufferSpec `yaml:"buffers"`
	Capture bool                  `yaml:"capture"`
	Nodes   []NodeSpec            `yaml:"nodes"`
}

// LoadManifest reads and parses a YAML manifest from path.
// The manifest is validated before being returned.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest parses and validates a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks structural consistency: buffer sizes, required fields,
// id uniqueness, and dependency references.
func (m *Manifest) Validate() error {
	for name, spec := range m.Buffers {
		if name == "" {
			return fmt.Errorf("buffer with empty name")
		}
		if spec.Size < 0 {
			return fmt.Errorf("buffer %q: negative size %d", name, spec.Size)
		}
	}

	seen := make(map[string]bool, len(m.Nodes))
	for i, n := range m.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: missing id", i)
		}
		if n.Op == "" {
			return fmt.Errorf("node %q: missing op", n.ID)
		}
		if seen[n.ID] {
			return fmt.Errorf("node %q: %w", n.ID, ErrDuplicateNode)
		}
		if !m.Capture {
			for _, dep := range n.Deps {
				if !seen[dep] {
					return fmt.Errorf("node %q: %w: %q", n.ID, ErrUnknownDep, dep)
				}
			}
		}
		seen[n.ID] = true
	}
	return nil
}
