// Package journal provides persistent records of graph submission
// sequences, for post-mortem inspection of what was handed to an executor
// and in what order.
package journal

import (
	"errors"
	"time"
)

// Entry records one node submission within a run.
type Entry struct {
	// RunID identifies the execution session.
	RunID string `json:"run_id"`
	// NodeID is the graph node that was submitted.
	NodeID uint64 `json:"node_id"`
	// Seq is the 1-based position in the run's submission order.
	Seq int `json:"seq"`
	// Waits is the size of the resolved wait set.
	Waits int `json:"waits"`
	// Empty marks synchronization nodes, which are recorded but never
	// handed to the executor.
	Empty bool `json:"empty,omitempty"`
	// SubmittedAt is when the submission was made.
	SubmittedAt time.Time `json:"submitted_at"`
}

// Store persists submission entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append records one entry.
	Append(e Entry) error

	// List returns all entries for a run, ordered by Seq.
	// Returns an empty slice (not an error) for unknown runs.
	List(runID string) ([]Entry, error)

	// DeleteRun removes all entries for a run.
	// Returns nil if the run has no entries.
	DeleteRun(runID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for journal operations.
var (
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")
)
