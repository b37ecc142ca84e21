package cmdgraph

import (
	"context"
	"sync"

	"github.com/randalmurphal/cmdgraph/pkg/cmdgraph/executor"
)

// Helper bodies and executors used across tests.

// noopBody succeeds without doing anything.
func noopBody(sc executor.SubmissionContext) error {
	return nil
}

// tracker records body executions in order, safely across goroutines.
type tracker struct {
	mu    sync.Mutex
	names []string
}

func (t *tracker) record(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.names = append(t.names, name)
}

func (t *tracker) order() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// indexOf returns the position of name in the recorded order, or -1.
func (t *tracker) indexOf(name string) int {
	for i, n := range t.order() {
		if n == name {
			return i
		}
	}
	return -1
}

// makeTrackingBody creates a body that records its execution.
func makeTrackingBody(name string, tr *tracker) Body {
	return func(sc executor.SubmissionContext) error {
		tr.record(name)
		return nil
	}
}

// makeFailingBody creates a body that returns the given error.
func makeFailingBody(err error) Body {
	return func(sc executor.SubmissionContext) error {
		return err
	}
}

// submission is one recorded Submit call.
type submission struct {
	nodeID uint64
	waits  []executor.Handle
}

// fakeExecutor records submissions synchronously and hands back
// already-completed handles, so wait sets can be inspected by identity.
type fakeExecutor struct {
	subs    []submission
	handles map[uint64]executor.Handle

	// failOn makes Submit fail for the given node id.
	failOn  uint64
	failErr error
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{handles: make(map[uint64]executor.Handle)}
}

func (f *fakeExecutor) Submit(ctx context.Context, work executor.Body, waits []executor.Handle) (executor.Handle, error) {
	id := executor.NodeFromContext(ctx)
	if f.failOn != 0 && id == f.failOn {
		return nil, f.failErr
	}
	f.subs = append(f.subs, submission{nodeID: id, waits: waits})
	h := executor.Completed(nil)
	f.handles[id] = h
	return h, nil
}

func (f *fakeExecutor) WaitAll(ctx context.Context) error {
	return nil
}

// submittedIDs returns the node ids in submission order.
func (f *fakeExecutor) submittedIDs() []uint64 {
	ids := make([]uint64, len(f.subs))
	for i, s := range f.subs {
		ids[i] = s.nodeID
	}
	return ids
}

// waitsOf returns the wait set recorded for the given node id.
func (f *fakeExecutor) waitsOf(nodeID uint64) []executor.Handle {
	for _, s := range f.subs {
		if s.nodeID == nodeID {
			return s.waits
		}
	}
	return nil
}
