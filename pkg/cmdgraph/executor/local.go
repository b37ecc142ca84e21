package executor

import (
	"errors"
	"fmt"
	"sync"

	"context"
)

// Sentinel errors for submission.
var (
	// ErrNilWork indicates Submit was called with a nil Body.
	ErrNilWork = errors.New("work cannot be nil")

	// ErrExecutorClosed indicates Submit was called after Close.
	ErrExecutorClosed = errors.New("executor closed")
)

// DependencyError indicates a submission was abandoned because one of the
// handles in its wait set completed with an error.
type DependencyError struct {
	// Err is the upstream failure.
	Err error
}

// Error implements the error interface.
func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency failed: %v", e.Err)
}

// Unwrap returns the upstream error for errors.Is/As support.
func (e *DependencyError) Unwrap() error { return e.Err }

// Local is an in-process asynchronous executor.
// Each submission runs on its own goroutine after its wait set resolves;
// WaitAll drains all outstanding submissions.
//
// Local is safe for concurrent use. An optional concurrency cap bounds the
// number of bodies running simultaneously (waiting on dependencies does not
// count against the cap).
type Local struct {
	sem chan struct{}

	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

// Compile-time interface check.
var _ Executor = (*Local)(nil)

// LocalOption configures a Local executor.
type LocalOption func(*Local)

// WithConcurrency caps the number of bodies running at once.
// Zero or negative means unlimited (the default).
func WithConcurrency(n int) LocalOption {
	return func(l *Local) {
		if n > 0 {
			l.sem = make(chan struct{}, n)
		}
	}
}

// NewLocal creates a Local executor.
func NewLocal(opts ...LocalOption) *Local {
	l := &Local{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Submit implements Executor. It returns immediately; the returned handle
// completes once every wait in the set has resolved and the work has run.
//
// If any wait completes with an error, the work does not run and the
// handle completes with a DependencyError wrapping the upstream failure.
// Context cancellation while waiting completes the handle with the context
// error.
func (l *Local) Submit(ctx context.Context, work Body, waits []Handle) (Handle, error) {
	if work == nil {
		return nil, ErrNilWork
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil, ErrExecutorClosed
	}
	l.wg.Add(1)
	l.mu.Unlock()

	h := newCompletion()
	sc := NewSubmissionContext(ctx)

	go func() {
		defer l.wg.Done()

		for _, w := range waits {
			if w == nil {
				continue
			}
			if err := w.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					h.complete(ctx.Err())
				} else {
					h.complete(&DependencyError{Err: err})
				}
				return
			}
		}

		if l.sem != nil {
			select {
			case l.sem <- struct{}{}:
				defer func() { <-l.sem }()
			case <-ctx.Done():
				h.complete(ctx.Err())
				return
			}
		}

		h.complete(work(sc))
	}()

	return h, nil
}

// WaitAll implements Executor. It blocks until every submission made so
// far has completed, or ctx is cancelled.
//
// Individual submission failures do not fail WaitAll; inspect each
// handle's Err for per-submission outcomes.
func (l *Local) WaitAll(ctx context.Context) error {
	drained := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(drained)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-drained:
		return nil
	}
}

// Close rejects further submissions. Outstanding work keeps running;
// use WaitAll to drain it.
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	return nil
}
