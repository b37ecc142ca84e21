package executor

import (
	"context"
	"sync"
)

// completion is the Handle implementation used by Local.
// It completes exactly once; the error is fixed at completion time.
type completion struct {
	done chan struct{}

	mu  sync.Mutex
	err error
	set bool
}

// Compile-time interface check.
var _ Handle = (*completion)(nil)

func newCompletion() *completion {
	return &completion{done: make(chan struct{})}
}

// complete records the outcome and closes the done channel.
// Further calls are ignored.
func (c *completion) complete(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.set {
		return
	}
	c.set = true
	c.err = err
	close(c.done)
}

// Done implements Handle.
func (c *completion) Done() <-chan struct{} { return c.done }

// Err implements Handle.
func (c *completion) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.set {
		return nil
	}
	return c.err
}

// Wait implements Handle.
func (c *completion) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return c.Err()
	}
}

// Completed returns a Handle that is already done with the given error.
// Useful for tests and for executors that complete work synchronously.
func Completed(err error) Handle {
	c := newCompletion()
	c.complete(err)
	return c
}
