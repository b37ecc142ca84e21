package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompletion_CompleteOnce tests that only the first completion wins.
func TestCompletion_CompleteOnce(t *testing.T) {
	c := newCompletion()
	first := errors.New("first")

	c.complete(first)
	c.complete(errors.New("second"))

	assert.ErrorIs(t, c.Err(), first)
	select {
	case <-c.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

// TestCompletion_ErrBeforeDone tests Err on a pending handle.
func TestCompletion_ErrBeforeDone(t *testing.T) {
	c := newCompletion()
	assert.NoError(t, c.Err())

	select {
	case <-c.Done():
		t.Fatal("done channel closed prematurely")
	default:
	}
}

// TestCompletion_Wait tests blocking until completion.
func TestCompletion_Wait(t *testing.T) {
	c := newCompletion()
	boom := errors.New("kaput")

	go func() {
		time.Sleep(10 * time.Millisecond)
		c.complete(boom)
	}()

	assert.ErrorIs(t, c.Wait(context.Background()), boom)
}

// TestCompletion_Wait_ContextCancelled tests that Wait honors ctx.
func TestCompletion_Wait_ContextCancelled(t *testing.T) {
	c := newCompletion()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, c.Wait(ctx), context.DeadlineExceeded)
}

// TestCompleted tests the pre-completed handle helper.
func TestCompleted(t *testing.T) {
	ok := Completed(nil)
	require.NoError(t, ok.Wait(context.Background()))
	assert.NoError(t, ok.Err())

	boom := errors.New("kaput")
	bad := Completed(boom)
	assert.ErrorIs(t, bad.Err(), boom)
	assert.ErrorIs(t, bad.Wait(context.Background()), boom)
}
