package cmdgraph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/cmdgraph/pkg/cmdgraph/executor"
)

// TestInstantiate_SubmitsEagerly tests that work is in flight before
// Instantiate returns.
func TestInstantiate_SubmitsEagerly(t *testing.T) {
	g := New()
	a, _ := g.AddNode(noopBody)
	b, _ := g.AddNode(noopBody, a)

	fake := newFakeExecutor()
	exe, err := g.Instantiate(context.Background(), fake)
	require.NoError(t, err)
	require.NotNil(t, exe)

	assert.Equal(t, []uint64{a.ID(), b.ID()}, fake.submittedIDs())
	assert.NotEmpty(t, exe.RunID())
	assert.Same(t, g, exe.Graph())
}

// TestInstantiate_NilExecutor tests the nil executor guard.
func TestInstantiate_NilExecutor(t *testing.T) {
	g := New()
	exe, err := g.Instantiate(context.Background(), nil)
	assert.Nil(t, exe)
	assert.ErrorIs(t, err, ErrNilExecutor)
}

// TestInstantiate_CycleFails tests that instantiation refuses a cyclic
// graph.
func TestInstantiate_CycleFails(t *testing.T) {
	g := New()
	a, _ := g.AddNode(noopBody)
	b, _ := g.AddNode(noopBody, a)

	g.mu.Lock()
	b.linkSuccessor(a)
	g.invalidate()
	g.mu.Unlock()

	exe, err := g.Instantiate(context.Background(), newFakeExecutor())
	assert.Nil(t, exe)
	assert.ErrorIs(t, err, ErrCycle)
}

// TestInstantiate_SubmitErrorAborts tests that a submission failure
// surfaces instead of a half-built executable.
func TestInstantiate_SubmitErrorAborts(t *testing.T) {
	g := New()
	a, _ := g.AddNode(noopBody)
	b, _ := g.AddNode(noopBody, a)

	boom := errors.New("queue full")
	fake := newFakeExecutor()
	fake.failOn = b.ID()
	fake.failErr = boom

	exe, err := g.Instantiate(context.Background(), fake)
	assert.Nil(t, exe)
	assert.ErrorIs(t, err, boom)
}

// TestExecutable_Wait tests waiting on eagerly submitted work.
func TestExecutable_Wait(t *testing.T) {
	g := New()
	tr := &tracker{}
	a, _ := g.AddNode(makeTrackingBody("a", tr))
	_, err := g.AddNode(makeTrackingBody("b", tr), a)
	require.NoError(t, err)

	local := executor.NewLocal()
	exe, err := g.Instantiate(context.Background(), local)
	require.NoError(t, err)

	require.NoError(t, exe.Wait(context.Background()))
	assert.Equal(t, []string{"a", "b"}, tr.order())
}

// TestExecutable_Resubmit tests running the same graph again on the same
// executor.
func TestExecutable_Resubmit(t *testing.T) {
	g := New()
	tr := &tracker{}
	_, err := g.AddNode(makeTrackingBody("a", tr))
	require.NoError(t, err)

	local := executor.NewLocal()
	exe, err := g.Instantiate(context.Background(), local)
	require.NoError(t, err)
	require.NoError(t, exe.Wait(context.Background()))

	require.NoError(t, exe.Resubmit(context.Background()))
	require.NoError(t, exe.Wait(context.Background()))

	assert.Equal(t, []string{"a", "a"}, tr.order())
}

// TestInstantiate_RunIDOption tests that a caller-provided run id wins.
func TestInstantiate_RunIDOption(t *testing.T) {
	g := New()
	_, err := g.AddNode(noopBody)
	require.NoError(t, err)

	exe, err := g.Instantiate(context.Background(), newFakeExecutor(), WithRunID("run-42"))
	require.NoError(t, err)
	assert.Equal(t, "run-42", exe.RunID())
}
