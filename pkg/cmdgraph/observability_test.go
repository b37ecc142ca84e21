package cmdgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/cmdgraph/pkg/cmdgraph/executor"
)

// lockedBuffer serializes writes from concurrent log calls.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Split(strings.TrimSpace(b.buf.String()), "\n")
}

// TestExecute_Logging tests that run lifecycle events are logged with
// structured fields.
func TestExecute_Logging(t *testing.T) {
	buf := &lockedBuffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	g := New()
	a, _ := g.AddNode(noopBody)
	_, err := g.AddNode(noopBody, a)
	require.NoError(t, err)

	fake := newFakeExecutor()
	require.NoError(t, g.Execute(context.Background(), fake,
		WithLogger(logger),
		WithRunID("run-log")))

	var messages []string
	sawRunID := false
	for _, line := range buf.lines() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		messages = append(messages, rec["msg"].(string))
		if rec["run_id"] == "run-log" {
			sawRunID = true
		}
	}

	assert.Contains(t, messages, "graph run starting")
	assert.Contains(t, messages, "node submitted")
	assert.Contains(t, messages, "graph run submitted")
	assert.True(t, sawRunID)
}

// TestExecute_BodyLoggerEnriched tests that bodies receive a logger
// carrying run and node context.
func TestExecute_BodyLoggerEnriched(t *testing.T) {
	buf := &lockedBuffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))

	g := New()
	n, err := g.AddNode(func(sc executor.SubmissionContext) error {
		sc.Logger().Info("from body")
		return nil
	})
	require.NoError(t, err)

	local := executor.NewLocal()
	require.NoError(t, g.ExecuteAndWait(context.Background(), local,
		WithLogger(logger),
		WithRunID("run-body")))

	found := false
	for _, line := range buf.lines() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		if rec["msg"] == "from body" {
			found = true
			assert.Equal(t, "run-body", rec["run_id"])
			assert.Equal(t, float64(n.ID()), rec["node_id"])
		}
	}
	assert.True(t, found, "expected body log record")
}

// TestExecute_SubmitError_Logged tests error-path logging.
func TestExecute_SubmitError_Logged(t *testing.T) {
	buf := &lockedBuffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))

	g := New()
	a, _ := g.AddNode(noopBody)

	fake := newFakeExecutor()
	fake.failOn = a.ID()
	fake.failErr = assert.AnError

	err := g.Execute(context.Background(), fake, WithLogger(logger))
	require.Error(t, err)

	joined := strings.Join(buf.lines(), "\n")
	assert.Contains(t, joined, "node submission failed")
	assert.Contains(t, joined, "graph run failed")
}
