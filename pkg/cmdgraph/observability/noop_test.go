package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics_RecordSubmission(t *testing.T) {
	m := NoopMetrics{}

	t.Run("does not panic with valid args", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordSubmission(context.Background(), 1, 2, nil)
		})
	})

	t.Run("does not panic with error", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordSubmission(context.Background(), 1, 0, errors.New("test"))
		})
	})

	t.Run("does not panic with nil context", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordSubmission(nil, 0, 0, nil)
		})
	})
}

func TestNoopMetrics_RecordRun(t *testing.T) {
	m := NoopMetrics{}

	t.Run("does not panic with success=true", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordRun(context.Background(), true, 500*time.Millisecond)
		})
	})

	t.Run("does not panic with success=false", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordRun(context.Background(), false, 100*time.Millisecond)
		})
	})

	t.Run("does not panic with nil context", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordRun(nil, true, 0)
		})
	})
}

func TestNoopSpanManager_StartRunSpan(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("returns same context", func(t *testing.T) {
		ctx := context.Background()
		newCtx, span := sm.StartRunSpan(ctx, "run-1")

		assert.Equal(t, ctx, newCtx, "Context should be unchanged")
		assert.NotNil(t, span, "Span should not be nil")
	})

	t.Run("span is valid noop span", func(t *testing.T) {
		_, span := sm.StartRunSpan(context.Background(), "run-1")
		assert.False(t, span.IsRecording())
	})

	t.Run("does not panic with empty run id", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.StartRunSpan(context.Background(), "")
		})
	})
}

func TestNoopSpanManager_StartNodeSpan(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("returns same context", func(t *testing.T) {
		ctx := context.Background()
		newCtx, span := sm.StartNodeSpan(ctx, 7)

		assert.Equal(t, ctx, newCtx, "Context should be unchanged")
		assert.NotNil(t, span, "Span should not be nil")
	})

	t.Run("span is valid noop span", func(t *testing.T) {
		_, span := sm.StartNodeSpan(context.Background(), 7)
		assert.False(t, span.IsRecording())
	})
}

func TestNoopSpanManager_EndSpanWithError(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("does not panic with nil span", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(nil, nil)
		})
	})

	t.Run("does not panic with nil error", func(t *testing.T) {
		_, span := sm.StartRunSpan(context.Background(), "r")
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(span, nil)
		})
	})

	t.Run("does not panic with error", func(t *testing.T) {
		_, span := sm.StartRunSpan(context.Background(), "r")
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(span, errors.New("test error"))
		})
	})
}

func TestNoopImplementations_NoSideEffects(t *testing.T) {
	// Verifies that noop implementations can stand in for the real ones
	// across a whole simulated run without side effects.

	metrics := NoopMetrics{}
	spans := NoopSpanManager{}

	ctx := context.Background()
	ctx, runSpan := spans.StartRunSpan(ctx, "run-123")

	for i, nodeID := range []uint64{1, 2, 3} {
		nodeCtx, nodeSpan := spans.StartNodeSpan(ctx, nodeID)

		var err error
		if i == 1 {
			err = errors.New("simulated error")
		}

		metrics.RecordSubmission(nodeCtx, nodeID, i, err)
		spans.EndSpanWithError(nodeSpan, err)
	}

	metrics.RecordRun(ctx, true, 100*time.Millisecond)
	spans.EndSpanWithError(runSpan, nil)
}
