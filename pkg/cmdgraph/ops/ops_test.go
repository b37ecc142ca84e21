package ops

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/cmdgraph/pkg/cmdgraph/executor"
)

// run invokes a body with a plain submission context.
func run(t *testing.T, body executor.Body) error {
	t.Helper()
	return body(executor.NewSubmissionContext(context.Background()))
}

// TestFill tests element filling.
func TestFill(t *testing.T) {
	buf := make([]int, 16)
	require.NoError(t, run(t, Fill(buf, 7)))
	for _, v := range buf {
		assert.Equal(t, 7, v)
	}
}

// TestFill_Struct tests filling with a non-scalar element type.
func TestFill_Struct(t *testing.T) {
	type point struct{ X, Y int }
	buf := make([]point, 4)
	require.NoError(t, run(t, Fill(buf, point{X: 1, Y: 2})))
	for _, p := range buf {
		assert.Equal(t, point{X: 1, Y: 2}, p)
	}
}

// TestMemset tests byte filling.
func TestMemset(t *testing.T) {
	buf := make([]byte, 32)
	require.NoError(t, run(t, Memset(buf, 0xAB)))
	for _, b := range buf {
		assert.Equal(t, byte(0xAB), b)
	}
}

// TestCopy tests element copying.
func TestCopy(t *testing.T) {
	src := []int{1, 2, 3, 4}
	dst := make([]int, 4)
	require.NoError(t, run(t, Copy(dst, src)))
	assert.Equal(t, src, dst)
}

// TestCopy_SizeMismatch tests the length guard.
func TestCopy_SizeMismatch(t *testing.T) {
	src := []int{1, 2, 3}
	dst := make([]int, 2)
	err := run(t, Copy(dst, src))
	assert.ErrorIs(t, err, ErrSizeMismatch)
	assert.Equal(t, []int{0, 0}, dst)
}

// TestAdvise tests that hints succeed and leave data untouched.
func TestAdvise(t *testing.T) {
	buf := []byte{1, 2, 3}
	require.NoError(t, run(t, Advise(buf, AdviceReadMostly)))
	assert.Equal(t, []byte{1, 2, 3}, buf)
}

// TestAdvice_String tests hint names.
func TestAdvice_String(t *testing.T) {
	assert.Equal(t, "default", AdviceDefault.String())
	assert.Equal(t, "read_mostly", AdviceReadMostly.String())
	assert.Equal(t, "will_need", AdviceWillNeed.String())
	assert.Equal(t, "dont_need", AdviceDontNeed.String())
	assert.Equal(t, "advice(99)", Advice(99).String())
}

// TestPrefetch tests that prefetch succeeds and leaves data untouched.
func TestPrefetch(t *testing.T) {
	buf := []int{5, 6, 7}
	require.NoError(t, run(t, Prefetch(buf)))
	assert.Equal(t, []int{5, 6, 7}, buf)
}

// TestSingleTask tests single invocation and error passthrough.
func TestSingleTask(t *testing.T) {
	calls := 0
	require.NoError(t, run(t, SingleTask(func() error {
		calls++
		return nil
	})))
	assert.Equal(t, 1, calls)

	boom := errors.New("kaput")
	assert.ErrorIs(t, run(t, SingleTask(func() error { return boom })), boom)
}

// TestParallelFor tests full index coverage.
func TestParallelFor(t *testing.T) {
	out := make([]int, 100)
	require.NoError(t, run(t, ParallelFor(100, func(i int) error {
		out[i] = i * i
		return nil
	})))
	assert.Equal(t, 49, out[7])
	assert.Equal(t, 9801, out[99])
}

// TestParallelFor_KernelError tests that the first kernel error stops the
// loop with index context.
func TestParallelFor_KernelError(t *testing.T) {
	boom := errors.New("kaput")
	visited := 0
	err := run(t, ParallelFor(10, func(i int) error {
		visited++
		if i == 3 {
			return boom
		}
		return nil
	}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 4, visited)
}

// TestParallelFor2D tests x-major 2D iteration.
func TestParallelFor2D(t *testing.T) {
	var points [][2]int
	require.NoError(t, run(t, ParallelFor2D(2, 3, func(x, y int) error {
		points = append(points, [2]int{x, y})
		return nil
	})))
	assert.Equal(t, [][2]int{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 1}, {1, 2},
	}, points)
}

// TestParallelFor3D tests 3D iteration coverage and order.
func TestParallelFor3D(t *testing.T) {
	var first, last [3]int
	count := 0
	require.NoError(t, run(t, ParallelFor3D(2, 3, 4, func(x, y, z int) error {
		if count == 0 {
			first = [3]int{x, y, z}
		}
		last = [3]int{x, y, z}
		count++
		return nil
	})))
	assert.Equal(t, 24, count)
	assert.Equal(t, [3]int{0, 0, 0}, first)
	assert.Equal(t, [3]int{1, 2, 3}, last)
}

// TestParallelForND tests N-dimensional iteration, last dimension fastest.
func TestParallelForND(t *testing.T) {
	var points [][]int
	require.NoError(t, run(t, ParallelForND([]int{2, 2, 2}, func(idx []int) error {
		cp := make([]int, len(idx))
		copy(cp, idx)
		points = append(points, cp)
		return nil
	})))
	require.Len(t, points, 8)
	assert.Equal(t, []int{0, 0, 0}, points[0])
	assert.Equal(t, []int{0, 0, 1}, points[1])
	assert.Equal(t, []int{1, 1, 1}, points[7])
}

// TestReduce tests folding with an initial accumulator value.
func TestReduce(t *testing.T) {
	sum := 100
	src := []int{1, 2, 3, 4}
	require.NoError(t, run(t, Reduce(&sum, src, func(acc, v int) int {
		return acc + v
	})))
	assert.Equal(t, 110, sum)
}

// TestBody_CancelledContext tests that loop bodies observe cancellation
// before doing work.
func TestBody_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sc := executor.NewSubmissionContext(ctx)

	buf := make([]int, 8)
	assert.ErrorIs(t, Fill(buf, 1)(sc), context.Canceled)
	assert.Equal(t, 0, buf[0])

	ran := false
	assert.ErrorIs(t, SingleTask(func() error { ran = true; return nil })(sc), context.Canceled)
	assert.False(t, ran)

	assert.ErrorIs(t, ParallelFor(8, func(int) error { return nil })(sc), context.Canceled)
}
