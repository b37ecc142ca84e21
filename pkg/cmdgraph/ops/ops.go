package ops

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/randalmurphal/cmdgraph/pkg/cmdgraph/executor"
)

// ErrSizeMismatch indicates a two-buffer op received slices of different
// lengths.
var ErrSizeMismatch = errors.New("source and destination lengths differ")

// cancelCheckStride bounds how many iterations run between context
// cancellation checks inside loop kernels.
const cancelCheckStride = 4096

// Noop returns a body that does nothing and succeeds. Useful as a
// placeholder while sketching a graph's shape.
func Noop() executor.Body {
	return func(sc executor.SubmissionContext) error {
		return nil
	}
}

// Fill returns a body that sets every element of dst to value.
func Fill[T any](dst []T, value T) executor.Body {
	return func(sc executor.SubmissionContext) error {
		for i := range dst {
			if i%cancelCheckStride == 0 {
				if err := sc.Err(); err != nil {
					return err
				}
			}
			dst[i] = value
		}
		return nil
	}
}

// Memset returns a body that sets every byte of dst to value.
func Memset(dst []byte, value byte) executor.Body {
	return func(sc executor.SubmissionContext) error {
		if err := sc.Err(); err != nil {
			return err
		}
		for i := range dst {
			dst[i] = value
		}
		return nil
	}
}

// Copy returns a body that copies src into dst. The slices must have the
// same length; the body fails with ErrSizeMismatch otherwise.
func Copy[T any](dst, src []T) executor.Body {
	return func(sc executor.SubmissionContext) error {
		if len(dst) != len(src) {
			return fmt.Errorf("copy %d -> %d: %w", len(src), len(dst), ErrSizeMismatch)
		}
		if err := sc.Err(); err != nil {
			return err
		}
		copy(dst, src)
		return nil
	}
}

// Advice is a hint about how a buffer will be accessed.
type Advice int

const (
	// AdviceDefault clears any previously given hint.
	AdviceDefault Advice = iota
	// AdviceReadMostly marks the buffer as mostly read after this point.
	AdviceReadMostly
	// AdviceWillNeed marks the buffer as about to be accessed.
	AdviceWillNeed
	// AdviceDontNeed marks the buffer as not needed in the near term.
	AdviceDontNeed
)

// String returns the advice name.
func (a Advice) String() string {
	switch a {
	case AdviceDefault:
		return "default"
	case AdviceReadMostly:
		return "read_mostly"
	case AdviceWillNeed:
		return "will_need"
	case AdviceDontNeed:
		return "dont_need"
	default:
		return fmt.Sprintf("advice(%d)", int(a))
	}
}

// Advise returns a body that records an access-pattern hint for data.
// On a host-memory executor the hint has no operational effect beyond a
// debug log entry; it exists so graphs carry the same shape they would
// against an executor that can act on hints.
func Advise[T any](data []T, advice Advice) executor.Body {
	return func(sc executor.SubmissionContext) error {
		if logger := sc.Logger(); logger != nil {
			logger.Debug("memory advice recorded",
				slog.Int("elements", len(data)),
				slog.String("advice", advice.String()),
			)
		}
		return sc.Err()
	}
}

// Prefetch returns a body that touches every element of data, warming it
// ahead of downstream readers.
func Prefetch[T any](data []T) executor.Body {
	return func(sc executor.SubmissionContext) error {
		var sink T
		for i := range data {
			if i%cancelCheckStride == 0 {
				if err := sc.Err(); err != nil {
					return err
				}
			}
			sink = data[i]
		}
		_ = sink
		return nil
	}
}

// SingleTask returns a body that invokes fn once.
func SingleTask(fn func() error) executor.Body {
	return func(sc executor.SubmissionContext) error {
		if err := sc.Err(); err != nil {
			return err
		}
		return fn()
	}
}

// ParallelFor returns a body that invokes kernel for every index in
// [0, n). Iteration is sequential within the body; concurrency across
// bodies comes from the executor. The first kernel error stops the loop.
func ParallelFor(n int, kernel func(i int) error) executor.Body {
	return func(sc executor.SubmissionContext) error {
		for i := 0; i < n; i++ {
			if i%cancelCheckStride == 0 {
				if err := sc.Err(); err != nil {
					return err
				}
			}
			if err := kernel(i); err != nil {
				return fmt.Errorf("kernel at index %d: %w", i, err)
			}
		}
		return nil
	}
}

// ParallelFor2D returns a body that invokes kernel for every (x, y) in
// the [0, nx) x [0, ny) iteration space, x-major.
func ParallelFor2D(nx, ny int, kernel func(x, y int) error) executor.Body {
	return ParallelFor(nx*ny, func(i int) error {
		return kernel(i/ny, i%ny)
	})
}

// ParallelFor3D returns a body that invokes kernel for every (x, y, z)
// in the [0, nx) x [0, ny) x [0, nz) iteration space, x-major.
func ParallelFor3D(nx, ny, nz int, kernel func(x, y, z int) error) executor.Body {
	return ParallelFor(nx*ny*nz, func(i int) error {
		return kernel(i/(ny*nz), (i/nz)%ny, i%nz)
	})
}

// ParallelForND returns a body that invokes kernel for every point of the
// iteration space described by dims, last dimension fastest. The index
// slice passed to kernel is reused between calls; copy it to retain it.
func ParallelForND(dims []int, kernel func(idx []int) error) executor.Body {
	total := 1
	for _, d := range dims {
		total *= d
	}
	return func(sc executor.SubmissionContext) error {
		idx := make([]int, len(dims))
		for i := 0; i < total; i++ {
			if i%cancelCheckStride == 0 {
				if err := sc.Err(); err != nil {
					return err
				}
			}
			rem := i
			for d := len(dims) - 1; d >= 0; d-- {
				idx[d] = rem % dims[d]
				rem /= dims[d]
			}
			if err := kernel(idx); err != nil {
				return fmt.Errorf("kernel at linear index %d: %w", i, err)
			}
		}
		return nil
	}
}

// Reduce returns a body that folds src into *dst with combine, starting
// from dst's current value.
func Reduce[T any](dst *T, src []T, combine func(acc, v T) T) executor.Body {
	return func(sc executor.SubmissionContext) error {
		acc := *dst
		for i, v := range src {
			if i%cancelCheckStride == 0 {
				if err := sc.Err(); err != nil {
					return err
				}
			}
			acc = combine(acc, v)
		}
		*dst = acc
		return nil
	}
}
