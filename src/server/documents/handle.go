package documents

import (
	"context"
	"sync"

	"lsp-core/src/internal/errors"
)

// Handle is the asynchronous result of one pipeline operation. Done is
// closed when the result is ready; Await transfers it to the caller. The
// transfer happens exactly once, so two goroutines sharing a handle cannot
// both claim the same result.
type Handle[T any] struct {
	done chan struct{}

	mu       sync.Mutex
	value    T
	err      error
	resolved bool
	consumed bool
	op       string
}

func newHandle[T any](op string) *Handle[T] {
	return &Handle[T]{done: make(chan struct{}), op: op}
}

// resolve records the result and closes Done. The first resolve wins and
// later calls are ignored.
func (h *Handle[T]) resolve(value T, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.resolved {
		return
	}
	h.resolved = true
	h.value = value
	h.err = err
	close(h.done)
}

// Done returns a channel that is closed once the result is ready.
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}

// Await blocks until the result is ready or ctx ends. Cancelling ctx
// abandons the wait without consuming the handle, so a later Await can
// still retrieve the result. After one successful retrieval every further
// Await reports a consumed-handle error.
func (h *Handle[T]) Await(ctx context.Context) (T, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-h.done:
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.consumed {
		return zero, errors.NewConsumedError(h.op)
	}
	h.consumed = true
	return h.value, h.err
}
