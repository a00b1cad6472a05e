package correlation

import (
	"context"
	"sync"
)

// Future is a single-resolution completion handle. It is resolved exactly
// once; duplicate resolutions are ignored. Callers wait with Wait or select
// on Done.
type Future[T any] struct {
	done chan struct{}
	once sync.Once

	mu     sync.Mutex
	result T
}

// NewFuture allocates an unresolved handle.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolve completes the future. It reports whether this call performed the
// resolution; later calls return false and leave the first result in place.
func (f *Future[T]) Resolve(result T) bool {
	resolved := false

	f.once.Do(func() {
		f.mu.Lock()
		f.result = result
		f.mu.Unlock()

		close(f.done)
		resolved = true
	})

	return resolved
}

// Done returns a channel closed when the future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future resolves or the context is cancelled.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.result, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TryResult returns the result if the future already resolved.
func (f *Future[T]) TryResult() (T, bool) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.result, true
	default:
		var zero T
		return zero, false
	}
}
