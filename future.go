package admission

import (
	"context"
	"sync"
)

// Result holds the value and the error of a finished job.
type Result[T any] struct {
	Value T
	Error error
}

// Future is the outcome handle returned by Enqueue.
//
// It is settled exactly once, either with a value or with an error.
// Waiting on it never affects the job: an abandoned future does not stop
// the underlying operation.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	res  Result[T]
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// rejectedFuture returns a future already settled with err.
func rejectedFuture[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.settle(zero, err)
	return f
}

// settle stores the outcome. Only the first call has an effect;
// it reports whether this call was the one that settled the future.
func (f *Future[T]) settle(v T, err error) bool {
	settled := false
	f.once.Do(func() {
		f.res = Result[T]{Value: v, Error: err}
		close(f.done)
		settled = true
	})
	return settled
}

// Done is closed once the future is settled.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until the job terminates or ctx is done.
// A ctx expiry returns ctx.Err() and leaves the job running.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.res.Value, f.res.Error
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Get is a blocking Wait without a deadline.
func (f *Future[T]) Get() (T, error) {
	return f.Wait(context.Background())
}

// Result returns the outcome without blocking.
// The boolean is false while the job is still pending or running.
func (f *Future[T]) Result() (Result[T], bool) {
	select {
	case <-f.done:
		return f.res, true
	default:
		return Result[T]{}, false
	}
}
