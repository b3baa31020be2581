package admission

import (
	"context"
	"time"
)

// Operation is a deferred call to the backend.
//
// It is opaque to the controller: it may block for as long as the backend
// takes and may fail with any error. Timeouts are the operation's own
// business; ctx is the context passed to Enqueue.
type Operation[T any] func(ctx context.Context) (T, error)

// job is a unit of deferred work sitting in a lane or running in a slot.
//
// run executes the operation through the retry loop and settles the
// job's future; fail settles it with err. Both are bound to the typed
// future at Enqueue time so lanes can stay non-generic.
type job struct {
	id         uint64
	prio       Priority
	enqueuedAt time.Time
	ctx        context.Context

	run  func(c *Controller, j *job)
	fail func(err error)
}
