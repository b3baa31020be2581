// Package admission provides priority admission control for a
// concurrency-limited, rate-limited backend such as a hosted inference API.
//
// # Design goals
//
// The package is designed around the following principles:
//
//   - Never exceed the backend's concurrency ceiling
//   - Start interactive (foreground) work promptly, even under bulk load
//   - Recover transient backend failures without losing track of a request
//   - Settle every request exactly once, with a value or an error
//
// # Architecture overview
//
// The controller is composed of three loosely coupled layers:
//
//   1. Admission (Controller, lanes)
//      Two FIFO lanes hold pending jobs, one per priority class.
//      dispatch moves jobs from the lanes into slots while the ceiling
//      allows it. It is re-entered from Enqueue and from every job
//      completion, so one freed slot can cascade through the queue.
//
//   2. Execution (executor)
//      Every admitted job runs on its own goroutine. The executor calls
//      the operation, classifies failures and retries retryable ones.
//      The job keeps its slot during backoff sleeps.
//
//   3. Job lifecycle (Future)
//      Enqueue returns a Future that resolves when the job terminates.
//      Abandoning a Future does not cancel the operation.
//
// # Selection rule
//
// On every dispatch pass, while a slot is free:
//
//   - the head of the foreground lane is admitted if there is one
//   - otherwise the head of the background lane is admitted if fewer than
//     MaxBackgroundConcurrent background jobs are running
//   - otherwise nothing is admitted until a slot frees or a job arrives
//
// A saturating stream of background jobs therefore holds at most
// MaxBackgroundConcurrent of the MaxConcurrent slots. Running jobs are never
// preempted; priority affects admission time only.
//
// # Error handling
//
// Failures are classified by matching the error message against a table of
// marker phrases (see DefaultMarkers):
//
//   - Rate limits are retried with exponential backoff capped at one minute,
//     or after the provider's "try again in X s" hint plus a small padding
//   - Transient failures (timeouts, resets, unavailability) are retried
//     with linear backoff
//   - Everything else is fatal and surfaced immediately
//
// A retryable failure that outlives RetryPolicy.MaxRetries is surfaced the
// same way as a fatal one. Retries log at warn level, terminal failures at
// error level, using the zlog logger carried by the job context.
//
// # Example
//
//	c := admission.New(admission.Options{MaxConcurrent: 3, MaxBackgroundConcurrent: 1})
//	defer c.Stop()
//
//	f := admission.EnqueueForeground(ctx, c, func(ctx context.Context) (string, error) {
//		return client.Complete(ctx, prompt)
//	})
//	text, err := f.Wait(ctx)
package admission
