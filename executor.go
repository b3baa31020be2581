package admission

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
)

// execute runs op for an admitted job until it succeeds, fails fatally or
// runs out of attempts.
//
// The job keeps its slot for the whole loop, backoff sleeps included.
// A retryable error on the last attempt is returned as is; only the
// attempt count in the log tells it apart from a fatal one.
func execute[T any](c *Controller, j *job, op Operation[T]) (T, error) {
	var zero T

	logger := lg.FromContext(j.ctx).With(
		lg.Any("job", j.id),
		lg.String("priority", j.prio.String()),
	)

	pol := c.opts.Retry
	attempts := pol.Attempts()

	// exponential rate-limit sequence, created on the first rate limit
	var exp func() time.Duration

	for attempt := 1; ; attempt++ {
		v, err := invoke(j.ctx, op)
		if err == nil {
			c.opts.Metrics.IncSucceeded()
			logger.Info("Job finished", lg.Int("attempt", attempt))
			return v, nil
		}

		class := pol.Classify(err)
		if !class.Retryable() || attempt >= attempts {
			logger.Error("Job failed",
				lg.Int("attempt", attempt),
				lg.Int("max_attempts", attempts),
				lg.String("class", class.String()),
				lg.Any("error", err),
			)
			return zero, c.failJob(err)
		}

		if class == ClassRateLimited && exp == nil {
			exp = pol.rateLimitBackoff(c.clock.Now().UnixNano())
		}
		delay := pol.Delay(attempt, class, err, exp)

		c.opts.Metrics.IncRetried()
		logger.Warn("job attempt failed; backing off",
			lg.Int("attempt", attempt),
			lg.String("class", class.String()),
			lg.String("sleep", delay.String()),
			lg.Any("error", err),
		)

		if serr := c.clock.Sleep(j.ctx, delay); serr != nil {
			logger.Info("Job canceled", lg.Any("reason", serr))
			return zero, c.failJob(fmt.Errorf("%w (last error: %v)", serr, err))
		}
	}
}

// invoke calls op, turning a panic into a *PanicError.
func invoke[T any](ctx context.Context, op Operation[T]) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return op(ctx)
}

func (c *Controller) failJob(err error) error {
	c.opts.Metrics.IncFailed()
	c.reportJobError(err)
	return err
}
