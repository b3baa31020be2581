package admission

import (
	"context"
	"fmt"
	"sync"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Controller admits jobs to a concurrency-limited backend.
//
// It owns two lanes and the active-slot counters. All lane and counter
// mutation happens under mu; admitted jobs run on their own goroutines and
// re-enter dispatch when they finish.
type Controller struct {
	opts   Options
	clock  Clock
	status *statusReporter

	mu       sync.Mutex
	fg       *lane
	bg       *lane
	active   int
	activeBg int
	nextID   uint64
	closed   bool

	// inflight counts jobs accepted into a lane and not yet finished.
	inflight sync.WaitGroup
}

// New creates a controller. Zero-valued options are filled with defaults.
func New(opts Options) *Controller {
	opts.FillDefaults()
	return &Controller{
		opts:   opts,
		clock:  opts.Clock,
		status: &statusReporter{interval: opts.StatusInterval},
		fg:     newLane(initialLaneCapacity),
		bg:     newLane(initialLaneCapacity),
	}
}

// Enqueue queues op in the lane of prio and returns its future.
//
// It never fails synchronously: a nil op, an unknown priority or a closed
// controller produce an already-settled future. ctx is handed to op and
// bounds the backoff sleeps between attempts; it does not remove a job
// from its lane.
func Enqueue[T any](ctx context.Context, c *Controller, prio Priority, op Operation[T]) *Future[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	if op == nil {
		return rejectedFuture[T](ErrNilOperation)
	}
	if prio != Foreground && prio != Background {
		return rejectedFuture[T](fmt.Errorf("%w: %v", ErrUnknownPriority, prio))
	}

	f := newFuture[T]()
	j := &job{
		prio: prio,
		ctx:  ctx,
		run: func(c *Controller, j *job) {
			v, err := execute(c, j, op)
			if !f.settle(v, err) {
				c.reportInternalError(fmt.Errorf("admission: job %d settled twice", j.id))
			}
		},
		fail: func(err error) {
			var zero T
			f.settle(zero, err)
		},
	}
	if !c.push(j) {
		var zero T
		f.settle(zero, ErrClosed)
		return f
	}

	lg.FromContext(ctx).Info("Job enqueued",
		lg.Any("job", j.id),
		lg.String("priority", prio.String()),
	)
	c.dispatch(ctx)
	return f
}

// EnqueueForeground is Enqueue with Foreground priority.
func EnqueueForeground[T any](ctx context.Context, c *Controller, op Operation[T]) *Future[T] {
	return Enqueue(ctx, c, Foreground, op)
}

// EnqueueBackground is Enqueue with Background priority.
func EnqueueBackground[T any](ctx context.Context, c *Controller, op Operation[T]) *Future[T] {
	return Enqueue(ctx, c, Background, op)
}

func (c *Controller) push(j *job) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.nextID++
	j.id = c.nextID
	j.enqueuedAt = c.clock.Now()
	if j.prio == Background {
		c.bg.Push(j)
	} else {
		c.fg.Push(j)
	}
	c.inflight.Add(1)
	c.opts.Metrics.IncSubmitted()
	return true
}

// dispatch admits queued jobs while slots are free.
//
// Foreground heads are taken first; a background head is taken only when
// the foreground lane is empty and the background sub-limit allows it.
// It is re-entered from Enqueue and from every job completion.
func (c *Controller) dispatch(ctx context.Context) {
	var started []*job

	c.mu.Lock()
	for c.active < c.opts.MaxConcurrent {
		j := c.next()
		if j == nil {
			break
		}
		c.active++
		if j.prio == Background {
			c.activeBg++
		}
		started = append(started, j)
	}
	st := c.snapshot()
	report := c.status.due(c.clock.Now(), st)
	c.mu.Unlock()

	for _, j := range started {
		go c.runJob(j)
	}
	if report {
		c.status.emit(ctx, st)
	}
}

// next pops the job to admit, or returns nil. Callers hold mu.
func (c *Controller) next() *job {
	if j, ok := c.fg.Pop(); ok {
		return j
	}
	if c.bg.Len() > 0 && c.activeBg < c.opts.MaxBackgroundConcurrent {
		j, _ := c.bg.Pop()
		return j
	}
	return nil
}

func (c *Controller) runJob(j *job) {
	defer c.finish(j)
	defer func() {
		if r := recover(); r != nil {
			lg.FromContext(j.ctx).Error("job panicked", lg.Any("job", j.id), lg.Any("panic", r))
			c.reportInternalError(fmt.Errorf("admission: job %d: executor panicked: %v", j.id, r))
			j.fail(&PanicError{Value: r})
		}
	}()

	c.opts.Metrics.IncStarted()
	lg.FromContext(j.ctx).Info("Job admitted",
		lg.Any("job", j.id),
		lg.String("priority", j.prio.String()),
		lg.String("waited", c.clock.Now().Sub(j.enqueuedAt).String()),
	)
	j.run(c, j)
}

// finish releases the slot of j and gives the next queued job a chance.
func (c *Controller) finish(j *job) {
	c.mu.Lock()
	c.active--
	if j.prio == Background {
		c.activeBg--
	}
	c.mu.Unlock()

	c.inflight.Done()
	c.dispatch(j.ctx)
}

// Status returns a snapshot of the controller state. It has no side effects.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() Status {
	return Status{
		ActiveRequests:          c.active,
		ActiveBackground:        c.activeBg,
		ForegroundQueueDepth:    c.fg.Len(),
		BackgroundQueueDepth:    c.bg.Len(),
		MaxConcurrent:           c.opts.MaxConcurrent,
		MaxBackgroundConcurrent: c.opts.MaxBackgroundConcurrent,
	}
}

// Shutdown stops accepting jobs and waits for queued and running jobs
// to finish. Jobs enqueued afterwards are settled with ErrClosed.
// If ctx ends first, Shutdown returns ctx.Err() and the jobs keep draining.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.inflight.Wait()
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop is a blocking Shutdown.
func (c *Controller) Stop() { _ = c.Shutdown(context.Background()) }
