package admission

import (
	"time"
)

const (
	DefaultMaxConcurrent           = 4
	DefaultMaxBackgroundConcurrent = 2
	DefaultStatusInterval          = 30 * time.Second
)

// Options configure a Controller.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// MaxConcurrent is the hard ceiling of running jobs.
	MaxConcurrent int

	// MaxBackgroundConcurrent caps running background jobs. It is kept
	// below MaxConcurrent so background work never takes every slot.
	// With MaxConcurrent == 1 it is 1 and there is no headroom: a running
	// background job holds the only slot and foreground jobs wait for it.
	MaxBackgroundConcurrent int

	Retry RetryPolicy

	// StatusInterval throttles the status line. Negative disables it.
	StatusInterval time.Duration

	Clock   Clock
	Metrics MetricsPolicy

	// OnJobError receives the terminal error of every failed job.
	OnJobError func(error)

	// OnInternalError receives failures of the controller itself.
	OnInternalError func(error)
}

func (o *Options) FillDefaults() {
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = DefaultMaxConcurrent
	}
	if o.MaxBackgroundConcurrent <= 0 {
		o.MaxBackgroundConcurrent = DefaultMaxBackgroundConcurrent
	}
	if o.MaxBackgroundConcurrent >= o.MaxConcurrent {
		o.MaxBackgroundConcurrent = max(o.MaxConcurrent-1, 1)
	}
	if o.StatusInterval == 0 {
		o.StatusInterval = DefaultStatusInterval
	}
	if o.Clock == nil {
		o.Clock = WallClock()
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
	o.Retry = o.Retry.withDefaults()
}
