package admission

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the controller to report
// admission and execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {
	// IncSubmitted counts a job accepted into a lane.
	IncSubmitted()

	// IncStarted counts a job admitted into a slot.
	IncStarted()

	// IncRetried counts a failed attempt that will be retried.
	IncRetried()

	// IncSucceeded counts a job settled with a value.
	IncSucceeded()

	// IncFailed counts a job settled with an error.
	IncFailed()
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	submitted atomic.Uint64
	started   atomic.Uint64
	retried   atomic.Uint64
	succeeded atomic.Uint64
	failed    atomic.Uint64
}

func (m *AtomicMetrics) IncSubmitted() { m.submitted.Add(1) }
func (m *AtomicMetrics) IncStarted()   { m.started.Add(1) }
func (m *AtomicMetrics) IncRetried()   { m.retried.Add(1) }
func (m *AtomicMetrics) IncSucceeded() { m.succeeded.Add(1) }
func (m *AtomicMetrics) IncFailed()    { m.failed.Add(1) }

// Submitted returns the total number of jobs accepted into a lane.
func (m *AtomicMetrics) Submitted() uint64 { return m.submitted.Load() }

// Started returns the total number of admissions.
func (m *AtomicMetrics) Started() uint64 { return m.started.Load() }

// Retried returns the total number of retried attempts.
func (m *AtomicMetrics) Retried() uint64 { return m.retried.Load() }

// Succeeded returns the total number of jobs settled with a value.
func (m *AtomicMetrics) Succeeded() uint64 { return m.succeeded.Load() }

// Failed returns the total number of jobs settled with an error.
func (m *AtomicMetrics) Failed() uint64 { return m.failed.Load() }

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSubmitted() {}
func (m *NoopMetrics) IncStarted()   {}
func (m *NoopMetrics) IncRetried()   {}
func (m *NoopMetrics) IncSucceeded() {}
func (m *NoopMetrics) IncFailed()    {}
