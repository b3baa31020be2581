package admission

import (
	"context"
	"fmt"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Status is a point-in-time view of the controller.
type Status struct {
	ActiveRequests          int
	ActiveBackground        int
	ForegroundQueueDepth    int
	BackgroundQueueDepth    int
	MaxConcurrent           int
	MaxBackgroundConcurrent int
}

// Idle reports whether nothing is queued or running.
func (s Status) Idle() bool {
	return s.ActiveRequests == 0 && s.ForegroundQueueDepth == 0 && s.BackgroundQueueDepth == 0
}

func (s Status) String() string {
	return fmt.Sprintf("active=%d/%d background=%d/%d queued fg=%d bg=%d",
		s.ActiveRequests, s.MaxConcurrent,
		s.ActiveBackground, s.MaxBackgroundConcurrent,
		s.ForegroundQueueDepth, s.BackgroundQueueDepth)
}

// statusReporter throttles the status line.
//
// It has no timer of its own: dispatch asks it on every pass, so an idle
// controller costs nothing. last is guarded by the controller mutex.
type statusReporter struct {
	interval time.Duration
	last     time.Time
}

// due reports whether st should be emitted now and, if so, records now as
// the last report time.
func (r *statusReporter) due(now time.Time, st Status) bool {
	if r.interval <= 0 || st.Idle() {
		return false
	}
	if !r.last.IsZero() && now.Sub(r.last) < r.interval {
		return false
	}
	r.last = now
	return true
}

func (r *statusReporter) emit(ctx context.Context, st Status) {
	lg.FromContext(ctx).Info("Admission status",
		lg.Int("active", st.ActiveRequests),
		lg.Int("active_background", st.ActiveBackground),
		lg.Int("fg_queue", st.ForegroundQueueDepth),
		lg.Int("bg_queue", st.BackgroundQueueDepth),
		lg.Int("max_concurrent", st.MaxConcurrent),
		lg.Int("max_background", st.MaxBackgroundConcurrent),
	)
}
