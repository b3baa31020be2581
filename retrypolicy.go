package admission

import (
	"math"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
)

const (
	defaultMaxRetries       = 3
	defaultBaseDelay        = 1000 * time.Millisecond
	defaultRateLimitInitial = 1000 * time.Millisecond
	defaultRateLimitMax     = 60000 * time.Millisecond
	defaultHintPadding      = 500 * time.Millisecond
)

// RetryPolicy describes which failures are retried and how long to wait
// between attempts. Zero values are treated as "use defaults".
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first one.
	// A negative value disables retries.
	MaxRetries int

	// BaseDelay is the linear step for transient failures:
	// the n-th retry waits BaseDelay*n.
	BaseDelay time.Duration

	// RateLimitInitial is the first backoff duration for rate limits
	// that carry no provider hint.
	RateLimitInitial time.Duration

	// RateLimitMax is the cap for rate-limit backoff.
	RateLimitMax time.Duration

	// HintPadding is added to a provider-suggested delay.
	HintPadding time.Duration

	// Markers is the classification table. Nil means DefaultMarkers().
	Markers []Marker
}

// DefaultRetryPolicy returns a pointer to the policy used when Options
// leaves Retry empty.
func DefaultRetryPolicy() *RetryPolicy {
	rp := RetryPolicy{
		MaxRetries:       defaultMaxRetries,
		BaseDelay:        defaultBaseDelay,
		RateLimitInitial: defaultRateLimitInitial,
		RateLimitMax:     defaultRateLimitMax,
		HintPadding:      defaultHintPadding,
		Markers:          DefaultMarkers(),
	}
	return &rp
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxRetries == 0 {
		p.MaxRetries = defaultMaxRetries
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultBaseDelay
	}
	if p.RateLimitInitial <= 0 {
		p.RateLimitInitial = defaultRateLimitInitial
	}
	if p.RateLimitMax <= 0 {
		p.RateLimitMax = defaultRateLimitMax
	}
	if p.RateLimitInitial > p.RateLimitMax {
		p.RateLimitInitial = p.RateLimitMax
	}
	if p.HintPadding <= 0 {
		p.HintPadding = defaultHintPadding
	}
	if p.Markers == nil {
		p.Markers = DefaultMarkers()
	}
	return p
}

// Attempts is the total number of tries a retryable failure gets.
func (p RetryPolicy) Attempts() int {
	return max(p.withDefaults().MaxRetries, 0) + 1
}

// Classify returns the class of err under this policy's marker table.
func (p RetryPolicy) Classify(err error) ErrorClass {
	markers := p.Markers
	if markers == nil {
		markers = DefaultMarkers()
	}
	return Classify(err, markers)
}

// Delay returns how long to wait after the given failed attempt (1-based).
//
// Transient failures back off linearly. Rate limits honor a provider hint
// plus HintPadding when err carries one, and otherwise take the next value
// of exp, the job's exponential backoff sequence.
func (p RetryPolicy) Delay(attempt int, class ErrorClass, err error, exp func() time.Duration) time.Duration {
	p = p.withDefaults()
	if attempt < 1 {
		attempt = 1
	}
	if class == ClassRateLimited {
		if hint, ok := SuggestedDelay(err); ok && hint <= math.MaxInt64-p.HintPadding {
			return hint + p.HintPadding
		}
		if exp != nil {
			return exp()
		}
	}
	return p.BaseDelay * time.Duration(attempt)
}

// rateLimitBackoff returns a fresh exponential backoff sequence capped at
// RateLimitMax. Each job gets its own sequence.
func (p RetryPolicy) rateLimitBackoff(seed int64) func() time.Duration {
	bo := boff.New(p.RateLimitInitial, p.RateLimitMax, seed)
	return func() time.Duration {
		d := bo.Next()
		if d > p.RateLimitMax {
			d = p.RateLimitMax
		}
		return d
	}
}
