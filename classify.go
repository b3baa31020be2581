package admission

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrorClass tells the executor what to do with a failed attempt.
type ErrorClass uint8

const (
	// ClassFatal errors are surfaced immediately.
	ClassFatal ErrorClass = iota

	// ClassTransient errors are retried with linear backoff.
	ClassTransient

	// ClassRateLimited errors are retried with exponential backoff,
	// or after the delay suggested by the provider.
	ClassRateLimited
)

func (c ErrorClass) String() string {
	switch c {
	case ClassFatal:
		return "fatal"
	case ClassTransient:
		return "transient"
	case ClassRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Retryable reports whether errors of this class may be retried.
func (c ErrorClass) Retryable() bool { return c == ClassTransient || c == ClassRateLimited }

// Marker maps a phrase found in an error message to a class.
// Phrases are matched case-insensitively as substrings; an all-digit phrase
// such as a status code must stand alone, so "429" does not match "a4290f".
type Marker struct {
	Phrase string
	Class  ErrorClass
}

// DefaultMarkers returns the marker table used when a RetryPolicy has none.
// Rate-limit markers come first: a message like "rate limit: request timed
// out" is treated as a rate limit.
func DefaultMarkers() []Marker {
	return []Marker{
		{"rate limit", ClassRateLimited},
		{"rate_limit", ClassRateLimited},
		{"too many requests", ClassRateLimited},
		{"429", ClassRateLimited},

		{"timeout", ClassTransient},
		{"timed out", ClassTransient},
		{"deadline exceeded", ClassTransient},
		{"connection reset", ClassTransient},
		{"econnreset", ClassTransient},
		{"socket hang up", ClassTransient},
		{"temporarily unavailable", ClassTransient},
		{"service unavailable", ClassTransient},
		{"503", ClassTransient},
		{"overloaded", ClassTransient},
		{"529", ClassTransient},
	}
}

// Classify returns the class of the first marker found in err's message.
// Unmatched errors and a canceled context are fatal.
func Classify(err error, markers []Marker) ErrorClass {
	if err == nil || errors.Is(err, context.Canceled) {
		return ClassFatal
	}
	var pe *PanicError
	if errors.As(err, &pe) {
		return ClassFatal
	}
	msg := strings.ToLower(err.Error())
	for _, m := range markers {
		if containsMarker(msg, strings.ToLower(m.Phrase)) {
			return m.Class
		}
	}
	return ClassFatal
}

func containsMarker(msg, phrase string) bool {
	if phrase == "" {
		return false
	}
	if !isDigits(phrase) {
		return strings.Contains(msg, phrase)
	}
	for off := 0; ; {
		i := strings.Index(msg[off:], phrase)
		if i < 0 {
			return false
		}
		start := off + i
		end := start + len(phrase)
		if (start == 0 || !isAlnum(msg[start-1])) && (end == len(msg) || !isAlnum(msg[end])) {
			return true
		}
		off = start + 1
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isAlnum(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

var retryHintRE = regexp.MustCompile(`(?i)try again in\s*(\d+(?:\.\d+)?)\s*(ms|milliseconds?|s|secs?|seconds?)\b`)

// SuggestedDelay extracts a provider hint such as "try again in 2.5s" or
// "try again in 750ms" from err's message. Hints that do not fit in a
// time.Duration are ignored.
func SuggestedDelay(err error) (time.Duration, bool) {
	if err == nil {
		return 0, false
	}
	m := retryHintRE.FindStringSubmatch(err.Error())
	if m == nil {
		return 0, false
	}
	v, perr := strconv.ParseFloat(m[1], 64)
	if perr != nil || v < 0 {
		return 0, false
	}
	unit := time.Second
	if strings.HasPrefix(strings.ToLower(m[2]), "m") {
		unit = time.Millisecond
	}
	if v >= math.MaxInt64/float64(unit) {
		return 0, false
	}
	return time.Duration(v * float64(unit)), true
}
