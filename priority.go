package admission

import "fmt"

// Priority selects the lane a job is queued in.
//
// Foreground is latency-sensitive interactive work and is always admitted
// ahead of Background. Background is bulk work limited by
// Options.MaxBackgroundConcurrent.
type Priority uint8

const (
	Foreground Priority = iota
	Background
)

func (p Priority) String() string {
	switch p {
	case Foreground:
		return "foreground"
	case Background:
		return "background"
	default:
		return fmt.Sprintf("Priority(%d)", uint8(p))
	}
}

// ParsePriority maps "foreground" / "background" to a Priority.
// An empty string means Foreground.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "", "foreground":
		return Foreground, nil
	case "background":
		return Background, nil
	default:
		return Foreground, fmt.Errorf("admission: unknown priority %q", s)
	}
}
