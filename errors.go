package admission

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed settles futures of jobs enqueued after Shutdown.
	ErrClosed = errors.New("admission: controller closed")

	// ErrNilOperation settles futures of jobs enqueued without an operation.
	ErrNilOperation = errors.New("admission: operation is nil")

	// ErrUnknownPriority settles futures of jobs with an out-of-range priority.
	ErrUnknownPriority = errors.New("admission: unknown priority")
)

// PanicError wraps a value recovered from a panicking operation.
// It is always fatal.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("admission: operation panicked: %v", e.Value)
}
