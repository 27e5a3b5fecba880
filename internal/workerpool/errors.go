package workerpool

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolClosed is returned when a job is submitted after the pool was torn down.
	// Callers are expected to submit only while the pool is alive, so seeing it is a logic error.
	ErrPoolClosed = errors.New("worker pool is closed")
	ErrNilJob     = errors.New("nil job")
)

// PanicError carries a panic recovered from a job started via Submit.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("job panicked: %v", e.Value)
}
