package tracing

import (
	"errors"
	"fmt"
)

// Domain errors for tracing operations.
var (
	// ErrNonVacuum indicates a guiding-center trace was requested in real
	// space for a field with non-vacuum components.
	ErrNonVacuum = errors.New("tracing: real-space guiding center requires a vacuum field")

	// ErrFieldCaps indicates the Boozer evaluator cannot supply the
	// derivative quantities the requested model needs.
	ErrFieldCaps = errors.New("tracing: field evaluator lacks required derivative quantities")

	// ErrRootRefine indicates crossing-time refinement failed despite a
	// detected sign change. This is an internal-invariant failure, not a
	// physical result.
	ErrRootRefine = errors.New("tracing: event root refinement failed")

	// ErrLostBracket indicates the shifted target angle fell outside the
	// step's phase interval. Should never happen given the winding-number
	// test that gates the search.
	ErrLostBracket = errors.New("tracing: crossing target outside step bracket")

	// ErrBadOptions indicates inconsistent solver options.
	ErrBadOptions = errors.New("tracing: invalid trace options")
)

// TraceError wraps an error with the integration step it occurred on.
type TraceError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *TraceError) Error() string {
	return fmt.Sprintf("step %d (t=%g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *TraceError) Unwrap() error {
	return e.Wrapped
}
