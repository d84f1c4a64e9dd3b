package flowgraph

import (
	"errors"
	"fmt"

	"github.com/threatflow/flowgraph/stream"
)

// Sentinel errors for common assembler error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrBufferOverflow indicates the stream parser's pending-text buffer
	// exceeded its maximum size. Fatal to the session: the upstream will
	// never terminate cleanly. Aliased from the stream package so callers
	// only need this one.
	ErrBufferOverflow = stream.ErrBufferOverflow

	// ErrSessionClosed indicates an operation was attempted on a session
	// that has already failed fatally or been closed.
	ErrSessionClosed = errors.New("session closed")

	// ErrInvalidConfig indicates the provided configuration is invalid or
	// incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Error kinds categorize errors by their type.
const (
	// KindStream represents errors in the incoming record stream.
	KindStream = "stream"

	// KindCapacity represents errors from exhausted memory bounds.
	KindCapacity = "capacity"

	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"

	// KindState represents errors from misuse of session lifecycle.
	KindState = "state"

	// KindInternal represents internal assembler errors.
	KindInternal = "internal"
)

// FlowError is a structured error type that wraps underlying errors with
// additional context about the operation that failed and the category of
// error.
//
// FlowError implements the error interface and supports error unwrapping,
// making it compatible with errors.Is() and errors.As().
type FlowError struct {
	// Op is the operation that failed (e.g., "Session.Feed").
	Op string

	// Kind categorizes the error (e.g., KindCapacity, KindConfiguration).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional).
	Context map[string]any
}

// Error implements the error interface, returning a formatted error message
// that includes the operation, kind, and underlying error.
func (e *FlowError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("flowgraph: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("flowgraph: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("flowgraph: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and errors.As()
// to work correctly with wrapped errors.
func (e *FlowError) Unwrap() error {
	return e.Err
}

// Is implements error matching for FlowError, allowing comparison based on
// the underlying error or on Kind/Op of another FlowError.
func (e *FlowError) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*FlowError); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a new FlowError with the provided context added.
func (e *FlowError) WithContext(ctx map[string]any) *FlowError {
	newErr := *e
	if newErr.Context == nil {
		newErr.Context = make(map[string]any)
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewStreamError creates a new FlowError with KindStream.
func NewStreamError(op string, err error) *FlowError {
	return &FlowError{Op: op, Kind: KindStream, Err: err}
}

// NewCapacityError creates a new FlowError with KindCapacity.
func NewCapacityError(op string, err error) *FlowError {
	return &FlowError{Op: op, Kind: KindCapacity, Err: err}
}

// NewValidationError creates a new FlowError with KindValidation.
func NewValidationError(op string, err error) *FlowError {
	return &FlowError{Op: op, Kind: KindValidation, Err: err}
}

// NewConfigurationError creates a new FlowError with KindConfiguration.
func NewConfigurationError(op string, err error) *FlowError {
	return &FlowError{Op: op, Kind: KindConfiguration, Err: err}
}

// NewStateError creates a new FlowError with KindState.
func NewStateError(op string, err error) *FlowError {
	return &FlowError{Op: op, Kind: KindState, Err: err}
}

// NewInternalError creates a new FlowError with KindInternal.
func NewInternalError(op string, err error) *FlowError {
	return &FlowError{Op: op, Kind: KindInternal, Err: err}
}
