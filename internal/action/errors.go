package action

import (
	"errors"
	"fmt"
)

// Errors returned by action operations.
var (
	// ErrInvocation indicates the underlying operation failed.
	ErrInvocation = errors.New("action invocation failed")

	// ErrParamsRequired indicates Invoke was called on a candidate whose
	// parameters have not been bound.
	ErrParamsRequired = errors.New("parameters required")

	// ErrArity indicates the wrong number of parameter values.
	ErrArity = errors.New("wrong number of parameters")

	// ErrUnknownOperation indicates no operation with the given name.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrDuplicateOperation indicates an operation name registered twice.
	ErrDuplicateOperation = errors.New("operation already registered")

	// ErrSyntax indicates a malformed call expression.
	ErrSyntax = errors.New("invalid call syntax")

	// ErrCancelled indicates a cancelled parameter capture.
	ErrCancelled = errors.New("parameter capture cancelled")
)

// InvocationError wraps a failure raised by an operation.
type InvocationError struct {
	// Op is the operation name, or the literal text for literal actions.
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoking %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Is matches ErrInvocation.
func (e *InvocationError) Is(target error) bool {
	return target == ErrInvocation
}
