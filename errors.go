package jsproxy

import (
	"errors"
	"fmt"
)

var (
	// ErrIterationFailed reports that the foreign iterator failed a step.
	// Normal exhaustion is never reported as an error.
	ErrIterationFailed = errors.New("foreign iteration failed")

	// ErrNotImplemented is returned for ordering comparisons between a
	// proxy and a value that is not foreign-backed.
	ErrNotImplemented = errors.New("comparison not implemented")

	// ErrKeywordArguments is returned when keyword arguments are passed to
	// a foreign call; the foreign calling convention is positional only.
	ErrKeywordArguments = errors.New("foreign functions do not accept keyword arguments")

	// ErrNotForeign is returned when a foreign proxy was expected.
	ErrNotForeign = errors.New("value is not a foreign proxy")

	// ErrReleased is returned by operations on a proxy after Release.
	ErrReleased = errors.New("proxy has been released")

	// ErrTypeRegistered is returned when a type name is registered twice.
	ErrTypeRegistered = errors.New("type already registered")
)

// ForeignError reports a failed foreign operation.
type ForeignError struct {
	Op  string // operation, e.g. "get attribute foo"
	Err error  // error reported by the handle table
}

func (e *ForeignError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ForeignError) Unwrap() error { return e.Err }

// iterationError wraps a foreign failure so that it matches both
// ErrIterationFailed and the underlying cause.
type iterationError struct {
	err error
}

func (e *iterationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrIterationFailed, e.err)
}

func (e *iterationError) Unwrap() []error { return []error{ErrIterationFailed, e.err} }

// foreignErr wraps a failed foreign operation in a ForeignError and logs
// it. A nil err stays nil.
func (rt *Runtime) foreignErr(op string, h Handle, err error) error {
	if err == nil {
		return nil
	}
	rt.logFailure(op, h, err)
	return &ForeignError{Op: op, Err: err}
}
