package jsheap

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

var (
	// ErrNextFailed matches any error returned by Table.Next. Exhausted
	// iterators are not failures; their record has done set instead.
	ErrNextFailed = errors.New("iterator step failed")

	// ErrUnknownHandle is returned when an operation names a handle that is
	// not in the table.
	ErrUnknownHandle = errors.New("unknown handle")
)

// Error is a failed table operation. Err is usually a *goja.Exception.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsheap: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes every failure of a "next" operation match ErrNextFailed.
func (e *Error) Is(target error) bool {
	return target == ErrNextFailed && e.Op == opNext
}

// Value returns the thrown JavaScript value, or nil if the failure was not
// a JavaScript exception.
func (e *Error) Value() goja.Value {
	var ex *goja.Exception
	if errors.As(e.Err, &ex) {
		return ex.Value()
	}
	return nil
}

const opNext = "next"
