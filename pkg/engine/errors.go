package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every NotFoundError.
	ErrNotFound = errors.New("engine: location not found")
	// ErrInvalidArgument matches every InvalidArgumentError.
	ErrInvalidArgument = errors.New("engine: invalid argument")
	// ErrCompiled is returned when a binding is registered after the
	// template has been rendered.
	ErrCompiled = errors.New("engine: template already compiled")
)

// NotFoundError reports a selector that resolved to no element where one is
// required: the template root, or the target of Loop and If.
type NotFoundError struct {
	Selector string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("engine: no element found at %q", e.Selector)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidArgumentError reports a location that is neither a selector nor an
// element, an unparsable selector, or a malformed binding.
type InvalidArgumentError struct {
	Argument any
	Reason   string
	Err      error
}

func (e *InvalidArgumentError) Error() string {
	msg := fmt.Sprintf("engine: invalid argument %#v: %s", e.Argument, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidArgumentError) Unwrap() error { return e.Err }

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}
