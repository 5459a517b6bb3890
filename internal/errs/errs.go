// Package errs holds the sentinel errors shared across Loggy packages.
// Callers match them with errors.Is; constructors wrap them with context.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrIO                 = errors.New("i/o error")
	ErrNotPointed         = errors.New("tape is not pointed at a file")
	ErrInsufficientSpace  = errors.New("not enough free space for log storage")
	ErrAlreadyInitialized = errors.New("loggy already initialized")
	ErrNotInitialized     = errors.New("loggy not initialized")
	ErrClosed             = errors.New("recorder closed")
	ErrQueueFull          = errors.New("recorder queue full")
	ErrUnknownBackend     = errors.New("unknown storage backend")
	ErrConfigInvalid      = errors.New("invalid configuration")
)

// NewIOError wraps err as an ErrIO for the named operation and path.
func NewIOError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrIO, op, path, err)
}

// NewArgumentError reports a rejected argument value.
func NewArgumentError(name string, value interface{}) error {
	return fmt.Errorf("%w: %s=%q", ErrInvalidArgument, name, fmt.Sprint(value))
}

// NewSpaceError reports how much space was available against what was needed.
func NewSpaceError(free, need int64) error {
	return fmt.Errorf("%w: free=%d bytes need=%d bytes", ErrInsufficientSpace, free, need)
}

// NewConfigError reports an invalid configuration field.
func NewConfigError(field string, value interface{}) error {
	return fmt.Errorf("%w: field=%s value=%v", ErrConfigInvalid, field, value)
}
