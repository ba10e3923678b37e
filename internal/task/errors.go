package task

import (
	"errors"
	"fmt"
)

// Code classifies an application error with a stable identifier that is
// rendered to users and asserted in tests.
type Code string

const (
	CodeInvalidInput      Code = "invalid_input"
	CodeInvalidTransition Code = "invalid_transition"
	CodeNotFound          Code = "not_found"
	CodeCorruptStore      Code = "corrupt_store"
	CodeIO                Code = "io_error"
)

// Error is the error type shared by the task entity and the store. The
// command layer formats it as a single `ERROR: <code> - <message>` line.
type Error struct {
	Code    Code
	Message string
	Err     error // underlying cause, may be nil
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s - %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds an *Error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	err := &Error{Code: code, Message: fmt.Sprintf(format, args...)}
	for _, arg := range args {
		if cause, ok := arg.(error); ok {
			err.Err = cause
		}
	}
	return err
}

// CodeOf extracts the code from err, or CodeIO if err is not an *Error.
// Unknown failures reaching the command boundary are treated as I/O faults
// rather than crashing without a user-visible line.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeIO
}

// MessageOf extracts the message from err, falling back to err.Error().
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
