package errors

import (
	"fmt"
)

// ClassError is the interface used for all errors that uses classification system.
type ClassError interface {
	error
	// Class gets current error classification.
	Class() Class
}

// classError is the lightweight classified error without the trackable ID.
type classError struct {
	class   Class
	message string
	wrapped error
}

// New creates new lightweight classified error with the 'message'.
func New(c Class, message string) ClassError {
	return &classError{class: c, message: message}
}

// Newf creates new lightweight classified error with formatted message.
func Newf(c Class, format string, args ...interface{}) ClassError {
	return &classError{class: c, message: fmt.Sprintf(format, args...)}
}

// Wrap creates the classified error that wraps the 'err'.
// The resulting message is composed of the 'message' and the wrapped error message.
func Wrap(err error, c Class, message string) ClassError {
	return &classError{class: c, message: message, wrapped: err}
}

// Wrapf creates the classified error that wraps the 'err' with formatted message.
func Wrapf(err error, c Class, format string, args ...interface{}) ClassError {
	return &classError{class: c, message: fmt.Sprintf(format, args...), wrapped: err}
}

// Class implements ClassError interface.
func (e *classError) Class() Class {
	return e.class
}

// Error implements error interface.
func (e *classError) Error() string {
	if e.wrapped == nil {
		return e.message
	}
	return e.message + ": " + e.wrapped.Error()
}

// Unwrap gets the wrapped error.
func (e *classError) Unwrap() error {
	return e.wrapped
}
