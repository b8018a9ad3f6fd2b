package errors

import (
	"strings"
)

// MultiError is the slice of errors parsable into a single error.
type MultiError []error

// Error implements error interface.
func (m MultiError) Error() string {
	sb := &strings.Builder{}

	for i, e := range m {
		sb.WriteString(e.Error())
		if i != len(m)-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}

// ErrorOrNil returns nil if the multi error contains no errors.
// A single error is returned as is.
func (m MultiError) ErrorOrNil() error {
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	}
	return m
}

// Classes gets the classes of all classified errors within the multi error.
func (m MultiError) Classes() []Class {
	var classes []Class
	for _, e := range m {
		if ce, ok := e.(ClassError); ok {
			classes = append(classes, ce.Class())
		}
	}
	return classes
}
