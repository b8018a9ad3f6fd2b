// Package errors provides lightweight error handling and classification primitives.
//
// The package provides simple error handling interfaces and functions.
// It allows to create simple and detailed classified errors.
// Each classification is a 32 bit number composed of major, minor and index values,
// registered at package initialization by the users of this package.
package errors
