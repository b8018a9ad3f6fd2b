package store

import (
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
)

// ErrRecordNotFound is the error returned when the record is not found in the store.
var ErrRecordNotFound = errors.New(class.StorageNotFound, "record not found")

// NotFound creates the error that the record with 'key' is not found.
func NotFound(key string) error {
	return errors.Wrapf(ErrRecordNotFound, class.StorageNotFound, "key: '%s'", key)
}

// IsNotFound checks if the 'err' is classified as the record not found.
func IsNotFound(err error) bool {
	return errors.IsClass(err, class.StorageNotFound)
}
