package class

import (
	"github.com/neuronlabs/tvb/errors"
)

// MjrStorage - major that classifies errors related with the stores, codecs and repository.
var MjrStorage errors.Major

var (
	// MnrStorageRecord is the 'MjrStorage' minor error classification for the stored records.
	MnrStorageRecord errors.Minor

	// StorageNotFound is the 'MjrStorage', 'MnrStorageRecord' error classification
	// when the record is not found.
	StorageNotFound errors.Class

	// StorageKey is the 'MjrStorage', 'MnrStorageRecord' error classification
	// when the record key is not valid.
	StorageKey errors.Class

	// MnrStorageEncoding is the 'MjrStorage' minor error classification for the record encoding.
	MnrStorageEncoding errors.Minor

	// StorageCodec is the 'MjrStorage', 'MnrStorageEncoding' error classification
	// when the record couldn't be encoded or decoded.
	StorageCodec errors.Class

	// StorageCompression is the 'MjrStorage', 'MnrStorageEncoding' error classification
	// for unknown or failing compression.
	StorageCompression errors.Class

	// MnrStorageBackend is the 'MjrStorage' minor error classification for the store backends.
	MnrStorageBackend errors.Minor

	// StorageBackend is the 'MjrStorage', 'MnrStorageBackend' error classification
	// when the backend operation failed.
	StorageBackend errors.Class
)

func registerStorageClasses() {
	MjrStorage = errors.MustNewMajor()

	MnrStorageRecord = errors.MustNewMinor(MjrStorage)
	StorageNotFound = errors.MustNewClass(MjrStorage, MnrStorageRecord, errors.MustNewIndex(MjrStorage, MnrStorageRecord))
	StorageKey = errors.MustNewClass(MjrStorage, MnrStorageRecord, errors.MustNewIndex(MjrStorage, MnrStorageRecord))

	MnrStorageEncoding = errors.MustNewMinor(MjrStorage)
	StorageCodec = errors.MustNewClass(MjrStorage, MnrStorageEncoding, errors.MustNewIndex(MjrStorage, MnrStorageEncoding))
	StorageCompression = errors.MustNewClass(MjrStorage, MnrStorageEncoding, errors.MustNewIndex(MjrStorage, MnrStorageEncoding))

	MnrStorageBackend = errors.MustNewMinor(MjrStorage)
	StorageBackend = errors.MustNewMinorClass(MjrStorage, MnrStorageBackend)
}
