package class

import (
	"github.com/neuronlabs/tvb/errors"
)

// MjrReader - major that classifies errors related with reading external file formats.
var MjrReader errors.Major

var (
	// MnrReaderInput is the 'MjrReader' minor error classification for the input files.
	MnrReaderInput errors.Minor

	// ReaderFormat is the 'MjrReader', 'MnrReaderInput' error classification
	// when the file content doesn't match the expected format.
	ReaderFormat errors.Class

	// ReaderIO is the 'MjrReader', 'MnrReaderInput' error classification
	// when the file couldn't be opened or read.
	ReaderIO errors.Class

	// ReaderArchive is the 'MjrReader', 'MnrReaderInput' error classification
	// when the archive misses a required entry.
	ReaderArchive errors.Class
)

func registerReaderClasses() {
	MjrReader = errors.MustNewMajor()

	MnrReaderInput = errors.MustNewMinor(MjrReader)
	mjr, mnr := MjrReader, MnrReaderInput
	ReaderFormat = errors.MustNewClass(mjr, mnr, errors.MustNewIndex(mjr, mnr))
	ReaderIO = errors.MustNewClass(mjr, mnr, errors.MustNewIndex(mjr, mnr))
	ReaderArchive = errors.MustNewClass(mjr, mnr, errors.MustNewIndex(mjr, mnr))
}
