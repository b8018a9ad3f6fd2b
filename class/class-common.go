package class

import (
	"github.com/neuronlabs/tvb/errors"
)

// MjrCommon is the common major errors classification.
var MjrCommon errors.Major

var (
	// MnrCommonLogger is the 'MjrCommon' minor error classification
	// for logger issues.
	MnrCommonLogger errors.Minor

	// CommonLoggerNotImplement is the 'MjrCommon', 'MnrCommonLogger' error classification
	// for logger's that doesn't implement some interface.
	CommonLoggerNotImplement errors.Class

	// CommonLoggerUnknownLevel is the 'MjrCommon', 'MnrCommonLogger' error classification
	// for unknown level logger.
	CommonLoggerUnknownLevel errors.Class

	// MnrCommonInternal is the 'MjrCommon' minor error classification for internal errors.
	MnrCommonInternal errors.Minor

	// CommonInternal is the 'MjrCommon', 'MnrCommonInternal' error classification
	// for unexpected internal issues.
	CommonInternal errors.Class
)

func registerCommonClasses() {
	MjrCommon = errors.MustNewMajor()

	MnrCommonLogger = errors.MustNewMinor(MjrCommon)
	CommonLoggerNotImplement = errors.MustNewClass(MjrCommon, MnrCommonLogger, errors.MustNewIndex(MjrCommon, MnrCommonLogger))
	CommonLoggerUnknownLevel = errors.MustNewClass(MjrCommon, MnrCommonLogger, errors.MustNewIndex(MjrCommon, MnrCommonLogger))

	MnrCommonInternal = errors.MustNewMinor(MjrCommon)
	CommonInternal = errors.MustNewMinorClass(MjrCommon, MnrCommonInternal)
}
