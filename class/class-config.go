package class

import (
	"github.com/neuronlabs/tvb/errors"
)

// MjrConfig - major that classifies errors related with the configuration.
var MjrConfig errors.Major

var (
	// MnrConfigRead is the 'MjrConfig' minor for the config reading issues.
	MnrConfigRead errors.Minor

	// ConfigRead is the 'MjrConfig', 'MnrConfigRead' error classification
	// when the configuration couldn't be read or decoded.
	ConfigRead errors.Class

	// MnrConfigValue is the 'MjrConfig' minor for invalid configuration values.
	MnrConfigValue errors.Minor

	// ConfigValidation is the 'MjrConfig', 'MnrConfigValue' error classification
	// when the configuration doesn't pass the validation.
	ConfigValidation errors.Class

	// ConfigDriver is the 'MjrConfig', 'MnrConfigValue' error classification
	// when the storage driver is not registered.
	ConfigDriver errors.Class
)

func registerConfigClasses() {
	MjrConfig = errors.MustNewMajor()

	MnrConfigRead = errors.MustNewMinor(MjrConfig)
	ConfigRead = errors.MustNewMinorClass(MjrConfig, MnrConfigRead)

	MnrConfigValue = errors.MustNewMinor(MjrConfig)
	ConfigValidation = errors.MustNewClass(MjrConfig, MnrConfigValue, errors.MustNewIndex(MjrConfig, MnrConfigValue))
	ConfigDriver = errors.MustNewClass(MjrConfig, MnrConfigValue, errors.MustNewIndex(MjrConfig, MnrConfigValue))
}
