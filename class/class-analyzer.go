package class

import (
	"github.com/neuronlabs/tvb/errors"
)

// MjrAnalyzer - major that classifies errors returned by the analyzers.
var MjrAnalyzer errors.Major

var (
	// MnrAnalyzerArgument is the 'MjrAnalyzer' minor for invalid analyzer arguments.
	MnrAnalyzerArgument errors.Minor

	// AnalyzerInput is the 'MjrAnalyzer', 'MnrAnalyzerArgument' error classification
	// when the input datatype is not valid for the analyzer.
	AnalyzerInput errors.Class

	// AnalyzerParameter is the 'MjrAnalyzer', 'MnrAnalyzerArgument' error classification
	// when the analyzer parameter is not valid.
	AnalyzerParameter errors.Class

	// AnalyzerNotFound is the 'MjrAnalyzer', 'MnrAnalyzerArgument' error classification
	// when the analyzer with given name is not registered.
	AnalyzerNotFound errors.Class

	// MnrAnalyzerComputation is the 'MjrAnalyzer' minor for failed computations.
	MnrAnalyzerComputation errors.Minor

	// AnalyzerComputation is the 'MjrAnalyzer', 'MnrAnalyzerComputation' error classification
	// when the numerical computation failed - i.e. a decomposition didn't converge.
	AnalyzerComputation errors.Class
)

func registerAnalyzerClasses() {
	MjrAnalyzer = errors.MustNewMajor()

	MnrAnalyzerArgument = errors.MustNewMinor(MjrAnalyzer)
	mjr, mnr := MjrAnalyzer, MnrAnalyzerArgument
	AnalyzerInput = errors.MustNewClass(mjr, mnr, errors.MustNewIndex(mjr, mnr))
	AnalyzerParameter = errors.MustNewClass(mjr, mnr, errors.MustNewIndex(mjr, mnr))
	AnalyzerNotFound = errors.MustNewClass(mjr, mnr, errors.MustNewIndex(mjr, mnr))

	MnrAnalyzerComputation = errors.MustNewMinor(MjrAnalyzer)
	AnalyzerComputation = errors.MustNewMinorClass(MjrAnalyzer, MnrAnalyzerComputation)
}
