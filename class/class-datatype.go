package class

import (
	"github.com/neuronlabs/tvb/errors"
)

// MjrDatatype - major that classifies errors related with the datatype values.
var MjrDatatype errors.Major

var (
	// MnrDatatypeValidation is the 'MjrDatatype' minor error classification
	// for the datatype values validation.
	MnrDatatypeValidation errors.Minor

	// DatatypeRequired is the 'MjrDatatype', 'MnrDatatypeValidation' error classification
	// when the required attribute is not set.
	DatatypeRequired errors.Class

	// DatatypeShape is the 'MjrDatatype', 'MnrDatatypeValidation' error classification
	// when the array shape doesn't match its declaration.
	DatatypeShape errors.Class

	// DatatypeRange is the 'MjrDatatype', 'MnrDatatypeValidation' error classification
	// when the attribute value is out of its range.
	DatatypeRange errors.Class

	// DatatypeChoice is the 'MjrDatatype', 'MnrDatatypeValidation' error classification
	// when the attribute value is not one of the allowed choices.
	DatatypeChoice errors.Class

	// DatatypeReference is the 'MjrDatatype', 'MnrDatatypeValidation' error classification
	// when the referenced datatype is invalid or missing.
	DatatypeReference errors.Class

	// DatatypeValue is the 'MjrDatatype', 'MnrDatatypeValidation' error classification
	// for general invalid values.
	DatatypeValue errors.Class

	// MnrDatatypeDefault is the 'MjrDatatype' minor error classification
	// for the default values resolution.
	MnrDatatypeDefault errors.Minor

	// DatatypeDefault is the 'MjrDatatype', 'MnrDatatypeDefault' error classification
	// when the default value couldn't be parsed or set.
	DatatypeDefault errors.Class

	// MnrDatatypeConfigure is the 'MjrDatatype' minor error classification
	// for deriving datatype attributes.
	MnrDatatypeConfigure errors.Minor

	// DatatypeConfigure is the 'MjrDatatype', 'MnrDatatypeConfigure' error classification
	// when derived attributes couldn't be computed.
	DatatypeConfigure errors.Class
)

func registerDatatypeClasses() {
	MjrDatatype = errors.MustNewMajor()

	MnrDatatypeValidation = errors.MustNewMinor(MjrDatatype)
	mjr, mnr := MjrDatatype, MnrDatatypeValidation
	newClass := func() errors.Class {
		return errors.MustNewClass(mjr, mnr, errors.MustNewIndex(mjr, mnr))
	}
	DatatypeRequired = newClass()
	DatatypeShape = newClass()
	DatatypeRange = newClass()
	DatatypeChoice = newClass()
	DatatypeReference = newClass()
	DatatypeValue = newClass()

	MnrDatatypeDefault = errors.MustNewMinor(MjrDatatype)
	DatatypeDefault = errors.MustNewMinorClass(MjrDatatype, MnrDatatypeDefault)

	MnrDatatypeConfigure = errors.MustNewMinor(MjrDatatype)
	DatatypeConfigure = errors.MustNewMinorClass(MjrDatatype, MnrDatatypeConfigure)
}
