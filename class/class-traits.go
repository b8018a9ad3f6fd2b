package class

import (
	"github.com/neuronlabs/tvb/errors"
)

// MjrTraits - major that classifies errors related with the datatype traits mapping.
var MjrTraits errors.Major

func registerTraitsClasses() {
	MjrTraits = errors.MustNewMajor()

	registerTraitsType()
	registerTraitsField()
}

/**

Traits Type

*/
var (
	// MnrTraitsType is the 'MjrTraits' minor error classification
	// on the mapped datatype types.
	MnrTraitsType errors.Minor

	// TraitsTypeInvalid is the 'MjrTraits', 'MnrTraitsType' error classification
	// when provided type is not a valid datatype structure.
	TraitsTypeInvalid errors.Class

	// TraitsTypeNotRegistered is the 'MjrTraits', 'MnrTraitsType' error classification
	// when the datatype type is not registered.
	TraitsTypeNotRegistered errors.Class

	// TraitsTypeAlreadyRegistered is the 'MjrTraits', 'MnrTraitsType' error classification
	// when the datatype tag or type is already registered.
	TraitsTypeAlreadyRegistered errors.Class

	// TraitsBaseNotFound is the 'MjrTraits', 'MnrTraitsType' error classification
	// when the declared base type tag is not registered.
	TraitsBaseNotFound errors.Class
)

func registerTraitsType() {
	MnrTraitsType = errors.MustNewMinor(MjrTraits)

	mjr, mnr := MjrTraits, MnrTraitsType
	newClass := func() errors.Class {
		return errors.MustNewClass(mjr, mnr, errors.MustNewIndex(mjr, mnr))
	}

	TraitsTypeInvalid = newClass()
	TraitsTypeNotRegistered = newClass()
	TraitsTypeAlreadyRegistered = newClass()
	TraitsBaseNotFound = newClass()
}

/**

Traits Field

*/
var (
	// MnrTraitsField is the 'MjrTraits' minor error classification
	// on the datatype field definitions.
	MnrTraitsField errors.Minor

	// TraitsTagInvalid is the 'MjrTraits', 'MnrTraitsField' error classification
	// on the invalid field's tag.
	TraitsTagInvalid errors.Class

	// TraitsFieldNotFound is the 'MjrTraits', 'MnrTraitsField' error classification
	// when the field is not found.
	TraitsFieldNotFound errors.Class

	// TraitsFieldKind is the 'MjrTraits', 'MnrTraitsField' error classification
	// when the field is of invalid kind for given operation.
	TraitsFieldKind errors.Class

	// TraitsFieldName is the 'MjrTraits', 'MnrTraitsField' error classification
	// when the field storage name is duplicated.
	TraitsFieldName errors.Class
)

func registerTraitsField() {
	MnrTraitsField = errors.MustNewMinor(MjrTraits)

	mjr, mnr := MjrTraits, MnrTraitsField
	newClass := func() errors.Class {
		return errors.MustNewClass(mjr, mnr, errors.MustNewIndex(mjr, mnr))
	}

	TraitsTagInvalid = newClass()
	TraitsFieldNotFound = newClass()
	TraitsFieldKind = newClass()
	TraitsFieldName = newClass()
}
