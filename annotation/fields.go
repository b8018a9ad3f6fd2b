package annotation

// TVB is the root struct field annotation tag.
//
//	type Connectivity struct {
//		traits.Base
//		Weights *etensor.Float64 `tvb:"label=Connection strengths;required;shape=regions,regions"`
//	}
const TVB = "tvb"

// Validate is the struct tag used by the validator.v9 scalar rules.
const Validate = "validate"

// Field definition keys.
const (
	// Name is the datatype field's tag used to set the storage name.
	Name = "name"
	// Label is the human readable field label.
	Label = "label"
	// Doc is the field's documentation.
	Doc = "doc"
	// Kind sets the field kind explicitly.
	Kind = "kind"
	// Required marks the field as required.
	Required = "required"
	// Default sets the field default value literal.
	Default = "default"
	// Choices sets the allowed field values.
	Choices = "choices"
	// Range sets the inclusive numeric range of the field.
	Range = "range"
	// Shape sets the array dimensions specification.
	Shape = "shape"
	// DType sets the array element type.
	DType = "dtype"
	// Derived marks the field as computed by the datatype's Configure.
	Derived = "derived"
)

// Field kinds used with the 'kind' key.
const (
	KindAttribute     = "attr"
	KindAttributeFull = "attribute"
	KindArray         = "array"
	KindReference     = "ref"
	KindReferenceFull = "reference"
)

// Array element types used with the 'dtype' key.
const (
	DTypeFloat = "float"
	DTypeInt   = "int"
)

// AnyDim is the shape symbol that accepts any dimension size.
const AnyDim = "*"

// Dim binds the integer attribute value or the slice attribute length to the shape symbol - i.e. 'dim=vertices'.
const Dim = "dim"
