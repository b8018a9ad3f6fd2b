package traits

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/emer/etable/etensor"

	"github.com/neuronlabs/tvb/annotation"
	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/namer"
)

// FieldKind is the kind of the datatype field.
type FieldKind int

// Field kinds enumerator.
const (
	UnknownKind FieldKind = iota
	// KindAttribute is the scalar, string, slice or other non array attribute.
	KindAttribute
	// KindArray is the n-dimensional float or int array attribute.
	KindArray
	// KindReference is the reference to other datatype.
	KindReference
)

// String implements fmt.Stringer interface.
func (f FieldKind) String() string {
	switch f {
	case KindAttribute:
		return "attribute"
	case KindArray:
		return "array"
	case KindReference:
		return "reference"
	}
	return "unknown"
}

var (
	floatTensorType = reflect.TypeOf(&etensor.Float64{})
	intTensorType   = reflect.TypeOf(&etensor.Int{})
	durationType    = reflect.TypeOf(time.Duration(0))
)

// Dim is the single array dimension specification.
type Dim struct {
	// Size is the fixed dimension size. Zero for the symbolic and any dimensions.
	Size int
	// Symbol is the name bound consistently across all the fields of the value - i.e. 'regions'.
	Symbol string
}

// Any checks if the dimension accepts any size.
func (d Dim) Any() bool {
	return d.Size == 0 && d.Symbol == ""
}

// String implements fmt.Stringer.
func (d Dim) String() string {
	switch {
	case d.Size > 0:
		return strconv.Itoa(d.Size)
	case d.Symbol != "":
		return d.Symbol
	}
	return annotation.AnyDim
}

// Field is the mapped datatype struct field.
type Field struct {
	ts           *TypeStruct
	reflectField reflect.StructField
	index        []int

	storageName string
	kind        FieldKind
	label       string
	doc         string
	required    bool
	derived     bool
	dim         string

	defaultRaw   string
	defaultValue reflect.Value
	hasDefault   bool

	choices []string

	hasRange bool
	lo, hi   float64

	shape []Dim
	dtype DType
}

// Name gets the Go struct field name.
func (f *Field) Name() string {
	return f.reflectField.Name
}

// StorageName gets the field's storage name.
func (f *Field) StorageName() string {
	return f.storageName
}

// Kind gets the field kind.
func (f *Field) Kind() FieldKind {
	return f.kind
}

// Label gets the human readable field label. If not defined the Go name is returned.
func (f *Field) Label() string {
	if f.label == "" {
		return f.reflectField.Name
	}
	return f.label
}

// Doc gets the field documentation.
func (f *Field) Doc() string {
	return f.doc
}

// Required checks if the field is required.
func (f *Field) Required() bool {
	return f.required
}

// Derived checks if the field is computed by the datatype's Configure method.
func (f *Field) Derived() bool {
	return f.derived
}

// Default gets the default value literal.
func (f *Field) Default() (string, bool) {
	return f.defaultRaw, f.hasDefault
}

// Choices gets the allowed values of the field.
func (f *Field) Choices() []string {
	return f.choices
}

// Range gets the inclusive numeric range of the field.
func (f *Field) Range() (lo, hi float64, ok bool) {
	return f.lo, f.hi, f.hasRange
}

// Shape gets the array dimensions specification.
func (f *Field) Shape() []Dim {
	return f.shape
}

// DType gets the array element type.
func (f *Field) DType() DType {
	return f.dtype
}

// DimSymbol gets the shape symbol bound by the attribute value.
func (f *Field) DimSymbol() string {
	return f.dim
}

// Type gets the field's reflect.Type.
func (f *Field) Type() reflect.Type {
	return f.reflectField.Type
}

// TypeStruct gets the field's type struct.
func (f *Field) TypeStruct() *TypeStruct {
	return f.ts
}

// String implements fmt.Stringer.
func (f *Field) String() string {
	return f.ts.tag + "." + f.storageName
}

// Value gets the reflect.Value of the field for provided datatype.
func (f *Field) Value(dt Datatype) reflect.Value {
	return reflect.ValueOf(dt).Elem().FieldByIndex(f.index)
}

// Interface gets the field value of the datatype.
func (f *Field) Interface(dt Datatype) interface{} {
	return f.Value(dt).Interface()
}

// IsZero checks if the field has zero value. Empty slices are zero.
func (f *Field) IsZero(dt Datatype) bool {
	v := f.Value(dt)
	switch v.Kind() {
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	}
	return v.IsZero()
}

// Set sets the field 'value' for the datatype.
func (f *Field) Set(dt Datatype, value interface{}) error {
	fv := f.Value(dt)
	if value == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	v := reflect.ValueOf(value)
	switch {
	case v.Type().AssignableTo(fv.Type()):
		fv.Set(v)
	case f.kind == KindAttribute && v.Type().ConvertibleTo(fv.Type()) && v.Kind() != reflect.String:
		fv.Set(v.Convert(fv.Type()))
	default:
		return errors.NewDetf(class.TraitsFieldKind, "field: '%s' of type: '%s' can't be set with: '%T'", f, fv.Type(), value)
	}
	return nil
}

// Array gets the float or int tensor of the array field. Returns nil if the array is not loaded.
func (f *Field) Array(dt Datatype) interface{} {
	if f.kind != KindArray {
		return nil
	}
	v := f.Value(dt)
	if v.IsNil() {
		return nil
	}
	return v.Interface()
}

// Reference gets the referenced datatype. Returns nil if the reference is not set or loaded.
func (f *Field) Reference(dt Datatype) Datatype {
	if f.kind != KindReference {
		return nil
	}
	v := f.Value(dt)
	if v.IsNil() {
		return nil
	}
	ref, _ := v.Interface().(Datatype)
	return ref
}

func newField(ts *TypeStruct, sf reflect.StructField, index []int, n namer.Namer) (*Field, error) {
	f := &Field{
		ts:           ts,
		reflectField: sf,
		index:        index,
		storageName:  n(sf.Name),
	}

	// infer the kind by the field type
	switch {
	case sf.Type == floatTensorType:
		f.kind, f.dtype = KindArray, DTypeFloat
	case sf.Type == intTensorType:
		f.kind, f.dtype = KindArray, DTypeInt
	case sf.Type.Kind() == reflect.Interface && sf.Type.Implements(datatypeType):
		f.kind = KindReference
	case sf.Type.Kind() == reflect.Ptr && sf.Type.Elem().Kind() == reflect.Struct && sf.Type.Implements(datatypeType):
		f.kind = KindReference
	default:
		f.kind = KindAttribute
	}

	for _, tag := range ExtractFieldTags(sf, annotation.TVB) {
		if err := f.setTag(tag); err != nil {
			return nil, err
		}
	}
	if len(f.shape) > 0 && f.kind != KindArray {
		return nil, f.tagError(annotation.Shape, "shape is allowed only for the array fields")
	}
	return f, nil
}

func (f *Field) tagError(key, format string, args ...interface{}) error {
	return errors.NewDetf(class.TraitsTagInvalid, "invalid tag: '%s' for field: '%s.%s'", key, f.ts.tag, f.reflectField.Name).
		SetDetailsf(format, args...)
}

func (f *Field) setTag(tag *FieldTag) error {
	switch tag.Key {
	case annotation.Name:
		if tag.Raw == "" {
			return f.tagError(tag.Key, "empty storage name")
		}
		f.storageName = tag.Raw
	case annotation.Label:
		f.label = tag.Raw
	case annotation.Doc:
		f.doc = tag.Raw
	case annotation.Required:
		f.required = true
	case annotation.Derived:
		f.derived = true
	case annotation.Kind:
		var kind FieldKind
		switch tag.Raw {
		case annotation.KindAttribute, annotation.KindAttributeFull:
			kind = KindAttribute
		case annotation.KindArray:
			kind = KindArray
		case annotation.KindReference, annotation.KindReferenceFull:
			kind = KindReference
		default:
			return f.tagError(tag.Key, "unknown kind: '%s'", tag.Raw)
		}
		if kind != f.kind {
			return errors.NewDetf(class.TraitsFieldKind, "field: '%s.%s' of type: '%s' can't be of kind: '%s'",
				f.ts.tag, f.reflectField.Name, f.reflectField.Type, kind)
		}
	case annotation.DType:
		if f.kind != KindArray {
			return f.tagError(tag.Key, "dtype is allowed only for the array fields")
		}
		if DType(tag.Raw) != f.dtype {
			return f.tagError(tag.Key, "dtype: '%s' doesn't match the field type: '%s'", tag.Raw, f.reflectField.Type)
		}
	case annotation.Shape:
		for _, v := range tag.Values {
			switch {
			case v == annotation.AnyDim:
				f.shape = append(f.shape, Dim{})
			case v == "":
				return f.tagError(tag.Key, "empty dimension")
			default:
				size, err := strconv.Atoi(v)
				if err != nil {
					f.shape = append(f.shape, Dim{Symbol: v})
					continue
				}
				if size <= 0 {
					return f.tagError(tag.Key, "dimension size must be positive: %d", size)
				}
				f.shape = append(f.shape, Dim{Size: size})
			}
		}
	case annotation.Choices:
		if len(tag.Values) == 0 {
			return f.tagError(tag.Key, "no choices defined")
		}
		f.choices = tag.Values
	case annotation.Range:
		if len(tag.Values) != 2 {
			return f.tagError(tag.Key, "range requires two values: 'lo,hi'")
		}
		lo, err := strconv.ParseFloat(tag.Values[0], 64)
		if err != nil {
			return f.tagError(tag.Key, "parsing lower bound failed: %v", err)
		}
		hi, err := strconv.ParseFloat(tag.Values[1], 64)
		if err != nil {
			return f.tagError(tag.Key, "parsing upper bound failed: %v", err)
		}
		if lo > hi {
			return f.tagError(tag.Key, "lower bound: %v greater than the upper: %v", lo, hi)
		}
		f.lo, f.hi, f.hasRange = lo, hi, true
	case annotation.Dim:
		if f.kind != KindAttribute {
			return f.tagError(tag.Key, "dim is allowed only for the attribute fields")
		}
		switch f.reflectField.Type.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Slice:
		default:
			return f.tagError(tag.Key, "dim requires an integer or slice attribute")
		}
		f.dim = tag.Raw
	case annotation.Default:
		if f.kind == KindReference {
			return f.tagError(tag.Key, "references can't have default values")
		}
		v, err := parseLiteral(f.reflectField.Type, tag.Raw, tag.Values)
		if err != nil {
			return errors.NewDetf(class.DatatypeDefault, "invalid default value for field: '%s.%s'", f.ts.tag, f.reflectField.Name).
				SetDetails(err.Error())
		}
		f.defaultRaw, f.defaultValue, f.hasDefault = tag.Raw, v, true
	default:
		return f.tagError(tag.Key, "unknown tag key")
	}
	return nil
}

// defaultCopy gets the copy of the default value so that the slices and arrays are not shared.
func (f *Field) defaultCopy() reflect.Value {
	v := f.defaultValue
	switch {
	case v.Type() == floatTensorType:
		return reflect.ValueOf(arrays.Copy(v.Interface().(*etensor.Float64)))
	case v.Type() == intTensorType:
		return reflect.ValueOf(arrays.CopyInt(v.Interface().(*etensor.Int)))
	case v.Kind() == reflect.Slice:
		cp := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(cp, v)
		return cp
	}
	return v
}

// parseLiteral parses the 'raw' literal into the value of type 't'.
func parseLiteral(t reflect.Type, raw string, values []string) (reflect.Value, error) {
	switch t {
	case floatTensorType:
		floats := make([]float64, len(values))
		for i, s := range values {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return reflect.Value{}, err
			}
			floats[i] = f
		}
		return reflect.ValueOf(arrays.NewFloat([]int{len(floats)}, floats...)), nil
	case intTensorType:
		ints := make([]int, len(values))
		for i, s := range values {
			n, err := strconv.Atoi(s)
			if err != nil {
				return reflect.Value{}, err
			}
			ints[i] = n
		}
		return reflect.ValueOf(arrays.NewInt([]int{len(ints)}, ints...)), nil
	case durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(d), nil
	}

	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Slice:
		if raw == "" {
			return reflect.MakeSlice(t, 0, 0), nil
		}
		sl := reflect.MakeSlice(t, len(values), len(values))
		for i, s := range values {
			elem, err := parseLiteral(t.Elem(), s, []string{s})
			if err != nil {
				return reflect.Value{}, err
			}
			sl.Index(i).Set(elem)
		}
		return sl, nil
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetFloat(n)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported default value type: '%s'", t)
	}
	return v, nil
}

// numeric gets the float values of the numeric attribute or array. The 'ok' is false for non numeric values.
func numeric(v reflect.Value) (values []float64, ok bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return []float64{float64(v.Int())}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return []float64{float64(v.Uint())}, true
	case reflect.Float32, reflect.Float64:
		return []float64{v.Float()}, true
	case reflect.Slice:
		switch v.Type().Elem().Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
		default:
			return nil, false
		}
		for i := 0; i < v.Len(); i++ {
			vs, _ := numeric(v.Index(i))
			values = append(values, vs...)
		}
		return values, true
	case reflect.Ptr:
		if v.IsNil() {
			return nil, false
		}
		if values = arrays.Floats(v.Interface()); values != nil {
			return values, true
		}
	}
	return nil, false
}

// strs gets the string values of the string or string slice attribute.
func strs(v reflect.Value) ([]string, bool) {
	switch {
	case v.Kind() == reflect.String:
		return []string{v.String()}, true
	case v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.String:
		out := make([]string, v.Len())
		for i := range out {
			out[i] = v.Index(i).String()
		}
		return out, true
	}
	return nil, false
}

func formatShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, s := range shape {
		parts[i] = strconv.Itoa(s)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
