package traits

import (
	"reflect"

	"github.com/neuronlabs/tvb/annotation"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/namer"
)

// TypeStruct is the mapped datatype structure.
type TypeStruct struct {
	tag        string
	typ        reflect.Type
	bases      []string
	collection string

	fields        []*Field
	byName        map[string]*Field
	byStorageName map[string]*Field
	depths        map[string]int
}

// Tag gets the datatype type tag.
func (t *TypeStruct) Tag() string {
	return t.tag
}

// Type gets the struct reflect.Type.
func (t *TypeStruct) Type() reflect.Type {
	return t.typ
}

// Bases gets the direct base type tags.
func (t *TypeStruct) Bases() []string {
	return t.bases
}

// Collection gets the plural collection name of the type - i.e. 'connectivities'.
func (t *TypeStruct) Collection() string {
	return t.collection
}

// Fields gets all the mapped fields in the declaration order.
func (t *TypeStruct) Fields() []*Field {
	return t.fields
}

// Field gets the field by its Go name or the storage name.
func (t *TypeStruct) Field(name string) (*Field, bool) {
	if f, ok := t.byName[name]; ok {
		return f, true
	}
	f, ok := t.byStorageName[name]
	return f, ok
}

// MustField gets the field by its name or panics.
func (t *TypeStruct) MustField(name string) *Field {
	f, ok := t.Field(name)
	if !ok {
		panic(errors.NewDetf(class.TraitsFieldNotFound, "field: '%s' not found for type: '%s'", name, t.tag))
	}
	return f
}

// Arrays gets the array fields.
func (t *TypeStruct) Arrays() []*Field {
	return t.fieldsOfKind(KindArray)
}

// Attributes gets the attribute fields.
func (t *TypeStruct) Attributes() []*Field {
	return t.fieldsOfKind(KindAttribute)
}

// References gets the reference fields.
func (t *TypeStruct) References() []*Field {
	return t.fieldsOfKind(KindReference)
}

// String implements fmt.Stringer.
func (t *TypeStruct) String() string {
	return t.tag
}

func (t *TypeStruct) fieldsOfKind(kind FieldKind) []*Field {
	var fields []*Field
	for _, f := range t.fields {
		if f.kind == kind {
			fields = append(fields, f)
		}
	}
	return fields
}

// newInstance creates new zero value pointer of the type.
func (t *TypeStruct) newInstance() Datatype {
	return reflect.New(t.typ).Interface().(Datatype)
}

func typeTag(t reflect.Type) string {
	typer, ok := reflect.New(t).Interface().(Typer)
	if !ok {
		return t.Name()
	}
	tag := typer.TypeTag()
	if tag == "" {
		return t.Name()
	}
	// the TypeTag method promoted from the embedded datatype doesn't name this type
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type != baseType && sf.Type.Kind() == reflect.Struct && typeTag(sf.Type) == tag {
			return t.Name()
		}
	}
	return tag
}

func buildTypeStruct(value interface{}, n namer.Namer) (*TypeStruct, error) {
	t := reflect.TypeOf(value)
	if t == nil {
		return nil, errors.NewDet(class.TraitsTypeInvalid, "provided nil datatype")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.NewDetf(class.TraitsTypeInvalid, "provided datatype: '%s' is not a struct", t)
	}
	if !reflect.PtrTo(t).Implements(datatypeType) {
		return nil, errors.NewDetf(class.TraitsTypeInvalid, "provided datatype: '%s' doesn't embed traits.Base", t)
	}

	ts := &TypeStruct{
		tag:           typeTag(t),
		typ:           t,
		byName:        map[string]*Field{},
		byStorageName: map[string]*Field{},
		depths:        map[string]int{},
	}
	ts.collection = namer.Collection(n, ts.tag)

	if err := ts.mapFields(t, nil, n); err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	addBase := func(tag string) {
		if _, ok := seen[tag]; ok || tag == ts.tag {
			return
		}
		seen[tag] = struct{}{}
		ts.bases = append(ts.bases, tag)
	}
	// the embedded datatypes are the implicit bases
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.Anonymous || sf.Type == baseType || sf.Type.Kind() != reflect.Struct {
			continue
		}
		if reflect.PtrTo(sf.Type).Implements(datatypeType) {
			addBase(typeTag(sf.Type))
		}
	}
	if baseTyper, ok := ts.newInstance().(BaseTyper); ok {
		for _, tag := range baseTyper.BaseTags() {
			addBase(tag)
		}
	}
	return ts, nil
}

func (t *TypeStruct) mapFields(rt reflect.Type, index []int, n namer.Namer) error {
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		fieldIndex := make([]int, len(index)+1)
		copy(fieldIndex, index)
		fieldIndex[len(index)] = i

		if sf.Anonymous {
			if sf.Type == baseType || sf.Type.Kind() != reflect.Struct {
				continue
			}
			if err := t.mapFields(sf.Type, fieldIndex, n); err != nil {
				return err
			}
			continue
		}
		// unexported
		if sf.PkgPath != "" {
			continue
		}
		if tag, ok := sf.Tag.Lookup(annotation.TVB); ok && tag == annotation.Skip {
			continue
		}

		// the shallower fields shadow the embedded ones
		if depth, ok := t.depths[sf.Name]; ok {
			if depth <= len(fieldIndex) {
				continue
			}
			t.removeField(sf.Name)
		}

		f, err := newField(t, sf, fieldIndex, n)
		if err != nil {
			return err
		}
		if _, ok := t.byStorageName[f.storageName]; ok {
			return errors.NewDetf(class.TraitsFieldName, "duplicated storage name: '%s' for type: '%s'", f.storageName, t.tag)
		}
		t.fields = append(t.fields, f)
		t.byName[sf.Name] = f
		t.byStorageName[f.storageName] = f
		t.depths[sf.Name] = len(fieldIndex)
	}
	return nil
}

func (t *TypeStruct) removeField(name string) {
	f := t.byName[name]
	delete(t.byName, name)
	delete(t.byStorageName, f.storageName)
	delete(t.depths, name)
	for i, field := range t.fields {
		if field == f {
			t.fields = append(t.fields[:i], t.fields[i+1:]...)
			break
		}
	}
}
