package traits

import (
	"reflect"

	"github.com/emer/etable/etensor"
	"github.com/google/uuid"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
)

// Defaults sets the tag default values for all the zero valued fields of the datatype.
// The invalid default literals are reported on the type registration with the class.DatatypeDefault.
func (r *Registry) Defaults(dt Datatype) error {
	ts, err := r.TypeOf(dt)
	if err != nil {
		return err
	}
	base := dt.TraitsBase()
	for _, f := range ts.fields {
		if !f.hasDefault || !f.IsZero(dt) {
			continue
		}
		if f.kind == KindArray {
			// lazy arrays are not zero
			if _, ok := base.Handle(f.storageName); ok {
				continue
			}
		}
		f.Value(dt).Set(f.defaultCopy())
		logger.Debug3f("Set default value: '%s' for field: '%s'", f.defaultRaw, f)
	}
	return nil
}

// Configure sets the default values, derives the datatype's attributes and validates the result.
func (r *Registry) Configure(dt Datatype) error {
	if err := r.Defaults(dt); err != nil {
		return err
	}
	if configurer, ok := dt.(Configurer); ok {
		if err := configurer.Configure(); err != nil {
			if _, isClassed := err.(errors.ClassError); isClassed {
				return err
			}
			return errors.Wrapf(err, class.DatatypeConfigure, "configuring datatype: '%T' failed", dt)
		}
	}
	return r.Validate(dt)
}

// ConfigureAll configures all the not stored references of the datatype (the ones with no GID),
// depth first, and then the datatype itself. The stored references are expected to be configured already.
func (r *Registry) ConfigureAll(dt Datatype) error {
	return r.configureAll(dt, map[Datatype]struct{}{})
}

func (r *Registry) configureAll(dt Datatype, seen map[Datatype]struct{}) error {
	if _, ok := seen[dt]; ok {
		return nil
	}
	seen[dt] = struct{}{}

	ts, err := r.TypeOf(dt)
	if err != nil {
		return err
	}
	for _, f := range ts.References() {
		ref := f.Reference(dt)
		if ref == nil || ref.TraitsBase().GID != uuid.Nil {
			continue
		}
		if err = r.configureAll(ref, seen); err != nil {
			return err
		}
	}
	return r.Configure(dt)
}

// Copy creates a deep copy of the datatype. The arrays and attribute slices and maps are copied,
// the references point to the same datatypes. The copy has no GID, so that it would be stored as new datatype.
func (r *Registry) Copy(dt Datatype) (Datatype, error) {
	ts, err := r.TypeOf(dt)
	if err != nil {
		return nil, err
	}
	cp := ts.newInstance()
	reflect.ValueOf(cp).Elem().Set(reflect.ValueOf(dt).Elem())

	src, dst := dt.TraitsBase(), cp.TraitsBase()
	*dst = Base{Title: src.Title, Subject: src.Subject}
	for k, h := range src.Handles {
		hc := *h
		hc.Shape = append([]int{}, h.Shape...)
		dst.SetHandle(k, &hc)
	}
	for k, gid := range src.Refs {
		dst.SetRef(k, gid)
	}

	for _, f := range ts.fields {
		v := f.Value(cp)
		switch {
		case f.kind == KindArray && !v.IsNil():
			switch t := v.Interface().(type) {
			case *etensor.Float64:
				v.Set(reflect.ValueOf(arrays.Copy(t)))
			case *etensor.Int:
				v.Set(reflect.ValueOf(arrays.CopyInt(t)))
			}
		case f.kind == KindAttribute && (v.Kind() == reflect.Slice || v.Kind() == reflect.Map) && !v.IsNil():
			v.Set(cloneValue(v))
		}
	}
	return cp, nil
}

// cloneValue copies the slices and maps, including the ones nested as the map values or slice elements.
func cloneValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		sl := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			sl.Index(i).Set(cloneValue(v.Index(i)))
		}
		return sl
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		m := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			m.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return m
	}
	return v
}
