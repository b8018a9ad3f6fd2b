package traits

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/go-playground/validator.v9"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
)

type binding struct {
	size  int
	field string
}

type shapeBinder struct {
	bindings map[string]binding
	errs     *errors.MultiError
}

func (s *shapeBinder) bind(symbol string, size int, field string) {
	b, ok := s.bindings[symbol]
	if !ok {
		s.bindings[symbol] = binding{size: size, field: field}
		return
	}
	if b.size != size {
		*s.errs = append(*s.errs, errors.NewDetf(class.DatatypeShape,
			"dimension: '%s' of field: '%s' is %d, but it is bound to %d by field: '%s'", symbol, field, size, b.size, b.field))
	}
}

// Validate checks the datatype against the field definitions. The check covers the required fields, choices,
// ranges, array shapes with the symbol bindings, reference types, the 'validate' tag rules and the Validator interface.
// All the failures are aggregated in the errors.MultiError.
func (r *Registry) Validate(dt Datatype) error {
	ts, err := r.TypeOf(dt)
	if err != nil {
		return err
	}
	var (
		errs   errors.MultiError
		base   = dt.TraitsBase()
		binder = &shapeBinder{bindings: map[string]binding{}, errs: &errs}
	)

	for _, f := range ts.fields {
		switch f.kind {
		case KindAttribute:
			r.validateAttribute(dt, f, binder, &errs)
		case KindArray:
			r.validateArray(dt, base, f, binder, &errs)
		case KindReference:
			ref := f.Reference(dt)
			if ref == nil {
				if _, hasGID := base.Refs[f.storageName]; f.required && !hasGID {
					errs = append(errs, errors.NewDetf(class.DatatypeRequired, "required reference: '%s' is not set", f))
				}
				continue
			}
			if _, err := r.TypeOf(ref); err != nil {
				errs = append(errs, errors.NewDetf(class.DatatypeReference, "reference: '%s' points to not registered datatype: '%T'", f, ref))
			}
		}
	}

	if err := r.validator.Struct(dt); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrors {
				errs = append(errs, errors.NewDetf(class.DatatypeValue, "field: '%s' failed on the '%s' rule", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, errors.Wrap(err, class.DatatypeValue, "validating datatype failed"))
		}
	}

	if v, ok := dt.(Validator); ok {
		if err := v.ValidateTraits(); err != nil {
			switch et := err.(type) {
			case errors.MultiError:
				errs = append(errs, et...)
			case errors.ClassError:
				errs = append(errs, et)
			default:
				errs = append(errs, errors.Wrap(err, class.DatatypeValue, "datatype validation failed"))
			}
		}
	}

	if len(errs) > 0 {
		logger.Debug2f("Datatype: '%s' validation failed: %v", ts.tag, errs)
	}
	return errs.ErrorOrNil()
}

func (r *Registry) validateAttribute(dt Datatype, f *Field, binder *shapeBinder, errs *errors.MultiError) {
	v := f.Value(dt)
	if f.IsZero(dt) {
		// numbers and booleans are always set
		switch v.Kind() {
		case reflect.String, reflect.Slice, reflect.Map, reflect.Ptr, reflect.Interface:
			if f.required && !f.derived {
				*errs = append(*errs, errors.NewDetf(class.DatatypeRequired, "required attribute: '%s' is not set", f))
			}
			return
		}
	}

	if len(f.choices) > 0 {
		if values, ok := strs(v); ok {
			for _, s := range values {
				if !contains(f.choices, s) {
					*errs = append(*errs, errors.NewDetf(class.DatatypeChoice, "value: '%s' of field: '%s' is not one of: [%s]",
						s, f, strings.Join(f.choices, ", ")))
				}
			}
		} else if values, ok := numeric(v); ok {
			for _, n := range values {
				if !contains(f.choices, fmt.Sprint(n)) {
					*errs = append(*errs, errors.NewDetf(class.DatatypeChoice, "value: '%v' of field: '%s' is not one of: [%s]",
						n, f, strings.Join(f.choices, ", ")))
				}
			}
		}
	}

	if f.hasRange {
		if values, ok := numeric(v); ok {
			r.checkRange(f, values, errs)
		}
	}

	if f.dim != "" {
		switch v.Kind() {
		case reflect.Slice:
			binder.bind(f.dim, v.Len(), f.String())
		default:
			if n := int(v.Int()); n > 0 {
				binder.bind(f.dim, n, f.String())
			}
		}
	}
}

func (r *Registry) validateArray(dt Datatype, base *Base, f *Field, binder *shapeBinder, errs *errors.MultiError) {
	arr := f.Array(dt)
	var shape []int
	if arr != nil {
		shape = arrays.ShapeOf(arr)
	} else if h, ok := base.Handle(f.storageName); ok {
		shape = h.Shape
	} else {
		if f.required && !f.derived {
			*errs = append(*errs, errors.NewDetf(class.DatatypeRequired, "required array: '%s' is not set", f))
		}
		return
	}

	if len(f.shape) > 0 {
		if len(shape) != len(f.shape) {
			*errs = append(*errs, errors.NewDetf(class.DatatypeShape, "array: '%s' has %d dimensions %s, expected %d",
				f, len(shape), formatShape(shape), len(f.shape)))
			return
		}
		for i, d := range f.shape {
			switch {
			case d.Size > 0 && shape[i] != d.Size:
				*errs = append(*errs, errors.NewDetf(class.DatatypeShape, "array: '%s' dimension %d is %d, expected %d",
					f, i, shape[i], d.Size))
			case d.Symbol != "":
				binder.bind(d.Symbol, shape[i], f.String())
			}
		}
	}
	if f.hasRange && arr != nil {
		r.checkRange(f, arrays.Floats(arr), errs)
	}
}

func (r *Registry) checkRange(f *Field, values []float64, errs *errors.MultiError) {
	if len(values) == 0 {
		return
	}
	min, max, _ := arrays.Stats(values)
	if min < f.lo || max > f.hi {
		*errs = append(*errs, errors.NewDetf(class.DatatypeRange, "values of field: '%s' within [%v, %v] are out of range [%v, %v]",
			f, min, max, f.lo, f.hi))
	}
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
