package traits

import (
	"reflect"
	"sort"
	"sync"

	"gopkg.in/go-playground/validator.v9"

	"github.com/neuronlabs/tvb/annotation"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/log"
	"github.com/neuronlabs/tvb/namer"
)

var logger = log.NewModuleLogger("traits")

// Options are the registry options.
type Options struct {
	// Namer is the storage naming convention function. Snake case by default.
	Namer namer.Namer
}

// Option is the function that sets the registry options.
type Option func(o *Options)

// WithNamer sets the naming convention of the field storage names.
func WithNamer(n namer.Namer) Option {
	return func(o *Options) {
		o.Namer = n
	}
}

// Registry contains mapped datatypes (as reflect.Type) and their tags to the TypeStruct representation.
type Registry struct {
	lock      sync.RWMutex
	types     map[reflect.Type]*TypeStruct
	tags      map[string]*TypeStruct
	namer     namer.Namer
	validator *validator.Validate
}

// NewRegistry creates new datatype registry.
func NewRegistry(options ...Option) *Registry {
	o := &Options{Namer: namer.NamingSnake}
	for _, option := range options {
		option(o)
	}
	v := validator.New()
	v.SetTagName(annotation.Validate)
	return &Registry{
		types:     map[reflect.Type]*TypeStruct{},
		tags:      map[string]*TypeStruct{},
		namer:     o.Namer,
		validator: v,
	}
}

// RegisterTypes maps the datatype 'values' and stores them within the registry.
// The values needs to be pointers to structs (or structs) that embed the traits.Base.
func (r *Registry) RegisterTypes(values ...interface{}) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, value := range values {
		ts, err := buildTypeStruct(value, r.namer)
		if err != nil {
			logger.Debugf("Mapping datatype: '%T' failed: %v", value, err)
			return err
		}
		if _, ok := r.types[ts.typ]; ok {
			return errors.NewDetf(class.TraitsTypeAlreadyRegistered, "datatype: '%s' already registered", ts.typ)
		}
		if other, ok := r.tags[ts.tag]; ok {
			return errors.NewDetf(class.TraitsTypeAlreadyRegistered, "datatype tag: '%s' already registered for: '%s'", ts.tag, other.typ)
		}
		r.types[ts.typ] = ts
		r.tags[ts.tag] = ts
		logger.Debug2f("Registered datatype: '%s' with %d fields", ts.tag, len(ts.fields))
	}
	return nil
}

// TypeOf gets the *TypeStruct for the provided datatype 'value'.
func (r *Registry) TypeOf(value interface{}) (*TypeStruct, error) {
	if ts, ok := value.(*TypeStruct); ok {
		return ts, nil
	}
	t := reflect.TypeOf(value)
	if t == nil {
		return nil, errors.NewDet(class.TraitsTypeInvalid, "provided nil datatype")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	r.lock.RLock()
	defer r.lock.RUnlock()

	ts, ok := r.types[t]
	if !ok {
		return nil, errors.NewDetf(class.TraitsTypeNotRegistered, "datatype: '%s' is not registered", t)
	}
	return ts, nil
}

// ByTag gets the *TypeStruct by the type tag.
func (r *Registry) ByTag(tag string) (*TypeStruct, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	ts, ok := r.tags[tag]
	return ts, ok
}

// Types gets all the registered types sorted by their tags.
func (r *Registry) Types() []*TypeStruct {
	r.lock.RLock()
	defer r.lock.RUnlock()

	types := make([]*TypeStruct, 0, len(r.tags))
	for _, ts := range r.tags {
		types = append(types, ts)
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i].tag < types[j].tag
	})
	return types
}

// New creates new instance of the datatype with given 'tag' with the default values set.
func (r *Registry) New(tag string) (Datatype, error) {
	ts, ok := r.ByTag(tag)
	if !ok {
		return nil, errors.NewDetf(class.TraitsTypeNotRegistered, "datatype tag: '%s' is not registered", tag)
	}
	dt := ts.newInstance()
	if err := r.Defaults(dt); err != nil {
		return nil, err
	}
	return dt, nil
}

// Ancestors gets all the transitive base tags of the type with given 'tag'.
// Each base tag needs to be registered.
func (r *Registry) Ancestors(tag string) ([]string, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	ts, ok := r.tags[tag]
	if !ok {
		return nil, errors.NewDetf(class.TraitsTypeNotRegistered, "datatype tag: '%s' is not registered", tag)
	}
	var (
		ancestors []string
		visited   = map[string]struct{}{tag: {}}
		queue     = append([]string{}, ts.bases...)
	)
	for len(queue) > 0 {
		base := queue[0]
		queue = queue[1:]
		if _, ok := visited[base]; ok {
			continue
		}
		visited[base] = struct{}{}

		bts, ok := r.tags[base]
		if !ok {
			return nil, errors.NewDetf(class.TraitsBaseNotFound, "base: '%s' of the datatype: '%s' is not registered", base, tag)
		}
		ancestors = append(ancestors, base)
		queue = append(queue, bts.bases...)
	}
	return ancestors, nil
}

// IsSubtype checks if the type with 'tag' is the same or the transitive subtype of the 'base'.
func (r *Registry) IsSubtype(tag, base string) bool {
	if tag == base {
		_, ok := r.ByTag(tag)
		return ok
	}
	ancestors, err := r.Ancestors(tag)
	if err != nil {
		return false
	}
	for _, a := range ancestors {
		if a == base {
			return true
		}
	}
	return false
}

// Subtypes gets all the registered transitive subtypes of the type with provided 'tag'.
// The result is sorted by the type tags and doesn't contain the type itself.
func (r *Registry) Subtypes(tag string) ([]*TypeStruct, error) {
	if _, ok := r.ByTag(tag); !ok {
		return nil, errors.NewDetf(class.TraitsTypeNotRegistered, "datatype tag: '%s' is not registered", tag)
	}
	var subtypes []*TypeStruct
	for _, ts := range r.Types() {
		if ts.tag == tag {
			continue
		}
		ancestors, err := r.Ancestors(ts.tag)
		if err != nil {
			return nil, err
		}
		for _, a := range ancestors {
			if a == tag {
				subtypes = append(subtypes, ts)
				break
			}
		}
	}
	return subtypes, nil
}
