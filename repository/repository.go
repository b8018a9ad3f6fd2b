package repository

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/log"
	"github.com/neuronlabs/tvb/store"
	"github.com/neuronlabs/tvb/traits"
)

var logger = log.NewModuleLogger("repository")

// Repository is the datatype persistence adapter over the key-value store.
type Repository struct {
	registry *traits.Registry
	store    store.Store
	options  *Options
	now      func() time.Time
}

// New creates new repository for the datatypes mapped in the 'registry' persisted in the store 's'.
func New(registry *traits.Registry, s store.Store, options ...Option) *Repository {
	o := defaultOptions()
	for _, option := range options {
		option(o)
	}
	if o.ChunkRows <= 0 {
		o.ChunkRows = DefaultChunkRows
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	return &Repository{registry: registry, store: s, options: o, now: time.Now}
}

// Store gets the repository store.
func (r *Repository) Store() store.Store {
	return r.store
}

// Header is the short description of the stored datatype.
type Header struct {
	GID       uuid.UUID `json:"gid"`
	Tag       string    `json:"tag"`
	Title     string    `json:"title,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// meta is the stored datatype meta record.
type meta struct {
	Header
	Attributes map[string]json.RawMessage     `json:"attributes,omitempty"`
	Handles    map[string]*traits.ArrayHandle `json:"handles,omitempty"`
	Refs       map[string]uuid.UUID           `json:"refs,omitempty"`
}

// Save stores the datatype, its arrays and (recursively) all the loaded references.
// The GID is assigned for the new datatypes.
func (r *Repository) Save(ctx context.Context, dt traits.Datatype) error {
	return r.save(ctx, dt, map[traits.Datatype]struct{}{})
}

func (r *Repository) save(ctx context.Context, dt traits.Datatype, saved map[traits.Datatype]struct{}) error {
	if _, ok := saved[dt]; ok {
		return nil
	}
	saved[dt] = struct{}{}

	ts, err := r.registry.TypeOf(dt)
	if err != nil {
		return err
	}
	base := dt.TraitsBase()
	if base.GID == uuid.Nil {
		base.GID = uuid.New()
	}
	if base.CreatedAt.IsZero() {
		base.CreatedAt = r.now().UTC()
	}

	for _, f := range ts.References() {
		ref := f.Reference(dt)
		if ref == nil {
			continue
		}
		if err = r.save(ctx, ref, saved); err != nil {
			return err
		}
		base.SetRef(f.StorageName(), ref.TraitsBase().GID)
	}

	for _, f := range ts.Arrays() {
		if err = r.saveArray(ctx, dt, f); err != nil {
			return err
		}
	}

	m := &meta{
		Header: Header{
			GID:       base.GID,
			Tag:       ts.Tag(),
			Title:     base.Title,
			Subject:   base.Subject,
			CreatedAt: base.CreatedAt,
		},
		Attributes: map[string]json.RawMessage{},
		Handles:    base.Handles,
		Refs:       base.Refs,
	}
	for _, f := range ts.Attributes() {
		data, err := json.Marshal(f.Interface(dt))
		if err != nil {
			return errors.Wrapf(err, class.StorageCodec, "encoding attribute: '%s' failed", f)
		}
		m.Attributes[f.StorageName()] = data
	}
	data, err := json.Marshal(m)
	if err != nil {
		return errors.Wrapf(err, class.StorageCodec, "encoding datatype: '%s' meta failed", ts.Tag())
	}
	if err = r.store.Set(ctx, &store.Record{Key: metaKey(base.GID), Value: data}); err != nil {
		return err
	}
	if err = r.store.Set(ctx, &store.Record{Key: indexKey(ts.Tag(), base.GID), Value: []byte(ts.Tag())}); err != nil {
		return err
	}
	logger.Debugf("Saved datatype: '%s' with GID: '%s'", ts.Tag(), base.GID)
	return nil
}

// Load loads the datatype stored with 'gid'. The arrays are not loaded - the datatype contains only their handles.
func (r *Repository) Load(ctx context.Context, gid uuid.UUID) (traits.Datatype, error) {
	m, err := r.getMeta(ctx, gid)
	if err != nil {
		return nil, err
	}
	dt, err := r.registry.New(m.Tag)
	if err != nil {
		return nil, err
	}
	if err = r.fill(dt, m); err != nil {
		return nil, err
	}
	return dt, nil
}

// LoadInto loads the datatype stored with 'gid' into the 'dst'. The 'dst' must be of the stored datatype type.
func (r *Repository) LoadInto(ctx context.Context, gid uuid.UUID, dst traits.Datatype) error {
	ts, err := r.registry.TypeOf(dst)
	if err != nil {
		return err
	}
	m, err := r.getMeta(ctx, gid)
	if err != nil {
		return err
	}
	if m.Tag != ts.Tag() {
		return errors.NewDetf(class.DatatypeReference, "stored datatype: '%s' is of type: '%s', not: '%s'", gid, m.Tag, ts.Tag())
	}
	if err = r.registry.Defaults(dst); err != nil {
		return err
	}
	return r.fill(dst, m)
}

// LoadReference loads the referenced datatype of the 'field' and sets it within the 'dt'.
func (r *Repository) LoadReference(ctx context.Context, dt traits.Datatype, field string) (traits.Datatype, error) {
	f, err := r.field(dt, field, traits.KindReference)
	if err != nil {
		return nil, err
	}
	gid, ok := dt.TraitsBase().Refs[f.StorageName()]
	if !ok {
		return nil, errors.NewDetf(class.DatatypeReference, "reference: '%s' is not stored", f)
	}
	ref, err := r.Load(ctx, gid)
	if err != nil {
		return nil, err
	}
	if err = f.Set(dt, ref); err != nil {
		return nil, errors.NewDetf(class.DatatypeReference, "stored reference: '%s' of type: '%T' doesn't match the field type", f, ref)
	}
	return ref, nil
}

// List lists the headers of the stored datatypes with the 'tag'. If 'includeSubtypes' is set, the datatypes
// of all registered subtypes are listed too. The headers are sorted by their creation time.
func (r *Repository) List(ctx context.Context, tag string, includeSubtypes bool) ([]*Header, error) {
	if _, ok := r.registry.ByTag(tag); !ok {
		return nil, errors.NewDetf(class.TraitsTypeNotRegistered, "datatype tag: '%s' is not registered", tag)
	}
	tags := []string{tag}
	if includeSubtypes {
		subtypes, err := r.registry.Subtypes(tag)
		if err != nil {
			return nil, err
		}
		for _, ts := range subtypes {
			tags = append(tags, ts.Tag())
		}
	}

	var headers []*Header
	for _, t := range tags {
		records, err := r.store.Find(ctx, store.WithFindPrefix(indexPrefix(t)), store.WithFindKeysOnly())
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			gid, err := gidFromIndexKey(rec.Key)
			if err != nil {
				logger.Warningf("Invalid index key: '%s'", rec.Key)
				continue
			}
			m, err := r.getMeta(ctx, gid)
			if err != nil {
				if store.IsNotFound(err) {
					logger.Warningf("Index: '%s' points to not existing datatype", rec.Key)
					continue
				}
				return nil, err
			}
			h := m.Header
			headers = append(headers, &h)
		}
	}
	sort.Slice(headers, func(i, j int) bool {
		if headers[i].CreatedAt.Equal(headers[j].CreatedAt) {
			return headers[i].GID.String() < headers[j].GID.String()
		}
		return headers[i].CreatedAt.Before(headers[j].CreatedAt)
	})
	return headers, nil
}

// Delete deletes the datatype stored with 'gid' with all its arrays and the index.
// The referenced datatypes are not deleted.
func (r *Repository) Delete(ctx context.Context, gid uuid.UUID) error {
	m, err := r.getMeta(ctx, gid)
	if err != nil {
		return err
	}
	records, err := r.store.Find(ctx, store.WithFindPrefix(datatypePrefix(gid)+"arr/"), store.WithFindKeysOnly())
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err = r.store.Delete(ctx, rec.Key); err != nil && !store.IsNotFound(err) {
			return err
		}
	}
	if err = r.store.Delete(ctx, indexKey(m.Tag, gid)); err != nil && !store.IsNotFound(err) {
		return err
	}
	if err = r.store.Delete(ctx, metaKey(gid)); err != nil {
		return err
	}
	logger.Debugf("Deleted datatype: '%s' with GID: '%s'", m.Tag, gid)
	return nil
}

func (r *Repository) getMeta(ctx context.Context, gid uuid.UUID) (*meta, error) {
	rec, err := r.store.Get(ctx, metaKey(gid))
	if err != nil {
		return nil, err
	}
	m := &meta{}
	if err = json.Unmarshal(rec.Value, m); err != nil {
		return nil, errors.Wrapf(err, class.StorageCodec, "decoding datatype: '%s' meta failed", gid)
	}
	return m, nil
}

func (r *Repository) fill(dt traits.Datatype, m *meta) error {
	ts, err := r.registry.TypeOf(dt)
	if err != nil {
		return err
	}
	base := dt.TraitsBase()
	base.GID = m.GID
	base.Title = m.Title
	base.Subject = m.Subject
	base.CreatedAt = m.CreatedAt
	base.Handles = m.Handles
	base.Refs = m.Refs

	// the handles take precedence over the default arrays
	for _, f := range ts.Arrays() {
		if _, ok := base.Handle(f.StorageName()); ok {
			if err = f.Set(dt, nil); err != nil {
				return err
			}
		}
	}
	for name, raw := range m.Attributes {
		f, ok := ts.Field(name)
		if !ok || f.Kind() != traits.KindAttribute {
			logger.Debugf("Stored attribute: '%s' is not defined for type: '%s'", name, ts.Tag())
			continue
		}
		if err = json.Unmarshal(raw, f.Value(dt).Addr().Interface()); err != nil {
			return errors.Wrapf(err, class.StorageCodec, "decoding attribute: '%s' failed", f)
		}
	}
	return nil
}

func (r *Repository) field(dt traits.Datatype, name string, kind traits.FieldKind) (*traits.Field, error) {
	ts, err := r.registry.TypeOf(dt)
	if err != nil {
		return nil, err
	}
	f, ok := ts.Field(name)
	if !ok {
		return nil, errors.NewDetf(class.TraitsFieldNotFound, "field: '%s' not found for type: '%s'", name, ts.Tag())
	}
	if f.Kind() != kind {
		return nil, errors.NewDetf(class.TraitsFieldKind, "field: '%s' is not a %s", f, kind)
	}
	return f, nil
}
