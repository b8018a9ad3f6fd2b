// Package memory is the in-memory store driver based on the go-cache.
package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/config"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/store"
)

// DriverName is the name of the memory store driver.
const DriverName = "memory"

func init() {
	store.MustRegisterDriver(DriverName, func(_ context.Context, cfg *config.Storage) (store.Store, error) {
		options := []store.Option{store.WithPrefix(cfg.Path)}
		if cfg.DefaultExpiration != 0 {
			options = append(options, store.WithDefaultExpiration(cfg.DefaultExpiration))
		}
		return New(options...), nil
	})
}

// Compile time check if memory implements store interface.
var (
	_ store.Store  = &Memory{}
	_ store.Closer = &Memory{}
)

// Memory is a in-memory store implementation.
type Memory struct {
	cache   *cache.Cache
	Options *store.Options
}

// New creates new in-memory store.
func New(options ...store.Option) *Memory {
	m := &Memory{
		Options: store.DefaultOptions(),
	}
	for _, option := range options {
		option(m.Options)
	}
	m.cache = cache.New(m.Options.DefaultExpiration, m.Options.CleanupInterval)
	return m
}

// Set implements store.Store interface.
func (m *Memory) Set(ctx context.Context, record *store.Record, options ...store.SetOption) error {
	o := store.NewSetOptions(options...)
	cp := record.Copy()
	if cp.ExpiresAt.IsZero() {
		cp.ExpiresAt = m.Options.ExpiresAt(o.TTL)
	}
	ttl := cache.NoExpiration
	if !cp.ExpiresAt.IsZero() {
		ttl = cp.ExpiresAt.Sub(m.Options.TimeFunc())
		if ttl <= 0 {
			// already expired
			m.cache.Delete(m.Options.Key(record.Key))
			return nil
		}
	}
	m.cache.Set(m.Options.Key(record.Key), cp, ttl)
	return nil
}

// Get implements store.Store interface.
func (m *Memory) Get(ctx context.Context, key string) (*store.Record, error) {
	r, found := m.cache.Get(m.Options.Key(key))
	if !found {
		return nil, store.NotFound(key)
	}
	rec, ok := r.(*store.Record)
	if !ok {
		return nil, errors.NewDet(class.StorageBackend, "provided record is not a store.Record")
	}
	return rec.Copy(), nil
}

// Delete implements store.Store interface.
func (m *Memory) Delete(ctx context.Context, key string) error {
	full := m.Options.Key(key)
	if _, found := m.cache.Get(full); !found {
		return store.NotFound(key)
	}
	m.cache.Delete(full)
	return nil
}

// Find implements store.Store.
func (m *Memory) Find(ctx context.Context, options ...store.FindOption) ([]*store.Record, error) {
	pattern := store.NewFindPattern(options...)
	items := m.cache.Items()
	now := time.Now().UnixNano()

	fullPattern := &store.FindPattern{Prefix: m.Options.Prefix + pattern.Prefix, Suffix: pattern.Suffix + m.Options.Suffix}
	records := map[string]*store.Record{}
	var keys []string
	for k, v := range items {
		if v.Expiration > 0 && now > v.Expiration {
			continue
		}
		if !fullPattern.Match(k) {
			continue
		}
		rec, ok := v.Object.(*store.Record)
		if !ok {
			return nil, errors.NewDet(class.StorageBackend, "a record is not store.Record")
		}
		records[rec.Key] = rec
		keys = append(keys, rec.Key)
	}

	var result []*store.Record
	for _, key := range pattern.Page(keys) {
		rec := records[key]
		if pattern.KeysOnly {
			result = append(result, &store.Record{Key: rec.Key, ExpiresAt: rec.ExpiresAt})
			continue
		}
		result = append(result, rec.Copy())
	}
	return result, nil
}

// Close implements store.Closer interface.
func (m *Memory) Close(context.Context) error {
	m.cache.Flush()
	return nil
}
