package store

import (
	"time"
)

// Options are the initialization options for the store.
type Options struct {
	// DefaultExpiration is the default expiration time that the records use. Negative value means no expiration.
	DefaultExpiration time.Duration
	// CleanupInterval sets the cleanup interval when the expired keys are being deleted from store.
	CleanupInterval time.Duration
	// Prefix, Suffix are the default prefix, suffix for the record key.
	Prefix, Suffix string
	// TimeFunc sets the time func for given options.
	TimeFunc func() time.Time
}

// DefaultOptions creates the default store options.
func DefaultOptions() *Options {
	return &Options{
		DefaultExpiration: -1,
		CleanupInterval:   -1,
		TimeFunc:          time.Now,
	}
}

// Option is an option function that changes Options.
type Option func(o *Options)

// WithDefaultExpiration sets the default expiration option.
func WithDefaultExpiration(expiration time.Duration) Option {
	return func(o *Options) {
		o.DefaultExpiration = expiration
	}
}

// WithCleanupInterval sets the interval of deleting the expired records.
func WithCleanupInterval(interval time.Duration) Option {
	return func(o *Options) {
		o.CleanupInterval = interval
	}
}

// WithPrefix sets the default prefix for the keys using this store.
func WithPrefix(prefix string) Option {
	return func(o *Options) {
		o.Prefix = prefix
	}
}

// WithSuffix sets the default suffix for the keys using this store.
func WithSuffix(suffix string) Option {
	return func(o *Options) {
		o.Suffix = suffix
	}
}

// WithTimeFunc sets the time function used by the store.
func WithTimeFunc(tf func() time.Time) Option {
	return func(o *Options) {
		o.TimeFunc = tf
	}
}

// Key gets the full key for the record 'key' with the prefix and suffix.
func (o *Options) Key(key string) string {
	return o.Prefix + key + o.Suffix
}

// ExpiresAt gets the expiration time for the 'ttl'. Zero 'ttl' uses the default expiration.
// Returns zero time if the record doesn't expire.
func (o *Options) ExpiresAt(ttl time.Duration) time.Time {
	if ttl == 0 {
		ttl = o.DefaultExpiration
	}
	if ttl < 0 {
		return time.Time{}
	}
	return o.TimeFunc().Add(ttl)
}

// SetOptions are the options used for setting the record.
type SetOptions struct {
	TTL time.Duration
}

// SetOption is an option that sets the set options.
type SetOption func(o *SetOptions)

// SetWithTTL sets the TTL while setting the record.
func SetWithTTL(ttl time.Duration) SetOption {
	return func(o *SetOptions) {
		o.TTL = ttl
	}
}

// NewSetOptions creates the set options.
func NewSetOptions(options ...SetOption) *SetOptions {
	o := &SetOptions{}
	for _, option := range options {
		option(o)
	}
	return o
}
