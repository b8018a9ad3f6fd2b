package store

import (
	"sort"
	"strings"
)

// FindPattern is the pattern used for querying the store.
type FindPattern struct {
	Suffix string
	Prefix string
	Limit  int
	Offset int
	// KeysOnly finds the records without their values.
	KeysOnly bool
}

// FindOption is a option func that changes find pattern.
type FindOption func(o *FindPattern)

// NewFindPattern creates the find pattern for provided options.
func NewFindPattern(options ...FindOption) *FindPattern {
	p := &FindPattern{}
	for _, option := range options {
		option(p)
	}
	return p
}

// WithFindLimit sets the limit for the find pattern.
func WithFindLimit(limit int) FindOption {
	return func(o *FindPattern) {
		o.Limit = limit
	}
}

// WithFindOffset sets the offset for the find pattern.
func WithFindOffset(offset int) FindOption {
	return func(o *FindPattern) {
		o.Offset = offset
	}
}

// WithFindPrefix sets the prefix for the find pattern.
func WithFindPrefix(prefix string) FindOption {
	return func(o *FindPattern) {
		o.Prefix = prefix
	}
}

// WithFindSuffix sets the suffix for the find pattern.
func WithFindSuffix(suffix string) FindOption {
	return func(o *FindPattern) {
		o.Suffix = suffix
	}
}

// WithFindKeysOnly finds the records without loading their values.
func WithFindKeysOnly() FindOption {
	return func(o *FindPattern) {
		o.KeysOnly = true
	}
}

// Match checks if the 'key' matches the pattern prefix and suffix.
func (p *FindPattern) Match(key string) bool {
	return strings.HasPrefix(key, p.Prefix) && strings.HasSuffix(key, p.Suffix)
}

// Page sorts the 'keys' and applies the pattern's offset and limit.
func (p *FindPattern) Page(keys []string) []string {
	sort.Strings(keys)
	if p.Offset > 0 {
		if p.Offset >= len(keys) {
			return nil
		}
		keys = keys[p.Offset:]
	}
	if p.Limit > 0 && p.Limit < len(keys) {
		keys = keys[:p.Limit]
	}
	return keys
}
