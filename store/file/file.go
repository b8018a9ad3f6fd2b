// Package file is the store driver that keeps each record in a separate file under the root directory.
package file

import (
	"context"
	"encoding/binary"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/config"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/log"
	"github.com/neuronlabs/tvb/store"
)

// DriverName is the name of the file store driver.
const DriverName = "file"

// recordExt is the extension of the record files.
const recordExt = ".rec"

var logger = log.NewModuleLogger("store-file")

func init() {
	store.MustRegisterDriver(DriverName, func(_ context.Context, cfg *config.Storage) (store.Store, error) {
		var options []store.Option
		if cfg.DefaultExpiration != 0 {
			options = append(options, store.WithDefaultExpiration(cfg.DefaultExpiration))
		}
		return New(cfg.Path, options...)
	})
}

var (
	_ store.Store         = &Store{}
	_ store.HealthChecker = &Store{}
)

// Store is the file system store. Each record is written atomically into the file
// prefixed with the record's expiration time.
type Store struct {
	root    string
	Options *store.Options
}

// New creates the file store rooted at the 'root' directory. The directory is created if it doesn't exist.
func New(root string, options ...store.Option) (*Store, error) {
	if root == "" {
		return nil, errors.NewDet(class.ConfigDriver, "file store requires the root directory path")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrapf(err, class.StorageBackend, "creating store directory: '%s' failed", root)
	}
	s := &Store{root: root, Options: store.DefaultOptions()}
	for _, option := range options {
		option(s.Options)
	}
	return s, nil
}

// Set implements store.Store interface.
func (s *Store) Set(ctx context.Context, record *store.Record, options ...store.SetOption) error {
	fp, err := s.path(record.Key)
	if err != nil {
		return err
	}
	expiresAt := record.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = s.Options.ExpiresAt(store.NewSetOptions(options...).TTL)
	}
	if err = os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return errors.Wrapf(err, class.StorageBackend, "creating directory for key: '%s' failed", record.Key)
	}

	data := make([]byte, 8+len(record.Value))
	if !expiresAt.IsZero() {
		binary.LittleEndian.PutUint64(data, uint64(expiresAt.UnixNano()))
	}
	copy(data[8:], record.Value)

	tmp, err := os.CreateTemp(filepath.Dir(fp), ".tmp-*")
	if err != nil {
		return errors.Wrap(err, class.StorageBackend, "creating temporary file failed")
	}
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, class.StorageBackend, "writing record failed")
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, class.StorageBackend, "closing record file failed")
	}
	if err = os.Rename(tmp.Name(), fp); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, class.StorageBackend, "renaming record file failed")
	}
	logger.Debug3f("Stored record: '%s' (%d bytes)", record.Key, len(record.Value))
	return nil
}

// Get implements store.Store interface.
func (s *Store) Get(ctx context.Context, key string) (*store.Record, error) {
	fp, err := s.path(key)
	if err != nil {
		return nil, err
	}
	rec, err := s.read(key, fp)
	if err != nil {
		return nil, err
	}
	if rec.Expired(s.Options.TimeFunc()) {
		os.Remove(fp)
		return nil, store.NotFound(key)
	}
	return rec, nil
}

// Delete implements store.Store interface.
func (s *Store) Delete(ctx context.Context, key string) error {
	fp, err := s.path(key)
	if err != nil {
		return err
	}
	if err = os.Remove(fp); err != nil {
		if os.IsNotExist(err) {
			return store.NotFound(key)
		}
		return errors.Wrapf(err, class.StorageBackend, "deleting key: '%s' failed", key)
	}
	return nil
}

// Find implements store.Store interface.
func (s *Store) Find(ctx context.Context, options ...store.FindOption) ([]*store.Record, error) {
	pattern := store.NewFindPattern(options...)
	full := &store.FindPattern{Prefix: s.Options.Prefix + pattern.Prefix, Suffix: pattern.Suffix + s.Options.Suffix}

	var keys []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err = ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, recordExt) {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		fullKey := strings.TrimSuffix(filepath.ToSlash(rel), recordExt)
		if !full.Match(fullKey) {
			return nil
		}
		keys = append(keys, strings.TrimSuffix(strings.TrimPrefix(fullKey, s.Options.Prefix), s.Options.Suffix))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, class.StorageBackend, "walking the store directory failed")
	}

	now := s.Options.TimeFunc()
	var records []*store.Record
	for _, key := range pattern.Page(keys) {
		fp, _ := s.path(key)
		var rec *store.Record
		if pattern.KeysOnly {
			rec, err = s.readHeader(key, fp)
		} else {
			rec, err = s.read(key, fp)
		}
		if err != nil {
			if store.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if rec.Expired(now) {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// HealthCheck implements store.HealthChecker interface.
func (s *Store) HealthCheck(ctx context.Context) (*store.HealthResponse, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return &store.HealthResponse{Status: store.StatusFail, Output: err.Error()}, nil
	}
	if !info.IsDir() {
		return &store.HealthResponse{Status: store.StatusFail, Output: "store root is not a directory"}, nil
	}
	return &store.HealthResponse{Status: store.StatusPass, Notes: []string{s.root}}, nil
}

func (s *Store) read(key, fp string) (*store.Record, error) {
	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.NotFound(key)
		}
		return nil, errors.Wrapf(err, class.StorageBackend, "reading key: '%s' failed", key)
	}
	if len(data) < 8 {
		return nil, errors.NewDetf(class.StorageBackend, "record file for key: '%s' is corrupted", key)
	}
	rec := &store.Record{Key: key, Value: data[8:]}
	if ns := int64(binary.LittleEndian.Uint64(data)); ns != 0 {
		rec.ExpiresAt = time.Unix(0, ns)
	}
	return rec, nil
}

// readHeader reads only the expiration header of the record file. The record value is not set.
func (s *Store) readHeader(key, fp string) (*store.Record, error) {
	f, err := os.Open(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.NotFound(key)
		}
		return nil, errors.Wrapf(err, class.StorageBackend, "reading key: '%s' failed", key)
	}
	defer f.Close()

	var header [8]byte
	if _, err = io.ReadFull(f, header[:]); err != nil {
		return nil, errors.NewDetf(class.StorageBackend, "record file for key: '%s' is corrupted", key)
	}
	rec := &store.Record{Key: key}
	if ns := int64(binary.LittleEndian.Uint64(header[:])); ns != 0 {
		rec.ExpiresAt = time.Unix(0, ns)
	}
	return rec, nil
}

// path gets the file path for the 'key'. The keys are slash separated and can't escape the root directory.
func (s *Store) path(key string) (string, error) {
	full := s.Options.Key(key)
	if full == "" || strings.HasPrefix(full, "/") || path.Clean(full) != full {
		return "", errors.NewDetf(class.StorageKey, "invalid key: '%s'", key)
	}
	for _, part := range strings.Split(full, "/") {
		if part == ".." || part == "." || part == "" {
			return "", errors.NewDetf(class.StorageKey, "invalid key: '%s'", key)
		}
	}
	return filepath.Join(s.root, filepath.FromSlash(full)+recordExt), nil
}
