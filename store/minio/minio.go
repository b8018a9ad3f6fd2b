// Package minio is the store driver that keeps the records as objects of the S3 compatible storage.
package minio

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/config"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/log"
	"github.com/neuronlabs/tvb/store"
)

// DriverName is the name of the minio store driver.
const DriverName = "minio"

// expiresMeta is the object user metadata key with the record expiration time.
const expiresMeta = "Tvb-Expires-At"

var logger = log.NewModuleLogger("store-minio")

func init() {
	store.MustRegisterDriver(DriverName, Open)
}

var (
	_ store.Store         = &Store{}
	_ store.HealthChecker = &Store{}
)

// Store is the minio object storage store.
type Store struct {
	client  *minio.Client
	bucket  string
	Options *store.Options
}

// Open creates the minio client for the storage configuration and makes sure the bucket exists.
func Open(ctx context.Context, cfg *config.Storage) (store.Store, error) {
	if cfg.Minio == nil {
		return nil, errors.NewDet(class.ConfigDriver, "minio store requires the 'minio' configuration")
	}
	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKeyID, cfg.Minio.SecretAccessKey, ""),
		Secure: cfg.Minio.UseSSL,
		Region: cfg.Minio.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, class.StorageBackend, "creating minio client failed")
	}
	exists, err := client.BucketExists(ctx, cfg.Minio.Bucket)
	if err != nil {
		return nil, errors.Wrapf(err, class.StorageBackend, "checking bucket: '%s' failed", cfg.Minio.Bucket)
	}
	if !exists {
		if err = client.MakeBucket(ctx, cfg.Minio.Bucket, minio.MakeBucketOptions{Region: cfg.Minio.Region}); err != nil {
			return nil, errors.Wrapf(err, class.StorageBackend, "creating bucket: '%s' failed", cfg.Minio.Bucket)
		}
		logger.Infof("Created bucket: '%s'", cfg.Minio.Bucket)
	}

	options := []store.Option{}
	if cfg.Path != "" {
		options = append(options, store.WithPrefix(strings.TrimSuffix(cfg.Path, "/")+"/"))
	}
	if cfg.DefaultExpiration != 0 {
		options = append(options, store.WithDefaultExpiration(cfg.DefaultExpiration))
	}
	return New(client, cfg.Minio.Bucket, options...), nil
}

// New creates the minio store for the 'bucket'.
func New(client *minio.Client, bucket string, options ...store.Option) *Store {
	s := &Store{client: client, bucket: bucket, Options: store.DefaultOptions()}
	for _, option := range options {
		option(s.Options)
	}
	return s
}

// Set implements store.Store interface.
func (s *Store) Set(ctx context.Context, record *store.Record, options ...store.SetOption) error {
	expiresAt := record.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = s.Options.ExpiresAt(store.NewSetOptions(options...).TTL)
	}
	putOptions := minio.PutObjectOptions{ContentType: "application/octet-stream"}
	if !expiresAt.IsZero() {
		putOptions.Expires = expiresAt
		putOptions.UserMetadata = map[string]string{expiresMeta: expiresAt.UTC().Format(time.RFC3339Nano)}
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.Options.Key(record.Key), bytes.NewReader(record.Value), int64(len(record.Value)), putOptions)
	if err != nil {
		return errors.Wrapf(err, class.StorageBackend, "putting object: '%s' failed", record.Key)
	}
	return nil
}

// Get implements store.Store interface.
func (s *Store) Get(ctx context.Context, key string) (*store.Record, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.Options.Key(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapError(err, key)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return nil, s.mapError(err, key)
	}
	rec := &store.Record{Key: key, ExpiresAt: expiresAt(info)}
	if rec.Expired(s.Options.TimeFunc()) {
		return nil, store.NotFound(key)
	}
	if rec.Value, err = io.ReadAll(obj); err != nil {
		return nil, s.mapError(err, key)
	}
	return rec, nil
}

// Delete implements store.Store interface.
func (s *Store) Delete(ctx context.Context, key string) error {
	full := s.Options.Key(key)
	if _, err := s.client.StatObject(ctx, s.bucket, full, minio.StatObjectOptions{}); err != nil {
		return s.mapError(err, key)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, full, minio.RemoveObjectOptions{}); err != nil {
		return s.mapError(err, key)
	}
	return nil
}

// Find implements store.Store interface.
func (s *Store) Find(ctx context.Context, options ...store.FindOption) ([]*store.Record, error) {
	pattern := store.NewFindPattern(options...)
	full := &store.FindPattern{Prefix: s.Options.Prefix + pattern.Prefix, Suffix: pattern.Suffix + s.Options.Suffix}

	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: full.Prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, class.StorageBackend, "listing objects failed")
		}
		if !full.Match(obj.Key) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(strings.TrimPrefix(obj.Key, s.Options.Prefix), s.Options.Suffix))
	}

	var records []*store.Record
	for _, key := range pattern.Page(keys) {
		if pattern.KeysOnly {
			records = append(records, &store.Record{Key: key})
			continue
		}
		rec, err := s.Get(ctx, key)
		if err != nil {
			if store.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// HealthCheck implements store.HealthChecker interface.
func (s *Store) HealthCheck(ctx context.Context) (*store.HealthResponse, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return &store.HealthResponse{Status: store.StatusFail, Output: err.Error()}, nil
	}
	if !exists {
		return &store.HealthResponse{Status: store.StatusFail, Output: "bucket: '" + s.bucket + "' doesn't exist"}, nil
	}
	return &store.HealthResponse{Status: store.StatusPass, Notes: []string{path.Join(s.bucket, s.Options.Prefix)}}, nil
}

func (s *Store) mapError(err error, key string) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NotFound" {
		return store.NotFound(key)
	}
	return errors.Wrapf(err, class.StorageBackend, "object: '%s' operation failed", key)
}

func expiresAt(info minio.ObjectInfo) time.Time {
	v, ok := info.UserMetadata[expiresMeta]
	if !ok {
		// the user metadata may be returned with the amz prefix
		v, ok = info.UserMetadata["X-Amz-Meta-"+expiresMeta]
	}
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
