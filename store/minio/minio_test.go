package minio

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/tvb/config"
	"github.com/neuronlabs/tvb/store"
)

// TestMinioStore requires a running MinIO instance defined with the TVB_TEST_MINIO_ENDPOINT.
func TestMinioStore(t *testing.T) {
	endpoint := os.Getenv("TVB_TEST_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("TVB_TEST_MINIO_ENDPOINT not set")
	}
	ctx := context.Background()

	s, err := store.Open(ctx, &config.Storage{
		Driver: DriverName,
		Path:   "tvb-test",
		Minio: &config.Minio{
			Endpoint:        endpoint,
			Bucket:          "tvb-test",
			AccessKeyID:     "minioadmin",
			SecretAccessKey: "minioadmin",
		},
	})
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	require.NoError(t, s.Set(ctx, &store.Record{Key: "dt/a/meta", Value: []byte("meta")}))
	rec, err := s.Get(ctx, "dt/a/meta")
	require.NoError(t, err)
	assert.Equal(t, []byte("meta"), rec.Value)

	records, err := s.Find(ctx, store.WithFindPrefix("dt/a/"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "dt/a/meta", records[0].Key)

	require.NoError(t, s.Delete(ctx, "dt/a/meta"))
	_, err = s.Get(ctx, "dt/a/meta")
	assert.True(t, store.IsNotFound(err))

	resp, err := store.Check(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, store.StatusPass, resp.Status)
}

// TestOpenNoConfig tests opening the store without the minio config.
func TestOpenNoConfig(t *testing.T) {
	_, err := store.Open(context.Background(), &config.Storage{Driver: DriverName})
	require.Error(t, err)
}
