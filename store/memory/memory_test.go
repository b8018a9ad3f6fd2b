package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/tvb/config"
	"github.com/neuronlabs/tvb/store"
)

// TestMemory tests the memory store operations.
func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := New(store.WithPrefix("test/"))

	require.NoError(t, m.Set(ctx, &store.Record{Key: "dt/1/meta", Value: []byte("first")}))
	require.NoError(t, m.Set(ctx, &store.Record{Key: "dt/2/meta", Value: []byte("second")}))
	require.NoError(t, m.Set(ctx, &store.Record{Key: "idx/Connectivity/1", Value: []byte{}}))

	rec, err := m.Get(ctx, "dt/1/meta")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), rec.Value)

	// the stored record is not shared with the caller
	rec.Value[0] = 'X'
	rec, err = m.Get(ctx, "dt/1/meta")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), rec.Value)

	_, err = m.Get(ctx, "dt/3/meta")
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))

	t.Run("Find", func(t *testing.T) {
		records, err := m.Find(ctx, store.WithFindPrefix("dt/"))
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "dt/1/meta", records[0].Key)
		assert.Equal(t, "dt/2/meta", records[1].Key)

		records, err = m.Find(ctx, store.WithFindPrefix("dt/"), store.WithFindOffset(1), store.WithFindKeysOnly())
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "dt/2/meta", records[0].Key)
		assert.Nil(t, records[0].Value)

		records, err = m.Find(ctx, store.WithFindSuffix("/meta"), store.WithFindLimit(1))
		require.NoError(t, err)
		require.Len(t, records, 1)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, m.Delete(ctx, "dt/2/meta"))
		err := m.Delete(ctx, "dt/2/meta")
		require.Error(t, err)
		assert.True(t, store.IsNotFound(err))
	})

	t.Run("TTL", func(t *testing.T) {
		require.NoError(t, m.Set(ctx, &store.Record{Key: "short", Value: []byte("v")}, store.SetWithTTL(time.Millisecond)))
		time.Sleep(5 * time.Millisecond)
		_, err := m.Get(ctx, "short")
		assert.True(t, store.IsNotFound(err))

		require.NoError(t, m.Set(ctx, &store.Record{Key: "expired", Value: []byte("v"), ExpiresAt: time.Now().Add(-time.Second)}))
		_, err = m.Get(ctx, "expired")
		assert.True(t, store.IsNotFound(err))
	})

	require.NoError(t, m.Close(ctx))
}

// TestOpen tests opening the memory store with the driver registry.
func TestOpen(t *testing.T) {
	assert.Contains(t, store.Drivers(), DriverName)

	s, err := store.Open(context.Background(), &config.Storage{Driver: DriverName, ChunkRows: 10})
	require.NoError(t, err)
	_, ok := s.(*Memory)
	assert.True(t, ok)

	_, err = store.Open(context.Background(), &config.Storage{Driver: "unknown"})
	require.Error(t, err)
}
