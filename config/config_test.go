package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
)

// TestReadDefaultConfig tests the default configuration values.
func TestReadDefaultConfig(t *testing.T) {
	var c *Config
	require.NotPanics(t, func() { c = ReadDefaultConfig() })
	require.NotNil(t, c)

	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "snake", c.NamingConvention)

	t.Run("Storage", func(t *testing.T) {
		require.NotNil(t, c.Storage)
		assert.Equal(t, "memory", c.Storage.Driver)
		assert.Equal(t, "zstd", c.Storage.Compression)
		assert.Equal(t, 1024, c.Storage.ChunkRows)
		assert.Equal(t, time.Duration(-1), c.Storage.DefaultExpiration)
	})

	t.Run("Analyzers", func(t *testing.T) {
		require.NotNil(t, c.Analyzers)
		assert.Equal(t, 4, c.Analyzers.Workers)
		assert.Equal(t, 1000.0, c.Analyzers.FFT.SegmentLength)
		assert.True(t, c.Analyzers.FFT.Detrend)
		assert.Equal(t, 256, c.Analyzers.Coherence.NFFT)
		assert.Equal(t, "morlet", c.Analyzers.Wavelet.Mother)
		assert.InDelta(t, 0.002, c.Analyzers.Wavelet.FrequencyStep, 1e-12)
		assert.Equal(t, 200, c.Analyzers.ICA.MaxIterations)
	})

	require.NoError(t, c.Validate())
}

// TestReadConfigFile tests reading the config from a file.
func TestReadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tvb.yaml")
	content := `
log_level: debug
storage:
  driver: file
  path: /tmp/tvb
  compression: lz4
  chunk_rows: 16
analyzers:
  workers: 2
  fft:
    segment_length: 500
    window_function: hamming
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := ReadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "file", c.Storage.Driver)
	assert.Equal(t, "lz4", c.Storage.Compression)
	assert.Equal(t, 16, c.Storage.ChunkRows)
	assert.Equal(t, 2, c.Analyzers.Workers)
	assert.Equal(t, 500.0, c.Analyzers.FFT.SegmentLength)
	assert.Equal(t, "hamming", c.Analyzers.FFT.WindowFunction)
	// not overridden values stays default.
	assert.Equal(t, 256, c.Analyzers.Coherence.NFFT)

	require.NoError(t, c.Validate())

	t.Run("NotExists", func(t *testing.T) {
		_, err := ReadConfigFile(filepath.Join(dir, "missing.yaml"))
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.ConfigRead))
	})
}

// TestValidate tests the config validation.
func TestValidate(t *testing.T) {
	c := ReadDefaultConfig()
	c.Storage.Driver = "cassandra"
	c.Storage.ChunkRows = 0
	c.Analyzers.FFT.WindowFunction = "kaiser"

	err := c.Validate()
	require.Error(t, err)
	multi, ok := err.(errors.MultiError)
	require.True(t, ok)
	assert.Len(t, multi, 3)
	assert.True(t, errors.IsClass(err, class.ConfigValidation))

	t.Run("FileWithoutPath", func(t *testing.T) {
		c := ReadDefaultConfig()
		c.Storage.Driver = "file"
		err := c.Validate()
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.ConfigValidation))
	})

	t.Run("MinioWithoutConfig", func(t *testing.T) {
		c := ReadDefaultConfig()
		c.Storage.Driver = "minio"
		require.Error(t, c.Validate())
	})
}

// TestMinioEnv tests the minio driver configured with the environment variables.
func TestMinioEnv(t *testing.T) {
	assert.Nil(t, ReadDefaultConfig().Storage.Minio)

	t.Setenv("TVB_STORAGE_DRIVER", "minio")
	t.Setenv("TVB_STORAGE_MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("TVB_STORAGE_MINIO_BUCKET", "tvb")
	t.Setenv("TVB_STORAGE_MINIO_ACCESS_KEY_ID", "access")
	t.Setenv("TVB_STORAGE_MINIO_SECRET_ACCESS_KEY", "secret")
	t.Setenv("TVB_STORAGE_MINIO_USE_SSL", "true")

	c := ReadDefaultConfig()
	require.NotNil(t, c.Storage.Minio)
	assert.Equal(t, "minio", c.Storage.Driver)
	assert.Equal(t, "localhost:9000", c.Storage.Minio.Endpoint)
	assert.Equal(t, "tvb", c.Storage.Minio.Bucket)
	assert.Equal(t, "access", c.Storage.Minio.AccessKeyID)
	assert.Equal(t, "secret", c.Storage.Minio.SecretAccessKey)
	assert.True(t, c.Storage.Minio.UseSSL)
	assert.NoError(t, c.Validate())
}
