package config

import (
	"time"
)

// Config contains general configurations for the tvb library.
type Config struct {
	// LogLevel is the current logging level.
	LogLevel string `mapstructure:"log_level" validate:"isdefault|oneof=debug3 debug2 debug info warning error critical"`

	// NamingConvention is the naming convention used for the datatype field storage names.
	// Allowed values:
	// - camel
	// - lowercamel
	// - snake
	// - kebab
	NamingConvention string `mapstructure:"naming_convention" validate:"isdefault|oneof=camel lowercamel snake kebab"`

	// Storage is the datatype storage configuration.
	Storage *Storage `mapstructure:"storage" validate:"required"`

	// Analyzers contains the default analyzers parameters.
	Analyzers *Analyzers `mapstructure:"analyzers" validate:"required"`
}

// Storage defines the configuration for the datatype store.
type Storage struct {
	// Driver is the name of the store driver.
	Driver string `mapstructure:"driver" validate:"oneof=memory file minio"`

	// Path is the root directory for the 'file' driver, or the key prefix for the 'minio' driver.
	Path string `mapstructure:"path"`

	// Compression is the compression used for the stored array chunks.
	Compression string `mapstructure:"compression" validate:"isdefault|oneof=none zstd lz4"`

	// ChunkRows is the number of first axis rows stored within a single array chunk.
	ChunkRows int `mapstructure:"chunk_rows" validate:"gt=0"`

	// DefaultExpiration is the default record expiration for the 'memory' driver. Negative value means never.
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`

	// Minio is the configuration for the 'minio' driver.
	Minio *Minio `mapstructure:"minio"`
}

// Minio is the S3 compatible object storage connection configuration.
type Minio struct {
	Endpoint        string `mapstructure:"endpoint" validate:"required"`
	Bucket          string `mapstructure:"bucket" validate:"required"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Region          string `mapstructure:"region"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Analyzers contains the default parameters of the analyzers.
type Analyzers struct {
	// Workers is the number of (state variable, mode) slices computed concurrently.
	Workers int `mapstructure:"workers" validate:"gt=0"`

	FFT       *FFT       `mapstructure:"fft" validate:"required"`
	Coherence *Coherence `mapstructure:"coherence" validate:"required"`
	Wavelet   *Wavelet   `mapstructure:"wavelet" validate:"required"`
	ICA       *ICA       `mapstructure:"ica" validate:"required"`
}

// FFT is the fourier spectrum analyzer configuration.
type FFT struct {
	// SegmentLength is the length of the segments in milliseconds.
	SegmentLength float64 `mapstructure:"segment_length" validate:"gt=0"`
	// WindowFunction is the windowing function applied to each segment.
	WindowFunction string `mapstructure:"window_function" validate:"isdefault|oneof=hamming bartlett blackman hanning"`
	// Detrend removes the linear trend of each segment.
	Detrend bool `mapstructure:"detrend"`
}

// Coherence is the node coherence analyzer configuration.
type Coherence struct {
	NFFT int `mapstructure:"nfft" validate:"gt=1"`
}

// Wavelet is the continuous wavelet transform configuration.
type Wavelet struct {
	Mother        string  `mapstructure:"mother" validate:"oneof=morlet"`
	Normalisation string  `mapstructure:"normalisation" validate:"oneof=energy gabor"`
	QRatio        float64 `mapstructure:"q_ratio" validate:"gt=0"`
	SamplePeriod  float64 `mapstructure:"sample_period" validate:"gt=0"`
	FrequencyLo   float64 `mapstructure:"frequency_lo" validate:"gt=0"`
	FrequencyHi   float64 `mapstructure:"frequency_hi" validate:"gtfield=FrequencyLo"`
	FrequencyStep float64 `mapstructure:"frequency_step" validate:"gt=0"`
}

// ICA is the independent component analysis configuration.
type ICA struct {
	// NComponents is the number of extracted components, zero means all nodes.
	NComponents   int     `mapstructure:"n_components" validate:"gte=0"`
	MaxIterations int     `mapstructure:"max_iterations" validate:"gt=0"`
	Tolerance     float64 `mapstructure:"tolerance" validate:"gt=0"`
}
