package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/log"
)

// EnvPrefix is the prefix of the environment variables overriding the configuration - i.e. TVB_STORAGE_DRIVER.
const EnvPrefix = "TVB"

// ViperSetDefaults sets the default values for the viper config.
func ViperSetDefaults(v *viper.Viper) {
	setDefaults(v)
}

// ReadConfig reads the config named 'config' from the current directory or the 'configs' directory.
func ReadConfig() (*Config, error) {
	return ReadNamedConfig("config")
}

// ReadNamedConfig reads the config with the provided name. The config is searched within the current directory,
// the 'configs' directory and provided 'paths'.
func ReadNamedConfig(name string, paths ...string) (*Config, error) {
	v := newViper()
	v.SetConfigName(name)

	v.AddConfigPath(".")
	v.AddConfigPath("configs")
	for _, path := range paths {
		v.AddConfigPath(path)
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, class.ConfigRead, "reading config failed")
	}
	return unmarshal(v)
}

// ReadConfigFile reads the configuration from provided file path.
func ReadConfigFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, class.ConfigRead, "reading config file: '%s' failed", path)
	}
	return unmarshal(v)
}

// ReadDefaultConfig reads the default configuration, overridden by the environment variables.
func ReadDefaultConfig() *Config {
	c, err := unmarshal(newViper())
	if err != nil {
		log.Debugf("Unmarshaling default config failed: %v", err)
		panic(err)
	}
	return c
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		log.Debugf("Unmarshaling Config failed. %v", err)
		return nil, errors.Wrap(err, class.ConfigRead, "decoding config failed")
	}
	// the minio keys always have their (empty) defaults
	if c.Storage != nil && c.Storage.Minio != nil && *c.Storage.Minio == (Minio{}) {
		c.Storage.Minio = nil
	}
	return c, nil
}

// Default values.
func setDefaults(v *viper.Viper) {
	keys := map[string]interface{}{
		"log_level":                        "info",
		"naming_convention":                "snake",
		"storage.driver":                   "memory",
		"storage.path":                     "",
		"storage.compression":              "zstd",
		"storage.chunk_rows":               1024,
		"storage.default_expiration":       "-1ns",
		"storage.minio.endpoint":           "",
		"storage.minio.bucket":             "",
		"storage.minio.access_key_id":      "",
		"storage.minio.secret_access_key":  "",
		"storage.minio.region":             "",
		"storage.minio.use_ssl":            false,
		"analyzers.workers":                4,
		"analyzers.fft.segment_length":     1000.0,
		"analyzers.fft.window_function":    "",
		"analyzers.fft.detrend":            true,
		"analyzers.coherence.nfft":         256,
		"analyzers.wavelet.mother":         "morlet",
		"analyzers.wavelet.normalisation":  "energy",
		"analyzers.wavelet.q_ratio":        5.0,
		"analyzers.wavelet.sample_period":  7.8125,
		"analyzers.wavelet.frequency_lo":   0.008,
		"analyzers.wavelet.frequency_hi":   0.060,
		"analyzers.wavelet.frequency_step": 0.002,
		"analyzers.ica.n_components":       0,
		"analyzers.ica.max_iterations":     200,
		"analyzers.ica.tolerance":          1e-4,
	}

	for k, value := range keys {
		v.SetDefault(k, value)
	}
}
