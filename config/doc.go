// Package config contains the configuration of the tvb library. The configuration is read with
// `github.com/spf13/viper` from the files or environment variables prefixed with 'TVB_' and validated
// with the `gopkg.in/go-playground/validator.v9`.
package config
