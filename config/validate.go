package config

import (
	"gopkg.in/go-playground/validator.v9"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
)

var validate = validator.New()

// Validate validates the configuration. Each invalid value results in a separate error
// within the returned errors.MultiError.
func (c *Config) Validate() error {
	var multi errors.MultiError
	if err := validate.Struct(c); err != nil {
		vErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return errors.Wrap(err, class.ConfigValidation, "invalid configuration")
		}
		for _, fieldError := range vErrors {
			multi = append(multi, errors.NewDetf(class.ConfigValidation, "invalid config field: '%s'", fieldError.Namespace()).
				SetDetailsf("failed on the '%s' rule", fieldError.ActualTag()))
		}
	}
	if c.Storage != nil {
		switch c.Storage.Driver {
		case "file":
			if c.Storage.Path == "" {
				multi = append(multi, errors.NewDet(class.ConfigValidation, "storage path is required for the 'file' driver"))
			}
		case "minio":
			if c.Storage.Minio == nil {
				multi = append(multi, errors.NewDet(class.ConfigValidation, "minio configuration is required for the 'minio' driver"))
			}
		}
	}
	return multi.ErrorOrNil()
}
