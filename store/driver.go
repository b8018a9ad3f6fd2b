package store

import (
	"context"
	"sort"
	"sync"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/config"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/log"
)

// Factory creates the store for provided storage configuration.
type Factory func(ctx context.Context, cfg *config.Storage) (Store, error)

var (
	driversLock sync.RWMutex
	drivers     = map[string]Factory{}
)

// RegisterDriver registers the store factory for the driver 'name'.
func RegisterDriver(name string, f Factory) error {
	driversLock.Lock()
	defer driversLock.Unlock()

	if _, ok := drivers[name]; ok {
		log.Debugf("Store driver already registered: %s", name)
		return errors.NewDetf(class.ConfigDriver, "store driver: '%s' already registered", name)
	}
	drivers[name] = f
	log.Debug2f("Store driver: '%s' registered successfully.", name)
	return nil
}

// MustRegisterDriver registers the store factory or panics.
func MustRegisterDriver(name string, f Factory) {
	if err := RegisterDriver(name, f); err != nil {
		panic(err)
	}
}

// Drivers lists the registered driver names.
func Drivers() []string {
	driversLock.RLock()
	defer driversLock.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the store for the configured driver.
func Open(ctx context.Context, cfg *config.Storage) (Store, error) {
	if cfg == nil {
		return nil, errors.NewDet(class.ConfigDriver, "no storage configuration provided")
	}
	driversLock.RLock()
	f, ok := drivers[cfg.Driver]
	driversLock.RUnlock()
	if !ok {
		return nil, errors.NewDetf(class.ConfigDriver, "store driver: '%s' is not registered", cfg.Driver)
	}
	log.Debugf("Opening store with driver: '%s'", cfg.Driver)
	return f(ctx, cfg)
}
