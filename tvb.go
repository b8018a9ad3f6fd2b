package tvb

import (
	"context"

	"github.com/google/uuid"

	"github.com/neuronlabs/tvb/analyzers"
	"github.com/neuronlabs/tvb/analyzers/graph"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/codec"
	"github.com/neuronlabs/tvb/config"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/log"
	"github.com/neuronlabs/tvb/namer"
	"github.com/neuronlabs/tvb/repository"
	"github.com/neuronlabs/tvb/store"
	"github.com/neuronlabs/tvb/traits"

	// registers the store drivers.
	_ "github.com/neuronlabs/tvb/store/file"
	_ "github.com/neuronlabs/tvb/store/memory"
	_ "github.com/neuronlabs/tvb/store/minio"
)

// Library is the main structure that contains the datatypes registry, the repository with its store
// and the analyzers.
type Library struct {
	cfg        *config.Config
	registry   *traits.Registry
	store      store.Store
	repository *repository.Repository
	analyzers  *analyzers.Registry
}

// New creates the library for provided config. A nil 'cfg' results in the default configuration.
func New(cfg *config.Config) (*Library, error) {
	return NewContext(context.Background(), cfg)
}

// NewContext creates the library for provided config, opening its store with the 'ctx'.
func NewContext(ctx context.Context, cfg *config.Config) (*Library, error) {
	if cfg == nil {
		cfg = config.ReadDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.LogLevel != "" {
		if err := log.SetLevelName(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	n, ok := namer.ByConvention(cfg.NamingConvention)
	if !ok {
		return nil, errors.NewDetf(class.ConfigValidation, "unknown naming convention: '%s'", cfg.NamingConvention)
	}
	registry, err := datatypes.NewRegistry(traits.WithNamer(n))
	if err != nil {
		return nil, err
	}

	compression, err := codec.ParseCompression(cfg.Storage.Compression)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	repo := repository.New(registry, s,
		repository.WithCompression(compression),
		repository.WithChunkRows(cfg.Storage.ChunkRows),
		repository.WithWorkers(cfg.Analyzers.Workers),
	)
	log.Debugf("Library initialized with the store driver: '%s'", cfg.Storage.Driver)
	return &Library{
		cfg:        cfg,
		registry:   registry,
		store:      s,
		repository: repo,
		analyzers:  analyzers.NewRegistry(cfg.Analyzers),
	}, nil
}

// Config gets the library config.
func (l *Library) Config() *config.Config {
	return l.cfg
}

// Registry gets the datatypes registry.
func (l *Library) Registry() *traits.Registry {
	return l.registry
}

// Repository gets the datatypes repository.
func (l *Library) Repository() *repository.Repository {
	return l.repository
}

// Analyzers gets the analyzers registry.
func (l *Library) Analyzers() *analyzers.Registry {
	return l.analyzers
}

/**
 *
 * Datatypes
 *
 */

// Configure sets the defaults, derives the attributes and validates the datatype
// and all its references that are not stored yet.
func (l *Library) Configure(dt traits.Datatype) error {
	return l.registry.ConfigureAll(dt)
}

// Save configures and stores the datatype with its references. The new references are configured before the datatype.
func (l *Library) Save(ctx context.Context, dt traits.Datatype) error {
	if err := l.registry.ConfigureAll(dt); err != nil {
		return err
	}
	return l.repository.Save(ctx, dt)
}

// Load loads the datatype with all its arrays.
func (l *Library) Load(ctx context.Context, gid uuid.UUID) (traits.Datatype, error) {
	dt, err := l.repository.Load(ctx, gid)
	if err != nil {
		return nil, err
	}
	if err = l.repository.LoadArrays(ctx, dt); err != nil {
		return nil, err
	}
	return dt, nil
}

// Summary gets the summary of the stored datatype.
func (l *Library) Summary(ctx context.Context, gid uuid.UUID) (map[string]string, error) {
	dt, err := l.repository.Load(ctx, gid)
	if err != nil {
		return nil, err
	}
	return l.registry.Summary(dt)
}

// List lists the stored datatypes of the 'tag' and all its subtypes.
func (l *Library) List(ctx context.Context, tag string) ([]*repository.Header, error) {
	return l.repository.List(ctx, tag, true)
}

/**
 *
 * Analyzers
 *
 */

// Analyze runs the analyzer 'name' on the stored time series and stores the result.
func (l *Library) Analyze(ctx context.Context, name string, gid uuid.UUID) (traits.Datatype, error) {
	dt, err := l.Load(ctx, gid)
	if err != nil {
		return nil, err
	}
	ts, ok := dt.(datatypes.TimeSeriesData)
	if !ok {
		return nil, errors.NewDetf(class.AnalyzerInput, "datatype: '%s' of type: '%T' is not a time series", gid, dt)
	}
	if err = ts.AsTimeSeries().Configure(); err != nil {
		return nil, err
	}
	result, err := l.analyzers.Run(ctx, name, ts)
	if err != nil {
		return nil, err
	}
	if err = l.Save(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// GraphMeasure computes the nodal graph 'measure' of the stored connectivity and stores the result.
func (l *Library) GraphMeasure(ctx context.Context, measure string, gid uuid.UUID) (*datatypes.ConnectivityMeasure, error) {
	dt, err := l.Load(ctx, gid)
	if err != nil {
		return nil, err
	}
	conn, ok := dt.(*datatypes.Connectivity)
	if !ok {
		return nil, errors.NewDetf(class.AnalyzerInput, "datatype: '%s' of type: '%T' is not a connectivity", gid, dt)
	}
	result, err := graph.Measure(ctx, conn, measure)
	if err != nil {
		return nil, err
	}
	if err = l.Save(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

/**
 *
 * Store
 *
 */

// HealthCheck checks the health of the library store.
func (l *Library) HealthCheck(ctx context.Context) (*store.HealthResponse, error) {
	return store.Check(ctx, l.store)
}

// Close closes the library store.
func (l *Library) Close(ctx context.Context) error {
	if closer, ok := l.store.(store.Closer); ok {
		return closer.Close(ctx)
	}
	return nil
}
