package analyzers

import (
	"context"
	"sort"
	"sync"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/config"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/traits"
)

// Analyzer names.
const (
	NameFFT              = "fft"
	NameCoherence        = "coherence"
	NameCrossCorrelation = "cross_correlation"
	NameCorrelation      = "correlation"
	NameCovariance       = "covariance"
	NamePCA              = "pca"
	NameICA              = "ica"
	NameWavelet          = "wavelet"
)

// Metric names.
const (
	NameGlobalVariance              = "global_variance"
	NameVarianceNodeVariance        = "variance_node_variance"
	NameKuramotoIndex               = "kuramoto_index"
	NameProxyMetastabilitySynchrony = "proxy_metastability_synchrony"
)

// Func is the analyzer with the parameters bound, resulting in the analysis datatype.
type Func func(ctx context.Context, ts datatypes.TimeSeriesData) (traits.Datatype, error)

// MetricFunc is the time series metric.
type MetricFunc func(ctx context.Context, ts datatypes.TimeSeriesData, params MetricParams) (MetricResult, error)

// Registry is the named analyzers container.
type Registry struct {
	lock      sync.RWMutex
	analyzers map[string]Func
	metrics   map[string]MetricFunc
}

// NewRegistry creates the registry of all the analyzers with the parameters taken from the config.
// A nil config results in the default analyzers config.
func NewRegistry(c *config.Analyzers) *Registry {
	if c == nil {
		c = config.ReadDefaultConfig().Analyzers
	}
	fft, coh, ica, wavelet := FFTParamsFromConfig(c), CoherenceParamsFromConfig(c), ICAParamsFromConfig(c), WaveletParamsFromConfig(c)
	r := &Registry{
		analyzers: map[string]Func{},
		metrics: map[string]MetricFunc{
			NameGlobalVariance:              GlobalVariance,
			NameVarianceNodeVariance:        VarianceNodeVariance,
			NameKuramotoIndex:               KuramotoIndex,
			NameProxyMetastabilitySynchrony: ProxyMetastabilitySynchrony,
		},
	}
	r.analyzers[NameFFT] = func(ctx context.Context, ts datatypes.TimeSeriesData) (traits.Datatype, error) {
		return FFT(ctx, ts, fft)
	}
	r.analyzers[NameCoherence] = func(ctx context.Context, ts datatypes.TimeSeriesData) (traits.Datatype, error) {
		return Coherence(ctx, ts, coh)
	}
	r.analyzers[NameCrossCorrelation] = func(ctx context.Context, ts datatypes.TimeSeriesData) (traits.Datatype, error) {
		return CrossCorrelate(ctx, ts, CrossCorrelateParams{Workers: c.Workers})
	}
	r.analyzers[NameCorrelation] = func(ctx context.Context, ts datatypes.TimeSeriesData) (traits.Datatype, error) {
		return CorrelationCoefficients(ctx, ts, CorrelationParams{Workers: c.Workers})
	}
	r.analyzers[NameCovariance] = func(ctx context.Context, ts datatypes.TimeSeriesData) (traits.Datatype, error) {
		return Covariance(ctx, ts, CovarianceParams{Workers: c.Workers})
	}
	r.analyzers[NamePCA] = func(ctx context.Context, ts datatypes.TimeSeriesData) (traits.Datatype, error) {
		return PCA(ctx, ts, PCAParams{Workers: c.Workers})
	}
	r.analyzers[NameICA] = func(ctx context.Context, ts datatypes.TimeSeriesData) (traits.Datatype, error) {
		return ICA(ctx, ts, ica)
	}
	r.analyzers[NameWavelet] = func(ctx context.Context, ts datatypes.TimeSeriesData) (traits.Datatype, error) {
		return ContinuousWaveletTransform(ctx, ts, wavelet)
	}
	return r
}

// Register sets the analyzer with the 'name'. An existing analyzer with the same name is replaced.
func (r *Registry) Register(name string, fn Func) {
	r.lock.Lock()
	defer r.lock.Unlock()
	logger.Debug2f("Registering analyzer: '%s'", name)
	r.analyzers[name] = fn
}

// Names gets the sorted analyzer names.
func (r *Registry) Names() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	names := make([]string, 0, len(r.analyzers))
	for name := range r.analyzers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MetricNames gets the sorted metric names.
func (r *Registry) MetricNames() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get gets the analyzer by 'name'.
func (r *Registry) Get(name string) (Func, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	fn, ok := r.analyzers[name]
	if !ok {
		return nil, errors.NewDetf(class.AnalyzerNotFound, "analyzer: '%s' not found", name)
	}
	return fn, nil
}

// Run runs the analyzer 'name' on the time series.
func (r *Registry) Run(ctx context.Context, name string, ts datatypes.TimeSeriesData) (traits.Datatype, error) {
	fn, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Running analyzer: '%s'", name)
	return fn(ctx, ts)
}

// Metric computes the metric 'name' of the time series.
func (r *Registry) Metric(ctx context.Context, name string, ts datatypes.TimeSeriesData, params MetricParams) (MetricResult, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, errors.NewDetf(class.AnalyzerNotFound, "metric: '%s' not found", name)
	}
	return fn(ctx, ts, params)
}
