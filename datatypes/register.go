package datatypes

import (
	"github.com/neuronlabs/tvb/datatypes/equations"
	"github.com/neuronlabs/tvb/traits"
)

// All gets the zero values of all the datatypes defined in this package.
func All() []interface{} {
	return []interface{}{
		&Connectivity{},
		&Surface{}, &CorticalSurface{}, &SkinAir{}, &BrainSkull{}, &SkullSkin{}, &EEGCap{}, &FaceSurface{}, &WhiteMatterSurface{},
		&RegionMapping{},
		&Sensors{}, &SensorsEEG{}, &SensorsMEG{}, &SensorsInternal{},
		&ProjectionMatrix{},
		&TimeSeries{}, &TimeSeriesRegion{}, &TimeSeriesSurface{}, &TimeSeriesSensors{},
		&TimeSeriesEEG{}, &TimeSeriesMEG{}, &TimeSeriesSEEG{},
		&FourierSpectrum{}, &CoherenceSpectrum{}, &WaveletCoefficients{},
		&CrossCorrelation{},
		&Covariance{}, &CorrelationCoefficients{}, &ConnectivityMeasure{},
		&PrincipalComponents{}, &IndependentComponents{},
	}
}

// Register registers all the datatypes and the equations within the registry 'r'.
func Register(r *traits.Registry) error {
	if err := r.RegisterTypes(All()...); err != nil {
		return err
	}
	return equations.Register(r)
}

// NewRegistry creates the registry with all the datatypes registered.
func NewRegistry(options ...traits.Option) (*traits.Registry, error) {
	r := traits.NewRegistry(options...)
	if err := Register(r); err != nil {
		return nil, err
	}
	return r, nil
}
