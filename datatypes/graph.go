package datatypes

import (
	"github.com/emer/etable/etensor"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/traits"
)

// Covariance is the covariance matrix of the nodes of the time series.
type Covariance struct {
	traits.Base

	Source TimeSeriesData   `tvb:"label=Source time-series;required"`
	Array  *etensor.Float64 `tvb:"name=array_data;label=Covariance;required;shape=nodes,nodes,sv,mode"`
}

// CorrelationCoefficients is the Pearson correlation coefficients matrix of the nodes of the time series.
type CorrelationCoefficients struct {
	traits.Base

	Source         TimeSeriesData   `tvb:"label=Source time-series;required"`
	Array          *etensor.Float64 `tvb:"name=array_data;label=Correlation coefficients;required;shape=nodes,nodes,sv,mode;range=-1.000001,1.000001"`
	LabelsOrdering []string         `tvb:"label=Dimension names;default=Node,Node,State Variable,Mode"`
}

// ConnectivityMeasure is the per region measure of the connectivity - i.e. a graph theoretical measure.
type ConnectivityMeasure struct {
	traits.Base

	Measure      string           `tvb:"label=Measure name"`
	Connectivity *Connectivity    `tvb:"label=Connectivity;required"`
	Array        *etensor.Float64 `tvb:"name=array_data;label=Measure values;required;shape=regions"`
}

// ValidateTraits implements traits.Validator.
func (m *ConnectivityMeasure) ValidateTraits() error {
	if m.Array == nil || m.Connectivity == nil || m.Connectivity.Weights == nil {
		return nil
	}
	if n, regions := m.Array.Shapes()[0], m.Connectivity.Weights.Shapes()[0]; n != regions {
		return errors.NewDetf(class.DatatypeShape, "measure has %d values, while connectivity has %d regions", n, regions)
	}
	return nil
}
