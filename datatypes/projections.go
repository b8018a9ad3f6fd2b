package datatypes

import (
	"github.com/emer/etable/etensor"
	"gonum.org/v1/gonum/mat"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/traits"
)

// Projection types.
const (
	ProjectionEEG  = "projEEG"
	ProjectionMEG  = "projMEG"
	ProjectionSEEG = "projSEEG"
)

// ProjectionMatrix is the gain matrix projecting the source activity (regions or surface vertices)
// onto the sensors.
type ProjectionMatrix struct {
	traits.Base

	ProjectionType string           `tvb:"label=Projection type;choices=projEEG,projMEG,projSEEG"`
	Sources        traits.Datatype  `tvb:"label=Sources;required;doc=Surface or connectivity of the projected sources"`
	Sensors        SensorsData      `tvb:"label=Sensors;required"`
	ProjectionData *etensor.Float64 `tvb:"label=Projection matrix data;required;shape=sensors,sources"`
}

// NumberOfSources gets the number of the sources of the projection - surface vertices or connectivity regions.
// Returns -1 if the sources are not loaded.
func (p *ProjectionMatrix) NumberOfSources() int {
	switch s := p.Sources.(type) {
	case Surfacer:
		if v := s.AsSurface().Vertices; v != nil {
			return v.Shapes()[0]
		}
	case *Connectivity:
		if s.Weights != nil {
			return s.Weights.Shapes()[0]
		}
	}
	return -1
}

// ValidateTraits implements traits.Validator.
func (p *ProjectionMatrix) ValidateTraits() error {
	if p.ProjectionData == nil {
		return nil
	}
	shape := p.ProjectionData.Shapes()
	var errs errors.MultiError
	if p.Sources != nil {
		switch p.Sources.(type) {
		case Surfacer, *Connectivity:
		default:
			errs = append(errs, errors.NewDetf(class.DatatypeReference, "projection sources: '%T' must be a surface or a connectivity", p.Sources))
		}
	}
	if n := p.NumberOfSources(); n >= 0 && n != shape[1] {
		errs = append(errs, errors.NewDetf(class.DatatypeShape, "projection has %d sources, while the sources have %d nodes", shape[1], n))
	}
	if p.Sensors != nil {
		if l := p.Sensors.AsSensors().Locations; l != nil && l.Shapes()[0] != shape[0] {
			errs = append(errs, errors.NewDetf(class.DatatypeShape, "projection has %d sensors, while the sensors have %d", shape[0], l.Shapes()[0]))
		}
	}
	return errs.ErrorOrNil()
}

// Project projects the (time, sources) activity onto the sensors - the result is of (time, sensors) shape.
func (p *ProjectionMatrix) Project(activity *etensor.Float64) (*etensor.Float64, error) {
	if p.ProjectionData == nil {
		return nil, errors.NewDet(class.DatatypeRequired, "projection data is not loaded")
	}
	gain, err := arrays.Dense(p.ProjectionData)
	if err != nil {
		return nil, errors.NewDet(class.DatatypeShape, err.Error())
	}
	a, err := arrays.Dense(activity)
	if err != nil {
		return nil, errors.NewDet(class.DatatypeShape, err.Error())
	}
	_, sources := gain.Dims()
	if _, c := a.Dims(); c != sources {
		return nil, errors.NewDetf(class.DatatypeShape, "activity has %d sources, projection requires %d", c, sources)
	}
	var out mat.Dense
	out.Mul(a, gain.T())
	return arrays.FromDense(&out), nil
}
