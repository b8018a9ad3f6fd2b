package datatypes

import (
	"fmt"
	"math"

	"github.com/emer/etable/etensor"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/traits"
)

// Sensors types.
const (
	SensorsTypeEEG      = "EEG"
	SensorsTypeMEG      = "MEG"
	SensorsTypeInternal = "Internal"
)

// SensorsData is the datatype that is a Sensors or any of its subtypes.
type SensorsData interface {
	traits.Datatype
	AsSensors() *Sensors
}

// Sensors are the set of the recording sensors (electrodes or coils) with their locations.
type Sensors struct {
	traits.Base

	SensorsType     string           `tvb:"label=Sensors type;choices=EEG,MEG,Internal"`
	Labels          []string         `tvb:"label=Sensor labels;required;dim=sensors"`
	Locations       *etensor.Float64 `tvb:"label=Sensor locations;required;shape=sensors,3"`
	HasOrientation  bool             `tvb:"label=Has orientation"`
	Orientations    *etensor.Float64 `tvb:"label=Sensor orientations;shape=sensors,3"`
	Usable          []bool           `tvb:"label=Usable sensors;dim=sensors"`
	NumberOfSensors int              `tvb:"label=Number of sensors;derived;dim=sensors"`
}

// AsSensors implements SensorsData.
func (s *Sensors) AsSensors() *Sensors {
	return s
}

// Configure implements traits.Configurer.
func (s *Sensors) Configure() error {
	if s.Locations != nil {
		s.NumberOfSensors = s.Locations.Shapes()[0]
	} else {
		s.NumberOfSensors = len(s.Labels)
	}
	s.HasOrientation = s.Orientations != nil
	return nil
}

// Location gets the location of the sensor 'i'.
func (s *Sensors) Location(i int) r3.Vec {
	return r3.Vec{X: s.Locations.Values[i*3], Y: s.Locations.Values[i*3+1], Z: s.Locations.Values[i*3+2]}
}

// SensorsToSurface projects the sensors onto the 'surface'. Each sensor is mapped to the nearest surface vertex.
// Returns the vertex indices and the projected (n, 3) locations.
func (s *Sensors) SensorsToSurface(surface Surfacer) ([]int, *etensor.Float64, error) {
	if s.Locations == nil {
		return nil, nil, errors.NewDet(class.DatatypeRequired, "sensors locations are required")
	}
	surf := surface.AsSurface()
	if surf.Vertices == nil || surf.Vertices.Shapes()[0] == 0 {
		return nil, nil, errors.NewDet(class.DatatypeRequired, "surface has no vertices")
	}

	nv := surf.Vertices.Shapes()[0]
	points := make(kdtree.Points, nv)
	indices := make(map[[3]float64]int, nv)
	for i := 0; i < nv; i++ {
		v := surf.Vertex(i)
		points[i] = kdtree.Point{v.X, v.Y, v.Z}
		if _, ok := indices[[3]float64{v.X, v.Y, v.Z}]; !ok {
			indices[[3]float64{v.X, v.Y, v.Z}] = i
		}
	}
	tree := kdtree.New(points, false)

	n := s.Locations.Shapes()[0]
	vertices := make([]int, n)
	projected := arrays.NewFloat([]int{n, 3})
	for i := 0; i < n; i++ {
		l := s.Location(i)
		nearest, _ := tree.Nearest(kdtree.Point{l.X, l.Y, l.Z})
		p := nearest.(kdtree.Point)
		vertices[i] = indices[[3]float64{p[0], p[1], p[2]}]
		copy(projected.Values[i*3:], p)
	}
	return vertices, projected, nil
}

// SummaryInfo implements traits.Summarizer.
func (s *Sensors) SummaryInfo() map[string]string {
	return map[string]string{
		"Sensors type":      s.SensorsType,
		"Number of sensors": fmt.Sprint(s.NumberOfSensors),
	}
}

// SensorsEEG are the EEG electrodes placed on the scalp.
type SensorsEEG struct {
	Sensors
}

// Configure implements traits.Configurer.
func (s *SensorsEEG) Configure() error {
	s.SensorsType = SensorsTypeEEG
	return s.Sensors.Configure()
}

// SensorsMEG are the MEG coils with their orientations.
type SensorsMEG struct {
	Sensors
}

// Configure implements traits.Configurer.
func (s *SensorsMEG) Configure() error {
	s.SensorsType = SensorsTypeMEG
	return s.Sensors.Configure()
}

// ValidateTraits implements traits.Validator. MEG sensors require orientations of unit length.
func (s *SensorsMEG) ValidateTraits() error {
	if s.Orientations == nil {
		return errors.NewDet(class.DatatypeRequired, "MEG sensors require orientations")
	}
	for i := 0; i < s.Orientations.Shapes()[0]; i++ {
		if norm := arrays.Norm(s.Orientations.Values, 3, i); math.Abs(norm-1) > 1e-6 {
			return errors.NewDetf(class.DatatypeValue, "orientation of MEG sensor: %d is not a unit vector: %v", i, norm)
		}
	}
	return nil
}

// SensorsInternal are the internal (stereo EEG) sensors.
type SensorsInternal struct {
	Sensors
}

// Configure implements traits.Configurer.
func (s *SensorsInternal) Configure() error {
	s.SensorsType = SensorsTypeInternal
	return s.Sensors.Configure()
}

// NewSensors creates the sensors subtype for provided sensors type.
func NewSensors(sensorsType string) (SensorsData, error) {
	switch sensorsType {
	case SensorsTypeEEG:
		return &SensorsEEG{}, nil
	case SensorsTypeMEG:
		return &SensorsMEG{}, nil
	case SensorsTypeInternal:
		return &SensorsInternal{}, nil
	}
	return nil, errors.NewDetf(class.DatatypeChoice, "unknown sensors type: '%s'", sensorsType)
}
