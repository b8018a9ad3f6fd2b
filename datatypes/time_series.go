package datatypes

import (
	"fmt"
	"math"

	"github.com/emer/etable/etensor"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/traits"
)

// Time series sample period units.
const (
	UnitSecond      = "s"
	UnitMillisecond = "ms"
	UnitMicrosecond = "us"
)

// TimeSeriesData is the datatype that is a TimeSeries or any of its subtypes.
type TimeSeriesData interface {
	traits.Datatype
	AsTimeSeries() *TimeSeries
}

// TimeSeries is the 4-D (time, state variable, space, mode) recorded or simulated activity.
type TimeSeries struct {
	traits.Base

	Data             *etensor.Float64    `tvb:"label=Time-series data;required;shape=time,*,*,*"`
	LabelsOrdering   []string            `tvb:"label=Dimension names;default=Time,State Variable,Space,Mode"`
	LabelsDimensions map[string][]string `tvb:"label=Dimension labels;doc=Labels of the elements of each dimension"`
	Time             *etensor.Float64    `tvb:"label=Time-series time;shape=time"`
	StartTime        float64             `tvb:"label=Start time"`
	SamplePeriod     float64             `tvb:"label=Sample period;default=1.0" validate:"gt=0"`
	SamplePeriodUnit string              `tvb:"label=Sample period measure unit;default=ms;choices=s,ms,us"`

	SampleRate       float64 `tvb:"label=Sample rate;derived;doc=Samples per second"`
	NrTimePoints     int     `tvb:"label=Number of time points;derived"`
	NrStateVariables int     `tvb:"label=Number of state variables;derived"`
	NrSpaceNodes     int     `tvb:"label=Number of space nodes;derived"`
	NrModes          int     `tvb:"label=Number of modes;derived"`
}

// AsTimeSeries implements TimeSeriesData.
func (t *TimeSeries) AsTimeSeries() *TimeSeries {
	return t
}

// Configure derives the sample rate and the dimensions of the data.
func (t *TimeSeries) Configure() error {
	if t.SamplePeriod > 0 {
		switch t.SamplePeriodUnit {
		case UnitSecond:
			t.SampleRate = 1 / t.SamplePeriod
		case UnitMicrosecond:
			t.SampleRate = 1e6 / t.SamplePeriod
		default:
			t.SampleRate = 1e3 / t.SamplePeriod
		}
	}
	var shape []int
	switch {
	case t.Data != nil:
		shape = t.Data.Shapes()
	default:
		// the storage name depends on the naming convention
		for _, name := range []string{"data", "Data"} {
			if h, ok := t.Handle(name); ok {
				shape = h.Shape
				break
			}
		}
	}
	if len(shape) == 0 {
		return nil
	}
	if len(shape) != 4 {
		return errors.NewDetf(class.DatatypeShape, "time series data must have 4 dimensions, has: %v", shape)
	}
	t.NrTimePoints, t.NrStateVariables, t.NrSpaceNodes, t.NrModes = shape[0], shape[1], shape[2], shape[3]
	return nil
}

// Duration gets the time span of the series in the sample period units.
func (t *TimeSeries) Duration() float64 {
	return float64(t.NrTimePoints) * t.SamplePeriod
}

// TimeAt gets the time of the point 'i'. The explicit Time array takes precedence over the start time and the period.
func (t *TimeSeries) TimeAt(i int) float64 {
	if t.Time != nil && i < len(t.Time.Values) {
		return t.Time.Values[i]
	}
	return t.StartTime + float64(i)*t.SamplePeriod
}

// TimeIndices gets the [start, stop) indices of the time points within the [from, to) time range.
func (t *TimeSeries) TimeIndices(from, to float64) (int, int) {
	start, stop := -1, 0
	for i := 0; i < t.NrTimePoints; i++ {
		tm := t.TimeAt(i)
		if tm >= from && tm < to {
			if start < 0 {
				start = i
			}
			stop = i + 1
		}
	}
	if start < 0 {
		return 0, 0
	}
	return start, stop
}

// TimeSlice gets the copy of the data within the [from, to) time range.
func (t *TimeSeries) TimeSlice(from, to float64) (*etensor.Float64, error) {
	if t.Data == nil {
		return nil, errors.NewDet(class.DatatypeRequired, "time series data is not loaded")
	}
	if to <= from {
		return nil, errors.NewDetf(class.DatatypeRange, "invalid time range: [%v, %v)", from, to)
	}
	start, stop := t.TimeIndices(from, to)
	rows, err := arrays.Rows(t.Data, start, stop)
	if err != nil {
		return nil, errors.NewDet(class.DatatypeRange, err.Error())
	}
	return rows, nil
}

// Trace gets the copy of the time course of the state variable 'sv', space node 'node' and mode 'mode'.
func (t *TimeSeries) Trace(sv, node, mode int) []float64 {
	shape := t.Data.Shapes()
	trace := make([]float64, shape[0])
	for i := range trace {
		trace[i] = t.Data.Values[arrays.Offset(shape, i, sv, node, mode)]
	}
	return trace
}

// SummaryInfo implements traits.Summarizer.
func (t *TimeSeries) SummaryInfo() map[string]string {
	info := map[string]string{
		"Dimensions":      fmt.Sprintf("(%d, %d, %d, %d)", t.NrTimePoints, t.NrStateVariables, t.NrSpaceNodes, t.NrModes),
		"Time units":      t.SamplePeriodUnit,
		"Sample period":   fmt.Sprint(t.SamplePeriod),
		"Sample rate":     fmt.Sprintf("%.4g", t.SampleRate),
		"Length":          fmt.Sprintf("%g %s", t.Duration(), t.SamplePeriodUnit),
		"Dimension names": fmt.Sprint(t.LabelsOrdering),
	}
	if t.Data != nil {
		min, max, _ := arrays.Stats(t.Data.Values)
		if !math.IsNaN(min) {
			info["Data range"] = fmt.Sprintf("[%.4g, %.4g]", min, max)
		}
	}
	return info
}

// TimeSeriesRegion is the time series of the connectivity regions.
type TimeSeriesRegion struct {
	TimeSeries

	Connectivity  *Connectivity  `tvb:"label=Connectivity;required"`
	RegionMapping *RegionMapping `tvb:"label=Region mapping"`
}

// ValidateTraits implements traits.Validator.
func (t *TimeSeriesRegion) ValidateTraits() error {
	if t.Connectivity == nil || t.Connectivity.Weights == nil || t.NrSpaceNodes == 0 {
		return nil
	}
	if regions := t.Connectivity.Weights.Shapes()[0]; regions != t.NrSpaceNodes {
		return errors.NewDetf(class.DatatypeShape, "time series has %d space nodes, while connectivity has %d regions", t.NrSpaceNodes, regions)
	}
	return nil
}

// TimeSeriesSurface is the time series of the surface vertices.
type TimeSeriesSurface struct {
	TimeSeries

	Surface Surfacer `tvb:"label=Surface;required"`
}

// ValidateTraits implements traits.Validator.
func (t *TimeSeriesSurface) ValidateTraits() error {
	if t.Surface == nil || t.NrSpaceNodes == 0 {
		return nil
	}
	if v := t.Surface.AsSurface().Vertices; v != nil && v.Shapes()[0] != t.NrSpaceNodes {
		return errors.NewDetf(class.DatatypeShape, "time series has %d space nodes, while surface has %d vertices", t.NrSpaceNodes, v.Shapes()[0])
	}
	return nil
}

// TimeSeriesSensors is the time series recorded by the sensors.
type TimeSeriesSensors struct {
	TimeSeries

	Sensors SensorsData `tvb:"label=Sensors;required"`
}

// ValidateTraits implements traits.Validator.
func (t *TimeSeriesSensors) ValidateTraits() error {
	if t.Sensors == nil || t.NrSpaceNodes == 0 {
		return nil
	}
	if l := t.Sensors.AsSensors().Locations; l != nil && l.Shapes()[0] != t.NrSpaceNodes {
		return errors.NewDetf(class.DatatypeShape, "time series has %d space nodes, while there are %d sensors", t.NrSpaceNodes, l.Shapes()[0])
	}
	return nil
}

func (t *TimeSeriesSensors) checkSensors(sensorsType string) error {
	if t.Sensors == nil {
		return nil
	}
	if st := t.Sensors.AsSensors().SensorsType; st != "" && st != sensorsType {
		return errors.NewDetf(class.DatatypeReference, "time series requires %s sensors, provided: '%s'", sensorsType, st)
	}
	return t.ValidateTraits()
}

// TimeSeriesEEG is the time series of the EEG electrodes.
type TimeSeriesEEG struct {
	TimeSeriesSensors
}

// ValidateTraits implements traits.Validator.
func (t *TimeSeriesEEG) ValidateTraits() error {
	return t.checkSensors(SensorsTypeEEG)
}

// TimeSeriesMEG is the time series of the MEG coils.
type TimeSeriesMEG struct {
	TimeSeriesSensors
}

// ValidateTraits implements traits.Validator.
func (t *TimeSeriesMEG) ValidateTraits() error {
	return t.checkSensors(SensorsTypeMEG)
}

// TimeSeriesSEEG is the time series of the internal, stereo EEG sensors.
type TimeSeriesSEEG struct {
	TimeSeriesSensors
}

// ValidateTraits implements traits.Validator.
func (t *TimeSeriesSEEG) ValidateTraits() error {
	return t.checkSensors(SensorsTypeInternal)
}
