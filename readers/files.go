package readers

import (
	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
)

// ReadSensors reads the sensors file of the 'sensorsType'. Each line is the sensor label followed by its
// x, y and z location and optionally the x, y and z orientation.
func ReadSensors(path string, sensorsType string) (datatypes.SensorsData, error) {
	sensors, err := datatypes.NewSensors(sensorsType)
	if err != nil {
		return nil, err
	}
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := readRows(f, path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.NewDetf(class.ReaderFormat, "file: '%s' contains no sensors", path)
	}

	s := sensors.AsSensors()
	n := len(rows)
	withOrientation := len(rows[0].fields) == 7
	s.Labels = make([]string, n)
	s.Locations = arrays.NewFloat([]int{n, 3})
	if withOrientation {
		s.Orientations = arrays.NewFloat([]int{n, 3})
	}
	for i, r := range rows {
		if (withOrientation && len(r.fields) != 7) || (!withOrientation && len(r.fields) != 4) {
			return nil, formatError(path, r.line, "sensor has %d fields, expected: %d", len(r.fields), len(rows[0].fields))
		}
		s.Labels[i] = r.fields[0]
		for j := 0; j < 3; j++ {
			if s.Locations.Values[i*3+j], err = parseFloat(path, r, r.fields[1+j]); err != nil {
				return nil, err
			}
			if withOrientation {
				if s.Orientations.Values[i*3+j], err = parseFloat(path, r, r.fields[4+j]); err != nil {
					return nil, err
				}
			}
		}
	}
	logger.Debugf("Read %d %s sensors from: '%s'", n, sensorsType, path)
	return sensors, nil
}

// ReadRegionMapping reads the region mapping file with a single region index per vertex. The connectivity and
// surface of the mapping are not set.
func ReadRegionMapping(path string) (*datatypes.RegionMapping, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := readRows(f, path)
	if err != nil {
		return nil, err
	}
	// the indices may be written in a single line as well
	var flat []row
	for _, r := range rows {
		for _, field := range r.fields {
			flat = append(flat, row{line: r.line, fields: []string{field}})
		}
	}
	m, err := intMatrix(path, flat)
	if err != nil {
		return nil, err
	}
	for i, v := range m.Values {
		if v < 0 {
			return nil, formatError(path, flat[i].line, "negative region index: %d", v)
		}
	}
	return &datatypes.RegionMapping{Array: arrays.NewInt([]int{len(m.Values)}, m.Values...)}, nil
}

// ReadTimeSeries reads the (time, nodes) text matrix as the region time series of a single state variable
// and mode, sampled with the 'samplePeriod' in milliseconds.
func ReadTimeSeries(path string, samplePeriod float64) (*datatypes.TimeSeriesRegion, error) {
	if samplePeriod <= 0 {
		return nil, errors.NewDetf(class.ReaderFormat, "invalid sample period: %v", samplePeriod)
	}
	m, err := OpenMatrix(path)
	if err != nil {
		return nil, err
	}
	shape := m.Shapes()
	ts := &datatypes.TimeSeriesRegion{}
	ts.Data = arrays.NewFloat([]int{shape[0], 1, shape[1], 1}, m.Values...)
	ts.SamplePeriod = samplePeriod
	ts.SamplePeriodUnit = datatypes.UnitMillisecond
	ts.Title = "Time series: " + path
	if err = ts.Configure(); err != nil {
		return nil, err
	}
	return ts, nil
}
