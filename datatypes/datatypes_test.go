package datatypes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/traits"
)

func newRegistry(t *testing.T) *traits.Registry {
	t.Helper()
	r, err := NewRegistry()
	require.NoError(t, err)
	return r
}

// newConnectivity creates the 3 region connectivity with the centres forming a 3-4-5 triangle.
func newConnectivity() *Connectivity {
	return &Connectivity{
		RegionLabels: []string{"a", "b", "c"},
		Weights: arrays.NewFloat([]int{3, 3},
			1, 2, 0,
			2, 0, 4,
			0, 4, 0,
		),
		Centres: arrays.NewFloat([]int{3, 3},
			0, 0, 0,
			3, 0, 0,
			0, 4, 0,
		),
		Hemispheres: []bool{true, false, true},
	}
}

// newTetrahedron creates the closed tetrahedron surface with outward oriented triangles.
func newTetrahedron() *CorticalSurface {
	s := &CorticalSurface{}
	s.Vertices = arrays.NewFloat([]int{4, 3},
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	)
	s.Triangles = arrays.NewInt([]int{4, 3},
		0, 2, 1,
		0, 1, 3,
		0, 3, 2,
		1, 2, 3,
	)
	return s
}

func newTimeSeries(nt, nodes int) *TimeSeries {
	ts := &TimeSeries{Data: arrays.NewFloat([]int{nt, 1, nodes, 1}), SamplePeriod: 0.5}
	for i := 0; i < nt; i++ {
		for j := 0; j < nodes; j++ {
			ts.Data.Values[i*nodes+j] = math.Sin(float64(i*(j+1)) / 3)
		}
	}
	return ts
}

// TestRegister tests the datatypes registration.
func TestRegister(t *testing.T) {
	r := newRegistry(t)

	for _, tag := range []string{"Connectivity", "CorticalSurface", "TimeSeriesEEG", "FourierSpectrum", "Gaussian"} {
		_, ok := r.ByTag(tag)
		assert.True(t, ok, tag)
	}

	subtypes, err := r.Subtypes("Surface")
	require.NoError(t, err)
	assert.Len(t, subtypes, 7)

	assert.True(t, r.IsSubtype("TimeSeriesEEG", "TimeSeries"))
	assert.True(t, r.IsSubtype("TimeSeriesEEG", "TimeSeriesSensors"))
	assert.False(t, r.IsSubtype("TimeSeriesRegion", "TimeSeriesSensors"))
}

// TestConnectivity tests the connectivity configuration and its methods.
func TestConnectivity(t *testing.T) {
	r := newRegistry(t)

	t.Run("Configure", func(t *testing.T) {
		c := newConnectivity()
		require.NoError(t, r.Configure(c))

		assert.Equal(t, 3, c.NumberOfRegions)
		assert.Equal(t, 5, c.NumberOfConnections)
		assert.Equal(t, 3.0, c.Speed)
		assert.True(t, c.Undirected)

		require.NotNil(t, c.TractLengths)
		assert.InDelta(t, 3.0, c.TractLengths.Values[1], 1e-12)
		assert.InDelta(t, 4.0, c.TractLengths.Values[2], 1e-12)
		assert.InDelta(t, 5.0, c.TractLengths.Values[5], 1e-12)

		require.NotNil(t, c.Delays)
		assert.InDelta(t, 5.0/3, c.Delays.Values[5], 1e-12)
	})

	t.Run("ShapeMismatch", func(t *testing.T) {
		c := newConnectivity()
		c.RegionLabels = []string{"a", "b"}
		err := r.Configure(c)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeShape))
	})

	t.Run("ScaledWeights", func(t *testing.T) {
		c := newConnectivity()
		require.NoError(t, r.Configure(c))

		tract, err := c.ScaledWeights(ScaleTract)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, tract.Values[5], 1e-12)
		assert.InDelta(t, 0.25, tract.Values[0], 1e-12)

		region, err := c.ScaledWeights(ScaleRegion)
		require.NoError(t, err)
		// the maximum row sum is 6
		assert.InDelta(t, 4.0/6, region.Values[5], 1e-12)

		none, err := c.ScaledWeights(ScaleNone)
		require.NoError(t, err)
		assert.Equal(t, c.Weights.Values, none.Values)

		_, err = c.ScaledWeights("log")
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeChoice))
	})

	t.Run("Binarized", func(t *testing.T) {
		c := newConnectivity()
		assert.Equal(t, []float64{1, 1, 0, 1, 0, 1, 0, 1, 0}, c.BinarizedWeights().Values)
	})

	t.Run("RemoveSelfConnections", func(t *testing.T) {
		c := newConnectivity()
		require.NoError(t, r.Configure(c))
		c.RemoveSelfConnections()
		assert.Equal(t, 0.0, c.Weights.Values[0])
		assert.Equal(t, 4, c.NumberOfConnections)
	})

	t.Run("Directed", func(t *testing.T) {
		c := newConnectivity()
		c.Weights.Values[1] = 7
		assert.False(t, c.IsUndirected())
	})

	t.Run("HemisphereOrder", func(t *testing.T) {
		c := newConnectivity()
		require.NoError(t, r.Configure(c))
		assert.Equal(t, []int{1, 0, 2}, c.HemisphereOrder())

		c.Hemispheres = nil
		assert.Equal(t, []int{0, 1, 2}, c.HemisphereOrder())
	})

	t.Run("Summary", func(t *testing.T) {
		c := newConnectivity()
		require.NoError(t, r.Configure(c))
		summary, err := r.Summary(c)
		require.NoError(t, err)
		assert.Equal(t, "3", summary["Number of regions"])
		assert.Equal(t, "Connectivity", summary["Type"])
	})
}

// TestSurface tests the surface geometry and topology.
func TestSurface(t *testing.T) {
	r := newRegistry(t)

	t.Run("Configure", func(t *testing.T) {
		s := newTetrahedron()
		require.NoError(t, r.Configure(s))

		assert.Equal(t, SurfaceTypeCortical, s.SurfaceType)
		assert.Equal(t, 4, s.NumberOfVertices)
		assert.Equal(t, 4, s.NumberOfTriangles)
		assert.True(t, s.ValidForSimulations)
		assert.InDelta(t, 1.0, s.EdgeMinLength, 1e-12)
		assert.InDelta(t, math.Sqrt2, s.EdgeMaxLength, 1e-12)

		require.NotNil(t, s.TriangleNormals)
		assert.InDeltaSlice(t, []float64{0, 0, -1}, s.TriangleNormals.Values[:3], 1e-12)
		require.NotNil(t, s.VertexNormals)
		// the vertex normals point outwards of the tetrahedron
		c := s.Center()
		for i := 0; i < 4; i++ {
			v := s.Vertex(i)
			dot := (v.X-c.X)*s.VertexNormals.Values[i*3] + (v.Y-c.Y)*s.VertexNormals.Values[i*3+1] + (v.Z-c.Z)*s.VertexNormals.Values[i*3+2]
			assert.True(t, dot > 0, "vertex: %d", i)
		}
	})

	t.Run("Geometry", func(t *testing.T) {
		s := newTetrahedron()
		assert.Len(t, s.Edges(), 6)
		assert.Equal(t, [2]int{0, 1}, s.Edges()[0])
		assert.Equal(t, []int{3, 3, 3, 3}, s.VertexDegree())

		areas := s.TriangleAreas()
		require.Len(t, areas, 4)
		assert.InDelta(t, 0.5, areas[0], 1e-12)
		assert.InDelta(t, math.Sqrt(3)/2, areas[3], 1e-12)

		c := s.Center()
		assert.InDelta(t, 0.25, c.X, 1e-12)
	})

	t.Run("Topology", func(t *testing.T) {
		s := newTetrahedron()
		report, err := s.ValidateTopology()
		require.NoError(t, err)
		assert.Equal(t, 2, report.EulerCharacteristic)
		assert.True(t, report.Valid())

		s.Vertices = arrays.NewFloat([]int{5, 3}, append(s.Vertices.Values, 2, 2, 2)...)
		report, err = s.ValidateTopology()
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeValue))
		assert.Equal(t, []int{4}, report.IsolatedVertices)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		s := newTetrahedron()
		s.Triangles.Values[0] = 9
		err := r.Configure(s)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeValue))

		report, err := s.ValidateTopology()
		require.Error(t, err)
		assert.Equal(t, []int{0}, report.OutOfRange)
	})

	t.Run("NewSurface", func(t *testing.T) {
		_, ok := NewSurface(SurfaceTypeSkinAir).(*SkinAir)
		assert.True(t, ok)
		s := NewSurface("Custom").AsSurface()
		assert.Equal(t, "Custom", s.SurfaceType)
	})
}

// TestRegionMapping tests the region mapping validation.
func TestRegionMapping(t *testing.T) {
	r := newRegistry(t)
	conn := newConnectivity()
	require.NoError(t, r.Configure(conn))
	surface := newTetrahedron()
	require.NoError(t, r.Configure(surface))

	m := &RegionMapping{Array: arrays.NewInt([]int{4}, 0, 1, 2, 2), Connectivity: conn, Surface: surface}
	require.NoError(t, r.Configure(m))
	assert.Equal(t, [][]int{{0}, {1}, {2, 3}}, m.RegionVertices(3))

	m.Array = arrays.NewInt([]int{4}, 0, 1, 2, 3)
	err := r.Validate(m)
	require.Error(t, err)
	assert.True(t, errors.IsClass(err, class.DatatypeValue))

	m.Array = arrays.NewInt([]int{3}, 0, 1, 2)
	err = r.Validate(m)
	require.Error(t, err)
	assert.True(t, errors.IsClass(err, class.DatatypeShape))

	m = &RegionMapping{Array: arrays.NewInt([]int{4}, 0, 1, 2, 2), Connectivity: conn}
	err = r.Validate(m)
	require.Error(t, err)
	assert.True(t, errors.IsClass(err, class.DatatypeRequired))
}

// TestSensors tests the sensors and their projection to the surface.
func TestSensors(t *testing.T) {
	r := newRegistry(t)
	surface := newTetrahedron()
	require.NoError(t, r.Configure(surface))

	sensors := &SensorsEEG{}
	sensors.Labels = []string{"Fz", "Cz"}
	sensors.Locations = arrays.NewFloat([]int{2, 3},
		0, 0, -2,
		2, 0.1, 0,
	)
	require.NoError(t, r.Configure(sensors))
	assert.Equal(t, SensorsTypeEEG, sensors.SensorsType)
	assert.Equal(t, 2, sensors.NumberOfSensors)

	vertices, projected, err := sensors.SensorsToSurface(surface)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, vertices)
	assert.Equal(t, []float64{0, 0, 0, 1, 0, 0}, projected.Values)

	t.Run("MEGOrientations", func(t *testing.T) {
		meg := &SensorsMEG{}
		meg.Labels = []string{"m1"}
		meg.Locations = arrays.NewFloat([]int{1, 3}, 0, 0, 1)
		err := r.Configure(meg)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeRequired))

		meg.Orientations = arrays.NewFloat([]int{1, 3}, 0, 0, 1)
		require.NoError(t, r.Configure(meg))
		assert.True(t, meg.HasOrientation)
	})

	t.Run("LabelsMismatch", func(t *testing.T) {
		s := &SensorsInternal{}
		s.Labels = []string{"a"}
		s.Locations = arrays.NewFloat([]int{2, 3})
		err := r.Configure(s)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeShape))
	})
}

// TestProjectionMatrix tests the projection of the sources onto the sensors.
func TestProjectionMatrix(t *testing.T) {
	r := newRegistry(t)
	conn := newConnectivity()
	require.NoError(t, r.Configure(conn))

	sensors := &SensorsEEG{}
	sensors.Labels = []string{"a", "b"}
	sensors.Locations = arrays.NewFloat([]int{2, 3})
	require.NoError(t, r.Configure(sensors))

	p := &ProjectionMatrix{
		ProjectionType: ProjectionEEG,
		Sources:        conn,
		Sensors:        sensors,
		ProjectionData: arrays.NewFloat([]int{2, 3},
			1, 0, 0,
			0, 1, 1,
		),
	}
	require.NoError(t, r.Configure(p))
	assert.Equal(t, 3, p.NumberOfSources())

	out, err := p.Project(arrays.NewFloat([]int{2, 3},
		1, 2, 3,
		4, 5, 6,
	))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, out.Shapes())
	assert.Equal(t, []float64{1, 5, 4, 11}, out.Values)

	p.ProjectionData = arrays.NewFloat([]int{2, 4})
	err = r.Validate(p)
	require.Error(t, err)
	assert.True(t, errors.IsClass(err, class.DatatypeShape))
}

// TestTimeSeries tests the time series configuration and slicing.
func TestTimeSeries(t *testing.T) {
	r := newRegistry(t)

	ts := newTimeSeries(10, 3)
	require.NoError(t, r.Configure(ts))
	assert.Equal(t, []string{"Time", "State Variable", "Space", "Mode"}, ts.LabelsOrdering)
	assert.Equal(t, UnitMillisecond, ts.SamplePeriodUnit)
	assert.InDelta(t, 2000.0, ts.SampleRate, 1e-9)
	assert.Equal(t, 10, ts.NrTimePoints)
	assert.Equal(t, 3, ts.NrSpaceNodes)
	assert.InDelta(t, 5.0, ts.Duration(), 1e-12)

	slice, err := ts.TimeSlice(1.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 3, 1}, slice.Shapes())
	assert.Equal(t, ts.Data.Values[6:12], slice.Values)

	_, err = ts.TimeSlice(2, 1)
	require.Error(t, err)
	assert.True(t, errors.IsClass(err, class.DatatypeRange))

	assert.Equal(t, ts.Data.Values[1], ts.Trace(0, 1, 0)[0])

	t.Run("InvalidUnit", func(t *testing.T) {
		ts := newTimeSeries(4, 1)
		ts.SamplePeriodUnit = "h"
		err := r.Configure(ts)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeChoice))
	})

	t.Run("Region", func(t *testing.T) {
		conn := newConnectivity()
		require.NoError(t, r.Configure(conn))

		tsr := &TimeSeriesRegion{TimeSeries: *newTimeSeries(8, 3), Connectivity: conn}
		require.NoError(t, r.Configure(tsr))

		tsr = &TimeSeriesRegion{TimeSeries: *newTimeSeries(8, 2), Connectivity: conn}
		err := r.Configure(tsr)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeShape))
	})

	t.Run("EEG", func(t *testing.T) {
		meg := &SensorsMEG{}
		meg.Labels = []string{"a", "b", "c"}
		meg.Locations = arrays.NewFloat([]int{3, 3})
		meg.Orientations = arrays.NewFloat([]int{3, 3}, 1, 0, 0, 1, 0, 0, 1, 0, 0)
		require.NoError(t, r.Configure(meg))

		eeg := &TimeSeriesEEG{}
		eeg.TimeSeries = *newTimeSeries(4, 3)
		eeg.Sensors = meg
		err := r.Configure(eeg)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeReference))
	})
}

// TestFourierSpectrum tests the derived spectral attributes.
func TestFourierSpectrum(t *testing.T) {
	r := newRegistry(t)
	ts := newTimeSeries(10, 1)
	require.NoError(t, r.Configure(ts))

	shape := []int{4, 2, 1, 1, 1}
	f := &FourierSpectrum{
		Source:        ts,
		SegmentLength: 100,
		Real:          arrays.NewFloat(shape, 1, 1, 0, 0, 3, 3, 0, 0),
		Imag:          arrays.NewFloat(shape, 0, 0, 1, 1, 4, 4, 0, 0),
	}
	require.NoError(t, r.Configure(f))

	assert.Equal(t, []float64{10, 20, 30, 40}, f.Frequency.Values)
	assert.InDelta(t, 40.0, f.MaxFrequency, 1e-12)
	assert.Equal(t, []float64{1, 1, 1, 1, 25, 25, 0, 0}, f.Power.Values)
	assert.Equal(t, []float64{1, 1, 1, 1, 5, 5, 0, 0}, f.Amplitude.Values)
	assert.InDelta(t, math.Pi/2, f.Phase.Values[2], 1e-12)
	assert.Equal(t, []float64{1, 1, 25, 0}, f.AveragePower.Values)
	assert.InDeltaSlice(t, []float64{1.0 / 27, 1.0 / 27, 25.0 / 27, 0}, f.NormalisedAveragePower.Values, 1e-12)

	f.Imag = arrays.NewFloat([]int{4, 1, 1, 1, 1})
	require.Error(t, r.Configure(f))
}

// TestPrincipalComponents tests the component time series computation.
func TestPrincipalComponents(t *testing.T) {
	ts := newTimeSeries(20, 2)
	// identity weights keep the normalised source
	p := &PrincipalComponents{
		Source:    ts,
		Weights:   arrays.NewFloat([]int{2, 2, 1, 1}, 1, 0, 0, 1),
		Fractions: arrays.NewFloat([]int{2, 1, 1}, 0.7, 0.3),
	}
	require.NoError(t, p.ComputeNormalisedComponentTimeSeries())
	assert.Equal(t, []int{20, 1, 2, 1}, p.ComponentTimeSeries.Shapes())
	assert.InDeltaSlice(t, p.NormSource.Values, p.ComponentTimeSeries.Values, 1e-12)

	var mean float64
	for i := 0; i < 20; i++ {
		mean += p.NormalisedComponentTimeSeries.Values[i*2]
	}
	assert.InDelta(t, 0, mean/20, 1e-9)

	empty := &PrincipalComponents{Source: &TimeSeries{}}
	err := empty.ComputeNormSource()
	require.Error(t, err)
	assert.True(t, errors.IsClass(err, class.DatatypeRequired))
}

// TestIndependentComponents tests the separation matrix and the component time series.
func TestIndependentComponents(t *testing.T) {
	ts := newTimeSeries(20, 2)
	c := &IndependentComponents{
		Source:             ts,
		NComponents:        2,
		UnmixingMatrix:     arrays.NewFloat([]int{2, 2, 1, 1}, 0, 1, 1, 0),
		PrewhiteningMatrix: arrays.NewFloat([]int{2, 2, 1, 1}, 2, 0, 0, 2),
	}
	w, err := c.Separation()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 2, 0}, w.Values)

	require.NoError(t, c.ComputeComponentTimeSeries())
	assert.InDelta(t, 2*c.NormSource.Values[1], c.ComponentTimeSeries.Values[0], 1e-12)
}
