package tvb

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/tvb/analyzers"
	"github.com/neuronlabs/tvb/analyzers/graph"
	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/config"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/store"
	"github.com/neuronlabs/tvb/traits"
)

func newLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = lib.Close(context.Background())
	})
	return lib
}

func TestNew(t *testing.T) {
	lib := newLibrary(t)
	assert.Equal(t, "memory", lib.Config().Storage.Driver)
	assert.NotNil(t, lib.Registry())
	assert.NotNil(t, lib.Repository())
	assert.Contains(t, lib.Analyzers().Names(), analyzers.NameFFT)

	hc, err := lib.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.StatusPass, hc.Status)

	t.Run("InvalidConfig", func(t *testing.T) {
		cfg := config.ReadDefaultConfig()
		cfg.Storage.Driver = "cassandra"
		_, err := New(cfg)
		require.Error(t, err)
		assert.True(t, errors.HasMajor(err, class.MjrConfig))
	})
}

func TestLibrary(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)

	conn := &datatypes.Connectivity{
		RegionLabels: []string{"a", "b", "c"},
		Weights: arrays.NewFloat([]int{3, 3},
			0, 1, 1,
			1, 0, 0,
			1, 0, 0,
		),
		TractLengths: arrays.NewFloat([]int{3, 3}),
	}
	require.NoError(t, lib.Save(ctx, conn))

	ts := &datatypes.TimeSeriesRegion{Connectivity: conn}
	ts.Data = arrays.NewFloat([]int{64, 1, 3, 1})
	for i := 0; i < 64; i++ {
		for n := 0; n < 3; n++ {
			ts.Data.Values[i*3+n] = math.Sin(float64(i*(n+1)) / 5)
		}
	}
	ts.SamplePeriod = 1
	require.NoError(t, lib.Save(ctx, ts))
	gid := ts.GID

	t.Run("List", func(t *testing.T) {
		headers, err := lib.List(ctx, "TimeSeries")
		require.NoError(t, err)
		require.Len(t, headers, 1)
		assert.Equal(t, gid, headers[0].GID)
	})

	t.Run("Summary", func(t *testing.T) {
		summary, err := lib.Summary(ctx, gid)
		require.NoError(t, err)
		assert.Equal(t, "TimeSeriesRegion", summary["Type"])
	})

	t.Run("Analyze", func(t *testing.T) {
		result, err := lib.Analyze(ctx, analyzers.NameCovariance, gid)
		require.NoError(t, err)
		cov, ok := result.(*datatypes.Covariance)
		require.True(t, ok)
		assert.Equal(t, []int{3, 3, 1, 1}, cov.Array.Shapes())

		loaded, err := lib.Load(ctx, cov.GID)
		require.NoError(t, err)
		assert.Equal(t, cov.Array.Values, loaded.(*datatypes.Covariance).Array.Values)

		_, err = lib.Analyze(ctx, "granger", gid)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.AnalyzerNotFound))

		_, err = lib.Analyze(ctx, analyzers.NameCovariance, conn.GID)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.AnalyzerInput))
	})

	t.Run("GraphMeasure", func(t *testing.T) {
		m, err := lib.GraphMeasure(ctx, graph.MeasureDegree, conn.GID)
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 1, 1}, m.Array.Values)
		assert.NotEqual(t, uuid.Nil, m.GID)
	})
}

func newTetrahedron() *datatypes.Surface {
	return &datatypes.Surface{
		Vertices: arrays.NewFloat([]int{4, 3},
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
			0, 0, 1,
		),
		Triangles: arrays.NewInt([]int{4, 3},
			0, 2, 1,
			0, 1, 3,
			0, 3, 2,
			1, 2, 3,
		),
	}
}

func newTriangleConnectivity() *datatypes.Connectivity {
	return &datatypes.Connectivity{
		RegionLabels: []string{"a", "b", "c"},
		Weights: arrays.NewFloat([]int{3, 3},
			0, 1, 1,
			1, 0, 0,
			1, 0, 0,
		),
		TractLengths: arrays.NewFloat([]int{3, 3},
			0, 3, 6,
			3, 0, 9,
			6, 9, 0,
		),
	}
}

// TestSaveNewReferences tests saving the datatype whose references are neither configured nor stored.
func TestSaveNewReferences(t *testing.T) {
	ctx := context.Background()

	assertConnectivity := func(t *testing.T, ref traits.Datatype) {
		conn, ok := ref.(*datatypes.Connectivity)
		require.True(t, ok)
		assert.Equal(t, 3, conn.NumberOfRegions)
		assert.Equal(t, 3.0, conn.Speed)
		assert.True(t, conn.Undirected)
		_, ok = conn.Handle("delays")
		assert.True(t, ok)
	}
	assertSurface := func(t *testing.T, ref traits.Datatype) {
		surf, ok := ref.(*datatypes.Surface)
		require.True(t, ok)
		assert.Equal(t, 4, surf.NumberOfVertices)
		assert.Equal(t, 4, surf.NumberOfTriangles)
		_, ok = surf.Handle("vertex_normals")
		assert.True(t, ok)
	}
	assertSensors := func(t *testing.T, ref traits.Datatype) {
		sensors, ok := ref.(*datatypes.SensorsEEG)
		require.True(t, ok)
		assert.Equal(t, 2, sensors.NumberOfSensors)
		assert.Equal(t, datatypes.SensorsTypeEEG, sensors.SensorsType)
	}

	tests := []struct {
		name   string
		dt     func() traits.Datatype
		checks map[string]func(t *testing.T, ref traits.Datatype)
	}{
		{
			name: "TimeSeriesRegion",
			dt: func() traits.Datatype {
				ts := &datatypes.TimeSeriesRegion{Connectivity: newTriangleConnectivity()}
				ts.Data = arrays.NewFloat([]int{8, 1, 3, 1})
				return ts
			},
			checks: map[string]func(t *testing.T, ref traits.Datatype){"connectivity": assertConnectivity},
		},
		{
			name: "RegionMapping",
			dt: func() traits.Datatype {
				return &datatypes.RegionMapping{
					Array:        arrays.NewInt([]int{4}, 0, 1, 2, 2),
					Connectivity: newTriangleConnectivity(),
					Surface:      newTetrahedron(),
				}
			},
			checks: map[string]func(t *testing.T, ref traits.Datatype){
				"connectivity": assertConnectivity,
				"surface":      assertSurface,
			},
		},
		{
			name: "ProjectionMatrix",
			dt: func() traits.Datatype {
				sensors := &datatypes.SensorsEEG{}
				sensors.Labels = []string{"Fz", "Cz"}
				sensors.Locations = arrays.NewFloat([]int{2, 3}, 0, 0, 1, 0, 1, 1)
				return &datatypes.ProjectionMatrix{
					ProjectionType: "projEEG",
					Sources:        newTetrahedron(),
					Sensors:        sensors,
					ProjectionData: arrays.NewFloat([]int{2, 4}),
				}
			},
			checks: map[string]func(t *testing.T, ref traits.Datatype){
				"sources": assertSurface,
				"sensors": assertSensors,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lib := newLibrary(t)
			dt := tc.dt()
			require.NoError(t, lib.Save(ctx, dt))

			loaded, err := lib.Load(ctx, dt.TraitsBase().GID)
			require.NoError(t, err)
			for field, check := range tc.checks {
				ref, err := lib.Repository().LoadReference(ctx, loaded, field)
				require.NoError(t, err, field)
				check(t, ref)
			}
		})
	}
}
