package traits

import (
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/namer"
)

type testConnectivity struct {
	Base
	Weights         *etensor.Float64 `tvb:"label=Connection strengths, unitless;required;shape=regions,regions;range=0,100"`
	Centres         *etensor.Float64 `tvb:"shape=regions,3"`
	RegionLabels    []string         `tvb:"dim=regions"`
	Speed           float64          `tvb:"default=3.0;range=0,1000"`
	Units           string           `tvb:"default=mm;choices=mm,m"`
	NumberOfRegions int              `tvb:"derived;dim=regions"`
	Hidden          string           `tvb:"-"`
	internal        int
}

func (c *testConnectivity) TypeTag() string {
	return "Connectivity"
}

func (c *testConnectivity) Configure() error {
	if c.Weights != nil {
		c.NumberOfRegions = c.Weights.Shapes()[0]
	}
	return nil
}

type testMapping struct {
	Base
	Connectivity *testConnectivity `tvb:"required"`
	Array        *etensor.Int      `tvb:"dtype=int;shape=*"`
}

type testTimeSeries struct {
	Base
	Data         *etensor.Float64 `tvb:"required;shape=*,*,*,*"`
	SamplePeriod float64          `tvb:"default=1.0" validate:"gt=0"`
	Labels       []string         `tvb:"name=labels_ordering;default=Time,State Variable,Space,Mode"`
}

type testRegionTimeSeries struct {
	testTimeSeries
	Connectivity *testConnectivity
}

type testSensorsTimeSeries struct {
	Base
	Data *etensor.Float64
}

func (t *testSensorsTimeSeries) BaseTags() []string {
	return []string{"testTimeSeries"}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.RegisterTypes(&testConnectivity{}, &testMapping{}, &testTimeSeries{}, &testRegionTimeSeries{}, &testSensorsTimeSeries{}))
	return r
}

func newConnectivity(n int) *testConnectivity {
	c := &testConnectivity{
		Weights: arrays.NewFloat([]int{n, n}),
		Centres: arrays.NewFloat([]int{n, 3}),
	}
	for i := 0; i < n; i++ {
		c.RegionLabels = append(c.RegionLabels, string(rune('a'+i)))
	}
	return c
}

// TestParseFieldTags tests the struct tag parsing.
func TestParseFieldTags(t *testing.T) {
	tags := parseFieldTags(`label=Strengths\; in mm;required;shape=regions,*`, ";", ",")
	require.Len(t, tags, 3)
	assert.Equal(t, "label", tags[0].Key)
	assert.Equal(t, "Strengths; in mm", tags[0].Raw)
	assert.Equal(t, "required", tags[1].Key)
	assert.Equal(t, []string{"regions", "*"}, tags[2].Values)

	tags = parseFieldTags("-", ";", ",")
	require.Len(t, tags, 1)
	assert.Equal(t, "-", tags[0].Key)
}

// TestRegisterTypes tests the datatype mapping.
func TestRegisterTypes(t *testing.T) {
	r := newTestRegistry(t)

	ts, ok := r.ByTag("Connectivity")
	require.True(t, ok)
	assert.Equal(t, "connectivities", ts.Collection())

	tsOf, err := r.TypeOf(&testConnectivity{})
	require.NoError(t, err)
	assert.Equal(t, ts, tsOf)

	assert.Len(t, ts.Fields(), 6)
	assert.Len(t, ts.Arrays(), 2)
	assert.Len(t, ts.Attributes(), 4)
	assert.Empty(t, ts.References())

	_, ok = ts.Field("Hidden")
	assert.False(t, ok)

	weights, ok := ts.Field("weights")
	require.True(t, ok)
	assert.Equal(t, "Weights", weights.Name())
	assert.Equal(t, KindArray, weights.Kind())
	assert.Equal(t, DTypeFloat, weights.DType())
	assert.Equal(t, "Connection strengths, unitless", weights.Label())
	assert.True(t, weights.Required())
	assert.Equal(t, []Dim{{Symbol: "regions"}, {Symbol: "regions"}}, weights.Shape())

	centres := ts.MustField("Centres")
	assert.Equal(t, []Dim{{Symbol: "regions"}, {Size: 3}}, centres.Shape())

	nr := ts.MustField("number_of_regions")
	assert.True(t, nr.Derived())
	assert.Equal(t, "regions", nr.DimSymbol())

	mapping, ok := r.ByTag("testMapping")
	require.True(t, ok)
	refs := mapping.References()
	require.Len(t, refs, 1)
	assert.Equal(t, "connectivity", refs[0].StorageName())
	assert.Equal(t, DTypeInt, mapping.MustField("Array").DType())

	t.Run("Embedded", func(t *testing.T) {
		rts, ok := r.ByTag("testRegionTimeSeries")
		require.True(t, ok)
		assert.Equal(t, []string{"testTimeSeries"}, rts.Bases())
		assert.Len(t, rts.Fields(), 4)
		labels, ok := rts.Field("labels_ordering")
		require.True(t, ok)
		assert.Equal(t, "Labels", labels.Name())
	})

	t.Run("AlreadyRegistered", func(t *testing.T) {
		err := r.RegisterTypes(&testConnectivity{})
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.TraitsTypeAlreadyRegistered))
	})

	t.Run("NotDatatype", func(t *testing.T) {
		type plain struct {
			Value int
		}
		err := r.RegisterTypes(&plain{})
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.TraitsTypeInvalid))

		err = r.RegisterTypes(3)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.TraitsTypeInvalid))
	})

	t.Run("NotRegistered", func(t *testing.T) {
		type other struct {
			Base
		}
		_, err := r.TypeOf(&other{})
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.TraitsTypeNotRegistered))
	})
}

// TestInvalidTags tests the mapping of the invalid field tags.
func TestInvalidTags(t *testing.T) {
	type unknownKey struct {
		Base
		Value int `tvb:"unknown=3"`
	}
	type invalidRange struct {
		Base
		Value float64 `tvb:"range=10,1"`
	}
	type invalidKind struct {
		Base
		Value float64 `tvb:"kind=array"`
	}
	type invalidDefault struct {
		Base
		Value float64 `tvb:"default=three"`
	}
	type invalidShape struct {
		Base
		Value float64 `tvb:"shape=3,3"`
	}
	type invalidDType struct {
		Base
		Value *etensor.Float64 `tvb:"dtype=int"`
	}
	type duplicatedName struct {
		Base
		First  int `tvb:"name=value"`
		Second int `tvb:"name=value"`
	}

	tests := []struct {
		value interface{}
		class errors.Class
	}{
		{&unknownKey{}, class.TraitsTagInvalid},
		{&invalidRange{}, class.TraitsTagInvalid},
		{&invalidKind{}, class.TraitsFieldKind},
		{&invalidDefault{}, class.DatatypeDefault},
		{&invalidShape{}, class.TraitsTagInvalid},
		{&invalidDType{}, class.TraitsTagInvalid},
		{&duplicatedName{}, class.TraitsFieldName},
	}
	for _, tc := range tests {
		r := NewRegistry()
		err := r.RegisterTypes(tc.value)
		require.Error(t, err, "%T", tc.value)
		assert.True(t, errors.IsClass(err, tc.class), "%T: %v", tc.value, err)
	}
}

// TestSubtypes tests the explicit subtype resolution.
func TestSubtypes(t *testing.T) {
	r := newTestRegistry(t)

	subtypes, err := r.Subtypes("testTimeSeries")
	require.NoError(t, err)
	require.Len(t, subtypes, 2)
	assert.Equal(t, "testRegionTimeSeries", subtypes[0].Tag())
	assert.Equal(t, "testSensorsTimeSeries", subtypes[1].Tag())

	assert.True(t, r.IsSubtype("testRegionTimeSeries", "testTimeSeries"))
	assert.True(t, r.IsSubtype("testTimeSeries", "testTimeSeries"))
	assert.False(t, r.IsSubtype("testTimeSeries", "testRegionTimeSeries"))
	assert.False(t, r.IsSubtype("Connectivity", "testTimeSeries"))

	_, err = r.Subtypes("Unknown")
	require.Error(t, err)
	assert.True(t, errors.IsClass(err, class.TraitsTypeNotRegistered))

	t.Run("BaseNotRegistered", func(t *testing.T) {
		r := NewRegistry(WithNamer(namer.NamingKebab))
		require.NoError(t, r.RegisterTypes(&testSensorsTimeSeries{}))

		_, err := r.Ancestors("testSensorsTimeSeries")
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.TraitsBaseNotFound))
		assert.False(t, r.IsSubtype("testSensorsTimeSeries", "testTimeSeries"))
	})
}

// TestDefaults tests setting the default values.
func TestDefaults(t *testing.T) {
	r := newTestRegistry(t)

	dt, err := r.New("testTimeSeries")
	require.NoError(t, err)
	ts := dt.(*testTimeSeries)
	assert.Equal(t, 1.0, ts.SamplePeriod)
	assert.Equal(t, []string{"Time", "State Variable", "Space", "Mode"}, ts.Labels)

	// the default slices are not shared
	ts.Labels[0] = "changed"
	other, err := r.New("testTimeSeries")
	require.NoError(t, err)
	assert.Equal(t, "Time", other.(*testTimeSeries).Labels[0])

	c := &testConnectivity{Speed: 4}
	require.NoError(t, r.Defaults(c))
	assert.Equal(t, 4.0, c.Speed)
	assert.Equal(t, "mm", c.Units)

	_, err = r.New("Unknown")
	assert.True(t, errors.IsClass(err, class.TraitsTypeNotRegistered))
}

// TestValidate tests the datatype validation.
func TestValidate(t *testing.T) {
	r := newTestRegistry(t)

	t.Run("Valid", func(t *testing.T) {
		c := newConnectivity(4)
		require.NoError(t, r.Configure(c))
		assert.Equal(t, 4, c.NumberOfRegions)
	})

	t.Run("Required", func(t *testing.T) {
		c := &testConnectivity{}
		err := r.Configure(c)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeRequired))
	})

	t.Run("LazyArray", func(t *testing.T) {
		c := newConnectivity(3)
		c.Weights = nil
		c.SetHandle("weights", &ArrayHandle{Key: "weights", Shape: []int{3, 3}, DType: DTypeFloat})
		require.NoError(t, r.Configure(c))

		c.Handles["weights"].Shape = []int{3, 4}
		err := r.Validate(c)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeShape))
	})

	t.Run("SymbolBinding", func(t *testing.T) {
		c := newConnectivity(4)
		c.Centres = arrays.NewFloat([]int{5, 3})
		err := r.Configure(c)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeShape))

		c = newConnectivity(4)
		c.RegionLabels = c.RegionLabels[:2]
		err = r.Configure(c)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeShape))
	})

	t.Run("FixedDimension", func(t *testing.T) {
		c := newConnectivity(2)
		c.Centres = arrays.NewFloat([]int{2, 2})
		err := r.Validate(c)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeShape))
	})

	t.Run("RangeAndChoices", func(t *testing.T) {
		c := newConnectivity(2)
		c.Weights.Values[0] = 101
		c.Units = "km"
		c.Speed = -1
		err := r.Configure(c)
		require.Error(t, err)

		multi, ok := err.(errors.MultiError)
		require.True(t, ok)
		assert.Len(t, multi, 3)
		assert.True(t, errors.IsClass(err, class.DatatypeRange))
		assert.True(t, errors.IsClass(err, class.DatatypeChoice))
	})

	t.Run("ValidateTag", func(t *testing.T) {
		ts := &testTimeSeries{Data: arrays.NewFloat([]int{2, 1, 1, 1}), SamplePeriod: -2}
		err := r.Validate(ts)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeValue))

		ts.Data = arrays.NewFloat([]int{2, 1})
		ts.SamplePeriod = 1
		err = r.Validate(ts)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeShape))
	})

	t.Run("Reference", func(t *testing.T) {
		m := &testMapping{}
		err := r.Validate(m)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeRequired))

		m.SetRef("connectivity", uuid.New())
		assert.NoError(t, r.Validate(m))

		m.Connectivity = newConnectivity(2)
		assert.NoError(t, r.Validate(m))
	})
}

// TestSummary tests the datatype summary.
func TestSummary(t *testing.T) {
	r := newTestRegistry(t)

	c := newConnectivity(2)
	c.Title = "default connectivity"
	copy(c.Weights.Values, []float64{0, 1, 2, 3})
	require.NoError(t, r.Configure(c))

	summary, err := r.Summary(c)
	require.NoError(t, err)
	assert.Equal(t, "Connectivity", summary["Type"])
	assert.Equal(t, "default connectivity", summary["Title"])
	assert.Equal(t, "(2, 2)", summary["Connection strengths, unitless shape"])
	assert.Equal(t, "[0, 1.5, 3]", summary["Connection strengths, unitless [min, median, max]"])
	assert.Equal(t, "1.5", summary["Connection strengths, unitless mean"])
	assert.Equal(t, "3", summary["Speed"])
	assert.Equal(t, "2", summary["NumberOfRegions"])
}

// TestCopy tests the deep copy of the datatype.
func TestCopy(t *testing.T) {
	r := newTestRegistry(t)

	c := newConnectivity(2)
	c.GID = uuid.New()
	c.Title = "original"
	require.NoError(t, r.Configure(c))

	cp, err := r.Copy(c)
	require.NoError(t, err)
	cc := cp.(*testConnectivity)
	assert.Equal(t, uuid.Nil, cc.GID)
	assert.Equal(t, "original", cc.Title)
	assert.Equal(t, c.Speed, cc.Speed)

	cc.Weights.Values[0] = 5
	cc.RegionLabels[0] = "changed"
	assert.Equal(t, 0.0, c.Weights.Values[0])
	assert.Equal(t, "a", c.RegionLabels[0])
}

type testLabeledSeries struct {
	Base
	Data       *etensor.Float64    `tvb:"required"`
	Dimensions map[string][]string `tvb:"label=Dimension labels"`
}

// TestCopyMaps tests that the copied map attributes are not shared with the original.
func TestCopyMaps(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.RegisterTypes(&testLabeledSeries{}))

	s := &testLabeledSeries{
		Data:       arrays.NewFloat([]int{2}, 1, 2),
		Dimensions: map[string][]string{"Space": {"a", "b"}},
	}
	cp, err := r.Copy(s)
	require.NoError(t, err)
	sc := cp.(*testLabeledSeries)
	assert.Equal(t, s.Dimensions, sc.Dimensions)

	sc.Dimensions["Space"][0] = "changed"
	sc.Dimensions["Mode"] = []string{"m"}
	assert.Equal(t, map[string][]string{"Space": {"a", "b"}}, s.Dimensions)
}

// TestConfigureAll tests configuring the datatype with its not stored references.
func TestConfigureAll(t *testing.T) {
	r := newTestRegistry(t)

	t.Run("NewReference", func(t *testing.T) {
		c := &testConnectivity{Weights: arrays.NewFloat([]int{3, 3})}
		m := &testMapping{Connectivity: c, Array: arrays.NewInt([]int{2}, 0, 1)}
		require.NoError(t, r.ConfigureAll(m))
		assert.Equal(t, 3, c.NumberOfRegions)
		assert.Equal(t, 3.0, c.Speed)
		assert.Equal(t, "mm", c.Units)
	})

	t.Run("StoredReference", func(t *testing.T) {
		c := &testConnectivity{Weights: arrays.NewFloat([]int{3, 3})}
		c.GID = uuid.New()
		m := &testMapping{Connectivity: c}
		require.NoError(t, r.ConfigureAll(m))
		assert.Equal(t, 0, c.NumberOfRegions)
	})

	t.Run("InvalidReference", func(t *testing.T) {
		m := &testMapping{Connectivity: &testConnectivity{}}
		err := r.ConfigureAll(m)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeRequired))
	})
}
