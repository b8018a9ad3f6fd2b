package arrays

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestShapes tests the shape helpers.
func TestShapes(t *testing.T) {
	assert.Equal(t, 24, Size([]int{2, 3, 4}))
	assert.Equal(t, 0, Size(nil))
	assert.Equal(t, 12, RowSize([]int{2, 3, 4}))
	assert.Equal(t, 1, RowSize([]int{5}))
	assert.Equal(t, []int{12, 4, 1}, Strides([]int{2, 3, 4}))
	assert.Equal(t, 1*12+2*4+3, Offset([]int{2, 3, 4}, 1, 2, 3))

	f := NewFloat([]int{2, 3})
	assert.Equal(t, []int{2, 3}, ShapeOf(f))
	i := NewInt([]int{4})
	assert.Equal(t, []int{4}, ShapeOf(i))
	assert.Nil(t, ShapeOf("not a tensor"))

	assert.True(t, EqualShape([]int{1, 2}, []int{1, 2}))
	assert.False(t, EqualShape([]int{1, 2}, []int{2, 1}))
	assert.False(t, EqualShape([]int{1}, []int{1, 1}))
}

// TestStats tests the statistics of the values.
func TestStats(t *testing.T) {
	min, max, mean := Stats([]float64{3, -1, math.NaN(), 4})
	assert.Equal(t, -1.0, min)
	assert.Equal(t, 4.0, max)
	assert.Equal(t, 2.0, mean)

	min, _, _ = Stats(nil)
	assert.True(t, math.IsNaN(min))
}

// TestRows tests the row slicing and concatenation.
func TestRows(t *testing.T) {
	f := NewFloat([]int{4, 2}, 0, 1, 2, 3, 4, 5, 6, 7)

	rows, err := Rows(f, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, rows.Shapes())
	assert.Equal(t, []float64{2, 3, 4, 5}, rows.Values)

	_, err = Rows(f, 3, 5)
	assert.Error(t, err)

	first, err := Rows(f, 0, 1)
	require.NoError(t, err)
	rest, err := Rows(f, 1, 4)
	require.NoError(t, err)
	joined, err := ConcatFloat(first, rest)
	require.NoError(t, err)
	assert.Equal(t, f.Values, joined.Values)
	assert.Equal(t, f.Shapes(), joined.Shapes())

	_, err = ConcatFloat(first, NewFloat([]int{1, 3}))
	assert.Error(t, err)

	t.Run("Int", func(t *testing.T) {
		it := NewInt([]int{3, 2}, 1, 2, 3, 4, 5, 6)
		part, err := RowsInt(it, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, []int{5, 6}, part.Values)

		head, err := RowsInt(it, 0, 2)
		require.NoError(t, err)
		joined, err := ConcatInt(head, part)
		require.NoError(t, err)
		assert.Equal(t, it.Values, joined.Values)
	})
}

// TestDense tests the gonum matrix conversions.
func TestDense(t *testing.T) {
	f := NewFloat([]int{2, 3}, 1, 2, 3, 4, 5, 6)
	d, err := Dense(f)
	require.NoError(t, err)
	assert.Equal(t, 6.0, d.At(1, 2))

	// the matrix is a copy.
	d.Set(0, 0, 10)
	assert.Equal(t, 1.0, f.Values[0])

	back := FromDense(mat.DenseCopyOf(d.T()))
	assert.Equal(t, []int{3, 2}, back.Shapes())
	assert.Equal(t, 10.0, back.Values[0])

	tr, err := Transpose2D(f)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, tr.Values)

	_, err = Dense(NewFloat([]int{2, 2, 2}))
	assert.Error(t, err)
}
