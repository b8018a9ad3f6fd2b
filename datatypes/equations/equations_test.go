package equations

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
)

// TestTags tests the registered equation tags.
func TestTags(t *testing.T) {
	assert.Equal(t, []string{"Alpha", "Cosine", "DoubleGaussian", "Gaussian", "Linear", "PulseTrain", "Sigmoid", "Sinusoid"}, Tags())
}

// TestNew tests creating the equations with the default parameters.
func TestNew(t *testing.T) {
	eq, err := New("Gaussian")
	require.NoError(t, err)
	g, ok := eq.(*Gaussian)
	require.True(t, ok)
	assert.Equal(t, 1.0, g.Amp)
	assert.Equal(t, 1.0, g.Sigma)

	eq, err = New("DoubleGaussian")
	require.NoError(t, err)
	assert.Equal(t, 20.0, eq.(*DoubleGaussian).Sigma1)

	_, err = New("Polynomial")
	require.Error(t, err)
	assert.True(t, errors.IsClass(err, class.TraitsTypeNotRegistered))
}

// TestEvaluate tests the equations evaluation.
func TestEvaluate(t *testing.T) {
	t.Run("Linear", func(t *testing.T) {
		eq := &Linear{A: 2, B: 1}
		assert.Equal(t, []float64{1, 3, 5}, eq.Evaluate([]float64{0, 1, 2}))
	})

	t.Run("Gaussian", func(t *testing.T) {
		eq := &Gaussian{Amp: 2, Sigma: 1, Offset: 0.5}
		y := eq.Evaluate([]float64{0, 1})
		assert.InDelta(t, 2.5, y[0], 1e-12)
		assert.InDelta(t, 2*math.Exp(-0.5)+0.5, y[1], 1e-12)
	})

	t.Run("DoubleGaussian", func(t *testing.T) {
		eq, err := New("DoubleGaussian")
		require.NoError(t, err)
		assert.InDelta(t, -0.5, eq.Evaluate([]float64{0})[0], 1e-12)
	})

	t.Run("Sigmoid", func(t *testing.T) {
		eq, err := New("Sigmoid")
		require.NoError(t, err)
		y := eq.Evaluate([]float64{-5, 5, 0, 100})
		assert.InDelta(t, 0.5, y[0], 1e-12)
		assert.InDelta(t, 0.5, y[1], 1e-12)
		assert.True(t, y[2] > 0.99)
		assert.True(t, y[3] < 1e-9)
	})

	t.Run("Periodic", func(t *testing.T) {
		sin := &Sinusoid{Amp: 1, Frequency: 0.25}
		cos := &Cosine{Amp: 1, Frequency: 0.25}
		assert.InDelta(t, 1.0, sin.Evaluate([]float64{1})[0], 1e-12)
		assert.InDelta(t, 0.0, cos.Evaluate([]float64{1})[0], 1e-12)
		assert.InDelta(t, 1.0, cos.Evaluate([]float64{0})[0], 1e-12)
	})

	t.Run("Alpha", func(t *testing.T) {
		eq, err := New("Alpha")
		require.NoError(t, err)
		y := eq.Evaluate([]float64{0, 0.5, 0.6})
		assert.Equal(t, 0.0, y[0])
		assert.Equal(t, 0.0, y[1])
		assert.True(t, y[2] > 0)

		invalid := &Alpha{Onset: 0, Alpha: 3, Beta: 3}
		err = Validate(invalid)
		require.Error(t, err)
		assert.True(t, errors.IsClass(err, class.DatatypeValue))
	})

	t.Run("PulseTrain", func(t *testing.T) {
		eq, err := New("PulseTrain")
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 1, 1, 0, 1}, eq.Evaluate([]float64{29, 30, 42.9, 44, 72}))
	})
}
