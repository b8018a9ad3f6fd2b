package codec

import (
	"math"
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
)

// TestEncodeDecode tests the chunks encoding with all compressions.
func TestEncodeDecode(t *testing.T) {
	values := make([]float64, 4*3*2)
	for i := range values {
		values[i] = float64(i%5) * 0.5
	}
	values[3] = math.NaN()
	floats := arrays.NewFloat([]int{4, 3, 2}, values...)
	ints := arrays.NewInt([]int{2, 3}, -1, 0, 1, 2, 3, 1<<40)

	for _, c := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(c.String(), func(t *testing.T) {
			data, err := Encode(floats, c)
			require.NoError(t, err)

			h, err := DecodeHeader(data)
			require.NoError(t, err)
			assert.Equal(t, []int{4, 3, 2}, h.Shape)
			assert.Equal(t, DTypeFloat64, h.DType)

			decoded, err := Decode(data)
			require.NoError(t, err)
			ft, ok := decoded.(*etensor.Float64)
			require.True(t, ok)
			assert.Equal(t, []int{4, 3, 2}, arrays.ShapeOf(ft))
			assert.True(t, math.IsNaN(ft.Values[3]))
			ft.Values[3] = values[3]
			for i := range values {
				if i != 3 {
					assert.Equal(t, values[i], ft.Values[i])
				}
			}

			data, err = Encode(ints, c)
			require.NoError(t, err)
			decoded, err = Decode(data)
			require.NoError(t, err)
			it, ok := decoded.(*etensor.Int)
			require.True(t, ok)
			assert.Equal(t, ints.Values, it.Values)
		})
	}
}

// TestDecodeInvalid tests decoding the corrupted chunks.
func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte("XXXX1234"))
	require.Error(t, err)
	assert.True(t, errors.IsClass(err, class.StorageCodec))

	data, err := Encode(arrays.NewFloat([]int{2, 2}, 1, 2, 3, 4), CompressionNone)
	require.NoError(t, err)
	_, err = Decode(data[:len(data)-3])
	require.Error(t, err)
	assert.True(t, errors.IsClass(err, class.StorageCodec))
}

// TestParseCompression tests the compression parsing.
func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, c)

	c, err = ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)

	_, err = ParseCompression("bzip2")
	require.Error(t, err)
	assert.True(t, errors.IsClass(err, class.StorageCompression))
}
