package codec

import (
	"encoding/binary"
	"math"

	"github.com/emer/etable/etensor"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
)

// Magic is the chunk magic number.
const Magic = "TVBA"

// Version is the current chunk format version.
const Version uint8 = 1

// DType is the encoded array element type.
type DType uint8

// Encoded element types.
const (
	DTypeFloat64 DType = 1
	DTypeInt64   DType = 2
)

// String implements fmt.Stringer.
func (d DType) String() string {
	switch d {
	case DTypeFloat64:
		return "float"
	case DTypeInt64:
		return "int"
	}
	return "unknown"
}

// Header is the decoded chunk header.
type Header struct {
	Version     uint8
	DType       DType
	Compression Compression
	Shape       []int
	// Size is the header length in bytes.
	Size int
}

// Encode encodes the float or int 'tensor' into the chunk compressed with 'c'.
func Encode(tensor etensor.Tensor, c Compression) ([]byte, error) {
	var (
		dtype   DType
		payload []byte
		shape   = arrays.ShapeOf(tensor)
	)
	switch t := tensor.(type) {
	case *etensor.Float64:
		dtype = DTypeFloat64
		payload = make([]byte, 8*len(t.Values))
		for i, v := range t.Values {
			binary.LittleEndian.PutUint64(payload[8*i:], math.Float64bits(v))
		}
	case *etensor.Int:
		dtype = DTypeInt64
		payload = make([]byte, 8*len(t.Values))
		for i, v := range t.Values {
			binary.LittleEndian.PutUint64(payload[8*i:], uint64(int64(v)))
		}
	default:
		return nil, errors.NewDetf(class.StorageCodec, "unsupported tensor type: '%T'", tensor)
	}
	if len(shape) > math.MaxUint8 {
		return nil, errors.NewDetf(class.StorageCodec, "too many dimensions: %d", len(shape))
	}

	compressed, used, err := compress(payload, c)
	if err != nil {
		return nil, err
	}

	headerSize := len(Magic) + 4 + 4*len(shape)
	out := make([]byte, headerSize, headerSize+len(compressed))
	copy(out, Magic)
	out[4] = Version
	out[5] = byte(dtype)
	out[6] = byte(used)
	out[7] = byte(len(shape))
	for i, s := range shape {
		binary.LittleEndian.PutUint32(out[8+4*i:], uint32(s))
	}
	return append(out, compressed...), nil
}

// DecodeHeader decodes the chunk header.
func DecodeHeader(data []byte) (*Header, error) {
	if len(data) < 8 || string(data[:4]) != Magic {
		return nil, errors.NewDet(class.StorageCodec, "invalid chunk magic number")
	}
	h := &Header{
		Version:     data[4],
		DType:       DType(data[5]),
		Compression: Compression(data[6]),
	}
	if h.Version != Version {
		return nil, errors.NewDetf(class.StorageCodec, "unsupported chunk version: %d", h.Version)
	}
	ndims := int(data[7])
	h.Size = 8 + 4*ndims
	if len(data) < h.Size {
		return nil, errors.NewDet(class.StorageCodec, "chunk header is truncated")
	}
	h.Shape = make([]int, ndims)
	for i := range h.Shape {
		h.Shape[i] = int(binary.LittleEndian.Uint32(data[8+4*i:]))
	}
	return h, nil
}

// Decode decodes the chunk into the *etensor.Float64 or *etensor.Int.
func Decode(data []byte) (etensor.Tensor, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	size := arrays.Size(h.Shape)
	payload, err := decompress(data[h.Size:], h.Compression, 8*size)
	if err != nil {
		return nil, err
	}
	if len(payload) != 8*size {
		return nil, errors.NewDetf(class.StorageCodec, "chunk payload size: %d doesn't match the shape: %v", len(payload), h.Shape)
	}

	switch h.DType {
	case DTypeFloat64:
		values := make([]float64, size)
		for i := range values {
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[8*i:]))
		}
		return arrays.NewFloat(h.Shape, values...), nil
	case DTypeInt64:
		values := make([]int, size)
		for i := range values {
			values[i] = int(int64(binary.LittleEndian.Uint64(payload[8*i:])))
		}
		return arrays.NewInt(h.Shape, values...), nil
	}
	return nil, errors.NewDetf(class.StorageCodec, "unknown chunk dtype: %d", h.DType)
}
