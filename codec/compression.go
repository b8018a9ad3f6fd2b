package codec

import (
	"encoding/binary"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
)

// Compression is the chunk payload compression algorithm.
type Compression uint8

// Compression algorithms.
const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

// String implements fmt.Stringer.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	}
	return "unknown"
}

// ParseCompression parses the compression name. An empty name means no compression.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	}
	return 0, errors.NewDetf(class.StorageCompression, "unknown compression: '%s'", name)
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

// compress compresses the 'data'. The returned compression is none if the lz4 can't compress the data.
func compress(data []byte, c Compression) ([]byte, Compression, error) {
	switch c {
	case CompressionNone:
		return data, c, nil
	case CompressionZstd:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, c, errors.Wrap(err, class.StorageCompression, "creating zstd encoder failed")
		}
		defer zstdEncoderPool.Put(enc)
		return enc.EncodeAll(data, nil), c, nil
	case CompressionLZ4:
		compressed := make([]byte, 4+lz4.CompressBlockBound(len(data)))
		binary.LittleEndian.PutUint32(compressed, uint32(len(data)))
		n, err := lz4.CompressBlock(data, compressed[4:], nil)
		if err != nil {
			return nil, c, errors.Wrap(err, class.StorageCompression, "lz4 compression failed")
		}
		if n == 0 {
			// incompressible
			return data, CompressionNone, nil
		}
		return compressed[:4+n], c, nil
	}
	return nil, c, errors.NewDetf(class.StorageCompression, "unknown compression: %d", c)
}

func decompress(data []byte, c Compression, size int) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, errors.Wrap(err, class.StorageCompression, "creating zstd decoder failed")
		}
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(data, make([]byte, 0, size))
		if err != nil {
			return nil, errors.Wrap(err, class.StorageCompression, "zstd decompression failed")
		}
		return out, nil
	case CompressionLZ4:
		if len(data) < 4 {
			return nil, errors.NewDet(class.StorageCodec, "lz4 payload too small")
		}
		out := make([]byte, binary.LittleEndian.Uint32(data))
		n, err := lz4.UncompressBlock(data[4:], out)
		if err != nil {
			return nil, errors.Wrap(err, class.StorageCompression, "lz4 decompression failed")
		}
		return out[:n], nil
	}
	return nil, errors.NewDetf(class.StorageCompression, "unknown compression: %d", c)
}
