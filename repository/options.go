package repository

import (
	"github.com/neuronlabs/tvb/codec"
)

// DefaultChunkRows is the default number of the first axis rows stored in a single chunk.
const DefaultChunkRows = 1024

// Options are the repository options.
type Options struct {
	// Compression is the array chunks compression.
	Compression codec.Compression
	// ChunkRows is the number of the first axis rows stored in a single chunk.
	ChunkRows int
	// Workers is the number of concurrently written or read chunks.
	Workers int
}

// Option is a function that changes the repository options.
type Option func(o *Options)

// WithCompression sets the chunks compression.
func WithCompression(c codec.Compression) Option {
	return func(o *Options) {
		o.Compression = c
	}
}

// WithChunkRows sets the number of rows per chunk.
func WithChunkRows(rows int) Option {
	return func(o *Options) {
		o.ChunkRows = rows
	}
}

// WithWorkers sets the number of concurrent chunk operations.
func WithWorkers(workers int) Option {
	return func(o *Options) {
		o.Workers = workers
	}
}

func defaultOptions() *Options {
	return &Options{
		Compression: codec.CompressionZstd,
		ChunkRows:   DefaultChunkRows,
		Workers:     4,
	}
}
