/*
Package codec encodes the n-dimensional float and int arrays into the binary chunks stored by the repository.

A chunk is defined as:

	magic 'TVBA' | version | dtype | compression | ndims | shape (uint32 LE each) | payload

The payload is the little-endian float64 or int64 array values, compressed with zstd, lz4 block
(prefixed with the uncompressed size) or not compressed at all.
*/
package codec
