// Package codec provides the uniform decompression capability FST block
// decoders need: zlib/gzip for GEOM and HIER_GZ, and raw LZ4 block decoding
// for HIER_LZ4, HIER_LZ4DUO, and per-variable VCDATA wave data.
package codec

// Decompressor decompresses a single payload, given a hint for the
// expected uncompressed size. LZ4Block uses the hint as the exact size of
// its output buffer; Zlib and ZlibGzip ignore it. No implementation checks
// the result length against the hint; callers do.
type Decompressor interface {
	Decompress(data []byte, expectedSize int) ([]byte, error)
}
