package codec

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zlibCompress(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer

	zw := zlib.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func gzipCompress(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer

	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(data)
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	return buf.Bytes()
}

func lz4Compress(t *testing.T, data []byte) []byte {
	t.Helper()

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	var c lz4.Compressor

	n, err := c.CompressBlock(data, dst)
	require.NoError(t, err)

	return dst[:n]
}

// =============================================================================
// Zlib
// =============================================================================

func TestZlib_Decompress_RoundTrip(t *testing.T) {
	original := []byte("the quick brown fox jumps over the lazy dog")
	compressed := zlibCompress(t, original)

	out, err := NewZlib().Decompress(compressed, len(original))
	require.NoError(t, err)
	assert.Equal(t, original, out)
}

func TestZlib_Decompress_CorruptData(t *testing.T) {
	_, err := NewZlib().Decompress([]byte{0xFF, 0xFF, 0xFF}, 10)
	assert.Error(t, err)
}

// =============================================================================
// ZlibGzip
// =============================================================================

func TestZlibGzip_Decompress_GzipInput(t *testing.T) {
	original := []byte("hierarchy bytes here")
	compressed := gzipCompress(t, original)

	out, err := NewZlibGzip().Decompress(compressed, len(original))
	require.NoError(t, err)
	assert.Equal(t, original, out)
}

func TestZlibGzip_Decompress_ZlibFallback(t *testing.T) {
	original := []byte("zlib-framed fallback data")
	compressed := zlibCompress(t, original)

	out, err := NewZlibGzip().Decompress(compressed, len(original))
	require.NoError(t, err)
	assert.Equal(t, original, out)
}

func TestZlibGzip_Decompress_NeitherFormat(t *testing.T) {
	_, err := NewZlibGzip().Decompress([]byte{0x01, 0x02, 0x03}, 10)
	assert.Error(t, err)
}

// =============================================================================
// LZ4Block
// =============================================================================

func TestLZ4Block_Decompress_RoundTrip(t *testing.T) {
	original := bytes.Repeat([]byte("wave-data-slot"), 20)
	compressed := lz4Compress(t, original)

	out, err := NewLZ4Block().Decompress(compressed, len(original))
	require.NoError(t, err)
	assert.Equal(t, original, out)
}

func TestLZ4Block_Decompress_EmptyInputZeroExpected(t *testing.T) {
	out, err := NewLZ4Block().Decompress(nil, 0)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestLZ4Block_Decompress_EmptyInputNonZeroExpected(t *testing.T) {
	_, err := NewLZ4Block().Decompress(nil, 10)
	assert.Error(t, err)
}

func TestLZ4Block_Decompress_CorruptBlock(t *testing.T) {
	_, err := NewLZ4Block().Decompress([]byte{0xFF, 0xFF, 0xFF, 0xFF}, 100)
	assert.Error(t, err)
}
