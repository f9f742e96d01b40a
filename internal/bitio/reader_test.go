package bitio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/fstdump/errs"
)

// =============================================================================
// Fixed-width reads
// =============================================================================

func TestReader_U64_BigEndian(t *testing.T) {
	r := NewReader([]byte{0, 0, 0, 0, 0, 0, 1, 0})

	v, err := r.U64()
	require.NoError(t, err)
	assert.Equal(t, uint64(256), v)
	assert.Equal(t, 8, r.Tell())
}

func TestReader_F64(t *testing.T) {
	// 1.0 in IEEE-754 big-endian double
	r := NewReader([]byte{0x3F, 0xF0, 0, 0, 0, 0, 0, 0})

	v, err := r.F64()
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestReader_U8_EOF(t *testing.T) {
	r := NewReader(nil)

	_, err := r.U8()
	assert.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}

// =============================================================================
// ULEB128 / SLEB128
// =============================================================================

func TestReader_ReadULEB128_SingleByte(t *testing.T) {
	r := NewReader([]byte{0x05})

	v, n, err := r.ReadULEB128()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v)
	assert.Equal(t, 1, n)
}

func TestReader_ReadULEB128_MultiByte(t *testing.T) {
	// 300 = 0b100101100 -> 0xAC 0x02
	r := NewReader([]byte{0xAC, 0x02})

	v, n, err := r.ReadULEB128()
	require.NoError(t, err)
	assert.Equal(t, uint64(300), v)
	assert.Equal(t, 2, n)
}

func TestReader_ReadULEB128_TruncatedRestoresCursor(t *testing.T) {
	r := NewReader([]byte{0x80, 0x80})
	r.Seek(0, SeekSet)

	_, _, err := r.ReadULEB128()
	assert.Error(t, err)
	assert.Equal(t, 0, r.Tell(), "cursor must be restored to start on EOF failure")
}

func TestReader_ReadULEB128_OverflowRestoresCursor(t *testing.T) {
	data := make([]byte, 11)
	for i := range data {
		data[i] = 0x80
	}
	data[len(data)-1] = 0x01

	r := NewReader(data)

	_, _, err := r.ReadULEB128()
	assert.Error(t, err)
	assert.Equal(t, 0, r.Tell())
}

func TestReader_ReadSLEB128_Negative(t *testing.T) {
	// -1 encoded as single-byte SLEB128: 0x7F
	r := NewReader([]byte{0x7F})

	v, n, err := r.ReadSLEB128()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v)
	assert.Equal(t, 1, n)
}

func TestReader_ReadSLEB128_Positive(t *testing.T) {
	// 2 encoded as single-byte SLEB128: 0x02
	r := NewReader([]byte{0x02})

	v, _, err := r.ReadSLEB128()
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestReader_ReadSLEB128_MultiByteNegative(t *testing.T) {
	// -129 in SLEB128: 0xFF 0x7E
	r := NewReader([]byte{0xFF, 0x7E})

	v, _, err := r.ReadSLEB128()
	require.NoError(t, err)
	assert.Equal(t, int64(-129), v)
}

// =============================================================================
// Reverse-direction reads
// =============================================================================

func TestReader_ReadU64Rev(t *testing.T) {
	data := make([]byte, 16)
	data[14] = 0x01
	data[15] = 0x00

	r := NewReader(data)
	r.Seek(0, SeekEnd)

	v, err := r.ReadU64Rev()
	require.NoError(t, err)
	assert.Equal(t, uint64(256), v)
	assert.Equal(t, 8, r.Tell())
}

func TestReader_ReadBytesRev(t *testing.T) {
	data := []byte("hello world")
	r := NewReader(data)
	r.Seek(0, SeekEnd)

	b, err := r.ReadBytesRev(5)
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), b)
	assert.Equal(t, len(data)-5, r.Tell())
}

func TestReader_ReadBytesRev_Truncated(t *testing.T) {
	r := NewReader([]byte("ab"))
	r.Seek(0, SeekEnd)

	_, err := r.ReadBytesRev(5)
	assert.Error(t, err)
}

func TestReader_DualCursor_RevThenFwdDoNotOverlap(t *testing.T) {
	data := make([]byte, 32)
	r := NewReader(data)

	r.Seek(0, SeekSet)
	head := r.Tell()

	r.Seek(0, SeekEnd)
	_, err := r.ReadBytesRev(8)
	require.NoError(t, err)
	tail := r.Tell()

	assert.LessOrEqual(t, head, tail)
}

// =============================================================================
// C strings
// =============================================================================

func TestReader_ReadCString(t *testing.T) {
	r := NewReader([]byte("hello\x00world"))

	s, err := r.ReadCString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	assert.Equal(t, 6, r.Tell())
}

func TestReader_ReadCString_Unterminated(t *testing.T) {
	r := NewReader([]byte("hello"))

	_, err := r.ReadCString()
	assert.Error(t, err)
}

func TestReader_ReadCStringMax_TruncatesNotConsumption(t *testing.T) {
	r := NewReader([]byte("abcdefgh\x00tail"))

	s, err := r.ReadCStringMax(3)
	require.NoError(t, err)
	assert.Equal(t, "abc", s)
	assert.Equal(t, 9, r.Tell(), "cursor advances past the full string and NUL regardless of truncation")
}

// =============================================================================
// Seek / Remaining
// =============================================================================

func TestReader_Seek_ClampsToBounds(t *testing.T) {
	r := NewReader(make([]byte, 4))

	r.Seek(-100, SeekSet)
	assert.Equal(t, 0, r.Tell())

	r.Seek(100, SeekSet)
	assert.Equal(t, 4, r.Tell())
}

func TestReader_Remaining(t *testing.T) {
	r := NewReader(make([]byte, 10))
	assert.Equal(t, 10, r.Remaining())

	r.ReadBytes(4)
	assert.Equal(t, 6, r.Remaining())
}
