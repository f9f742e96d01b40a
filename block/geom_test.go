package block

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/fstdump/internal/sink"
)

func u64be(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)

	return b
}

func TestDecodeGEOM_Uncompressed(t *testing.T) {
	dir := t.TempDir()
	s := sink.New(dir)

	values := []uint64{1, 2, 3}

	var dec []byte
	for _, v := range values {
		dec = append(dec, uleb(v)...)
	}

	var payload []byte
	payload = append(payload, u64be(uint64(len(dec)))...)
	payload = append(payload, u64be(uint64(len(values)))...)
	payload = append(payload, dec...)

	err := decodeGEOM(payload, 0, 0, s)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3) // dec.bin, header.json, values.json

	var valuesFile string

	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" && bytes.Contains([]byte(e.Name()), []byte("values")) {
			valuesFile = e.Name()
		}
	}

	require.NotEmpty(t, valuesFile)

	raw, err := os.ReadFile(filepath.Join(dir, valuesFile))
	require.NoError(t, err)

	var vr geomValues
	require.NoError(t, json.Unmarshal(raw, &vr))
	assert.Equal(t, values, vr.Values)
}

func TestDecodeGEOM_Compressed(t *testing.T) {
	dir := t.TempDir()
	s := sink.New(dir)

	dec := uleb(42)

	var buf bytes.Buffer

	zw := zlib.NewWriter(&buf)
	_, err := zw.Write(dec)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var payload []byte
	payload = append(payload, u64be(uint64(len(dec)))...)
	payload = append(payload, u64be(1)...) // count
	payload = append(payload, buf.Bytes()...)

	err = decodeGEOM(payload, 0, 0, s)
	require.NoError(t, err)
}

func TestDecodeGEOM_TooShortErrors(t *testing.T) {
	s := sink.New(t.TempDir())

	err := decodeGEOM(make([]byte, 4), 0, 0, s)
	assert.Error(t, err)
}

func TestDecodeGEOM_LengthMismatchErrors(t *testing.T) {
	s := sink.New(t.TempDir())

	var buf bytes.Buffer

	zw := zlib.NewWriter(&buf)
	_, err := zw.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var payload []byte
	payload = append(payload, u64be(100)...) // claims 100 bytes uncompressed
	payload = append(payload, u64be(1)...)
	payload = append(payload, buf.Bytes()...) // decompresses to only 3 bytes

	err = decodeGEOM(payload, 0, 0, s)
	assert.Error(t, err)
}
