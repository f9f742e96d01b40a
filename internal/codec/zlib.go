package codec

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/arloliu/fstdump/errs"
)

// Zlib decompresses raw zlib-framed data (RFC 1950). GEOM and VCDATA use
// zlib exclusively for their compressed regions (bits array, time table).
type Zlib struct{}

var _ Decompressor = Zlib{}

// NewZlib creates a Zlib decompressor.
func NewZlib() Zlib { return Zlib{} }

// Decompress implements Decompressor.
func (Zlib) Decompress(data []byte, expectedSize int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: zlib: %w", errs.ErrDecompression, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: zlib: %w", errs.ErrDecompression, err)
	}

	return out, nil
}
