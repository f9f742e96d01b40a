package codec

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/arloliu/fstdump/errs"
)

// ZlibGzip decompresses data that is either gzip-framed (RFC 1952) or raw
// zlib-framed (RFC 1950), trying gzip first and falling back to zlib. This
// matches the FST reference decoder's own fallback order for HIER_GZ, the
// only block decoded with it; GEOM and VCDATA use Zlib.
type ZlibGzip struct{}

var _ Decompressor = ZlibGzip{}

// NewZlibGzip creates a ZlibGzip decompressor.
func NewZlibGzip() ZlibGzip { return ZlibGzip{} }

// Decompress implements Decompressor.
func (ZlibGzip) Decompress(data []byte, expectedSize int) ([]byte, error) {
	if gz, err := gzip.NewReader(bytes.NewReader(data)); err == nil {
		out, readErr := io.ReadAll(gz)
		if readErr == nil {
			return out, nil
		}
	}

	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip/zlib: %w", errs.ErrDecompression, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip/zlib: %w", errs.ErrDecompression, err)
	}

	return out, nil
}
