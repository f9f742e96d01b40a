package codec

import (
	"fmt"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/fstdump/errs"
)

// LZ4Block decompresses raw LZ4 block-format data (not the LZ4 frame
// format) via pierrec/lz4. FST always supplies an exact expected
// uncompressed size alongside every LZ4-compressed region, so unlike a
// general-purpose LZ4 decompressor this implementation pre-sizes its
// output buffer exactly rather than guessing and retrying.
type LZ4Block struct{}

var _ Decompressor = LZ4Block{}

// NewLZ4Block creates an LZ4Block decompressor.
func NewLZ4Block() LZ4Block { return LZ4Block{} }

// Decompress implements Decompressor. expectedSize must be the exact
// uncompressed size; a mismatch between it and the actual decompressed
// length is reported as errs.ErrLengthMismatch by the caller, not here —
// Decompress itself only reports codec-level failures.
func (LZ4Block) Decompress(data []byte, expectedSize int) ([]byte, error) {
	if len(data) == 0 {
		if expectedSize == 0 {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: lz4: empty block but expected %d bytes", errs.ErrDecompression, expectedSize)
	}

	dst := make([]byte, expectedSize)

	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %w", errs.ErrDecompression, err)
	}

	return dst[:n], nil
}
