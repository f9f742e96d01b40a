package block

import (
	"encoding/json"
	"fmt"

	"github.com/arloliu/fstdump/errs"
	"github.com/arloliu/fstdump/hier"
	"github.com/arloliu/fstdump/internal/bitio"
	"github.com/arloliu/fstdump/internal/codec"
	"github.com/arloliu/fstdump/internal/sink"
)

type hierHeader struct {
	Offset                     int64  `json:"offset"`
	PayloadLen                 int    `json:"payload_len"`
	DeclaredUncompressedLength uint64 `json:"declared_uncompressed_length"`
	DeclaredCompressedOnceLen  uint64 `json:"declared_compressed_once_length,omitempty"`
	AfterLZ4Length             int    `json:"after_lz4_length,omitempty"`
	ActualUncompressedLength   int    `json:"actual_uncompressed_length"`
	FullDigest                 string `json:"full_digest"`
}

// writeHierResult checks the decompressed length against the declared one,
// then writes the raw decompressed buffer, the header JSON (which carries
// the buffer's digest), and the parsed hierarchy JSON, in that order
// (spec.md §4.8).
func writeHierResult(blockName string, idx int, offset int64, payloadLen int, s *sink.Sink, header hierHeader, final []byte) error {
	if uint64(len(final)) != header.DeclaredUncompressedLength {
		return fmt.Errorf("%w: %s declared uncompressed length %d, got %d",
			errs.ErrLengthMismatch, blockName, header.DeclaredUncompressedLength, len(final))
	}

	fullDigest, err := s.Write(idx, blockName, offset, payloadLen, 0, "full.bin", final)
	if err != nil {
		return err
	}

	header.FullDigest = fullDigest

	hbytes, err := json.MarshalIndent(header, "", "  ")
	if err != nil {
		return fmt.Errorf("fstdump: marshal %s header json: %w", blockName, err)
	}

	if _, err := s.Write(idx, blockName, offset, payloadLen, 0, "header.json", hbytes); err != nil {
		return err
	}

	result, err := hier.NewParser().Parse(final)
	if err != nil {
		return err
	}

	pbytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("fstdump: marshal %s decoded json: %w", blockName, err)
	}

	_, err = s.Write(idx, blockName, offset, payloadLen, 1, "decoded.json", pbytes)

	return err
}

// decodeHIERGZ parses a HIER_GZ block: uncompressed_length (8B) followed
// by gzip- or zlib-compressed hierarchy data.
func decodeHIERGZ(payload []byte, idx int, offset int64, s *sink.Sink) error {
	if len(payload) < 8 {
		return fmt.Errorf("%w: HIER_GZ payload too small: %d", errs.ErrInvalidPayloadSize, len(payload))
	}

	r := bitio.NewReader(payload)

	uncompressedLength, err := r.U64()
	if err != nil {
		return err
	}

	dec, err := codec.NewZlibGzip().Decompress(r.ReadBytes(r.Remaining()), int(uncompressedLength))
	if err != nil {
		return err
	}

	header := hierHeader{
		Offset:                     offset,
		PayloadLen:                 len(payload),
		DeclaredUncompressedLength: uncompressedLength,
		ActualUncompressedLength:   len(dec),
	}

	blockLen := len(payload) + 8

	return writeHierResult("HIER_GZ", idx, offset, blockLen, s, header, dec)
}

// decodeHIERLZ4 parses a HIER_LZ4 block: uncompressed_length (8B) followed
// by a raw LZ4 block.
func decodeHIERLZ4(payload []byte, idx int, offset int64, s *sink.Sink) error {
	if len(payload) < 8 {
		return fmt.Errorf("%w: HIER_LZ4 payload too small: %d", errs.ErrInvalidPayloadSize, len(payload))
	}

	r := bitio.NewReader(payload)

	uncompressedLength, err := r.U64()
	if err != nil {
		return err
	}

	dec, err := codec.NewLZ4Block().Decompress(r.ReadBytes(r.Remaining()), int(uncompressedLength))
	if err != nil {
		return err
	}

	header := hierHeader{
		Offset:                     offset,
		PayloadLen:                 len(payload),
		DeclaredUncompressedLength: uncompressedLength,
		ActualUncompressedLength:   len(dec),
	}

	blockLen := len(payload) + 8

	return writeHierResult("HIER_LZ4", idx, offset, blockLen, s, header, dec)
}

// decodeHIERLZ4Duo parses a HIER_LZ4DUO block: uncompressed_length (8B),
// compressed_once_length (8B), then data compressed twice with raw LZ4
// blocks.
func decodeHIERLZ4Duo(payload []byte, idx int, offset int64, s *sink.Sink) error {
	if len(payload) < 16 {
		return fmt.Errorf("%w: HIER_LZ4DUO payload too small: %d", errs.ErrInvalidPayloadSize, len(payload))
	}

	r := bitio.NewReader(payload)

	uncompressedLength, err := r.U64()
	if err != nil {
		return err
	}

	compressedOnceLength, err := r.U64()
	if err != nil {
		return err
	}

	lz4codec := codec.NewLZ4Block()

	afterLZ4, err := lz4codec.Decompress(r.ReadBytes(r.Remaining()), int(compressedOnceLength))
	if err != nil {
		return err
	}

	final, err := lz4codec.Decompress(afterLZ4, int(uncompressedLength))
	if err != nil {
		return err
	}

	header := hierHeader{
		Offset:                     offset,
		PayloadLen:                 len(payload),
		DeclaredUncompressedLength: uncompressedLength,
		DeclaredCompressedOnceLen:  compressedOnceLength,
		AfterLZ4Length:             len(afterLZ4),
		ActualUncompressedLength:   len(final),
	}

	return writeHierResult("HIER_LZ4DUO", idx, offset, len(payload), s, header, final)
}
