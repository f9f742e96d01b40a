package block

import (
	"encoding/json"
	"fmt"

	"github.com/arloliu/fstdump/errs"
	"github.com/arloliu/fstdump/internal/bitio"
	"github.com/arloliu/fstdump/internal/codec"
	"github.com/arloliu/fstdump/internal/sink"
)

type geomHeader struct {
	Offset                     int64  `json:"offset"`
	PayloadLen                 int    `json:"payload_len"`
	DeclaredUncompressedLength uint64 `json:"declared_uncompressed_length"`
	Count                      uint64 `json:"count"`
	IsUncompressed             bool   `json:"is_uncompressed"`
	ActualUncompressedLength   int    `json:"actual_uncompressed_length"`
	Digest                     string `json:"dec_digest"`
}

type geomValues struct {
	Offset        int64    `json:"offset"`
	CountExpected uint64   `json:"count_expected"`
	ValuesParsed  int      `json:"values_parsed"`
	Values        []uint64 `json:"values"`
}

// decodeGEOM parses a GEOM block (spec.md §3, §4.7).
func decodeGEOM(payload []byte, idx int, offset int64, s *sink.Sink) error {
	if len(payload) < 16 {
		return fmt.Errorf("%w: GEOM payload must be at least 16 bytes, got %d", errs.ErrInvalidPayloadSize, len(payload))
	}

	r := bitio.NewReader(payload)

	uncompressedLength, err := r.U64()
	if err != nil {
		return err
	}

	count, err := r.U64()
	if err != nil {
		return err
	}

	data := r.ReadBytes(r.Remaining())

	isUncompressed := uint64(len(payload)) == uncompressedLength+16

	var dec []byte
	if isUncompressed {
		dec = data
	} else {
		dec, err = codec.NewZlib().Decompress(data, int(uncompressedLength))
		if err != nil {
			return err
		}
	}

	if uint64(len(dec)) != uncompressedLength {
		return fmt.Errorf("%w: GEOM declared uncompressed length %d, got %d", errs.ErrLengthMismatch, uncompressedLength, len(dec))
	}

	decDigest, err := s.Write(idx, "GEOM", offset, len(payload), 0, "dec.bin", dec)
	if err != nil {
		return err
	}

	header := geomHeader{
		Offset:                     offset,
		PayloadLen:                 len(payload),
		DeclaredUncompressedLength: uncompressedLength,
		Count:                      count,
		IsUncompressed:             isUncompressed,
		ActualUncompressedLength:   len(dec),
		Digest:                     decDigest,
	}

	hbytes, err := json.MarshalIndent(header, "", "  ")
	if err != nil {
		return fmt.Errorf("fstdump: marshal GEOM header json: %w", err)
	}

	if _, err := s.Write(idx, "GEOM", offset, len(payload), 0, "header.json", hbytes); err != nil {
		return err
	}

	values, err := parseGeomValues(dec, count)
	if err != nil {
		return err
	}

	vresult := geomValues{
		Offset:        offset,
		CountExpected: count,
		ValuesParsed:  len(values),
		Values:        values,
	}

	vbytes, err := json.MarshalIndent(vresult, "", "  ")
	if err != nil {
		return fmt.Errorf("fstdump: marshal GEOM values json: %w", err)
	}

	_, err = s.Write(idx, "GEOM", offset, len(payload), 1, "values.json", vbytes)

	return err
}

func parseGeomValues(dec []byte, count uint64) ([]uint64, error) {
	values := make([]uint64, 0, count)

	if len(dec) == 0 {
		if count != 0 {
			return nil, fmt.Errorf("%w: GEOM parsed 0 values but expected %d", errs.ErrLengthMismatch, count)
		}

		return values, nil
	}

	r := bitio.NewReader(dec)

	for r.Remaining() > 0 && uint64(len(values)) < count {
		v, _, err := r.ReadULEB128()
		if err != nil {
			return nil, err
		}

		values = append(values, v)
	}

	if uint64(len(values)) != count {
		return nil, fmt.Errorf("%w: GEOM parsed %d values but expected %d", errs.ErrLengthMismatch, len(values), count)
	}

	return values, nil
}
