package block

import (
	"encoding/json"
	"fmt"

	"github.com/arloliu/fstdump/errs"
	"github.com/arloliu/fstdump/internal/bitio"
	"github.com/arloliu/fstdump/internal/sink"
)

// hdrPayloadSize is the fixed size of the HDR block payload (spec.md §3).
const hdrPayloadSize = 321

// hdrFields mirrors the JSON shape the reference decoder emits for a HDR
// block.
type hdrFields struct {
	Offset           int64   `json:"offset"`
	StartTime        uint64  `json:"start_time"`
	EndTime          uint64  `json:"end_time"`
	RealEndianness   float64 `json:"real_endianness"`
	WriterMemoryUse  uint64  `json:"writer_memory_use"`
	NumScopes        uint64  `json:"num_scopes"`
	NumHierarchyVars uint64  `json:"num_hiearchy_vars"`
	NumVars          uint64  `json:"num_vars"`
	NumVCBlocks      uint64  `json:"num_vc_blocks"`
	Timescale        int8    `json:"timescale"`
	Writer           string  `json:"writer"`
	Date             string  `json:"date"`
	Filetype         uint8   `json:"filetype"`
	Timezero         int64   `json:"timezero"`
}

// decodeHDR parses the fixed-layout HDR block (spec.md §3, §4.5).
func decodeHDR(payload []byte, idx int, offset int64, s *sink.Sink) error {
	if len(payload) != hdrPayloadSize {
		return fmt.Errorf("%w: HDR payload must be %d bytes, got %d", errs.ErrInvalidPayloadSize, hdrPayloadSize, len(payload))
	}

	r := bitio.NewReader(payload)

	var (
		fields hdrFields
		err    error
	)

	fields.Offset = offset

	if fields.StartTime, err = r.U64(); err != nil {
		return err
	}
	if fields.EndTime, err = r.U64(); err != nil {
		return err
	}
	if fields.RealEndianness, err = r.F64(); err != nil {
		return err
	}
	if fields.WriterMemoryUse, err = r.U64(); err != nil {
		return err
	}
	if fields.NumScopes, err = r.U64(); err != nil {
		return err
	}
	if fields.NumHierarchyVars, err = r.U64(); err != nil {
		return err
	}
	if fields.NumVars, err = r.U64(); err != nil {
		return err
	}
	if fields.NumVCBlocks, err = r.U64(); err != nil {
		return err
	}
	if fields.Timescale, err = r.I8(); err != nil {
		return err
	}

	writerBytes := r.ReadBytes(128)
	dateBytes := r.ReadBytes(26)
	_ = r.ReadBytes(93) // reserved

	if fields.Filetype, err = r.U8(); err != nil {
		return err
	}
	if fields.Timezero, err = r.I64(); err != nil {
		return err
	}

	if r.Tell() != hdrPayloadSize {
		return fmt.Errorf("%w: HDR parse consumed %d bytes, expected %d", errs.ErrAssertionViolation, r.Tell(), hdrPayloadSize)
	}

	fields.Writer = cstringFromFixed(writerBytes)
	fields.Date = cstringFromFixed(dateBytes)

	jbytes, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return fmt.Errorf("fstdump: marshal HDR json: %w", err)
	}

	_, err = s.Write(idx, "HDR", offset, len(payload), 0, "json", jbytes)

	return err
}

// cstringFromFixed decodes a NUL-terminated string out of a fixed-size
// slot, matching Python's `writer_bytes.split(b"\x00", 1)[0]`.
func cstringFromFixed(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}

	return string(b)
}
