package block

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/arloliu/fstdump/internal/bitio"
	"github.com/arloliu/fstdump/internal/sink"
)

type blackoutEntry struct {
	State     string `json:"state"`
	Timestamp uint64 `json:"timestamp"`
}

type blackoutResult struct {
	Offset     int64           `json:"offset"`
	PayloadLen int             `json:"payload_len"`
	Count      uint64          `json:"count,omitempty"`
	Entries    []blackoutEntry `json:"entries"`
	Error      string          `json:"error,omitempty"`
}

// decodeBlackout parses a BLACKOUT block (spec.md §3, §4.6). Per-entry
// truncation is captured into the result's "error" field rather than
// aborting the walker — BLACKOUT is the one decoder that runs in
// diagnostic mode (spec.md §7).
func decodeBlackout(payload []byte, idx int, offset int64, s *sink.Sink) error {
	result := blackoutResult{
		Offset:     offset,
		PayloadLen: len(payload),
		Entries:    []blackoutEntry{},
	}

	if err := parseBlackoutEntries(payload, &result); err != nil {
		result.Error = err.Error()
	}

	jbytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("fstdump: marshal BLACKOUT json: %w", err)
	}

	blockLen := len(payload) + 8

	// The numeric block-type code is used for the filename's block_str
	// slot here, not the "BLACKOUT" name — a quirk preserved from the
	// original decoder's write_blob(..., int(block_str), ...) call.
	numericBlockStr := strconv.Itoa(int(TypeBLACKOUT))

	_, err = s.Write(idx, numericBlockStr, offset, blockLen, 0, "BLACKOUT.json", jbytes)

	return err
}

func parseBlackoutEntries(payload []byte, result *blackoutResult) error {
	r := bitio.NewReader(payload)

	count, _, err := r.ReadULEB128()
	if err != nil {
		return err
	}

	result.Count = count

	for i := uint64(0); i < count; i++ {
		if r.Remaining() <= 0 {
			return fmt.Errorf("truncated entry %d", i)
		}

		stateByte, err := r.U8()
		if err != nil {
			return fmt.Errorf("truncated entry %d: %w", i, err)
		}

		var state string

		switch stateByte {
		case 0:
			state = "off"
		case 1:
			state = "on"
		default:
			state = fmt.Sprintf("unknown(%d)", stateByte)
		}

		ts, _, err := r.ReadULEB128()
		if err != nil {
			return fmt.Errorf("truncated entry %d: %w", i, err)
		}

		result.Entries = append(result.Entries, blackoutEntry{State: state, Timestamp: ts})
	}

	return nil
}
