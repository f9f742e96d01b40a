// Package vcdata implements the dual-cursor VCDATA block decoder: forward
// head parse, reverse tail parse, time/position table reconstruction, and
// per-variable wave-data decompression (spec.md §3, §4.10).
package vcdata

import (
	"fmt"

	"github.com/arloliu/fstdump/errs"
	"github.com/arloliu/fstdump/internal/bitio"
	"github.com/arloliu/fstdump/internal/codec"
)

// Head is the fields read from the forward cursor at offset 0.
type Head struct {
	StartTime      uint64
	EndTime        uint64
	MemoryRequired uint64
	BitsUncompLen  uint64
	BitsCompLen    uint64
	BitsCount      uint64
	DecBits        []byte
	WavesCount     uint64
	WavesPackType  uint8
	HeadCursor     int
}

// Tail is the fields read from the reverse cursor seeded at end-of-buffer.
type Tail struct {
	TimeCount      uint64
	TimeCompLen    uint64
	TimeUncompLen  uint64
	DecTime        []byte
	PositionLength uint64
	PositionData   []byte
	TailCursor     int
}

// WaveEntry describes the reconstruction outcome for one variable's slot in
// the position stream.
type WaveEntry struct {
	VarIdx             int    `json:"var_idx"`
	Type               string `json:"type"` // "has_data", "alias", "no_change"
	Offset             int    `json:"offset,omitempty"`
	UncompressedLength uint64 `json:"uncompressed_length,omitempty"`
	CompressedLength   int    `json:"compressed_length,omitempty"`
	AliasOf            int    `json:"alias_of,omitempty"`
}

// Result is the complete decoded shape of one VCDATA block.
type Result struct {
	Head          Head
	Tail          Tail
	WaveRegion    []byte
	TimeArray     []uint64
	PositionArray []int64
	WaveData      []WaveEntry
}

// Decode parses a VCDATA payload end-to-end. It keeps no state between
// calls.
func Decode(payload []byte) (*Result, error) {
	head, err := parseHead(payload)
	if err != nil {
		return nil, err
	}

	tail, err := parseTail(payload)
	if err != nil {
		return nil, err
	}

	if head.HeadCursor > tail.TailCursor {
		return nil, fmt.Errorf("%w: VCDATA head cursor %d crosses tail cursor %d", errs.ErrAssertionViolation, head.HeadCursor, tail.TailCursor)
	}

	waveRegion := payload[head.HeadCursor:tail.TailCursor]

	timeArray, err := parseTimeData(tail.DecTime, tail.TimeCount)
	if err != nil {
		return nil, err
	}

	positionArray, err := parsePositionData(tail.PositionData)
	if err != nil {
		return nil, err
	}

	waveData, err := parseWaveData(waveRegion, positionArray)
	if err != nil {
		return nil, err
	}

	return &Result{
		Head:          *head,
		Tail:          *tail,
		WaveRegion:    waveRegion,
		TimeArray:     timeArray,
		PositionArray: positionArray,
		WaveData:      waveData,
	}, nil
}

func parseHead(payload []byte) (*Head, error) {
	r := bitio.NewReader(payload)

	h := &Head{}

	var err error

	if h.StartTime, err = r.U64(); err != nil {
		return nil, err
	}
	if h.EndTime, err = r.U64(); err != nil {
		return nil, err
	}
	if h.MemoryRequired, err = r.U64(); err != nil {
		return nil, err
	}

	if h.BitsUncompLen, _, err = r.ReadULEB128(); err != nil {
		return nil, err
	}
	if h.BitsCompLen, _, err = r.ReadULEB128(); err != nil {
		return nil, err
	}
	if h.BitsCount, _, err = r.ReadULEB128(); err != nil {
		return nil, err
	}

	bitsData := r.ReadBytes(int(h.BitsCompLen))
	if len(bitsData) != int(h.BitsCompLen) {
		return nil, fmt.Errorf("%w: VCDATA bits_data truncated", errs.ErrUnexpectedEOF)
	}

	if h.BitsCompLen != h.BitsUncompLen {
		h.DecBits, err = codec.NewZlib().Decompress(bitsData, int(h.BitsUncompLen))
		if err != nil {
			return nil, err
		}
	} else {
		h.DecBits = bitsData
	}

	if h.WavesCount, _, err = r.ReadULEB128(); err != nil {
		return nil, err
	}
	if h.WavesPackType, err = r.U8(); err != nil {
		return nil, err
	}

	h.HeadCursor = r.Tell()

	return h, nil
}

func parseTail(payload []byte) (*Tail, error) {
	if len(payload) < 24 {
		return nil, fmt.Errorf("%w: VCDATA payload too short (%d) to contain trailing tables", errs.ErrInvalidPayloadSize, len(payload))
	}

	r := bitio.NewReader(payload)
	r.Seek(0, bitio.SeekEnd)

	t := &Tail{}

	var err error

	if t.TimeCount, err = r.ReadU64Rev(); err != nil {
		return nil, err
	}
	if t.TimeCompLen, err = r.ReadU64Rev(); err != nil {
		return nil, err
	}
	if t.TimeUncompLen, err = r.ReadU64Rev(); err != nil {
		return nil, err
	}

	timeData, err := r.ReadBytesRev(int(t.TimeCompLen))
	if err != nil {
		return nil, err
	}

	if t.TimeCompLen != t.TimeUncompLen {
		t.DecTime, err = codec.NewZlib().Decompress(timeData, int(t.TimeUncompLen))
		if err != nil {
			return nil, err
		}
	} else {
		t.DecTime = timeData
	}

	if t.PositionLength, err = r.ReadU64Rev(); err != nil {
		return nil, err
	}

	t.PositionData, err = r.ReadBytesRev(int(t.PositionLength))
	if err != nil {
		return nil, err
	}

	t.TailCursor = r.Tell()

	return t, nil
}
