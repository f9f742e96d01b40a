package block

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/fstdump/internal/sink"
	"github.com/arloliu/fstdump/vcdata"
)

type vcdataHeader struct {
	VCStartTime      uint64 `json:"vc_start_time"`
	VCEndTime        uint64 `json:"vc_end_time"`
	VCMemoryRequired uint64 `json:"vc_memory_required"`
	BitsUncompLen    uint64 `json:"bits_uncomp_len"`
	BitsCompLen      uint64 `json:"bits_comp_len"`
	BitsCount        uint64 `json:"bits_count"`
	WavesCount       uint64 `json:"waves_count"`
	WavesPackType    uint8  `json:"waves_packtype"`
	WavesBytes       int    `json:"waves_bytes"`
	TimeCount        uint64 `json:"time_count"`
	TimeUncompLen    uint64 `json:"time_uncomp_len"`
	TimeCompLen      uint64 `json:"time_comp_len"`
	PositionLength   uint64 `json:"position_length"`
	PositionCount    int    `json:"position_count"`
}

// decodeVCDATA parses a VCDATA/VCDATA_DYN_ALIAS2 block and emits the
// artifact set spec.md §4.10 requires: header JSON, init_bits.txt,
// time_array.txt, position_array.txt, wave_data.bin, and wave_data.json.
func decodeVCDATA(payload []byte, idx int, offset int64, s *sink.Sink) error {
	result, err := vcdata.Decode(payload)
	if err != nil {
		return err
	}

	header := vcdataHeader{
		VCStartTime:      result.Head.StartTime,
		VCEndTime:        result.Head.EndTime,
		VCMemoryRequired: result.Head.MemoryRequired,
		BitsUncompLen:    result.Head.BitsUncompLen,
		BitsCompLen:      result.Head.BitsCompLen,
		BitsCount:        result.Head.BitsCount,
		WavesCount:       result.Head.WavesCount,
		WavesPackType:    result.Head.WavesPackType,
		WavesBytes:       len(result.WaveRegion),
		TimeCount:        result.Tail.TimeCount,
		TimeUncompLen:    result.Tail.TimeUncompLen,
		TimeCompLen:      result.Tail.TimeCompLen,
		PositionLength:   result.Tail.PositionLength,
		PositionCount:    len(result.PositionArray),
	}

	blockName := "VCDATA_DYN_ALIAS2"
	payloadLen := len(payload)

	hbytes, err := json.MarshalIndent(header, "", "  ")
	if err != nil {
		return fmt.Errorf("fstdump: marshal VCDATA header json: %w", err)
	}

	if _, err := s.Write(idx, blockName, offset, payloadLen, 0, "header.json", hbytes); err != nil {
		return err
	}

	if _, err := s.Write(idx, blockName, offset, payloadLen, 0, "init_bits.txt", result.Head.DecBits); err != nil {
		return err
	}

	timeArrayText := joinUint64(result.TimeArray)
	if _, err := s.Write(idx, blockName, offset, payloadLen, 0, "time_array.txt", []byte(timeArrayText)); err != nil {
		return err
	}

	positionArrayText := joinInt64(result.PositionArray)
	if _, err := s.Write(idx, blockName, offset, payloadLen, 0, "position_array.txt", []byte(positionArrayText)); err != nil {
		return err
	}

	if _, err := s.Write(idx, blockName, offset, payloadLen, 0, "wave_data.bin", result.WaveRegion); err != nil {
		return err
	}

	wbytes, err := json.MarshalIndent(result.WaveData, "", "  ")
	if err != nil {
		return fmt.Errorf("fstdump: marshal VCDATA wave_data json: %w", err)
	}

	_, err = s.Write(idx, blockName, offset, payloadLen, 1, "wave_data.json", wbytes)

	return err
}

func joinUint64(vals []uint64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatUint(v, 10)
	}

	return strings.Join(parts, "\n")
}

func joinInt64(vals []int64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatInt(v, 10)
	}

	return strings.Join(parts, "\n")
}
