package vcdata

import (
	"fmt"

	"github.com/arloliu/fstdump/errs"
	"github.com/arloliu/fstdump/internal/bitio"
	"github.com/arloliu/fstdump/internal/codec"
)

// parseTimeData decodes expectedCount ULEB128 deltas from decTime into a
// running-sum timestamp sequence (spec.md §3 "Time table").
func parseTimeData(decTime []byte, expectedCount uint64) ([]uint64, error) {
	r := bitio.NewReader(decTime)

	timestamps := make([]uint64, 0, expectedCount)

	var cur uint64

	for i := uint64(0); i < expectedCount; i++ {
		delta, _, err := r.ReadULEB128()
		if err != nil {
			return nil, fmt.Errorf("time table entry %d: %w", i, err)
		}

		cur += delta
		timestamps = append(timestamps, cur)
	}

	return timestamps, nil
}

// parsePositionData decodes the SLEB/ULEB hybrid position stream (spec.md
// §3 "Position encoding"). Positive entries are fresh-data byte lengths,
// negative entries are alias references, zero entries mean no change.
func parsePositionData(positionData []byte) ([]int64, error) {
	r := bitio.NewReader(positionData)

	var positions []int64

	var prevAlias int64

	for r.Remaining() > 0 {
		lead := r.PeekBytes(1)[0]

		if lead&1 != 0 {
			val, _, err := r.ReadSLEB128()
			if err != nil {
				return nil, err
			}

			v := val >> 1

			switch {
			case v > 0:
				positions = append(positions, v)
			case v < 0:
				positions = append(positions, v)
				prevAlias = v
			default:
				if prevAlias == 0 {
					return nil, fmt.Errorf("%w: position stream repeat entry with no preceding alias", errs.ErrAssertionViolation)
				}

				positions = append(positions, prevAlias)
			}
		} else {
			z, _, err := r.ReadULEB128()
			if err != nil {
				return nil, err
			}

			zeroLen := z >> 1
			for i := uint64(0); i < zeroLen; i++ {
				positions = append(positions, 0)
			}
		}
	}

	return positions, nil
}

// parseWaveData computes, for each positive position entry, its offset and
// slot size within waveData, decompresses the per-variable LZ4 block, and
// records alias/no-change markers for the rest (spec.md §3 "Wave region
// layout", §4.10 step 6).
func parseWaveData(waveData []byte, positions []int64) ([]WaveEntry, error) {
	n := len(positions)

	offsets := make([]int, n)
	slotBytes := make([]int, n)

	prevHasData := -1
	curOffset := -1 // compensates the first positive entry's value of 1 starting at offset 0 (spec.md §9)
	firstPositive := true

	for i, pos := range positions {
		if pos > 0 {
			if firstPositive && pos != 1 {
				return nil, fmt.Errorf("%w: first positive position entry must be 1, got %d", errs.ErrAssertionViolation, pos)
			}

			firstPositive = false

			if prevHasData != -1 {
				slotBytes[prevHasData] = int(pos)
			}

			curOffset += int(pos)
			offsets[i] = curOffset
			prevHasData = i
		}
	}

	if prevHasData != -1 {
		slotBytes[prevHasData] = len(waveData) - curOffset
	}

	entries := make([]WaveEntry, n)
	lz4codec := codec.NewLZ4Block()

	for i, pos := range positions {
		entry := WaveEntry{VarIdx: i}

		switch {
		case pos > 0:
			offset := offsets[i]
			numBytes := slotBytes[i]

			r := bitio.NewReader(waveData)
			r.Seek(offset, bitio.SeekSet)

			uncompressedLength, consumed, err := r.ReadULEB128()
			if err != nil {
				return nil, fmt.Errorf("wave slot %d: %w", i, err)
			}

			compressedLength := numBytes - consumed

			entry.Type = "has_data"
			entry.Offset = offset
			entry.UncompressedLength = uncompressedLength
			entry.CompressedLength = compressedLength

			data := r.ReadBytes(compressedLength)

			decData, err := lz4codec.Decompress(data, int(uncompressedLength))
			if err != nil {
				return nil, fmt.Errorf("wave slot %d: %w", i, err)
			}

			if uint64(len(decData)) != uncompressedLength {
				return nil, fmt.Errorf("%w: wave data uncompressed length mismatch for var %d: got %d, want %d",
					errs.ErrLengthMismatch, i, len(decData), uncompressedLength)
			}
		case pos < 0:
			entry.Type = "alias"
			entry.AliasOf = int(-pos - 1)
		default:
			entry.Type = "no_change"
		}

		entries[i] = entry
	}

	return entries, nil
}
