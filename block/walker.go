package block

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/arloliu/fstdump/errs"
	"github.com/arloliu/fstdump/internal/sink"
)

var logWriter io.Writer = os.Stderr

// decoderFunc decodes one block's payload and writes its artifacts through
// sink. offset is the file offset of the block's type byte.
type decoderFunc func(payload []byte, idx int, offset int64, s *sink.Sink) error

// Walker frames a flat byte stream into a sequence of (type, length,
// payload) blocks and dispatches each to its registered decoder.
//
// A Walker instance processes exactly one file and must not be reused.
type Walker struct {
	sink    *sink.Sink
	verbose bool
}

// NewWalker creates a Walker that writes artifacts through s.
func NewWalker(s *sink.Sink) *Walker {
	return &Walker{sink: s}
}

// SetVerbose enables a one-line stderr progress log per block.
func (w *Walker) SetVerbose(v bool) { w.verbose = v }

var registry = map[Type]decoderFunc{
	TypeHDR:             decodeHDR,
	TypeBLACKOUT:        decodeBlackout,
	TypeGEOM:            decodeGEOM,
	TypeHIERGZ:          decodeHIERGZ,
	TypeHIERLZ4:         decodeHIERLZ4,
	TypeHIERLZ4Duo:      decodeHIERLZ4Duo,
	TypeVCDATA:          decodeUnsupported,
	TypeVCDATADynAlias:  decodeUnsupported,
	TypeVCDATADynAlias2: decodeVCDATA,
}

func decodeUnsupported(payload []byte, idx int, offset int64, s *sink.Sink) error {
	return fmt.Errorf("%w: block at offset %d", errs.ErrUnsupportedBlock, offset)
}

// Walk sequentially frames r into blocks and dispatches each to its
// decoder. It runs to end-of-stream, a framing error, or a decoder error.
func (w *Walker) Walk(r io.Reader) error {
	br := bufio.NewReader(r)

	var offset int64

	idx := 0

	for {
		head := make([]byte, 9)

		n, err := io.ReadFull(br, head)
		if err != nil {
			if n == 0 && err == io.EOF {
				return nil
			}
			// Fewer than 9 bytes remain: stop, matching spec.md's "while at
			// least 9 bytes remain" loop condition.
			return nil
		}

		typeByte := head[0]
		length := binary.BigEndian.Uint64(head[1:9])

		if length < 8 {
			return fmt.Errorf("%w: block #%d at offset %d: length %d < 8", errs.ErrInvalidFraming, idx, offset, length)
		}

		payloadLen := int(length - 8)

		payload := make([]byte, payloadLen)

		n, err = io.ReadFull(br, payload)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return fmt.Errorf("fstdump: reading block #%d payload: %w", idx, err)
		}

		if n < payloadLen {
			log.Printf("block #%d offset=%d: short payload read %d < %d", idx, offset, n, payloadLen)
			payload = payload[:n]
		}

		blockType := Type(typeByte)
		if !blockType.known() {
			return fmt.Errorf("%w: type %d at offset %d: %s", errs.ErrUnknownBlockType, typeByte, offset, errs.Preview(payload, 0))
		}

		decoder, ok := registry[blockType]
		if !ok {
			return fmt.Errorf("%w: type %s at offset %d", errs.ErrUnsupportedBlock, blockType, offset)
		}

		if w.verbose {
			fmt.Fprintf(logWriter, "#%03d %-20s off=%d len=%d\n", idx, blockType, offset, payloadLen)
		}

		if err := decoder(payload, idx, offset, w.sink); err != nil {
			return fmt.Errorf("block #%d (%s) at offset %d: %w", idx, blockType, offset, err)
		}

		offset += int64(length) + 1
		idx++
	}
}
