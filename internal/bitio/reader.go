// Package bitio provides a bounded byte-buffer cursor with the integer,
// varint, reverse-direction, and C-string reads FST block decoders need.
//
// Reader is not thread-safe and must not be shared across goroutines.
package bitio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arloliu/fstdump/errs"
)

// Whence values for Seek, mirroring io.Seek*.
const (
	SeekSet = 0
	SeekCur = 1
	SeekEnd = 2
)

// Reader is a mutable cursor over an immutable byte buffer.
type Reader struct {
	data   []byte
	offset int
}

// NewReader creates a Reader positioned at offset 0 of data. The Reader
// borrows data and must not outlive it.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the total length of the underlying buffer.
func (r *Reader) Len() int { return len(r.data) }

// Tell returns the current cursor offset.
func (r *Reader) Tell() int { return r.offset }

// Seek repositions the cursor, clamped to [0, Len()].
func (r *Reader) Seek(off int, whence int) {
	switch whence {
	case SeekSet:
		r.offset = off
	case SeekCur:
		r.offset += off
	case SeekEnd:
		r.offset = len(r.data) + off
	default:
		panic(fmt.Sprintf("bitio: invalid whence %d", whence))
	}

	if r.offset < 0 {
		r.offset = 0
	}
	if r.offset > len(r.data) {
		r.offset = len(r.data)
	}
}

// Remaining returns the number of bytes between the cursor and the end of
// the buffer.
func (r *Reader) Remaining() int {
	n := len(r.data) - r.offset
	if n < 0 {
		return 0
	}

	return n
}

// PeekBytes returns up to n bytes from the current offset without moving
// the cursor. It returns fewer bytes at EOF and never fails.
func (r *Reader) PeekBytes(n int) []byte {
	if n <= 0 {
		return nil
	}

	end := r.offset + n
	if end > len(r.data) {
		end = len(r.data)
	}

	return r.data[r.offset:end]
}

// ReadBytes reads n bytes from the current offset and advances the cursor
// by the number of bytes actually returned.
func (r *Reader) ReadBytes(n int) []byte {
	b := r.PeekBytes(n)
	r.offset += len(b)

	return b
}

func (r *Reader) readFixed(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, errs.ErrUnexpectedEOF
	}

	return r.ReadBytes(n), nil
}

// U8 reads an unsigned 8-bit integer.
func (r *Reader) U8() (uint8, error) {
	b, err := r.readFixed(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// I8 reads a signed 8-bit integer.
func (r *Reader) I8() (int8, error) {
	b, err := r.U8()

	return int8(b), err
}

// U16 reads a big-endian unsigned 16-bit integer.
func (r *Reader) U16() (uint16, error) {
	b, err := r.readFixed(2)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(b), nil
}

// U32 reads a big-endian unsigned 32-bit integer.
func (r *Reader) U32() (uint32, error) {
	b, err := r.readFixed(4)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(b), nil
}

// I32 reads a big-endian signed 32-bit integer.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()

	return int32(v), err
}

// U64 reads a big-endian unsigned 64-bit integer.
func (r *Reader) U64() (uint64, error) {
	b, err := r.readFixed(8)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint64(b), nil
}

// I64 reads a big-endian signed 64-bit integer.
func (r *Reader) I64() (int64, error) {
	v, err := r.U64()

	return int64(v), err
}

// F64 reads a big-endian IEEE-754 double.
func (r *Reader) F64() (float64, error) {
	v, err := r.U64()
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(v), nil
}

// ReadULEB128 decodes an unsigned LEB128 varint starting at the current
// offset. It returns the decoded value and the number of bytes consumed.
func (r *Reader) ReadULEB128() (uint64, int, error) {
	var result uint64

	var shift uint

	start := r.offset
	for {
		if r.offset >= len(r.data) {
			r.offset = start

			return 0, 0, errs.ErrUnexpectedEOF
		}

		b := r.data[r.offset]
		r.offset++

		if shift > 63 {
			r.offset = start

			return 0, 0, errs.ErrLEBOverflow
		}

		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			break
		}

		shift += 7
	}

	return result, r.offset - start, nil
}

// ReadSLEB128 decodes a signed LEB128 varint as a ULEB128 followed by
// sign-extension over bit_width = 7 * bytes_consumed.
func (r *Reader) ReadSLEB128() (int64, int, error) {
	uval, n, err := r.ReadULEB128()
	if err != nil {
		return 0, 0, err
	}

	bitWidth := uint(n * 7)
	result := int64(uval)

	if bitWidth < 64 && (uval>>(bitWidth-1))&1 != 0 {
		result -= int64(1) << bitWidth
	}

	return result, n, nil
}

// ReadU64Rev seeks backward 8 bytes from the current cursor and peeks a
// big-endian u64 without net forward motion: the cursor ends up 8 bytes
// before where it started.
func (r *Reader) ReadU64Rev() (uint64, error) {
	if r.offset < 8 {
		return 0, errs.ErrUnexpectedEOF
	}

	r.Seek(-8, SeekCur)

	b := r.PeekBytes(8)
	if len(b) < 8 {
		return 0, errs.ErrUnexpectedEOF
	}

	return binary.BigEndian.Uint64(b), nil
}

// ReadBytesRev seeks backward n bytes from the current cursor and peeks n
// bytes without net forward motion.
func (r *Reader) ReadBytesRev(n int) ([]byte, error) {
	if n < 0 || r.offset < n {
		return nil, errs.ErrUnexpectedEOF
	}

	r.Seek(-n, SeekCur)

	b := r.PeekBytes(n)
	if len(b) < n {
		return nil, errs.ErrUnexpectedEOF
	}

	return b, nil
}

// ReadCString scans for a NUL terminator, consumes through it, and returns
// the string preceding it (not including the NUL).
func (r *Reader) ReadCString() (string, error) {
	return r.ReadCStringMax(-1)
}

// ReadCStringMax behaves like ReadCString but truncates the returned string
// to at most max bytes. Consumption is unaffected by truncation: the cursor
// always advances past the full string and its NUL terminator. max < 0
// means unbounded.
func (r *Reader) ReadCStringMax(max int) (string, error) {
	pos := r.offset
	for pos < len(r.data) && r.data[pos] != 0 {
		pos++
	}

	if pos >= len(r.data) {
		return "", errs.ErrUnterminatedCString
	}

	raw := r.data[r.offset:pos]
	r.offset = pos + 1

	if max >= 0 && len(raw) > max {
		raw = raw[:max]
	}

	return string(raw), nil
}
