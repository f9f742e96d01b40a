// Package errs defines the sentinel errors returned by fstdump's decoders.
//
// Decoders wrap these with fmt.Errorf("...: %w", ErrXxx) to attach context
// (offset, block index, tag byte); callers distinguish error kinds with
// errors.Is.
package errs

import "errors"

var (
	// ErrUnexpectedEOF is returned when a fixed-width read does not have
	// enough bytes remaining in the buffer.
	ErrUnexpectedEOF = errors.New("fstdump: unexpected EOF")

	// ErrLEBOverflow is returned when a ULEB128/SLEB128 value would require
	// more than 64 result bits.
	ErrLEBOverflow = errors.New("fstdump: LEB128 value overflows 64 bits")

	// ErrUnterminatedCString is returned when a NUL-terminated string scan
	// reaches the end of the buffer without finding a NUL byte.
	ErrUnterminatedCString = errors.New("fstdump: unterminated C string")

	// ErrInvalidFraming is returned when a block header's length field is
	// smaller than the 8 bytes it is required to include.
	ErrInvalidFraming = errors.New("fstdump: invalid block framing")

	// ErrUnknownBlockType is returned when a block's type byte falls
	// outside the closed set of known block types.
	ErrUnknownBlockType = errors.New("fstdump: unknown block type")

	// ErrUnsupportedBlock is returned for a known block type that has no
	// implemented decoder (VCDATA, VCDATA_DYN_ALIAS, ZWRAPPER, SKIP).
	ErrUnsupportedBlock = errors.New("fstdump: unsupported block type")

	// ErrUnregisteredHierarchyTag is returned when a hierarchy buffer
	// contains a tag byte outside the closed set of hierarchy tags.
	ErrUnregisteredHierarchyTag = errors.New("fstdump: unregistered hierarchy tag")

	// ErrLengthMismatch is returned when a declared length does not match
	// an actually observed length (decompressed size, parsed value count).
	ErrLengthMismatch = errors.New("fstdump: length mismatch")

	// ErrDecompression is returned when an underlying codec fails to
	// decompress a payload.
	ErrDecompression = errors.New("fstdump: decompression failed")

	// ErrAssertionViolation is returned for invariant violations that the
	// format guarantees but that were not observed in a particular file
	// (non-zero ATTRBEGIN attrtype, crossed VCDATA cursors, a position
	// stream with no preceding alias for a "repeat" entry, etc).
	ErrAssertionViolation = errors.New("fstdump: assertion violation")

	// ErrInvalidPayloadSize is returned when a block's payload length does
	// not match a fixed size the block type requires (e.g. HDR's 321).
	ErrInvalidPayloadSize = errors.New("fstdump: invalid payload size")
)
