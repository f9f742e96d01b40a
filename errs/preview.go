package errs

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// previewLen is the number of bytes captured in forensic preview snippets
// for UnknownBlockType and UnregisteredHierarchyTag errors.
const previewLen = 64

// Preview formats a forensic snippet of data starting at offset: up to
// previewLen bytes, rendered as hex and as an ASCII approximation (non
// printable bytes shown as '.').
func Preview(data []byte, offset int) string {
	end := offset + previewLen
	if end > len(data) {
		end = len(data)
	}
	if offset < 0 || offset > len(data) {
		return ""
	}

	snippet := data[offset:end]

	var ascii strings.Builder
	ascii.Grow(len(snippet))

	for _, b := range snippet {
		if b >= 32 && b <= 126 {
			ascii.WriteByte(b)
		} else {
			ascii.WriteByte('.')
		}
	}

	return fmt.Sprintf("hex=%s ascii=%s", hex.EncodeToString(snippet), ascii.String())
}
