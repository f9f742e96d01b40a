// Package sink writes named artifact blobs for inspected FST blocks using a
// stable, lexicographically sortable naming scheme.
package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// Sink writes blobs under a fixed output directory. Sink is otherwise
// stateless and safe to share across block decoders run sequentially.
type Sink struct {
	dir     string
	verbose bool
}

// New creates a Sink rooted at dir. The directory must already exist.
func New(dir string) *Sink {
	return &Sink{dir: dir}
}

// SetVerbose enables a one-line stdout log for every blob written.
func (s *Sink) SetVerbose(v bool) { s.verbose = v }

// Write writes data under the naming template
// {blockIdx:03d}.{blockStr}.off{offset:012d}.len{payloadLen:012d}.{subIdx:02d}.{ext}
// and returns the hex-encoded xxHash64 digest of data, letting callers fold
// a content fingerprint into their own metadata for cross-implementation
// comparison.
func (s *Sink) Write(blockIdx int, blockStr string, offset int64, payloadLen int, subIdx int, ext string, data []byte) (string, error) {
	fname := fmt.Sprintf("%03d.%s.off%012d.len%012d.%02d.%s", blockIdx, blockStr, offset, payloadLen, subIdx, ext)
	path := filepath.Join(s.dir, fname)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("sink: write %s: %w", path, err)
	}

	digest := fmt.Sprintf("%016x", xxhash.Sum64(data))

	if s.verbose {
		fmt.Printf("WROTE %s (%d bytes) digest=%s\n", path, len(data), digest)
	}

	return digest, nil
}
