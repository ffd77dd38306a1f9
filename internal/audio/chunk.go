package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"chunkscribe/internal/format"
)

// Chunk is a bounded slice of the source audio, re-encoded or copied,
// eligible for independent transcription. Chunks live in a scratch
// directory owned by the caller and are deleted when the attempt ends.
type Chunk struct {
	Index int    // Zero-based index defining original temporal order.
	Path  string // Absolute path to the chunk file.
	Size  int64  // File size in bytes.
}

// Name returns the chunk's file base name, used as its identifier in
// progress output and failure markers.
func (c Chunk) Name() string {
	return filepath.Base(c.Path)
}

// String returns a human-readable representation for logging.
func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d: %s (%s)", c.Index, c.Name(), format.Size(c.Size))
}

// WarnFunc is a callback for warning messages from degradable failures.
// Set to nil to suppress warnings, or provide a custom handler.
type WarnFunc func(msg string)

// defaultWarnFunc writes warnings to stderr.
func defaultWarnFunc(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// chunkFilePrefix and chunkPattern define the deterministic naming scheme.
// Zero padding makes lexical filename order equal chunk index order.
const (
	chunkFilePrefix = "chunk_"
	chunkPattern    = "chunk_%03d"
)

// copyFile copies src verbatim to dst and returns the byte count.
// Used for whole-file fallback chunks, which must never be re-encoded.
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src) // #nosec G304 -- src is the caller's input file
	if err != nil {
		return 0, fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst) // #nosec G304 -- dst is inside the scratch dir
	if err != nil {
		return 0, fmt.Errorf("create fallback chunk: %w", err)
	}

	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("copy to fallback chunk: %w", err)
	}
	return n, nil
}

// fallbackChunk copies the whole source file into destDir as chunk index 0.
// The source extension is preserved: the copy is verbatim, not a re-encode.
func fallbackChunk(sourcePath, destDir string) (Chunk, error) {
	name := fmt.Sprintf(chunkPattern, 0) + filepath.Ext(sourcePath)
	dst := filepath.Join(destDir, name)
	n, err := copyFile(sourcePath, dst)
	if err != nil {
		return Chunk{}, err
	}
	return Chunk{Index: 0, Path: dst, Size: n}, nil
}
