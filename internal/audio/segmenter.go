package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chunkscribe/internal/ffmpeg"
	"chunkscribe/internal/format"
)

// chunkExt is the extension for re-encoded chunk files.
const chunkExt = ".mp3"

// Compile-time interface implementation check.
var _ Segmenter = (*FFmpegSegmenter)(nil)

// Segmenter physically cuts a source file into chunk files at the planned
// split points.
type Segmenter interface {
	// Segment writes chunk files into destDir and returns them ordered
	// by index. An empty plan yields a single chunk that is a verbatim
	// copy of the source. Encoder failure is fatal for the attempt.
	Segment(ctx context.Context, audioPath string, splits []time.Duration, destDir string) ([]Chunk, error)
}

// FFmpegSegmenter cuts audio with a single FFmpeg segment-muxer invocation,
// re-encoding each segment at a fixed bitrate so chunk sizes stay
// predictable from their durations.
type FFmpegSegmenter struct {
	ffmpegPath  string
	bitrateKbps int

	cmd     commandRunner
	statter fileStatter
}

// SegmenterOption configures an FFmpegSegmenter.
type SegmenterOption func(*FFmpegSegmenter)

// WithSegmenterCommandRunner sets the command runner (for testing).
func WithSegmenterCommandRunner(r commandRunner) SegmenterOption {
	return func(s *FFmpegSegmenter) {
		s.cmd = r
	}
}

// WithSegmenterFileStatter sets the file statter (for testing).
func WithSegmenterFileStatter(st fileStatter) SegmenterOption {
	return func(s *FFmpegSegmenter) {
		s.statter = st
	}
}

// NewFFmpegSegmenter creates a segmenter encoding chunks at bitrateKbps.
func NewFFmpegSegmenter(ffmpegPath string, bitrateKbps int, opts ...SegmenterOption) (*FFmpegSegmenter, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}
	if bitrateKbps <= 0 {
		return nil, fmt.Errorf("%w: bitrate must be positive, got %d", ErrSegmentationFailed, bitrateKbps)
	}

	s := &FFmpegSegmenter{
		ffmpegPath:  ffmpegPath,
		bitrateKbps: bitrateKbps,
		cmd:         osCommandRunner{},
		statter:     osFileStatter{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Segment cuts audioPath at the planned split points.
func (s *FFmpegSegmenter) Segment(ctx context.Context, audioPath string, splits []time.Duration, destDir string) ([]Chunk, error) {
	// No plan means no split: a single verbatim copy stands in for the
	// whole file and the encoder is never invoked.
	if len(splits) == 0 {
		chunk, err := fallbackChunk(audioPath, destDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSegmentationFailed, err)
		}
		return []Chunk{chunk}, nil
	}

	args := []string{
		"-y",
		"-i", audioPath,
		"-f", "segment",
		"-segment_times", joinSplitTimes(splits),
		"-c:a", "libmp3lame",
		"-b:a", fmt.Sprintf("%dk", s.bitrateKbps),
		filepath.Join(destDir, chunkPattern+chunkExt),
	}

	output, err := s.cmd.CombinedOutput(ctx, s.ffmpegPath, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %v\nOutput: %s", ErrSegmentationFailed, err, string(output))
	}

	return s.collectChunks(destDir)
}

// joinSplitTimes renders split points as the comma-separated seconds list
// the segment muxer expects, e.g. "50.000,125.000,250.000".
func joinSplitTimes(splits []time.Duration) string {
	parts := make([]string, len(splits))
	for i, t := range splits {
		parts[i] = format.Seconds(t)
	}
	return strings.Join(parts, ",")
}

// collectChunks lists produced chunk files in destDir. Lexical filename
// order equals index order thanks to the zero-padded naming scheme.
func (s *FFmpegSegmenter) collectChunks(destDir string) ([]Chunk, error) {
	entries, err := os.ReadDir(destDir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading segment dir: %v", ErrSegmentationFailed, err)
	}

	var chunks []Chunk
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, chunkFilePrefix) {
			continue
		}
		path := filepath.Join(destDir, name)
		info, err := s.statter.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: stat %s: %v", ErrSegmentationFailed, name, err)
		}
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Path:  path,
			Size:  info.Size(),
		})
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: encoder produced no chunk files", ErrSegmentationFailed)
	}
	return chunks, nil
}
