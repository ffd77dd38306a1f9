package audio

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"chunkscribe/internal/ffmpeg"
)

// Compile-time interface implementation check.
var _ SilenceDetector = (*FFmpegSilenceDetector)(nil)

// SilenceDetector finds timestamps where detected silence intervals end.
// Those timestamps are the natural split boundaries for chunking.
type SilenceDetector interface {
	// DetectSilence returns silence-end timestamps for audioPath in
	// emission order (ascending). An empty result is valid and means
	// the file has no usable silence.
	DetectSilence(ctx context.Context, audioPath string) ([]time.Duration, error)
}

// FFmpegSilenceDetector runs FFmpeg's silencedetect filter and scrapes
// its combined output for silence_end markers.
type FFmpegSilenceDetector struct {
	ffmpegPath   string
	noiseFloorDB float64
	minSilence   time.Duration

	cmd commandRunner
}

// SilenceDetectorOption configures an FFmpegSilenceDetector.
type SilenceDetectorOption func(*FFmpegSilenceDetector)

// WithSilenceCommandRunner sets the command runner (for testing).
func WithSilenceCommandRunner(r commandRunner) SilenceDetectorOption {
	return func(d *FFmpegSilenceDetector) {
		d.cmd = r
	}
}

// NewFFmpegSilenceDetector creates a detector with the given thresholds.
// noiseFloorDB is the volume below which audio counts as silence;
// minSilence is the shortest silence interval worth reporting.
func NewFFmpegSilenceDetector(ffmpegPath string, noiseFloorDB float64, minSilence time.Duration, opts ...SilenceDetectorOption) (*FFmpegSilenceDetector, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}

	d := &FFmpegSilenceDetector{
		ffmpegPath:   ffmpegPath,
		noiseFloorDB: noiseFloorDB,
		minSilence:   minSilence,
		cmd:          osCommandRunner{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// DetectSilence runs silencedetect and parses the output.
func (d *FFmpegSilenceDetector) DetectSilence(ctx context.Context, audioPath string) ([]time.Duration, error) {
	args := []string{
		"-i", audioPath,
		"-af", fmt.Sprintf("silencedetect=noise=%ddB:d=%.2f",
			int(d.noiseFloorDB),
			d.minSilence.Seconds()),
		"-f", "null",
		"-",
	}

	output, err := d.cmd.CombinedOutput(ctx, d.ffmpegPath, args)
	if err != nil {
		// FFmpeg may return non-zero even on a successful analysis pass;
		// if it produced output, parse it anyway.
		if len(output) == 0 {
			return nil, fmt.Errorf("%w: %v", ErrSilenceDetection, err)
		}
	}

	return parseSilenceEnds(string(output)), nil
}

// silenceEndRe matches silencedetect output lines like:
//
//	[silencedetect @ 0x...] silence_end: 43.456 | silence_duration: 1.333
//
// Tolerant of format variations across FFmpeg versions.
var silenceEndRe = regexp.MustCompile(`silence_end:\s*([\d.]+)`)

// parseSilenceEnds extracts silence-end timestamps in emission order.
// Unparseable values are skipped rather than failing the whole scan.
func parseSilenceEnds(output string) []time.Duration {
	var points []time.Duration
	for line := range strings.SplitSeq(output, "\n") {
		matches := silenceEndRe.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		seconds, err := strconv.ParseFloat(matches[1], 64)
		if err != nil {
			continue
		}
		points = append(points, time.Duration(seconds*float64(time.Second)))
	}
	return points
}
