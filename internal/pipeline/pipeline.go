// Package pipeline routes audio files to direct or chunked transcription
// and orchestrates the chunking attempt: silence detection, split
// planning, segmentation, validation, and parallel transcription with
// ordered aggregation.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"chunkscribe/internal/audio"
	"chunkscribe/internal/config"
	"chunkscribe/internal/format"
	"chunkscribe/internal/transcribe"
)

// Route selects how a file is transcribed.
type Route int

const (
	// RouteDirect sends the whole file in a single request.
	RouteDirect Route = iota
	// RouteChunked splits the file and transcribes chunks independently.
	RouteChunked
)

// String returns the route name for logging.
func (r Route) String() string {
	if r == RouteDirect {
		return "direct"
	}
	return "chunked"
}

// RouteForSize routes a file by size: at or under the threshold it goes
// direct, above it the chunking pipeline takes over.
func RouteForSize(size, threshold int64) Route {
	if size <= threshold {
		return RouteDirect
	}
	return RouteChunked
}

// ChunkValidator filters produced chunks, substituting a whole-file
// fallback when nothing survives. *audio.Validator implements this.
type ChunkValidator interface {
	Validate(chunks []audio.Chunk, sourcePath, destDir string) ([]audio.Chunk, error)
}

// Pipeline transcribes one audio file per Process call. Each chunking
// attempt owns an isolated scratch directory, so a caller may run
// pipelines for different files concurrently without cross-contamination.
type Pipeline struct {
	settings    config.Settings
	detector    audio.SilenceDetector
	segmenter   audio.Segmenter
	validator   ChunkValidator
	transcriber transcribe.Transcriber
	warn        audio.WarnFunc

	statter fileStatter
	scratch scratchDirs
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWarnFunc sets a callback for warning messages.
// By default, warnings are written to stderr. Set to nil to suppress.
func WithWarnFunc(fn audio.WarnFunc) Option {
	return func(p *Pipeline) {
		p.warn = fn
	}
}

// WithFileStatter sets the file statter (for testing).
func WithFileStatter(s fileStatter) Option {
	return func(p *Pipeline) {
		p.statter = s
	}
}

// WithScratchDirs sets the scratch directory manager (for testing).
func WithScratchDirs(s scratchDirs) Option {
	return func(p *Pipeline) {
		p.scratch = s
	}
}

// New assembles a Pipeline from its collaborators.
func New(
	settings config.Settings,
	detector audio.SilenceDetector,
	segmenter audio.Segmenter,
	validator ChunkValidator,
	transcriber transcribe.Transcriber,
	opts ...Option,
) *Pipeline {
	settings.Normalize()
	p := &Pipeline{
		settings:    settings,
		detector:    detector,
		segmenter:   segmenter,
		validator:   validator,
		transcriber: transcriber,
		warn:        defaultWarn,
		statter:     osFileStatter{},
		scratch:     osScratchDirs{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process transcribes audioPath and returns the aggregated text.
//
// Files at or under the size threshold are transcribed in one request;
// larger files go through the chunking pipeline. A fatal error (stat
// failure, segmentation failure) aborts the attempt; degradable failures
// (silence detection, individual chunks) are absorbed per policy.
func (p *Pipeline) Process(ctx context.Context, audioPath string, opts transcribe.Options) (string, error) {
	info, err := p.statter.Stat(audioPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", audio.ErrFileNotFound, err)
	}

	if RouteForSize(info.Size(), p.settings.SizeThreshold) == RouteDirect {
		text, err := p.transcriber.Transcribe(ctx, audioPath, opts)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(text), nil
	}

	return p.processChunked(ctx, audioPath, opts)
}

// processChunked runs the full chunking attempt inside a scratch
// directory that is removed on every exit path.
func (p *Pipeline) processChunked(ctx context.Context, audioPath string, opts transcribe.Options) (_ string, err error) {
	scratch, err := p.scratch.MkdirTemp("", "chunkscribe-*")
	if err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer func() {
		if cleanupErr := p.scratch.RemoveAll(scratch); cleanupErr != nil && err == nil {
			p.warnf("Warning: failed to remove scratch directory: %v", cleanupErr)
		}
	}()

	// Silence detection is an optimization: if it fails, plan with zero
	// points and let segmentation degrade to a single whole-file chunk.
	points, err := p.detector.DetectSilence(ctx, audioPath)
	if err != nil {
		p.warnf("Warning: silence detection failed (%v), using single chunk", err)
		points, err = nil, nil
	}

	plan := audio.PlanSplits(points, p.settings.MaxChunkDuration, p.settings.MinSplitGap)
	if len(plan) > 0 {
		p.warnf("Splitting into %d segments (max %s each)",
			len(plan)+1, format.Duration(p.settings.MaxChunkDuration))
	}

	chunks, err := p.segmenter.Segment(ctx, audioPath, plan, scratch)
	if err != nil {
		return "", err
	}

	chunks, err = p.validator.Validate(chunks, audioPath, scratch)
	if err != nil {
		return "", err
	}

	outcomes := transcribe.TranscribeChunks(ctx, chunks, p.transcriber, opts, transcribe.PoolConfig{
		MaxParallel:   p.settings.MaxParallel,
		RatePerMinute: p.settings.RatePerMinute,
	})

	if n := transcribe.CountFailures(outcomes); n > 0 {
		p.warnf("Warning: %d of %d chunks failed transcription", n, len(outcomes))
	}

	return transcribe.Assemble(outcomes), nil
}

// warnf formats and emits a warning if a handler is set.
func (p *Pipeline) warnf(msg string, args ...any) {
	if p.warn != nil {
		p.warn(fmt.Sprintf(msg, args...))
	}
}

// Describe summarizes the routing decision for progress output,
// e.g. "12 MB, chunked".
func Describe(size, threshold int64) string {
	return fmt.Sprintf("%s, %s", format.Size(size), RouteForSize(size, threshold))
}
