package transcribe

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"chunkscribe/internal/audio"
)

// Outcome is the per-chunk result of attempting transcription. Every
// dispatched chunk yields exactly one Outcome, success or not.
type Outcome struct {
	Index int    // Chunk index, defining original temporal order.
	OK    bool   // Whether transcription succeeded.
	Text  string // Transcribed text, or a failure marker embedding the chunk name.
}

// PoolConfig bounds the transcription fan-out.
type PoolConfig struct {
	// MaxParallel limits concurrent requests. Zero means no limit:
	// every chunk is in flight simultaneously, and the backend (or the
	// rate limit below) absorbs the burst.
	MaxParallel int

	// RatePerMinute throttles request starts. Zero disables throttling.
	RatePerMinute int
}

// failureMarker builds the synthetic text recorded for a failed chunk.
// It embeds the chunk's file name so the final transcript identifies
// which piece of audio is missing.
func failureMarker(c audio.Chunk) string {
	return fmt.Sprintf("ERROR %s", c.Name())
}

// TranscribeChunks dispatches every chunk to t concurrently and waits for
// all of them. A failing chunk never cancels or affects its siblings: its
// failure is recorded as an unsuccessful Outcome with a marker text and
// the batch continues. The returned slice has exactly one Outcome per
// input chunk, in input order.
func TranscribeChunks(ctx context.Context, chunks []audio.Chunk, t Transcriber, opts Options, pool PoolConfig) []Outcome {
	if len(chunks) == 0 {
		return nil
	}

	var limiter *rate.Limiter
	if pool.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(pool.RatePerMinute)/60.0), 1)
	}

	outcomes := make([]Outcome, len(chunks))

	// Plain Group, not WithContext: one chunk's failure must not cancel
	// the others, and goroutines always return nil.
	var g errgroup.Group
	if pool.MaxParallel > 0 {
		g.SetLimit(pool.MaxParallel)
	}

	for i, chunk := range chunks {
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					outcomes[i] = Outcome{Index: chunk.Index, OK: false, Text: failureMarker(chunk)}
					return nil
				}
			}

			text, err := t.Transcribe(ctx, chunk.Path, opts)
			if err != nil {
				outcomes[i] = Outcome{Index: chunk.Index, OK: false, Text: failureMarker(chunk)}
				return nil
			}
			outcomes[i] = Outcome{Index: chunk.Index, OK: true, Text: text}
			return nil
		})
	}

	_ = g.Wait() // goroutines never return errors; Wait only joins

	return outcomes
}

// Assemble builds the final transcript from per-chunk outcomes.
//
// Outcomes are sorted by chunk index; successful texts are joined with
// newlines in index order, then failure markers are appended as a
// trailing newline-separated block. Failures are deliberately not
// interleaved at their original positions: keeping the readable text
// contiguous and the gap report at the end is a documented behavior, not
// an accident. The result is trimmed of surrounding whitespace.
func Assemble(outcomes []Outcome) string {
	sorted := make([]Outcome, len(outcomes))
	copy(sorted, outcomes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	parts := make([]string, 0, len(sorted))
	var failed []string
	for _, o := range sorted {
		if o.OK {
			parts = append(parts, o.Text)
		} else {
			failed = append(failed, o.Text)
		}
	}
	parts = append(parts, failed...)

	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// CountFailures returns how many outcomes are unsuccessful.
func CountFailures(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.OK {
			n++
		}
	}
	return n
}
