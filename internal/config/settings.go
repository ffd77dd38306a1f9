package config

import "time"

// Settings carries every tunable threshold of the chunking pipeline.
// Components take a Settings value instead of reaching for package-level
// constants so tests and callers can vary thresholds per run.
type Settings struct {
	// SizeThreshold is the file size above which audio is chunked
	// instead of transcribed in a single request.
	SizeThreshold int64

	// MinChunkBytes is the minimum viable chunk file size. Smaller
	// chunks are boundary artifacts and are discarded.
	MinChunkBytes int64

	// NoiseFloorDB is the silencedetect volume threshold in dB.
	// Lower values (more negative) require quieter audio to count as silence.
	NoiseFloorDB float64

	// MinSilence is the minimum silence duration worth splitting at.
	MinSilence time.Duration

	// MaxChunkDuration is the hard ceiling a single chunk should span.
	MaxChunkDuration time.Duration

	// MinSplitGap is the minimum spacing between accepted split points.
	MinSplitGap time.Duration

	// BitrateKbps is the fixed bitrate for re-encoded chunks. A fixed
	// rate keeps chunk sizes predictable from their durations.
	BitrateKbps int

	// MaxParallel bounds concurrent transcription requests.
	// Zero means no bound: every chunk is dispatched at once.
	MaxParallel int

	// RatePerMinute throttles transcription request starts.
	// Zero disables throttling.
	RatePerMinute int
}

// Default thresholds.
const (
	DefaultSizeThreshold    = 5 * 1024 * 1024
	DefaultMinChunkBytes    = 1024
	DefaultNoiseFloorDB     = -30.0
	DefaultMinSilence       = 600 * time.Millisecond
	DefaultMaxChunkDuration = 120 * time.Second
	DefaultMinSplitGap      = 30 * time.Second
	DefaultBitrateKbps      = 64
)

// DefaultSettings returns the documented default thresholds.
func DefaultSettings() Settings {
	return Settings{
		SizeThreshold:    DefaultSizeThreshold,
		MinChunkBytes:    DefaultMinChunkBytes,
		NoiseFloorDB:     DefaultNoiseFloorDB,
		MinSilence:       DefaultMinSilence,
		MaxChunkDuration: DefaultMaxChunkDuration,
		MinSplitGap:      DefaultMinSplitGap,
		BitrateKbps:      DefaultBitrateKbps,
		MaxParallel:      0,
		RatePerMinute:    0,
	}
}

// Normalize clamps invalid values back to defaults. A zero or negative
// threshold never makes sense, so callers get predictable behavior even
// from a hand-edited config file.
func (s *Settings) Normalize() {
	if s.SizeThreshold <= 0 {
		s.SizeThreshold = DefaultSizeThreshold
	}
	if s.MinChunkBytes <= 0 {
		s.MinChunkBytes = DefaultMinChunkBytes
	}
	if s.NoiseFloorDB >= 0 {
		s.NoiseFloorDB = DefaultNoiseFloorDB
	}
	if s.MinSilence <= 0 {
		s.MinSilence = DefaultMinSilence
	}
	if s.MaxChunkDuration <= 0 {
		s.MaxChunkDuration = DefaultMaxChunkDuration
	}
	if s.MinSplitGap <= 0 {
		s.MinSplitGap = DefaultMinSplitGap
	}
	if s.BitrateKbps <= 0 {
		s.BitrateKbps = DefaultBitrateKbps
	}
	if s.MaxParallel < 0 {
		s.MaxParallel = 0
	}
	if s.RatePerMinute < 0 {
		s.RatePerMinute = 0
	}
}
