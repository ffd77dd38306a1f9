package audio

import (
	"fmt"

	"chunkscribe/internal/format"
)

// Validator inspects produced chunk files and discards any below the
// minimum viable size, protecting transcription from zero-length or
// truncated segments left by boundary artifacts.
type Validator struct {
	minBytes int64
	warn     WarnFunc

	statter fileStatter
	files   fileRemover
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithValidatorWarnFunc sets a callback for warning messages.
// By default, warnings are written to stderr. Set to nil to suppress.
func WithValidatorWarnFunc(fn WarnFunc) ValidatorOption {
	return func(v *Validator) {
		v.warn = fn
	}
}

// WithValidatorFileStatter sets the file statter (for testing).
func WithValidatorFileStatter(s fileStatter) ValidatorOption {
	return func(v *Validator) {
		v.statter = s
	}
}

// WithValidatorFileRemover sets the file remover (for testing).
func WithValidatorFileRemover(f fileRemover) ValidatorOption {
	return func(v *Validator) {
		v.files = f
	}
}

// NewValidator creates a Validator that keeps chunks of at least minBytes.
func NewValidator(minBytes int64, opts ...ValidatorOption) *Validator {
	v := &Validator{
		minBytes: minBytes,
		warn:     defaultWarnFunc,
		statter:  osFileStatter{},
		files:    osFileRemover{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate filters chunks by size. Undersized chunks are deleted and
// dropped; a per-chunk stat failure is logged and treated as a drop, not
// a pipeline failure. Surviving chunks keep their original indices so
// outcome order still reflects temporal order.
//
// If nothing survives, a whole-file fallback chunk is substituted — a
// verbatim copy of sourcePath, never a re-encode — so transcription can
// still proceed. Only a failed fallback copy is an error.
func (v *Validator) Validate(chunks []Chunk, sourcePath, destDir string) ([]Chunk, error) {
	valid := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		info, err := v.statter.Stat(c.Path)
		if err != nil {
			v.warnf("Warning: skipping %s: %v", c.Name(), err)
			continue
		}
		if info.Size() < v.minBytes {
			v.warnf("Warning: dropping %s (%s < %s minimum)",
				c.Name(), format.Size(info.Size()), format.Size(v.minBytes))
			_ = v.files.Remove(c.Path) // best-effort; the chunk is dropped either way
			continue
		}
		c.Size = info.Size()
		valid = append(valid, c)
	}

	if len(valid) > 0 {
		return valid, nil
	}

	v.warnf("Warning: no valid chunks after validation, falling back to whole file")
	fallback, err := fallbackChunk(sourcePath, destDir)
	if err != nil {
		return nil, fmt.Errorf("%w: fallback: %v", ErrSegmentationFailed, err)
	}
	return []Chunk{fallback}, nil
}

// warnf formats and emits a warning if a handler is set.
func (v *Validator) warnf(msg string, args ...any) {
	if v.warn != nil {
		v.warn(fmt.Sprintf(msg, args...))
	}
}
