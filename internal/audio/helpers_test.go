package audio_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"
)

// fakeRunner implements the command runner seam. Each invocation is
// delegated to run, letting tests fabricate FFmpeg behavior (output text,
// produced files, failures).
type fakeRunner struct {
	calls [][]string
	run   func(name string, args []string) ([]byte, error)
}

func (f *fakeRunner) CombinedOutput(_ context.Context, name string, args []string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.run == nil {
		return nil, nil
	}
	return f.run(name, args)
}

// failingStatter fails Stat for the configured paths and defers to the
// real filesystem otherwise.
type failingStatter struct {
	failPaths map[string]bool
}

func (s failingStatter) Stat(name string) (os.FileInfo, error) {
	if s.failPaths[name] {
		return nil, errors.New("stat failed")
	}
	return os.Stat(name)
}

// recordingRemover tracks removed paths while actually removing them.
type recordingRemover struct {
	removed []string
}

func (r *recordingRemover) Remove(name string) error {
	r.removed = append(r.removed, name)
	return os.Remove(name)
}

// writeBytes creates a file of n bytes at path.
func writeBytes(path string, n int) error {
	return os.WriteFile(path, make([]byte, n), fs.FileMode(0o644))
}

// secs builds a duration slice from whole seconds, keeping tables short.
func secs(values ...int) []time.Duration {
	out := make([]time.Duration, len(values))
	for i, v := range values {
		out[i] = time.Duration(v) * time.Second
	}
	return out
}
