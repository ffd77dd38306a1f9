package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// deriveOutputName converts an audio file path to a text output file name.
// Example: "talks/session.ogg" -> "session.txt"
func deriveOutputName(inputPath string) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".txt"
}

// writeOutput writes text to path, refusing to overwrite an existing file.
// A partially written file is removed on write failure.
func writeOutput(path, text string) error {
	// Use O_EXCL to atomically check existence and create file (avoids race condition)
	// #nosec G302 G304 -- user-specified output file with standard permissions
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	// Ensure file is closed even on write error
	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.WriteString(text + "\n"); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}

	return nil
}
