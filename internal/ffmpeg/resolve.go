package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
)

// EnvPath is the environment variable that overrides ffmpeg binary resolution.
const EnvPath = "CHUNKSCRIBE_FFMPEG"

// Resolve locates the ffmpeg binary.
// Resolution order: CHUNKSCRIBE_FFMPEG environment variable, then PATH lookup.
// Returns ErrNotFound if neither yields an executable.
func Resolve() (string, error) {
	if custom := os.Getenv(EnvPath); custom != "" {
		if _, err := os.Stat(custom); err != nil {
			return "", fmt.Errorf("%w: %s=%s: %v", ErrNotFound, EnvPath, custom, err)
		}
		return custom, nil
	}

	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("%w: install ffmpeg or set %s", ErrNotFound, EnvPath)
	}
	return path, nil
}
