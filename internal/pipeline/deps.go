package pipeline

import (
	"fmt"
	"os"
)

// fileStatter retrieves file information.
type fileStatter interface {
	Stat(name string) (os.FileInfo, error)
}

// scratchDirs creates and destroys scratch working directories.
type scratchDirs interface {
	MkdirTemp(dir, pattern string) (string, error)
	RemoveAll(path string) error
}

// defaultWarn writes warnings to stderr.
func defaultWarn(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// --- Default implementations using real OS functions ---

// osFileStatter implements fileStatter using os.Stat.
type osFileStatter struct{}

func (osFileStatter) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// osScratchDirs implements scratchDirs using the os package.
type osScratchDirs struct{}

func (osScratchDirs) MkdirTemp(dir, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

func (osScratchDirs) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
