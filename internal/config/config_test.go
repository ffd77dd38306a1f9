package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"chunkscribe/internal/config"
)

func TestDefaultSettings(t *testing.T) {
	t.Parallel()

	s := config.DefaultSettings()

	if s.SizeThreshold != 5*1024*1024 {
		t.Errorf("SizeThreshold = %d, want 5MB", s.SizeThreshold)
	}
	if s.MinChunkBytes != 1024 {
		t.Errorf("MinChunkBytes = %d, want 1024", s.MinChunkBytes)
	}
	if s.NoiseFloorDB != -30.0 {
		t.Errorf("NoiseFloorDB = %v, want -30", s.NoiseFloorDB)
	}
	if s.MinSilence != 600*time.Millisecond {
		t.Errorf("MinSilence = %v, want 600ms", s.MinSilence)
	}
	if s.MaxChunkDuration != 120*time.Second {
		t.Errorf("MaxChunkDuration = %v, want 120s", s.MaxChunkDuration)
	}
	if s.MinSplitGap != 30*time.Second {
		t.Errorf("MinSplitGap = %v, want 30s", s.MinSplitGap)
	}
	if s.BitrateKbps != 64 {
		t.Errorf("BitrateKbps = %d, want 64", s.BitrateKbps)
	}
	if s.MaxParallel != 0 {
		t.Errorf("MaxParallel = %d, want 0 (unbounded)", s.MaxParallel)
	}
}

func TestSettings_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Settings)
		check  func(t *testing.T, s config.Settings)
	}{
		{
			name:   "zero size threshold restored",
			mutate: func(s *config.Settings) { s.SizeThreshold = 0 },
			check: func(t *testing.T, s config.Settings) {
				if s.SizeThreshold != config.DefaultSizeThreshold {
					t.Errorf("SizeThreshold = %d, want default", s.SizeThreshold)
				}
			},
		},
		{
			name:   "positive noise floor restored",
			mutate: func(s *config.Settings) { s.NoiseFloorDB = 10 },
			check: func(t *testing.T, s config.Settings) {
				if s.NoiseFloorDB != config.DefaultNoiseFloorDB {
					t.Errorf("NoiseFloorDB = %v, want default", s.NoiseFloorDB)
				}
			},
		},
		{
			name:   "negative parallel clamped to unbounded",
			mutate: func(s *config.Settings) { s.MaxParallel = -3 },
			check: func(t *testing.T, s config.Settings) {
				if s.MaxParallel != 0 {
					t.Errorf("MaxParallel = %d, want 0", s.MaxParallel)
				}
			},
		},
		{
			name:   "valid values untouched",
			mutate: func(s *config.Settings) { s.MaxParallel = 8; s.MinChunkBytes = 2048 },
			check: func(t *testing.T, s config.Settings) {
				if s.MaxParallel != 8 || s.MinChunkBytes != 2048 {
					t.Errorf("valid values changed: %+v", s)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := config.DefaultSettings()
			tt.mutate(&s)
			s.Normalize()
			tt.check(t, s)
		})
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	t.Run("parses keys, comments, blanks", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), "config")
		content := "# comment\n\noutput-dir = /tmp/out\nparallel=4\n"
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		data, err := config.ParseFile(p)
		if err != nil {
			t.Fatalf("ParseFile() error = %v", err)
		}
		if data["output-dir"] != "/tmp/out" {
			t.Errorf("output-dir = %q, want /tmp/out", data["output-dir"])
		}
		if data["parallel"] != "4" {
			t.Errorf("parallel = %q, want 4", data["parallel"])
		}
	})

	t.Run("rejects malformed line", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), "config")
		if err := os.WriteFile(p, []byte("not a key value\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := config.ParseFile(p); err == nil {
			t.Error("ParseFile() = nil error, want syntax error")
		}
	})
}

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		output      string
		outputDir   string
		defaultName string
		want        string
	}{
		{
			name:        "absolute output wins",
			output:      "/abs/result.txt",
			outputDir:   "/ignored",
			defaultName: "x.txt",
			want:        "/abs/result.txt",
		},
		{
			name:        "relative output joined with dir",
			output:      "result.txt",
			outputDir:   "/out",
			defaultName: "x.txt",
			want:        "/out/result.txt",
		},
		{
			name:        "default name in dir",
			output:      "",
			outputDir:   "/out",
			defaultName: "session.txt",
			want:        "/out/session.txt",
		},
		{
			name:        "default name in cwd",
			output:      "",
			outputDir:   "",
			defaultName: "session.txt",
			want:        "session.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := config.ResolveOutputPath(tt.output, tt.outputDir, tt.defaultName)
			if got != tt.want {
				t.Errorf("ResolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
