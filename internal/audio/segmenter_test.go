package audio_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chunkscribe/internal/audio"
)

func TestNewFFmpegSegmenter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		ffmpegPath string
		bitrate    int
		wantErr    bool
	}{
		{name: "valid", ffmpegPath: "/usr/bin/ffmpeg", bitrate: 64, wantErr: false},
		{name: "empty path", ffmpegPath: "", bitrate: 64, wantErr: true},
		{name: "zero bitrate", ffmpegPath: "/usr/bin/ffmpeg", bitrate: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := audio.NewFFmpegSegmenter(tt.ffmpegPath, tt.bitrate)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFFmpegSegmenter() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFFmpegSegmenter_Segment_EmptyPlan(t *testing.T) {
	t.Parallel()

	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := filepath.Join(srcDir, "talk.ogg")
	content := []byte("original audio bytes")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	runner := &fakeRunner{}
	s, err := audio.NewFFmpegSegmenter("ffmpeg", 64, audio.WithSegmenterCommandRunner(runner))
	if err != nil {
		t.Fatal(err)
	}

	chunks, err := s.Segment(context.Background(), src, nil, destDir)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	// The encoder must not run on the fallback path.
	if len(runner.calls) != 0 {
		t.Errorf("encoder invoked %d times on empty plan, want 0", len(runner.calls))
	}

	if len(chunks) != 1 {
		t.Fatalf("Segment() = %d chunks, want 1", len(chunks))
	}
	c := chunks[0]
	if c.Index != 0 {
		t.Errorf("chunk index = %d, want 0", c.Index)
	}
	if c.Name() != "chunk_000.ogg" {
		t.Errorf("chunk name = %q, want chunk_000.ogg (source extension preserved)", c.Name())
	}

	got, err := os.ReadFile(c.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Error("fallback chunk is not a verbatim copy of the source")
	}
}

func TestFFmpegSegmenter_Segment_InvokesEncoderOnce(t *testing.T) {
	t.Parallel()

	destDir := t.TempDir()

	runner := &fakeRunner{run: func(_ string, args []string) ([]byte, error) {
		// Simulate the segment muxer writing three chunk files.
		for _, name := range []string{"chunk_000.mp3", "chunk_001.mp3", "chunk_002.mp3"} {
			if err := writeBytes(filepath.Join(destDir, name), 2048); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}}

	s, err := audio.NewFFmpegSegmenter("ffmpeg", 64, audio.WithSegmenterCommandRunner(runner))
	if err != nil {
		t.Fatal(err)
	}

	chunks, err := s.Segment(context.Background(), "talk.mp3", secs(50, 125, 250), destDir)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("encoder invoked %d times, want exactly 1", len(runner.calls))
	}
	joined := strings.Join(runner.calls[0], " ")
	if !strings.Contains(joined, "-segment_times 50.000,125.000,250.000") {
		t.Errorf("args = %q, want full split list in one invocation", joined)
	}
	if !strings.Contains(joined, "-b:a 64k") {
		t.Errorf("args = %q, want fixed 64k bitrate", joined)
	}

	if len(chunks) != 3 {
		t.Fatalf("Segment() = %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d; filename order must define index order", i, c.Index)
		}
		if c.Size != 2048 {
			t.Errorf("chunk %d size = %d, want 2048", i, c.Size)
		}
	}
}

func TestFFmpegSegmenter_Segment_EncoderFailureIsFatal(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{run: func(string, []string) ([]byte, error) {
		return []byte("Invalid data found"), errors.New("exit status 1")
	}}
	s, err := audio.NewFFmpegSegmenter("ffmpeg", 64, audio.WithSegmenterCommandRunner(runner))
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Segment(context.Background(), "talk.mp3", secs(50), t.TempDir())
	if !errors.Is(err, audio.ErrSegmentationFailed) {
		t.Errorf("Segment() error = %v, want ErrSegmentationFailed", err)
	}
}

func TestFFmpegSegmenter_Segment_NoOutputFilesIsFatal(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{} // succeeds but writes nothing
	s, err := audio.NewFFmpegSegmenter("ffmpeg", 64, audio.WithSegmenterCommandRunner(runner))
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Segment(context.Background(), "talk.mp3", secs(50), t.TempDir())
	if !errors.Is(err, audio.ErrSegmentationFailed) {
		t.Errorf("Segment() error = %v, want ErrSegmentationFailed", err)
	}
}
