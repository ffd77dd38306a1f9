package cli

import (
	"context"
	"sync"

	"chunkscribe/internal/audio"
	"chunkscribe/internal/config"
	"chunkscribe/internal/transcribe"
)

// ---------------------------------------------------------------------------
// Mock FFmpegResolver
// ---------------------------------------------------------------------------

type mockFFmpegResolver struct {
	ResolveFunc func() (string, error)

	mu           sync.Mutex
	resolveCalls int
}

func (m *mockFFmpegResolver) Resolve() (string, error) {
	m.mu.Lock()
	m.resolveCalls++
	m.mu.Unlock()

	if m.ResolveFunc != nil {
		return m.ResolveFunc()
	}
	return "/usr/bin/ffmpeg", nil
}

func (m *mockFFmpegResolver) ResolveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolveCalls
}

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

// ---------------------------------------------------------------------------
// Mock TranscriberFactory + Transcriber
// ---------------------------------------------------------------------------

type mockTranscriberFactory struct {
	mu                  sync.Mutex
	newTranscriberCalls []string // API keys passed
}

func (m *mockTranscriberFactory) NewTranscriber(apiKey string) transcribe.Transcriber {
	m.mu.Lock()
	m.newTranscriberCalls = append(m.newTranscriberCalls, apiKey)
	m.mu.Unlock()
	return &mockTranscriber{}
}

func (m *mockTranscriberFactory) NewTranscriberCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.newTranscriberCalls...)
}

type mockTranscriber struct{}

func (m *mockTranscriber) Transcribe(context.Context, string, transcribe.Options) (string, error) {
	return "mock transcript", nil
}

// ---------------------------------------------------------------------------
// Mock PipelineFactory + Processor
// ---------------------------------------------------------------------------

type mockPipelineFactory struct {
	NewPipelineFunc func(ffmpegPath string, settings config.Settings, tr transcribe.Transcriber, warn audio.WarnFunc) (Processor, error)

	mu          sync.Mutex
	gotSettings []config.Settings
	gotFFmpeg   []string
}

func (m *mockPipelineFactory) NewPipeline(ffmpegPath string, settings config.Settings, tr transcribe.Transcriber, warn audio.WarnFunc) (Processor, error) {
	m.mu.Lock()
	m.gotSettings = append(m.gotSettings, settings)
	m.gotFFmpeg = append(m.gotFFmpeg, ffmpegPath)
	m.mu.Unlock()

	if m.NewPipelineFunc != nil {
		return m.NewPipelineFunc(ffmpegPath, settings, tr, warn)
	}
	return &mockProcessor{}, nil
}

func (m *mockPipelineFactory) Settings() []config.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]config.Settings(nil), m.gotSettings...)
}

type mockProcessor struct {
	ProcessFunc func(ctx context.Context, audioPath string, opts transcribe.Options) (string, error)

	mu    sync.Mutex
	calls []processCall
}

type processCall struct {
	AudioPath string
	Opts      transcribe.Options
}

func (m *mockProcessor) Process(ctx context.Context, audioPath string, opts transcribe.Options) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, processCall{AudioPath: audioPath, Opts: opts})
	m.mu.Unlock()

	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, audioPath, opts)
	}
	return "transcript of " + audioPath, nil
}

func (m *mockProcessor) Calls() []processCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]processCall(nil), m.calls...)
}

// Compile-time interface verification for mocks.
var (
	_ FFmpegResolver     = (*mockFFmpegResolver)(nil)
	_ ConfigLoader       = (*mockConfigLoader)(nil)
	_ TranscriberFactory = (*mockTranscriberFactory)(nil)
	_ PipelineFactory    = (*mockPipelineFactory)(nil)
	_ Processor          = (*mockProcessor)(nil)
)
