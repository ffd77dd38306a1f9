package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"chunkscribe/internal/config"
	"chunkscribe/internal/pipeline"
	"chunkscribe/internal/transcribe"
)

// supportedFormats lists audio formats accepted by OpenAI's transcription API.
// Source: https://platform.openai.com/docs/guides/speech-to-text
var supportedFormats = map[string]bool{
	".ogg":  true,
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".flac": true,
	".mp4":  true,
	".mpeg": true,
	".mpga": true,
	".webm": true,
}

// supportedFormatsList returns a sorted, comma-separated list for error messages.
// The list is sorted for deterministic output in tests and user-facing messages.
func supportedFormatsList() string {
	formats := make([]string, 0, len(supportedFormats))
	for ext := range supportedFormats {
		formats = append(formats, strings.TrimPrefix(ext, "."))
	}
	slices.Sort(formats)
	return strings.Join(formats, ", ")
}

// transcribeFlags holds the transcribe command's flag values.
type transcribeFlags struct {
	output        string
	toStdout      bool
	parallel      int
	ratePerMinute int
	language      string
	prompt        string
}

// TranscribeCmd creates the transcribe command.
// The env parameter provides injectable dependencies for testing.
func TranscribeCmd(env *Env) *cobra.Command {
	var flags transcribeFlags

	cmd := &cobra.Command{
		Use:   "transcribe <audio-file-or-dir> [more...]",
		Short: "Transcribe audio files",
		Long: `Transcribe audio files using OpenAI's transcription API.

Files larger than the size threshold are split into chunks at natural
silence points, transcribed concurrently, and reassembled in original
order. A failed chunk leaves an ERROR marker in the output instead of
aborting the whole run.

Directory arguments are searched recursively for supported audio files.
Each input produces a <name>.txt file next to the working directory
(or in the configured output-dir).

Supported formats: ogg, mp3, wav, m4a, flac, mp4, mpeg, mpga, webm`,
		Example: `  chunkscribe transcribe lecture.mp3
  chunkscribe transcribe lecture.mp3 -o notes.txt
  chunkscribe transcribe lecture.mp3 --stdout
  chunkscribe transcribe recordings/ -p 4 --rate-per-minute 50
  chunkscribe transcribe interview.ogg -l fr --prompt "names: Aurélie, Théo"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscribe(cmd, env, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (single input only, default: <input>.txt)")
	cmd.Flags().BoolVar(&flags.toStdout, "stdout", false, "Print transcripts to stdout instead of writing files")
	cmd.Flags().IntVarP(&flags.parallel, "parallel", "p", 0, "Max concurrent API requests (0 = unbounded)")
	cmd.Flags().IntVar(&flags.ratePerMinute, "rate-per-minute", 0, "Max API requests per minute (0 = unlimited)")
	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "Audio language (ISO 639-1 code, e.g., en, fr)")
	cmd.Flags().StringVar(&flags.prompt, "prompt", "", "Context prompt to improve transcription accuracy")

	return cmd
}

// runTranscribe executes the transcription pipeline for each discovered input.
// Validation order: inputs exist -> formats -> flag combinations -> API key -> ffmpeg
func runTranscribe(cmd *cobra.Command, env *Env, args []string, flags transcribeFlags) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	inputs, err := discoverInputs(args)
	if err != nil {
		return err
	}

	if flags.output != "" && len(inputs) > 1 {
		return fmt.Errorf("--output works with a single input, got %d files", len(inputs))
	}
	if flags.output != "" && flags.toStdout {
		return fmt.Errorf("--output and --stdout are mutually exclusive")
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	settings := config.DefaultSettings()
	settings.MaxParallel = cfg.Parallel
	settings.RatePerMinute = cfg.RatePerMinute
	if cmd.Flags().Changed("parallel") {
		settings.MaxParallel = flags.parallel
	}
	if cmd.Flags().Changed("rate-per-minute") {
		settings.RatePerMinute = flags.ratePerMinute
	}

	apiKey := env.Getenv(EnvOpenAIAPIKey)
	if apiKey == "" {
		return fmt.Errorf("%w (set it with: export %s=sk-...)", transcribe.ErrAPIKeyMissing, EnvOpenAIAPIKey)
	}

	// === SETUP ===

	ffmpegPath, err := env.FFmpegResolver.Resolve()
	if err != nil {
		return err
	}

	transcriber := env.TranscriberFactory.NewTranscriber(apiKey)
	warn := func(msg string) {
		fmt.Fprintln(env.Stderr, msg)
	}

	proc, err := env.PipelineFactory.NewPipeline(ffmpegPath, settings, transcriber, warn)
	if err != nil {
		return err
	}

	opts := transcribe.Options{
		Prompt:   flags.prompt,
		Language: flags.language,
	}

	// === TRANSCRIPTION ===

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrFileNotFound, input)
		}
		fmt.Fprintf(env.Stderr, "Transcribing %s (%s)...\n",
			filepath.Base(input), pipeline.Describe(info.Size(), settings.SizeThreshold))

		text, err := proc.Process(ctx, input, opts)
		if err != nil {
			return err
		}

		if flags.toStdout {
			fmt.Fprintln(env.Stdout, text)
			continue
		}

		output := config.ResolveOutputPath(flags.output, cfg.OutputDir, deriveOutputName(input))
		if err := writeOutput(output, text); err != nil {
			return err
		}
		fmt.Fprintf(env.Stderr, "Done: %s\n", output)
	}

	return nil
}

// discoverInputs expands file and directory arguments into a list of audio
// files. Explicit file arguments must be supported formats; directories are
// walked recursively and non-audio entries are silently skipped.
func discoverInputs(args []string) ([]string, error) {
	var inputs []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, arg)
			}
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			ext := strings.ToLower(filepath.Ext(arg))
			if !supportedFormats[ext] {
				return nil, fmt.Errorf("unsupported format %q (supported: %s): %w",
					ext, supportedFormatsList(), ErrUnsupportedFormat)
			}
			inputs = append(inputs, arg)
			continue
		}

		// WalkDir visits entries in lexical order, keeping batch output
		// deterministic.
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if supportedFormats[strings.ToLower(filepath.Ext(path))] {
				inputs = append(inputs, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("cannot walk %s: %w", arg, err)
		}
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w (supported: %s)", ErrNoAudioFiles, supportedFormatsList())
	}
	return inputs, nil
}
