package whisperx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"reelcheck/internal/deps"
	langpkg "reelcheck/internal/language"
	"reelcheck/internal/textutil"
)

// CommandRunner executes a command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Service provides WhisperX transcription capabilities.
type Service struct {
	cfg           Config
	commandRunner CommandRunner

	warmOnce sync.Once
	warmErr  error
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg, commandRunner: runCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	if runner != nil {
		s.commandRunner = runner
	}
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// CUDAEnabled returns whether CUDA is enabled.
func (s *Service) CUDAEnabled() bool {
	return s.cfg.CUDAEnabled
}

// Warm checks that uvx can launch WhisperX and prepares the model cache.
// Only the first call does any work; later calls return the same result.
func (s *Service) Warm(ctx context.Context) error {
	s.warmOnce.Do(func() {
		if dir := strings.TrimSpace(s.cfg.ModelDir); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				s.warmErr = fmt.Errorf("whisperx: ensure model dir: %w", err)
				return
			}
		}
		args := append(s.indexArgs(), "whisperx", "--help")
		if _, err := s.commandRunner(ctx, UVXCommand, args...); err != nil {
			s.warmErr = fmt.Errorf("whisperx warm-up: %w", deps.AsMissing(UVXCommand, err))
		}
	})
	return s.warmErr
}

// TranscribeFile transcribes source and returns the trimmed transcript text.
// outputDir receives the WhisperX JSON output; it defaults to the source
// directory.
func (s *Service) TranscribeFile(ctx context.Context, source, outputDir, language string) (string, error) {
	if source == "" {
		return "", errors.New("transcribe: source path required")
	}
	if err := s.Warm(ctx); err != nil {
		return "", err
	}
	if outputDir == "" {
		outputDir = filepath.Dir(source)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	output, err := s.commandRunner(ctx, UVXCommand, s.buildArgs(source, outputDir, language)...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var missing *deps.MissingBinaryError
		if converted := deps.AsMissing(UVXCommand, err); errors.As(converted, &missing) {
			return "", converted
		}
		return "", fmt.Errorf("whisperx: %w: %s", err, textutil.Diagnostic(string(output), 500))
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	text, err := loadTranscriptText(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return "", fmt.Errorf("whisperx: read output: %w", err)
	}
	return text, nil
}

func (s *Service) indexArgs() []string {
	if s.cfg.CUDAEnabled {
		return []string{"--index-url", CUDAIndexURL, "--extra-index-url", PypiIndexURL}
	}
	return []string{"--index-url", PypiIndexURL}
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildArgs(source, outputDir, language string) []string {
	args := make([]string, 0, 32)
	args = append(args, s.indexArgs()...)
	args = append(args,
		"whisperx",
		source,
		"--model", s.Model(),
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--beam_size", BeamSize,
		"--temperature", Temperature,
		"--vad_method", VADMethod,
	)
	if dir := strings.TrimSpace(s.cfg.ModelDir); dir != "" {
		args = append(args, "--model_dir", dir)
	}
	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}
	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}
	return args
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	// Torch 2.6 defaults torch.load to weights_only, which the bundled
	// checkpoints cannot satisfy.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	return cmd.CombinedOutput()
}

// Segment represents a transcribed segment from WhisperX JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type payload struct {
	Segments []Segment `json:"segments"`
}

// LoadSegments loads segments from a WhisperX JSON file.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	return p.Segments, nil
}

func loadTranscriptText(jsonPath string) (string, error) {
	segments, err := LoadSegments(jsonPath)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}
	return textutil.JoinNonEmpty(parts), nil
}
