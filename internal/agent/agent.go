package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"reelcheck/internal/acquire"
	"reelcheck/internal/config"
	"reelcheck/internal/language"
	"reelcheck/internal/logging"
	"reelcheck/internal/media/audio"
	"reelcheck/internal/services"
	"reelcheck/internal/shortcode"
	"reelcheck/internal/transcribe"
	"reelcheck/internal/workarea"
)

const audioFileName = "audio.wav"

// Acquirer downloads a reel's video into a work area.
type Acquirer interface {
	Acquire(ctx context.Context, ref shortcode.ContentRef, area *workarea.Area) (acquire.Result, error)
}

// AudioExtractor converts a video to speech-ready WAV.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
}

// NoSpeechDetectedError reports a transcript with no text.
type NoSpeechDetectedError struct {
	ContentID string
	Backend   string
	Silent    int
	Failed    int
}

func (e *NoSpeechDetectedError) Error() string {
	msg := fmt.Sprintf("no speech detected in %s (backend %s)", e.ContentID, e.Backend)
	if e.Silent > 0 || e.Failed > 0 {
		msg += fmt.Sprintf(": %d silent chunks, %d failed chunks", e.Silent, e.Failed)
	}
	return msg
}

func (e *NoSpeechDetectedError) Unwrap() error { return services.ErrNotFound }

// Result is a successful run.
type Result struct {
	ContentID  string
	URL        string
	Strategy   string
	Transcript transcribe.Transcript
	Elapsed    time.Duration
}

// Agent runs the acquisition and transcription pipeline for one reel at a time.
type Agent struct {
	workDir   string
	acquirer  Acquirer
	extractor AudioExtractor
	backend   transcribe.Backend
	logger    *slog.Logger
}

// New assembles an Agent from its collaborators.
func New(workDir string, acquirer Acquirer, extractor AudioExtractor, backend transcribe.Backend, logger *slog.Logger) *Agent {
	return &Agent{
		workDir:   workDir,
		acquirer:  acquirer,
		extractor: extractor,
		backend:   backend,
		logger:    logging.NewComponentLogger(logger, "agent"),
	}
}

// FromConfig builds an Agent with the strategies and backend selected in cfg.
func FromConfig(cfg *config.Config, logger *slog.Logger, opts ...acquire.Option) (*Agent, error) {
	strategies, err := acquire.FromConfig(cfg, logger, opts...)
	if err != nil {
		return nil, err
	}
	orchestrator, err := acquire.NewOrchestrator(strategies, logger)
	if err != nil {
		return nil, err
	}
	backend, err := transcribe.FromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	return New(cfg.Paths.WorkDir, orchestrator, audio.NewExtractor(cfg.Media.FFmpegBinary), backend, logger), nil
}

// Backend returns the name of the transcription backend in use.
func (a *Agent) Backend() string { return a.backend.Name() }

// Run transcribes the reel at rawURL. An invalid URL fails before anything is
// written to disk.
func (a *Agent) Run(ctx context.Context, rawURL string, lang language.Spec) (Result, error) {
	started := time.Now()
	ref, err := shortcode.Extract(rawURL)
	if err != nil {
		return Result{}, err
	}
	if lang.IsZero() {
		lang = language.Default
	}
	ctx = services.WithShortcode(ctx, ref.ID)
	logger := logging.WithContext(ctx, a.logger)

	area, err := workarea.Create(a.workDir, ref.ID)
	if err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "agent", "create work area", "", err)
	}
	defer func() {
		if err := area.Remove(); err != nil {
			logging.WarnWithContext(logger, "work area cleanup failed", "cleanup_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "stale files left in the work directory"),
				logging.String(logging.FieldErrorHint, "run the clean command"),
			)
		}
	}()

	acquired, err := a.acquirer.Acquire(services.WithStage(ctx, "acquire"), ref, area)
	if err != nil {
		return Result{}, err
	}

	audioPath := area.Path(audioFileName)
	if err := a.extractor.ExtractAudio(services.WithStage(ctx, "extract_audio"), acquired.VideoPath, audioPath); err != nil {
		return Result{}, err
	}

	transcript, err := a.backend.Transcribe(services.WithStage(ctx, "transcribe"), audioPath, lang)
	if err != nil {
		return Result{}, err
	}
	if transcript.Empty() {
		counts := transcript.Counts()
		return Result{}, &NoSpeechDetectedError{
			ContentID: ref.ID,
			Backend:   a.backend.Name(),
			Silent:    counts[transcribe.StatusSilent],
			Failed:    counts[transcribe.StatusBackendError],
		}
	}

	result := Result{
		ContentID:  ref.ID,
		URL:        ref.URL,
		Strategy:   acquired.Strategy,
		Transcript: transcript,
		Elapsed:    time.Since(started),
	}
	logger.Info("reel transcribed",
		logging.String(logging.FieldEventType, "transcription_ready"),
		logging.String(logging.FieldStrategy, result.Strategy),
		logging.String("backend", transcript.Backend),
		logging.String("language", lang.Region),
		logging.Int("characters", len([]rune(transcript.Text))),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}
