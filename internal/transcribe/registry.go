package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"reelcheck/internal/config"
	"reelcheck/internal/logging"
	"reelcheck/internal/media/audio"
	"reelcheck/internal/media/ffprobe"
	"reelcheck/internal/services"
	"reelcheck/internal/services/speech"
	"reelcheck/internal/services/whisperx"
)

// FFprobeDuration returns a Prober backed by ffprobe.
func FFprobeDuration(binary string) Prober {
	return func(ctx context.Context, path string) (time.Duration, error) {
		result, err := ffprobe.Inspect(ctx, binary, path)
		if err != nil {
			return 0, err
		}
		return result.Duration(), nil
	}
}

// FromConfig builds the backend selected by cfg.Transcription.Backend.
func FromConfig(cfg *config.Config, logger *slog.Logger) (Backend, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "select backend", "config is nil", nil)
	}
	logger = logging.NewComponentLogger(logger, "transcribe")
	switch cfg.Transcription.Backend {
	case config.BackendWhisperX:
		svc := whisperx.NewService(whisperx.Config{
			Model:       cfg.WhisperX.Model,
			CUDAEnabled: cfg.WhisperX.CUDAEnabled,
			ModelDir:    cfg.Paths.ModelCacheDir,
		})
		return NewLocalModel(svc), nil
	case config.BackendCloud:
		gate := DefaultEnergyGate()
		if cfg.Transcription.CalibrationSeconds > 0 {
			gate.Calibration = time.Duration(cfg.Transcription.CalibrationSeconds * float64(time.Second))
		}
		client := speech.NewClient(speech.Config{
			APIKey:         cfg.Speech.APIKey,
			BaseURL:        cfg.Speech.BaseURL,
			TimeoutSeconds: cfg.Speech.TimeoutSeconds,
			SampleRate:     audio.SampleRate,
		})
		return NewChunkedRecognizer(
			FFprobeDuration(cfg.Media.FFprobeBinary),
			audio.NewExtractor(cfg.Media.FFmpegBinary),
			client,
			WithChunkLength(time.Duration(cfg.Transcription.ChunkSeconds*float64(time.Second))),
			WithGate(gate),
			WithLogger(logger),
		), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "select backend",
			fmt.Sprintf("unknown backend %q", cfg.Transcription.Backend), nil)
	}
}
