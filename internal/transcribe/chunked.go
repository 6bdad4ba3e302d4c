package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reelcheck/internal/deps"
	"reelcheck/internal/language"
	"reelcheck/internal/logging"
	"reelcheck/internal/textutil"
)

// DefaultChunkLength is the window submitted to the cloud recognizer.
const DefaultChunkLength = 10 * time.Second

// minChunk drops float remainders too short to hold speech.
const minChunk = 50 * time.Millisecond

// Prober reports the duration of an audio file.
type Prober func(ctx context.Context, path string) (time.Duration, error)

// Splitter cuts a window out of an audio file.
type Splitter interface {
	ExtractSegment(ctx context.Context, source string, start, duration time.Duration, dest string) error
}

// Recognizer transcribes a short WAV file.
type Recognizer interface {
	RecognizeFile(ctx context.Context, path, languageCode string) (string, error)
}

// Gate decides whether a chunk is worth recognizing.
type Gate interface {
	HasSpeech(path string) (bool, error)
}

// ChunkedRecognizer transcribes long audio through a short-input recognizer.
type ChunkedRecognizer struct {
	probe      Prober
	splitter   Splitter
	recognizer Recognizer
	gate       Gate
	length     time.Duration
	logger     *slog.Logger
}

// ChunkOption customizes a ChunkedRecognizer.
type ChunkOption func(*ChunkedRecognizer)

// WithChunkLength overrides the window length.
func WithChunkLength(d time.Duration) ChunkOption {
	return func(c *ChunkedRecognizer) {
		if d > 0 {
			c.length = d
		}
	}
}

// WithGate overrides the silence gate.
func WithGate(g Gate) ChunkOption {
	return func(c *ChunkedRecognizer) {
		if g != nil {
			c.gate = g
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) ChunkOption {
	return func(c *ChunkedRecognizer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChunkedRecognizer assembles the cloud backend.
func NewChunkedRecognizer(probe Prober, splitter Splitter, recognizer Recognizer, opts ...ChunkOption) *ChunkedRecognizer {
	c := &ChunkedRecognizer{
		probe:      probe,
		splitter:   splitter,
		recognizer: recognizer,
		gate:       DefaultEnergyGate(),
		length:     DefaultChunkLength,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the backend identifier.
func (c *ChunkedRecognizer) Name() string { return "cloud" }

// Plan returns the chunk durations covering total.
func (c *ChunkedRecognizer) Plan(total time.Duration) []time.Duration {
	if total <= 0 {
		return nil
	}
	count := int(math.Ceil(float64(total) / float64(c.length)))
	plan := make([]time.Duration, 0, count)
	for start := time.Duration(0); start < total; start += c.length {
		d := min(c.length, total-start)
		if d < minChunk && len(plan) > 0 {
			break
		}
		plan = append(plan, d)
	}
	return plan
}

// Transcribe processes audioPath chunk by chunk. Chunk files are written next
// to audioPath and removed as soon as their attempt finishes.
func (c *ChunkedRecognizer) Transcribe(ctx context.Context, audioPath string, lang language.Spec) (Transcript, error) {
	total, err := c.probe(ctx, audioPath)
	if err != nil {
		return Transcript{}, fmt.Errorf("probe audio duration: %w", err)
	}
	plan := c.Plan(total)
	c.logger.Info("chunked transcription started",
		logging.String(logging.FieldEventType, "transcription_start"),
		logging.Int("chunks", len(plan)),
		logging.Duration("audio_duration", total),
		logging.String("language", lang.Region),
	)

	dir := filepath.Dir(audioPath)
	results := make([]ChunkResult, 0, len(plan))
	texts := make([]string, 0, len(plan))
	start := time.Duration(0)
	for i, length := range plan {
		result, err := c.chunk(ctx, audioPath, filepath.Join(dir, fmt.Sprintf("chunk_%03d.wav", i)), i, start, length, lang)
		if err != nil {
			return Transcript{}, err
		}
		results = append(results, result)
		texts = append(texts, result.Text)
		start += length
	}

	transcript := Transcript{
		Text:     textutil.JoinNonEmpty(texts),
		Language: lang,
		Backend:  c.Name(),
		Chunks:   results,
	}
	counts := transcript.Counts()
	c.logger.Info("chunked transcription finished",
		logging.String(logging.FieldEventType, "transcription_complete"),
		logging.Int("ok", counts[StatusOK]),
		logging.Int("silent", counts[StatusSilent]),
		logging.Int("backend_error", counts[StatusBackendError]),
	)
	return transcript, nil
}

func (c *ChunkedRecognizer) chunk(ctx context.Context, source, dest string, index int, start, length time.Duration, lang language.Spec) (ChunkResult, error) {
	result := ChunkResult{Index: index, Duration: length.Seconds()}
	defer os.Remove(dest)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := c.splitter.ExtractSegment(ctx, source, start, length, dest); err != nil {
		var missing *deps.MissingBinaryError
		if errors.As(err, &missing) || ctx.Err() != nil {
			return result, err
		}
		result.Status = StatusBackendError
		result.Detail = textutil.Truncate(err.Error(), 200)
		logging.WarnWithContext(c.logger, "chunk extraction failed", "chunk_extract_failed",
			logging.Int("chunk", index),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check ffmpeg can read the extracted audio"),
			logging.String(logging.FieldImpact, "chunk skipped"),
		)
		return result, nil
	}

	speech, err := c.gate.HasSpeech(dest)
	if err != nil {
		c.logger.Debug("energy gate unavailable; sending chunk anyway", logging.Int("chunk", index), logging.Error(err))
		speech = true
	}
	if !speech {
		result.Status = StatusSilent
		c.logger.Debug("chunk below energy floor", logging.Int("chunk", index))
		return result, nil
	}

	text, err := c.recognizer.RecognizeFile(ctx, dest, lang.Region)
	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Status = StatusBackendError
		result.Detail = textutil.Truncate(err.Error(), 200)
		logging.WarnWithContext(c.logger, "chunk recognition failed", "chunk_recognition_failed",
			logging.Int("chunk", index),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the speech API key and quota"),
			logging.String(logging.FieldImpact, "chunk text missing from transcript"),
		)
		return result, nil
	}
	result.Text = strings.TrimSpace(text)
	if result.Text == "" {
		result.Status = StatusSilent
		c.logger.Debug("recognizer returned no speech", logging.Int("chunk", index))
		return result, nil
	}
	result.Status = StatusOK
	return result, nil
}
