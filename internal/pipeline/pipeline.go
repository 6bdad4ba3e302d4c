package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"reelcheck/internal/agent"
	"reelcheck/internal/config"
	"reelcheck/internal/factcheck"
	"reelcheck/internal/language"
	"reelcheck/internal/logging"
	"reelcheck/internal/notifications"
	"reelcheck/internal/preflight"
	"reelcheck/internal/services"
	"reelcheck/internal/shortcode"
	"reelcheck/internal/store"
	"reelcheck/internal/transcribe"
)

const lockRetryDelay = 250 * time.Millisecond

// Transcriber turns a reel URL into a transcript.
type Transcriber interface {
	Run(ctx context.Context, rawURL string, lang language.Spec) (agent.Result, error)
}

// Analyzer fact-checks transcripts and answers follow-up questions.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string, lang language.Spec) (factcheck.Analysis, error)
	Chat(ctx context.Context, req factcheck.ChatRequest) (string, error)
}

// Request describes one fact-check.
type Request struct {
	URL string
	// Language is a user-facing choice such as "hindi" or "en-GB". Empty
	// selects the configured default.
	Language string
	// Force re-runs the pipeline even when a stored record exists.
	Force bool
}

// Outcome is the result of Check.
type Outcome struct {
	Record   store.Record
	Analysis factcheck.Analysis
	// Transcript is populated only when the pipeline ran.
	Transcript transcribe.Transcript
	Cached     bool
	Elapsed    time.Duration
}

// Pipeline wires the agent, checker, store, and notifier together.
type Pipeline struct {
	cfg      *config.Config
	store    *store.Store
	agent    Transcriber
	checker  Analyzer
	notifier notifications.Service
	logger   *slog.Logger
}

// New assembles a Pipeline from its collaborators. A nil notifier disables
// notifications.
func New(cfg *config.Config, st *store.Store, transcriber Transcriber, checker Analyzer, notifier notifications.Service, logger *slog.Logger) *Pipeline {
	if notifier == nil {
		notifier = notifications.NewService(&config.Config{})
	}
	return &Pipeline{
		cfg:      cfg,
		store:    st,
		agent:    transcriber,
		checker:  checker,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
	}
}

// DefaultLanguage resolves the configured transcription language.
func (p *Pipeline) DefaultLanguage() language.Spec {
	return language.Resolve(p.cfg.Transcription.Language)
}

func (p *Pipeline) resolveLanguage(choice string) language.Spec {
	if strings.TrimSpace(choice) == "" {
		return p.DefaultLanguage()
	}
	return language.Resolve(choice)
}

// Check runs a fact-check for req.URL, or returns the stored record when one
// exists and req.Force is false.
func (p *Pipeline) Check(ctx context.Context, req Request) (Outcome, error) {
	started := time.Now()
	ref, err := shortcode.Extract(req.URL)
	if err != nil {
		return Outcome{}, err
	}
	lang := p.resolveLanguage(req.Language)

	ctx = services.WithRequestID(ctx, uuid.NewString())
	ctx = services.WithShortcode(ctx, ref.ID)
	logger := logging.WithContext(ctx, p.logger)

	if !req.Force {
		if outcome, ok, err := p.cached(ctx, ref.ID); err != nil || ok {
			if ok {
				logger.Info("returning stored fact-check", logging.String(logging.FieldEventType, "cache_hit"))
			}
			return outcome, err
		}
	}

	unlock, err := p.lock(ctx, ref.ID)
	if err != nil {
		return Outcome{}, err
	}
	defer unlock()

	// Another process may have finished this reel while we waited.
	if !req.Force {
		if outcome, ok, err := p.cached(ctx, ref.ID); err != nil || ok {
			return outcome, err
		}
	}

	if check := preflight.CheckFreeSpace("Work directory space", p.cfg.Paths.WorkDir, p.cfg.Storage.MinFreeMB); !check.Passed {
		err := services.Wrap(services.ErrConfiguration, "pipeline", "preflight", check.Detail, nil)
		p.notifyError(ctx, logger, err, ref.ID)
		return Outcome{}, err
	}

	logger.Info("fact-check started",
		logging.String("url", ref.URL),
		logging.String("language", lang.String()),
		logging.Bool("force", req.Force),
		logging.String(logging.FieldEventType, "factcheck_start"),
	)

	result, err := p.agent.Run(ctx, ref.URL, lang)
	if err != nil {
		p.notifyError(ctx, logger, err, ref.ID)
		return Outcome{}, err
	}

	analysis, err := p.checker.Analyze(services.WithStage(ctx, "analyze"), result.Transcript.Text, lang)
	if err != nil {
		return Outcome{}, err
	}
	analysisJSON, err := analysis.JSON()
	if err != nil {
		return Outcome{}, fmt.Errorf("encode analysis: %w", err)
	}

	record := store.Record{
		ID:           ref.ID,
		URL:          ref.URL,
		Transcript:   result.Transcript.Text,
		Language:     lang.Code,
		Backend:      result.Transcript.Backend,
		Strategy:     result.Strategy,
		AnalysisJSON: analysisJSON,
		Rating:       analysis.Rating,
	}
	if _, err := p.store.Put(ctx, record); err != nil {
		p.notifyError(ctx, logger, err, ref.ID)
		return Outcome{}, fmt.Errorf("save fact-check: %w", err)
	}
	saved, err := p.store.Get(ctx, ref.ID)
	if err == nil && saved != nil {
		record = *saved
	}

	if err := p.notifier.NotifyFactCheckCompleted(ctx, ref.ID, analysis.Rating, analysis.Fallback); err != nil {
		logging.WarnWithContext(logger, "completion notification failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "fact-check saved but not announced"),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
		)
	}

	elapsed := time.Since(started)
	logger.Info("fact-check completed",
		logging.Float64("rating", analysis.Rating),
		logging.Bool("fallback", analysis.Fallback),
		logging.Duration("elapsed", elapsed.Round(time.Millisecond)),
		logging.String(logging.FieldEventType, "factcheck_complete"),
	)
	return Outcome{
		Record:     record,
		Analysis:   analysis,
		Transcript: result.Transcript,
		Elapsed:    elapsed,
	}, nil
}

// Ask answers a follow-up question about a stored fact-check and records
// the exchange.
func (p *Pipeline) Ask(ctx context.Context, id, question string) (string, error) {
	id = strings.TrimSpace(id)
	if !shortcode.Valid(id) {
		return "", services.Wrap(services.ErrValidation, "pipeline", "ask", fmt.Sprintf("invalid shortcode %q", id), nil)
	}
	ctx = services.WithRequestID(ctx, uuid.NewString())
	ctx = services.WithShortcode(ctx, id)

	record, err := p.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if record == nil {
		return "", services.Wrap(services.ErrNotFound, "pipeline", "ask", "no fact-check stored for "+id, nil)
	}
	analysis, err := factcheck.ParseAnalysis(record.AnalysisJSON)
	if err != nil {
		return "", fmt.Errorf("decode stored analysis for %s: %w", id, err)
	}
	history, err := p.store.ChatHistory(ctx, id)
	if err != nil {
		return "", err
	}
	turns := make([]factcheck.Turn, 0, len(history))
	for _, h := range history {
		turns = append(turns, factcheck.Turn{User: h.UserMessage, Assistant: h.AssistantResponse})
	}

	answer, err := p.checker.Chat(services.WithStage(ctx, "chat"), factcheck.ChatRequest{
		Transcript: record.Transcript,
		Analysis:   analysis,
		Question:   question,
		History:    turns,
		Language:   p.resolveLanguage(record.Language),
	})
	if err != nil {
		return "", err
	}
	if err := p.store.AppendChat(ctx, id, strings.TrimSpace(question), answer); err != nil {
		return "", fmt.Errorf("save chat: %w", err)
	}
	return answer, nil
}

func (p *Pipeline) cached(ctx context.Context, id string) (Outcome, bool, error) {
	record, err := p.store.Get(ctx, id)
	if err != nil || record == nil {
		return Outcome{}, false, err
	}
	analysis, err := factcheck.ParseAnalysis(record.AnalysisJSON)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, p.logger), "stored analysis unreadable; re-running", "cache_corrupt",
			logging.Error(err),
			logging.String(logging.FieldImpact, "reel will be checked again"),
		)
		return Outcome{}, false, nil
	}
	return Outcome{Record: *record, Analysis: analysis, Cached: true}, true, nil
}

// lock takes the per-shortcode file lock, waiting until ctx is done.
func (p *Pipeline) lock(ctx context.Context, id string) (func(), error) {
	dir := p.cfg.LockDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	fl := flock.New(filepath.Join(dir, id+".lock"))
	ok, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("acquire lock for %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire lock for %s: lock held", id)
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			logging.WarnWithContext(p.logger, "failed to release request lock", "lock_release_failed",
				logging.String("path", fl.Path()),
				logging.Error(err),
			)
		}
	}, nil
}

func (p *Pipeline) notifyError(ctx context.Context, logger *slog.Logger, cause error, id string) {
	if errors.Is(cause, context.Canceled) {
		return
	}
	if err := p.notifier.NotifyError(ctx, cause, id); err != nil {
		logging.WarnWithContext(logger, "error notification failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "failure not announced"),
		)
	}
}
