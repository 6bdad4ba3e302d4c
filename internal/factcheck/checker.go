package factcheck

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"reelcheck/internal/language"
	"reelcheck/internal/logging"
	"reelcheck/internal/services"
	"reelcheck/internal/services/llm"
)

const (
	analysisTemperature = 0.3
	analysisMaxTokens   = 2000
	chatTemperature     = 0.7
	chatMaxTokens       = 1000
	// HistoryTurns bounds how many earlier exchanges accompany a question.
	HistoryTurns = 5
)

// Completer is the subset of llm.Client used by the checker.
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Turn is one earlier question and answer.
type Turn struct {
	User      string
	Assistant string
}

// ChatRequest carries a follow-up question about a checked video.
type ChatRequest struct {
	Transcript string
	Analysis   Analysis
	Question   string
	History    []Turn
	Language   language.Spec
}

// Checker runs fact-check prompts against an LLM.
type Checker struct {
	llm    Completer
	logger *slog.Logger
}

// New returns a Checker. A client without API keys is a configuration error.
func New(client Completer, logger *slog.Logger) (*Checker, error) {
	if client == nil || !client.Configured() {
		return nil, services.Wrap(services.ErrConfiguration, "factcheck", "init", "LLM API key not configured (set GROQ_API_KEY)", nil)
	}
	return &Checker{llm: client, logger: logging.NewComponentLogger(logger, "factcheck")}, nil
}

// responseLanguage maps a language to the one the model answers in. Only
// Hindi and English are offered, as the prompts are tuned for them.
func responseLanguage(lang language.Spec) string {
	if lang.Code == "hi" || lang.IsZero() {
		return "Hindi"
	}
	return "English"
}

// Analyze fact-checks transcript. It only returns an error when ctx is done;
// model failures produce a fallback analysis.
func (c *Checker) Analyze(ctx context.Context, transcript string, lang language.Spec) (Analysis, error) {
	logger := logging.WithContext(ctx, c.logger)
	respLang := responseLanguage(lang)
	content, err := c.llm.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: analysisSystemPrompt(respLang)},
			{Role: "user", Content: analysisUserPrompt(transcript, respLang)},
		},
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
	})
	if err == nil {
		var analysis Analysis
		if err = llm.DecodeLLMJSON(content, &analysis); err == nil {
			analysis.normalize()
			logger.Info("fact-check complete",
				logging.String(logging.FieldEventType, "factcheck_complete"),
				logging.Float64("rating", analysis.Rating),
				logging.Int("claims", len(analysis.Claims)),
			)
			return analysis, nil
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Analysis{}, ctxErr
	}
	logging.WarnWithContext(logger, "fact-check fell back to placeholder analysis", "factcheck_fallback",
		logging.Error(err),
		logging.String(logging.FieldImpact, "rating is a placeholder"),
		logging.String(logging.FieldErrorHint, "check the LLM API key and model"),
	)
	return fallbackAnalysis(transcript, err), nil
}

// Chat answers a follow-up question using the transcript, the analysis, and
// the most recent HistoryTurns exchanges.
func (c *Checker) Chat(ctx context.Context, req ChatRequest) (string, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return "", services.Wrap(services.ErrValidation, "factcheck", "chat", "question is empty", nil)
	}
	respLang := responseLanguage(req.Language)
	analysisJSON, err := json.Marshal(req.Analysis)
	if err != nil {
		return "", err
	}

	history := req.History
	if len(history) > HistoryTurns {
		history = history[len(history)-HistoryTurns:]
	}
	messages := make([]llm.Message, 0, 2+2*len(history))
	messages = append(messages, llm.Message{Role: "system", Content: chatSystemPrompt(req.Transcript, string(analysisJSON), respLang)})
	for _, turn := range history {
		messages = append(messages,
			llm.Message{Role: "user", Content: turn.User},
			llm.Message{Role: "assistant", Content: turn.Assistant},
		)
	}
	messages = append(messages, llm.Message{Role: "user", Content: question})

	reply, err := c.llm.Complete(ctx, llm.Request{
		Messages:    messages,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		if errors.Is(err, services.ErrConfiguration) {
			return "", err
		}
		return "", services.Wrap(services.ErrTransient, "factcheck", "chat", "", err)
	}
	return reply, nil
}
