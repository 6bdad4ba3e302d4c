package acquire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"reelcheck/internal/logging"
	"reelcheck/internal/services"
	"reelcheck/internal/shortcode"
	"reelcheck/internal/workarea"
)

// ErrRateLimited is matched by an ExhaustedError when at least one strategy
// was throttled by the remote service.
var ErrRateLimited = errors.New("rate limited")

// Attempt records one failed strategy call.
type Attempt struct {
	Strategy   string
	Reason     Reason
	Diagnostic string
}

// ExhaustedError reports that every configured strategy failed.
type ExhaustedError struct {
	ContentID string
	Attempts  []Attempt
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %s: %s", a.Strategy, a.Reason, a.Diagnostic))
	}
	return fmt.Sprintf("all %d acquisition strategies failed for %s: %s", len(e.Attempts), e.ContentID, strings.Join(parts, "; "))
}

// Has reports whether any attempt failed for reason.
func (e *ExhaustedError) Has(reason Reason) bool {
	for _, a := range e.Attempts {
		if a.Reason == reason {
			return true
		}
	}
	return false
}

// RateLimited reports whether any strategy was throttled.
func (e *ExhaustedError) RateLimited() bool {
	return e.Has(ReasonRateLimited)
}

func (e *ExhaustedError) Unwrap() []error {
	errs := []error{services.ErrTransient}
	if e.RateLimited() {
		errs = append(errs, ErrRateLimited)
	}
	return errs
}

// Orchestrator runs strategies in order until one succeeds.
type Orchestrator struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewOrchestrator returns an orchestrator over strategies in the given order.
func NewOrchestrator(strategies []Strategy, logger *slog.Logger) (*Orchestrator, error) {
	if len(strategies) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "acquire", "init", "no acquisition strategies configured", nil)
	}
	return &Orchestrator{
		strategies: strategies,
		logger:     logging.NewComponentLogger(logger, "acquire"),
	}, nil
}

// Strategies returns the configured strategy names in order.
func (o *Orchestrator) Strategies() []string {
	names := make([]string, 0, len(o.strategies))
	for _, s := range o.strategies {
		names = append(names, s.Name())
	}
	return names
}

// Acquire downloads the reel into area. It returns the first successful
// result, a fatal error from a strategy, or an *ExhaustedError.
func (o *Orchestrator) Acquire(ctx context.Context, ref shortcode.ContentRef, area *workarea.Area) (Result, error) {
	logger := logging.WithContext(ctx, o.logger)
	attempts := make([]Attempt, 0, len(o.strategies))

	for _, strategy := range o.strategies {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		name := strategy.Name()
		logger.Debug("trying acquisition strategy", logging.String(logging.FieldStrategy, name))

		res, err := o.call(ctx, strategy, ref, area)
		if err != nil {
			return Result{}, fmt.Errorf("acquire via %s: %w", name, err)
		}
		res.Strategy = name
		if res.OK {
			logger.Info("reel acquired",
				logging.String(logging.FieldStrategy, name),
				logging.String("video_path", res.VideoPath),
				logging.Int("failed_attempts", len(attempts)),
			)
			return res, nil
		}

		attempts = append(attempts, Attempt{Strategy: name, Reason: res.Reason, Diagnostic: res.Diagnostic})
		logging.WarnWithContext(logger, "acquisition strategy failed", "acquire_strategy_failed",
			logging.String(logging.FieldStrategy, name),
			logging.String("reason", string(res.Reason)),
			logging.String("diagnostic", res.Diagnostic),
			logging.String(logging.FieldImpact, "falling back to the next strategy"),
			logging.String(logging.FieldErrorHint, hintFor(res.Reason)),
		)
	}

	return Result{}, &ExhaustedError{ContentID: ref.ID, Attempts: attempts}
}

func (o *Orchestrator) call(ctx context.Context, strategy Strategy, ref shortcode.ContentRef, area *workarea.Area) (Result, error) {
	callCtx, cancel := ctx, context.CancelFunc(func() {})
	if timeout := strategy.Timeout(); timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	res, err := strategy.Fetch(callCtx, ref, area)
	if err == nil && res.OK {
		if info, statErr := os.Stat(res.VideoPath); statErr != nil || info.Size() == 0 {
			return failure(ReasonNoOutput, "strategy reported success but %q is missing or empty", res.VideoPath), nil
		}
		return res, nil
	}
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return failure(ReasonTimeout, "no result within %s", strategy.Timeout()), nil
	}
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func hintFor(reason Reason) string {
	switch reason {
	case ReasonRateLimited:
		return "wait a few minutes before retrying"
	case ReasonAuthRequired:
		return "the reel may be private; configure a session or cookies"
	case ReasonNotFound:
		return "check that the reel still exists"
	case ReasonTimeout:
		return "raise the strategy timeout or check connectivity"
	default:
		return "check logs for details"
	}
}
