package acquire

import (
	"context"
	"fmt"
	"time"

	"reelcheck/internal/shortcode"
	"reelcheck/internal/workarea"
)

// Reason classifies a clean strategy failure.
type Reason string

const (
	ReasonRateLimited  Reason = "rate_limited"
	ReasonAuthRequired Reason = "auth_required"
	ReasonNotFound     Reason = "not_found"
	ReasonTimeout      Reason = "timeout"
	ReasonNetwork      Reason = "network"
	ReasonMalformed    Reason = "malformed_response"
	ReasonToolFailed   Reason = "tool_failed"
	ReasonNoOutput     Reason = "no_output"
)

// Result is the outcome of a single strategy call.
type Result struct {
	OK         bool
	Strategy   string
	VideoPath  string
	Reason     Reason
	Diagnostic string
}

// Strategy is one way of obtaining the video for a reel.
type Strategy interface {
	Name() string
	Timeout() time.Duration
	Fetch(ctx context.Context, ref shortcode.ContentRef, area *workarea.Area) (Result, error)
}

func success(path string) Result {
	return Result{OK: true, VideoPath: path}
}

func failure(reason Reason, format string, args ...any) Result {
	return Result{Reason: reason, Diagnostic: fmt.Sprintf(format, args...)}
}
