package agent

import (
	"context"
	"errors"

	"reelcheck/internal/acquire"
	"reelcheck/internal/deps"
	"reelcheck/internal/media/audio"
	"reelcheck/internal/shortcode"
	"reelcheck/internal/services"
)

// Remediation returns a one-line suggestion for the user based on err.
func Remediation(err error) string {
	if err == nil {
		return ""
	}
	var (
		invalid    *shortcode.InvalidURLError
		exhausted  *acquire.ExhaustedError
		missing    *deps.MissingBinaryError
		extraction *audio.ExtractionError
		noSpeech   *NoSpeechDetectedError
	)
	switch {
	case errors.As(err, &invalid):
		return "Use a reel or post link such as https://www.instagram.com/reel/<id>/."
	case errors.As(err, &exhausted):
		switch {
		case exhausted.RateLimited():
			return "Instagram is rate limiting requests. Wait a few minutes and try again."
		case exhausted.Has(acquire.ReasonAuthRequired):
			return "The account may be private or require login. Configure a session id or cookies file."
		case exhausted.Has(acquire.ReasonNotFound):
			return "The reel was not found. Check that it still exists and the link is correct."
		case exhausted.Has(acquire.ReasonTimeout), exhausted.Has(acquire.ReasonNetwork):
			return "The download timed out. Check your connection and try again."
		default:
			return "Every download method failed. Run with --log-level debug for details."
		}
	case errors.As(err, &missing):
		return "Install " + missing.Command + " and make sure it is on PATH."
	case errors.As(err, &extraction):
		return "The video has no usable audio track or is corrupted."
	case errors.As(err, &noSpeech):
		return "No speech was found. Check that the reel has clear audio and that the language setting matches."
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, services.ErrTimeout):
		return "The operation timed out. Try again later."
	case errors.Is(err, context.Canceled):
		return "The operation was cancelled."
	case errors.Is(err, services.ErrConfiguration):
		return "Fix the configuration and run `reelcheck config validate`."
	default:
		return "Check the logs for details."
	}
}
