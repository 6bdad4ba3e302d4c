package acquire

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"reelcheck/internal/deps"
	"reelcheck/internal/shortcode"
	"reelcheck/internal/textutil"
	"reelcheck/internal/workarea"
)

// YtDLPConfig configures the command-line fetcher.
type YtDLPConfig struct {
	Binary      string
	UserAgent   string
	CookiesFile string
	MinSleep    time.Duration
	MaxSleep    time.Duration
	Timeout     time.Duration
}

// YtDLPFetcher downloads reels with the yt-dlp executable.
type YtDLPFetcher struct {
	cfg  YtDLPConfig
	opts options
}

// NewYtDLPFetcher builds the command-line strategy.
func NewYtDLPFetcher(cfg YtDLPConfig, opts ...Option) *YtDLPFetcher {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = "yt-dlp"
	}
	return &YtDLPFetcher{cfg: cfg, opts: buildOptions(opts)}
}

func (f *YtDLPFetcher) Name() string { return "ytdlp" }

func (f *YtDLPFetcher) Timeout() time.Duration { return f.cfg.Timeout }

// Fetch runs yt-dlp with randomized request spacing and a browser user agent.
func (f *YtDLPFetcher) Fetch(ctx context.Context, ref shortcode.ContentRef, area *workarea.Area) (Result, error) {
	args := f.buildArgs(ref, area)
	output, err := f.opts.runner(ctx, f.cfg.Binary, args...)
	if err != nil {
		var missing *deps.MissingBinaryError
		if converted := deps.AsMissing(f.cfg.Binary, err); errors.As(converted, &missing) {
			return Result{}, converted
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		text := string(output)
		return failure(classifyToolOutput(text), "yt-dlp %v: %s", err, textutil.Diagnostic(text, diagnosticLimit)), nil
	}

	path, ok := findDownloadedVideo(area.Dir())
	if !ok {
		return failure(ReasonNoOutput, "yt-dlp exited successfully but produced no video file"), nil
	}
	return success(path), nil
}

func (f *YtDLPFetcher) buildArgs(ref shortcode.ContentRef, area *workarea.Area) []string {
	sleepRequests := uniformDuration(f.cfg.MinSleep, f.cfg.MaxSleep, f.opts.rand)
	args := []string{
		"--no-warnings",
		"--no-playlist",
		"--no-progress",
		"--sleep-requests", formatSeconds(sleepRequests),
		"--min-sleep-interval", formatSeconds(f.cfg.MinSleep),
		"--max-sleep-interval", formatSeconds(f.cfg.MaxSleep),
		"-f", "b[ext=mp4]/b",
		"-o", area.Path("video.%(ext)s"),
	}
	if ua := strings.TrimSpace(f.cfg.UserAgent); ua != "" {
		args = append(args, "--user-agent", ua)
	}
	if cookies := strings.TrimSpace(f.cfg.CookiesFile); cookies != "" {
		args = append(args, "--cookies", cookies)
	}
	return append(args, ref.URL)
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 1, 64)
}

func findDownloadedVideo(dir string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(dir, "video.*"))
	if err != nil {
		return "", false
	}
	for _, match := range matches {
		if strings.HasSuffix(match, ".part") || strings.HasSuffix(match, ".ytdl") {
			continue
		}
		if info, err := os.Stat(match); err == nil && info.Mode().IsRegular() && info.Size() > 0 {
			return match, true
		}
	}
	return "", false
}

func classifyToolOutput(output string) Reason {
	lower := strings.ToLower(output)
	switch {
	case containsAny(lower, "429", "too many requests", "rate-limit", "rate limit"):
		return ReasonRateLimited
	case containsAny(lower, "login required", "log in", "private", "401", "403", "cookies"):
		return ReasonAuthRequired
	case containsAny(lower, "404", "not available", "unavailable", "does not exist"):
		return ReasonNotFound
	default:
		return ReasonToolFailed
	}
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

