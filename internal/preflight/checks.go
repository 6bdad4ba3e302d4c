package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"reelcheck/internal/config"
	"reelcheck/internal/deps"
	"reelcheck/internal/services/llm"
)

// CheckLLM verifies that the LLM API is reachable and the first key is valid.
// It uses a 30-second timeout and a single attempt (no retries).
func CheckLLM(ctx context.Context, name string, cfg *config.Config) Result {
	client := llm.FromConfig(cfg, llm.WithRetryMaxAttempts(1))
	if !client.Configured() {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	keys := len(cfg.LLMKeys())
	if keys > 1 {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("API reachable (%d keys configured)", keys)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckSpeechKey reports whether the cloud recognizer has credentials.
func CheckSpeechKey(cfg *config.Config) Result {
	const name = "Speech API"
	if strings.TrimSpace(cfg.Speech.APIKey) == "" {
		return Result{Name: name, Detail: "missing api key (speech.api_key or GOOGLE_SPEECH_API_KEY)"}
	}
	return Result{Name: name, Passed: true, Detail: "api key configured"}
}

// CheckReelAPIKey reports whether the third-party metadata strategy has credentials.
func CheckReelAPIKey(cfg *config.Config) Result {
	const name = "Reel API"
	if strings.TrimSpace(cfg.ReelAPI.APIKey) == "" {
		return Result{Name: name, Detail: "missing api key (reel_api.api_key)"}
	}
	return Result{Name: name, Passed: true, Detail: "api key configured"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies that the filesystem holding path has at least
// minMB megabytes available. A non-positive minMB disables the check.
func CheckFreeSpace(name, path string, minMB int) Result {
	if minMB <= 0 {
		return Result{Name: name, Passed: true, Detail: "check disabled"}
	}
	available, err := FreeMB(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	if available < uint64(minMB) {
		return Result{Name: name, Detail: fmt.Sprintf("%s has %d MB free, need %d MB", path, available, minMB)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d MB free", available)}
}

// FreeMB returns the megabytes available to unprivileged users on the
// filesystem holding path.
func FreeMB(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize) / (1024 * 1024), nil
}

// CheckSystemDeps evaluates the external binaries required by the config.
// Both the pipeline and the CLI status command use this to avoid
// duplicating the requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	var requirements []deps.Requirement
	if cfg.StrategyEnabled(config.StrategyYtDLP) {
		requirements = append(requirements, deps.Requirement{
			Name:        "yt-dlp",
			Command:     cfg.Acquisition.YtDLPBinary,
			Description: "Required for the ytdlp acquisition strategy",
		})
	}
	requirements = append(requirements,
		deps.Requirement{
			Name:        "FFmpeg",
			Command:     cfg.Media.FFmpegBinary,
			Description: "Required for audio extraction",
		},
		deps.Requirement{
			Name:        "FFprobe",
			Command:     cfg.Media.FFprobeBinary,
			Description: "Required for chunk planning",
			Optional:    cfg.Transcription.Backend != config.BackendCloud,
		},
	)
	if cfg.Transcription.Backend == config.BackendWhisperX {
		requirements = append(requirements, deps.Requirement{
			Name:        "uvx",
			Command:     "uvx",
			Description: "Required for WhisperX transcription",
		})
	}
	return deps.CheckBinaries(requirements)
}

// MissingRequired returns the first required dependency that is unavailable
// as a *deps.MissingBinaryError, or nil when all are present.
func MissingRequired(statuses []deps.Status) error {
	for _, status := range statuses {
		if status.Optional || status.Available {
			continue
		}
		return &deps.MissingBinaryError{Command: status.Command, Err: errors.New(status.Detail)}
	}
	return nil
}

// summarizeLLMError produces a human-readable summary for LLM health check failures.
func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (LLM API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (LLM API unreachable)"
	}
	return err.Error()
}
