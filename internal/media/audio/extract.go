package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"reelcheck/internal/deps"
	"reelcheck/internal/services"
	"reelcheck/internal/textutil"
)

const (
	// SampleRate is the output sample rate in Hz.
	SampleRate = 16000
	// DiagnosticLimit bounds the ffmpeg output kept in an ExtractionError.
	DiagnosticLimit = 500
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExtractionError reports a failed ffmpeg run.
type ExtractionError struct {
	Source     string
	Err        error
	Diagnostic string
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("audio extraction failed for %s: %v", e.Source, e.Err)
	if e.Diagnostic != "" {
		msg += ": " + e.Diagnostic
	}
	return msg
}

func (e *ExtractionError) Unwrap() []error {
	return []error{services.ErrExternalTool, e.Err}
}

// Extractor wraps the ffmpeg executable.
type Extractor struct {
	binary string
	run    Runner
}

// NewExtractor returns an Extractor using binary (default "ffmpeg").
func NewExtractor(binary string) *Extractor {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Extractor{binary: binary, run: combinedOutput}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Extractor) WithCommandRunner(runner Runner) {
	if runner != nil {
		e.run = runner
	}
}

// Binary returns the configured ffmpeg executable.
func (e *Extractor) Binary() string { return e.binary }

// ExtractAudio writes the first audio track of videoPath to audioPath,
// discarding video and overwriting any existing file.
func (e *Extractor) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	return e.exec(ctx, videoPath, audioPath, buildArgs(videoPath, audioPath, -1, -1))
}

// ExtractSegment writes the window [start, start+duration) of source to dest.
func (e *Extractor) ExtractSegment(ctx context.Context, source string, start, duration time.Duration, dest string) error {
	if duration <= 0 {
		return fmt.Errorf("extract segment: invalid duration %s", duration)
	}
	if start < 0 {
		return fmt.Errorf("extract segment: invalid start %s", start)
	}
	return e.exec(ctx, source, dest, buildArgs(source, dest, start, duration))
}

func (e *Extractor) exec(ctx context.Context, source, dest string, args []string) error {
	output, err := e.run(ctx, e.binary, args...)
	if err != nil {
		var missing *deps.MissingBinaryError
		if converted := deps.AsMissing(e.binary, err); errors.As(converted, &missing) {
			return converted
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &ExtractionError{
			Source:     source,
			Err:        err,
			Diagnostic: textutil.Truncate(strings.TrimSpace(string(output)), DiagnosticLimit),
		}
	}
	info, statErr := os.Stat(dest)
	if statErr != nil || info.Size() == 0 {
		return &ExtractionError{Source: source, Err: errors.New("no audio written"), Diagnostic: dest}
	}
	return nil
}

func buildArgs(source, dest string, start, duration time.Duration) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	if duration > 0 {
		args = append(args, "-ss", seconds(start), "-t", seconds(duration))
	}
	return append(args,
		"-i", source,
		"-map", "0:a:0",
		"-vn", "-sn", "-dn",
		"-ac", "1",
		"-ar", strconv.Itoa(SampleRate),
		"-c:a", "pcm_s16le",
		dest,
	)
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

func combinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput() //nolint:gosec
}
