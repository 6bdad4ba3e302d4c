package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reelcheck/internal/acquire"
	"reelcheck/internal/deps"
	"reelcheck/internal/language"
	"reelcheck/internal/media/audio"
	"reelcheck/internal/services"
	"reelcheck/internal/shortcode"
	"reelcheck/internal/transcribe"
	"reelcheck/internal/workarea"
)

const reelURL = "https://www.instagram.com/reel/XYZ/"

type stubStrategy struct {
	name   string
	result acquire.Result
	err    error
	calls  int
}

func (s *stubStrategy) Name() string           { return s.name }
func (s *stubStrategy) Timeout() time.Duration { return time.Second }

func (s *stubStrategy) Fetch(_ context.Context, _ shortcode.ContentRef, area *workarea.Area) (acquire.Result, error) {
	s.calls++
	if s.err != nil || !s.result.OK {
		return s.result, s.err
	}
	path := area.Path("video.mp4")
	if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
		return acquire.Result{}, err
	}
	return acquire.Result{OK: true, VideoPath: path}, nil
}

type stubExtractor struct {
	err   error
	calls int
}

func (e *stubExtractor) ExtractAudio(_ context.Context, videoPath, audioPath string) error {
	e.calls++
	if e.err != nil {
		return e.err
	}
	return os.WriteFile(audioPath, []byte("RIFF"), 0o644)
}

type stubBackend struct {
	transcript transcribe.Transcript
	err        error
	calls      int
	chunkDir   string
}

func (b *stubBackend) Name() string { return "stub" }

func (b *stubBackend) Transcribe(_ context.Context, audioPath string, lang language.Spec) (transcribe.Transcript, error) {
	b.calls++
	b.chunkDir = filepath.Dir(audioPath)
	// leave a chunk file behind to prove the area is removed wholesale
	_ = os.WriteFile(filepath.Join(b.chunkDir, "chunk_000.wav"), []byte("RIFF"), 0o644)
	t := b.transcript
	t.Language = lang
	return t, b.err
}

func okStrategy(name string) *stubStrategy {
	return &stubStrategy{name: name, result: acquire.Result{OK: true}}
}

func failingStrategy(name string, reason acquire.Reason, diag string) *stubStrategy {
	return &stubStrategy{name: name, result: acquire.Result{Reason: reason, Diagnostic: diag}}
}

func newOrchestrator(t *testing.T, strategies ...acquire.Strategy) *acquire.Orchestrator {
	t.Helper()
	o, err := acquire.NewOrchestrator(strategies, nil)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	return o
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		t.Fatalf("read %s: %v", dir, err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected %s to be empty, found %v", dir, names)
	}
}

func TestRunSuccess(t *testing.T) {
	workDir := t.TempDir()
	backend := &stubBackend{transcript: transcribe.Transcript{Text: "hello world", Backend: "stub"}}
	a := New(workDir, newOrchestrator(t, okStrategy("ytdlp")), &stubExtractor{}, backend, nil)

	result, err := a.Run(context.Background(), reelURL, language.Resolve("hindi"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.ContentID != "XYZ" || result.Transcript.Text != "hello world" || result.Strategy != "ytdlp" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Transcript.Language.Code != "hi" {
		t.Fatalf("expected hindi, got %+v", result.Transcript.Language)
	}
	if !strings.HasPrefix(filepath.Base(backend.chunkDir), workarea.Prefix+"XYZ-") {
		t.Fatalf("unexpected work area %s", backend.chunkDir)
	}
	assertEmptyDir(t, workDir)
}

func TestRunCleansUpOnEveryOutcome(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		strategy  *stubStrategy
		extractor *stubExtractor
		backend   *stubBackend
		check     func(t *testing.T, err error)
	}{
		{
			name:      "invalid url",
			url:       "https://www.instagram.com/stories/someone/",
			strategy:  okStrategy("ytdlp"),
			extractor: &stubExtractor{},
			backend:   &stubBackend{},
			check: func(t *testing.T, err error) {
				var invalid *shortcode.InvalidURLError
				if !errors.As(err, &invalid) || !errors.Is(err, services.ErrValidation) {
					t.Fatalf("expected invalid url error, got %v", err)
				}
			},
		},
		{
			name:      "acquisition exhausted",
			url:       reelURL,
			strategy:  failingStrategy("ytdlp", acquire.ReasonRateLimited, "HTTP Error 429"),
			extractor: &stubExtractor{},
			backend:   &stubBackend{},
			check: func(t *testing.T, err error) {
				var exhausted *acquire.ExhaustedError
				if !errors.As(err, &exhausted) || !errors.Is(err, acquire.ErrRateLimited) {
					t.Fatalf("expected rate limited exhaustion, got %v", err)
				}
			},
		},
		{
			name:      "missing binary",
			url:       reelURL,
			strategy:  &stubStrategy{name: "ytdlp", err: &deps.MissingBinaryError{Command: "yt-dlp"}},
			extractor: &stubExtractor{},
			backend:   &stubBackend{},
			check: func(t *testing.T, err error) {
				var missing *deps.MissingBinaryError
				if !errors.As(err, &missing) {
					t.Fatalf("expected missing binary, got %v", err)
				}
			},
		},
		{
			name:      "extraction failure",
			url:       reelURL,
			strategy:  okStrategy("ytdlp"),
			extractor: &stubExtractor{err: &audio.ExtractionError{Source: "video.mp4", Err: errors.New("exit status 1")}},
			backend:   &stubBackend{},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, services.ErrExternalTool) {
					t.Fatalf("expected external tool error, got %v", err)
				}
			},
		},
		{
			name:      "backend failure",
			url:       reelURL,
			strategy:  okStrategy("ytdlp"),
			extractor: &stubExtractor{},
			backend:   &stubBackend{err: errors.New("model crashed")},
			check: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "model crashed") {
					t.Fatalf("expected backend error, got %v", err)
				}
			},
		},
		{
			name:      "no speech",
			url:       reelURL,
			strategy:  okStrategy("ytdlp"),
			extractor: &stubExtractor{},
			backend: &stubBackend{transcript: transcribe.Transcript{Chunks: []transcribe.ChunkResult{
				{Index: 0, Status: transcribe.StatusSilent},
				{Index: 1, Status: transcribe.StatusBackendError},
			}}},
			check: func(t *testing.T, err error) {
				var noSpeech *NoSpeechDetectedError
				if !errors.As(err, &noSpeech) || !errors.Is(err, services.ErrNotFound) {
					t.Fatalf("expected no speech error, got %v", err)
				}
				if noSpeech.Silent != 1 || noSpeech.Failed != 1 || noSpeech.ContentID != "XYZ" {
					t.Fatalf("unexpected detail %+v", noSpeech)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workDir := filepath.Join(t.TempDir(), "work")
			a := New(workDir, newOrchestrator(t, tt.strategy), tt.extractor, tt.backend, nil)
			_, err := a.Run(context.Background(), tt.url, language.Default)
			tt.check(t, err)
			assertEmptyDir(t, workDir)
		})
	}
}

func TestInvalidURLCreatesNothing(t *testing.T) {
	workDir := filepath.Join(t.TempDir(), "work")
	strategy := okStrategy("ytdlp")
	a := New(workDir, newOrchestrator(t, strategy), &stubExtractor{}, &stubBackend{}, nil)
	if _, err := a.Run(context.Background(), "not a url", language.Default); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Fatalf("work dir should not be created for invalid input: %v", err)
	}
	if strategy.calls != 0 {
		t.Fatal("strategy must not run for invalid input")
	}
}

func TestRunHasNoCache(t *testing.T) {
	strategy := okStrategy("ytdlp")
	backend := &stubBackend{transcript: transcribe.Transcript{Text: "again"}}
	a := New(t.TempDir(), newOrchestrator(t, strategy), &stubExtractor{}, backend, nil)
	for range 2 {
		if _, err := a.Run(context.Background(), reelURL, language.Default); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}
	if strategy.calls != 2 || backend.calls != 2 {
		t.Fatalf("expected the pipeline to run twice, got %d/%d", strategy.calls, backend.calls)
	}
}

type listRecognizer struct {
	replies []string
	calls   int
}

func (r *listRecognizer) RecognizeFile(context.Context, string, string) (string, error) {
	reply := r.replies[r.calls]
	r.calls++
	return reply, nil
}

type segmentWriter struct{}

func (segmentWriter) ExtractSegment(_ context.Context, _ string, _, _ time.Duration, dest string) error {
	return os.WriteFile(dest, []byte("RIFF"), 0o644)
}

type openGate struct{}

func (openGate) HasSpeech(string) (bool, error) { return true, nil }

func TestRunEndToEndWithFallbackAndChunks(t *testing.T) {
	workDir := t.TempDir()
	first := failingStrategy("ytdlp", acquire.ReasonRateLimited, "ERROR: HTTP Error 429: Too Many Requests")
	second := okStrategy("native")
	backend := transcribe.NewChunkedRecognizer(
		func(context.Context, string) (time.Duration, error) { return 30 * time.Second, nil },
		segmentWriter{},
		&listRecognizer{replies: []string{"नमस्ते", "", "ठीक है"}},
		transcribe.WithGate(openGate{}),
	)
	a := New(workDir, newOrchestrator(t, first, second), &stubExtractor{}, backend, nil)

	result, err := a.Run(context.Background(), reelURL, language.Resolve("hindi"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Transcript.Text != "नमस्ते ठीक है" {
		t.Fatalf("unexpected transcript %q", result.Transcript.Text)
	}
	if result.Strategy != "native" || first.calls != 1 || second.calls != 1 {
		t.Fatalf("unexpected strategy use %+v", result)
	}
	assertEmptyDir(t, workDir)
}

func TestRemediation(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&shortcode.InvalidURLError{URL: "x"}, "reel or post link"},
		{&acquire.ExhaustedError{Attempts: []acquire.Attempt{{Reason: acquire.ReasonRateLimited}}}, "Wait a few minutes"},
		{&acquire.ExhaustedError{Attempts: []acquire.Attempt{{Reason: acquire.ReasonAuthRequired}}}, "private"},
		{&acquire.ExhaustedError{Attempts: []acquire.Attempt{{Reason: acquire.ReasonNotFound}}}, "not found"},
		{&deps.MissingBinaryError{Command: "ffmpeg"}, "Install ffmpeg"},
		{&audio.ExtractionError{Err: errors.New("x")}, "audio track"},
		{&NoSpeechDetectedError{ContentID: "XYZ"}, "language setting"},
		{context.DeadlineExceeded, "timed out"},
		{errors.New("other"), "logs"},
	}
	for _, tt := range tests {
		if got := Remediation(tt.err); !strings.Contains(got, tt.want) {
			t.Errorf("Remediation(%v) = %q, want substring %q", tt.err, got, tt.want)
		}
	}
	if Remediation(nil) != "" {
		t.Fatal("expected empty remediation for nil")
	}
}
