package acquire

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reelcheck/internal/deps"
)

func TestYtDLPFetcherSuccess(t *testing.T) {
	area := newArea(t)
	var gotName string
	var gotArgs []string
	runner := func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName, gotArgs = name, args
		return nil, os.WriteFile(filepath.Join(area.Dir(), "video.mp4"), []byte("data"), 0o644)
	}
	f := NewYtDLPFetcher(YtDLPConfig{
		Binary:      "yt-dlp",
		UserAgent:   "UA/1.0",
		CookiesFile: "/tmp/cookies.txt",
		MinSleep:    2 * time.Second,
		MaxSleep:    4 * time.Second,
		Timeout:     90 * time.Second,
	}, WithCommandRunner(runner), WithRand(func() float64 { return 0.5 }))

	res, err := f.Fetch(context.Background(), testRef, area)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !res.OK || filepath.Base(res.VideoPath) != "video.mp4" {
		t.Fatalf("unexpected result %+v", res)
	}
	if gotName != "yt-dlp" {
		t.Fatalf("unexpected binary %q", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	for _, fragment := range []string{
		"--sleep-requests 3.0",
		"--min-sleep-interval 2.0",
		"--max-sleep-interval 4.0",
		"--user-agent UA/1.0",
		"--cookies /tmp/cookies.txt",
		"-o " + area.Path("video.%(ext)s"),
	} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in args %q", fragment, joined)
		}
	}
	if gotArgs[len(gotArgs)-1] != testRef.URL {
		t.Fatalf("expected URL as final argument, got %q", gotArgs[len(gotArgs)-1])
	}
	if f.Timeout() != 90*time.Second || f.Name() != "ytdlp" {
		t.Fatalf("unexpected identity %s %s", f.Name(), f.Timeout())
	}
}

func TestYtDLPFetcherNonZeroExitIsCleanFailure(t *testing.T) {
	tests := []struct {
		output string
		want   Reason
	}{
		{"ERROR: [Instagram] ABC: HTTP Error 429: Too Many Requests", ReasonRateLimited},
		{"ERROR: [Instagram] ABC: login required to access this content", ReasonAuthRequired},
		{"ERROR: [Instagram] ABC: This content is not available", ReasonNotFound},
		{"ERROR: something odd", ReasonToolFailed},
	}
	for _, tt := range tests {
		runner := func(context.Context, string, ...string) ([]byte, error) {
			return []byte("[info] start\n" + tt.output + "\n"), errors.New("exit status 1")
		}
		f := NewYtDLPFetcher(YtDLPConfig{}, WithCommandRunner(runner))
		res, err := f.Fetch(context.Background(), testRef, newArea(t))
		if err != nil {
			t.Fatalf("expected clean failure, got error %v", err)
		}
		if res.OK || res.Reason != tt.want {
			t.Fatalf("output %q: expected reason %s, got %+v", tt.output, tt.want, res)
		}
		if !strings.Contains(res.Diagnostic, "exit status 1") {
			t.Fatalf("expected exit status in diagnostic, got %q", res.Diagnostic)
		}
	}
}

func TestYtDLPFetcherMissingOutput(t *testing.T) {
	runner := func(context.Context, string, ...string) ([]byte, error) { return nil, nil }
	f := NewYtDLPFetcher(YtDLPConfig{}, WithCommandRunner(runner))
	res, err := f.Fetch(context.Background(), testRef, newArea(t))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.OK || res.Reason != ReasonNoOutput {
		t.Fatalf("expected no_output failure, got %+v", res)
	}
}

func TestYtDLPFetcherMissingBinaryIsFatal(t *testing.T) {
	f := NewYtDLPFetcher(YtDLPConfig{Binary: "definitely-not-yt-dlp"})
	_, err := f.Fetch(context.Background(), testRef, newArea(t))
	var missing *deps.MissingBinaryError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingBinaryError, got %v", err)
	}
}

func TestYtDLPFetcherStubExecutable(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	area := newArea(t)
	stub := filepath.Join(t.TempDir(), "yt-dlp")
	// The stub writes to the path that follows -o with the extension filled in.
	script := "#!/bin/sh\nwhile [ $# -gt 0 ]; do\n  if [ \"$1\" = \"-o\" ]; then out=\"$2\"; fi\n  shift\ndone\nprintf 'video' > \"$(echo \"$out\" | sed 's/%(ext)s/mp4/')\"\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	f := NewYtDLPFetcher(YtDLPConfig{Binary: stub})
	res, err := f.Fetch(context.Background(), testRef, area)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !res.OK {
		t.Fatalf("expected success, got %+v", res)
	}
}

func TestFindDownloadedVideoSkipsPartials(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "video.mp4.part"), []byte("x"), 0o644)
	if _, ok := findDownloadedVideo(dir); ok {
		t.Fatal("partial download must not count")
	}
	_ = os.WriteFile(filepath.Join(dir, "video.webm"), []byte("x"), 0o644)
	path, ok := findDownloadedVideo(dir)
	if !ok || filepath.Base(path) != "video.webm" {
		t.Fatalf("expected video.webm, got %q", path)
	}
}
