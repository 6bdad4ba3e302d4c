package audio

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"reelcheck/internal/deps"
	"reelcheck/internal/services"
)

func writingRunner(t *testing.T, gotArgs *[]string) Runner {
	t.Helper()
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		*gotArgs = args
		return nil, os.WriteFile(args[len(args)-1], []byte("RIFF"), 0o644)
	}
}

func TestExtractAudioArgs(t *testing.T) {
	var args []string
	e := NewExtractor("")
	e.WithCommandRunner(writingRunner(t, &args))

	dest := t.TempDir() + "/audio.wav"
	if err := e.ExtractAudio(context.Background(), "/work/video.mp4", dest); err != nil {
		t.Fatalf("ExtractAudio: %v", err)
	}
	joined := strings.Join(args, " ")
	for _, fragment := range []string{"-y", "-i /work/video.mp4", "-map 0:a:0", "-vn", "-ac 1", "-ar 16000", "-c:a pcm_s16le"} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in %q", fragment, joined)
		}
	}
	if strings.Contains(joined, "-ss") {
		t.Fatalf("full extraction must not seek: %q", joined)
	}
	if e.Binary() != "ffmpeg" {
		t.Fatalf("unexpected default binary %q", e.Binary())
	}
}

func TestExtractSegmentArgs(t *testing.T) {
	var args []string
	e := NewExtractor("ffmpeg")
	e.WithCommandRunner(writingRunner(t, &args))

	dest := t.TempDir() + "/chunk_001.wav"
	if err := e.ExtractSegment(context.Background(), "/work/audio.wav", 10*time.Second, 2500*time.Millisecond, dest); err != nil {
		t.Fatalf("ExtractSegment: %v", err)
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-ss 10.000 -t 2.500 -i /work/audio.wav") {
		t.Fatalf("unexpected segment args %q", joined)
	}
	if err := e.ExtractSegment(context.Background(), "/work/audio.wav", 0, 0, dest); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestExtractAudioFailureCarriesDiagnostic(t *testing.T) {
	long := strings.Repeat("x", 2000)
	e := NewExtractor("ffmpeg")
	e.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte("Stream map '0:a:0' matches no streams.\n" + long), errors.New("exit status 1")
	})

	err := e.ExtractAudio(context.Background(), "/work/video.mp4", t.TempDir()+"/audio.wav")
	var extraction *ExtractionError
	if !errors.As(err, &extraction) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if !strings.HasPrefix(extraction.Diagnostic, "Stream map") {
		t.Fatalf("unexpected diagnostic %q", extraction.Diagnostic)
	}
	if n := len([]rune(extraction.Diagnostic)); n > DiagnosticLimit {
		t.Fatalf("diagnostic not truncated: %d runes", n)
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatal("expected external tool marker")
	}
}

func TestExtractAudioEmptyOutput(t *testing.T) {
	e := NewExtractor("ffmpeg")
	e.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) { return nil, nil })
	err := e.ExtractAudio(context.Background(), "/work/video.mp4", t.TempDir()+"/audio.wav")
	var extraction *ExtractionError
	if !errors.As(err, &extraction) {
		t.Fatalf("expected ExtractionError for missing output, got %v", err)
	}
}

func TestExtractAudioMissingBinary(t *testing.T) {
	e := NewExtractor("definitely-not-ffmpeg")
	err := e.ExtractAudio(context.Background(), "/work/video.mp4", t.TempDir()+"/audio.wav")
	var missing *deps.MissingBinaryError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingBinaryError, got %v", err)
	}
	var extraction *ExtractionError
	if errors.As(err, &extraction) {
		t.Fatal("missing binary must not look like an extraction failure")
	}
}
