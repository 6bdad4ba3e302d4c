package whisperx

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"testing"

	"reelcheck/internal/deps"
)

func fakeRunner(t *testing.T, calls *atomic.Int32, segments string) CommandRunner {
	t.Helper()
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		if name != UVXCommand {
			t.Fatalf("unexpected command %q", name)
		}
		calls.Add(1)
		if slices.Contains(args, "--help") {
			return []byte("usage: whisperx"), nil
		}
		source := args[slices.Index(args, "whisperx")+1]
		outDir := args[slices.Index(args, "--output_dir")+1]
		base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		return nil, os.WriteFile(filepath.Join(outDir, base+".json"), []byte(segments), 0o644)
	}
}

func TestTranscribeFileJoinsSegments(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	svc := NewService(Config{ModelDir: filepath.Join(dir, "models")})
	svc.WithCommandRunner(fakeRunner(t, &calls, `{"segments":[{"text":" नमस्ते "},{"text":""},{"text":"ठीक है"}]}`))

	source := filepath.Join(dir, "audio.wav")
	text, err := svc.TranscribeFile(context.Background(), source, "", "hindi")
	if err != nil {
		t.Fatalf("TranscribeFile: %v", err)
	}
	if text != "नमस्ते ठीक है" {
		t.Fatalf("unexpected text %q", text)
	}
	if _, err := svc.TranscribeFile(context.Background(), source, "", "hindi"); err != nil {
		t.Fatalf("second TranscribeFile: %v", err)
	}
	// one warm-up plus two transcriptions
	if calls.Load() != 3 {
		t.Fatalf("expected warm-up to run once, got %d calls", calls.Load())
	}
	if info, err := os.Stat(filepath.Join(dir, "models")); err != nil || !info.IsDir() {
		t.Fatalf("model dir not created: %v", err)
	}
}

func TestBuildArgs(t *testing.T) {
	svc := NewService(Config{Model: "small", ModelDir: "/cache/models"})
	args := strings.Join(svc.buildArgs("/w/audio.wav", "/w", "hin"), " ")
	for _, fragment := range []string{
		"--index-url " + PypiIndexURL,
		"whisperx /w/audio.wav --model small",
		"--model_dir /cache/models",
		"--language hi",
		"--device cpu --compute_type float32",
	} {
		if !strings.Contains(args, fragment) {
			t.Fatalf("expected %q in %q", fragment, args)
		}
	}

	gpu := NewService(Config{CUDAEnabled: true})
	args = strings.Join(gpu.buildArgs("/w/audio.wav", "/w", ""), " ")
	if !strings.Contains(args, "--extra-index-url") || !strings.Contains(args, "--device cuda") {
		t.Fatalf("unexpected cuda args %q", args)
	}
	if strings.Contains(args, "--language") || strings.Contains(args, "--model_dir") {
		t.Fatalf("unexpected optional args %q", args)
	}
	if gpu.Model() != DefaultModel || !gpu.CUDAEnabled() {
		t.Fatal("unexpected defaults")
	}
}

func TestTranscribeFileFailures(t *testing.T) {
	svc := NewService(Config{})
	if _, err := svc.TranscribeFile(context.Background(), "", "", "hi"); err == nil {
		t.Fatal("expected error for empty source")
	}

	missing := NewService(Config{})
	missing.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return nil, &exec.Error{Name: UVXCommand, Err: exec.ErrNotFound}
	})
	_, err := missing.TranscribeFile(context.Background(), filepath.Join(t.TempDir(), "a.wav"), "", "hi")
	var missingErr *deps.MissingBinaryError
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected missing binary error, got %v", err)
	}

	failing := NewService(Config{})
	failing.WithCommandRunner(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		if slices.Contains(args, "--help") {
			return nil, nil
		}
		return []byte("RuntimeError: CUDA out of memory"), errors.New("exit status 1")
	})
	_, err = failing.TranscribeFile(context.Background(), filepath.Join(t.TempDir(), "a.wav"), "", "hi")
	if err == nil || !strings.Contains(err.Error(), "out of memory") {
		t.Fatalf("expected diagnostic in error, got %v", err)
	}
}

func TestLoadSegmentsErrors(t *testing.T) {
	if _, err := LoadSegments(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected read error")
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSegments(path); err == nil {
		t.Fatal("expected parse error")
	}
}
