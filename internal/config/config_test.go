package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"reelcheck/internal/config"
	"reelcheck/internal/services"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"RAPIDAPI_KEY", "IG_SESSION_ID", "GOOGLE_SPEECH_API_KEY", "GROQ_API_KEY", "LLM_API_KEY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
	return home
}

func TestLoadDefaultsExpandPaths(t *testing.T) {
	home := isolateEnv(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(home, ".config", "reelcheck", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if cfg.Paths.WorkDir != filepath.Join(home, ".local", "share", "reelcheck", "work") {
		t.Fatalf("unexpected work dir %q", cfg.Paths.WorkDir)
	}
	if got := cfg.Acquisition.Strategies; len(got) != 2 || got[0] != config.StrategyYtDLP || got[1] != config.StrategyNative {
		t.Fatalf("unexpected default strategies %v", got)
	}
	if cfg.Transcription.Backend != config.BackendWhisperX {
		t.Fatalf("unexpected backend %q", cfg.Transcription.Backend)
	}
	if cfg.StrategyTimeout(config.StrategyYtDLP) != 90*time.Second {
		t.Fatalf("unexpected ytdlp timeout %s", cfg.StrategyTimeout(config.StrategyYtDLP))
	}
	if cfg.DatabasePath() != filepath.Join(cfg.Paths.DataDir, "reelcheck.db") {
		t.Fatalf("unexpected database path %q", cfg.DatabasePath())
	}
}

func TestLoadEnvFallbacks(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GROQ_API_KEY", "k1, k2,k1")
	t.Setenv("IG_SESSION_ID", "sess")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	keys := cfg.LLMKeys()
	if len(keys) != 2 || keys[0] != "k1" || keys[1] != "k2" {
		t.Fatalf("unexpected llm keys %v", keys)
	}
	if cfg.Acquisition.SessionID != "sess" {
		t.Fatalf("expected session id from env, got %q", cfg.Acquisition.SessionID)
	}
}

func TestLoadFromFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "reelcheck.toml")

	cfg := config.Default()
	cfg.Acquisition.Strategies = []string{" API ", "ytdlp"}
	cfg.ReelAPI.APIKey = "rapid"
	cfg.Transcription.Backend = "cloud"
	cfg.Speech.APIKey = "speech"
	cfg.Paths.WorkDir = filepath.Join(dir, "work")
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	loaded, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected file %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if loaded.Acquisition.Strategies[0] != config.StrategyAPI {
		t.Fatalf("expected normalized strategy name, got %v", loaded.Acquisition.Strategies)
	}
	if !loaded.StrategyEnabled(config.StrategyAPI) || loaded.StrategyEnabled(config.StrategyNative) {
		t.Fatalf("unexpected strategy set %v", loaded.Acquisition.Strategies)
	}
	if loaded.Transcription.Backend != config.BackendCloud {
		t.Fatalf("unexpected backend %q", loaded.Transcription.Backend)
	}
}

func TestValidateRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"no strategies", func(c *config.Config) { c.Acquisition.Strategies = nil }, "acquisition.strategies"},
		{"unknown strategy", func(c *config.Config) { c.Acquisition.Strategies = []string{"scrape"} }, "unknown strategy"},
		{"duplicate strategy", func(c *config.Config) { c.Acquisition.Strategies = []string{"ytdlp", "ytdlp"} }, "more than once"},
		{"api without key", func(c *config.Config) { c.Acquisition.Strategies = []string{"api"} }, "reel_api.api_key"},
		{"cloud without key", func(c *config.Config) { c.Transcription.Backend = "cloud" }, "speech.api_key"},
		{"unknown backend", func(c *config.Config) { c.Transcription.Backend = "vosk" }, "transcription.backend"},
		{"bad backoff", func(c *config.Config) { c.Acquisition.BackoffCap = 1 }, "backoff_cap_seconds"},
		{"bad chunk", func(c *config.Config) { c.Transcription.ChunkSeconds = 0 }, "chunk_seconds"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected configuration marker, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.WhisperX.Model != "base" {
		t.Fatalf("unexpected whisperx model %q", cfg.WhisperX.Model)
	}
}

func TestLoadParseErrorIsConfiguration(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[paths\nwork_dir = 1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, _, _, err := config.Load(path)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
