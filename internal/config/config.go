package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"reelcheck/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir       string `toml:"work_dir"`
	DataDir       string `toml:"data_dir"`
	LogDir        string `toml:"log_dir"`
	ModelCacheDir string `toml:"model_cache_dir"`
}

// Acquisition controls the ordered download strategies and their throttling.
type Acquisition struct {
	Strategies []string `toml:"strategies"`
	UserAgent  string   `toml:"user_agent"`

	YtDLPBinary      string `toml:"ytdlp_binary"`
	YtDLPTimeout     int    `toml:"ytdlp_timeout"`
	YtDLPCookiesFile string `toml:"ytdlp_cookies_file"`
	MinSleepInterval int    `toml:"min_sleep_interval"`
	MaxSleepInterval int    `toml:"max_sleep_interval"`

	NativeBaseURL     string  `toml:"native_base_url"`
	NativeTimeout     int     `toml:"native_timeout"`
	SessionID         string  `toml:"session_id"`
	BackoffBase       float64 `toml:"backoff_base_seconds"`
	BackoffCap        float64 `toml:"backoff_cap_seconds"`
	MaxAttempts       int     `toml:"max_attempts"`
	HumanDelayMinSecs float64 `toml:"human_delay_min_seconds"`
	HumanDelayMaxSecs float64 `toml:"human_delay_max_seconds"`
}

// ReelAPI contains configuration for the third-party metadata API strategy.
type ReelAPI struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Host    string `toml:"host"`
	Timeout int    `toml:"timeout"`
}

// Media contains ffmpeg/ffprobe settings.
type Media struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Transcription selects the speech-to-text backend.
type Transcription struct {
	Backend            string  `toml:"backend"`
	Language           string  `toml:"language"`
	ChunkSeconds       float64 `toml:"chunk_seconds"`
	CalibrationSeconds float64 `toml:"calibration_seconds"`
}

// WhisperX contains configuration for the local speech model backend.
type WhisperX struct {
	Model       string `toml:"model"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
}

// Speech contains configuration for the chunked cloud recognizer backend.
type Speech struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LLM contains connection settings for the fact-check model.
type LLM struct {
	APIKey         string   `toml:"api_key"`
	APIKeys        []string `toml:"api_keys"`
	BaseURL        string   `toml:"base_url"`
	Model          string   `toml:"model"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Completed      bool   `toml:"completed"`
	Errors         bool   `toml:"errors"`
}

// Storage contains persistence settings.
type Storage struct {
	MinFreeMB         int `toml:"min_free_mb"`
	StaleWorkAreaDays int `toml:"stale_work_area_days"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelcheck.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Acquisition   Acquisition   `toml:"acquisition"`
	ReelAPI       ReelAPI       `toml:"reel_api"`
	Media         Media         `toml:"media"`
	Transcription Transcription `toml:"transcription"`
	WhisperX      WhisperX      `toml:"whisperx"`
	Speech        Speech        `toml:"speech"`
	LLM           LLM           `toml:"llm"`
	Notifications Notifications `toml:"notifications"`
	Storage       Storage       `toml:"storage"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and environment fallbacks applied.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "parse", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "normalize", "", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("reelcheck.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the work, data, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite file holding fact-check records.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "reelcheck.db")
}

// LockDir returns the directory used for per-reel request locks.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.WorkDir, ".locks")
}

// StrategyEnabled reports whether the named acquisition strategy is configured.
func (c *Config) StrategyEnabled(name string) bool {
	for _, s := range c.Acquisition.Strategies {
		if s == name {
			return true
		}
	}
	return false
}

// StrategyTimeout returns the per-call timeout for a named strategy.
func (c *Config) StrategyTimeout(name string) time.Duration {
	switch name {
	case StrategyYtDLP:
		return time.Duration(c.Acquisition.YtDLPTimeout) * time.Second
	case StrategyNative:
		return time.Duration(c.Acquisition.NativeTimeout) * time.Second
	case StrategyAPI:
		return time.Duration(c.ReelAPI.Timeout) * time.Second
	default:
		return defaultStrategyTimeout * time.Second
	}
}

// LLMKeys returns the configured LLM API keys in rotation order.
func (c *Config) LLMKeys() []string {
	keys := make([]string, 0, len(c.LLM.APIKeys)+1)
	seen := make(map[string]struct{})
	add := func(key string) {
		key = strings.TrimSpace(key)
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	add(c.LLM.APIKey)
	for _, key := range c.LLM.APIKeys {
		add(key)
	}
	return keys
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
