package config

import (
	"fmt"
	"strings"

	"reelcheck/internal/services"
)

// Validate ensures the configuration is usable. Every failure is tagged with
// services.ErrConfiguration.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validatePaths,
		c.validateAcquisition,
		c.validateReelAPI,
		c.validateTranscription,
		c.validateLLM,
		c.validateLogging,
	} {
		if err := check(); err != nil {
			return services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
		}
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return fmt.Errorf("paths.work_dir must be set")
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return fmt.Errorf("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateAcquisition() error {
	a := c.Acquisition
	if len(a.Strategies) == 0 {
		return fmt.Errorf("acquisition.strategies must list at least one of %q, %q, %q", StrategyYtDLP, StrategyNative, StrategyAPI)
	}
	seen := make(map[string]struct{}, len(a.Strategies))
	for _, s := range a.Strategies {
		switch s {
		case StrategyYtDLP, StrategyNative, StrategyAPI:
		default:
			return fmt.Errorf("acquisition.strategies: unknown strategy %q", s)
		}
		if _, dup := seen[s]; dup {
			return fmt.Errorf("acquisition.strategies: %q listed more than once", s)
		}
		seen[s] = struct{}{}
	}
	if a.YtDLPTimeout <= 0 || a.NativeTimeout <= 0 {
		return fmt.Errorf("acquisition timeouts must be positive")
	}
	if a.MinSleepInterval < 0 || a.MaxSleepInterval < a.MinSleepInterval {
		return fmt.Errorf("acquisition.max_sleep_interval must be >= min_sleep_interval >= 0")
	}
	if a.BackoffBase <= 0 || a.BackoffCap < a.BackoffBase {
		return fmt.Errorf("acquisition.backoff_cap_seconds must be >= backoff_base_seconds > 0")
	}
	if a.MaxAttempts <= 0 {
		return fmt.Errorf("acquisition.max_attempts must be positive")
	}
	if a.HumanDelayMinSecs < 0 || a.HumanDelayMaxSecs < a.HumanDelayMinSecs {
		return fmt.Errorf("acquisition.human_delay_max_seconds must be >= human_delay_min_seconds >= 0")
	}
	return nil
}

func (c *Config) validateReelAPI() error {
	if !c.StrategyEnabled(StrategyAPI) {
		return nil
	}
	if strings.TrimSpace(c.ReelAPI.APIKey) == "" {
		return fmt.Errorf("reel_api.api_key is required when the %q strategy is enabled. Set RAPIDAPI_KEY env var or edit %s (create with 'reelcheck config init')", StrategyAPI, configPathHint())
	}
	if c.ReelAPI.Timeout <= 0 {
		return fmt.Errorf("reel_api.timeout must be positive")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	t := c.Transcription
	switch t.Backend {
	case BackendWhisperX:
	case BackendCloud:
		if strings.TrimSpace(c.Speech.APIKey) == "" {
			return fmt.Errorf("speech.api_key is required for the %q backend. Set GOOGLE_SPEECH_API_KEY env var or edit %s", BackendCloud, configPathHint())
		}
		if c.Speech.TimeoutSeconds <= 0 {
			return fmt.Errorf("speech.timeout_seconds must be positive")
		}
	default:
		return fmt.Errorf("transcription.backend: unsupported value %q (want %q or %q)", t.Backend, BackendWhisperX, BackendCloud)
	}
	if t.ChunkSeconds <= 0 {
		return fmt.Errorf("transcription.chunk_seconds must be positive")
	}
	if t.CalibrationSeconds < 0 || t.CalibrationSeconds >= t.ChunkSeconds {
		return fmt.Errorf("transcription.calibration_seconds must be >= 0 and shorter than chunk_seconds")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("llm.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func configPathHint() string {
	path, err := DefaultConfigPath()
	if err != nil {
		return defaultConfigPath
	}
	return path
}
