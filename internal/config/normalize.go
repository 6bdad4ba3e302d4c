package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAcquisition()
	c.normalizeReelAPI()
	c.normalizeTranscription()
	c.normalizeLLM()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ModelCacheDir) == "" {
		c.Paths.ModelCacheDir = defaultModelCacheDir
	}
	if c.Paths.ModelCacheDir, err = expandPath(c.Paths.ModelCacheDir); err != nil {
		return fmt.Errorf("paths.model_cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAcquisition() {
	strategies := make([]string, 0, len(c.Acquisition.Strategies))
	for _, s := range c.Acquisition.Strategies {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			strategies = append(strategies, s)
		}
	}
	c.Acquisition.Strategies = strategies
	c.Acquisition.UserAgent = strings.TrimSpace(c.Acquisition.UserAgent)
	if c.Acquisition.UserAgent == "" {
		c.Acquisition.UserAgent = defaultUserAgent
	}
	c.Acquisition.YtDLPBinary = strings.TrimSpace(c.Acquisition.YtDLPBinary)
	if c.Acquisition.YtDLPBinary == "" {
		c.Acquisition.YtDLPBinary = defaultYtDLPBinary
	}
	c.Acquisition.YtDLPCookiesFile = strings.TrimSpace(c.Acquisition.YtDLPCookiesFile)
	if c.Acquisition.YtDLPCookiesFile != "" {
		if expanded, err := expandPath(c.Acquisition.YtDLPCookiesFile); err == nil {
			c.Acquisition.YtDLPCookiesFile = expanded
		}
	}
	c.Acquisition.NativeBaseURL = strings.TrimRight(strings.TrimSpace(c.Acquisition.NativeBaseURL), "/")
	if c.Acquisition.NativeBaseURL == "" {
		c.Acquisition.NativeBaseURL = defaultNativeBaseURL
	}
	if c.Acquisition.SessionID == "" {
		if value, ok := os.LookupEnv("IG_SESSION_ID"); ok {
			c.Acquisition.SessionID = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeReelAPI() {
	if c.ReelAPI.APIKey == "" {
		if value, ok := os.LookupEnv("RAPIDAPI_KEY"); ok {
			c.ReelAPI.APIKey = strings.TrimSpace(value)
		}
	}
	c.ReelAPI.BaseURL = strings.TrimRight(strings.TrimSpace(c.ReelAPI.BaseURL), "/")
	if c.ReelAPI.BaseURL == "" {
		c.ReelAPI.BaseURL = defaultReelAPIBaseURL
	}
	c.ReelAPI.Host = strings.TrimSpace(c.ReelAPI.Host)
	if c.ReelAPI.Host == "" {
		c.ReelAPI.Host = defaultReelAPIHost
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Backend = strings.ToLower(strings.TrimSpace(c.Transcription.Backend))
	if c.Transcription.Backend == "" {
		c.Transcription.Backend = defaultBackend
	}
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))
	if c.Transcription.Language == "" {
		c.Transcription.Language = defaultLanguage
	}
	c.WhisperX.Model = strings.TrimSpace(c.WhisperX.Model)
	if c.WhisperX.Model == "" {
		c.WhisperX.Model = defaultWhisperXModel
	}
	if c.Speech.APIKey == "" {
		if value, ok := os.LookupEnv("GOOGLE_SPEECH_API_KEY"); ok {
			c.Speech.APIKey = strings.TrimSpace(value)
		}
	}
	c.Speech.BaseURL = strings.TrimRight(strings.TrimSpace(c.Speech.BaseURL), "/")
	if c.Speech.BaseURL == "" {
		c.Speech.BaseURL = defaultSpeechBaseURL
	}
}

func (c *Config) normalizeLLM() {
	if c.LLM.APIKey == "" && len(c.LLM.APIKeys) == 0 {
		for _, env := range []string{"GROQ_API_KEY", "LLM_API_KEY"} {
			value, ok := os.LookupEnv(env)
			if !ok || strings.TrimSpace(value) == "" {
				continue
			}
			for _, key := range strings.Split(value, ",") {
				if key = strings.TrimSpace(key); key != "" {
					c.LLM.APIKeys = append(c.LLM.APIKeys, key)
				}
			}
			break
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
