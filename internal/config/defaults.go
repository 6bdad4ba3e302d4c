package config

const (
	defaultConfigPath = "~/.config/reelcheck/config.toml"

	defaultWorkDir       = "~/.local/share/reelcheck/work"
	defaultDataDir       = "~/.local/share/reelcheck"
	defaultLogDir        = "~/.local/share/reelcheck/logs"
	defaultModelCacheDir = "~/.cache/reelcheck/models"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	defaultYtDLPBinary      = "yt-dlp"
	defaultStrategyTimeout  = 90
	defaultNativeTimeout    = 60
	defaultMinSleepInterval = 2
	defaultMaxSleepInterval = 5
	defaultNativeBaseURL    = "https://www.instagram.com"
	defaultBackoffBase      = 2.0
	defaultBackoffCap       = 60.0
	defaultMaxAttempts      = 3
	defaultHumanDelayMin    = 2.0
	defaultHumanDelayMax    = 5.0

	defaultReelAPIBaseURL = "https://instagram-scraper-api2.p.rapidapi.com"
	defaultReelAPIHost    = "instagram-scraper-api2.p.rapidapi.com"
	defaultReelAPITimeout = 60

	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"

	defaultBackend            = BackendWhisperX
	defaultLanguage           = "hindi"
	defaultChunkSeconds       = 10.0
	defaultCalibrationSeconds = 0.5

	defaultWhisperXModel = "base"

	defaultSpeechBaseURL = "https://speech.googleapis.com"
	defaultSpeechTimeout = 30

	defaultLLMBaseURL = "https://api.groq.com/openai/v1/chat/completions"
	defaultLLMModel   = "llama-3.3-70b-versatile"
	defaultLLMTimeout = 60

	defaultNotifyTimeout     = 10
	defaultMinFreeMB         = 200
	defaultStaleWorkAreaDays = 1

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Acquisition strategy names accepted in acquisition.strategies.
const (
	StrategyYtDLP  = "ytdlp"
	StrategyNative = "native"
	StrategyAPI    = "api"
)

// Transcription backend names accepted in transcription.backend.
const (
	BackendWhisperX = "whisperx"
	BackendCloud    = "cloud"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:       defaultWorkDir,
			DataDir:       defaultDataDir,
			LogDir:        defaultLogDir,
			ModelCacheDir: defaultModelCacheDir,
		},
		Acquisition: Acquisition{
			Strategies:        []string{StrategyYtDLP, StrategyNative},
			UserAgent:         defaultUserAgent,
			YtDLPBinary:       defaultYtDLPBinary,
			YtDLPTimeout:      defaultStrategyTimeout,
			MinSleepInterval:  defaultMinSleepInterval,
			MaxSleepInterval:  defaultMaxSleepInterval,
			NativeBaseURL:     defaultNativeBaseURL,
			NativeTimeout:     defaultNativeTimeout,
			BackoffBase:       defaultBackoffBase,
			BackoffCap:        defaultBackoffCap,
			MaxAttempts:       defaultMaxAttempts,
			HumanDelayMinSecs: defaultHumanDelayMin,
			HumanDelayMaxSecs: defaultHumanDelayMax,
		},
		ReelAPI: ReelAPI{
			BaseURL: defaultReelAPIBaseURL,
			Host:    defaultReelAPIHost,
			Timeout: defaultReelAPITimeout,
		},
		Media: Media{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Transcription: Transcription{
			Backend:            defaultBackend,
			Language:           defaultLanguage,
			ChunkSeconds:       defaultChunkSeconds,
			CalibrationSeconds: defaultCalibrationSeconds,
		},
		WhisperX: WhisperX{
			Model: defaultWhisperXModel,
		},
		Speech: Speech{
			BaseURL:        defaultSpeechBaseURL,
			TimeoutSeconds: defaultSpeechTimeout,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Completed:      true,
			Errors:         true,
		},
		Storage: Storage{
			MinFreeMB:         defaultMinFreeMB,
			StaleWorkAreaDays: defaultStaleWorkAreaDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
