package acquire

import (
	"fmt"
	"log/slog"
	"time"

	"reelcheck/internal/config"
)

// FromConfig builds the strategies named in acquisition.strategies, in order.
func FromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) ([]Strategy, error) {
	opts = append([]Option{WithLogger(logger)}, opts...)
	a := cfg.Acquisition
	strategies := make([]Strategy, 0, len(a.Strategies))
	for _, name := range a.Strategies {
		switch name {
		case config.StrategyYtDLP:
			strategies = append(strategies, NewYtDLPFetcher(YtDLPConfig{
				Binary:      a.YtDLPBinary,
				UserAgent:   a.UserAgent,
				CookiesFile: a.YtDLPCookiesFile,
				MinSleep:    time.Duration(a.MinSleepInterval) * time.Second,
				MaxSleep:    time.Duration(a.MaxSleepInterval) * time.Second,
				Timeout:     cfg.StrategyTimeout(name),
			}, opts...))
		case config.StrategyNative:
			fetcher, err := NewNativeFetcher(NativeConfig{
				BaseURL:   a.NativeBaseURL,
				UserAgent: a.UserAgent,
				SessionID: a.SessionID,
				Timeout:   cfg.StrategyTimeout(name),
				Backoff: Backoff{
					Base:           seconds(a.BackoffBase),
					Cap:            seconds(a.BackoffCap),
					JitterFraction: 0.1,
				},
				MaxAttempts:   a.MaxAttempts,
				HumanDelayMin: seconds(a.HumanDelayMinSecs),
				HumanDelayMax: seconds(a.HumanDelayMaxSecs),
			}, opts...)
			if err != nil {
				return nil, err
			}
			strategies = append(strategies, fetcher)
		case config.StrategyAPI:
			fetcher, err := NewAPIFetcher(APIConfig{
				BaseURL:   cfg.ReelAPI.BaseURL,
				Host:      cfg.ReelAPI.Host,
				APIKey:    cfg.ReelAPI.APIKey,
				UserAgent: a.UserAgent,
				Timeout:   cfg.StrategyTimeout(name),
			}, opts...)
			if err != nil {
				return nil, err
			}
			strategies = append(strategies, fetcher)
		default:
			return nil, fmt.Errorf("unknown acquisition strategy %q", name)
		}
	}
	return strategies, nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
