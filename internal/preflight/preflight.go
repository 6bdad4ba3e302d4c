package preflight

import (
	"context"

	"reelcheck/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Backend-specific checks only run for the configured backend.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckFreeSpace("Free space", cfg.Paths.WorkDir, cfg.Storage.MinFreeMB),
	}

	if cfg.Transcription.Backend == config.BackendCloud {
		results = append(results, CheckSpeechKey(cfg))
	}
	if cfg.StrategyEnabled(config.StrategyAPI) {
		results = append(results, CheckReelAPIKey(cfg))
	}

	results = append(results, CheckLLM(ctx, "Fact-check LLM", cfg))
	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
