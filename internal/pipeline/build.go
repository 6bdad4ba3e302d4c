package pipeline

import (
	"context"
	"log/slog"

	"reelcheck/internal/acquire"
	"reelcheck/internal/agent"
	"reelcheck/internal/config"
	"reelcheck/internal/factcheck"
	"reelcheck/internal/notifications"
	"reelcheck/internal/services/llm"
	"reelcheck/internal/store"
)

// Open builds a Pipeline from cfg, opening the store and constructing every
// collaborator. The caller must Close the returned pipeline.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...acquire.Option) (*Pipeline, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	checker, err := factcheck.New(llm.FromConfig(cfg), logger)
	if err != nil {
		return nil, err
	}
	reelAgent, err := agent.FromConfig(cfg, logger, opts...)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.DatabasePath())
	if err != nil {
		return nil, err
	}
	return New(cfg, st, reelAgent, checker, notifications.NewService(cfg), logger), nil
}

// Store exposes the underlying record store for read-only commands.
func (p *Pipeline) Store() *store.Store { return p.store }

// Close releases the store.
func (p *Pipeline) Close() error {
	if p.store == nil {
		return nil
	}
	return p.store.Close()
}
