// Package logging assembles structured slog loggers used across reelcheck.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with the reel shortcode, stage, and correlation id. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
