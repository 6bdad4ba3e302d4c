// Package notifications publishes fact-check events to ntfy.
//
// NewService returns a no-op implementation when no topic is configured, so
// callers never need to check whether notifications are enabled. Per-event
// toggles in the config suppress completion or error messages individually.
package notifications
