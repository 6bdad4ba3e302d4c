// Package workarea manages the per-request scratch directories that hold a
// downloaded reel, its extracted audio, and transient chunk files.
//
// Each request gets its own directory named after the reel shortcode plus a
// random suffix, so concurrent or repeated requests for the same reel never
// share files. Remove is idempotent and must run on every exit path;
// CleanStale sweeps directories left behind by crashed processes.
package workarea
