// Package agent turns a reel URL into a transcript.
//
// Run extracts the content id, creates a private work area, downloads the
// video through the acquisition orchestrator, extracts speech audio, and
// hands it to the configured transcription backend. The work area is removed
// before Run returns, whatever the outcome. The agent keeps no cache; callers
// that want one consult the store first.
package agent
