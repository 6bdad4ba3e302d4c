// Package pipeline runs a complete fact-check for one reel: transcription
// through the agent, analysis by the LLM checker, persistence, and
// notifications. It is the caller the CLI talks to.
//
// Stored records short-circuit repeat requests unless Force is set, and a
// per-shortcode file lock keeps two processes from checking the same reel at
// once.
package pipeline
