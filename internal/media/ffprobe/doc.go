// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect executes ffprobe and returns the parsed streams and container
// metadata; Result helpers expose stream counts and the media duration used
// to plan transcription chunks.
package ffprobe
