package transcribe

import (
	"context"

	"reelcheck/internal/language"
)

// Status tags the outcome of a single chunk.
type Status string

// Chunk outcomes.
const (
	StatusOK           Status = "ok"
	StatusSilent       Status = "silent"
	StatusBackendError Status = "backend_error"
)

// ChunkResult records what happened to one window of audio.
type ChunkResult struct {
	Index    int     `json:"index"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text,omitempty"`
	Status   Status  `json:"status"`
	// Detail holds the recognizer error message for backend_error chunks.
	Detail string `json:"detail,omitempty"`
}

// Transcript is the output of a backend.
type Transcript struct {
	Text     string
	Language language.Spec
	Backend  string
	Chunks   []ChunkResult
}

// Empty reports whether no speech was transcribed.
func (t Transcript) Empty() bool { return t.Text == "" }

// Counts tallies chunk outcomes by status.
func (t Transcript) Counts() map[Status]int {
	counts := make(map[Status]int, 3)
	for _, chunk := range t.Chunks {
		counts[chunk.Status]++
	}
	return counts
}

// Backend converts a WAV file into a transcript.
type Backend interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string, lang language.Spec) (Transcript, error)
}
