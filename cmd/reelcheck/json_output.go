package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"reelcheck/internal/factcheck"
	"reelcheck/internal/store"
	"reelcheck/internal/transcribe"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

type recordJSON struct {
	Shortcode  string             `json:"shortcode"`
	URL        string             `json:"url"`
	Language   string             `json:"language"`
	Backend    string             `json:"backend,omitempty"`
	Strategy   string             `json:"strategy,omitempty"`
	Transcript string             `json:"transcript"`
	Rating     float64            `json:"rating"`
	Analysis   factcheck.Analysis `json:"analysis"`
	Cached     bool               `json:"cached"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	Chat       []chatJSON         `json:"chat,omitempty"`
}

type chatJSON struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	CreatedAt time.Time `json:"created_at"`
}

type transcriptJSON struct {
	Shortcode string                  `json:"shortcode"`
	Strategy  string                  `json:"strategy"`
	Backend   string                  `json:"backend"`
	Language  string                  `json:"language"`
	Text      string                  `json:"text"`
	Chunks    []transcribe.ChunkResult `json:"chunks,omitempty"`
	ElapsedMS int64                   `json:"elapsed_ms"`
}

func toRecordJSON(rec store.Record, analysis factcheck.Analysis, cached bool, chat []store.ChatTurn) recordJSON {
	out := recordJSON{
		Shortcode:  rec.ID,
		URL:        rec.URL,
		Language:   rec.Language,
		Backend:    rec.Backend,
		Strategy:   rec.Strategy,
		Transcript: rec.Transcript,
		Rating:     rec.Rating,
		Analysis:   analysis,
		Cached:     cached,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
	for _, turn := range chat {
		out.Chat = append(out.Chat, chatJSON{User: turn.UserMessage, Assistant: turn.AssistantResponse, CreatedAt: turn.CreatedAt})
	}
	return out
}
