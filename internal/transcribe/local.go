package transcribe

import (
	"context"
	"path/filepath"

	"reelcheck/internal/language"
)

// LocalEngine is the subset of whisperx.Service used by LocalModel.
type LocalEngine interface {
	Model() string
	TranscribeFile(ctx context.Context, source, outputDir, language string) (string, error)
}

// LocalModel transcribes with a locally run speech model.
type LocalModel struct {
	engine LocalEngine
}

// NewLocalModel wraps engine as a Backend.
func NewLocalModel(engine LocalEngine) *LocalModel {
	return &LocalModel{engine: engine}
}

// Name returns the backend identifier.
func (m *LocalModel) Name() string { return "whisperx" }

// Transcribe runs a single pass over audioPath. Engine failures are returned
// unchanged.
func (m *LocalModel) Transcribe(ctx context.Context, audioPath string, lang language.Spec) (Transcript, error) {
	text, err := m.engine.TranscribeFile(ctx, audioPath, filepath.Dir(audioPath), lang.Code)
	if err != nil {
		return Transcript{}, err
	}
	return Transcript{Text: text, Language: lang, Backend: m.Name()}, nil
}
