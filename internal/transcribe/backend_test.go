package transcribe

import (
	"context"
	"errors"
	"testing"

	"reelcheck/internal/config"
	"reelcheck/internal/language"
	"reelcheck/internal/services"
	"reelcheck/internal/testsupport"
)

type fakeEngine struct {
	text      string
	err       error
	gotLang   string
	gotSource string
}

func (f *fakeEngine) Model() string { return "base" }

func (f *fakeEngine) TranscribeFile(_ context.Context, source, _ string, lang string) (string, error) {
	f.gotSource = source
	f.gotLang = lang
	return f.text, f.err
}

func TestLocalModel(t *testing.T) {
	engine := &fakeEngine{text: "नमस्ते ठीक है"}
	backend := NewLocalModel(engine)
	transcript, err := backend.Transcribe(context.Background(), "/work/audio.wav", language.Resolve("hindi"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if transcript.Text != "नमस्ते ठीक है" || transcript.Backend != "whisperx" {
		t.Fatalf("unexpected transcript %+v", transcript)
	}
	if engine.gotLang != "hi" || engine.gotSource != "/work/audio.wav" {
		t.Fatalf("unexpected engine call lang=%q source=%q", engine.gotLang, engine.gotSource)
	}

	engine.err = errors.New("model crashed")
	if _, err := backend.Transcribe(context.Background(), "/work/audio.wav", language.Default); err == nil {
		t.Fatal("expected engine error to propagate")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	backend, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if backend.Name() != "whisperx" {
		t.Fatalf("expected whisperx default, got %s", backend.Name())
	}

	cfg.Transcription.Backend = config.BackendCloud
	backend, err = FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("FromConfig cloud: %v", err)
	}
	if _, ok := backend.(*ChunkedRecognizer); !ok {
		t.Fatalf("expected chunked recognizer, got %T", backend)
	}

	cfg.Transcription.Backend = "telepathy"
	if _, err := FromConfig(cfg, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
