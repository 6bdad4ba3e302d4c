package ffprobe

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"reelcheck/internal/deps"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio"},
			{CodecType: "audio"},
		},
		Format: Format{Duration: "23.5"},
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 23.5 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.Duration() != 23500*time.Millisecond {
		t.Fatalf("unexpected duration: %s", result.Duration())
	}
}

func TestDurationFallsBackToAudioStream(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio", Duration: "7.25"}}}
	if result.DurationSeconds() != 7.25 {
		t.Fatalf("expected stream duration, got %v", result.DurationSeconds())
	}
}

func TestDurationInvalid(t *testing.T) {
	result := Result{Format: Format{Duration: "bad"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected NaN, got %v", result.DurationSeconds())
	}
	if result.Duration() != 0 {
		t.Fatalf("expected zero duration for invalid input, got %s", result.Duration())
	}
}

func TestInspectWithRunner(t *testing.T) {
	var gotArgs []string
	run := func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = args
		return []byte(`{"streams":[{"index":0,"codec_type":"audio","codec_name":"pcm_s16le","sample_rate":"16000","channels":1}],"format":{"duration":"12.0","format_name":"wav"}}`), nil
	}
	result, err := InspectWith(context.Background(), run, "", "/tmp/audio.wav")
	if err != nil {
		t.Fatalf("InspectWith: %v", err)
	}
	if result.Format.FormatName != "wav" || result.Streams[0].Channels != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if gotArgs[len(gotArgs)-1] != "/tmp/audio.wav" || gotArgs[len(gotArgs)-2] != "--" {
		t.Fatalf("unexpected args %v", gotArgs)
	}
}

func TestInspectErrors(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", " "); err == nil {
		t.Fatal("expected error for empty path")
	}
	_, err := Inspect(context.Background(), "definitely-not-ffprobe", "/tmp/x.wav")
	var missing *deps.MissingBinaryError
	if !errors.As(err, &missing) {
		t.Fatalf("expected missing binary error, got %v", err)
	}
	bad := func(context.Context, string, ...string) ([]byte, error) { return []byte("{"), nil }
	if _, err := InspectWith(context.Background(), bad, "ffprobe", "/tmp/x.wav"); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
}
