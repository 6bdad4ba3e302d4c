package services_test

import (
	"context"
	"testing"

	"reelcheck/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithShortcode(ctx, "ABC123")
	ctx = services.WithStage(ctx, "acquire")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.ShortcodeFromContext(ctx); !ok || id != "ABC123" {
		t.Fatalf("unexpected shortcode: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "acquire" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithShortcode(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.ShortcodeFromContext(ctx); ok {
		t.Fatal("expected no shortcode value")
	}
}
