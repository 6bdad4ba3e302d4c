package shortcode_test

import (
	"errors"
	"testing"

	"reelcheck/internal/services"
	"reelcheck/internal/shortcode"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.instagram.com/reel/ABC123xyz/", "ABC123xyz"},
		{"https://www.instagram.com/reels/C_d-9z/?igsh=abc", "C_d-9z"},
		{"https://instagram.com/p/XYZ_01/", "XYZ_01"},
		{"  https://www.instagram.com/someone/reel/Q1w2E3/  ", "Q1w2E3"},
	}
	for _, tt := range tests {
		ref, err := shortcode.Extract(tt.url)
		if err != nil {
			t.Fatalf("Extract(%q) returned error: %v", tt.url, err)
		}
		if ref.ID != tt.want {
			t.Fatalf("Extract(%q) = %q, want %q", tt.url, ref.ID, tt.want)
		}
	}
}

func TestExtractRejectsUnrecognizedURLs(t *testing.T) {
	for _, raw := range []string{
		"https://example.com/video/1",
		"https://www.instagram.com/reel/ABC123",
		"https://www.instagram.com/stories/user/123/",
		"",
	} {
		_, err := shortcode.Extract(raw)
		var invalid *shortcode.InvalidURLError
		if !errors.As(err, &invalid) {
			t.Fatalf("Extract(%q): expected InvalidURLError, got %v", raw, err)
		}
		if invalid.URL != raw {
			t.Fatalf("expected URL preserved, got %q", invalid.URL)
		}
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("expected validation marker for %q", raw)
		}
	}
}

func TestValid(t *testing.T) {
	if !shortcode.Valid("ABC_12-x") {
		t.Fatal("expected identifier to be valid")
	}
	if shortcode.Valid("abc/def") || shortcode.Valid("") {
		t.Fatal("expected invalid identifiers to be rejected")
	}
}
