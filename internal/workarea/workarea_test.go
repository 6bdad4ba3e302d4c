package workarea

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reelcheck/internal/logging"
)

func TestCreateAndRemove(t *testing.T) {
	base := filepath.Join(t.TempDir(), "work")
	area, err := Create(base, "ABC123")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(area.Dir()), "reel-ABC123-") {
		t.Fatalf("unexpected area name %q", area.Dir())
	}
	if err := os.WriteFile(area.Path("video.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.MkdirAll(area.Path("nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := area.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(area.Dir()); !os.IsNotExist(err) {
		t.Fatalf("expected area to be gone, stat err=%v", err)
	}
	if err := area.Remove(); err != nil {
		t.Fatalf("second Remove should be a no-op, got %v", err)
	}
}

func TestCreateIsUniquePerRequest(t *testing.T) {
	base := t.TempDir()
	a, err := Create(base, "same")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := Create(base, "same")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Dir() == b.Dir() {
		t.Fatalf("expected distinct directories, both %q", a.Dir())
	}
}

func TestCreateRejectsEmptyBase(t *testing.T) {
	if _, err := Create("  ", "x"); err == nil {
		t.Fatal("expected error for empty base")
	}
}

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesOnlyOldWorkAreas(t *testing.T) {
	base := t.TempDir()
	old := filepath.Join(base, "reel-OLD-1234abcd")
	recent := filepath.Join(base, "reel-NEW-1234abcd")
	foreign := filepath.Join(base, "keep-me")
	for _, dir := range []string{old, recent, foreign} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	past := time.Now().Add(-2 * time.Hour)
	for _, dir := range []string{old, foreign} {
		if err := os.Chtimes(dir, past, past); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	result := CleanStale(context.Background(), base, time.Hour, logging.NewNop())
	if len(result.Removed) != 1 || result.Removed[0] != old {
		t.Fatalf("expected only %s removed, got %v", old, result.Removed)
	}
	for _, dir := range []string{recent, foreign} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("%s should still exist: %v", dir, err)
		}
	}
}
