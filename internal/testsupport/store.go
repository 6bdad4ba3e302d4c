package testsupport

import (
	"context"
	"testing"

	"reelcheck/internal/config"
	"reelcheck/internal/store"
)

// MustOpenStore opens the fact-check store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(context.Background(), cfg.DatabasePath())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}
