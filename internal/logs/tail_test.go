package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"reelcheck/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reelcheck.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func collect(t *testing.T, path string, opts logs.Options) []string {
	t.Helper()
	var lines []string
	err := logs.Follow(context.Background(), path, opts, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		t.Fatalf("Follow: %v", err)
	}
	return lines
}

func TestFollowLastLines(t *testing.T) {
	path := writeLog(t, "a\nb\nc\npartial")
	got := collect(t, path, logs.Options{Lines: 2})
	if strings.Join(got, ",") != "b,c" {
		t.Fatalf("unexpected lines: %#v", got)
	}
}

func TestFollowFiltersByShortcode(t *testing.T) {
	path := writeLog(t, strings.Join([]string{
		`INFO fact-check started shortcode=ABC123`,
		`INFO fact-check started shortcode=OTHER`,
		`{"level":"info","msg":"fact-check completed","shortcode":"ABC123"}`,
		"",
	}, "\n"))
	got := collect(t, path, logs.Options{Lines: 10, Shortcode: "ABC123"})
	if len(got) != 2 || !strings.Contains(got[1], `"shortcode":"ABC123"`) {
		t.Fatalf("unexpected lines: %#v", got)
	}
}

func TestFollowMissingFile(t *testing.T) {
	got := collect(t, filepath.Join(t.TempDir(), "missing.log"), logs.Options{Lines: 5})
	if len(got) != 0 {
		t.Fatalf("expected no lines, got %#v", got)
	}
}

func TestFollowPicksUpAppendedLines(t *testing.T) {
	path := writeLog(t, "start\n")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []string
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, logs.Options{Lines: 1, Follow: true, Poll: 10 * time.Millisecond}, func(line string) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, line)
			if line == "start" {
				close(started)
			}
			if line == "later" {
				cancel()
			}
			return nil
		})
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("initial line not emitted")
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := f.WriteString("later\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Follow: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("follow did not return")
	}
	mu.Lock()
	defer mu.Unlock()
	if strings.Join(got, ",") != "start,later" {
		t.Fatalf("unexpected lines: %#v", got)
	}
}
