package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reelcheck/internal/config"
	"reelcheck/internal/notifications"
)

type captured struct {
	title    string
	message  string
	tags     string
	priority string
}

func newServer(t *testing.T, status int) (*httptest.Server, *[]captured) {
	t.Helper()
	var got []captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = append(got, captured{
			title:    r.Header.Get("Title"),
			message:  string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		})
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server, &got
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyFactCheckCompleted(context.Background(), "ABC", 80, false); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := svc.NotifyError(context.Background(), errors.New("x"), "ABC"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	server, got := newServer(t, http.StatusOK)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)
	ctx := context.Background()

	if err := svc.NotifyFactCheckCompleted(ctx, "ABC123", 82.4, false); err != nil {
		t.Fatalf("completed: %v", err)
	}
	if err := svc.NotifyFactCheckCompleted(ctx, "LOW", 50, true); err != nil {
		t.Fatalf("fallback: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("all strategies failed"), "XYZ"); err != nil {
		t.Fatalf("error: %v", err)
	}
	if err := svc.TestNotification(ctx); err != nil {
		t.Fatalf("test: %v", err)
	}

	want := []captured{
		{"reelcheck - Fact-check Complete", "Reel ABC123 rated 82% accurate", "reelcheck,factcheck,white_check_mark", ""},
		{"reelcheck - Fact-check Complete", "Reel LOW rated 50% accurate (analysis unavailable, placeholder rating)", "reelcheck,factcheck,warning", ""},
		{"reelcheck - Error", "Error checking reel XYZ: all strategies failed", "reelcheck,error,rotating_light", "high"},
		{"reelcheck - Test", "Notification system test", "reelcheck,test", "low"},
	}
	if len(*got) != len(want) {
		t.Fatalf("expected %d requests, got %d", len(want), len(*got))
	}
	for i, w := range want {
		if (*got)[i] != w {
			t.Errorf("request %d: got %+v, want %+v", i, (*got)[i], w)
		}
	}
}

func TestNtfyServiceRespectsToggles(t *testing.T) {
	server, got := newServer(t, http.StatusOK)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Completed = false
	cfg.Notifications.Errors = false
	svc := notifications.NewService(&cfg)

	_ = svc.NotifyFactCheckCompleted(context.Background(), "ABC", 90, false)
	_ = svc.NotifyError(context.Background(), errors.New("boom"), "ABC")
	if len(*got) != 0 {
		t.Fatalf("expected no requests, got %d", len(*got))
	}
}

func TestNtfyServiceReportsHTTPFailure(t *testing.T) {
	server, _ := newServer(t, http.StatusForbidden)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	err := notifications.NewService(&cfg).TestNotification(context.Background())
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}
