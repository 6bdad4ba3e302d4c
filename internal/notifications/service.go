package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reelcheck/internal/config"
	"reelcheck/internal/textutil"
)

const userAgent = "reelcheck/0.1.0"

// Service defines the notification surface used by the pipeline.
type Service interface {
	NotifyFactCheckCompleted(ctx context.Context, shortcode string, rating float64, fallback bool) error
	NotifyError(ctx context.Context, err error, shortcode string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint:  topic,
		client:    &http.Client{Timeout: timeout},
		completed: cfg.Notifications.Completed,
		errors:    cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	completed bool
	errors    bool
}

func ratingTag(rating float64) string {
	switch {
	case rating >= 70:
		return "white_check_mark"
	case rating >= 40:
		return "warning"
	default:
		return "x"
	}
}

func (n *ntfyService) NotifyFactCheckCompleted(ctx context.Context, shortcode string, rating float64, fallback bool) error {
	if !n.completed {
		return nil
	}
	message := fmt.Sprintf("Reel %s rated %.0f%% accurate", strings.TrimSpace(shortcode), rating)
	if fallback {
		message += " (analysis unavailable, placeholder rating)"
	}
	return n.send(ctx, payload{
		title:   "reelcheck - Fact-check Complete",
		message: message,
		tags:    []string{"reelcheck", "factcheck", ratingTag(rating)},
	})
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, shortcode string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if shortcode = strings.TrimSpace(shortcode); shortcode != "" {
		builder.WriteString(" checking reel ")
		builder.WriteString(shortcode)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(textutil.Truncate(strings.TrimSpace(err.Error()), 500))
	} else {
		builder.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "reelcheck - Error",
		message:  builder.String(),
		tags:     []string{"reelcheck", "error", "rotating_light"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "reelcheck - Test",
		message:  "Notification system test",
		tags:     []string{"reelcheck", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyFactCheckCompleted(context.Context, string, float64, bool) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error                     { return nil }
func (noopService) TestNotification(context.Context) error                               { return nil }
