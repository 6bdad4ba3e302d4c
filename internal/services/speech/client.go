package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"reelcheck/internal/services"
	"reelcheck/internal/textutil"
)

const (
	defaultBaseURL     = "https://speech.googleapis.com"
	defaultHTTPTimeout = 30 * time.Second
	defaultSampleRate  = 16000
	recognizePath      = "v1/speech:recognize"
)

// Config captures the runtime settings for the recognizer.
type Config struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
	SampleRate     int
}

// Client wraps the speech:recognize endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a recognizer client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			TimeoutSeconds: cfg.TimeoutSeconds,
			SampleRate:     cfg.SampleRate,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.SampleRate <= 0 {
		client.cfg.SampleRate = defaultSampleRate
	}
	return client
}

// StatusError reports a non-2xx response from the recognizer.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("speech request: http %d: %s", e.StatusCode, e.Body)
}

// Unwrap marks throttling and server errors as transient.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError {
		return services.ErrTransient
	}
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return services.ErrConfiguration
	}
	return nil
}

type recognizeRequest struct {
	Config recognitionConfig `json:"config"`
	Audio  recognitionAudio  `json:"audio"`
}

type recognitionConfig struct {
	Encoding                   string `json:"encoding"`
	SampleRateHertz            int    `json:"sampleRateHertz"`
	LanguageCode               string `json:"languageCode"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
}

type recognitionAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// RecognizeFile reads a LINEAR16 WAV file and transcribes it.
func (c *Client) RecognizeFile(ctx context.Context, path, languageCode string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("speech recognize: read audio: %w", err)
	}
	return c.Recognize(ctx, data, languageCode)
}

// Recognize transcribes audio in languageCode (BCP 47, e.g. "hi-IN"). The
// best alternative of each result is joined with spaces.
func (c *Client) Recognize(ctx context.Context, audio []byte, languageCode string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", services.Wrap(services.ErrConfiguration, "speech", "recognize", "api key required", nil)
	}
	if len(audio) == 0 {
		return "", errors.New("speech recognize: empty audio")
	}
	languageCode = strings.TrimSpace(languageCode)
	if languageCode == "" {
		return "", errors.New("speech recognize: language code required")
	}

	endpoint, err := url.JoinPath(c.cfg.BaseURL, recognizePath)
	if err != nil {
		return "", fmt.Errorf("speech request: build url: %w", err)
	}
	endpoint += "?key=" + url.QueryEscape(c.cfg.APIKey)

	payload := recognizeRequest{
		Config: recognitionConfig{
			Encoding:                   "LINEAR16",
			SampleRateHertz:            c.cfg.SampleRate,
			LanguageCode:               languageCode,
			EnableAutomaticPunctuation: true,
		},
		Audio: recognitionAudio{Content: base64.StdEncoding.EncodeToString(audio)},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("speech request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("speech request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech request: http error (timeout=%s): %w", c.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("speech request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: textutil.Truncate(strings.TrimSpace(string(body)), 300)}
	}

	var parsed recognizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("speech request: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("speech request: api error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	parts := make([]string, 0, len(parsed.Results))
	for _, result := range parsed.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	return textutil.JoinNonEmpty(parts), nil
}
