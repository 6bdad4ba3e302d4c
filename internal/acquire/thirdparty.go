package acquire

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reelcheck/internal/services"
	"reelcheck/internal/shortcode"
	"reelcheck/internal/workarea"
)

// APIConfig configures the third-party metadata API strategy.
type APIConfig struct {
	BaseURL   string
	Host      string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
}

// APIFetcher asks a hosted scraping API for the post metadata and downloads
// the first video variant of the first item.
type APIFetcher struct {
	cfg    APIConfig
	opts   options
	client *http.Client
}

// NewAPIFetcher validates credentials and builds the strategy.
func NewAPIFetcher(cfg APIConfig, opts ...Option) (*APIFetcher, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "acquire", "api", "reel_api.api_key is required", nil)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "acquire", "api", "reel_api.base_url is required", nil)
	}
	o := buildOptions(opts)
	client := o.httpClient
	if client == nil {
		client = &http.Client{}
	}
	return &APIFetcher{cfg: cfg, opts: o, client: client}, nil
}

func (f *APIFetcher) Name() string { return "api" }

func (f *APIFetcher) Timeout() time.Duration { return f.cfg.Timeout }

type postInfoResponse struct {
	Data *struct {
		Items []struct {
			VideoVersions []struct {
				URL string `json:"url"`
			} `json:"video_versions"`
		} `json:"items"`
	} `json:"data"`
}

// Fetch requests metadata, extracts the media URL, and streams it to disk.
func (f *APIFetcher) Fetch(ctx context.Context, ref shortcode.ContentRef, area *workarea.Area) (Result, error) {
	mediaURL, res := f.lookup(ctx, ref.ID)
	if mediaURL == "" {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return res, nil
	}

	header := http.Header{}
	if ua := strings.TrimSpace(f.cfg.UserAgent); ua != "" {
		header.Set("User-Agent", ua)
	}
	dest := area.Path(videoFileName)
	if _, err := downloadToFile(ctx, f.client, mediaURL, header, dest); err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return failureFromError("download", err), nil
	}
	return success(dest), nil
}

func (f *APIFetcher) lookup(ctx context.Context, id string) (string, Result) {
	endpoint := fmt.Sprintf("%s/v1/post_info?code_or_id_or_url=%s", f.cfg.BaseURL, url.QueryEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", failure(ReasonNetwork, "metadata: build request: %v", err)
	}
	req.Header.Set("x-rapidapi-key", f.cfg.APIKey)
	if host := strings.TrimSpace(f.cfg.Host); host != "" {
		req.Header.Set("x-rapidapi-host", host)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", failureFromError("metadata", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", failureFromError("metadata", &httpStatusError{StatusCode: resp.StatusCode, Body: readErrorBody(resp)})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", failureFromError("metadata", err)
	}
	var payload postInfoResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", failure(ReasonMalformed, "metadata: decode response: %v", err)
	}
	switch {
	case payload.Data == nil:
		return "", failure(ReasonMalformed, "metadata: response has no data object")
	case len(payload.Data.Items) == 0:
		return "", failure(ReasonMalformed, "metadata: response has no items")
	case len(payload.Data.Items[0].VideoVersions) == 0:
		return "", failure(ReasonMalformed, "metadata: first item has no video versions")
	}
	mediaURL := strings.TrimSpace(payload.Data.Items[0].VideoVersions[0].URL)
	if mediaURL == "" {
		return "", failure(ReasonMalformed, "metadata: first video version has no url")
	}
	return mediaURL, Result{}
}
