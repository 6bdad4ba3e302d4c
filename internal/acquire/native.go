package acquire

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"reelcheck/internal/logging"
	"reelcheck/internal/shortcode"
	"reelcheck/internal/workarea"
)

// NativeConfig configures the session-based page fetcher.
type NativeConfig struct {
	BaseURL       string
	UserAgent     string
	SessionID     string
	Timeout       time.Duration
	Backoff       Backoff
	MaxAttempts   int
	HumanDelayMin time.Duration
	HumanDelayMax time.Duration
}

// NativeFetcher reads the reel page through a cookie-carrying HTTP session,
// extracts the og:video URL, and streams it to disk. A 429 on either request is
// retried inside the strategy with exponential backoff; authentication
// rejections end the strategy immediately.
type NativeFetcher struct {
	cfg    NativeConfig
	opts   options
	client *http.Client
	base   *url.URL
}

var errLoginWall = errors.New("redirected to login page")

// NewNativeFetcher builds the session strategy.
func NewNativeFetcher(cfg NativeConfig, opts ...Option) (*NativeFetcher, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff.Base <= 0 {
		cfg.Backoff = DefaultBackoff()
	}
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("native fetcher: invalid base URL %q", cfg.BaseURL)
	}

	o := buildOptions(opts)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("native fetcher: cookie jar: %w", err)
	}
	if sid := strings.TrimSpace(cfg.SessionID); sid != "" {
		jar.SetCookies(base, []*http.Cookie{{Name: "sessionid", Value: sid, Path: "/"}})
	}
	client := &http.Client{}
	if o.httpClient != nil {
		copied := *o.httpClient
		client = &copied
	}
	client.Jar = jar

	return &NativeFetcher{cfg: cfg, opts: o, client: client, base: base}, nil
}

func (f *NativeFetcher) Name() string { return "native" }

func (f *NativeFetcher) Timeout() time.Duration { return f.cfg.Timeout }

// Fetch resolves and downloads the reel video.
func (f *NativeFetcher) Fetch(ctx context.Context, ref shortcode.ContentRef, area *workarea.Area) (Result, error) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(f.opts.logger, "acquire.native"))
	pageURL := f.base.JoinPath("reel", ref.ID).String() + "/"

	for attempt := 0; attempt < f.cfg.MaxAttempts; attempt++ {
		delay := uniformDuration(f.cfg.HumanDelayMin, f.cfg.HumanDelayMax, f.opts.rand)
		if err := f.opts.sleep(ctx, delay); err != nil {
			return Result{}, err
		}

		dest := area.Path(videoFileName)
		stage, err := f.fetchOnce(ctx, pageURL, dest)
		if err == nil {
			return success(dest), nil
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}

		var statusErr *httpStatusError
		switch {
		case errors.Is(err, errLoginWall):
			return failure(ReasonAuthRequired, "%s: %v", stage, err), nil
		case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests:
			if attempt+1 >= f.cfg.MaxAttempts {
				return failure(ReasonRateLimited, "%s: HTTP 429 after %d attempts", stage, f.cfg.MaxAttempts), nil
			}
			wait := f.cfg.Backoff.Delay(attempt, f.opts.rand)
			logging.WarnWithContext(logger, "rate limited, backing off", "acquire_rate_limited",
				logging.Int("attempt", attempt+1),
				logging.String("request", stage),
				logging.Duration("backoff", wait),
				logging.String(logging.FieldImpact, "download delayed"),
				logging.String(logging.FieldErrorHint, "repeated 429s mean the session is throttled"),
			)
			if err := f.opts.sleep(ctx, wait); err != nil {
				return Result{}, err
			}
		default:
			var malformed *pageShapeError
			if errors.As(err, &malformed) {
				return failure(ReasonMalformed, "%s: %v", stage, err), nil
			}
			return failureFromError(stage, err), nil
		}
	}
	return failure(ReasonRateLimited, "retry budget exhausted"), nil
}

// fetchOnce resolves the media URL and downloads it, naming the request that
// failed. Each attempt resolves the page again.
func (f *NativeFetcher) fetchOnce(ctx context.Context, pageURL, dest string) (string, error) {
	mediaURL, err := f.resolveMediaURL(ctx, pageURL)
	if err != nil {
		return "page", err
	}
	if _, err := downloadToFile(ctx, f.client, mediaURL, f.headers(), dest); err != nil {
		return "download", err
	}
	return "", nil
}

type pageShapeError struct{ detail string }

func (e *pageShapeError) Error() string { return e.detail }

func (f *NativeFetcher) headers() http.Header {
	h := http.Header{}
	if ua := strings.TrimSpace(f.cfg.UserAgent); ua != "" {
		h.Set("User-Agent", ua)
	}
	h.Set("Accept-Language", acceptLanguageHdr)
	return h
}

func (f *NativeFetcher) resolveMediaURL(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build page request: %w", err)
	}
	req.Header = f.headers()
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.Request != nil && strings.HasPrefix(resp.Request.URL.Path, "/accounts/login") {
		return "", errLoginWall
	}
	if resp.StatusCode != http.StatusOK {
		return "", &httpStatusError{StatusCode: resp.StatusCode, Body: readErrorBody(resp)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", &pageShapeError{detail: fmt.Sprintf("parse page: %v", err)}
	}
	for _, selector := range []string{`meta[property="og:video:secure_url"]`, `meta[property="og:video"]`} {
		if content, ok := doc.Find(selector).First().Attr("content"); ok && strings.TrimSpace(content) != "" {
			return resolveReference(resp.Request.URL, strings.TrimSpace(content))
		}
	}
	if doc.Find(`form#loginForm, input[name="username"]`).Length() > 0 {
		return "", errLoginWall
	}
	return "", &pageShapeError{detail: "page has no og:video meta tag"}
}

func resolveReference(base *url.URL, ref string) (string, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", &pageShapeError{detail: fmt.Sprintf("invalid media URL %q", ref)}
	}
	if base == nil {
		return parsed.String(), nil
	}
	return base.ResolveReference(parsed).String(), nil
}
