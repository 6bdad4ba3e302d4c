package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"reelcheck/internal/textutil"
)

const (
	videoFileName     = "video.mp4"
	errorBodyLimit    = 2048
	diagnosticLimit   = 300
	acceptLanguageHdr = "en-US,en;q=0.9"
)

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

func reasonForStatus(code int) Reason {
	switch {
	case code == http.StatusTooManyRequests:
		return ReasonRateLimited
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ReasonAuthRequired
	case code == http.StatusNotFound || code == http.StatusGone:
		return ReasonNotFound
	default:
		return ReasonNetwork
	}
}

// failureFromError maps a transport or status error to a clean failure.
func failureFromError(stage string, err error) Result {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return failure(reasonForStatus(statusErr.StatusCode), "%s: %s", stage, textutil.Truncate(statusErr.Error(), diagnosticLimit))
	}
	return failure(ReasonNetwork, "%s: %s", stage, textutil.Truncate(err.Error(), diagnosticLimit))
}

func readErrorBody(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	return textutil.Truncate(strings.TrimSpace(string(body)), 200)
}

// downloadToFile streams mediaURL into dest through a temporary sibling file.
func downloadToFile(ctx context.Context, client *http.Client, mediaURL string, header http.Header, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build media request: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &httpStatusError{StatusCode: resp.StatusCode, Body: readErrorBody(resp)}
	}

	tmp := dest + ".part"
	file, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", tmp, err)
	}
	written, copyErr := io.Copy(file, resp.Body)
	closeErr := file.Close()
	if copyErr != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("write media: %w", copyErr)
	}
	if closeErr != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("close media file: %w", closeErr)
	}
	if written == 0 {
		_ = os.Remove(tmp)
		return 0, errors.New("media response was empty")
	}
	if err := os.Rename(tmp, dest); err != nil {
		return 0, fmt.Errorf("finalize media file: %w", err)
	}
	return written, nil
}
