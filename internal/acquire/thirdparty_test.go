package acquire

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"reelcheck/internal/services"
)

func newAPITestFetcher(t *testing.T, baseURL string) *APIFetcher {
	t.Helper()
	f, err := NewAPIFetcher(APIConfig{BaseURL: baseURL, Host: "api.test", APIKey: "secret", Timeout: time.Minute})
	if err != nil {
		t.Fatalf("NewAPIFetcher: %v", err)
	}
	return f
}

func TestAPIFetcherDownloadsFirstVideoVersion(t *testing.T) {
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/post_info", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-rapidapi-key") != "secret" || r.Header.Get("x-rapidapi-host") != "api.test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("code_or_id_or_url") != "ABC123" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `{"data":{"items":[{"video_versions":[{"url":%q},{"url":"%s/other.mp4"}]}]}}`, srv.URL+"/cdn/first.mp4", srv.URL)
	})
	mux.HandleFunc("/cdn/first.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("first"))
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	res, err := newAPITestFetcher(t, srv.URL).Fetch(context.Background(), testRef, newArea(t))
	if err != nil || !res.OK {
		t.Fatalf("expected success, res=%+v err=%v", res, err)
	}
	data, _ := os.ReadFile(res.VideoPath)
	if string(data) != "first" {
		t.Fatalf("expected first variant to be downloaded, got %q", data)
	}
}

func TestAPIFetcherShapeMismatchIsMalformed(t *testing.T) {
	bodies := []string{
		`not json`,
		`{"status":"ok"}`,
		`{"data":{"items":[]}}`,
		`{"data":{"items":[{"image_versions":[{"url":"x"}]}]}}`,
		`{"data":{"items":[{"video_versions":[{"url":""}]}]}}`,
	}
	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		}))
		res, err := newAPITestFetcher(t, srv.URL).Fetch(context.Background(), testRef, newArea(t))
		srv.Close()
		if err != nil {
			t.Fatalf("body %q: expected clean failure, got %v", body, err)
		}
		if res.Reason != ReasonMalformed {
			t.Fatalf("body %q: expected malformed_response, got %+v", body, res)
		}
	}
}

func TestAPIFetcherStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		want   Reason
	}{
		{http.StatusTooManyRequests, ReasonRateLimited},
		{http.StatusForbidden, ReasonAuthRequired},
		{http.StatusNotFound, ReasonNotFound},
		{http.StatusBadGateway, ReasonNetwork},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tt.status)
		}))
		res, err := newAPITestFetcher(t, srv.URL).Fetch(context.Background(), testRef, newArea(t))
		srv.Close()
		if err != nil {
			t.Fatalf("status %d: unexpected error %v", tt.status, err)
		}
		if res.Reason != tt.want {
			t.Fatalf("status %d: expected %s, got %+v", tt.status, tt.want, res)
		}
	}
}

func TestAPIFetcherNetworkFailureIsDistinctFromShape(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	res, err := newAPITestFetcher(t, base).Fetch(context.Background(), testRef, newArea(t))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if res.Reason != ReasonNetwork {
		t.Fatalf("expected network failure, got %+v", res)
	}
}

func TestNewAPIFetcherRequiresKey(t *testing.T) {
	_, err := NewAPIFetcher(APIConfig{BaseURL: "https://example.test"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
