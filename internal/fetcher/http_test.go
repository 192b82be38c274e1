package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/IshaanNene/fightstats/internal/config"
	"github.com/IshaanNene/fightstats/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func testFetcherConfig() *config.FetcherConfig {
	cfg := config.DefaultConfig().Fetcher
	cfg.RateLimit = 0
	return &cfg
}

func newTestFetcher(t *testing.T, cfg *config.FetcherConfig) *HTTPFetcher {
	t.Helper()
	f, err := NewHTTPFetcher(cfg, testLogger)
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func mustRequest(t *testing.T, rawURL string) *types.Request {
	t.Helper()
	req, err := types.NewRequest(rawURL, types.TagFighter)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	return req
}

func TestHTTPFetcherFetch(t *testing.T) {
	var gotUA, gotEncoding string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotEncoding = r.Header.Get("Accept-Encoding")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><span class="b-content__title-highlight">Jon Jones</span></body></html>`))
	}))
	defer srv.Close()

	f := newTestFetcher(t, testFetcherConfig())
	resp, err := f.Fetch(context.Background(), mustRequest(t, srv.URL+"/fighter-details/1"))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if resp.StatusCode != 200 || !resp.IsSuccess() {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(gotUA, "Mozilla") {
		t.Errorf("expected a rotated browser user agent, got %q", gotUA)
	}
	if gotEncoding != "gzip, deflate, br" {
		t.Errorf("unexpected Accept-Encoding %q", gotEncoding)
	}

	doc, err := resp.Document()
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if got := doc.Find("span.b-content__title-highlight").Text(); got != "Jon Jones" {
		t.Errorf("expected Jon Jones, got %q", got)
	}
	if doc.Url == nil || doc.Url.Path != "/fighter-details/1" {
		t.Errorf("document url not set from final url: %v", doc.Url)
	}
}

func TestHTTPFetcherDecompression(t *testing.T) {
	const page = "<html><body>compressed</body></html>"

	encoders := map[string]func(*bytes.Buffer){
		"gzip": func(b *bytes.Buffer) {
			zw := gzip.NewWriter(b)
			_, _ = zw.Write([]byte(page))
			_ = zw.Close()
		},
		"br": func(b *bytes.Buffer) {
			bw := brotli.NewWriter(b)
			_, _ = bw.Write([]byte(page))
			_ = bw.Close()
		},
	}

	for encoding, encode := range encoders {
		t.Run(encoding, func(t *testing.T) {
			var buf bytes.Buffer
			encode(&buf)

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Encoding", encoding)
				_, _ = w.Write(buf.Bytes())
			}))
			defer srv.Close()

			resp, err := newTestFetcher(t, testFetcherConfig()).Fetch(context.Background(), mustRequest(t, srv.URL))
			if err != nil {
				t.Fatalf("fetch: %v", err)
			}
			if string(resp.Body) != page {
				t.Errorf("expected decoded body, got %q", resp.Body)
			}
		})
	}
}

func TestHTTPFetcherServerErrors(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "3")
			w.WriteHeader(status)
		}))

		_, err := newTestFetcher(t, testFetcherConfig()).Fetch(context.Background(), mustRequest(t, srv.URL))
		srv.Close()

		var fe *types.FetchError
		if !errors.As(err, &fe) {
			t.Errorf("status %d: expected FetchError, got %v", status, err)
			continue
		}
		if fe.StatusCode != status {
			t.Errorf("expected status %d on error, got %d", status, fe.StatusCode)
		}
	}
}

func TestHTTPFetcherClientErrorReturnsResponse(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	resp, err := newTestFetcher(t, testFetcherConfig()).Fetch(context.Background(), mustRequest(t, srv.URL))
	if err != nil {
		t.Fatalf("404 should not be a transport error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound || resp.IsSuccess() {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestHTTPFetcherTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := newTestFetcher(t, testFetcherConfig()).Fetch(context.Background(), mustRequest(t, addr))

	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.URL != addr {
		t.Errorf("expected url %q on error, got %q", addr, fe.URL)
	}
}

func TestHTTPFetcherKeepsSession(t *testing.T) {
	var sawCookie bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err == nil && c.Value == "abc" {
			sawCookie = true
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	f := newTestFetcher(t, testFetcherConfig())
	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background(), mustRequest(t, srv.URL)); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if !sawCookie {
		t.Error("expected the second request to carry the session cookie")
	}
}

func TestHTTPFetcherMaxBodySize(t *testing.T) {
	var rows strings.Builder
	rows.WriteString("<html><body><table><tbody>")
	for i := 0; i < 200; i++ {
		rows.WriteString(`<tr class="r"><td>fighter</td></tr>`)
	}
	rows.WriteString("</tbody></table></body></html>")
	page := rows.String()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	cfg := testFetcherConfig()
	cfg.MaxBodySize = 1024
	resp, err := newTestFetcher(t, cfg).Fetch(context.Background(), mustRequest(t, srv.URL))

	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError for oversized body, got resp=%v err=%v", resp, err)
	}
	if fe.StatusCode != http.StatusOK || !strings.Contains(fe.Error(), "body exceeds 1024 bytes") {
		t.Errorf("unexpected error: %v", fe)
	}
}

func TestHTTPFetcherBodyAtLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 10)))
	}))
	defer srv.Close()

	cfg := testFetcherConfig()
	cfg.MaxBodySize = 10
	resp, err := newTestFetcher(t, cfg).Fetch(context.Background(), mustRequest(t, srv.URL))
	if err != nil {
		t.Fatalf("body of exactly the limit should pass: %v", err)
	}
	if len(resp.Body) != 10 {
		t.Errorf("expected 10 bytes, got %d", len(resp.Body))
	}
}

func TestHTTPFetcherRateLimitHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	cfg := testFetcherConfig()
	cfg.RateLimit = 0.01
	cfg.Burst = 1
	f := newTestFetcher(t, cfg)

	if _, err := f.Fetch(context.Background(), mustRequest(t, srv.URL)); err != nil {
		t.Fatalf("first fetch should use the burst token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := f.Fetch(ctx, mustRequest(t, srv.URL))

	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError from limiter, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter("7"); got != 7*time.Second {
		t.Errorf("expected 7s, got %v", got)
	}
	if got := parseRetryAfter(""); got != 5*time.Second {
		t.Errorf("expected 5s default, got %v", got)
	}
	if got := parseRetryAfter("garbage"); got != 5*time.Second {
		t.Errorf("expected 5s fallback, got %v", got)
	}
}

func TestNewSelectsFetcher(t *testing.T) {
	cfg := config.DefaultConfig()

	f, err := New(cfg, testLogger)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer f.Close()
	if f.Type() != "http" {
		t.Errorf("expected http fetcher, got %s", f.Type())
	}

	cfg.Fetcher.Type = "curl"
	if _, err := New(cfg, testLogger); err == nil {
		t.Error("expected error for unknown fetcher type")
	}
}
