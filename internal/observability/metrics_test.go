package observability

import (
	"log/slog"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics(testLogger)
	m.PagesFetched.Add(42)
	m.BytesDownloaded.Add(1024 * 1024)
	m.RowsOmitted.Add(3)

	snap := m.Snapshot()
	if snap["pages_fetched"] != 42 {
		t.Errorf("expected 42 pages_fetched, got %d", snap["pages_fetched"])
	}
	if snap["bytes_downloaded"] != 1048576 {
		t.Errorf("expected 1048576 bytes, got %d", snap["bytes_downloaded"])
	}
	if snap["rows_omitted"] != 3 {
		t.Errorf("expected 3 rows_omitted, got %d", snap["rows_omitted"])
	}
}

func TestMetricsServeHTTP(t *testing.T) {
	m := NewMetrics(testLogger)
	m.RowsEmitted.Add(7)
	m.ActiveWorkers.Add(2)

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "fightstats_rows_emitted_total 7") {
		t.Errorf("missing rows_emitted sample:\n%s", body)
	}
	if !strings.Contains(body, "# TYPE fightstats_active_workers gauge") {
		t.Errorf("active workers should be a gauge:\n%s", body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected content type %q", ct)
	}
}
