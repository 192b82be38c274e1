package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters for a scrape run.
type Metrics struct {
	// Fetch metrics
	PagesFetched    atomic.Int64
	FetchErrors     atomic.Int64
	Responses4xx    atomic.Int64
	BytesDownloaded atomic.Int64

	// Row metrics
	RowsEmitted atomic.Int64
	RowsSkipped atomic.Int64 // malformed rows dropped by the skip policy or pipeline
	RowsOmitted atomic.Int64 // fights without statistics

	// Storage metrics
	TablesStored atomic.Int64

	ActiveWorkers atomic.Int32

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		kind  string
		value int64
	}{
		{"fightstats_pages_fetched_total", "Total pages fetched", "counter", m.PagesFetched.Load()},
		{"fightstats_fetch_errors_total", "Total transport failures", "counter", m.FetchErrors.Load()},
		{"fightstats_responses_4xx_total", "Total 4xx responses", "counter", m.Responses4xx.Load()},
		{"fightstats_bytes_downloaded_total", "Total bytes downloaded", "counter", m.BytesDownloaded.Load()},
		{"fightstats_rows_emitted_total", "Total rows emitted", "counter", m.RowsEmitted.Load()},
		{"fightstats_rows_skipped_total", "Total malformed rows skipped", "counter", m.RowsSkipped.Load()},
		{"fightstats_rows_omitted_total", "Total fights omitted for missing statistics", "counter", m.RowsOmitted.Load()},
		{"fightstats_tables_stored_total", "Total tables written to storage", "counter", m.TablesStored.Load()},
		{"fightstats_active_workers", "Currently active workers", "gauge", int64(m.ActiveWorkers.Load())},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s %s\n", metric.name, metric.kind)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// StartServer serves the metrics on port until ctx is done.
func (m *Metrics) StartServer(ctx context.Context, port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	m.logger.Info("metrics server starting", "addr", srv.Addr, "path", path)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("metrics server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"pages_fetched":    m.PagesFetched.Load(),
		"fetch_errors":     m.FetchErrors.Load(),
		"responses_4xx":    m.Responses4xx.Load(),
		"bytes_downloaded": m.BytesDownloaded.Load(),
		"rows_emitted":     m.RowsEmitted.Load(),
		"rows_skipped":     m.RowsSkipped.Load(),
		"rows_omitted":     m.RowsOmitted.Load(),
		"tables_stored":    m.TablesStored.Load(),
		"active_workers":   int64(m.ActiveWorkers.Load()),
	}
}
