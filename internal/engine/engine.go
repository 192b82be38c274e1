package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/fightstats/internal/config"
	"github.com/IshaanNene/fightstats/internal/fetcher"
	"github.com/IshaanNene/fightstats/internal/observability"
	"github.com/IshaanNene/fightstats/internal/parser"
	"github.com/IshaanNene/fightstats/internal/pipeline"
	"github.com/IshaanNene/fightstats/internal/schema"
	"github.com/IshaanNene/fightstats/internal/table"
	"github.com/IshaanNene/fightstats/internal/types"
)

// Table names as written to storage.
const (
	FightersTable = "fighters"
	FightsTable   = "fights"
	RankingsTable = "rankings"
)

// Engine runs the listing walkers. It owns the fetcher, which is the one
// HTTP session shared by every page of a run.
type Engine struct {
	config  *config.Config
	fetcher fetcher.Fetcher
	schema  *schema.Schema
	parsers *parser.Parsers
	metrics *observability.Metrics
	logger  *slog.Logger
}

// New creates an engine that fetches through f. The schema is loaded from
// cfg.Scraper.SchemaFile, or the built-in default when that is empty.
func New(cfg *config.Config, f fetcher.Fetcher, metrics *observability.Metrics, logger *slog.Logger) (*Engine, error) {
	s, err := schema.Load(cfg.Scraper.SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if metrics == nil {
		metrics = observability.NewMetrics(logger)
	}

	return &Engine{
		config:  cfg,
		fetcher: f,
		schema:  s,
		parsers: parser.New(s, logger),
		metrics: metrics,
		logger:  logger.With("component", "engine"),
	}, nil
}

// Close releases the fetcher.
func (e *Engine) Close() error {
	return e.fetcher.Close()
}

// Schema returns the document schema in use.
func (e *Engine) Schema() *schema.Schema { return e.schema }

// Metrics returns the run counters.
func (e *Engine) Metrics() *observability.Metrics { return e.metrics }

// fetchDoc fetches rawURL and parses it. Non-2xx pages that the fetcher
// passes through are still parsed; their locators simply miss.
func (e *Engine) fetchDoc(ctx context.Context, rawURL, tag string) (*goquery.Document, error) {
	req, err := types.NewRequest(rawURL, tag)
	if err != nil {
		return nil, err
	}

	resp, err := e.fetcher.Fetch(ctx, req)
	if err != nil {
		e.metrics.FetchErrors.Add(1)
		return nil, err
	}
	e.metrics.PagesFetched.Add(1)
	e.metrics.BytesDownloaded.Add(int64(len(resp.Body)))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		e.metrics.Responses4xx.Add(1)
	}

	doc, err := resp.Document()
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("parse document: %w", err)}
	}
	return doc, nil
}

// skip reports whether err is a per-row defect the run may continue past,
// and records it when so. source is the page URL or table name.
func (e *Engine) skip(err error, source string) bool {
	if !e.config.Scraper.SkipMalformed {
		return false
	}
	var splitErr *types.SplitError
	var pipeErr *types.PipelineError
	if !errors.As(err, &splitErr) && !errors.As(err, &pipeErr) {
		return false
	}
	e.metrics.RowsSkipped.Add(1)
	e.logger.Warn("malformed row skipped", "source", source, "error", err)
	return true
}

// assemble runs rows through p in order and builds the named table.
func (e *Engine) assemble(name string, columns []string, rows [][]string, p *pipeline.Pipeline) (*table.Table, error) {
	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		out, err := p.Process(row)
		if err != nil {
			if e.skip(err, name) {
				continue
			}
			return nil, err
		}
		if out == nil {
			continue
		}
		kept = append(kept, out)
	}

	t, err := table.New(name, columns, kept)
	if err != nil {
		return nil, err
	}
	e.metrics.RowsEmitted.Add(int64(t.Len()))
	e.logger.Info("table assembled", "table", name, "rows", t.Len(), "dropped", len(rows)-t.Len())
	return t, nil
}
