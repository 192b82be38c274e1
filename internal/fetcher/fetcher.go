package fetcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/fightstats/internal/config"
	"github.com/IshaanNene/fightstats/internal/types"
)

// Fetcher is the interface for all request fetcher implementations. One
// Fetcher is the session shared by every walker of a run.
type Fetcher interface {
	// Fetch retrieves the content at the given request's URL.
	Fetch(ctx context.Context, req *types.Request) (*types.Response, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns the fetcher type identifier.
	Type() string
}

// New returns the fetcher selected by cfg.Fetcher.Type.
func New(cfg *config.Config, logger *slog.Logger) (Fetcher, error) {
	switch cfg.Fetcher.Type {
	case "", "http":
		return NewHTTPFetcher(&cfg.Fetcher, logger)
	case "browser":
		return NewBrowserFetcher(&cfg.Fetcher, cfg.Scraper.Concurrency, logger)
	default:
		return nil, fmt.Errorf("unknown fetcher type %q", cfg.Fetcher.Type)
	}
}
