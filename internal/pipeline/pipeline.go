package pipeline

import (
	"log/slog"

	"github.com/IshaanNene/fightstats/internal/types"
)

// Middleware processes a row and returns the (possibly modified) row.
// Return nil to drop the row from the pipeline.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms a row. Return nil to drop the row.
	Process(row []string) ([]string, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// ForColumns returns the standard pipeline for a table with the given
// columns: trim every cell, fill empty cells with the sentinel, then
// reject rows of the wrong width.
func ForColumns(columns []string, logger *slog.Logger) *Pipeline {
	p := New(logger)
	p.Use(&TrimMiddleware{})
	p.Use(&SentinelMiddleware{})
	p.Use(&WidthMiddleware{Width: len(columns)})
	return p
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the row through all middleware in order. A nil row with a
// nil error means the row was dropped.
func (p *Pipeline) Process(row []string) ([]string, error) {
	current := row

	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return nil, &types.PipelineError{
				Stage: mw.Name(),
				Row:   current,
				Err:   err,
			}
		}
		if result == nil {
			p.logger.Debug("row dropped", "stage", mw.Name())
			return nil, nil
		}
		current = result
	}

	return current, nil
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}
