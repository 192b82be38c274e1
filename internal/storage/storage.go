package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/fightstats/internal/config"
	"github.com/IshaanNene/fightstats/internal/table"
)

// Storage is the interface for all storage backends. Store replaces any
// previous copy of the table in the backend.
type Storage interface {
	// Store persists one assembled table.
	Store(ctx context.Context, t *table.Table) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// New builds the backends named in cfg.Type. Several backends are wrapped
// in a MultiStorage.
func New(cfg *config.StorageConfig, logger *slog.Logger) (Storage, error) {
	var backends []Storage
	closeAll := func() {
		for _, b := range backends {
			_ = b.Close()
		}
	}

	for _, kind := range cfg.Types() {
		var (
			b   Storage
			err error
		)
		switch kind {
		case "csv":
			b, err = NewCSVStorage(cfg.OutputPath, logger)
		case "json":
			b, err = NewJSONStorage(cfg.OutputPath, logger)
		case "jsonl":
			b, err = NewJSONLStorage(cfg.OutputPath, logger)
		case "sqlite":
			b, err = NewSQLiteStorage(cfg.SQLitePath, logger)
		case "mongodb":
			b, err = NewMongoStorage(cfg.MongoURI, cfg.MongoDatabase, logger)
		default:
			err = fmt.Errorf("unsupported storage type %q", kind)
		}
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("storage %s: %w", kind, err)
		}
		backends = append(backends, b)
	}

	switch len(backends) {
	case 0:
		return nil, fmt.Errorf("no storage backend configured")
	case 1:
		return backends[0], nil
	default:
		return NewMultiStorage(backends, logger), nil
	}
}
