package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/IshaanNene/fightstats/internal/table"
	"github.com/IshaanNene/fightstats/internal/types"
)

// fileSink writes each table to <dir>/<table name>.<ext>, replacing any
// earlier file of that name.
type fileSink struct {
	dir    string
	ext    string
	logger *slog.Logger
}

func newFileSink(dir, ext string, logger *slog.Logger) (fileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fileSink{}, fmt.Errorf("create output dir: %w", err)
	}
	return fileSink{
		dir:    dir,
		ext:    ext,
		logger: logger.With("component", ext+"_storage"),
	}, nil
}

// Path returns the file a table of the given name is written to.
func (s fileSink) Path(name string) string {
	return filepath.Join(s.dir, name+"."+s.ext)
}

func (s fileSink) write(t *table.Table, encode func(f *os.File) error) error {
	path := s.Path(t.Name)
	f, err := os.Create(path)
	if err != nil {
		return &types.StorageError{Backend: s.ext, Table: t.Name, Err: fmt.Errorf("create output file: %w", err)}
	}
	if err := encode(f); err != nil {
		f.Close()
		return &types.StorageError{Backend: s.ext, Table: t.Name, Err: err}
	}
	if err := f.Close(); err != nil {
		return &types.StorageError{Backend: s.ext, Table: t.Name, Err: err}
	}

	s.logger.Info("table written", "path", path, "rows", t.Len())
	return nil
}

// --- CSV Storage ---

// CSVStorage writes tables as CSV with a header row.
type CSVStorage struct {
	fileSink
}

// NewCSVStorage creates a CSV storage rooted at dir.
func NewCSVStorage(dir string, logger *slog.Logger) (*CSVStorage, error) {
	sink, err := newFileSink(dir, "csv", logger)
	if err != nil {
		return nil, err
	}
	return &CSVStorage{sink}, nil
}

func (s *CSVStorage) Name() string { return "csv" }

func (s *CSVStorage) Store(_ context.Context, t *table.Table) error {
	return s.write(t, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write(t.Columns); err != nil {
			return fmt.Errorf("write CSV header: %w", err)
		}
		if err := w.WriteAll(t.Rows); err != nil {
			return fmt.Errorf("write CSV rows: %w", err)
		}
		return nil
	})
}

func (s *CSVStorage) Close() error { return nil }

// --- JSON Storage ---

// JSONStorage writes tables as an indented JSON array of objects.
type JSONStorage struct {
	fileSink
}

// NewJSONStorage creates a JSON storage rooted at dir.
func NewJSONStorage(dir string, logger *slog.Logger) (*JSONStorage, error) {
	sink, err := newFileSink(dir, "json", logger)
	if err != nil {
		return nil, err
	}
	return &JSONStorage{sink}, nil
}

func (s *JSONStorage) Name() string { return "json" }

func (s *JSONStorage) Store(_ context.Context, t *table.Table) error {
	return s.write(t, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(t.Records()); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil
	})
}

func (s *JSONStorage) Close() error { return nil }

// --- JSONL Storage ---

// JSONLStorage writes tables as newline-delimited JSON, one row per line.
type JSONLStorage struct {
	fileSink
}

// NewJSONLStorage creates a JSONL storage rooted at dir.
func NewJSONLStorage(dir string, logger *slog.Logger) (*JSONLStorage, error) {
	sink, err := newFileSink(dir, "jsonl", logger)
	if err != nil {
		return nil, err
	}
	return &JSONLStorage{sink}, nil
}

func (s *JSONLStorage) Name() string { return "jsonl" }

func (s *JSONLStorage) Store(_ context.Context, t *table.Table) error {
	return s.write(t, func(f *os.File) error {
		enc := json.NewEncoder(f)
		for _, rec := range t.Records() {
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("encode JSONL: %w", err)
			}
		}
		return nil
	})
}

func (s *JSONLStorage) Close() error { return nil }
