package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	_ "modernc.org/sqlite"

	"github.com/IshaanNene/fightstats/internal/table"
	"github.com/IshaanNene/fightstats/internal/types"
)

// --- SQLite Storage ---

// SQLiteStorage writes each table to a SQLite table of the same name with
// every column typed TEXT. A stored table replaces the previous one.
type SQLiteStorage struct {
	db     *sql.DB
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewSQLiteStorage opens (or creates) the database file at path.
func NewSQLiteStorage(path string, logger *slog.Logger) (*SQLiteStorage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// One connection keeps ":memory:" databases coherent across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		path:   path,
		logger: logger.With("component", "sqlite_storage"),
	}, nil
}

func (s *SQLiteStorage) Name() string { return "sqlite" }

func (s *SQLiteStorage) Store(ctx context.Context, t *table.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fail := func(err error) error {
		return &types.StorageError{Backend: "sqlite", Table: t.Name, Err: err}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fail(fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback()

	name := quoteIdent(t.Name)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return fail(fmt.Errorf("drop table: %w", err))
	}

	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteIdent(c) + " TEXT"
		marks[i] = "?"
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(cols, ", "))); err != nil {
		return fail(fmt.Errorf("create table: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, strings.Join(marks, ", ")))
	if err != nil {
		return fail(fmt.Errorf("prepare insert: %w", err))
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fail(fmt.Errorf("insert row: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fail(fmt.Errorf("commit: %w", err))
	}

	s.logger.Info("table written", "path", s.path, "table", t.Name, "rows", t.Len())
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for read-back.
func (s *SQLiteStorage) DB() *sql.DB { return s.db }

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// --- MongoDB Storage ---

// MongoStorage writes each table to a collection of the same name,
// dropping the previous collection first. Documents keep column order.
type MongoStorage struct {
	client   *mongo.Client
	database *mongo.Database
	mu       sync.Mutex
	count    int
	logger   *slog.Logger
}

// NewMongoStorage connects to the MongoDB deployment at uri.
func NewMongoStorage(uri, database string, logger *slog.Logger) (*MongoStorage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoStorage{
		client:   client,
		database: client.Database(database),
		logger:   logger.With("component", "mongo_storage"),
	}, nil
}

func (s *MongoStorage) Name() string { return "mongodb" }

func (s *MongoStorage) Store(ctx context.Context, t *table.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.database.Collection(t.Name)
	if err := coll.Drop(ctx); err != nil {
		return &types.StorageError{Backend: "mongodb", Table: t.Name, Err: fmt.Errorf("drop collection: %w", err)}
	}
	if t.Len() == 0 {
		return nil
	}

	docs := rowDocuments(t)
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return &types.StorageError{Backend: "mongodb", Table: t.Name, Err: fmt.Errorf("insert: %w", err)}
	}

	s.count += len(docs)
	s.logger.Info("table written", "collection", t.Name, "rows", len(docs), "total", s.count)
	return nil
}

func (s *MongoStorage) Close() error {
	s.logger.Info("mongodb storage closing", "total_rows", s.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// rowDocuments converts rows to ordered BSON documents.
func rowDocuments(t *table.Table) []any {
	docs := make([]any, len(t.Rows))
	for r, row := range t.Rows {
		doc := make(bson.D, len(t.Columns))
		for i, c := range t.Columns {
			doc[i] = bson.E{Key: c, Value: row[i]}
		}
		docs[r] = doc
	}
	return docs
}

// --- Multi-Storage Fan-Out ---

// MultiStorage writes tables to multiple backends.
type MultiStorage struct {
	backends []Storage
	logger   *slog.Logger
}

// NewMultiStorage creates a storage that fans out to multiple backends.
func NewMultiStorage(backends []Storage, logger *slog.Logger) *MultiStorage {
	return &MultiStorage{
		backends: backends,
		logger:   logger.With("component", "multi_storage"),
	}
}

func (s *MultiStorage) Name() string { return "multi" }

func (s *MultiStorage) Store(ctx context.Context, t *table.Table) error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Store(ctx, t); err != nil {
			s.logger.Error("backend store failed", "backend", backend.Name(), "table", t.Name, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *MultiStorage) Close() error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
