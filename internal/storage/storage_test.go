package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/IshaanNene/fightstats/internal/config"
	"github.com/IshaanNene/fightstats/internal/table"
	"github.com/IshaanNene/fightstats/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func rankingsTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New("rankings", types.RankingColumns, [][]string{
		{"Jon Jones", "C", "Heavyweight"},
		{"Tom Aspinall", "1", "Heavyweight"},
	})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	return tbl
}

func TestCSVStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCSVStorage(dir, testLogger)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer s.Close()

	if err := s.Store(context.Background(), rankingsTable(t)); err != nil {
		t.Fatalf("store: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "rankings.csv"))
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	want := [][]string{
		{"fighter", "ranking", "weight_class"},
		{"Jon Jones", "C", "Heavyweight"},
		{"Tom Aspinall", "1", "Heavyweight"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("csv (-want +got):\n%s", diff)
	}
}

func TestCSVStorageReplaces(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewCSVStorage(dir, testLogger)

	_ = s.Store(context.Background(), rankingsTable(t))
	empty, _ := table.New("rankings", types.RankingColumns, nil)
	if err := s.Store(context.Background(), empty); err != nil {
		t.Fatalf("store: %v", err)
	}

	data, err := os.ReadFile(s.Path("rankings"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "fighter,ranking,weight_class\n" {
		t.Errorf("expected header only after replace, got %q", data)
	}
}

func TestJSONStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStorage(dir, testLogger)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Store(context.Background(), rankingsTable(t)); err != nil {
		t.Fatalf("store: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "rankings.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got []map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[1]["fighter"] != "Tom Aspinall" || got[0]["ranking"] != "C" {
		t.Errorf("unexpected JSON content: %v", got)
	}
}

func TestJSONLStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONLStorage(dir, testLogger)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Store(context.Background(), rankingsTable(t)); err != nil {
		t.Fatalf("store: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "rankings.jsonl"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	lines := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec map[string]string
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("line %d: %v", lines, err)
		}
		if rec["weight_class"] != "Heavyweight" {
			t.Errorf("line %d: unexpected record %v", lines, rec)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("expected 2 lines, got %d", lines)
	}
}

// jsonKeys returns the object keys of a JSON document in the order they
// were written.
func jsonKeys(t *testing.T, data []byte) []string {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		t.Fatalf("expected object, got %v (%v)", tok, err)
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			t.Fatalf("key token: %v", err)
		}
		keys = append(keys, tok.(string))
		if _, err := dec.Token(); err != nil {
			t.Fatalf("value token: %v", err)
		}
	}
	return keys
}

func TestJSONSinksKeepColumnOrder(t *testing.T) {
	row := make([]string, len(types.FightColumns))
	for i := range row {
		row[i] = types.Sentinel
	}
	fights, err := table.New("fights", types.FightColumns, [][]string{row})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}

	dir := t.TempDir()
	jsonl, _ := NewJSONLStorage(dir, testLogger)
	if err := jsonl.Store(context.Background(), fights); err != nil {
		t.Fatalf("store jsonl: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "fights.jsonl"))
	if err != nil {
		t.Fatalf("read jsonl: %v", err)
	}
	if diff := cmp.Diff(types.FightColumns, jsonKeys(t, data)); diff != "" {
		t.Errorf("jsonl key order (-want +got):\n%s", diff)
	}

	js, _ := NewJSONStorage(dir, testLogger)
	if err := js.Store(context.Background(), fights); err != nil {
		t.Fatalf("store json: %v", err)
	}
	data, err = os.ReadFile(filepath.Join(dir, "fights.json"))
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var objects []json.RawMessage
	if err := json.Unmarshal(data, &objects); err != nil || len(objects) != 1 {
		t.Fatalf("decode json array: %v (%d objects)", err, len(objects))
	}
	if diff := cmp.Diff(types.FightColumns, jsonKeys(t, objects[0])); diff != "" {
		t.Errorf("json key order (-want +got):\n%s", diff)
	}
}

func TestSQLiteStorage(t *testing.T) {
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "db", "fightstats.db"), testLogger)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Store(ctx, rankingsTable(t)); err != nil {
		t.Fatalf("store: %v", err)
	}
	// A second store replaces rather than appends.
	if err := s.Store(ctx, rankingsTable(t)); err != nil {
		t.Fatalf("second store: %v", err)
	}

	rows, err := s.DB().QueryContext(ctx, `SELECT fighter, ranking, weight_class FROM rankings ORDER BY rowid`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	var got [][]string
	for rows.Next() {
		var f, r, w string
		if err := rows.Scan(&f, &r, &w); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, []string{f, r, w})
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}

	want := [][]string{
		{"Jon Jones", "C", "Heavyweight"},
		{"Tom Aspinall", "1", "Heavyweight"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sqlite rows (-want +got):\n%s", diff)
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent(`we"ird`); got != `"we""ird"` {
		t.Errorf("unexpected quoting: %s", got)
	}
}

func TestRowDocumentsKeepColumnOrder(t *testing.T) {
	docs := rowDocuments(rankingsTable(t))
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	want := bson.D{{Key: "fighter", Value: "Jon Jones"}, {Key: "ranking", Value: "C"}, {Key: "weight_class", Value: "Heavyweight"}}
	if diff := cmp.Diff(want, docs[0]); diff != "" {
		t.Errorf("document (-want +got):\n%s", diff)
	}
}

type failingStorage struct{ stored int }

func (f *failingStorage) Store(context.Context, *table.Table) error {
	f.stored++
	return errors.New("disk full")
}
func (f *failingStorage) Close() error { return nil }
func (f *failingStorage) Name() string { return "failing" }

func TestMultiStorage(t *testing.T) {
	dir := t.TempDir()
	csvStore, _ := NewCSVStorage(dir, testLogger)
	bad := &failingStorage{}

	m := NewMultiStorage([]Storage{bad, csvStore}, testLogger)
	err := m.Store(context.Background(), rankingsTable(t))
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("expected first backend error, got %v", err)
	}
	if bad.stored != 1 {
		t.Errorf("expected failing backend to be called once, got %d", bad.stored)
	}
	if _, err := os.Stat(filepath.Join(dir, "rankings.csv")); err != nil {
		t.Errorf("later backends should still run: %v", err)
	}
}

func TestNewFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig().Storage
	cfg.OutputPath = dir
	cfg.SQLitePath = filepath.Join(dir, "fightstats.db")

	cfg.Type = "csv"
	s, err := New(&cfg, testLogger)
	if err != nil {
		t.Fatalf("new csv: %v", err)
	}
	if s.Name() != "csv" {
		t.Errorf("expected csv backend, got %s", s.Name())
	}
	s.Close()

	cfg.Type = "json, sqlite"
	s, err = New(&cfg, testLogger)
	if err != nil {
		t.Fatalf("new multi: %v", err)
	}
	defer s.Close()
	if s.Name() != "multi" {
		t.Errorf("expected multi backend, got %s", s.Name())
	}

	cfg.Type = "parquet"
	if _, err := New(&cfg, testLogger); err == nil {
		t.Error("expected error for unsupported type")
	}
}
