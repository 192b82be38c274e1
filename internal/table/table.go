// Package table assembles parsed rows into labelled, fixed-width tables.
package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	pretty "github.com/jedib0t/go-pretty/v6/table"

	"github.com/IshaanNene/fightstats/internal/types"
)

// Table is an ordered set of rows under one column schema.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// New zips rows with the column labels. Every row must have exactly one
// cell per column; the first row that does not yields ErrColumnMismatch.
func New(name string, columns []string, rows [][]string) (*Table, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("table %s row %d: %w (got %d cells, want %d)",
				name, i, types.ErrColumnMismatch, len(row), len(columns))
		}
	}
	if rows == nil {
		rows = [][]string{}
	}
	return &Table{Name: name, Columns: columns, Rows: rows}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Head returns up to the first n rows.
func (t *Table) Head(n int) [][]string {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// Index returns the position of the column label, or -1.
func (t *Table) Index(label string) int {
	for i, c := range t.Columns {
		if c == label {
			return i
		}
	}
	return -1
}

// Column returns every value of the labelled column in row order.
func (t *Table) Column(label string) ([]string, bool) {
	i := t.Index(label)
	if i < 0 {
		return nil, false
	}
	values := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		values[r] = row[i]
	}
	return values, true
}

// Record is one row paired with its column labels. It marshals to a JSON
// object whose keys follow the column order.
type Record struct {
	Columns []string
	Values  []string
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Records returns each row as a Record sharing the table's columns.
func (t *Table) Records() []Record {
	records := make([]Record, len(t.Rows))
	for r, row := range t.Rows {
		records[r] = Record{Columns: t.Columns, Values: row}
	}
	return records
}

// Render writes the first n rows (all rows when n <= 0) as a text table.
func (t *Table) Render(w io.Writer, n int) {
	if n <= 0 {
		n = len(t.Rows)
	}
	head := t.Head(n)

	tw := pretty.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(pretty.StyleRounded)
	tw.SetTitle(t.Name)

	header := make(pretty.Row, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	tw.AppendHeader(header)

	for _, row := range head {
		r := make(pretty.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}
	tw.SetCaption("%d of %d rows", len(head), len(t.Rows))
	tw.Render()
}
