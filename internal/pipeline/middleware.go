package pipeline

import (
	"fmt"
	"strings"
	"sync"

	"github.com/IshaanNene/fightstats/internal/types"
)

// TrimMiddleware trims every cell and collapses internal whitespace runs
// to a single space. Free-text cells such as fight details span several
// lines in the page source.
type TrimMiddleware struct{}

func (m *TrimMiddleware) Name() string { return "trim" }

func (m *TrimMiddleware) Process(row []string) ([]string, error) {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.Join(strings.Fields(cell), " ")
	}
	return out, nil
}

// SentinelMiddleware replaces empty cells with the sentinel.
type SentinelMiddleware struct{}

func (m *SentinelMiddleware) Name() string { return "sentinel" }

func (m *SentinelMiddleware) Process(row []string) ([]string, error) {
	for i, cell := range row {
		if cell == "" {
			row[i] = types.Sentinel
		}
	}
	return row, nil
}

// WidthMiddleware rejects rows whose width differs from the table schema.
type WidthMiddleware struct {
	Width int
}

func (m *WidthMiddleware) Name() string { return "width" }

func (m *WidthMiddleware) Process(row []string) ([]string, error) {
	if len(row) != m.Width {
		return nil, fmt.Errorf("%w: got %d cells, want %d", types.ErrColumnMismatch, len(row), m.Width)
	}
	return row, nil
}

// DedupMiddleware drops rows whose key columns repeat an earlier row.
type DedupMiddleware struct {
	mu   sync.Mutex
	seen map[string]struct{}
	key  []int // column indexes forming the key; empty means the whole row
}

// NewDedupMiddleware creates a dedup stage keyed on the given column
// indexes.
func NewDedupMiddleware(key ...int) *DedupMiddleware {
	return &DedupMiddleware{
		seen: make(map[string]struct{}),
		key:  key,
	}
}

func (m *DedupMiddleware) Name() string { return "dedup" }

func (m *DedupMiddleware) Process(row []string) ([]string, error) {
	parts := row
	if len(m.key) > 0 {
		parts = make([]string, 0, len(m.key))
		for _, i := range m.key {
			if i < 0 || i >= len(row) {
				return nil, fmt.Errorf("dedup key column %d out of range for %d cells", i, len(row))
			}
			parts = append(parts, row[i])
		}
	}
	k := strings.Join(parts, "\x1f")

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.seen[k]; exists {
		return nil, nil
	}
	m.seen[k] = struct{}{}
	return row, nil
}
