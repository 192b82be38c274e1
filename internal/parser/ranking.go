package parser

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/fightstats/internal/schema"
	"github.com/IshaanNene/fightstats/internal/types"
)

// RankingParser turns the rankings page into one record per ranked
// fighter per weight class.
type RankingParser struct {
	schema schema.RankingSchema
	logger *slog.Logger
}

// NewRankingParser creates a rankings page parser.
func NewRankingParser(s schema.RankingSchema, logger *slog.Logger) *RankingParser {
	return &RankingParser{
		schema: s,
		logger: logger.With("component", "ranking_parser"),
	}
}

// Parse returns the rankings in page order: groupings in document order,
// rows within a grouping in table order. Empty groupings contribute
// nothing.
func (p *RankingParser) Parse(doc *goquery.Selection) []types.RankingRecord {
	var records []types.RankingRecord

	Find(doc, p.schema.Group).Each(func(_ int, group *goquery.Selection) {
		rows := Find(group, p.schema.Row)
		if rows.Length() == 0 {
			return
		}

		class := Optional(group, p.schema.Label)
		rows.Each(func(_ int, row *goquery.Selection) {
			records = append(records, types.RankingRecord{
				Fighter:     Optional(row, p.schema.Name),
				Rank:        Optional(row, p.schema.Rank),
				WeightClass: class,
			})
		})
		p.logger.Debug("parsed weight class", "class", class, "rows", rows.Length())
	})

	return records
}
