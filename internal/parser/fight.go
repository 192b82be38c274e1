package parser

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/fightstats/internal/schema"
	"github.com/IshaanNene/fightstats/internal/types"
)

// FightParser turns a fight detail page into a FightRecord.
type FightParser struct {
	schema schema.FightSchema
	logger *slog.Logger
}

// NewFightParser creates a fight detail parser.
func NewFightParser(s schema.FightSchema, logger *slog.Logger) *FightParser {
	return &FightParser{
		schema: s,
		logger: logger.With("component", "fight_parser"),
	}
}

// Parse extracts one fight from doc. It reports ok=false, with no error,
// when the page carries fewer than two statistics tables: such bouts have
// no recorded statistics and produce no row. Date and Location are left
// for the caller, which knows them from the event listing.
func (p *FightParser) Parse(doc *goquery.Selection, pageURL string) (rec types.FightRecord, ok bool, err error) {
	tables := p.statTables(doc)
	if len(tables) < 2 {
		p.logger.Debug("fight has no statistics", "url", pageURL, "tables", len(tables))
		return types.FightRecord{}, false, nil
	}

	rec.Title = Optional(doc, p.schema.Title)
	rec.Method = types.Sentinel
	if item, found := Node(doc, p.schema.MethodItem); found {
		rec.Method = Optional(item, p.schema.MethodValue)
	}

	if err := p.scalars(doc, &rec, pageURL); err != nil {
		return types.FightRecord{}, false, err
	}

	rec.Details = types.Sentinel
	if text, found := Text(doc, p.schema.DetailText); found {
		text = strings.TrimSpace(strings.TrimPrefix(text, p.schema.DetailsPrefix))
		rec.Details = orSentinel(text)
	}

	persons := Find(doc, p.schema.Person)
	rec.Red = p.corner(doc, persons, 0)
	rec.Blue = p.corner(doc, persons, 1)

	rec.Stats = append(
		p.cellPairs(tables[0], p.schema.TotalsCell, 0),
		p.cellPairs(tables[1], p.schema.StrikesCell, p.schema.StrikesSkip)...,
	)

	return rec, true, nil
}

// statTables returns the summary tables of doc: every table at a multiple
// of the schema stride.
func (p *FightParser) statTables(doc *goquery.Selection) []*goquery.Selection {
	all := Find(doc, p.schema.Table)
	var tables []*goquery.Selection
	for i := 0; i < all.Length(); i += p.schema.TableStride {
		tables = append(tables, all.Eq(i))
	}
	return tables
}

// scalars fills round, time, time format and referee from the first
// labelled text items.
func (p *FightParser) scalars(doc *goquery.Selection, rec *types.FightRecord, pageURL string) error {
	fields := []struct {
		name string
		dst  *string
	}{
		{"round", &rec.Round},
		{"time", &rec.Time},
		{"time_format", &rec.TimeFormat},
		{"ref", &rec.Referee},
	}

	items := Find(doc, p.schema.TextItem)
	for i, f := range fields[:schema.BoutScalarFields] {
		*f.dst = types.Sentinel
		if i >= items.Length() {
			continue
		}
		v, err := SplitField(StrippedText(items.Eq(i)), p.schema.FieldSeparator)
		if err != nil {
			return withContext(err, f.name, pageURL)
		}
		*f.dst = orSentinel(v)
	}
	return nil
}

func (p *FightParser) corner(doc, persons *goquery.Selection, i int) types.Corner {
	c := types.Corner{
		Outcome:  types.Sentinel,
		Nickname: types.Sentinel,
		URL:      Optional(doc, p.schema.PersonLink.At(i)),
	}
	if i < persons.Length() {
		person := persons.Eq(i)
		c.Outcome = Optional(person, p.schema.Outcome)
		c.Nickname = Optional(person, p.schema.Nickname)
	}
	return c
}

// cellPairs reads the red and blue values stacked in each cell of table's
// body, from index skip onward.
func (p *FightParser) cellPairs(table *goquery.Selection, cell schema.Locator, skip int) []types.StatPair {
	body := table
	if !p.schema.TableBody.IsZero() {
		b, found := Node(table, p.schema.TableBody)
		if !found {
			return nil
		}
		body = b
	}

	cells := Find(body, cell)
	pairs := make([]types.StatPair, 0, max(cells.Length()-skip, 0))
	for i := skip; i < cells.Length(); i++ {
		values := Find(cells.Eq(i), p.schema.CellValue)
		pair := types.StatPair{Red: types.Sentinel, Blue: types.Sentinel}
		if values.Length() > 0 {
			pair.Red = orSentinel(StrippedText(values.Eq(0)))
		}
		if values.Length() > 1 {
			pair.Blue = orSentinel(StrippedText(values.Eq(1)))
		}
		pairs = append(pairs, pair)
	}
	return pairs
}
