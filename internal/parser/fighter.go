package parser

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/fightstats/internal/schema"
	"github.com/IshaanNene/fightstats/internal/types"
)

// FighterParser turns a fighter profile page into a FighterRecord.
type FighterParser struct {
	schema schema.FighterSchema
	logger *slog.Logger
}

// NewFighterParser creates a fighter profile parser.
func NewFighterParser(s schema.FighterSchema, logger *slog.Logger) *FighterParser {
	return &FighterParser{
		schema: s,
		logger: logger.With("component", "fighter_parser"),
	}
}

// Parse extracts one fighter from doc. The ID is left for the caller to
// assign. A missing name node is an ExtractionError; a box item or record
// without its delimiter is a SplitError.
func (p *FighterParser) Parse(doc *goquery.Selection, pageURL string) (types.FighterRecord, error) {
	nameNode, err := Required(doc, p.schema.Name, "name", pageURL)
	if err != nil {
		return types.FighterRecord{}, err
	}

	rec := types.FighterRecord{
		Name:     StrippedText(nameNode),
		Nickname: Optional(doc, p.schema.Nickname),
		Wins:     types.Sentinel,
		Losses:   types.Sentinel,
		Draws:    types.Sentinel,
		URL:      pageURL,
	}

	if text, ok := Text(doc, p.schema.Record); ok {
		w, l, d, err := SplitRecord(text, p.schema.RecordPrefix)
		if err != nil {
			return types.FighterRecord{}, withContext(err, "record", pageURL)
		}
		rec.Wins, rec.Losses, rec.Draws = orSentinel(w), orSentinel(l), orSentinel(d)
	}

	box := []*string{
		&rec.Height, &rec.Weight, &rec.Reach, &rec.Stance, &rec.DOB,
		&rec.SigStrPM, &rec.StrAcc, &rec.StrikesAbsPM, &rec.SigStrDef,
		&rec.TDAvg, &rec.TDAcc, &rec.TDDef, &rec.SubAvg,
	}
	values, err := p.boxValues(doc, len(box), pageURL)
	if err != nil {
		return types.FighterRecord{}, err
	}
	for i, dst := range box {
		*dst = types.Sentinel
		if i < len(values) {
			*dst = orSentinel(values[i])
		}
	}

	return rec, nil
}

// boxValues reads up to want box items, skipping the separator position,
// and returns the text after each item's label.
func (p *FighterParser) boxValues(doc *goquery.Selection, want int, pageURL string) ([]string, error) {
	items := Find(doc, p.schema.BoxItem)

	values := make([]string, 0, want)
	for i := 0; i < items.Length(); i++ {
		if i == p.schema.BoxSkipIndex {
			continue
		}
		if len(values) == want {
			p.logger.Debug("ignoring surplus box items",
				"url", pageURL,
				"items", items.Length(),
			)
			break
		}

		v, err := SplitField(StrippedText(items.Eq(i)), p.schema.FieldSeparator)
		if err != nil {
			return nil, withContext(err, "box_item", pageURL)
		}
		values = append(values, v)
	}
	return values, nil
}
