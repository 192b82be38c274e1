// Package schema maps every logical field the scraper extracts to the
// structural locator that finds it on the page, so that source-layout drift
// is contained in one versioned table.
package schema

import (
	"fmt"
	"strings"
)

// Version identifies the page templates the Default schema was validated
// against.
const Version = "ufcstats-2024"

// Template quirks of the ufcstats.com pages as of Version. Each one is a
// positional adaptation to that markup and must be revisited if the
// template changes.
const (
	// BoxListSeparatorIndex is the empty <li> between the left and right
	// career-statistics columns on a fighter profile.
	BoxListSeparatorIndex = 9

	// FighterListingHeaderRows are the header and blank rows that precede
	// fighters in the per-letter listing table.
	FighterListingHeaderRows = 2

	// EventListingHeaderRows are the header, blank and upcoming-event rows
	// that precede completed events.
	EventListingHeaderRows = 3

	// StatTableStride: every statistics section renders a summary table
	// followed by a per-round table; only the summary tables are read.
	StatTableStride = 2

	// StrikesDuplicateCells are the fighter, sig. str and sig. str %
	// cells repeated from the totals table.
	StrikesDuplicateCells = 3

	// BoutScalarFields are round, time, time format and referee.
	BoutScalarFields = 4
)

// Locator finds a node by tag and class, or by XPath. Index selects one of
// several repeated matches; Attr reads an attribute instead of text.
type Locator struct {
	Tag   string `mapstructure:"tag"   yaml:"tag"`
	Class string `mapstructure:"class" yaml:"class"`
	XPath string `mapstructure:"xpath" yaml:"xpath"`
	Index int    `mapstructure:"index" yaml:"index"`
	Attr  string `mapstructure:"attr"  yaml:"attr"`
}

// CSS renders the tag+class pair as a CSS selector. A class attribute with
// several words becomes a compound selector.
func (l Locator) CSS() string {
	var b strings.Builder
	b.WriteString(l.Tag)
	for _, c := range strings.Fields(l.Class) {
		b.WriteByte('.')
		b.WriteString(c)
	}
	return b.String()
}

// IsXPath reports whether the locator is an XPath expression.
func (l Locator) IsXPath() bool { return l.XPath != "" }

// IsZero reports whether the locator is unset.
func (l Locator) IsZero() bool {
	return l.Tag == "" && l.Class == "" && l.XPath == ""
}

// At returns a copy of the locator pointing at the i-th match.
func (l Locator) At(i int) Locator {
	l.Index = i
	return l
}

func (l Locator) String() string {
	s := l.CSS()
	if l.IsXPath() {
		s = l.XPath
	}
	if l.Index > 0 {
		s = fmt.Sprintf("%s[%d]", s, l.Index)
	}
	if l.Attr != "" {
		s += "@" + l.Attr
	}
	return s
}

// FighterListingSchema locates profile links on a per-letter index page.
type FighterListingSchema struct {
	Row        Locator `mapstructure:"row"         yaml:"row"`
	HeaderRows int     `mapstructure:"header_rows" yaml:"header_rows"`
	Link       Locator `mapstructure:"link"        yaml:"link"`
}

// FighterSchema locates the fields of a fighter profile.
type FighterSchema struct {
	Name           Locator `mapstructure:"name"             yaml:"name"`
	Nickname       Locator `mapstructure:"nickname"         yaml:"nickname"`
	Record         Locator `mapstructure:"record"           yaml:"record"`
	RecordPrefix   string  `mapstructure:"record_prefix"    yaml:"record_prefix"`
	BoxItem        Locator `mapstructure:"box_item"         yaml:"box_item"`
	BoxSkipIndex   int     `mapstructure:"box_skip_index"   yaml:"box_skip_index"`
	FieldSeparator string  `mapstructure:"field_separator"  yaml:"field_separator"`
}

// EventListingSchema locates events on the completed-events index and the
// fight rows on an event page.
type EventListingSchema struct {
	Row        Locator `mapstructure:"row"         yaml:"row"`
	HeaderRows int     `mapstructure:"header_rows" yaml:"header_rows"`
	Link       Locator `mapstructure:"link"        yaml:"link"`
	Date       Locator `mapstructure:"date"        yaml:"date"`
	Location   Locator `mapstructure:"location"    yaml:"location"`
	FightRow   Locator `mapstructure:"fight_row"   yaml:"fight_row"`
}

// FightSchema locates the fields of a fight detail page.
type FightSchema struct {
	Title          Locator `mapstructure:"title"            yaml:"title"`
	MethodItem     Locator `mapstructure:"method_item"      yaml:"method_item"`
	MethodValue    Locator `mapstructure:"method_value"     yaml:"method_value"`
	TextItem       Locator `mapstructure:"text_item"        yaml:"text_item"`
	DetailText     Locator `mapstructure:"detail_text"      yaml:"detail_text"`
	DetailsPrefix  string  `mapstructure:"details_prefix"   yaml:"details_prefix"`
	Person         Locator `mapstructure:"person"           yaml:"person"`
	Outcome        Locator `mapstructure:"outcome"          yaml:"outcome"`
	Nickname       Locator `mapstructure:"nickname"         yaml:"nickname"`
	PersonLink     Locator `mapstructure:"person_link"      yaml:"person_link"`
	Table          Locator `mapstructure:"table"            yaml:"table"`
	TableStride    int     `mapstructure:"table_stride"     yaml:"table_stride"`
	TableBody      Locator `mapstructure:"table_body"       yaml:"table_body"`
	TotalsCell     Locator `mapstructure:"totals_cell"      yaml:"totals_cell"`
	StrikesCell    Locator `mapstructure:"strikes_cell"     yaml:"strikes_cell"`
	StrikesSkip    int     `mapstructure:"strikes_skip"     yaml:"strikes_skip"`
	CellValue      Locator `mapstructure:"cell_value"       yaml:"cell_value"`
	FieldSeparator string  `mapstructure:"field_separator"  yaml:"field_separator"`
}

// RankingSchema locates weight-class groupings on the rankings page.
type RankingSchema struct {
	Group Locator `mapstructure:"group" yaml:"group"`
	Label Locator `mapstructure:"label" yaml:"label"`
	Row   Locator `mapstructure:"row"   yaml:"row"`
	Name  Locator `mapstructure:"name"  yaml:"name"`
	Rank  Locator `mapstructure:"rank"  yaml:"rank"`
}

// Schema is the complete set of locators for one template version.
type Schema struct {
	Version        string               `mapstructure:"version"         yaml:"version"`
	FighterListing FighterListingSchema `mapstructure:"fighter_listing" yaml:"fighter_listing"`
	Fighter        FighterSchema        `mapstructure:"fighter"         yaml:"fighter"`
	EventListing   EventListingSchema   `mapstructure:"event_listing"   yaml:"event_listing"`
	Fight          FightSchema          `mapstructure:"fight"           yaml:"fight"`
	Ranking        RankingSchema        `mapstructure:"ranking"         yaml:"ranking"`
}

// Default returns the schema for the ufcstats.com and ufc.com templates.
func Default() *Schema {
	profileLink := Locator{Tag: "a", Class: "b-link b-link_style_black", Attr: "href"}

	return &Schema{
		Version: Version,
		FighterListing: FighterListingSchema{
			Row:        Locator{Tag: "tr", Class: "b-statistics__table-row"},
			HeaderRows: FighterListingHeaderRows,
			Link:       profileLink,
		},
		Fighter: FighterSchema{
			Name:           Locator{Tag: "span", Class: "b-content__title-highlight"},
			Nickname:       Locator{Tag: "p", Class: "b-content__Nickname"},
			Record:         Locator{Tag: "span", Class: "b-content__title-record"},
			RecordPrefix:   "Record:",
			BoxItem:        Locator{Tag: "li", Class: "b-list__box-list-item b-list__box-list-item_type_block"},
			BoxSkipIndex:   BoxListSeparatorIndex,
			FieldSeparator: ":",
		},
		EventListing: EventListingSchema{
			Row:        Locator{Tag: "tr", Class: "b-statistics__table-row"},
			HeaderRows: EventListingHeaderRows,
			Link:       profileLink,
			Date:       Locator{Tag: "span", Class: "b-statistics__date"},
			Location:   Locator{Tag: "td", Class: "b-statistics__table-col b-statistics__table-col_style_big-top-padding"},
			FightRow: Locator{
				Tag:   "tr",
				Class: "b-fight-details__table-row b-fight-details__table-row__hover js-fight-details-click",
				Attr:  "data-link",
			},
		},
		Fight: FightSchema{
			Title:          Locator{Tag: "i", Class: "b-fight-details__fight-title"},
			MethodItem:     Locator{Tag: "i", Class: "b-fight-details__text-item_first"},
			MethodValue:    Locator{Tag: "i", Index: 1},
			TextItem:       Locator{Tag: "i", Class: "b-fight-details__text-item"},
			DetailText:     Locator{Tag: "p", Class: "b-fight-details__text", Index: 1},
			DetailsPrefix:  "Details:",
			Person:         Locator{Tag: "div", Class: "b-fight-details__person"},
			Outcome:        Locator{Tag: "i", Class: "b-fight-details__person-status"},
			Nickname:       Locator{Tag: "p", Class: "b-fight-details__person-title"},
			PersonLink:     Locator{Tag: "a", Class: "b-fight-details__person-link", Attr: "href"},
			Table:          Locator{Tag: "table"},
			TableStride:    StatTableStride,
			TableBody:      Locator{Tag: "tbody"},
			TotalsCell:     Locator{Tag: "td"},
			StrikesCell:    Locator{Tag: "td", Class: "b-fight-details__table-col"},
			StrikesSkip:    StrikesDuplicateCells,
			CellValue:      Locator{Tag: "p", Class: "b-fight-details__table-text"},
			FieldSeparator: ":",
		},
		Ranking: RankingSchema{
			Group: Locator{Tag: "div", Class: "view-grouping"},
			Label: Locator{Tag: "div", Class: "view-grouping-header"},
			Row:   Locator{XPath: ".//tbody/tr"},
			Name:  Locator{Tag: "td", Class: "views-field-title"},
			Rank:  Locator{XPath: ".//td[contains(@class, 'views-field-weight-class-rank')]"},
		},
	}
}

// Validate checks that every locator the parsers depend on is set.
func (s *Schema) Validate() error {
	if s.Version == "" {
		return fmt.Errorf("schema.version must not be empty")
	}

	required := map[string]Locator{
		"fighter_listing.row":     s.FighterListing.Row,
		"fighter_listing.link":    s.FighterListing.Link,
		"fighter.name":            s.Fighter.Name,
		"fighter.box_item":        s.Fighter.BoxItem,
		"event_listing.row":       s.EventListing.Row,
		"event_listing.link":      s.EventListing.Link,
		"event_listing.fight_row": s.EventListing.FightRow,
		"fight.table":             s.Fight.Table,
		"fight.totals_cell":       s.Fight.TotalsCell,
		"fight.strikes_cell":      s.Fight.StrikesCell,
		"fight.cell_value":        s.Fight.CellValue,
		"ranking.group":           s.Ranking.Group,
		"ranking.row":             s.Ranking.Row,
	}
	for name, loc := range required {
		if loc.IsZero() {
			return fmt.Errorf("schema %s: locator %s must not be empty", s.Version, name)
		}
	}

	if s.FighterListing.HeaderRows < 0 || s.EventListing.HeaderRows < 0 {
		return fmt.Errorf("schema %s: header_rows must be >= 0", s.Version)
	}
	if s.Fight.TableStride < 1 {
		return fmt.Errorf("schema %s: fight.table_stride must be >= 1, got %d", s.Version, s.Fight.TableStride)
	}
	if s.Fight.StrikesSkip < 0 {
		return fmt.Errorf("schema %s: fight.strikes_skip must be >= 0", s.Version)
	}
	if s.Fighter.FieldSeparator == "" || s.Fight.FieldSeparator == "" {
		return fmt.Errorf("schema %s: field_separator must not be empty", s.Version)
	}
	if s.EventListing.FightRow.Attr == "" {
		return fmt.Errorf("schema %s: event_listing.fight_row needs an attr", s.Version)
	}
	return nil
}
