package schema

import (
	"fmt"

	"github.com/antchfx/xpath"
	"github.com/spf13/viper"
)

// Load returns the Default schema with the YAML file at path overlaid on
// it. Keys absent from the file keep their default locators, so a file only
// needs to describe what drifted. An empty path returns Default.
func Load(path string) (*Schema, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("unmarshal schema file: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := s.compileXPaths(); err != nil {
		return nil, err
	}
	return s, nil
}

// compileXPaths rejects malformed XPath locators up front; at extraction
// time an invalid expression would silently match nothing.
func (s *Schema) compileXPaths() error {
	for name, loc := range s.Locators() {
		if !loc.IsXPath() {
			continue
		}
		if _, err := xpath.Compile(loc.XPath); err != nil {
			return fmt.Errorf("schema %s: locator %s: invalid xpath %q: %w", s.Version, name, loc.XPath, err)
		}
	}
	return nil
}

// Locators returns every locator in the schema keyed by its dotted path.
func (s *Schema) Locators() map[string]Locator {
	return map[string]Locator{
		"fighter_listing.row":     s.FighterListing.Row,
		"fighter_listing.link":    s.FighterListing.Link,
		"fighter.name":            s.Fighter.Name,
		"fighter.nickname":        s.Fighter.Nickname,
		"fighter.record":          s.Fighter.Record,
		"fighter.box_item":        s.Fighter.BoxItem,
		"event_listing.row":       s.EventListing.Row,
		"event_listing.link":      s.EventListing.Link,
		"event_listing.date":      s.EventListing.Date,
		"event_listing.location":  s.EventListing.Location,
		"event_listing.fight_row": s.EventListing.FightRow,
		"fight.title":             s.Fight.Title,
		"fight.method_item":       s.Fight.MethodItem,
		"fight.method_value":      s.Fight.MethodValue,
		"fight.text_item":         s.Fight.TextItem,
		"fight.detail_text":       s.Fight.DetailText,
		"fight.person":            s.Fight.Person,
		"fight.outcome":           s.Fight.Outcome,
		"fight.nickname":          s.Fight.Nickname,
		"fight.person_link":       s.Fight.PersonLink,
		"fight.table":             s.Fight.Table,
		"fight.table_body":        s.Fight.TableBody,
		"fight.totals_cell":       s.Fight.TotalsCell,
		"fight.strikes_cell":      s.Fight.StrikesCell,
		"fight.cell_value":        s.Fight.CellValue,
		"ranking.group":           s.Ranking.Group,
		"ranking.label":           s.Ranking.Label,
		"ranking.row":             s.Ranking.Row,
		"ranking.name":            s.Ranking.Name,
		"ranking.rank":            s.Ranking.Rank,
	}
}
