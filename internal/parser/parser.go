// Package parser extracts records from ufcstats.com and ufc.com pages.
// Every node it reads is located through a schema.Locator, never by a
// selector literal.
package parser

import (
	"log/slog"

	"github.com/IshaanNene/fightstats/internal/schema"
)

// Parsers bundles the listing and record parsers built from one schema.
type Parsers struct {
	Listing *ListingParser
	Fighter *FighterParser
	Fight   *FightParser
	Ranking *RankingParser
}

// New builds every parser from s.
func New(s *schema.Schema, logger *slog.Logger) *Parsers {
	return &Parsers{
		Listing: NewListingParser(s.FighterListing, s.EventListing, logger),
		Fighter: NewFighterParser(s.Fighter, logger),
		Fight:   NewFightParser(s.Fight, logger),
		Ranking: NewRankingParser(s.Ranking, logger),
	}
}
