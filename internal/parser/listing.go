package parser

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/fightstats/internal/schema"
)

// EventRef is one completed event as listed on the events index.
type EventRef struct {
	URL      string
	Date     string
	Location string
}

// ListingParser reads the index pages the walkers traverse: the per-letter
// fighter listings, the completed-events listing, and event pages.
type ListingParser struct {
	fighters schema.FighterListingSchema
	events   schema.EventListingSchema
	logger   *slog.Logger
}

// NewListingParser creates a listing parser.
func NewListingParser(fighters schema.FighterListingSchema, events schema.EventListingSchema, logger *slog.Logger) *ListingParser {
	return &ListingParser{
		fighters: fighters,
		events:   events,
		logger:   logger.With("component", "listing_parser"),
	}
}

// FighterURLs returns the absolute profile URLs of a fighter listing, in
// row order, after the header rows.
func (p *ListingParser) FighterURLs(doc *goquery.Document) []string {
	rows := Find(doc.Selection, p.fighters.Row)

	var urls []string
	for i := p.fighters.HeaderRows; i < rows.Length(); i++ {
		href, ok := Text(rows.Eq(i), p.fighters.Link)
		link := Resolve(doc.Url, href)
		if !ok || link == "" {
			p.logger.Debug("fighter row without profile link", "row", i)
			continue
		}
		urls = append(urls, link)
	}
	return urls
}

// Events returns the completed events after the header rows, at most limit
// of them when limit is positive.
func (p *ListingParser) Events(doc *goquery.Document, limit int) []EventRef {
	rows := Find(doc.Selection, p.events.Row)

	end := rows.Length()
	if limit > 0 && p.events.HeaderRows+limit < end {
		end = p.events.HeaderRows + limit
	}

	var events []EventRef
	for i := p.events.HeaderRows; i < end; i++ {
		row := rows.Eq(i)
		href, ok := Text(row, p.events.Link)
		link := Resolve(doc.Url, href)
		if !ok || link == "" {
			p.logger.Warn("event row without link", "row", i)
			continue
		}
		events = append(events, EventRef{
			URL:      link,
			Date:     Optional(row, p.events.Date),
			Location: Optional(row, p.events.Location),
		})
	}
	return events
}

// FightURLs returns the fight detail URLs of an event page, one per
// clickable fight row.
func (p *ListingParser) FightURLs(doc *goquery.Document) []string {
	var urls []string
	Find(doc.Selection, p.events.FightRow).Each(func(i int, row *goquery.Selection) {
		href, _ := nodeValue(row, p.events.FightRow)
		if link := Resolve(doc.Url, href); link != "" {
			urls = append(urls, link)
			return
		}
		p.logger.Debug("fight row without detail link", "row", i)
	})
	return urls
}
