package engine

import (
	"context"
	"fmt"

	"github.com/IshaanNene/fightstats/internal/parser"
	"github.com/IshaanNene/fightstats/internal/pipeline"
	"github.com/IshaanNene/fightstats/internal/table"
	"github.com/IshaanNene/fightstats/internal/types"
)

// Fighters walks the per-letter fighter listings and parses every profile
// found. Fighter ids are the discovery positions, so a skipped profile
// leaves a gap rather than shifting later ids.
func (e *Engine) Fighters(ctx context.Context) (*table.Table, error) {
	letters := []rune(e.config.Scraper.Letters)
	indexURLs := make([]string, len(letters))
	for i, l := range letters {
		indexURLs[i] = fmt.Sprintf(e.config.Scraper.FighterIndexURL, string(l))
	}

	pages, err := ordered(ctx, e, e.config.Scraper.Concurrency, indexURLs,
		func(ctx context.Context, _ int, indexURL string) ([]string, bool, error) {
			doc, err := e.fetchDoc(ctx, indexURL, types.TagFighterIndex)
			if err != nil {
				return nil, false, err
			}
			urls := e.parsers.Listing.FighterURLs(doc)
			e.logger.Debug("fighter listing walked", "url", indexURL, "fighters", len(urls))
			return urls, true, nil
		})
	if err != nil {
		return nil, fmt.Errorf("walk fighter listings: %w", err)
	}

	var profiles []string
	for _, urls := range pages {
		profiles = append(profiles, urls...)
	}
	e.logger.Info("fighters discovered", "letters", len(letters), "fighters", len(profiles))

	rows, err := ordered(ctx, e, e.config.Scraper.Concurrency, profiles,
		func(ctx context.Context, i int, profileURL string) ([]string, bool, error) {
			doc, err := e.fetchDoc(ctx, profileURL, types.TagFighter)
			if err != nil {
				return nil, false, err
			}
			rec, err := e.parsers.Fighter.Parse(doc.Selection, profileURL)
			if err != nil {
				if e.skip(err, profileURL) {
					return nil, false, nil
				}
				return nil, false, err
			}
			rec.ID = i
			return rec.Row(), true, nil
		})
	if err != nil {
		return nil, fmt.Errorf("walk fighter profiles: %w", err)
	}

	return e.assemble(FightersTable, types.FighterColumns, rows, pipeline.ForColumns(types.FighterColumns, e.logger))
}

// fightRef is one fight detail page with the event it was listed under.
type fightRef struct {
	url   string
	event parser.EventRef
}

// Fights walks the completed-events listing, at most limit events when
// limit is positive, and parses every fight of each event. Fights whose
// pages carry no statistics are omitted.
func (e *Engine) Fights(ctx context.Context, limit int) (*table.Table, error) {
	doc, err := e.fetchDoc(ctx, e.config.Scraper.EventIndexURL, types.TagEventIndex)
	if err != nil {
		return nil, fmt.Errorf("walk event listing: %w", err)
	}
	events := e.parsers.Listing.Events(doc, limit)
	e.logger.Info("events discovered", "events", len(events), "limit", limit)

	perEvent, err := ordered(ctx, e, e.config.Scraper.Concurrency, events,
		func(ctx context.Context, _ int, ev parser.EventRef) ([]fightRef, bool, error) {
			doc, err := e.fetchDoc(ctx, ev.URL, types.TagEvent)
			if err != nil {
				return nil, false, err
			}
			urls := e.parsers.Listing.FightURLs(doc)
			refs := make([]fightRef, len(urls))
			for i, u := range urls {
				refs[i] = fightRef{url: u, event: ev}
			}
			e.logger.Debug("event walked", "url", ev.URL, "fights", len(refs))
			return refs, true, nil
		})
	if err != nil {
		return nil, fmt.Errorf("walk events: %w", err)
	}

	var fights []fightRef
	for _, refs := range perEvent {
		fights = append(fights, refs...)
	}
	e.logger.Info("fights discovered", "fights", len(fights))

	rows, err := ordered(ctx, e, e.config.Scraper.Concurrency, fights,
		func(ctx context.Context, _ int, ref fightRef) ([]string, bool, error) {
			doc, err := e.fetchDoc(ctx, ref.url, types.TagFight)
			if err != nil {
				return nil, false, err
			}
			rec, ok, err := e.parsers.Fight.Parse(doc.Selection, ref.url)
			if err != nil {
				if e.skip(err, ref.url) {
					return nil, false, nil
				}
				return nil, false, err
			}
			if !ok {
				e.metrics.RowsOmitted.Add(1)
				e.logger.Info("fight without statistics omitted", "url", ref.url)
				return nil, false, nil
			}
			rec.Date, rec.Location = ref.event.Date, ref.event.Location
			return rec.Row(), true, nil
		})
	if err != nil {
		return nil, fmt.Errorf("walk fights: %w", err)
	}

	return e.assemble(FightsTable, types.FightColumns, rows, pipeline.ForColumns(types.FightColumns, e.logger))
}

// Rankings parses the single rankings page. A fighter listed twice in the
// same weight class is kept once.
func (e *Engine) Rankings(ctx context.Context) (*table.Table, error) {
	doc, err := e.fetchDoc(ctx, e.config.Scraper.RankingsURL, types.TagRankings)
	if err != nil {
		return nil, fmt.Errorf("fetch rankings: %w", err)
	}

	recs := e.parsers.Ranking.Parse(doc.Selection)
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = r.Row()
	}

	p := pipeline.ForColumns(types.RankingColumns, e.logger)
	p.Use(pipeline.NewDedupMiddleware(0, 2))
	return e.assemble(RankingsTable, types.RankingColumns, rows, p)
}

// All runs every walker in turn: fighters, fights, then rankings.
func (e *Engine) All(ctx context.Context, limit int) ([]*table.Table, error) {
	fighters, err := e.Fighters(ctx)
	if err != nil {
		return nil, err
	}
	fights, err := e.Fights(ctx, limit)
	if err != nil {
		return nil, err
	}
	rankings, err := e.Rankings(ctx)
	if err != nil {
		return nil, err
	}
	return []*table.Table{fighters, fights, rankings}, nil
}
