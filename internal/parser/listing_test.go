package parser

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/IshaanNene/fightstats/internal/schema"
	"github.com/IshaanNene/fightstats/internal/types"
)

const fighterListing = `<html><body><table class="b-statistics__table"><thead>
  <tr class="b-statistics__table-row"><th>First</th><th>Last</th></tr>
</thead><tbody>
  <tr class="b-statistics__table-row"><td class="b-statistics__table-col_type_clear"></td></tr>
  <tr class="b-statistics__table-row">
    <td class="b-statistics__table-col"><a href="http://ufcstats.com/fighter-details/1" class="b-link b-link_style_black">Tom</a></td>
    <td class="b-statistics__table-col"><a href="http://ufcstats.com/fighter-details/1" class="b-link b-link_style_black">Aaron</a></td>
  </tr>
  <tr class="b-statistics__table-row">
    <td class="b-statistics__table-col"><a href="/fighter-details/2" class="b-link b-link_style_black">Danny</a></td>
  </tr>
  <tr class="b-statistics__table-row"><td>no link</td></tr>
</tbody></table></body></html>`

const eventListing = `<html><body><table class="b-statistics__table-events"><thead>
  <tr class="b-statistics__table-row"><th>Name/date</th><th>Location</th></tr>
</thead><tbody>
  <tr class="b-statistics__table-row"><td></td></tr>
  <tr class="b-statistics__table-row b-statistics__table-row_type_first">
    <td class="b-statistics__table-col"><i class="b-statistics__table-content">
      <a href="http://ufcstats.com/event-details/upcoming" class="b-link b-link_style_white">UFC Next</a>
      <span class="b-statistics__date">December 31, 2099</span>
    </i></td>
  </tr>
  <tr class="b-statistics__table-row">
    <td class="b-statistics__table-col"><i class="b-statistics__table-content">
      <a href="http://ufcstats.com/event-details/e1" class="b-link b-link_style_black">UFC 300</a>
      <span class="b-statistics__date"> April 13, 2024 </span>
    </i></td>
    <td class="b-statistics__table-col b-statistics__table-col_style_big-top-padding"> Las Vegas, Nevada, USA </td>
  </tr>
  <tr class="b-statistics__table-row">
    <td class="b-statistics__table-col"><i class="b-statistics__table-content">
      <a href="http://ufcstats.com/event-details/e2" class="b-link b-link_style_black">UFC 299</a>
    </i></td>
  </tr>
  <tr class="b-statistics__table-row">
    <td class="b-statistics__table-col"><i class="b-statistics__table-content">
      <a href="http://ufcstats.com/event-details/e3" class="b-link b-link_style_black">UFC 298</a>
      <span class="b-statistics__date">February 17, 2024</span>
    </i></td>
    <td class="b-statistics__table-col b-statistics__table-col_style_big-top-padding">Anaheim, California, USA</td>
  </tr>
</tbody></table></body></html>`

const eventPage = `<html><body><table class="b-fight-details__table"><tbody>
  <tr class="b-fight-details__table-row b-fight-details__table-row__hover js-fight-details-click" data-link="http://ufcstats.com/fight-details/f1"><td>one</td></tr>
  <tr class="b-fight-details__table-row b-fight-details__table-row__hover js-fight-details-click" data-link="http://ufcstats.com/fight-details/f2"><td>two</td></tr>
  <tr class="b-fight-details__table-row b-fight-details__table-row__hover js-fight-details-click"><td>no link</td></tr>
  <tr class="b-fight-details__table-row"><td>header-like row</td></tr>
</tbody></table></body></html>`

func newListingParser() *ListingParser {
	s := schema.Default()
	return NewListingParser(s.FighterListing, s.EventListing, testLogger)
}

func TestListingFighterURLs(t *testing.T) {
	doc := mustDoc(t, fighterListing)
	doc.Url, _ = url.Parse("http://ufcstats.com/statistics/fighters?char=a&page=all")

	got := newListingParser().FighterURLs(doc)

	want := []string{
		"http://ufcstats.com/fighter-details/1",
		"http://ufcstats.com/fighter-details/2",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fighter urls (-want +got):\n%s", diff)
	}
}

func TestListingEvents(t *testing.T) {
	doc := mustDoc(t, eventListing)

	got := newListingParser().Events(doc, 0)

	want := []EventRef{
		{URL: "http://ufcstats.com/event-details/e1", Date: "April 13, 2024", Location: "Las Vegas, Nevada, USA"},
		{URL: "http://ufcstats.com/event-details/e2", Date: types.Sentinel, Location: types.Sentinel},
		{URL: "http://ufcstats.com/event-details/e3", Date: "February 17, 2024", Location: "Anaheim, California, USA"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestListingEventsLimit(t *testing.T) {
	doc := mustDoc(t, eventListing)
	p := newListingParser()

	if got := p.Events(doc, 1); len(got) != 1 || got[0].URL != "http://ufcstats.com/event-details/e1" {
		t.Errorf("limit 1: got %v", got)
	}
	if got := p.Events(doc, 50); len(got) != 3 {
		t.Errorf("limit beyond rows: expected 3 events, got %d", len(got))
	}
}

func TestListingFightURLs(t *testing.T) {
	doc := mustDoc(t, eventPage)

	got := newListingParser().FightURLs(doc)

	want := []string{
		"http://ufcstats.com/fight-details/f1",
		"http://ufcstats.com/fight-details/f2",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fight urls (-want +got):\n%s", diff)
	}
}
