package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lfrguimaraes/outy-back/internal/describe"
	"github.com/lfrguimaraes/outy-back/internal/event"
	"github.com/lfrguimaraes/outy-back/internal/pageview"
	"github.com/lfrguimaraes/outy-back/internal/translate"
)

// fakeFetcher serves canned HTML by URL.
type fakeFetcher struct {
	pages map[string]string
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*pageview.View, error) {
	f.calls = append(f.calls, url)
	html, ok := f.pages[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return pageview.FromHTML(html)
}

func newEnricher(fetcher *fakeFetcher, searchURL string) *Enricher {
	cfg := DefaultConfig()
	cfg.SearchURL = searchURL
	return New(cfg, fetcher, describe.NewFormatter(translate.Noop{}))
}

const detailPage = `<html><body>
<main>
<p>À propos</p>
<p>The wildest queer rave of the season takes over the old factory for one night.
Expect strobes, sweat, and a sound system tuned for techno until well past sunrise.
Doors open late and the floor stays packed until the very end of the party.</p>
<p>Adresse : 105 Rue du Faubourg du Temple, 75010 Paris</p>
<p>Entrée : 15 euros</p>
<p>Suivez instagram.com/bbb.party</p>
</main>
</body></html>`

func TestEnrichFillsMissingFields(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://queer.paris/events/bbb": detailPage,
	}}
	e := &event.Event{Name: "BBB Night", ListingURL: "https://queer.paris/events/bbb"}

	changed, err := newEnricher(fetcher, "").Enrich(context.Background(), e)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if !changed {
		t.Fatal("expected changes")
	}
	if e.Address != "105 Rue du Faubourg du Temple, 75010 Paris, France" {
		t.Errorf("address = %q", e.Address)
	}
	if e.Price != "15" {
		t.Errorf("price = %q", e.Price)
	}
	if e.Instagram != "https://instagram.com/bbb.party" {
		t.Errorf("instagram = %q", e.Instagram)
	}
	if !strings.Contains(e.Description, "wildest queer rave") {
		t.Errorf("description = %q", e.Description)
	}
}

func TestEnrichNeverOverwrites(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://queer.paris/events/bbb": detailPage,
	}}
	e := &event.Event{
		Name:        "BBB Night",
		ListingURL:  "https://queer.paris/events/bbb",
		Price:       "12",
		Description: "Existing description that must stay.",
	}

	if _, err := newEnricher(fetcher, "").Enrich(context.Background(), e); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if e.Price != "12" {
		t.Errorf("price overwritten: %q", e.Price)
	}
	if e.Description != "Existing description that must stay." {
		t.Errorf("description overwritten: %q", e.Description)
	}
}

func TestEnrichComposesWhenNoPage(t *testing.T) {
	e := &event.Event{Name: "BBB Night", VenueName: "La Java", City: "Paris"}

	changed, err := newEnricher(&fakeFetcher{}, "").Enrich(context.Background(), e)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if !changed {
		t.Fatal("expected a composed description")
	}
	if !strings.Contains(e.Description, "BBB Night at La Java in Paris.") {
		t.Errorf("description = %q", e.Description)
	}
}

func TestEnrichFetchErrorStillComposes(t *testing.T) {
	e := &event.Event{Name: "BBB Night", ListingURL: "https://queer.paris/events/gone"}

	_, err := newEnricher(&fakeFetcher{}, "").Enrich(context.Background(), e)
	if err == nil {
		t.Fatal("expected a fetch error")
	}
	if e.Description == "" {
		t.Error("expected a composed fallback description")
	}
}

func TestEnrichDiscoversTicketLink(t *testing.T) {
	searchPage := `<html><body>
		<a href="/fr/events/bbb-night-la-java">BBB Night at La Java</a>
	</body></html>`
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://shotgun.live/fr/search?q=BBB+Night":     searchPage,
		"https://shotgun.live/fr/events/bbb-night-la-java": detailPage,
	}}
	e := &event.Event{Name: "BBB Night"}

	changed, err := newEnricher(fetcher, "https://shotgun.live/fr/search?q=%s").Enrich(context.Background(), e)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if !changed {
		t.Fatal("expected changes")
	}
	if e.TicketLink != "https://shotgun.live/fr/events/bbb-night-la-java" {
		t.Errorf("ticketLink = %q", e.TicketLink)
	}
	if e.Price != "15" {
		t.Errorf("price = %q, detail page not used", e.Price)
	}
}

func TestEnrichAllSkipsFailures(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://queer.paris/events/ok": detailPage,
	}}
	events := []*event.Event{
		{Name: "Broken Night", ListingURL: "https://queer.paris/events/gone"},
		{Name: "BBB Night", ListingURL: "https://queer.paris/events/ok"},
	}

	st := newEnricher(fetcher, "").EnrichAll(context.Background(), events)
	if want := (Stats{Processed: 2, Enriched: 1, Skipped: 1}); st != want {
		t.Errorf("stats = %+v, want %+v", st, want)
	}
	if events[1].Price != "15" {
		t.Errorf("second event not enriched: %+v", events[1])
	}
}
