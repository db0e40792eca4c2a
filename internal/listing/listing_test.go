package listing

import (
	"strings"
	"testing"
	"time"

	"github.com/lfrguimaraes/outy-back/internal/pageview"
)

var testNow = time.Date(2025, time.November, 19, 12, 0, 0, 0, time.UTC)

func mustView(t *testing.T, html string) *pageview.View {
	t.Helper()
	v, err := pageview.New(strings.NewReader(html), "text/html; charset=utf-8")
	if err != nil {
		t.Fatalf("building view: %v", err)
	}
	return v
}

const listingPage = `<html><body>
<nav>
	<div><a href="/explorer">Explorer les événements</a></div>
	<div><a href="/connexion">Se connecter</a></div>
</nav>
<div>ven. 21 novembre</div>
<div><a href="/events/bbb-la-java">BBB Night</a></div>
<div>23:00 - 06:00</div>
<div>La Java 105 Rue du Faubourg du Temple Paris France</div>
<div><a href="/events/flash-cocotte">Flash Cocotte</a></div>
<div>23:30</div>
<div>Gibus Paris</div>
<div>sam. 22 novembre</div>
<div><a href="https://queer.paris/events/garcon-sauvage">Garçon Sauvage</a></div>
<div>22:00</div>
<div>Cabaret Sauvage Paris</div>
<footer>
	<div>Publicité sur le site</div>
	<div><a href="/cgu">CGU et mentions légales</a></div>
</footer>
</body></html>`

func TestParseListingPage(t *testing.T) {
	events := NewParser(DefaultConfig()).Parse(mustView(t, listingPage), testNow)

	if len(events) != 3 {
		names := make([]string, len(events))
		for i, e := range events {
			names[i] = e.Name
		}
		t.Fatalf("got %d events (%v), want 3", len(events), names)
	}

	bbb := events[0]
	if bbb.Name != "BBB Night" {
		t.Errorf("name = %q", bbb.Name)
	}
	if bbb.Date != "2025-11-21" {
		t.Errorf("date = %q", bbb.Date)
	}
	if bbb.Time != "23:00" {
		t.Errorf("time = %q", bbb.Time)
	}
	if bbb.VenueName != "La Java" {
		t.Errorf("venue = %q", bbb.VenueName)
	}
	if bbb.ListingURL != "https://queer.paris/events/bbb-la-java" {
		t.Errorf("url = %q", bbb.ListingURL)
	}
	if bbb.Source != "queer.paris" {
		t.Errorf("source = %q", bbb.Source)
	}

	if events[1].Name != "Flash Cocotte" || events[1].VenueName != "Gibus Paris" {
		t.Errorf("second event = %+v", events[1])
	}
	if events[2].Date != "2025-11-22" {
		t.Errorf("third event date = %q", events[2].Date)
	}
	if events[2].ListingURL != "https://queer.paris/events/garcon-sauvage" {
		t.Errorf("third event url = %q", events[2].ListingURL)
	}
}

func TestParseRelativeDateSections(t *testing.T) {
	page := `<html><body>
<div>Demain</div>
<div>Menergy</div>
<div>23:00</div>
<div>Le Klub Paris</div>
</body></html>`

	events := NewParser(DefaultConfig()).Parse(mustView(t, page), testNow)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Date != "2025-11-20" {
		t.Errorf("date = %q", events[0].Date)
	}
}

func TestParseIgnoresContentBeforeFirstSection(t *testing.T) {
	page := `<html><body>
<div>Random headline text</div>
<div>19:00</div>
<div>Somewhere Paris</div>
<div>ven. 21 novembre</div>
<div>BBB Night</div>
<div>23:00</div>
<div>La Java Paris</div>
</body></html>`

	events := NewParser(DefaultConfig()).Parse(mustView(t, page), testNow)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Name != "BBB Night" {
		t.Errorf("name = %q", events[0].Name)
	}
}

func TestParseDropsNonCityVenueLines(t *testing.T) {
	page := `<html><body>
<div>ven. 21 novembre</div>
<div>Mystery Party</div>
<div>23:00</div>
<div>Voir le programme complet</div>
</body></html>`

	events := NewParser(DefaultConfig()).Parse(mustView(t, page), testNow)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].VenueName != "" {
		t.Errorf("venue = %q, want empty", events[0].VenueName)
	}
}

func TestParseFuzzyLinkMatch(t *testing.T) {
	page := `<html><body>
<div><a href="/events/bbb-party">BBB Night x Aya Destinée</a></div>
<div>ven. 21 novembre</div>
<div>BBB Night</div>
<div>23:00</div>
<div>La Java Paris</div>
</body></html>`

	events := NewParser(DefaultConfig()).Parse(mustView(t, page), testNow)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].ListingURL != "https://queer.paris/events/bbb-party" {
		t.Errorf("url = %q", events[0].ListingURL)
	}
}
