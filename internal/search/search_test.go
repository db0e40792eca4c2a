package search

import (
	"strings"
	"testing"

	"github.com/lfrguimaraes/outy-back/internal/pageview"
)

const ticketBase = "https://shotgun.live"

func mustView(t *testing.T, html string) *pageview.View {
	t.Helper()
	v, err := pageview.New(strings.NewReader(html), "text/html; charset=utf-8")
	if err != nil {
		t.Fatalf("building view: %v", err)
	}
	return v
}

func TestBestEventLinkShortName(t *testing.T) {
	v := mustView(t, `<html><body>
		<a href="/fr/events/techno-night">Techno Night</a>
		<a href="/fr/events/bbb-aya-destinee">BBB x Aya Destinée</a>
		<a href="/fr/events/another-party">Another Party</a>
	</body></html>`)

	link, ok := BestEventLink(v, "BBB", ticketBase)
	if !ok {
		t.Fatal("expected a match")
	}
	if link.URL != "https://shotgun.live/fr/events/bbb-aya-destinee" {
		t.Errorf("got %q", link.URL)
	}
}

func TestBestEventLinkLongNamePicksMostWords(t *testing.T) {
	v := mustView(t, `<html><body>
		<a href="/fr/events/garcon-party">Garçon Party</a>
		<a href="/fr/events/garcon-sauvage-wild-club">Garçon Sauvage Wild Club</a>
	</body></html>`)

	link, ok := BestEventLink(v, "Garçon Sauvage Wild Club", ticketBase)
	if !ok {
		t.Fatal("expected a match")
	}
	if !strings.Contains(link.URL, "garcon-sauvage-wild-club") {
		t.Errorf("got %q", link.URL)
	}
}

func TestBestEventLinkNoMatch(t *testing.T) {
	v := mustView(t, `<html><body>
		<a href="/fr/events/techno-night">Techno Night</a>
	</body></html>`)

	if link, ok := BestEventLink(v, "Flash Cocotte", ticketBase); ok {
		t.Errorf("expected no match, got %q", link.URL)
	}
}

func TestBestEventLinkIgnoresNonEventAnchors(t *testing.T) {
	v := mustView(t, `<html><body>
		<a href="/fr/venues/bbb-club">BBB Club page</a>
		<a href="/fr/events/bbb-night">BBB Night</a>
	</body></html>`)

	link, ok := BestEventLink(v, "BBB", ticketBase)
	if !ok {
		t.Fatal("expected a match")
	}
	if link.URL != "https://shotgun.live/fr/events/bbb-night" {
		t.Errorf("got %q", link.URL)
	}
}

func TestBestEventLinkKeepsAbsoluteHrefs(t *testing.T) {
	v := mustView(t, `<html><body>
		<a href="https://shotgun.live/fr/events/bbb-night">BBB Night</a>
	</body></html>`)

	link, ok := BestEventLink(v, "BBB", ticketBase)
	if !ok {
		t.Fatal("expected a match")
	}
	if link.URL != "https://shotgun.live/fr/events/bbb-night" {
		t.Errorf("got %q", link.URL)
	}
}

func TestBestEventLinkEmptyName(t *testing.T) {
	v := mustView(t, `<html><body><a href="/fr/events/x">X</a></body></html>`)
	if _, ok := BestEventLink(v, "  ", ticketBase); ok {
		t.Error("expected no match for empty name")
	}
}
