package filter

import (
	"testing"
	"time"

	"github.com/lfrguimaraes/outy-back/internal/event"
)

func dateOf(t *testing.T, iso string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(event.ISODate, iso)
	if err != nil {
		t.Fatalf("parsing %q: %v", iso, err)
	}
	return &parsed
}

func testEvents() []*event.Event {
	return []*event.Event{
		{Name: "BBB Night", VenueName: "La Java", City: "Paris", Date: "2025-11-21", Price: "15", Source: "queer.paris"},
		{Name: "Flash Cocotte", VenueName: "Gibus", City: "Paris", Date: "2025-11-24", Price: "25", Source: "queer.paris"},
		{Name: "Garçon Sauvage", VenueName: "Cabaret Sauvage", City: "Paris", Date: "2025-12-05", Source: "shotgun.live"},
		{Name: "Mystery Party", City: "Marseille"},
	}
}

func TestEmptyFilterMatchesAll(t *testing.T) {
	f := NewFilter()
	if !f.IsEmpty() {
		t.Error("new filter should be empty")
	}

	events := testEvents()
	filtered := f.Apply(events)
	if len(filtered) != len(events) {
		t.Errorf("got %d events, want %d", len(filtered), len(events))
	}
}

func TestFilterByDateRange(t *testing.T) {
	f := NewFilter()
	f.DateFrom = dateOf(t, "2025-11-20")
	f.DateTo = dateOf(t, "2025-11-30")

	filtered := f.Apply(testEvents())
	// The undated Marseille event has no date to reject it on.
	if len(filtered) != 3 {
		t.Fatalf("got %v, want 3 events", names(filtered))
	}
	for _, evt := range filtered {
		if evt.Name == "Garçon Sauvage" {
			t.Errorf("december event passed a november range")
		}
	}
}

func TestFilterByVenue(t *testing.T) {
	f := NewFilter()
	f.Venues = []string{"java"}

	filtered := f.Apply(testEvents())
	if len(filtered) != 1 || filtered[0].Name != "BBB Night" {
		t.Errorf("filtered = %v", names(filtered))
	}
}

func TestFilterByCity(t *testing.T) {
	f := NewFilter()
	f.Cities = []string{"paris"}

	filtered := f.Apply(testEvents())
	if len(filtered) != 3 {
		t.Errorf("filtered = %v", names(filtered))
	}
}

func TestFilterBySource(t *testing.T) {
	f := NewFilter()
	f.Sources = []string{"SHOTGUN.LIVE"}

	filtered := f.Apply(testEvents())
	if len(filtered) != 1 || filtered[0].Name != "Garçon Sauvage" {
		t.Errorf("filtered = %v", names(filtered))
	}
}

func TestFilterByMaxPrice(t *testing.T) {
	f := NewFilter()
	f.MaxPrice = 20

	// Events with no price always pass.
	filtered := f.Apply(testEvents())
	for _, evt := range filtered {
		if evt.Name == "Flash Cocotte" {
			t.Error("25 euro event passed a 20 euro cap")
		}
	}
	if len(filtered) != 3 {
		t.Errorf("filtered = %v", names(filtered))
	}
}

func TestFilterWeekendsOnly(t *testing.T) {
	f := NewFilter()
	f.WeekendsOnly = true

	// 2025-11-21 is a Friday, 2025-11-24 a Monday, 2025-12-05 a Friday.
	filtered := f.Apply(testEvents())
	for _, evt := range filtered {
		if evt.Name == "Flash Cocotte" {
			t.Error("monday event passed a weekend filter")
		}
	}
	if len(filtered) != 3 {
		t.Errorf("filtered = %v", names(filtered))
	}
}

func TestFilterCombinedCriteria(t *testing.T) {
	f := NewFilter()
	f.Cities = []string{"paris"}
	f.DateFrom = dateOf(t, "2025-12-01")

	filtered := f.Apply(testEvents())
	if len(filtered) != 1 || filtered[0].Name != "Garçon Sauvage" {
		t.Errorf("filtered = %v", names(filtered))
	}
}

func TestFilterFallsBackToStartDate(t *testing.T) {
	f := NewFilter()
	f.DateFrom = dateOf(t, "2025-11-20")
	f.DateTo = dateOf(t, "2025-11-22")

	evt := &event.Event{Name: "BBB Night", StartDate: "2025-11-21T23:00:00Z"}
	if !f.Matches(evt) {
		t.Error("start timestamp should satisfy the date range")
	}
}

func TestFilterString(t *testing.T) {
	f := NewFilter()
	if got := f.String(); got != "No active filters" {
		t.Errorf("empty filter string = %q", got)
	}

	f.Venues = []string{"La Java"}
	f.WeekendsOnly = true
	if got := f.String(); got != "Venues: La Java | Weekends only" {
		t.Errorf("filter string = %q", got)
	}
}

func TestFilterClone(t *testing.T) {
	f := NewFilter()
	f.Venues = []string{"La Java"}
	f.DateFrom = dateOf(t, "2025-11-21")

	clone := f.Clone()
	clone.Venues[0] = "Gibus"
	*clone.DateFrom = clone.DateFrom.AddDate(0, 1, 0)

	if f.Venues[0] != "La Java" {
		t.Error("clone shares the venues slice")
	}
	if f.DateFrom.Month() != time.November {
		t.Error("clone shares the date pointer")
	}
}

func names(events []*event.Event) []string {
	out := make([]string, len(events))
	for i, evt := range events {
		out[i] = evt.Name
	}
	return out
}
