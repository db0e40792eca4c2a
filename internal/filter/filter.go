// Package filter narrows the event catalog to records matching user
// criteria.
//
// Filters combine independent criteria:
//   - Date ranges (from/to dates)
//   - Venue names (substring matching, case-insensitive)
//   - Cities (substring matching, case-insensitive)
//   - Sources (provenance tag, exact case-insensitive match)
//   - Weekends only (Friday/Saturday/Sunday nights)
//   - Maximum price
//
// An empty filter matches everything, so callers can apply one
// unconditionally.
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.WeekendsOnly = true
//	f.Venues = []string{"La Java"}
//
//	filtered := f.Apply(events)
package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lfrguimaraes/outy-back/internal/event"
)

// Filter represents catalog filtering criteria.
type Filter struct {
	// Date range filtering, inclusive on both ends.
	DateFrom *time.Time `json:"dateFrom,omitempty"`
	DateTo   *time.Time `json:"dateTo,omitempty"`

	// Venue name filtering (case-insensitive substring match).
	Venues []string `json:"venues,omitempty"`

	// City filtering (case-insensitive substring match).
	Cities []string `json:"cities,omitempty"`

	// Source filtering (exact match on the provenance tag).
	Sources []string `json:"sources,omitempty"`

	// Weekend-only filtering (Friday, Saturday, Sunday).
	WeekendsOnly bool `json:"weekendsOnly,omitempty"`

	// Maximum ticket price. Events without a parseable price always pass.
	MaxPrice float64 `json:"maxPrice,omitempty"`
}

// NewFilter creates an empty filter with no active criteria. The filter
// matches all events until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Venues:  []string{},
		Cities:  []string{},
		Sources: []string{},
	}
}

// IsEmpty reports whether the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Venues) == 0 &&
		len(f.Cities) == 0 &&
		len(f.Sources) == 0 &&
		!f.WeekendsOnly &&
		f.MaxPrice == 0
}

// Matches checks if an event passes all active filter criteria. An empty
// filter matches all events. Criteria an event carries no data for (no
// date, no price) do not reject it.
func (f *Filter) Matches(evt *event.Event) bool {
	if f.IsEmpty() {
		return true
	}

	eventDate := parseEventDate(evt)

	if f.DateFrom != nil && eventDate != nil {
		if eventDate.Before(*f.DateFrom) {
			return false
		}
	}
	if f.DateTo != nil && eventDate != nil {
		if eventDate.After(*f.DateTo) {
			return false
		}
	}

	// Parties run Friday through Sunday nights.
	if f.WeekendsOnly && eventDate != nil {
		weekday := eventDate.Weekday()
		if weekday != time.Friday && weekday != time.Saturday && weekday != time.Sunday {
			return false
		}
	}

	if len(f.Venues) > 0 {
		matched := false
		venueLower := strings.ToLower(evt.VenueName)
		for _, venue := range f.Venues {
			if strings.Contains(venueLower, strings.ToLower(venue)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Cities) > 0 {
		matched := false
		cityLower := strings.ToLower(evt.City)
		for _, city := range f.Cities {
			if strings.Contains(cityLower, strings.ToLower(city)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Sources) > 0 {
		matched := false
		for _, source := range f.Sources {
			if strings.EqualFold(evt.Source, source) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.MaxPrice > 0 && evt.Price != "" {
		if price, err := strconv.ParseFloat(evt.Price, 64); err == nil && price > f.MaxPrice {
			return false
		}
	}

	return true
}

// Apply filters a list of events, returning only the matches. An empty
// filter returns the original list unchanged.
func (f *Filter) Apply(events []*event.Event) []*event.Event {
	if f.IsEmpty() {
		return events
	}

	var filtered []*event.Event
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// String returns a human-readable description of the active criteria.
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}
	if len(f.Venues) > 0 {
		parts = append(parts, fmt.Sprintf("Venues: %s", strings.Join(f.Venues, ", ")))
	}
	if len(f.Cities) > 0 {
		parts = append(parts, fmt.Sprintf("Cities: %s", strings.Join(f.Cities, ", ")))
	}
	if len(f.Sources) > 0 {
		parts = append(parts, fmt.Sprintf("Sources: %s", strings.Join(f.Sources, ", ")))
	}
	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}
	if f.MaxPrice > 0 {
		parts = append(parts, fmt.Sprintf("Max price: %.2f€", f.MaxPrice))
	}
	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter.
func (f *Filter) Clone() *Filter {
	clone := &Filter{
		WeekendsOnly: f.WeekendsOnly,
		MaxPrice:     f.MaxPrice,
	}

	if f.DateFrom != nil {
		df := *f.DateFrom
		clone.DateFrom = &df
	}
	if f.DateTo != nil {
		dt := *f.DateTo
		clone.DateTo = &dt
	}

	clone.Venues = append([]string{}, f.Venues...)
	clone.Cities = append([]string{}, f.Cities...)
	clone.Sources = append([]string{}, f.Sources...)
	return clone
}

// parseEventDate resolves an event's date for date-based criteria, trying
// the catalog date first and the start timestamp second. Returns nil when
// neither parses.
func parseEventDate(evt *event.Event) *time.Time {
	if evt.Date != "" {
		if t, err := time.Parse(event.ISODate, evt.Date); err == nil {
			return &t
		}
	}
	if evt.StartDate != "" {
		if t, err := time.Parse(time.RFC3339, evt.StartDate); err == nil {
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &day
		}
	}
	return nil
}
