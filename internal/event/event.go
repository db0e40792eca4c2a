package event

import (
	"encoding/json"
	"fmt"
)

// DefaultCity is the locale city assigned to records that carry no city of
// their own.
const DefaultCity = "Paris"

// Event represents one event in the catalog. Name is the only required
// field; everything else is filled opportunistically by enrichment and is
// never cleared once set.
type Event struct {
	Name        string   `json:"name"`
	VenueName   string   `json:"venueName,omitempty"`
	City        string   `json:"city,omitempty"`
	Date        string   `json:"date,omitempty"`
	Time        string   `json:"time,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	Address     string   `json:"address,omitempty"`
	Price       string   `json:"price,omitempty"`
	Description string   `json:"description,omitempty"`
	TicketLink  string   `json:"ticketLink,omitempty"`
	Instagram   string   `json:"instagram,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	ListingURL  string   `json:"listingUrl,omitempty"`
	Source      string   `json:"source,omitempty"`
	Music       []string `json:"music,omitempty"`
	Type        string   `json:"type,omitempty"`

	// extra holds JSON keys this version of the engine does not know about,
	// so they round-trip through load, merge, and save untouched.
	extra map[string]json.RawMessage
}

// knownKeys lists every JSON key the Event struct owns. Keys not listed here
// are preserved in extra.
var knownKeys = []string{
	"name", "venueName", "city", "date", "time", "startDate", "endDate",
	"address", "price", "description", "ticketLink", "instagram",
	"imageUrl", "listingUrl", "source", "music", "type",
}

// New creates an event with the default city and a provenance tag.
func New(name, source string) *Event {
	return &Event{
		Name:   name,
		City:   DefaultCity,
		Source: source,
	}
}

// Validate reports whether the record satisfies the catalog invariant.
func (e *Event) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("event has no name")
	}
	return nil
}

// UnmarshalJSON decodes known fields into the struct and stashes everything
// else in extra.
func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range knownKeys {
		delete(raw, key)
	}

	*e = Event(p)
	if len(raw) > 0 {
		e.extra = raw
	}
	return nil
}

// MarshalJSON emits known fields plus any preserved unknown keys.
func (e *Event) MarshalJSON() ([]byte, error) {
	type plain Event
	data, err := json.Marshal((*plain)(e))
	if err != nil {
		return nil, err
	}
	if len(e.extra) == 0 {
		return data, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range e.extra {
		if _, taken := merged[key]; !taken {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

// FillMissing copies every populated field of src that is still empty on e,
// including preserved unknown keys. Populated fields are never overwritten,
// and Name is left alone because it anchors the record's identity. Returns
// the JSON names of the fields that were filled.
func (e *Event) FillMissing(src *Event) []string {
	var filled []string
	fill := func(dst *string, val, key string) {
		if *dst == "" && val != "" {
			*dst = val
			filled = append(filled, key)
		}
	}

	fill(&e.VenueName, src.VenueName, "venueName")
	fill(&e.City, src.City, "city")
	fill(&e.Date, src.Date, "date")
	fill(&e.Time, src.Time, "time")
	fill(&e.StartDate, src.StartDate, "startDate")
	fill(&e.EndDate, src.EndDate, "endDate")
	fill(&e.Address, src.Address, "address")
	fill(&e.Price, src.Price, "price")
	fill(&e.Description, src.Description, "description")
	fill(&e.TicketLink, src.TicketLink, "ticketLink")
	fill(&e.Instagram, src.Instagram, "instagram")
	fill(&e.ImageURL, src.ImageURL, "imageUrl")
	fill(&e.ListingURL, src.ListingURL, "listingUrl")
	fill(&e.Source, src.Source, "source")
	fill(&e.Type, src.Type, "type")

	if len(e.Music) == 0 && len(src.Music) > 0 {
		e.Music = append([]string(nil), src.Music...)
		filled = append(filled, "music")
	}

	for key, value := range src.extra {
		if e.extra == nil {
			e.extra = make(map[string]json.RawMessage)
		}
		if _, taken := e.extra[key]; !taken {
			e.extra[key] = value
			filled = append(filled, key)
		}
	}
	return filled
}
