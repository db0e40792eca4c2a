// Package extract implements the heuristic content-extraction cascade.
//
// Each semantic field (description, address, price, contact handle, image,
// ticket link) has an ordered list of strategies. A strategy inspects a
// page view and either proposes a candidate or declines; it never fails.
// The Resolver runs the cascade in priority order, applies global
// acceptance rules (forbidden keywords, length ceiling), and picks the
// winning candidate. A page where nothing matches is a normal outcome, not
// an error.
package extract

import (
	"github.com/lfrguimaraes/outy-back/internal/pageview"
	"github.com/lfrguimaraes/outy-back/internal/textutil"
)

// Field identifies one extractable semantic field.
type Field string

const (
	FieldDescription Field = "description"
	FieldAddress     Field = "address"
	FieldPrice       Field = "price"
	FieldInstagram   Field = "instagram"
	FieldImage       Field = "imageUrl"
	FieldTicketLink  Field = "ticketLink"
	FieldLineup      Field = "lineup"
	FieldDressCode   Field = "dressCode"
)

// Candidate is a field value proposed by one strategy. Candidates are
// ephemeral; they live only within a single Resolve call.
type Candidate struct {
	Field    Field
	Text     string
	Score    int
	Strategy string
}

// Strategy locates one semantic field within a page. Implementations
// decline by returning false; they never return errors.
type Strategy interface {
	Name() string
	Extract(v *pageview.View) (Candidate, bool)
}

// Config holds the keyword sets, locale hints, and thresholds shared by the
// strategies. All of it is data so deployments can swap locales without
// code changes.
type Config struct {
	// City anchors address validation and venue heuristics.
	City string
	// CountrySuffix is appended to addresses that name the city but lack
	// an explicit country.
	CountrySuffix string

	// AboutKeywords introduce description sections.
	AboutKeywords []string
	// EventKeywords are vocabulary that marks a text block as event
	// content rather than site chrome.
	EventKeywords []string
	// SectionStopKeywords terminate a description section.
	SectionStopKeywords []string
	// LineupKeywords introduce artist line-ups.
	LineupKeywords []string
	// DressCodeKeywords introduce dress-code notes.
	DressCodeKeywords []string
	// ForbiddenKeywords are never allowed inside an accepted candidate.
	ForbiddenKeywords []string

	// TicketHosts are href fragments identifying ticketing links, first
	// entry preferred. TicketBase resolves relative ticket hrefs.
	TicketHosts []string
	TicketBase  string

	// ImageCDNHint and ImagePathHint select artwork URLs among page
	// images.
	ImageCDNHint  string
	ImagePathHint string

	// Text carries the line-classification keyword sets.
	Text textutil.Config
}

// DefaultConfig returns the configuration for the Paris listing locale.
func DefaultConfig() Config {
	return Config{
		City:          "Paris",
		CountrySuffix: "France",
		AboutKeywords: []string{"à propos", "about", "description", "details", "info"},
		EventKeywords: []string{
			"dj", "music", "scène", "scene", "stage", "dress", "tenue",
			"lineup", "line-up", "mainstage", "playstage",
		},
		SectionStopKeywords: []string{
			"vestiaire", "info", "pratique", "consentement", "partenaires",
		},
		LineupKeywords: []string{
			"line-up", "lineup", "line up", "artistes", "artists", "dj",
			"djs", "avec", "with", "feat", "featuring",
		},
		DressCodeKeywords: []string{
			"dress code", "tenue", "code vestimentaire", "black & white",
			"black and white",
		},
		ForbiddenKeywords: []string{
			"cookie", "consent", "privacy", "discover upcoming events",
		},
		TicketHosts:   []string{"shotgun", "ticket", "billet"},
		TicketBase:    "https://shotgun.live",
		ImageCDNHint:  "cloudinary.com",
		ImagePathHint: "artworks",
		Text:          textutil.DefaultConfig(),
	}
}
