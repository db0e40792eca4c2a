// Package textutil provides text normalization and line classification for
// scraped page content.
//
// Listing and event pages bury the useful lines between cookie banners,
// navigation, prices, and date headers. The Classifier tags each line so the
// extraction heuristics can skip the noise. Keyword sets are configuration
// data, not package state, so locale variants can be supplied per
// deployment.
package textutil

import (
	"regexp"
	"strings"
)

// Config holds the keyword sets and patterns used for line classification.
type Config struct {
	// BoilerplateKeywords mark cookie banners, consent dialogs, and other
	// text that must never survive extraction.
	BoilerplateKeywords []string

	// NavigationKeywords mark site chrome: menus, footers, account links.
	NavigationKeywords []string

	// MonthNames feed the date-like line detection, lowercase.
	MonthNames []string

	// WeekdayPrefixes are the abbreviated weekday tokens that open date
	// section headers, lowercase.
	WeekdayPrefixes []string
}

// DefaultConfig returns the keyword sets for the French listing locale.
func DefaultConfig() Config {
	return Config{
		BoilerplateKeywords: []string{
			"cookie", "consent", "consentement", "privacy",
			"politique de confidentialité", "discover upcoming events",
			"buy your tickets",
		},
		NavigationKeywords: []string{
			"ajoutez", "sponsoriser", "publicité", "cgu", "mentions",
			"contact", "explorer", "se connecter", "s'inscrire",
			"voir sur", "ajouter à",
		},
		MonthNames: []string{
			"janvier", "février", "mars", "avril", "mai", "juin",
			"juillet", "août", "septembre", "octobre", "novembre",
			"décembre", "january", "february", "march", "april", "june",
			"july", "august", "september", "october", "november",
			"december",
		},
		WeekdayPrefixes: []string{
			"lun", "mar", "mer", "jeu", "ven", "sam", "dim",
		},
	}
}

var (
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
	currencyRe   = regexp.MustCompile(`(?i)(\d+[.,]?\d*)\s*(€|euros?)|[€$£]\s?\d`)
	leadingDayRe = regexp.MustCompile(`^\d{1,2}\s+\p{L}+`)
)

// Normalize collapses runs of spaces and tabs to single spaces, trims each
// line, and caps consecutive blank lines at one.
func Normalize(raw string) string {
	collapsed := spaceRunRe.ReplaceAllString(raw, " ")
	lines := strings.Split(collapsed, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	out := strings.Join(lines, "\n")
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// CollapseSpaces flattens all whitespace runs, newlines included, to single
// spaces.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

// Lines splits text into trimmed, non-empty lines.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Classifier tags lines of scraped text.
type Classifier struct {
	cfg Config
}

// NewClassifier builds a classifier from the given keyword configuration.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// IsPrice reports whether the line looks like pricing information.
func (c *Classifier) IsPrice(line string) bool {
	return currencyRe.MatchString(line)
}

// IsDateLike reports whether the line looks like a date or date section
// header, e.g. "21 novembre" or "ven. 21 novembre".
func (c *Classifier) IsDateLike(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	if lower == "" {
		return false
	}
	for _, prefix := range c.cfg.WeekdayPrefixes {
		if strings.HasPrefix(lower, prefix+".") || strings.HasPrefix(lower, prefix+" ") {
			return true
		}
	}
	if !leadingDayRe.MatchString(lower) {
		return false
	}
	for _, month := range c.cfg.MonthNames {
		if strings.Contains(lower, month) {
			return true
		}
	}
	return false
}

// IsBoilerplate reports whether the line is a cookie/consent banner or
// similar text that must never be extracted.
func (c *Classifier) IsBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range c.cfg.BoilerplateKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsNavigational reports whether the line is site chrome.
func (c *Classifier) IsNavigational(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range c.cfg.NavigationKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ContainsMonth reports whether any configured month name occurs in the
// first limit runes of the text.
func (c *Classifier) ContainsMonth(text string, limit int) bool {
	lower := strings.ToLower(text)
	runes := []rune(lower)
	if limit > 0 && len(runes) > limit {
		lower = string(runes[:limit])
	}
	for _, month := range c.cfg.MonthNames {
		if strings.Contains(lower, month) {
			return true
		}
	}
	return false
}
