// Package listing parses an events listing page into raw event records.
//
// The listing page has no stable markup, so parsing is line-oriented: date
// section headers partition the page, and inside a section each event is a
// name line followed by a time line and a venue line. Detail links are
// collected separately and attached to events by name.
package listing

import (
	"regexp"
	"strings"
	"time"

	"github.com/lfrguimaraes/outy-back/internal/event"
	"github.com/lfrguimaraes/outy-back/internal/logger"
	"github.com/lfrguimaraes/outy-back/internal/pageview"
	"github.com/lfrguimaraes/outy-back/internal/textutil"
)

// Config drives the listing parser for one site and locale.
type Config struct {
	// BaseURL resolves relative detail links. Host membership in a resolved
	// URL decides whether a link is kept.
	BaseURL string
	// Source is the provenance tag stamped on every parsed record.
	Source string
	// City validates venue lines and anchors venue cleanup.
	City string
	// Text carries the navigation and boilerplate keyword sets.
	Text textutil.Config
}

// DefaultConfig returns the parser configuration for the Paris listing site.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://queer.paris",
		Source:  "queer.paris",
		City:    "Paris",
		Text:    textutil.DefaultConfig(),
	}
}

const (
	minNameLen = 3
	timeFormat = `(\d{1,2}:\d{2})`
)

// Parser extracts raw event records from one listing page.
type Parser struct {
	cfg        Config
	classifier *textutil.Classifier
	timeRe     *regexp.Regexp
	sectionRe  []*regexp.Regexp
	venueTail  *regexp.Regexp
	host       string
}

// NewParser builds a Parser for the given configuration.
func NewParser(cfg Config) *Parser {
	weekdays := strings.Join(cfg.Text.WeekdayPrefixes, "|")
	months := strings.Join(cfg.Text.MonthNames, "|")
	return &Parser{
		cfg:        cfg,
		classifier: textutil.NewClassifier(cfg.Text),
		timeRe:     regexp.MustCompile(timeFormat),
		sectionRe: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^(aujourd['’]hui|demain|hier)$`),
			regexp.MustCompile(`(?i)^(` + weekdays + `)\.?\s+\d{1,2}\s+(` + months + `)`),
		},
		venueTail: regexp.MustCompile(`\d+.*?` + regexp.QuoteMeta(cfg.City) + `.*?France`),
		host:      strings.TrimPrefix(strings.TrimPrefix(cfg.BaseURL, "https://"), "http://"),
	}
}

// Parse reads events out of a listing page view, resolving section headers
// against now.
func (p *Parser) Parse(v *pageview.View, now time.Time) []*event.Event {
	urls := p.collectLinks(v)
	lines := textutil.Lines(v.Text())

	var events []*event.Event
	var section string

	i := 0
	for i < len(lines) {
		line := lines[i]

		if p.isSectionHeader(line) {
			section = line
		}
		if p.classifier.IsBoilerplate(line) || p.classifier.IsNavigational(line) {
			i++
			continue
		}

		if section != "" && i+2 < len(lines) {
			name := line
			timeMatch := p.timeRe.FindStringSubmatch(lines[i+1])

			if timeMatch != nil && len([]rune(name)) > minNameLen && !p.isSectionHeader(name) {
				e := event.New(name, p.cfg.Source)
				e.Time = timeMatch[1]
				e.VenueName = p.cleanVenue(lines[i+2])
				e.ListingURL = p.findURL(name, urls)
				if date, ok := event.ParseSectionDate(section, now); ok {
					e.Date = date
				}

				events = append(events, e)
				logger.IncrCounter("listing.parsed")
				i += 3
				continue
			}
		}
		i++
	}

	logger.Info("listing parsed", logger.Fields{
		"source": p.cfg.Source,
		"events": len(events),
	})
	return events
}

// collectLinks maps anchor text to resolved detail URLs. First occurrence
// wins so a repeated name keeps its topmost link.
func (p *Parser) collectLinks(v *pageview.View) map[string]string {
	urls := make(map[string]string)
	for _, a := range v.Query("a[href]") {
		href := a.Attr("href")
		text := strings.TrimSpace(a.Text())
		if href == "" || len([]rune(text)) < minNameLen {
			continue
		}
		if p.classifier.IsNavigational(text) {
			continue
		}

		full := href
		if !strings.HasPrefix(href, "http") {
			if strings.HasPrefix(href, "/") {
				full = p.cfg.BaseURL + href
			} else {
				full = p.cfg.BaseURL + "/" + href
			}
		}
		if !strings.Contains(full, p.host) {
			continue
		}
		if _, taken := urls[text]; !taken {
			urls[text] = full
		}
	}
	return urls
}

func (p *Parser) isSectionHeader(line string) bool {
	for _, re := range p.sectionRe {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// cleanVenue strips the street-address tail from a venue line. A line that
// does not mention the city is not a venue at all.
func (p *Parser) cleanVenue(line string) string {
	if !strings.Contains(strings.ToLower(line), strings.ToLower(p.cfg.City)) {
		return ""
	}
	venue := strings.TrimSpace(p.venueTail.ReplaceAllString(line, ""))
	if len([]rune(venue)) < minNameLen {
		return ""
	}
	return venue
}

// findURL looks up the event's detail link, falling back to a substring
// match when anchor text and event name differ slightly.
func (p *Parser) findURL(name string, urls map[string]string) string {
	if url, ok := urls[name]; ok {
		return url
	}
	nameLower := strings.ToLower(name)
	for text, url := range urls {
		textLower := strings.ToLower(text)
		if strings.Contains(nameLower, textLower) || strings.Contains(textLower, nameLower) {
			return url
		}
	}
	return ""
}
