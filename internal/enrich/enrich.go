// Package enrich fills missing event fields from detail and ticketing pages.
//
// Enrichment is strictly additive: a field that is already populated is
// never touched, and a page that cannot be fetched or yields nothing just
// leaves the record as it was. One broken page never stops a run.
package enrich

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lfrguimaraes/outy-back/internal/describe"
	"github.com/lfrguimaraes/outy-back/internal/event"
	"github.com/lfrguimaraes/outy-back/internal/extract"
	"github.com/lfrguimaraes/outy-back/internal/fetch"
	"github.com/lfrguimaraes/outy-back/internal/logger"
	"github.com/lfrguimaraes/outy-back/internal/pageview"
	"github.com/lfrguimaraes/outy-back/internal/search"
)

// Config drives one enrichment run.
type Config struct {
	// SearchURL is a templated ticketing search page; %s is replaced with
	// the query-escaped event name. Empty disables ticket-link discovery.
	SearchURL string
	// TicketBase resolves relative links found on the search page.
	TicketBase string
	// Extract configures the field-extraction cascades.
	Extract extract.Config
}

// DefaultConfig returns the enrichment configuration for the Paris locale.
func DefaultConfig() Config {
	return Config{
		SearchURL:  "https://shotgun.live/fr/search?q=%s",
		TicketBase: "https://shotgun.live",
		Extract:    extract.DefaultConfig(),
	}
}

// Enricher fetches pages and fills the missing fields of event records.
type Enricher struct {
	cfg       Config
	fetcher   fetch.Fetcher
	resolver  *extract.Resolver
	formatter *describe.Formatter
}

// New creates an Enricher.
func New(cfg Config, fetcher fetch.Fetcher, formatter *describe.Formatter) *Enricher {
	return &Enricher{
		cfg:       cfg,
		fetcher:   fetcher,
		resolver:  extract.NewResolver(cfg.Extract),
		formatter: formatter,
	}
}

// Stats summarizes one enrichment pass over a batch of records.
type Stats struct {
	Processed int `json:"processed"`
	Enriched  int `json:"enriched"`
	Skipped   int `json:"skipped"`
}

// EnrichAll enriches every record in place, skipping over per-event
// failures, and reports how many records were processed, gained at least
// one field, or were skipped.
func (en *Enricher) EnrichAll(ctx context.Context, events []*event.Event) Stats {
	var st Stats
	for _, e := range events {
		if ctx.Err() != nil {
			logger.Warn("enrichment interrupted", logger.Fields{"remaining": len(events) - st.Processed})
			break
		}
		st.Processed++
		logger.IncrCounter("enrich.processed")

		changed, err := en.Enrich(ctx, e)
		if err != nil {
			st.Skipped++
			logger.IncrCounter("enrich.skipped")
			logger.Warn("skipping event enrichment", logger.Fields{
				"event": e.Name,
				"error": err.Error(),
			})
			continue
		}
		if changed {
			st.Enriched++
			logger.IncrCounter("enrich.enriched")
		}
	}
	return st
}

// Enrich fills the missing fields of one record from its detail page,
// discovering a ticket link first when none is known. Reports whether any
// field changed.
func (en *Enricher) Enrich(ctx context.Context, e *event.Event) (bool, error) {
	changed := false

	if e.TicketLink == "" && en.cfg.SearchURL != "" {
		if link, ok := en.findTicketLink(ctx, e.Name); ok {
			e.TicketLink = link
			changed = true
		}
	}

	pageURL := e.TicketLink
	if pageURL == "" {
		pageURL = e.ListingURL
	}
	if pageURL == "" {
		return en.composeFallback(e) || changed, nil
	}

	v, err := en.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		// The record is still usable without the page.
		en.composeFallback(e)
		return changed, fmt.Errorf("fetching %s: %w", pageURL, err)
	}

	if en.fillFields(ctx, e, v) {
		changed = true
	}
	if en.composeFallback(e) {
		changed = true
	}
	return changed, nil
}

// fillFields runs the extraction cascades against the page and fills every
// field the record is missing.
func (en *Enricher) fillFields(ctx context.Context, e *event.Event, v *pageview.View) bool {
	changed := false
	fill := func(dst *string, field extract.Field) {
		if *dst != "" {
			return
		}
		if text, ok := en.resolver.Resolve(field, v); ok {
			*dst = text
			changed = true
		}
	}

	if e.Description == "" {
		if raw, ok := en.resolver.Resolve(extract.FieldDescription, v); ok {
			if formatted, ok := en.formatter.Format(ctx, raw); ok {
				e.Description = formatted
				changed = true
			}
		}
	}

	fill(&e.Address, extract.FieldAddress)
	fill(&e.Price, extract.FieldPrice)
	fill(&e.Instagram, extract.FieldInstagram)
	fill(&e.ImageURL, extract.FieldImage)
	fill(&e.TicketLink, extract.FieldTicketLink)
	return changed
}

// composeFallback gives a description-less record a composed one.
func (en *Enricher) composeFallback(e *event.Event) bool {
	if e.Description != "" {
		return false
	}
	e.Description = describe.Compose(e)
	return true
}

// findTicketLink fetches the ticketing search page for the event name and
// scores the result links.
func (en *Enricher) findTicketLink(ctx context.Context, name string) (string, bool) {
	searchURL := fmt.Sprintf(en.cfg.SearchURL, url.QueryEscape(strings.TrimSpace(name)))
	v, err := en.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		logger.Debug("ticket search failed", logger.Fields{
			"event": name,
			"error": err.Error(),
		})
		return "", false
	}

	link, ok := search.BestEventLink(v, name, en.cfg.TicketBase)
	if !ok {
		return "", false
	}
	return link.URL, true
}
