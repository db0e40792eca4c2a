// Package search scores candidate event links on a ticketing search page
// against an event name.
package search

import (
	"strings"

	"github.com/lfrguimaraes/outy-back/internal/logger"
	"github.com/lfrguimaraes/outy-back/internal/pageview"
)

const (
	// shortNameLen is the length at or under which an event name is matched
	// as a whole token instead of word by word.
	shortNameLen = 5
	// minWordLen filters out articles and connectors before matching.
	minWordLen = 2

	textMatchScore  = 2
	hrefMatchScore  = 1
	shortNameScore  = 5
	hrefAnyScore    = 3
	eventLinkSelect = `a[href*="/events/"]`
)

// Link is a scored candidate link.
type Link struct {
	URL   string
	Text  string
	Score int
}

// BestEventLink scans a search-results page for event links and returns the
// one that best matches name. Relative hrefs are resolved against base.
// Returns false when nothing on the page matches.
func BestEventLink(v *pageview.View, name, base string) (Link, bool) {
	nameLower := strings.TrimSpace(strings.ToLower(name))
	if nameLower == "" {
		return Link{}, false
	}

	words := matchWords(name, nameLower)

	var best Link
	for _, anchor := range v.Query(eventLinkSelect) {
		href := anchor.Attr("href")
		if href == "" {
			continue
		}
		href = resolveHref(href, base)

		candidate := Link{
			URL:   href,
			Text:  strings.TrimSpace(anchor.Text()),
			Score: score(strings.ToLower(anchor.Text()), strings.ToLower(href), nameLower, words, len(name)),
		}
		if candidate.Score > best.Score {
			best = candidate
		}
	}

	if best.Score == 0 {
		return Link{}, false
	}
	logger.Debug("search match", logger.Fields{
		"event": name,
		"url":   best.URL,
		"score": best.Score,
	})
	return best, true
}

// matchWords picks the tokens to match with. Short names match as a single
// whole token so "BBB" is not split apart.
func matchWords(name, nameLower string) []string {
	if len(name) <= shortNameLen {
		return []string{nameLower}
	}
	var words []string
	for _, w := range strings.Fields(nameLower) {
		if len(w) > minWordLen {
			words = append(words, w)
		}
	}
	return words
}

func score(text, href, nameLower string, words []string, nameLen int) int {
	total := 0
	hrefHasWord := false
	for _, word := range words {
		if strings.Contains(text, word) {
			total += textMatchScore
		}
		if strings.Contains(href, word) {
			total += hrefMatchScore
			hrefHasWord = true
		}
	}

	if nameLen <= shortNameLen {
		if strings.Contains(text, nameLower) || strings.Contains(href, nameLower) {
			total += shortNameScore
		}
	}
	if hrefHasWord {
		total += hrefAnyScore
	}
	return total
}

func resolveHref(href, base string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return base + href
	}
	return base + "/" + href
}
