package event

import (
	"regexp"
	"strings"
)

// nameOverlapThreshold is the minimum word-set overlap for two names to be
// considered the same event name. Overlap is |intersection| divided by the
// larger word count, so a short name fully contained in a longer one still
// needs the substring rule to match.
const nameOverlapThreshold = 0.5

var (
	punctRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	wsRe    = regexp.MustCompile(`\s+`)
)

// NormalizeName canonicalizes an event or venue name for comparison:
// punctuation stripped, lowercased, whitespace collapsed.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	normalized := punctRe.ReplaceAllString(strings.ToLower(name), "")
	return strings.TrimSpace(wsRe.ReplaceAllString(normalized, " "))
}

// namesSimilar reports whether two normalized names denote the same event.
// Either name containing the other counts, as does a word-set overlap of at
// least nameOverlapThreshold.
func namesSimilar(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return false
	}

	setA := make(map[string]struct{}, len(wordsA))
	for _, w := range wordsA {
		setA[w] = struct{}{}
	}
	common := 0
	seen := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := setA[w]; ok {
			common++
		}
	}

	larger := len(setA)
	if len(seen) > larger {
		larger = len(seen)
	}
	return float64(common)/float64(larger) >= nameOverlapThreshold
}

// SameEvent decides whether two records describe the same real-world event.
// Names must be similar, and additionally either the dates or the normalized
// venue names must agree. An empty date or venue on both sides does not
// count as agreement. The rule is deliberately permissive on venue/date
// (either suffices) and strict on name, trading precision for recall.
func SameEvent(a, b *Event) bool {
	if a == nil || b == nil {
		return false
	}
	if !namesSimilar(NormalizeName(a.Name), NormalizeName(b.Name)) {
		return false
	}

	dateMatch := a.Date != "" && b.Date != "" && a.Date == b.Date

	venueA := NormalizeName(a.VenueName)
	venueB := NormalizeName(b.VenueName)
	venueMatch := venueA != "" && venueB != "" && venueA == venueB

	return dateMatch || venueMatch
}
