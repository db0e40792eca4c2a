package extract

import (
	"strings"

	"github.com/lfrguimaraes/outy-back/internal/logger"
	"github.com/lfrguimaraes/outy-back/internal/pageview"
)

const (
	// highConfidenceLen short-circuits the description cascade: a candidate
	// this long is taken immediately without consulting later strategies.
	highConfidenceLen = 500

	// maxCandidateLen rejects candidates that swallowed the whole page.
	maxCandidateLen = 10000
)

// Resolver runs the per-field strategy cascades and arbitrates between
// their candidates.
type Resolver struct {
	cfg        Config
	strategies map[Field][]Strategy
}

// NewResolver builds a resolver with the full set of field cascades.
func NewResolver(cfg Config) *Resolver {
	return &Resolver{
		cfg: cfg,
		strategies: map[Field][]Strategy{
			FieldDescription: DescriptionCascade(cfg),
			FieldAddress:     AddressCascade(cfg),
			FieldPrice:       PriceCascade(cfg),
			FieldInstagram:   InstagramCascade(cfg),
			FieldImage:       ImageCascade(cfg),
			FieldTicketLink:  TicketLinkCascade(cfg),
			FieldLineup:      LineupCascade(cfg),
			FieldDressCode:   DressCodeCascade(cfg),
		},
	}
}

// Resolve runs the cascade for field against the page and returns the
// winning candidate text. False means no strategy produced an acceptable
// candidate, which is a normal outcome for sparse pages.
//
// All fields except the description use strict first-success. The
// description cascade keeps scanning for the best-scoring candidate, but a
// candidate longer than highConfidenceLen wins immediately.
func (r *Resolver) Resolve(field Field, v *pageview.View) (string, bool) {
	cascade, ok := r.strategies[field]
	if !ok || v == nil {
		return "", false
	}

	var best Candidate
	found := false
	for _, strategy := range cascade {
		cand, ok := strategy.Extract(v)
		if !ok {
			continue
		}
		if !r.acceptable(cand) {
			logger.Debug("candidate rejected", logger.Fields{
				"field":    string(field),
				"strategy": strategy.Name(),
			})
			continue
		}

		if field != FieldDescription {
			return cand.Text, true
		}
		if runeLen(cand.Text) > highConfidenceLen {
			logger.Debug("high-confidence candidate", logger.Fields{
				"field":    string(field),
				"strategy": strategy.Name(),
			})
			return cand.Text, true
		}
		if !found || cand.Score > best.Score {
			best = cand
			found = true
		}
	}

	if !found {
		return "", false
	}
	return best.Text, true
}

// acceptable applies the global rules no candidate may violate: forbidden
// keywords anywhere in the text, and the page-swallowing length ceiling.
func (r *Resolver) acceptable(c Candidate) bool {
	if c.Text == "" {
		return false
	}
	if runeLen(c.Text) > maxCandidateLen {
		return false
	}
	lower := strings.ToLower(c.Text)
	return !containsAny(lower, r.cfg.ForbiddenKeywords)
}
