// Package catalog merges freshly scraped records into the persistent event
// catalog.
//
// The merge never overwrites existing data: an incoming record that matches
// an existing entry only fills the fields the entry is missing, and a record
// matching nothing is appended. Running the same merge twice therefore
// leaves the catalog unchanged.
package catalog

import (
	"github.com/lfrguimaraes/outy-back/internal/event"
	"github.com/lfrguimaraes/outy-back/internal/logger"
)

// MergeStats summarizes one merge run.
type MergeStats struct {
	Added             int `json:"added"`
	Updated           int `json:"updated"`
	Unchanged         int `json:"unchanged"`
	DuplicateClusters int `json:"duplicateClusters"`
}

// Merge folds incoming records into existing and returns the grown catalog
// with the run's stats. Existing entries keep their position and identity;
// an incoming record that matches one of them fills its empty fields, and
// one that matches none is appended. When a record matches several existing
// entries the first match wins and the cluster is logged, since that means
// the catalog already holds duplicates the identity rule cannot tell apart.
func Merge(existing, incoming []*event.Event) ([]*event.Event, MergeStats) {
	merged := append([]*event.Event(nil), existing...)
	var stats MergeStats

	for _, in := range incoming {
		if in == nil || in.Validate() != nil {
			logger.Warn("skipping invalid incoming record", nil)
			continue
		}

		var matches []int
		for i, ex := range merged {
			if event.SameEvent(ex, in) {
				matches = append(matches, i)
			}
		}

		switch {
		case len(matches) == 0:
			merged = append(merged, in)
			stats.Added++
			logger.IncrCounter("merge.added")
			logger.Debug("new catalog entry", logger.Fields{"event": in.Name})

		default:
			if len(matches) > 1 {
				stats.DuplicateClusters++
				logger.IncrCounter("merge.duplicate_clusters")
				names := make([]string, len(matches))
				for i, idx := range matches {
					names[i] = merged[idx].Name
				}
				logger.Warn("incoming record matches multiple catalog entries", logger.Fields{
					"event":   in.Name,
					"matches": names,
				})
			}
			target := merged[matches[0]]
			filled := target.FillMissing(in)
			if len(filled) > 0 {
				stats.Updated++
				logger.IncrCounter("merge.updated")
				logger.Info("catalog entry updated", logger.Fields{
					"event":  target.Name,
					"filled": filled,
				})
			} else {
				stats.Unchanged++
				logger.IncrCounter("merge.unchanged")
			}
		}
	}

	return merged, stats
}
