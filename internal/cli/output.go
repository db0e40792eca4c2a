package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/lfrguimaraes/outy-back/internal/catalog"
	"github.com/lfrguimaraes/outy-back/internal/enrich"
	"github.com/lfrguimaraes/outy-back/internal/event"
)

// OutputFormat specifies the output format.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains the data for one run's report.
type OutputResult struct {
	UpdatedAt  time.Time          `json:"updatedAt"`
	Events     []*event.Event     `json:"events"`
	EventCount int                `json:"eventCount"`
	Stats      catalog.MergeStats `json:"stats"`
	Enrichment enrich.Stats       `json:"enrichment"`
	DryRun     bool               `json:"dryRun,omitempty"`
	Filter     string             `json:"filter,omitempty"`
}

// WriteOutput writes the result in the specified format.
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText prints a date-grouped event report.
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.DryRun {
		fmt.Fprintln(w, "Dry run: catalog not saved.")
	}
	if result.Stats.Added > 0 || result.Stats.Updated > 0 {
		fmt.Fprintf(w, "Merge: %d added, %d updated", result.Stats.Added, result.Stats.Updated)
		if result.Stats.DuplicateClusters > 0 {
			fmt.Fprintf(w, ", %d duplicate clusters", result.Stats.DuplicateClusters)
		}
		fmt.Fprintln(w)
	}
	if result.Enrichment.Processed > 0 {
		fmt.Fprintf(w, "Enriched: %d of %d events", result.Enrichment.Enriched, result.Enrichment.Processed)
		if result.Enrichment.Skipped > 0 {
			fmt.Fprintf(w, ", %d skipped", result.Enrichment.Skipped)
		}
		fmt.Fprintln(w)
	}

	if result.EventCount == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	byDate := make(map[string][]*event.Event)
	for _, evt := range result.Events {
		byDate[evt.Date] = append(byDate[evt.Date], evt)
	}
	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	// Undated events sort first under an explicit label.
	sort.Strings(dates)

	for _, date := range dates {
		label := date
		if label == "" {
			label = "no date"
		}
		fmt.Fprintf(w, "\n%s (%d events):\n", label, len(byDate[date]))
		for _, evt := range byDate[date] {
			line := evt.Name
			if evt.Time != "" {
				line = fmt.Sprintf("%s  %s", evt.Time, line)
			}
			if evt.VenueName != "" {
				line = fmt.Sprintf("%s @ %s", line, evt.VenueName)
			}
			fmt.Fprintf(w, "  %s\n", line)
			if verbose {
				if evt.Price != "" {
					fmt.Fprintf(w, "       Price: %s\n", evt.Price)
				}
				if evt.TicketLink != "" {
					fmt.Fprintf(w, "       Tickets: %s\n", evt.TicketLink)
				}
				if evt.Instagram != "" {
					fmt.Fprintf(w, "       Instagram: %s\n", evt.Instagram)
				}
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d events\n", result.EventCount)
	return nil
}
