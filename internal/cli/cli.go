package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lfrguimaraes/outy-back/internal/calendar"
	"github.com/lfrguimaraes/outy-back/internal/catalog"
	"github.com/lfrguimaraes/outy-back/internal/describe"
	"github.com/lfrguimaraes/outy-back/internal/enrich"
	"github.com/lfrguimaraes/outy-back/internal/event"
	"github.com/lfrguimaraes/outy-back/internal/fetch"
	"github.com/lfrguimaraes/outy-back/internal/filter"
	"github.com/lfrguimaraes/outy-back/internal/listing"
	"github.com/lfrguimaraes/outy-back/internal/logger"
	"github.com/lfrguimaraes/outy-back/internal/storage"
	"github.com/lfrguimaraes/outy-back/internal/translate"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagCatalog     string
	flagOutput      string
	flagListingURL  string
	flagFormat      string
	flagDateRange   string
	flagVenues      []string
	flagCities      []string
	flagSources     []string
	flagMaxPrice    float64
	flagWeekends    bool
	flagExportICS   string
	flagSkipListing bool
	flagSkipEnrich  bool
	flagSkipXlate   bool
	flagDryRun      bool
	flagVerbose     bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outy-events",
		Short: "Scrape, enrich, and merge queer event listings",
		Long: `A CLI tool that scrapes event listings, enriches each event from its
detail and ticketing pages, and merges the results into a persistent JSON
catalog without ever overwriting known data.`,
		RunE: runUpdate,
	}

	cmd.Flags().StringVar(&flagCatalog, "catalog", "~/.local/share/outy-events/events.json", "Catalog JSON file")
	cmd.Flags().StringVar(&flagOutput, "output", "", "Write the merged catalog here instead of back to --catalog")
	cmd.Flags().StringVar(&flagListingURL, "listing-url", listing.DefaultConfig().BaseURL, "Listing page to scrape")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagDateRange, "dates", "", "Only report events in this date range (e.g. '21 novembre - 5 décembre')")
	cmd.Flags().StringSliceVar(&flagVenues, "venue", nil, "Only report events at matching venues")
	cmd.Flags().StringSliceVar(&flagCities, "city", nil, "Only report events in matching cities")
	cmd.Flags().StringSliceVar(&flagSources, "source", nil, "Only report events from these sources")
	cmd.Flags().Float64Var(&flagMaxPrice, "max-price", 0, "Only report events at or under this price")
	cmd.Flags().BoolVar(&flagWeekends, "weekends", false, "Only report weekend events")
	cmd.Flags().StringVar(&flagExportICS, "export-ics", "", "Also write the reported events as an iCalendar file")
	cmd.Flags().BoolVar(&flagSkipListing, "skip-listing", false, "Skip scraping the listing page")
	cmd.Flags().BoolVar(&flagSkipEnrich, "skip-enrich", false, "Skip detail-page enrichment")
	cmd.Flags().BoolVar(&flagSkipXlate, "skip-translate", false, "Keep descriptions in their original language")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Run without saving the catalog")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// runUpdate is the main command logic: load, scrape, enrich, merge, save,
// report.
func runUpdate(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	now := time.Now().UTC()
	ctx := cmd.Context()

	f, err := buildFilter(now)
	if err != nil {
		return err
	}

	store, err := storage.New(flagCatalog)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	existing, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	logger.Info("catalog loaded", logger.Fields{
		"path":   store.Path(),
		"events": len(existing),
	})

	fetcher := fetch.NewClient(nil)

	var incoming []*event.Event
	if !flagSkipListing {
		listingCfg := listing.DefaultConfig()
		listingCfg.BaseURL = flagListingURL

		page, err := fetcher.Fetch(ctx, flagListingURL)
		if err != nil {
			return fmt.Errorf("fetching listing page: %w", err)
		}
		incoming = listing.NewParser(listingCfg).Parse(page, now)

		for _, evt := range incoming {
			evt.Name = event.TitleCase(evt.Name, event.DefaultConnectors)
		}
	}

	var enrichStats enrich.Stats
	if !flagSkipEnrich && len(incoming) > 0 {
		var translator translate.Translator = translate.NewClient(nil)
		if flagSkipXlate {
			translator = translate.Noop{}
		}
		enricher := enrich.New(enrich.DefaultConfig(), fetcher, describe.NewFormatter(translator))
		enrichStats = enricher.EnrichAll(ctx, incoming)
		logger.Info("enrichment finished", logger.Fields{
			"processed": enrichStats.Processed,
			"enriched":  enrichStats.Enriched,
			"skipped":   enrichStats.Skipped,
		})
	}

	merged, stats := catalog.Merge(existing, incoming)

	if !flagDryRun {
		target := store
		if flagOutput != "" {
			if target, err = storage.New(flagOutput); err != nil {
				return fmt.Errorf("initializing output storage: %w", err)
			}
		}
		if err := target.Save(merged); err != nil {
			return fmt.Errorf("saving catalog: %w", err)
		}
	}

	reported := f.Apply(merged)

	// The calendar is a report artifact, so --dry-run still writes it.
	if flagExportICS != "" {
		ics := calendar.GenerateCatalogICS(reported, now)
		if err := os.WriteFile(flagExportICS, []byte(ics), 0644); err != nil {
			return fmt.Errorf("writing calendar: %w", err)
		}
	}

	result := &OutputResult{
		UpdatedAt:  now,
		Events:     reported,
		EventCount: len(reported),
		Stats:      stats,
		Enrichment: enrichStats,
		DryRun:     flagDryRun,
		Filter:     f.String(),
	}
	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	logger.Debug("run metrics", logger.Fields(logger.MetricsSnapshot()))
	return nil
}

// buildFilter assembles the reporting filter from the flags.
func buildFilter(now time.Time) (*filter.Filter, error) {
	f := filter.NewFilter()
	f.Venues = append(f.Venues, flagVenues...)
	f.Cities = append(f.Cities, flagCities...)
	f.Sources = append(f.Sources, flagSources...)
	f.WeekendsOnly = flagWeekends
	f.MaxPrice = flagMaxPrice

	if flagDateRange != "" {
		from, to, err := filter.ParseDateRange(flagDateRange, now)
		if err != nil {
			return nil, err
		}
		f.DateFrom = from
		f.DateTo = to
	}
	return f, nil
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
