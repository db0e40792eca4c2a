// Package cli implements the command-line interface for outy-events.
//
// The cli package provides the Cobra-based CLI that coordinates the listing
// parser, enricher, merge engine, and storage: it scrapes the listing page,
// enriches each discovered event, merges everything into the persistent
// catalog, and reports the result as text or JSON, optionally filtered and
// exported as an iCalendar file.
package cli
