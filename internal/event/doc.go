// Package event provides the catalog's representation of a real-world event.
//
// The event package handles event records, fuzzy identity resolution, and
// locale-aware date parsing. Records scraped from different sources rarely
// agree on exact names, so identity is decided by normalized-name similarity
// combined with a matching date or venue. Unknown JSON fields survive a
// load/save round trip so the catalog never drops data it does not understand.
package event
