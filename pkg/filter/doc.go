// Package filter captures the grid's search and filter state and turns it
// into export query parameters.
//
// # Extraction
//
// Extract prefers the grid's structured snapshot (global search plus
// per-column search and column-control filters). Grids that cannot produce
// a snapshot are scanned column by column through the ColumnScanner
// accessors instead:
//
//	params := filter.Extract(table)
//	query := filter.ExportQuery(zdenci.FormatCSV, params)
//	// format=csv&search=centar&columns%5B1%5D%5Bsearch%5D%5Bvalue%5D=...
//
// Parameter keys are positional and deterministic; only non-empty values are
// emitted, so an unfiltered grid produces just the format parameter.
//
// # Matching
//
// Predicate.Match and MatchSearch implement the same comparison rules as the
// remote export endpoint. The in-memory grid uses them so that local and
// remote exports select the same rows for the same filter state.
package filter
