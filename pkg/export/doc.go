// Package export turns the grid's current view into a downloadable payload.
//
// Two strategies implement Exporter, and a deployment picks one at startup:
//
//   - LocalExporter reads the rows the grid currently shows, sorts them by
//     (naziv_gc, lokacija) with locale-aware collation and serializes them
//     itself.
//   - RemoteExporter forwards the grid's filter state as query parameters
//     to the export endpoint and passes the response body through as is.
//
// The Orchestrator wraps either strategy. Every call is an independent
// invocation with its own ID and state trace; failures are logged, counted
// and recorded, and nothing is delivered.
//
// # Formats
//
// CSV output is a header line of field titles followed by one line per
// record. Cells are trimmed; plain numbers are written bare, cells holding
// a quote, comma or semicolon are quoted with quotes doubled, and cells
// holding a space are quoted.
//
// JSON output groups records by district in first-occurrence order:
//
//	[
//	  {
//	    "naziv_gc": "Donji grad",
//	    "zdenci": [ { "lokacija": "Ilica 1", ..., "lon": 15.97, "lat": 45.81 } ]
//	  }
//	]
//
// Records without a district are grouped under "Nepoznato".
package export
