// Zdenci exports the public water-well (zdenac) registry as CSV or JSON.
//
// The registry is filtered exactly as the grid shows it: a global search,
// per-column searches and column-control filters. Exports either run
// locally over the loaded records or are delegated to the server's export
// endpoint, depending on the configured mode.
//
// Usage:
//
//	# Export the Trešnjevka wells with a known location as CSV
//	zdenci download csv --column 1=Trešnjevka --filter 12:notEmpty
//
//	# Same filters, but let the server build the file
//	zdenci download json --mode remote --column 1=Trešnjevka
//
//	# Regenerate the public snapshots once
//	zdenci snapshot
//
//	# Serve snapshots, metrics and health checks
//	zdenci serve --config zdenci.yaml
//
//	# Show recent exports
//	zdenci history --limit 20
package main

func main() {
	Execute()
}
