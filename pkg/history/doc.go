// Package history keeps an audit trail of export invocations.
//
// Every finished export, successful or not, becomes an Entry. Entries are
// written asynchronously by a Recorder so that a slow or failing store never
// delays or fails an export. Two Storage backends are provided: an
// in-memory store for tests and short-lived processes, and a SQLite store
// (pure Go, no cgo) for persistent history.
//
//	store, err := history.NewSQLiteStorage(&history.SQLiteConfig{Path: "data/history.db"})
//	rec := history.NewRecorder(store, nil)
//	defer rec.Close()
//	orch := export.NewOrchestrator(mode, exporter, export.WithHistory(rec))
package history
