package history

// SchemaVersion is the current history schema version.
const SchemaVersion = 1

// Schema creates the history tables. Timestamps are stored as Unix
// nanoseconds so they round-trip without driver-specific parsing.
const Schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS export_history (
	id TEXT PRIMARY KEY,
	mode TEXT NOT NULL,
	format TEXT NOT NULL,
	status TEXT NOT NULL,
	rows INTEGER NOT NULL DEFAULT 0,
	bytes INTEGER NOT NULL DEFAULT 0,
	filename TEXT NOT NULL DEFAULT '',
	target TEXT NOT NULL DEFAULT '',
	query TEXT NOT NULL DEFAULT '',
	states TEXT NOT NULL DEFAULT '',
	error TEXT NOT NULL DEFAULT '',
	started_at INTEGER NOT NULL,
	finished_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_export_history_started_at ON export_history(started_at);
CREATE INDEX IF NOT EXISTS idx_export_history_status ON export_history(status);
`

// InsertSchemaVersion records the schema version once.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version, applied_at) VALUES (?, strftime('%s','now'))`

// GetSchemaVersion reads the newest applied schema version.
const GetSchemaVersion = `SELECT MAX(version) FROM schema_version`

const insertEntry = `
INSERT OR REPLACE INTO export_history (
	id, mode, format, status, rows, bytes, filename, target, query, states, error, started_at, finished_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectEntries = `
SELECT id, mode, format, status, rows, bytes, filename, target, query, states, error, started_at, finished_at
FROM export_history`
