// Package source reads well records and remote exports.
//
// Client talks to the records API: List loads the full listing for the
// in-memory grid and Fetch issues the single export request of a remote
// export. LoadFile reads a records file from disk, and Watcher keeps a grid
// in sync with that file.
package source
