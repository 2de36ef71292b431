// Package snapshot publishes the full, unfiltered dataset as zdenci.csv and
// zdenci.json for anonymous download, and runs periodic jobs on a cron
// schedule.
//
// A Refresher lists every record, sorts it the same way local exports do
// and writes both files concurrently. Each file is replaced atomically, so
// readers see either the previous snapshot or the new one.
package snapshot
