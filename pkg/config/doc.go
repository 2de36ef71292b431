// Package config loads and validates the zdenci exporter configuration.
//
// Configuration comes from three layers, later ones winning:
//
//  1. Built-in defaults (see defaults.go)
//  2. A YAML file, zdenci.yaml by convention
//  3. ZDENCI_* environment variables, optionally read from a .env file
//
// # Example
//
//	mode: remote
//
//	source:
//	  base_url: "https://zdenci.example.hr"
//	  timeout: "30s"
//	  headers:
//	    Authorization: "Bearer ..."
//
//	delivery:
//	  target: file
//	  dir: "~/Downloads"
//
//	history:
//	  enabled: true
//	  backend: sqlite
//	  sqlite:
//	    path: "data/history.db"
//
//	snapshot:
//	  enabled: true
//	  dir: "data/snapshots"
//	  schedule: "0 * * * *"
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//
// # Environment overrides
//
// Every commonly tuned field has an override named after its YAML path,
// upper-cased and prefixed: source.base_url becomes ZDENCI_SOURCE_BASE_URL,
// telemetry.logging.level becomes ZDENCI_TELEMETRY_LOGGING_LEVEL.
// ZDENCI_SOURCE_AUTHORIZATION sets the Authorization header.
//
// # Validation
//
// Validate collects every problem into a ValidationError rather than
// stopping at the first one.
package config
