package zdenci

import (
	"fmt"
	"strings"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat parses a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (supported: csv, json)", s)
	}
}

// Filename returns the fixed download filename for the format.
func (f Format) Filename() string {
	return "zdenci_filtered." + string(f)
}

// MIMEType returns the download MIME type for the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatJSON:
		return "application/json;charset=utf-8;"
	default:
		return "text/csv;charset=utf-8;"
	}
}

// Mode selects where filtering and serialization happen.
type Mode string

const (
	// ModeLocal serializes the grid's in-memory filtered rows.
	ModeLocal Mode = "local"
	// ModeRemote forwards the filter state to the export endpoint.
	ModeRemote Mode = "remote"
)

// ParseMode parses a case-insensitive mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLocal:
		return ModeLocal, nil
	case ModeRemote:
		return ModeRemote, nil
	default:
		return "", fmt.Errorf("unsupported export mode %q (supported: local, remote)", s)
	}
}
