package export

import (
	"fmt"

	"zdenci/exporter/pkg/zdenci"
)

// ExportError represents a failure while serializing records.
type ExportError struct {
	Format      zdenci.Format // Export format
	RecordCount int           // Number of records being exported
	Cause       error         // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, record_count=%d]: %v", e.Format, e.RecordCount, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format zdenci.Format, recordCount int, cause error) *ExportError {
	return &ExportError{
		Format:      format,
		RecordCount: recordCount,
		Cause:       cause,
	}
}

// StateError reports the pipeline state an export invocation failed in.
type StateError struct {
	ID    string
	State State
	Cause error
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return fmt.Sprintf("export %s failed while %s: %v", e.ID, e.State, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StateError) Unwrap() error {
	return e.Cause
}
