package export

import (
	"bytes"
	"context"
	"fmt"

	"zdenci/exporter/pkg/filter"
	"zdenci/exporter/pkg/source"
	"zdenci/exporter/pkg/transform"
	"zdenci/exporter/pkg/zdenci"
)

// Exporter produces a payload for one format.
type Exporter interface {
	Export(ctx context.Context, format zdenci.Format) (*Payload, error)
}

// RowSource exposes the rows currently shown by the grid, with search and
// filters applied.
type RowSource interface {
	CurrentRows() []zdenci.Record
}

// Fetcher issues the remote export request.
type Fetcher interface {
	Fetch(ctx context.Context, query string) (*source.Response, error)
}

// LocalExporter exports the grid's in-memory rows. It sorts by district and
// location, transforms and serializes without touching the network.
type LocalExporter struct {
	rows   RowSource
	sorter *transform.Sorter
	csv    *CSVSerializer
	json   *JSONSerializer
	fields zdenci.Fields
}

// NewLocalExporter creates a local exporter reading from rows.
func NewLocalExporter(rows RowSource, sorter *transform.Sorter) *LocalExporter {
	return &LocalExporter{
		rows:   rows,
		sorter: sorter,
		csv:    NewCSVSerializer(),
		json:   NewJSONSerializer(false),
		fields: zdenci.ExportFields,
	}
}

// WithJSONLD enables JSON-LD annotations on JSON output.
func (e *LocalExporter) WithJSONLD(enabled bool) *LocalExporter {
	e.json = NewJSONSerializer(enabled)
	return e
}

// Export implements Exporter.
func (e *LocalExporter) Export(ctx context.Context, format zdenci.Format) (*Payload, error) {
	enter(ctx, StateCollecting)
	records := e.rows.CurrentRows()

	enter(ctx, StateTransforming)
	records = e.sorter.Sort(records)
	data, err := e.Serialize(ctx, format, records)
	if err != nil {
		return nil, err
	}
	return newPayload(format, data, len(records)), nil
}

// Serialize renders already ordered records in format.
func (e *LocalExporter) Serialize(ctx context.Context, format zdenci.Format, records []zdenci.Record) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case zdenci.FormatCSV:
		rows := transform.Select(records, e.fields)
		if err := e.csv.Serialize(ctx, rows, e.fields, &buf); err != nil {
			return nil, err
		}
	case zdenci.FormatJSON:
		groups := transform.GroupBy(records, e.fields.Without(zdenci.GroupKey), zdenci.GroupKey, zdenci.UnknownGroup)
		if err := e.json.Serialize(ctx, groups, &buf); err != nil {
			return nil, err
		}
	default:
		return nil, NewExportError(format, len(records), fmt.Errorf("unsupported format"))
	}
	return buf.Bytes(), nil
}

// RemoteExporter forwards the grid's filter state to the export endpoint
// and passes the response body through unchanged.
type RemoteExporter struct {
	grid    filter.Snapshotter
	fetcher Fetcher
}

// NewRemoteExporter creates a remote exporter.
func NewRemoteExporter(grid filter.Snapshotter, fetcher Fetcher) *RemoteExporter {
	return &RemoteExporter{grid: grid, fetcher: fetcher}
}

// Query returns the export query for the grid's current filter state.
func (e *RemoteExporter) Query(format zdenci.Format) string {
	return filter.ExportQuery(format, filter.Extract(e.grid))
}

// Export implements Exporter.
func (e *RemoteExporter) Export(ctx context.Context, format zdenci.Format) (*Payload, error) {
	enter(ctx, StateCollecting)
	query := e.Query(format)
	setQuery(ctx, query)

	enter(ctx, StateFetching)
	resp, err := e.fetcher.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	enter(ctx, StateTransforming)
	p := newPayload(format, resp.Body, -1)
	if resp.ContentType != "" {
		p.MIMEType = resp.ContentType
	}
	return p, nil
}

// NewExporter selects the export strategy for mode. Local mode requires a
// RowSource and a Sorter; remote mode requires a Snapshotter and a Fetcher.
func NewExporter(mode zdenci.Mode, grid interface {
	RowSource
	filter.Snapshotter
}, sorter *transform.Sorter, fetcher Fetcher) (Exporter, error) {
	switch mode {
	case zdenci.ModeLocal:
		if sorter == nil {
			return nil, fmt.Errorf("local mode requires a sorter")
		}
		return NewLocalExporter(grid, sorter), nil
	case zdenci.ModeRemote:
		if fetcher == nil {
			return nil, fmt.Errorf("remote mode requires a fetcher")
		}
		return NewRemoteExporter(grid, fetcher), nil
	default:
		return nil, fmt.Errorf("unknown export mode %q", mode)
	}
}
