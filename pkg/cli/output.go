package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatTable renders an aligned text table (default).
	FormatTable OutputFormat = "table"
	// FormatJSON is indented JSON output.
	FormatJSON OutputFormat = "json"
	// FormatCSV is CSV output with a header row.
	FormatCSV OutputFormat = "csv"
)

// ParseOutputFormat validates a --format flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", NewConfigError("format", fmt.Sprintf("unknown output format %q (want table, json or csv)", s))
	}
}

// Table is tabular command output. Data, when set, is what JSON output
// encodes; otherwise rows are encoded as objects keyed by column.
type Table struct {
	Columns []string
	Rows    [][]string
	Data    any
}

// Render writes t to w in format.
func Render(w io.Writer, format OutputFormat, t *Table) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, t)
	case FormatCSV:
		return renderCSV(w, t)
	default:
		return renderTable(w, t)
	}
}

func renderTable(w io.Writer, t *Table) error {
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	tw.AppendHeader(header)

	for _, r := range t.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		tw.AppendRow(row)
	}

	tw.Render()
	_, err := fmt.Fprintf(w, "(%d rows)\n", len(t.Rows))
	return err
}

func renderJSON(w io.Writer, t *Table) error {
	data := t.Data
	if data == nil {
		objs := make([]map[string]string, len(t.Rows))
		for i, r := range t.Rows {
			obj := make(map[string]string, len(t.Columns))
			for j, c := range t.Columns {
				if j < len(r) {
					obj[c] = r[j]
				}
			}
			objs[i] = obj
		}
		data = objs
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func renderCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
