package export

import (
	"bufio"
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/cast"

	"zdenci/exporter/pkg/transform"
	"zdenci/exporter/pkg/zdenci"
)

var numericPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// CSVSerializer renders rows as comma-separated text: a header line of
// field titles followed by one line per row, every line ending in "\n".
type CSVSerializer struct{}

// NewCSVSerializer creates a new CSV serializer.
func NewCSVSerializer() *CSVSerializer {
	return &CSVSerializer{}
}

// Serialize writes the header and rows to w.
func (s *CSVSerializer) Serialize(ctx context.Context, rows []transform.Row, fields zdenci.Fields, w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(fields.Titles(), ",") + "\n"); err != nil {
		return NewExportError(zdenci.FormatCSV, len(rows), err)
	}

	cells := make([]string, len(fields))
	for i, row := range rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return NewExportError(zdenci.FormatCSV, len(rows), err)
			}
		}
		for j, f := range fields {
			cells[j] = EscapeCSV(row.Get(f.Key))
		}
		if _, err := bw.WriteString(strings.Join(cells, ",") + "\n"); err != nil {
			return NewExportError(zdenci.FormatCSV, len(rows), err)
		}
	}

	if err := bw.Flush(); err != nil {
		return NewExportError(zdenci.FormatCSV, len(rows), err)
	}
	return nil
}

// EscapeCSV renders one cell. The value is stringified and trimmed, then:
// plain numbers are emitted bare; values holding a quote, comma or
// semicolon are quoted with inner quotes doubled; values holding a space are
// quoted; anything else is emitted bare.
func EscapeCSV(v transform.Value) string {
	if v == nil {
		return ""
	}
	s := strings.TrimSpace(cast.ToString(v))

	switch {
	case numericPattern.MatchString(s):
		return s
	case strings.ContainsAny(s, "\",;\r\n"):
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	case strings.Contains(s, " "):
		return `"` + s + `"`
	default:
		return s
	}
}
