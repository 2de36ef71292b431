package export

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"zdenci/exporter/pkg/transform"
	"zdenci/exporter/pkg/zdenci"
)

// JSON-LD vocabulary attached to snapshot records.
const (
	JSONLDVocab = "https://schema.org/"
	JSONLDType  = "https://schema.org/Place"
)

// jsonldContext maps record keys onto schema.org terms.
var jsonldContext = object{
	{"@vocab", JSONLDVocab},
	{zdenci.KeyLokacija, "address"},
	{zdenci.KeyLat, "latitude"},
	{zdenci.KeyLon, "longitude"},
}

// JSONSerializer renders grouped rows as an indented JSON array of
// {"naziv_gc": ..., "zdenci": [...]} objects. Member keys follow the row's
// field order and no trailing newline is written.
type JSONSerializer struct {
	// JSONLD appends "@context" and "@type" to every member record.
	JSONLD bool
}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer(jsonld bool) *JSONSerializer {
	return &JSONSerializer{JSONLD: jsonld}
}

// Serialize writes groups to w.
func (s *JSONSerializer) Serialize(ctx context.Context, groups []transform.Group, w io.Writer) error {
	count := 0
	out := make([]object, 0, len(groups))
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return NewExportError(zdenci.FormatJSON, count, err)
		}
		members := make([]object, len(g.Members))
		for i, row := range g.Members {
			members[i] = s.member(row)
		}
		count += len(members)
		out = append(out, object{
			{zdenci.GroupKey, g.Name},
			{"zdenci", members},
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return NewExportError(zdenci.FormatJSON, count, err)
	}

	if _, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
		return NewExportError(zdenci.FormatJSON, count, err)
	}
	return nil
}

func (s *JSONSerializer) member(row transform.Row) object {
	obj := make(object, 0, len(row.Fields)+2)
	for i, f := range row.Fields {
		obj = append(obj, pair{f.Key, row.Values[i]})
	}
	if s.JSONLD {
		obj = append(obj, pair{"@context", jsonldContext}, pair{"@type", JSONLDType})
	}
	return obj
}

type pair struct {
	key   string
	value any
}

// object is a JSON object that keeps its key order.
type object []pair

// MarshalJSON implements json.Marshaler.
func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(&buf, p.key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeValue(&buf, p.value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
