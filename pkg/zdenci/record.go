package zdenci

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
)

// Record is one well entity as delivered by the data source. Values keep the
// type they were decoded with: strings, json.Number for numbers, nil for null.
type Record map[string]any

// String returns the value stored under key as text. Missing and nil values
// yield the empty string.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	return cast.ToString(v)
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// DecodeRecords decodes a JSON array of records, keeping numbers as
// json.Number so that their textual form survives untouched.
func DecodeRecords(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
