package source

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"zdenci/exporter/pkg/zdenci"
)

// LoadFile reads records from a JSON file. The file holds either a flat
// array of records or grouped export output ([{"naziv_gc": ..., "zdenci":
// [...]}]), in which case the group name is put back on each member.
func LoadFile(path string) ([]zdenci.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}
	records, err := DecodeFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// DecodeFile decodes the contents of a records file.
func DecodeFile(data []byte) ([]zdenci.Record, error) {
	records, err := zdenci.DecodeRecords(bytes.TrimSpace(data))
	if err != nil {
		return nil, err
	}
	if !isGrouped(records) {
		return records, nil
	}

	var out []zdenci.Record
	for _, group := range records {
		name := group.String(zdenci.GroupKey)
		members, _ := group["zdenci"].([]any)
		for _, m := range members {
			obj, ok := m.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("group %q: member is not an object", name)
			}
			rec := make(zdenci.Record, len(obj)+1)
			for k, v := range obj {
				// JSON-LD annotations are not record fields.
				if strings.HasPrefix(k, "@") {
					continue
				}
				rec[k] = v
			}
			if _, ok := rec[zdenci.GroupKey]; !ok {
				rec[zdenci.GroupKey] = name
			}
			out = append(out, rec)
		}
	}
	if out == nil {
		out = []zdenci.Record{}
	}
	return out, nil
}

func isGrouped(records []zdenci.Record) bool {
	if len(records) == 0 {
		return false
	}
	for _, r := range records {
		if _, ok := r["zdenci"].([]any); !ok {
			return false
		}
	}
	return true
}
