package transform

import "zdenci/exporter/pkg/zdenci"

// Group is one district with its member rows.
type Group struct {
	Name    string
	Members []Row
}

// GroupBy partitions records by groupKey in first-occurrence order. Records
// with a missing or empty key land in the sentinel group. Members keep
// their input order and are projected onto fields with the zdenci numeric
// keys coerced; fields should not include groupKey.
func GroupBy(records []zdenci.Record, fields zdenci.Fields, groupKey, sentinel string) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, rec := range records {
		name := rec.String(groupKey)
		if name == "" {
			name = sentinel
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Members = append(groups[i].Members, selectRow(rec, fields, zdenci.NumericKeys))
	}

	if groups == nil {
		groups = []Group{}
	}
	return groups
}
