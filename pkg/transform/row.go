package transform

import (
	"github.com/spf13/cast"

	"zdenci/exporter/pkg/zdenci"
)

// Value is one cell of an export row. nil marks "no value"; otherwise it
// holds a string or, for coerced numeric fields, a float64.
type Value = any

// Row is a record reduced to an ordered field list.
type Row struct {
	Fields zdenci.Fields
	Values []Value
}

// Get returns the value of key, or nil when the row has no such field.
func (r Row) Get(key string) Value {
	if i := r.Fields.Index(key); i >= 0 {
		return r.Values[i]
	}
	return nil
}

// Select projects records onto fields. Missing, null and empty values
// become nil; everything else is kept as text.
func Select(records []zdenci.Record, fields zdenci.Fields) []Row {
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = selectRow(rec, fields, nil)
	}
	return rows
}

// SelectNumeric is Select with the numericKeys coerced to float64. Values
// that are blank, unparsable, NaN or infinite become nil.
func SelectNumeric(records []zdenci.Record, fields zdenci.Fields, numericKeys []string) []Row {
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = selectRow(rec, fields, numericKeys)
	}
	return rows
}

func selectRow(rec zdenci.Record, fields zdenci.Fields, numericKeys []string) Row {
	row := Row{Fields: fields, Values: make([]Value, len(fields))}
	for i, f := range fields {
		s := rec.String(f.Key)
		if s == "" {
			continue
		}
		if contains(numericKeys, f.Key) {
			row.Values[i] = Coerce(s)
			continue
		}
		row.Values[i] = s
	}
	return row
}

// Coerce converts v to a finite float64, or returns nil.
func Coerce(v any) Value {
	if v == nil {
		return nil
	}
	f, ok := zdenci.ParseNumber(cast.ToString(v))
	if !ok {
		return nil
	}
	return f
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
