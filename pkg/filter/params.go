package filter

import (
	"fmt"
	"net/url"
	"strings"

	"zdenci/exporter/pkg/zdenci"
)

// Query parameter keys understood by the export endpoint.
const (
	FormatKey = "format"
	SearchKey = "search"
)

// ColumnSearchKey returns the key of a column's free-text search value.
func ColumnSearchKey(index int) string {
	return fmt.Sprintf("columns[%d][search][value]", index)
}

// ColumnFilterValueKey returns the key of a column filter operand.
func ColumnFilterValueKey(index int) string {
	return fmt.Sprintf("columns[%d][filter][value]", index)
}

// ColumnFilterLogicKey returns the key of a column filter operator.
func ColumnFilterLogicKey(index int) string {
	return fmt.Sprintf("columns[%d][filter][logic]", index)
}

// ColumnFilterTypeKey returns the key of a column filter value type.
func ColumnFilterTypeKey(index int) string {
	return fmt.Sprintf("columns[%d][filter][type]", index)
}

// Param is one query parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query parameters. Unlike url.Values it keeps
// insertion order, so encoded queries are reproducible.
type Params []Param

// Add appends a parameter.
func (p Params) Add(key, value string) Params {
	return append(p, Param{Key: key, Value: value})
}

// Get returns the first value stored under key.
func (p Params) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

// Keys returns the parameter keys in order.
func (p Params) Keys() []string {
	keys := make([]string, len(p))
	for i, param := range p {
		keys[i] = param.Key
	}
	return keys
}

// Encode renders the parameters as a URL query string in insertion order.
func (p Params) Encode() string {
	var sb strings.Builder
	for i, param := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(param.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(param.Value))
	}
	return sb.String()
}

// ExportQuery returns the export endpoint query: the format parameter
// followed by the filter parameters.
func ExportQuery(format zdenci.Format, params Params) string {
	all := make(Params, 0, len(params)+1)
	all = all.Add(FormatKey, string(format))
	all = append(all, params...)
	return all.Encode()
}
