// Package zdenci defines the well ("zdenac") record model shared by the
// export pipeline: the raw Record type, the ordered field lists used by the
// grid and by both serializers, and the export Format and Mode enumerations.
//
// # Field Lists
//
// There is exactly one export field list, ExportFields. The CSV serializer
// writes every field in that order; the JSON serializer groups records by
// GroupKey and writes ExportFields.Without(GroupKey) for each member:
//
//	csvFields := zdenci.ExportFields
//	jsonFields := zdenci.ExportFields.Without(zdenci.GroupKey)
//
// DisplayColumns is the grid's column order. Column indices in a filter
// state always refer to DisplayColumns.
package zdenci
