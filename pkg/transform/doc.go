// Package transform turns raw records into export rows: field selection in
// a fixed order, null normalization, numeric coercion, locale-aware sorting
// and grouping by city district.
//
// Transformation never mutates its input; every function returns fresh
// values.
package transform
