package filter

import "strings"

// Snapshotter is the read-only view of a grid needed to capture its filter
// state. CurrentFilterState returns false when the grid cannot produce a
// structured snapshot.
type Snapshotter interface {
	CurrentFilterState() (*State, bool)
	ColumnCount() int
}

// ColumnScanner exposes per-column search accessors. It is the fallback for
// grids without a structured snapshot.
type ColumnScanner interface {
	GlobalSearch() string
	ColumnSearch(index int) string
}

// Extract captures the grid's active filters as export query parameters.
// Columns are visited in display order 0..N-1 and only non-empty values are
// included. Extract never mutates the grid.
func Extract(src Snapshotter) Params {
	n := src.ColumnCount()

	if state, ok := src.CurrentFilterState(); ok && state != nil {
		return FromState(state, n)
	}

	params := Params{}
	scanner, ok := src.(ColumnScanner)
	if !ok {
		return params
	}

	if v := scanner.GlobalSearch(); notBlank(v) {
		params = params.Add(SearchKey, v)
	}
	for i := 0; i < n; i++ {
		if v := scanner.ColumnSearch(i); notBlank(v) {
			params = params.Add(ColumnSearchKey(i), v)
		}
	}
	return params
}

// FromState converts a structured snapshot into query parameters for a grid
// with columnCount columns. Columns outside 0..columnCount-1 are ignored.
func FromState(state *State, columnCount int) Params {
	params := Params{}
	if notBlank(state.Search) {
		params = params.Add(SearchKey, state.Search)
	}

	for i := 0; i < columnCount; i++ {
		col := state.Column(i)
		if col == nil {
			continue
		}
		if notBlank(col.Search) {
			params = params.Add(ColumnSearchKey(i), col.Search)
		}
		if !col.Filter.Active() {
			continue
		}
		if notBlank(col.Filter.Value) {
			params = params.Add(ColumnFilterValueKey(i), col.Filter.Value)
		}
		if col.Filter.Logic != "" {
			params = params.Add(ColumnFilterLogicKey(i), string(col.Filter.Logic))
		}
		if col.Filter.Type != "" {
			params = params.Add(ColumnFilterTypeKey(i), col.Filter.Type)
		}
	}
	return params
}

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
