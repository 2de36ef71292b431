// Package grid models the tabular view the exports are taken from: loaded
// rows plus the search, filter and ordering state a user applied to them.
package grid

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"zdenci/exporter/pkg/filter"
	"zdenci/exporter/pkg/zdenci"
)

// Order sorts the view by one display column.
type Order struct {
	Column int
	Desc   bool
}

// Option configures a Table.
type Option func(*Table)

// WithColumns overrides the display columns.
func WithColumns(columns zdenci.Fields) Option {
	return func(t *Table) {
		t.columns = columns
	}
}

// WithoutSnapshot disables the structured filter snapshot, so extractors
// have to scan the columns one by one.
func WithoutSnapshot() Option {
	return func(t *Table) {
		t.snapshot = false
	}
}

// Table is a thread-safe in-memory grid. Readers always receive copies;
// nothing returned by a Table aliases its internal state.
type Table struct {
	mu       sync.RWMutex
	columns  zdenci.Fields
	rows     []zdenci.Record
	state    filter.State
	order    []Order
	snapshot bool
}

// New creates a table over rows using zdenci.DisplayColumns.
func New(rows []zdenci.Record, opts ...Option) *Table {
	t := &Table{
		columns:  zdenci.DisplayColumns,
		snapshot: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.rows = cloneRecords(rows)
	return t
}

// SetRows replaces the loaded data. Search and filter state is kept.
func (t *Table) SetRows(rows []zdenci.Record) {
	cp := cloneRecords(rows)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = cp
}

// Len returns the number of loaded rows, before filtering.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Columns returns the display columns.
func (t *Table) Columns() zdenci.Fields {
	return append(zdenci.Fields(nil), t.columns...)
}

// ColumnCount returns the number of display columns.
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// SetSearch sets the global search term.
func (t *Table) SetSearch(term string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Search = term
}

// SetColumnSearch sets the free-text search of one column.
func (t *Table) SetColumnSearch(index int, term string) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.SetColumnSearch(index, term)
	return nil
}

// SetColumnFilter sets the column-control filter of one column.
func (t *Table) SetColumnFilter(index int, p filter.Predicate) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.SetColumnFilter(index, p)
	return nil
}

// SetOrder replaces the view ordering.
func (t *Table) SetOrder(orders ...Order) error {
	for _, o := range orders {
		if err := t.checkIndex(o.Column); err != nil {
			return err
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.order = append([]Order(nil), orders...)
	return nil
}

// ClearFilters drops all search and filter state.
func (t *Table) ClearFilters() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = filter.State{}
}

// CurrentFilterState returns a copy of the structured filter state.
func (t *Table) CurrentFilterState() (*filter.State, bool) {
	if !t.snapshot {
		return nil, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Clone(), true
}

// GlobalSearch returns the global search term.
func (t *Table) GlobalSearch() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Search
}

// ColumnSearch returns the free-text search of one column.
func (t *Table) ColumnSearch(index int) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if c := t.state.Column(index); c != nil {
		return c.Search
	}
	return ""
}

// CurrentRows returns copies of the rows that pass the current search and
// filters, in view order.
func (t *Table) CurrentRows() []zdenci.Record {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]zdenci.Record, 0, len(t.rows))
	values := make([]string, len(t.columns))
	for _, r := range t.rows {
		for i, col := range t.columns {
			values[i] = r.String(col.Key)
		}
		if t.matches(values) {
			out = append(out, r.Clone())
		}
	}

	if len(t.order) > 0 {
		t.sortRows(out)
	}
	return out
}

func (t *Table) matches(values []string) bool {
	if !filter.MatchSearch(t.state.Search, values) {
		return false
	}
	for _, c := range t.state.Columns {
		if c.Index >= len(values) {
			continue
		}
		// An active column-control filter takes precedence over the
		// column's free-text search.
		if c.Filter.Active() {
			if !c.Filter.Match(values[c.Index], zdenci.IsNumeric(t.columns[c.Index].Key)) {
				return false
			}
			continue
		}
		if !filter.MatchColumnSearch(c.Search, values[c.Index]) {
			return false
		}
	}
	return true
}

func (t *Table) sortRows(rows []zdenci.Record) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range t.order {
			key := t.columns[o.Column].Key
			c := compareCells(rows[i].String(key), rows[j].String(key))
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareCells compares numerically when both cells are numbers and
// case-insensitively otherwise.
func compareCells(a, b string) int {
	fa, okA := zdenci.ParseNumber(a)
	fb, okB := zdenci.ParseNumber(b)
	if okA && okB {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func (t *Table) checkIndex(index int) error {
	if index < 0 || index >= len(t.columns) {
		return fmt.Errorf("column index %d out of range [0,%d)", index, len(t.columns))
	}
	return nil
}

func cloneRecords(rows []zdenci.Record) []zdenci.Record {
	out := make([]zdenci.Record, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
