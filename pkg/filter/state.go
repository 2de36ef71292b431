package filter

import (
	"sort"
	"strings"
)

// Logic is a column-control filter operator.
type Logic string

const (
	LogicContains       Logic = "contains"
	LogicNotContains    Logic = "notContains"
	LogicEqual          Logic = "equal"
	LogicNotEqual       Logic = "notEqual"
	LogicStarts         Logic = "starts"
	LogicEnds           Logic = "ends"
	LogicEmpty          Logic = "empty"
	LogicNotEmpty       Logic = "notEmpty"
	LogicGreater        Logic = "greater"
	LogicGreaterOrEqual Logic = "greaterOrEqual"
	LogicLess           Logic = "less"
	LogicLessOrEqual    Logic = "lessOrEqual"
)

// Filter value types.
const (
	TypeText = "text"
	TypeNum  = "num"
)

var knownLogic = map[Logic]bool{
	LogicContains: true, LogicNotContains: true,
	LogicEqual: true, LogicNotEqual: true,
	LogicStarts: true, LogicEnds: true,
	LogicEmpty: true, LogicNotEmpty: true,
	LogicGreater: true, LogicGreaterOrEqual: true,
	LogicLess: true, LogicLessOrEqual: true,
}

// Valid reports whether l is a known operator.
func (l Logic) Valid() bool {
	return knownLogic[l]
}

// Unary reports whether the operator takes no operand.
func (l Logic) Unary() bool {
	return l == LogicEmpty || l == LogicNotEmpty
}

// Predicate is a column-control filter: operand, operator and value type.
type Predicate struct {
	Value string `json:"value,omitempty"`
	Logic Logic  `json:"logic,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Active reports whether the predicate narrows the result set. Predicates
// with a blank operand are inactive unless the operator is unary.
func (p *Predicate) Active() bool {
	if p == nil {
		return false
	}
	return strings.TrimSpace(p.Value) != "" || p.Logic.Unary()
}

// Column is the search state of one display column.
type Column struct {
	Index  int        `json:"index"`
	Search string     `json:"search,omitempty"`
	Filter *Predicate `json:"filter,omitempty"`
}

// State is a structured snapshot of the grid's search and filter state.
type State struct {
	Search  string   `json:"search,omitempty"`
	Columns []Column `json:"columns,omitempty"`
}

// Column returns the state of column index, or nil.
func (s *State) Column(index int) *Column {
	for i := range s.Columns {
		if s.Columns[i].Index == index {
			return &s.Columns[i]
		}
	}
	return nil
}

// column returns the state of column index, creating it when absent.
func (s *State) column(index int) *Column {
	if c := s.Column(index); c != nil {
		return c
	}
	s.Columns = append(s.Columns, Column{Index: index})
	sort.Slice(s.Columns, func(i, j int) bool { return s.Columns[i].Index < s.Columns[j].Index })
	return s.Column(index)
}

// SetColumnSearch sets the free-text search of a column.
func (s *State) SetColumnSearch(index int, value string) {
	s.column(index).Search = value
}

// SetColumnFilter sets the column-control filter of a column.
func (s *State) SetColumnFilter(index int, p Predicate) {
	s.column(index).Filter = &p
}

// Empty reports whether the state holds no active search or filter.
func (s *State) Empty() bool {
	if strings.TrimSpace(s.Search) != "" {
		return false
	}
	for _, c := range s.Columns {
		if strings.TrimSpace(c.Search) != "" || c.Filter.Active() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	out := &State{Search: s.Search, Columns: make([]Column, len(s.Columns))}
	for i, c := range s.Columns {
		out.Columns[i] = c
		if c.Filter != nil {
			p := *c.Filter
			out.Columns[i].Filter = &p
		}
	}
	return out
}
