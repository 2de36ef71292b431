package filter

import (
	"strings"

	"zdenci/exporter/pkg/zdenci"
)

// Match reports whether a cell value satisfies the predicate. Inactive
// predicates match everything. Text comparisons are case-insensitive. The
// comparison operators of a "num" predicate compare numerically only on a
// numeric column, where a non-numeric operand disables the predicate; on
// any other column the predicate matches as text.
func (p *Predicate) Match(value string, numeric bool) bool {
	if !p.Active() {
		return true
	}

	cell := strings.TrimSpace(value)
	switch p.Logic {
	case LogicEmpty:
		return cell == ""
	case LogicNotEmpty:
		return cell != ""
	}

	if numeric && p.Type == TypeNum {
		if ok, handled := p.matchNumeric(cell); handled {
			return ok
		}
	}

	needle := strings.ToLower(strings.TrimSpace(p.Value))
	hay := strings.ToLower(cell)

	switch p.Logic {
	case LogicEqual:
		return hay == needle
	case LogicNotEqual:
		return hay != needle
	case LogicStarts:
		return strings.HasPrefix(hay, needle)
	case LogicEnds:
		return strings.HasSuffix(hay, needle)
	case LogicNotContains:
		return !strings.Contains(hay, needle)
	default:
		return strings.Contains(hay, needle)
	}
}

// matchNumeric handles the numeric operators. handled is false when the
// operator has no numeric form.
func (p *Predicate) matchNumeric(cell string) (ok, handled bool) {
	switch p.Logic {
	case LogicEqual, LogicNotEqual,
		LogicGreater, LogicGreaterOrEqual,
		LogicLess, LogicLessOrEqual:
	default:
		return false, false
	}

	operand, ok := zdenci.ParseNumber(p.Value)
	if !ok {
		return true, true
	}
	n, ok := zdenci.ParseNumber(cell)
	if !ok {
		return false, true
	}

	switch p.Logic {
	case LogicEqual:
		return n == operand, true
	case LogicNotEqual:
		return n != operand, true
	case LogicGreater:
		return n > operand, true
	case LogicGreaterOrEqual:
		return n >= operand, true
	case LogicLess:
		return n < operand, true
	default:
		return n <= operand, true
	}
}

// MatchColumnSearch reports whether value contains the column search term,
// ignoring case. A blank term matches everything.
func MatchColumnSearch(term, value string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), term)
}

// MatchSearch applies the global "smart" search to a row's display values.
// The term is split on whitespace and every word must occur, ignoring case,
// somewhere in the row.
func MatchSearch(term string, values []string) bool {
	words := strings.Fields(strings.ToLower(term))
	if len(words) == 0 {
		return true
	}

	row := strings.ToLower(strings.Join(values, " "))
	for _, w := range words {
		if !strings.Contains(row, w) {
			return false
		}
	}
	return true
}
