package filter

import (
	"strconv"
	"strings"
)

// ParseColumnSearch parses a column search of the form "IDX=value".
func ParseColumnSearch(spec string) (int, string, error) {
	idx, value, ok := strings.Cut(spec, "=")
	if !ok {
		return 0, "", &ParseError{Spec: spec, Reason: "expected IDX=value"}
	}
	index, err := parseIndex(spec, idx)
	if err != nil {
		return 0, "", err
	}
	return index, value, nil
}

// ParseColumnFilter parses a column-control filter of the form
// "IDX:logic[:type]=value". Unary operators (empty, notEmpty) take no value
// and may omit the "=" part.
func ParseColumnFilter(spec string) (int, Predicate, error) {
	head, value, hasValue := strings.Cut(spec, "=")
	parts := strings.Split(head, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, Predicate{}, &ParseError{Spec: spec, Reason: "expected IDX:logic[:type]=value"}
	}

	index, err := parseIndex(spec, parts[0])
	if err != nil {
		return 0, Predicate{}, err
	}

	p := Predicate{Logic: Logic(parts[1]), Value: value}
	if !p.Logic.Valid() {
		return 0, Predicate{}, &ParseError{Spec: spec, Reason: "unknown logic " + strconv.Quote(parts[1])}
	}
	if len(parts) == 3 {
		switch parts[2] {
		case TypeText, TypeNum:
			p.Type = parts[2]
		default:
			return 0, Predicate{}, &ParseError{Spec: spec, Reason: "unknown type " + strconv.Quote(parts[2])}
		}
	}

	if p.Logic.Unary() {
		if hasValue && value != "" {
			return 0, Predicate{}, &ParseError{Spec: spec, Reason: string(p.Logic) + " takes no value"}
		}
		return index, p, nil
	}
	if strings.TrimSpace(value) == "" {
		return 0, Predicate{}, &ParseError{Spec: spec, Reason: "missing value"}
	}
	return index, p, nil
}

func parseIndex(spec, s string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || index < 0 {
		return 0, &ParseError{Spec: spec, Reason: "column index must be a non-negative integer"}
	}
	return index, nil
}
