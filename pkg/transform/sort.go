package transform

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"zdenci/exporter/pkg/zdenci"
)

// DefaultLocale is the collation locale used when none is configured.
const DefaultLocale = "hr"

// Sorter orders records by a list of keys using locale-aware string
// comparison. Missing values compare as the empty string.
type Sorter struct {
	tag  language.Tag
	keys []string
}

// NewSorter creates a sorter for locale ordering by keys. An empty locale
// selects DefaultLocale; no keys selects zdenci.SortKeys.
func NewSorter(locale string, keys ...string) (*Sorter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid sort locale %q: %w", locale, err)
	}
	if len(keys) == 0 {
		keys = zdenci.SortKeys
	}
	return &Sorter{tag: tag, keys: keys}, nil
}

// Locale returns the collation locale.
func (s *Sorter) Locale() language.Tag {
	return s.tag
}

// Sort returns a stably sorted copy of records. Each call uses its own
// collator, so one Sorter may serve concurrent exports.
func (s *Sorter) Sort(records []zdenci.Record) []zdenci.Record {
	out := append([]zdenci.Record(nil), records...)
	c := collate.New(s.tag)

	sort.SliceStable(out, func(i, j int) bool {
		for _, key := range s.keys {
			if r := c.CompareString(out[i].String(key), out[j].String(key)); r != 0 {
				return r < 0
			}
		}
		return false
	})
	return out
}
