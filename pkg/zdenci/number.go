package zdenci

import (
	"math"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// decimalPattern is the plain decimal notation accepted for numbers, with an
// optional exponent. Hex floats, digit separators, "Inf" and "NaN" are not.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber parses s, trimmed, as a finite decimal number.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
