package scrape

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount parses a localized monetary string into a non-negative
// float. The primary format is dot-thousands with comma decimals
// ("1.234.567,89"); comma-thousands with dot decimals ("1,234,567.89") is
// accepted as the secondary format. Currency markers and signs are
// stripped; the caller derives direction elsewhere.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	// Strip currency symbols, letters and signs, keep digits and separators
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	s = b.String()
	if s == "" {
		return 0, fmt.Errorf("no digits in amount %q", raw)
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Both separators present: the rightmost one is the decimal mark
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		// Comma only: decimal mark unless it groups exactly three digits
		// more than once ("1,234,567")
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		// Dot only: primary locale uses it for thousands ("1.234"), but a
		// one- or two-digit tail reads as decimals ("150.00")
		if strings.Count(s, ".") > 1 || len(s)-lastDot-1 == 3 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable amount %q: %w", raw, err)
	}
	return math.Abs(value), nil
}
