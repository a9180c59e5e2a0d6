package scrape

import (
	"fmt"
	"regexp"
)

// datePattern matches DD/MM/YYYY and its dashed and dotted variants, with
// two- or four-digit years.
var datePattern = regexp.MustCompile(`\b(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})\b`)

// NormalizeDate standardizes a portal date to canonical DD/MM/YYYY form.
// Two-digit years expand into the 2000s. Returns false when the text holds
// no recognizable date or the day/month are out of range.
func NormalizeDate(raw string) (string, bool) {
	m := datePattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}

	day := atoi2(m[1])
	month := atoi2(m[2])
	year := atoi2(m[3])

	if day < 1 || day > 31 || month < 1 || month > 12 {
		return "", false
	}
	if year < 100 {
		year += 2000
	}

	return fmt.Sprintf("%02d/%02d/%04d", day, month, year), true
}

// ContainsDate reports whether the text holds any recognizable date.
func ContainsDate(text string) bool {
	return datePattern.MatchString(text)
}

func atoi2(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
