package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// amountPattern matches localized monetary strings in free text, in
// either separator convention.
var amountPattern = regexp.MustCompile(`\d{1,3}(?:\.\d{3})+,\d{2}|\d{1,3}(?:,\d{3})+\.\d{2}|\d+[.,]\d{2}`)

const (
	fallbackMinTextLen = 10
	fallbackMaxTextLen = 300
	fallbackDescLen    = 120
)

// scanFallback is the alternative method used when no table qualifies:
// free-text nodes where a date pattern and an amount pattern co-occur
// become low-confidence records, up to the cap.
func (e *Engine) scanFallback(doc *goquery.Document, cap int) []TransactionRecord {
	var records []TransactionRecord
	seen := map[string]bool{}

	doc.Find("td, li, p, div, span").EachWithBreak(func(_ int, node *goquery.Selection) bool {
		// Only leaf-ish nodes; containers repeat their descendants' text
		if node.Children().Length() > 2 {
			return true
		}

		text := strings.TrimSpace(node.Text())
		if len(text) < fallbackMinTextLen || len(text) > fallbackMaxTextLen {
			return true
		}
		if seen[text] {
			return true
		}

		date, ok := NormalizeDate(text)
		if !ok {
			return true
		}
		amountRaw := amountPattern.FindString(text)
		if amountRaw == "" {
			return true
		}
		amount, err := ParseAmount(amountRaw)
		if err != nil {
			return true
		}

		seen[text] = true
		description := text
		if len(description) > fallbackDescLen {
			description = description[:fallbackDescLen]
		}

		records = append(records, TransactionRecord{
			Date:        date,
			Description: description,
			Amount:      amount,
			Direction:   Debit, // no marker context in free text
		})
		return len(records) < cap
	})

	e.log.Infof("fallback scan produced %d low-confidence records", len(records))
	return records
}
