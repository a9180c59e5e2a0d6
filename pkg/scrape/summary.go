package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	currentBalancePattern  = regexp.MustCompile(`(?i)saldo\s+(?:actual|disponible)\s*:?\s*(?:bs\.?\s*)?([\d.,]+\d)`)
	previousBalancePattern = regexp.MustCompile(`(?i)saldo\s+anterior\s*:?\s*(?:bs\.?\s*)?([\d.,]+\d)`)
	accountNumberPattern   = regexp.MustCompile(`\b(\d{4}-?\d{4}-?\d{2}-?\d{10})\b`)
	accountTypePattern     = regexp.MustCompile(`(?i)\b(cuenta\s+(?:corriente|de\s+ahorros?)|savings?\s+account|checking\s+account)\b`)
)

// ExtractAccountSummary scans the page text for balance and account
// patterns. Each field is extracted independently; whatever is not found
// stays nil. It never fails the main extraction.
func ExtractAccountSummary(doc *goquery.Document) AccountSummary {
	var summary AccountSummary
	text := doc.Text()

	if m := currentBalancePattern.FindStringSubmatch(text); m != nil {
		if value, err := ParseAmount(m[1]); err == nil {
			summary.CurrentBalance = &value
		}
	}
	if m := previousBalancePattern.FindStringSubmatch(text); m != nil {
		if value, err := ParseAmount(m[1]); err == nil {
			summary.PreviousBalance = &value
		}
	}
	if m := accountNumberPattern.FindStringSubmatch(text); m != nil {
		number := strings.ReplaceAll(m[1], "-", "")
		summary.AccountNumber = &number
	}
	if m := accountTypePattern.FindStringSubmatch(text); m != nil {
		accountType := strings.TrimSpace(m[1])
		summary.AccountType = &accountType
	}
	return summary
}
