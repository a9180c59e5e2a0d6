package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractCandidate pulls typed records out of one scored candidate's
// table. Rows missing a date or description are skipped and counted, as
// are rows whose amount cannot be parsed; extraction never aborts on a
// bad row.
func (e *Engine) extractCandidate(doc *goquery.Document, candidate Candidate) ([]TransactionRecord, int) {
	table := doc.Find("table").Eq(candidate.index)
	if table.Length() == 0 {
		return nil, 0
	}
	shape := parseTable(table)

	mapping := mapColumns(shape.headers)
	if len(shape.headers) == 0 {
		mapping = positionalFor(columnCount(shape))
	}

	var records []TransactionRecord
	skipped := 0

	for _, row := range shape.rows {
		record, ok := e.rowToRecord(row, mapping)
		if !ok {
			skipped++
			continue
		}
		records = append(records, record)
	}
	return records, skipped
}

func (e *Engine) rowToRecord(row []string, mapping []field) (TransactionRecord, bool) {
	var record TransactionRecord
	var amountRaw, markerRaw, balanceRaw string

	for i, cell := range row {
		if i >= len(mapping) {
			break
		}
		switch mapping[i] {
		case fieldDate:
			if date, ok := NormalizeDate(cell); ok {
				record.Date = date
			}
		case fieldDescription:
			record.Description = strings.TrimSpace(cell)
		case fieldReference:
			record.Reference = strings.TrimSpace(cell)
		case fieldAmount:
			amountRaw = cell
		case fieldMarker:
			markerRaw = cell
		case fieldBalance:
			balanceRaw = cell
		}
	}

	if record.Date == "" || record.Description == "" {
		e.log.Debugf("skipping row without date or description: %v", row)
		return TransactionRecord{}, false
	}

	amount, err := ParseAmount(amountRaw)
	if err != nil {
		e.log.Debugf("skipping row with unparseable amount %q: %v", amountRaw, err)
		return TransactionRecord{}, false
	}
	record.Amount = amount
	record.Direction = inferDirection(markerRaw)

	if balanceRaw != "" {
		if balance, err := ParseAmount(balanceRaw); err == nil {
			record.Balance = &balance
		}
	}
	return record, true
}
