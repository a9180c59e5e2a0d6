package scrape

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/danicanod/banker-venezuela-sub000/pkg/textutil"
)

// scoringGroups are the domain keyword families counted once each when
// present in a table's headers, in either language.
var scoringGroups = [][]string{
	{"fecha", "date"},
	{"descripcion", "description", "concepto", "detalle"},
	{"monto", "amount", "importe"},
	{"saldo", "balance"},
	{"debito", "credito", "debit", "credit", "d/c"},
	{"referencia", "reference", "documento"},
}

// multiRowBonus rewards tables that actually hold data rows.
const multiRowBonus = 2

// tableShape is a parsed table: header texts plus data-row cell texts.
type tableShape struct {
	headers []string
	rows    [][]string
}

// Analyze enumerates the document's table regions, scores each against
// the transaction-table heuristics and returns the candidates whose score
// exceeds the threshold, best first. Single-row tables never qualify.
func Analyze(doc *goquery.Document, threshold int) []Candidate {
	var candidates []Candidate

	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		shape := parseTable(table)

		candidate := Candidate{
			RowCount:    len(shape.rows),
			ColumnCount: columnCount(shape),
			Headers:     shape.headers,
			Score:       scoreTable(shape),
			index:       i,
		}

		if candidate.RowCount > 1 && candidate.Score > threshold {
			candidates = append(candidates, candidate)
		}
	})

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Score > candidates[b].Score
	})
	return candidates
}

func scoreTable(shape tableShape) int {
	joined := textutil.Fold(strings.Join(shape.headers, " "))

	score := 0
	for _, group := range scoringGroups {
		for _, keyword := range group {
			if strings.Contains(joined, keyword) {
				score++
				break
			}
		}
	}
	if len(shape.rows) > 1 {
		score += multiRowBonus
	}
	return score
}

// parseTable splits a table into header texts and data-row cells. A thead
// row or an all-th first row counts as the header; everything else is
// data. Nested tables contribute their own candidates separately.
func parseTable(table *goquery.Selection) tableShape {
	var shape tableShape

	headRow := table.Find("thead tr").First()
	if headRow.Length() > 0 {
		shape.headers = cellTexts(headRow)
		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			shape.rows = append(shape.rows, cellTexts(row))
		})
		if len(shape.rows) == 0 {
			table.Find("tr").Each(func(_ int, row *goquery.Selection) {
				if row.Closest("thead").Length() > 0 {
					return
				}
				shape.rows = append(shape.rows, cellTexts(row))
			})
		}
		return shape
	}

	rows := table.Find("tr")
	rows.Each(func(i int, row *goquery.Selection) {
		if row.Closest("table").Get(0) != table.Get(0) {
			return // row belongs to a nested table
		}
		if i == 0 && row.Children().Length() > 0 && row.Children().Length() == row.Find("th").Length() {
			shape.headers = cellTexts(row)
			return
		}
		shape.rows = append(shape.rows, cellTexts(row))
	})
	return shape
}

func cellTexts(row *goquery.Selection) []string {
	var cells []string
	row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	return cells
}

func columnCount(shape tableShape) int {
	count := len(shape.headers)
	for _, row := range shape.rows {
		if len(row) > count {
			count = len(row)
		}
	}
	return count
}
