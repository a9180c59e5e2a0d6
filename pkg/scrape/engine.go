// Package scrape discovers transaction tables on authenticated portal
// pages, extracts typed records and follows pagination.
//
// The engine works on Content() snapshots parsed with goquery; only
// pagination clicks go back through the browser. Table discovery is
// heuristic: regions are scored by domain keywords in their headers and
// row counts, and a free-text fallback scan covers pages where no region
// qualifies.
package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/danicanod/banker-venezuela-sub000/pkg/browser"
	"github.com/danicanod/banker-venezuela-sub000/pkg/logging"
	"github.com/danicanod/banker-venezuela-sub000/pkg/textutil"
)

// moreIndicators are the textual hints that further records exist beyond
// the visible rows.
var moreIndicators = []string{"mas registros", "more records", "ver mas movimientos", "siguientes registros"}

// nextControls are the probed pagination controls, in priority order.
var nextControls = []string{
	"#lnkMasRegistros",
	"a#lnkSiguiente",
	"input[id*='Siguiente']",
	"text=Más Registros",
	"text=Siguiente",
}

// Engine extracts transactions from an authenticated page.
type Engine struct {
	page browser.Page
	opts Options
	log  *logging.Logger
}

// NewEngine creates an extraction engine over an authenticated page.
func NewEngine(page browser.Page, opts Options) *Engine {
	log, _ := logging.NewLogger("scrape")
	return &Engine{page: page, opts: opts.withDefaults(), log: log}
}

// Scrape runs discovery, extraction and pagination until no more-records
// indicator remains or the page bound is hit, then attaches the account
// summary. The summary never blocks the main extraction.
func (e *Engine) Scrape(ctx context.Context) (*Result, error) {
	result := &Result{Meta: Metadata{Method: "table"}}
	summaryDone := false

	for pageNum := 0; pageNum < e.opts.MaxPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("scrape canceled: %w", err)
		}

		doc, err := e.snapshot()
		if err != nil {
			return result, err
		}
		result.Meta.PagesVisited++

		if !summaryDone {
			result.Summary = ExtractAccountSummary(doc)
			summaryDone = true
		}

		candidates := Analyze(doc, e.opts.ScoreThreshold)
		if len(candidates) == 0 {
			if pageNum == 0 {
				e.log.Warnf("no table candidate qualified, using fallback scan")
				result.Records = e.scanFallback(doc, e.opts.FallbackCap)
				result.Meta.Method = "fallback"
			}
			return result, nil
		}

		records, skipped := e.extractBest(doc, candidates)
		result.Records = append(result.Records, records...)
		result.Meta.RowsSkipped += skipped
		e.log.Infof("page %d: %d records, %d rows skipped", pageNum+1, len(records), skipped)

		if !hasMoreRecords(doc) {
			return result, nil
		}
		if !e.clickNext() {
			e.log.Warnf("more-records indicator present but no pagination control found")
			return result, nil
		}
		if err := e.page.WaitSettled(e.opts.SettleTimeout); err != nil {
			e.log.Warnf("page did not settle after pagination: %v", err)
			return result, nil
		}
	}

	e.log.Warnf("pagination stopped at the %d page bound", e.opts.MaxPages)
	return result, nil
}

func (e *Engine) snapshot() (*goquery.Document, error) {
	content, err := e.page.Content()
	if err != nil {
		return nil, fmt.Errorf("page snapshot failed: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("page parse failed: %w", err)
	}
	return doc, nil
}

// extractBest walks the ranked candidates and keeps the first that yields
// records; lower-ranked regions are usually layout tables that shared a
// keyword.
func (e *Engine) extractBest(doc *goquery.Document, candidates []Candidate) ([]TransactionRecord, int) {
	for _, candidate := range candidates {
		records, skipped := e.extractCandidate(doc, candidate)
		if len(records) > 0 {
			return records, skipped
		}
		e.log.Debugf("candidate with score %d yielded no records, trying next", candidate.Score)
	}
	return nil, 0
}

func hasMoreRecords(doc *goquery.Document) bool {
	text := textutil.Fold(doc.Text())
	for _, indicator := range moreIndicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	return false
}

func (e *Engine) clickNext() bool {
	for _, selector := range nextControls {
		if err := e.page.Click(selector, browser.DefaultProbeTimeout); err == nil {
			return true
		}
	}
	return false
}
