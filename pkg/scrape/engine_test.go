package scrape

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danicanod/banker-venezuela-sub000/pkg/browser"
)

// pagedFake serves a scripted sequence of page snapshots; clicking the
// pagination control advances to the next snapshot.
type pagedFake struct {
	pages        []string
	index        int
	contentCalls int
	clickCalls   int
}

func (p *pagedFake) WaitFor(selector string, opts browser.WaitOptions) error { return nil }
func (p *pagedFake) Fill(selector, value string, timeout float64) error      { return nil }

func (p *pagedFake) Click(selector string, timeout float64) error {
	if selector != "#lnkMasRegistros" {
		return fmt.Errorf("click failed: no element matches %q", selector)
	}
	if p.index+1 >= len(p.pages) {
		return fmt.Errorf("click failed: control not present")
	}
	p.clickCalls++
	p.index++
	return nil
}

func (p *pagedFake) Evaluate(script string) (interface{}, error) { return nil, nil }

func (p *pagedFake) Content() (string, error) {
	p.contentCalls++
	return p.pages[p.index], nil
}

func (p *pagedFake) URL() string { return "https://bank.example/Movimientos.aspx" }

func (p *pagedFake) Navigate(url string, opts browser.NavigateOptions) error { return nil }
func (p *pagedFake) Reload(timeout float64) error                            { return nil }
func (p *pagedFake) Title() (string, error)                                  { return "", nil }
func (p *pagedFake) Cookies() ([]browser.Cookie, error)                      { return nil, nil }
func (p *pagedFake) SetCookies(cookies []browser.Cookie) error               { return nil }
func (p *pagedFake) ClearCookies() error                                     { return nil }
func (p *pagedFake) StorageSnapshot() (browser.StorageState, error) {
	return browser.StorageState{}, nil
}
func (p *pagedFake) RestoreStorage(state browser.StorageState) error { return nil }
func (p *pagedFake) WaitSettled(timeout float64) error               { return nil }
func (p *pagedFake) FrameByURL(substr string) (browser.Frame, bool)  { return nil, false }
func (p *pagedFake) Close() error                                    { return nil }

func movementsPage(rows string, hasMore bool) string {
	page := `<html><body><table>
	<thead><tr><th>Fecha</th><th>Descripción</th><th>Referencia</th><th>Monto</th><th>Tipo</th><th>Saldo</th></tr></thead>
	<tbody>` + rows + `</tbody></table>`
	if hasMore {
		page += `<a id="lnkMasRegistros" href="#">Más Registros</a>`
	}
	page += `</body></html>`
	return page
}

func row(date, desc, ref, amount, marker, balance string) string {
	return fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
		date, desc, ref, amount, marker, balance)
}

func TestScrapeSinglePage(t *testing.T) {
	page := &pagedFake{pages: []string{movementsPage(
		row("01/03/2024", "Pago Nómina", "00123", "1.500,00", "C", "10.000,00")+
			row("02/03/2024", "Compra POS", "00124", "250,00", "D", "9.750,00"),
		false,
	)}}

	engine := NewEngine(page, Options{})
	result, err := engine.Scrape(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "table", result.Meta.Method)
	assert.Equal(t, 1, result.Meta.PagesVisited)

	first := result.Records[0]
	assert.Equal(t, "01/03/2024", first.Date)
	assert.Equal(t, "Pago Nómina", first.Description)
	assert.Equal(t, "00123", first.Reference)
	assert.InDelta(t, 1500.00, first.Amount, 0.001)
	assert.Equal(t, Credit, first.Direction)
	require.NotNil(t, first.Balance)
	assert.InDelta(t, 10000.00, *first.Balance, 0.001)

	assert.Equal(t, Debit, result.Records[1].Direction)
}

func TestScrapePaginationUnionAndTermination(t *testing.T) {
	// Pages 1..N-1 carry the more-records indicator; page N does not.
	// Extraction must return the union and stop without an (N+1)th fetch.
	const n = 3
	var pages []string
	for i := 0; i < n; i++ {
		pages = append(pages, movementsPage(
			row(fmt.Sprintf("%02d/03/2024", 2*i+1), fmt.Sprintf("Mov %d-a", i+1), "", "100,00", "D", "")+
				row(fmt.Sprintf("%02d/03/2024", 2*i+2), fmt.Sprintf("Mov %d-b", i+1), "", "200,00", "C", ""),
			i < n-1,
		))
	}
	page := &pagedFake{pages: pages}

	engine := NewEngine(page, Options{})
	result, err := engine.Scrape(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Records, 2*n)
	assert.Equal(t, n, result.Meta.PagesVisited)
	assert.Equal(t, n-1, page.clickCalls)
	assert.Equal(t, n, page.contentCalls, "no fetch beyond the last page")
	assert.Equal(t, "Mov 3-b", result.Records[len(result.Records)-1].Description)
}

func TestScrapeMaxPagesBound(t *testing.T) {
	// Every page claims more records; the bound must stop the loop
	var pages []string
	for i := 0; i < 8; i++ {
		pages = append(pages, movementsPage(
			row("01/03/2024", fmt.Sprintf("Mov %d-a", i), "", "100,00", "D", "")+
				row("02/03/2024", fmt.Sprintf("Mov %d-b", i), "", "100,00", "D", ""),
			true,
		))
	}
	page := &pagedFake{pages: pages}

	engine := NewEngine(page, Options{MaxPages: 3})
	result, err := engine.Scrape(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Meta.PagesVisited)
	assert.Len(t, result.Records, 6)
}

func TestScrapeSkipsBadRows(t *testing.T) {
	page := &pagedFake{pages: []string{movementsPage(
		row("01/03/2024", "Pago válido", "", "100,00", "D", "")+
			row("", "Sin fecha", "", "100,00", "D", "")+
			row("02/03/2024", "", "", "100,00", "D", "")+
			row("03/03/2024", "Monto roto", "", "???", "D", ""),
		false,
	)}}

	engine := NewEngine(page, Options{})
	result, err := engine.Scrape(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Records, 1)
	assert.Equal(t, 3, result.Meta.RowsSkipped)
}

func TestScrapeFallbackMode(t *testing.T) {
	page := &pagedFake{pages: []string{`<html><body>
	  <div>Movimiento del 01/03/2024 por Bs. 1.500,00</div>
	  <div>Compra 02/03/2024 monto 250,00</div>
	  <div>Texto sin nada util</div>
	</body></html>`}}

	engine := NewEngine(page, Options{})
	result, err := engine.Scrape(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "fallback", result.Meta.Method)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "01/03/2024", result.Records[0].Date)
	assert.InDelta(t, 1500.00, result.Records[0].Amount, 0.001)
	assert.Equal(t, Debit, result.Records[0].Direction)
}

func TestScrapeFallbackCap(t *testing.T) {
	html := "<html><body>"
	for i := 0; i < 10; i++ {
		html += fmt.Sprintf("<div>Mov %d del 01/03/2024 por 100,0%d</div>", i, i)
	}
	html += "</body></html>"
	page := &pagedFake{pages: []string{html}}

	engine := NewEngine(page, Options{FallbackCap: 4})
	result, err := engine.Scrape(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Records, 4)
}

func TestScrapeCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	page := &pagedFake{pages: []string{movementsPage("", false)}}
	engine := NewEngine(page, Options{})

	_, err := engine.Scrape(ctx)
	assert.Error(t, err)
	assert.Equal(t, 0, page.contentCalls)
}
