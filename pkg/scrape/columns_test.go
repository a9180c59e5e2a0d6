package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapColumnsExactHeaders(t *testing.T) {
	mapping := mapColumns([]string{"Fecha", "Descripción", "Referencia", "Monto", "Saldo"})
	assert.Equal(t, []field{fieldDate, fieldDescription, fieldReference, fieldAmount, fieldBalance}, mapping)
}

func TestMapColumnsEnglishHeaders(t *testing.T) {
	mapping := mapColumns([]string{"Date", "Description", "Amount", "Balance"})
	assert.Equal(t, []field{fieldDate, fieldDescription, fieldAmount, fieldBalance}, mapping)
}

func TestMapColumnsSubstringHeaders(t *testing.T) {
	mapping := mapColumns([]string{"Fecha de Operación", "Detalle del Movimiento", "Monto Bs.", "Saldo Disponible"})
	assert.Equal(t, []field{fieldDate, fieldDescription, fieldAmount, fieldBalance}, mapping)
}

func TestMapColumnsFuzzyHeaders(t *testing.T) {
	// Minor typos still land on the right field
	mapping := mapColumns([]string{"Fechas", "Descripcion", "Montos", "Saldos"})
	assert.Equal(t, []field{fieldDate, fieldDescription, fieldAmount, fieldBalance}, mapping)
}

func TestMapColumnsUnrecognizedFallsBackToPositional(t *testing.T) {
	mapping := mapColumns([]string{"Col1", "Col2", "Col3", "Col4", "Col5", "Col6"})
	assert.Equal(t, positionalDefault, mapping)
}

func TestMapColumnsEmptyHeaders(t *testing.T) {
	assert.Equal(t, positionalDefault[:4], positionalFor(4))

	mapping := positionalFor(8)
	assert.Len(t, mapping, 8)
	assert.Equal(t, fieldNone, mapping[7])
}

func TestMapColumnsBalanceBeforeAmount(t *testing.T) {
	// "Saldo Disponible" must claim balance even though amount aliases
	// could also bite on a loose match
	mapping := mapColumns([]string{"Monto", "Saldo Disponible"})
	assert.Equal(t, []field{fieldAmount, fieldBalance}, mapping)
}

func TestInferDirection(t *testing.T) {
	cases := []struct {
		marker string
		want   Direction
	}{
		{"C", Credit},
		{"Crédito", Credit},
		{"credit", Credit},
		{"+", Credit},
		{"D", Debit},
		{"Débito", Debit},
		{"ND", Debit},
		{"", Debit},  // ambiguous marker defaults to debit
		{"-", Debit}, // explicit documented default, not a guess
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, inferDirection(tc.marker), "marker %q", tc.marker)
	}
}
