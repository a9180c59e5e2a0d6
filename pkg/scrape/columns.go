package scrape

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/danicanod/banker-venezuela-sub000/pkg/textutil"
)

// field is a semantic transaction column.
type field int

const (
	fieldNone field = iota
	fieldDate
	fieldDescription
	fieldReference
	fieldAmount
	fieldMarker // debit/credit indicator column
	fieldBalance
)

// fieldAliases lists known header names per field, Spanish first. Matching
// runs on folded text, so accents and casing are irrelevant.
var fieldAliases = map[field][]string{
	fieldDate:        {"fecha", "date", "fec", "dia"},
	fieldDescription: {"descripcion", "description", "concepto", "detalle", "movimiento"},
	fieldReference:   {"referencia", "reference", "ref", "numero", "documento", "nro"},
	fieldAmount:      {"monto", "amount", "importe", "valor", "bs"},
	fieldMarker:      {"tipo", "type", "db/cr", "d/c", "debito/credito", "signo"},
	fieldBalance:     {"saldo", "balance", "disponible"},
}

// mapOrder fixes the probing order so more specific fields claim their
// columns before looser ones (e.g. "saldo disponible" must land on
// balance, not amount).
var mapOrder = []field{fieldDate, fieldBalance, fieldMarker, fieldReference, fieldDescription, fieldAmount}

// positionalDefault is the fixed column order assumed when headers are
// empty or unrecognized.
var positionalDefault = []field{fieldDate, fieldDescription, fieldReference, fieldAmount, fieldMarker, fieldBalance}

// fuzzyThreshold is the minimum Jaro-Winkler similarity for a fuzzy
// header match.
const fuzzyThreshold = 0.88

// mapColumns assigns a semantic field to each header column. Exact folded
// equality wins, then substring containment, then fuzzy similarity. A
// header that matches nothing maps to fieldNone. When no header matches
// anything, the positional default order applies.
func mapColumns(headers []string) []field {
	mapping := make([]field, len(headers))
	claimed := map[field]bool{}

	for _, f := range mapOrder {
		for i, header := range headers {
			if mapping[i] != fieldNone || claimed[f] {
				continue
			}
			if headerMatches(header, fieldAliases[f]) {
				mapping[i] = f
				claimed[f] = true
			}
		}
	}

	if len(claimed) == 0 {
		return positionalFor(len(headers))
	}
	return mapping
}

// positionalFor returns the positional default order truncated or padded
// to the given column count.
func positionalFor(columns int) []field {
	mapping := make([]field, columns)
	for i := range mapping {
		if i < len(positionalDefault) {
			mapping[i] = positionalDefault[i]
		}
	}
	return mapping
}

func headerMatches(header string, aliases []string) bool {
	folded := textutil.Fold(header)
	if folded == "" {
		return false
	}

	for _, alias := range aliases {
		if folded == alias {
			return true
		}
	}
	for _, alias := range aliases {
		if strings.Contains(folded, alias) {
			return true
		}
	}
	for _, alias := range aliases {
		if matchr.JaroWinkler(folded, alias, false) >= fuzzyThreshold {
			return true
		}
	}
	return false
}

// inferDirection reads the marker column. Credit markers contain "c" or
// "+"; anything else deliberately defaults to debit rather than guessing.
func inferDirection(marker string) Direction {
	folded := textutil.Fold(marker)
	if strings.Contains(folded, "c") || strings.Contains(folded, "+") {
		return Credit
	}
	return Debit
}
