package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Kardex-api/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Escenario de referencia: 4 unidades a 100 con IVA 19% -> 400 / 76 / 476.
func TestComputeLine_Escenario19(t *testing.T) {
	calc := inventory.NewLineCalculator(2)
	got := calc.ComputeLine(4, dec("100"), dec("0.19"))

	assert.True(t, got.Subtotal.Equal(dec("400")), "subtotal %s", got.Subtotal)
	assert.True(t, got.Tax.Equal(dec("76")), "tax %s", got.Tax)
	assert.True(t, got.Total.Equal(dec("476")), "total %s", got.Total)
}

func TestComputeLine_RedondeaImpuestoPorLinea(t *testing.T) {
	calc := inventory.NewLineCalculator(2)
	got := calc.ComputeLine(3, dec("33.33"), dec("0.19"))

	assert.True(t, got.Subtotal.Equal(dec("99.99")))
	// 99.99 * 0.19 = 18.9981 -> 19.00
	assert.True(t, got.Tax.Equal(dec("19")), "tax %s", got.Tax)
	assert.True(t, got.Total.Equal(dec("118.99")))
}

func TestComputeLine_TasaCero(t *testing.T) {
	got := inventory.NewLineCalculator(2).ComputeLine(7, dec("12.5"), decimal.Zero)
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Total.Equal(got.Subtotal))
}

func TestTotals_SumaExactaDeLineas(t *testing.T) {
	calc := inventory.NewLineCalculator(2)
	var totals inventory.Totals
	lines := []inventory.LineAmounts{
		calc.ComputeLine(3, dec("33.33"), dec("0.19")),
		calc.ComputeLine(1, dec("0.07"), dec("0.19")),
		calc.ComputeLine(11, dec("1999.99"), dec("0.05")),
	}
	var subtotal, tax decimal.Decimal
	for _, l := range lines {
		totals.Add(l)
		subtotal = subtotal.Add(l.Subtotal)
		tax = tax.Add(l.Tax)
	}
	assert.True(t, totals.Subtotal.Equal(subtotal))
	assert.True(t, totals.TaxTotal.Equal(tax))
	assert.True(t, totals.Total.Sub(totals.TaxTotal).Equal(totals.Subtotal))
}

func TestFixedTaxRate(t *testing.T) {
	r := inventory.FixedTaxRate(dec("0.19"))
	assert.True(t, r.RateFor(time.Now()).Equal(dec("0.19")))
	assert.True(t, inventory.ValidTaxRate(dec("0.19")))
	assert.False(t, inventory.ValidTaxRate(dec("19")))
	assert.False(t, inventory.ValidTaxRate(dec("-0.01")))
}
