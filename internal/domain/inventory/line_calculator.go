package inventory

import (
	"github.com/shopspring/decimal"
)

// DefaultMoneyScale decimales con los que se redondea cada línea.
const DefaultMoneyScale int32 = 2

// LineAmounts resultado del cálculo de una línea.
type LineAmounts struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// LineCalculator calcula subtotal, impuesto y total por línea (servicio de dominio, sin efectos).
// Subtotal e impuesto se redondean a Scale decimales; Total = Subtotal + Tax,
// de modo que la suma de las líneas cuadra exactamente con la cabecera.
type LineCalculator struct {
	Scale int32
}

// NewLineCalculator construye la calculadora con la precisión monetaria dada.
func NewLineCalculator(scale int32) LineCalculator {
	if scale < 0 {
		scale = DefaultMoneyScale
	}
	return LineCalculator{Scale: scale}
}

// ComputeLine subtotal = quantity * unitPrice; tax = subtotal * taxRate; total = subtotal + tax.
func (c LineCalculator) ComputeLine(quantity int64, unitPrice, taxRate decimal.Decimal) LineAmounts {
	subtotal := decimal.NewFromInt(quantity).Mul(unitPrice).Round(c.Scale)
	tax := subtotal.Mul(taxRate).Round(c.Scale)
	return LineAmounts{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// Totals acumula líneas para obtener los totales de cabecera.
type Totals struct {
	Subtotal decimal.Decimal
	TaxTotal decimal.Decimal
	Total    decimal.Decimal
}

// Add suma una línea ya calculada.
func (t *Totals) Add(l LineAmounts) {
	t.Subtotal = t.Subtotal.Add(l.Subtotal)
	t.TaxTotal = t.TaxTotal.Add(l.Tax)
	t.Total = t.Total.Add(l.Total)
}
