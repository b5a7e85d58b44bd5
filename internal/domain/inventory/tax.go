package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxRateProvider resuelve la tasa de IVA aplicable a la fecha de la transacción.
type TaxRateProvider interface {
	RateFor(date time.Time) decimal.Decimal
}

// FixedTaxRate tasa única por despliegue (LEDGER_TAX_RATE).
type FixedTaxRate decimal.Decimal

// RateFor ignora la fecha.
func (r FixedTaxRate) RateFor(time.Time) decimal.Decimal {
	return decimal.Decimal(r)
}

// ValidTaxRate 0 <= rate < 1 (fracción, no porcentaje).
func ValidTaxRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThan(decimal.NewFromInt(1))
}
