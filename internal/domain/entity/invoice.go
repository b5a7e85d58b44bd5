package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de factura.
const (
	InvoicePendiente = "pendiente"
	InvoicePagada    = "pagada"
	InvoiceAnulada   = "anulada"
)

// Invoice factura de una venta (1:1). Conserva su propia copia de los totales.
type Invoice struct {
	ID            string
	SaleID        string
	UserID        string
	Number        string // FACT-000000000001
	IssuedAt      time.Time
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	Status        string
	CreatedAt     time.Time
}
