package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment pago asociado a exactamente una venta o una compra.
type Payment struct {
	ID             string
	SaleID         *string
	PurchaseID     *string
	Amount         decimal.Decimal
	AmountReceived decimal.Decimal
	Change         decimal.Decimal // AmountReceived - Amount (solo efectivo)
	Method         string
	PaidAt         time.Time
	Reference      string
	CreatedAt      time.Time
}

// Target devuelve el tipo e ID de la transacción pagada.
func (p *Payment) Target() (TransactionKind, string) {
	if p.SaleID != nil {
		return KindSale, *p.SaleID
	}
	if p.PurchaseID != nil {
		return KindPurchase, *p.PurchaseID
	}
	return "", ""
}
