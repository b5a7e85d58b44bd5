package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind distingue ventas y compras (comparten estructura cabecera + detalle).
type TransactionKind string

const (
	KindSale     TransactionKind = "sale"
	KindPurchase TransactionKind = "purchase"
)

// Valid indica si el tipo es conocido.
func (k TransactionKind) Valid() bool {
	return k == KindSale || k == KindPurchase
}

// Estados de la transacción.
const (
	StatusPendiente  = "pendiente"
	StatusPagado     = "pagado"
	StatusPagada     = "pagada"
	StatusCompletada = "completada"
	StatusCancelada  = "cancelada"
)

// Métodos de pago.
const (
	PaymentEfectivo       = "efectivo"
	PaymentTarjetaCredito = "tarjeta_credito"
	PaymentTarjetaDebito  = "tarjeta_debito"
)

// ValidStatus indica si el estado aplica al tipo de transacción.
func ValidStatus(kind TransactionKind, status string) bool {
	switch kind {
	case KindSale:
		return status == StatusPendiente || status == StatusPagado || status == StatusCancelada
	case KindPurchase:
		return status == StatusCompletada || status == StatusPagada || status == StatusCancelada
	}
	return false
}

// ValidPaymentMethod indica si el método de pago es soportado.
func ValidPaymentMethod(m string) bool {
	return m == PaymentEfectivo || m == PaymentTarjetaCredito || m == PaymentTarjetaDebito
}

// Transaction cabecera de una venta o compra.
// Subtotal y TaxTotal son la suma exacta de las líneas; Total = Subtotal + TaxTotal.
type Transaction struct {
	ID             string
	Kind           TransactionKind
	CounterpartyID string // cliente (venta) o proveedor (compra)
	UserID         string
	Date           time.Time
	Status         string
	PaymentMethod  string
	Subtotal       decimal.Decimal
	TaxTotal       decimal.Decimal
	Total          decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LineItem línea de detalle; UnitPrice y TaxRate son una foto al momento del commit.
type LineItem struct {
	ID            string
	TransactionID string
	ProductID     string
	Quantity      int64
	UnitPrice     decimal.Decimal
	TaxRate       decimal.Decimal
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
}
