package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices.
// PaymentMethod opcional; si va vacío se toma el de la venta.
type CreateInvoiceRequest struct {
	SaleID        string `json:"sale_id"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

// InvoiceResponse factura para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID            string          `json:"id"`
	SaleID        string          `json:"sale_id"`
	Number        string          `json:"number"`
	IssuedAt      time.Time       `json:"issued_at"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
}

// RegisterPaymentRequest body para POST /api/payments. Solo uno de SaleID / PurchaseID.
type RegisterPaymentRequest struct {
	SaleID         string           `json:"sale_id,omitempty"`
	PurchaseID     string           `json:"purchase_id,omitempty"`
	Amount         decimal.Decimal  `json:"amount"`
	AmountReceived *decimal.Decimal `json:"amount_received,omitempty"`
	Method         string           `json:"method"`
	Reference      string           `json:"reference,omitempty"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	ID             string          `json:"id"`
	SaleID         *string         `json:"sale_id,omitempty"`
	PurchaseID     *string         `json:"purchase_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	AmountReceived decimal.Decimal `json:"amount_received"`
	Change         decimal.Decimal `json:"change"`
	Method         string          `json:"method"`
	PaidAt         time.Time       `json:"paid_at"`
	Reference      string          `json:"reference,omitempty"`
}
