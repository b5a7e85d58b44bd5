package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRequest body para POST/PUT /api/sales y /api/purchases.
// CounterpartyID es el cliente (venta) o el proveedor (compra).
type TransactionRequest struct {
	CounterpartyID string                   `json:"counterparty_id"`
	Date           *time.Time               `json:"date,omitempty"`
	Status         string                   `json:"status,omitempty"`
	PaymentMethod  string                   `json:"payment_method,omitempty"`
	Items          []TransactionItemRequest `json:"items"`
}

// TransactionItemRequest línea (producto, cantidad, precio unitario opcional).
type TransactionItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// TransactionResponse cabecera con líneas.
type TransactionResponse struct {
	ID             string                    `json:"id"`
	Kind           string                    `json:"kind"`
	CounterpartyID string                    `json:"counterparty_id"`
	UserID         string                    `json:"user_id"`
	Date           time.Time                 `json:"date"`
	Status         string                    `json:"status"`
	PaymentMethod  string                    `json:"payment_method,omitempty"`
	Subtotal       decimal.Decimal           `json:"subtotal"`
	TaxTotal       decimal.Decimal           `json:"tax_total"`
	Total          decimal.Decimal           `json:"total"`
	Items          []TransactionItemResponse `json:"items,omitempty"`
}

// TransactionItemResponse línea en la respuesta.
type TransactionItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

// TransactionListResponse listado paginado.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
