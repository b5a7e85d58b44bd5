package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/products. El stock inicia en 0.
type CreateProductRequest struct {
	CategoryID    string          `json:"category_id,omitempty"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MinStock      int64           `json:"min_stock"`
	UnitMeasure   string          `json:"unit_measure,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID            string          `json:"id"`
	CategoryID    string          `json:"category_id,omitempty"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Stock         int64           `json:"stock"`
	MinStock      int64           `json:"min_stock"`
	UnitMeasure   string          `json:"unit_measure"`
}

// CreateCounterpartyRequest body para POST /api/clients y /api/suppliers.
// Name es el nombre del cliente o la razón social del proveedor.
type CreateCounterpartyRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CounterpartyResponse cliente o proveedor en respuestas.
type CounterpartyResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}
