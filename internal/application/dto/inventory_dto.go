package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements.
// SaleID / PurchaseID: los asientos de una venta o compra se registran editándola (409).
type RegisterMovementRequest struct {
	ProductID   string     `json:"product_id"`
	Type        string     `json:"type"` // entrada | salida | ajuste
	QuantityIn  int64      `json:"quantity_in"`
	QuantityOut int64      `json:"quantity_out"`
	SaleID      string     `json:"sale_id,omitempty"`
	PurchaseID  string     `json:"purchase_id,omitempty"`
	Note        string     `json:"note,omitempty"`
	EffectiveAt *time.Time `json:"effective_at,omitempty"`
}

// MovementCreatedResponse respuesta de registro o reverso.
type MovementCreatedResponse struct {
	ID string `json:"id"`
}

// MovementResponse línea del kardex.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	SaleID      *string   `json:"sale_id,omitempty"`
	PurchaseID  *string   `json:"purchase_id,omitempty"`
	Type        string    `json:"type"`
	QuantityIn  int64     `json:"quantity_in"`
	QuantityOut int64     `json:"quantity_out"`
	EffectiveAt time.Time `json:"effective_at"`
	CreatedBy   string    `json:"created_by,omitempty"`
	Note        string    `json:"note,omitempty"`
	ReversalOf  *string   `json:"reversal_of,omitempty"`
	ReversedBy  *string   `json:"reversed_by,omitempty"`
}

// StockResponse stock actual de un producto.
type StockResponse struct {
	ProductID string `json:"product_id"`
	Stock     int64  `json:"stock"`
}

// ReconcileResponse contador vs kardex.
type ReconcileResponse struct {
	ProductID string `json:"product_id"`
	Stored    int64  `json:"stored"`
	Derived   int64  `json:"derived"`
	InSync    bool   `json:"in_sync"`
}

// LowStockDTO producto bajo su stock mínimo con la cantidad sugerida de pedido.
type LowStockDTO struct {
	ProductID         string `json:"product_id"`
	ProductName       string `json:"product_name"`
	CurrentStock      int64  `json:"current_stock"`
	MinStock          int64  `json:"min_stock"`
	IdealStock        int64  `json:"ideal_stock"`         // ceil(MinStock * 1.5)
	SuggestedOrderQty int64  `json:"suggested_order_qty"` // IdealStock - CurrentStock
	Priority          int    `json:"priority"`            // 1 = más urgente
}
