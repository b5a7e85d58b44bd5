package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock es el contador autoritativo; solo lo modifica el kardex (movimientos) dentro de la misma tx.
type Product struct {
	ID            string
	CategoryID    string
	Name          string
	Description   string
	PurchasePrice decimal.Decimal // precio de compra
	SalePrice     decimal.Decimal // precio de venta
	Stock         int64
	MinStock      int64 // umbral de stock mínimo
	UnitMeasure   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BelowMinimum indica si el stock actual está por debajo del umbral.
func (p *Product) BelowMinimum() bool {
	return p.Stock < p.MinStock
}
