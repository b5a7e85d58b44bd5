package entity

import "time"

// Tipos de movimiento del kardex.
const (
	MovementEntrada = "entrada" // entrada de mercancía (compra, saldo inicial)
	MovementSalida  = "salida"  // salida (venta)
	MovementAjuste  = "ajuste"  // ajuste manual o reverso
)

// StockMovement es un asiento del kardex. Exactamente una de QuantityIn/QuantityOut es > 0.
type StockMovement struct {
	ID          string
	ProductID   string
	SaleID      *string
	PurchaseID  *string
	QuantityIn  int64
	QuantityOut int64
	Kind        string
	EffectiveAt time.Time
	CreatedBy   string
	Note        string
	ReversalOf  *string // movimiento que este asiento compensa
	ReversedBy  *string // asiento que compensó a este movimiento
	CreatedAt   time.Time
}

// Delta efecto neto sobre el stock.
func (m *StockMovement) Delta() int64 {
	return m.QuantityIn - m.QuantityOut
}

// Active indica si el movimiento sigue vigente (no fue reversado ni es un reverso).
func (m *StockMovement) Active() bool {
	return m.ReversedBy == nil && m.ReversalOf == nil
}
