package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del kardex.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// MarkReversed enlaza el movimiento con el asiento que lo compensa.
	MarkReversed(ctx context.Context, id, reversalID string) error
	// ListByProduct en orden cronológico (effective_at, luego orden de inserción).
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// ListActiveByTransaction movimientos vigentes (no reversados) de una venta o compra.
	ListActiveByTransaction(ctx context.Context, kind entity.TransactionKind, transactionID string) ([]*entity.StockMovement, error)
	// SumByProduct totales de entradas y salidas del producto (stock derivado = in - out).
	SumByProduct(ctx context.Context, productID string) (in, out int64, err error)
}
