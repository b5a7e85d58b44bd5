package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// TransactionRepository persistencia de cabeceras y líneas de ventas y compras.
// Los métodos reciben el tipo para resolver la tabla (sales/purchases).
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	Update(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, kind entity.TransactionKind, id string) (*entity.Transaction, error)
	// GetForUpdate bloquea la cabecera para serializar ediciones concurrentes.
	GetForUpdate(ctx context.Context, kind entity.TransactionKind, id string) (*entity.Transaction, error)
	List(ctx context.Context, kind entity.TransactionKind, limit, offset int) ([]*entity.Transaction, error)
	Delete(ctx context.Context, kind entity.TransactionKind, id string) error

	CreateLine(ctx context.Context, kind entity.TransactionKind, line *entity.LineItem) error
	ListLines(ctx context.Context, kind entity.TransactionKind, transactionID string) ([]*entity.LineItem, error)
	DeleteLines(ctx context.Context, kind entity.TransactionKind, transactionID string) error
}
