package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PaymentRepository define el puerto de persistencia para pagos.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByTransaction(ctx context.Context, kind entity.TransactionKind, transactionID string) ([]*entity.Payment, error)
	SumByTransaction(ctx context.Context, kind entity.TransactionKind, transactionID string) (decimal.Decimal, error)
	DeleteByTransaction(ctx context.Context, kind entity.TransactionKind, transactionID string) error
}
