package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func paymentTargetColumn(kind entity.TransactionKind) (string, error) {
	switch kind {
	case entity.KindSale:
		return "sale_id", nil
	case entity.KindPurchase:
		return "purchase_id", nil
	}
	return "", fmt.Errorf("tipo de transacción %q: %w", kind, domain.ErrInvalidInput)
}

// Create persiste el pago.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, sale_id, purchase_id, amount, amount_received, change, method, paid_at, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SaleID, p.PurchaseID, p.Amount, p.AmountReceived, p.Change,
		p.Method, p.PaidAt, p.Reference, p.CreatedAt,
	)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return fmt.Errorf("pago (%s): %w", constraintName(err), domain.ErrNotFound)
		case isCheckViolation(err):
			return fmt.Errorf("pago (%s): %w", constraintName(err), domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// ListByTransaction pagos en orden de registro.
func (r *PaymentRepo) ListByTransaction(ctx context.Context, kind entity.TransactionKind, transactionID string) ([]*entity.Payment, error) {
	col, err := paymentTargetColumn(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, sale_id, purchase_id, amount, amount_received, change, method, paid_at, reference, created_at
		FROM payments WHERE ` + col + ` = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Payment, 0)
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.PurchaseID, &p.Amount, &p.AmountReceived, &p.Change,
			&p.Method, &p.PaidAt, &p.Reference, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// SumByTransaction suma de montos pagados.
func (r *PaymentRepo) SumByTransaction(ctx context.Context, kind entity.TransactionKind, transactionID string) (decimal.Decimal, error) {
	col, err := paymentTargetColumn(kind)
	if err != nil {
		return decimal.Zero, err
	}
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE `+col+` = $1`, transactionID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	return sum, nil
}

// DeleteByTransaction elimina los pagos (borrado en cascada).
func (r *PaymentRepo) DeleteByTransaction(ctx context.Context, kind entity.TransactionKind, transactionID string) error {
	col, err := paymentTargetColumn(kind)
	if err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM payments WHERE `+col+` = $1`, transactionID); err != nil {
		return fmt.Errorf("delete payments: %w", err)
	}
	return nil
}
