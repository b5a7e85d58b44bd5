package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, product_id, sale_id, purchase_id, quantity_in, quantity_out, kind, effective_at, created_by, note, reversal_of, reversed_by, created_at`

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.ProductID, &m.SaleID, &m.PurchaseID, &m.QuantityIn, &m.QuantityOut, &m.Kind,
		&m.EffectiveAt, &m.CreatedBy, &m.Note, &m.ReversalOf, &m.ReversedBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste un movimiento del kardex.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, sale_id, purchase_id, quantity_in, quantity_out, kind, effective_at, created_by, note, reversal_of, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.SaleID, m.PurchaseID, m.QuantityIn, m.QuantityOut, m.Kind,
		m.EffectiveAt, m.CreatedBy, m.Note, m.ReversalOf, m.CreatedAt,
	)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return fmt.Errorf("movimiento (%s): %w", constraintName(err), domain.ErrNotFound)
		case isUniqueViolation(err):
			return fmt.Errorf("%w: %s", domain.ErrConflict, constraintName(err))
		}
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// MarkReversed solo enlaza si el movimiento aún no tiene reverso.
func (r *StockMovementRepo) MarkReversed(ctx context.Context, id, reversalID string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE stock_movements SET reversed_by = $2 WHERE id = $1 AND reversed_by IS NULL`,
		id, reversalID,
	)
	if err != nil {
		return fmt.Errorf("mark reversed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: el movimiento %s ya fue reversado", domain.ErrConflict, id)
	}
	return nil
}

// ListByProduct lista movimientos de un producto en un rango de fechas, en orden cronológico.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND effective_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND effective_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY effective_at ASC, seq ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list by product: %w", err)
	}
	return collectMovements(rows)
}

// ListActiveByTransaction movimientos no reversados de una venta o compra, en orden de registro.
func (r *StockMovementRepo) ListActiveByTransaction(ctx context.Context, kind entity.TransactionKind, transactionID string) ([]*entity.StockMovement, error) {
	column := "sale_id"
	if kind == entity.KindPurchase {
		column = "purchase_id"
	}
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE ` + column + ` = $1 AND reversed_by IS NULL AND reversal_of IS NULL
		ORDER BY seq`
	rows, err := r.q.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list by transaction: %w", err)
	}
	return collectMovements(rows)
}

// SumByProduct totales de entradas y salidas (stock derivado del kardex).
func (r *StockMovementRepo) SumByProduct(ctx context.Context, productID string) (int64, int64, error) {
	var in, out int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity_in), 0)::BIGINT, COALESCE(SUM(quantity_out), 0)::BIGINT FROM stock_movements WHERE product_id = $1`,
		productID,
	).Scan(&in, &out)
	if err != nil {
		return 0, 0, fmt.Errorf("sum by product: %w", err)
	}
	return in, out, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
