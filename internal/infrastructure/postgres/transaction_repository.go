package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// tables nombres de tabla y columnas por tipo de transacción.
type tables struct {
	header       string // sales | purchases
	counterparty string // client_id | supplier_id
	lines        string // sale_items | purchase_items
	parent       string // sale_id | purchase_id
}

var tablesByKind = map[entity.TransactionKind]tables{
	entity.KindSale:     {header: "sales", counterparty: "client_id", lines: "sale_items", parent: "sale_id"},
	entity.KindPurchase: {header: "purchases", counterparty: "supplier_id", lines: "purchase_items", parent: "purchase_id"},
}

func tablesFor(kind entity.TransactionKind) (tables, error) {
	t, ok := tablesByKind[kind]
	if !ok {
		return tables{}, fmt.Errorf("tipo de transacción %q: %w", kind, domain.ErrInvalidInput)
	}
	return t, nil
}

// TransactionRepo ventas y compras con su detalle (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

func headerColumns(t tables) string {
	return `id, ` + t.counterparty + `, user_id, date, status, payment_method, subtotal, tax_total, total, created_at, updated_at`
}

func scanTransaction(row pgx.Row, kind entity.TransactionKind) (*entity.Transaction, error) {
	tx := entity.Transaction{Kind: kind}
	err := row.Scan(
		&tx.ID, &tx.CounterpartyID, &tx.UserID, &tx.Date, &tx.Status, &tx.PaymentMethod,
		&tx.Subtotal, &tx.TaxTotal, &tx.Total, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// Create persiste la cabecera.
func (r *TransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	t, err := tablesFor(tx.Kind)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + t.header + ` (` + headerColumns(t) + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.q.Exec(ctx, query,
		tx.ID, tx.CounterpartyID, tx.UserID, tx.Date, tx.Status, tx.PaymentMethod,
		tx.Subtotal, tx.TaxTotal, tx.Total, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return fmt.Errorf("%s: %w", t.counterparty, domain.ErrNotFound)
		}
		return fmt.Errorf("insert %s: %w", t.header, err)
	}
	return nil
}

// Update reemplaza cabecera y totales.
func (r *TransactionRepo) Update(ctx context.Context, tx *entity.Transaction) error {
	t, err := tablesFor(tx.Kind)
	if err != nil {
		return err
	}
	query := `UPDATE ` + t.header + `
		SET ` + t.counterparty + ` = $2, date = $3, status = $4, payment_method = $5,
		    subtotal = $6, tax_total = $7, total = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		tx.ID, tx.CounterpartyID, tx.Date, tx.Status, tx.PaymentMethod,
		tx.Subtotal, tx.TaxTotal, tx.Total, tx.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w", t.counterparty, domain.ErrNotFound)
		}
		return fmt.Errorf("update %s: %w", t.header, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene la cabecera; (nil, nil) si no existe.
func (r *TransactionRepo) GetByID(ctx context.Context, kind entity.TransactionKind, id string) (*entity.Transaction, error) {
	return r.get(ctx, kind, id, "")
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE).
func (r *TransactionRepo) GetForUpdate(ctx context.Context, kind entity.TransactionKind, id string) (*entity.Transaction, error) {
	return r.get(ctx, kind, id, " FOR UPDATE")
}

func (r *TransactionRepo) get(ctx context.Context, kind entity.TransactionKind, id, suffix string) (*entity.Transaction, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + headerColumns(t) + ` FROM ` + t.header + ` WHERE id = $1` + suffix
	tx, err := scanTransaction(r.q.QueryRow(ctx, query, id), kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", t.header, err)
	}
	return tx, nil
}

// List más recientes primero.
func (r *TransactionRepo) List(ctx context.Context, kind entity.TransactionKind, limit, offset int) ([]*entity.Transaction, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + headerColumns(t) + ` FROM ` + t.header + `
		ORDER BY date DESC, created_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.header, err)
	}
	defer rows.Close()
	list := make([]*entity.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.header, err)
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}

// Delete elimina la cabecera; las líneas caen por ON DELETE CASCADE y los movimientos
// quedan con la referencia en NULL.
func (r *TransactionRepo) Delete(ctx context.Context, kind entity.TransactionKind, id string) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM `+t.header+` WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s referenciada por %s", domain.ErrConflict, t.header, constraintName(err))
		}
		return fmt.Errorf("delete %s: %w", t.header, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateLine persiste una línea de detalle.
func (r *TransactionRepo) CreateLine(ctx context.Context, kind entity.TransactionKind, line *entity.LineItem) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + t.lines + ` (id, ` + t.parent + `, product_id, quantity, unit_price, tax_rate, subtotal, tax, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(ctx, query,
		line.ID, line.TransactionID, line.ProductID, line.Quantity, line.UnitPrice,
		line.TaxRate, line.Subtotal, line.Tax, line.Total,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("línea (%s): %w", constraintName(err), domain.ErrNotFound)
		}
		return fmt.Errorf("insert %s: %w", t.lines, err)
	}
	return nil
}

// ListLines líneas en orden de registro.
func (r *TransactionRepo) ListLines(ctx context.Context, kind entity.TransactionKind, transactionID string) ([]*entity.LineItem, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, ` + t.parent + `, product_id, quantity, unit_price, tax_rate, subtotal, tax, total
		FROM ` + t.lines + ` WHERE ` + t.parent + ` = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.lines, err)
	}
	defer rows.Close()
	list := make([]*entity.LineItem, 0)
	for rows.Next() {
		var li entity.LineItem
		if err := rows.Scan(&li.ID, &li.TransactionID, &li.ProductID, &li.Quantity, &li.UnitPrice,
			&li.TaxRate, &li.Subtotal, &li.Tax, &li.Total); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.lines, err)
		}
		list = append(list, &li)
	}
	return list, rows.Err()
}

// DeleteLines elimina el detalle de la transacción.
func (r *TransactionRepo) DeleteLines(ctx context.Context, kind entity.TransactionKind, transactionID string) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM `+t.lines+` WHERE `+t.parent+` = $1`, transactionID); err != nil {
		return fmt.Errorf("delete %s: %w", t.lines, err)
	}
	return nil
}
