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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, sale_id, user_id, number, issued_at, subtotal, tax_total, total, payment_method, status, created_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.SaleID, &inv.UserID, &inv.Number, &inv.IssuedAt,
		&inv.Subtotal, &inv.TaxTotal, &inv.Total, &inv.PaymentMethod, &inv.Status, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persiste la factura. Una segunda factura para la misma venta viola invoices_sale_id_key.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.SaleID, invoice.UserID, invoice.Number, invoice.IssuedAt,
		invoice.Subtotal, invoice.TaxTotal, invoice.Total, invoice.PaymentMethod, invoice.Status, invoice.CreatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err) && constraintName(err) == "invoices_sale_id_key":
			return fmt.Errorf("%w: la venta %s ya tiene factura", domain.ErrConflict, invoice.SaleID)
		case isUniqueViolation(err):
			return fmt.Errorf("%w: número de factura %s repetido", domain.ErrConflict, invoice.Number)
		case isForeignKeyViolation(err):
			return fmt.Errorf("venta %s: %w", invoice.SaleID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene la factura por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetBySaleID obtiene la factura de una venta.
func (r *InvoiceRepo) GetBySaleID(ctx context.Context, saleID string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE sale_id = $1`, saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice by sale: %w", err)
	}
	return inv, nil
}

// NextNumber toma el siguiente valor de invoice_number_seq.
func (r *InvoiceRepo) NextNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return n, nil
}

// DeleteBySaleID elimina la factura de la venta (borrado en cascada).
func (r *InvoiceRepo) DeleteBySaleID(ctx context.Context, saleID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}
