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

var _ repository.CounterpartyRepository = (*CounterpartyRepo)(nil)

// CounterpartyRepo clientes y proveedores (usable con pool o tx).
type CounterpartyRepo struct {
	q Querier
}

// NewCounterpartyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCounterpartyRepository(q Querier) *CounterpartyRepo {
	return &CounterpartyRepo{q: q}
}

// CreateClient persiste un cliente.
func (r *CounterpartyRepo) CreateClient(ctx context.Context, c *entity.Client) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO clients (id, name, tax_id, email, phone, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.TaxID, c.Email, c.Phone, c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// CreateSupplier persiste un proveedor.
func (r *CounterpartyRepo) CreateSupplier(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO suppliers (id, legal_name, tax_id, email, phone, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.LegalName, s.TaxID, s.Email, s.Phone, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetClient obtiene un cliente por ID.
func (r *CounterpartyRepo) GetClient(ctx context.Context, id string) (*entity.Client, error) {
	var c entity.Client
	err := r.q.QueryRow(ctx,
		`SELECT id, name, tax_id, email, phone, created_at FROM clients WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.TaxID, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

// GetSupplier obtiene un proveedor por ID.
func (r *CounterpartyRepo) GetSupplier(ctx context.Context, id string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.q.QueryRow(ctx,
		`SELECT id, legal_name, tax_id, email, phone, created_at FROM suppliers WHERE id = $1`, id,
	).Scan(&s.ID, &s.LegalName, &s.TaxID, &s.Email, &s.Phone, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}
