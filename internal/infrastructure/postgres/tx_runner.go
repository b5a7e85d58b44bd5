package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Kardex-api/internal/application/billing"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// READ COMMITTED + SELECT FOR UPDATE sobre productos serializa el chequeo y descuento de stock.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ReposFor(tx)); err != nil {
		return contention(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return contention(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// contention traduce la espera vencida por un bloqueo a conflicto reintentable.
func contention(err error) error {
	if isLockContention(err) {
		return fmt.Errorf("%w: recurso bloqueado por otra operación, reintente: %v", domain.ErrConflict, err)
	}
	return err
}

// ReposFor construye todos los repositorios sobre el mismo Querier (pool o tx).
func ReposFor(q Querier) repository.Repos {
	return repository.Repos{
		Products:       NewProductRepository(q),
		Movements:      NewStockMovementRepository(q),
		Transactions:   NewTransactionRepository(q),
		Invoices:       NewInvoiceRepository(q),
		Payments:       NewPaymentRepository(q),
		Counterparties: NewCounterpartyRepository(q),
	}
}
