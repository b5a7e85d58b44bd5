package inventory

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error se hace Rollback; nada de lo escrito queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(r repository.Repos) error) error
}
