package billing

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye repos de ventas, compras y facturación.
type TxRunner interface {
	Run(ctx context.Context, fn func(r repository.Repos) error) error
}
