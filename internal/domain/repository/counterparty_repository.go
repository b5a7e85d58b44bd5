package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// CounterpartyRepository lectura de clientes y proveedores (catálogo externo al kardex).
type CounterpartyRepository interface {
	CreateClient(ctx context.Context, client *entity.Client) error
	CreateSupplier(ctx context.Context, supplier *entity.Supplier) error
	GetClient(ctx context.Context, id string) (*entity.Client, error)
	GetSupplier(ctx context.Context, id string) (*entity.Supplier, error)
}
