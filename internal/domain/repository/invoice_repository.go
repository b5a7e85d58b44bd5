package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas.
type InvoiceRepository interface {
	// Create devuelve domain.ErrConflict si ya existe factura para la venta.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetBySaleID(ctx context.Context, saleID string) (*entity.Invoice, error)
	// NextNumber siguiente consecutivo (secuencia, nunca se repite aunque la tx haga rollback).
	NextNumber(ctx context.Context) (int64, error)
	DeleteBySaleID(ctx context.Context, saleID string) error
}
