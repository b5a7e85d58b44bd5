package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// InvoiceUseCase emite la factura de una venta ya registrada.
// El inventario ya se descontó al crear la venta; la factura solo congela sus totales.
type InvoiceUseCase struct {
	txRunner TxRunner
	now      func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(txRunner TxRunner) *InvoiceUseCase {
	return &InvoiceUseCase{txRunner: txRunner, now: time.Now}
}

// FormatInvoiceNumber FACT- más el consecutivo con 12 dígitos.
func FormatInvoiceNumber(seq int64) string {
	return fmt.Sprintf("FACT-%012d", seq)
}

// CreateInvoice crea la factura con consecutivo propio y copia de los totales de la venta.
// paymentMethod vacío toma el de la venta.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, saleID, actorID, paymentMethod string) (*entity.Invoice, error) {
	if saleID == "" {
		return nil, domain.FieldError("sale_id", "requerido")
	}
	if paymentMethod != "" && !entity.ValidPaymentMethod(paymentMethod) {
		return nil, domain.FieldError("payment_method", "debe ser efectivo, tarjeta_credito o tarjeta_debito")
	}

	var inv *entity.Invoice
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		// Bloquea la venta: una edición concurrente no puede cambiar los totales mientras se factura.
		sale, err := r.Transactions.GetForUpdate(ctx, entity.KindSale, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("venta %s: %w", saleID, domain.ErrNotFound)
		}
		if sale.Status == entity.StatusCancelada {
			return fmt.Errorf("%w: la venta %s está cancelada", domain.ErrConflict, saleID)
		}
		existing, err := r.Invoices.GetBySaleID(ctx, saleID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: la venta %s ya tiene la factura %s", domain.ErrConflict, saleID, existing.Number)
		}

		seq, err := r.Invoices.NextNumber(ctx)
		if err != nil {
			return err
		}
		method := paymentMethod
		if method == "" {
			method = sale.PaymentMethod
		}
		status := entity.InvoicePendiente
		if sale.Status == entity.StatusPagado {
			status = entity.InvoicePagada
		}
		now := uc.now()
		inv = &entity.Invoice{
			ID:            uuid.New().String(),
			SaleID:        sale.ID,
			UserID:        actorID,
			Number:        FormatInvoiceNumber(seq),
			IssuedAt:      now,
			Subtotal:      sale.Subtotal,
			TaxTotal:      sale.TaxTotal,
			Total:         sale.Total,
			PaymentMethod: method,
			Status:        status,
			CreatedAt:     now,
		}
		// El índice único por venta cubre la carrera entre dos facturaciones simultáneas.
		return r.Invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// GetInvoice devuelve la factura por ID.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	var inv *entity.Invoice
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		inv, err = r.Invoices.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}
