package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// PaymentInput pago sobre exactamente una venta o una compra.
// AmountReceived nil = igual al monto (sin cambio).
type PaymentInput struct {
	SaleID         string
	PurchaseID     string
	Amount         decimal.Decimal
	AmountReceived *decimal.Decimal
	Method         string
	Reference      string
	PaidAt         time.Time
}

func (in PaymentInput) target() (entity.TransactionKind, string) {
	if in.SaleID != "" {
		return entity.KindSale, in.SaleID
	}
	return entity.KindPurchase, in.PurchaseID
}

func (in PaymentInput) validate() error {
	verr := domain.NewValidationError()
	if (in.SaleID == "") == (in.PurchaseID == "") {
		verr.Add("sale_id", "indicar exactamente una: venta o compra")
	}
	if !in.Amount.IsPositive() {
		verr.Add("amount", "debe ser mayor que cero")
	}
	if !entity.ValidPaymentMethod(in.Method) {
		verr.Add("method", "debe ser efectivo, tarjeta_credito o tarjeta_debito")
	}
	if in.AmountReceived != nil {
		switch {
		case in.Method == entity.PaymentEfectivo && in.AmountReceived.LessThan(in.Amount):
			verr.Add("amount_received", "el efectivo recibido no cubre el monto")
		case in.Method != entity.PaymentEfectivo && !in.AmountReceived.Equal(in.Amount):
			verr.Add("amount_received", "en pagos con tarjeta el monto recibido es igual al monto")
		}
	}
	return verr.OrNil()
}

// PaymentUseCase registra y consulta pagos.
type PaymentUseCase struct {
	txRunner TxRunner
	now      func() time.Time
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(txRunner TxRunner) *PaymentUseCase {
	return &PaymentUseCase{txRunner: txRunner, now: time.Now}
}

// RegisterPayment valida el pago, bloquea la transacción y rechaza con conflicto
// si la suma pagada superaría el total.
func (uc *PaymentUseCase) RegisterPayment(ctx context.Context, in PaymentInput) (*entity.Payment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	kind, txID := in.target()
	received := in.Amount
	if in.AmountReceived != nil {
		received = *in.AmountReceived
	}
	now := uc.now()
	p := &entity.Payment{
		ID:             uuid.New().String(),
		Amount:         in.Amount,
		AmountReceived: received,
		Change:         received.Sub(in.Amount),
		Method:         in.Method,
		PaidAt:         in.PaidAt,
		Reference:      in.Reference,
		CreatedAt:      now,
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = now
	}
	if kind == entity.KindSale {
		p.SaleID = &txID
	} else {
		p.PurchaseID = &txID
	}

	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		tx, err := r.Transactions.GetForUpdate(ctx, kind, txID)
		if err != nil {
			return err
		}
		if tx == nil {
			return fmt.Errorf("%s %s: %w", kind, txID, domain.ErrNotFound)
		}
		if tx.Status == entity.StatusCancelada {
			return fmt.Errorf("%w: la transacción %s está cancelada", domain.ErrConflict, txID)
		}
		paid, err := r.Payments.SumByTransaction(ctx, kind, txID)
		if err != nil {
			return err
		}
		if paid.Add(in.Amount).GreaterThan(tx.Total) {
			return fmt.Errorf("%w: pagado %s + %s supera el total %s", domain.ErrConflict, paid, in.Amount, tx.Total)
		}
		return r.Payments.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPayments pagos de una venta o compra en orden de registro.
func (uc *PaymentUseCase) ListPayments(ctx context.Context, kind entity.TransactionKind, transactionID string) ([]*entity.Payment, error) {
	if !kind.Valid() {
		return nil, domain.FieldError("kind", "debe ser sale o purchase")
	}
	var out []*entity.Payment
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		tx, err := r.Transactions.GetByID(ctx, kind, transactionID)
		if err != nil {
			return err
		}
		if tx == nil {
			return domain.ErrNotFound
		}
		out, err = r.Payments.ListByTransaction(ctx, kind, transactionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
