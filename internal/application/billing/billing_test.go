package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/Kardex-api/internal/application/billing"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedTransactions crea una venta y una compra con los totales dados directamente en el almacén.
func seedTransactions(t *testing.T, saleStatus string) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		require.NoError(t, r.Transactions.Create(ctx, &entity.Transaction{
			ID: "s1", Kind: entity.KindSale, Status: saleStatus, PaymentMethod: entity.PaymentTarjetaCredito,
			Subtotal: decimal.NewFromInt(400), TaxTotal: decimal.NewFromInt(76), Total: decimal.NewFromInt(476),
		}))
		require.NoError(t, r.Transactions.Create(ctx, &entity.Transaction{
			ID: "c1", Kind: entity.KindPurchase, Status: entity.StatusCompletada,
			Subtotal: decimal.NewFromInt(100), TaxTotal: decimal.NewFromInt(19), Total: decimal.NewFromInt(119),
		}))
		return nil
	}))
	return store
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// ─────────────────────────────────────────────────────────────────────────────
// Facturas
// ─────────────────────────────────────────────────────────────────────────────

func TestCreateInvoice_CopiesTotalsAndNumbersSequentially(t *testing.T) {
	ctx := context.Background()
	store := seedTransactions(t, entity.StatusPendiente)
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		return r.Transactions.Create(ctx, &entity.Transaction{ID: "s2", Kind: entity.KindSale, Status: entity.StatusPagado})
	}))
	uc := billing.NewInvoiceUseCase(store)

	inv, err := uc.CreateInvoice(ctx, "s1", "u1", "")
	require.NoError(t, err)
	assert.Equal(t, "FACT-000000000001", inv.Number)
	assert.Equal(t, "476", inv.Total.String())
	assert.Equal(t, entity.PaymentTarjetaCredito, inv.PaymentMethod)
	assert.Equal(t, entity.InvoicePendiente, inv.Status)
	assert.Equal(t, "u1", inv.UserID)

	second, err := uc.CreateInvoice(ctx, "s2", "u1", entity.PaymentEfectivo)
	require.NoError(t, err)
	assert.Equal(t, "FACT-000000000002", second.Number)
	assert.Equal(t, entity.InvoicePagada, second.Status)

	got, err := uc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.Number, got.Number)
}

func TestCreateInvoice_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicada", func(t *testing.T) {
		uc := billing.NewInvoiceUseCase(seedTransactions(t, entity.StatusPendiente))
		_, err := uc.CreateInvoice(ctx, "s1", "u1", "")
		require.NoError(t, err)
		_, err = uc.CreateInvoice(ctx, "s1", "u1", "")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
	t.Run("venta cancelada", func(t *testing.T) {
		uc := billing.NewInvoiceUseCase(seedTransactions(t, entity.StatusCancelada))
		_, err := uc.CreateInvoice(ctx, "s1", "u1", "")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
	t.Run("venta inexistente", func(t *testing.T) {
		uc := billing.NewInvoiceUseCase(seedTransactions(t, entity.StatusPendiente))
		_, err := uc.CreateInvoice(ctx, "nope", "u1", "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("método inválido", func(t *testing.T) {
		uc := billing.NewInvoiceUseCase(seedTransactions(t, entity.StatusPendiente))
		_, err := uc.CreateInvoice(ctx, "s1", "u1", "cheque")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "FACT-000000000042", billing.FormatInvoiceNumber(42))
}

// ─────────────────────────────────────────────────────────────────────────────
// Pagos
// ─────────────────────────────────────────────────────────────────────────────

func TestRegisterPayment_CashComputesChange(t *testing.T) {
	ctx := context.Background()
	uc := billing.NewPaymentUseCase(seedTransactions(t, entity.StatusPendiente))

	p, err := uc.RegisterPayment(ctx, billing.PaymentInput{
		SaleID: "s1", Amount: dec("476"), AmountReceived: decPtr("500"), Method: entity.PaymentEfectivo,
	})
	require.NoError(t, err)
	assert.Equal(t, "24", p.Change.String())
	require.NotNil(t, p.SaleID)
	assert.Nil(t, p.PurchaseID)

	list, err := uc.ListPayments(ctx, entity.KindSale, "s1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRegisterPayment_CardHasNoChange(t *testing.T) {
	ctx := context.Background()
	uc := billing.NewPaymentUseCase(seedTransactions(t, entity.StatusPendiente))

	p, err := uc.RegisterPayment(ctx, billing.PaymentInput{PurchaseID: "c1", Amount: dec("119"), Method: entity.PaymentTarjetaDebito})
	require.NoError(t, err)
	assert.True(t, p.Change.IsZero())
	assert.True(t, p.AmountReceived.Equal(p.Amount))

	_, err = uc.RegisterPayment(ctx, billing.PaymentInput{
		SaleID: "s1", Amount: dec("10"), AmountReceived: decPtr("20"), Method: entity.PaymentTarjetaCredito,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterPayment_Validation(t *testing.T) {
	ctx := context.Background()
	uc := billing.NewPaymentUseCase(seedTransactions(t, entity.StatusPendiente))

	cases := map[string]billing.PaymentInput{
		"sin destino":        {Amount: dec("1"), Method: entity.PaymentEfectivo},
		"ambos destinos":     {SaleID: "s1", PurchaseID: "c1", Amount: dec("1"), Method: entity.PaymentEfectivo},
		"monto cero":         {SaleID: "s1", Amount: decimal.Zero, Method: entity.PaymentEfectivo},
		"efectivo no cubre":  {SaleID: "s1", Amount: dec("10"), AmountReceived: decPtr("5"), Method: entity.PaymentEfectivo},
		"método desconocido": {SaleID: "s1", Amount: dec("1"), Method: "trueque"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.RegisterPayment(ctx, in)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "esperaba ValidationError, obtuvo %v", err)
		})
	}
}

func TestRegisterPayment_DoubleBookingIsConflict(t *testing.T) {
	ctx := context.Background()
	uc := billing.NewPaymentUseCase(seedTransactions(t, entity.StatusPendiente))

	_, err := uc.RegisterPayment(ctx, billing.PaymentInput{SaleID: "s1", Amount: dec("400"), Method: entity.PaymentEfectivo})
	require.NoError(t, err)
	_, err = uc.RegisterPayment(ctx, billing.PaymentInput{SaleID: "s1", Amount: dec("76.01"), Method: entity.PaymentEfectivo})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.RegisterPayment(ctx, billing.PaymentInput{SaleID: "s1", Amount: dec("76"), Method: entity.PaymentEfectivo})
	assert.NoError(t, err)

	list, err := uc.ListPayments(ctx, entity.KindSale, "s1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRegisterPayment_UnknownOrCancelledTarget(t *testing.T) {
	ctx := context.Background()
	uc := billing.NewPaymentUseCase(seedTransactions(t, entity.StatusCancelada))

	_, err := uc.RegisterPayment(ctx, billing.PaymentInput{SaleID: "s1", Amount: dec("1"), Method: entity.PaymentEfectivo})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.RegisterPayment(ctx, billing.PaymentInput{PurchaseID: "zz", Amount: dec("1"), Method: entity.PaymentEfectivo})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ListPayments(ctx, entity.KindPurchase, "zz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
