package inventory_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func newLedger(t *testing.T, products ...entity.Product) (*inventory.LedgerUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		for i := range products {
			if err := r.Products.Create(ctx, &products[i]); err != nil {
				return err
			}
		}
		return nil
	}))
	return inventory.NewLedgerUseCase(store), store
}

func entrada(productID string, qty int64) inventory.MovementInput {
	return inventory.MovementInput{ProductID: productID, Kind: entity.MovementEntrada, QuantityIn: qty, ActorID: "u1"}
}

func salida(productID string, qty int64) inventory.MovementInput {
	return inventory.MovementInput{ProductID: productID, Kind: entity.MovementSalida, QuantityOut: qty, ActorID: "u1"}
}

func stockOf(t *testing.T, uc *inventory.LedgerUseCase, productID string) int64 {
	t.Helper()
	s, err := uc.CurrentStock(context.Background(), productID)
	require.NoError(t, err)
	return s
}

// ─────────────────────────────────────────────────────────────────────────────
// RecordMovement
// ─────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaSalidaAjuste(t *testing.T) {
	ctx := context.Background()
	uc, _ := newLedger(t, entity.Product{ID: "p1", Name: "Arroz"})

	_, err := uc.RecordMovement(ctx, entrada("p1", 10))
	require.NoError(t, err)
	_, err = uc.RecordMovement(ctx, salida("p1", 3))
	require.NoError(t, err)
	_, err = uc.RecordMovement(ctx, inventory.MovementInput{ProductID: "p1", Kind: entity.MovementAjuste, QuantityOut: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(5), stockOf(t, uc, "p1"))

	movs, err := uc.MovementsForProduct(ctx, "p1", nil, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, 3)
	assert.Equal(t, entity.MovementEntrada, movs[0].Kind)
	assert.Equal(t, "u1", movs[0].CreatedBy)
}

func TestRecordMovement_InsufficientStockLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	uc, _ := newLedger(t, entity.Product{ID: "p1"})
	_, err := uc.RecordMovement(ctx, entrada("p1", 2))
	require.NoError(t, err)

	_, err = uc.RecordMovement(ctx, salida("p1", 3))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var se *domain.StockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, int64(3), se.Requested)
	assert.Equal(t, int64(2), se.Available)

	assert.Equal(t, int64(2), stockOf(t, uc, "p1"))
	movs, err := uc.MovementsForProduct(ctx, "p1", nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestRecordMovement_Validation(t *testing.T) {
	ctx := context.Background()
	uc, _ := newLedger(t, entity.Product{ID: "p1"})

	cases := []struct {
		name string
		in   inventory.MovementInput
	}{
		{"sin producto", inventory.MovementInput{Kind: entity.MovementEntrada, QuantityIn: 1}},
		{"entrada con salida", inventory.MovementInput{ProductID: "p1", Kind: entity.MovementEntrada, QuantityIn: 1, QuantityOut: 1}},
		{"salida en cero", inventory.MovementInput{ProductID: "p1", Kind: entity.MovementSalida}},
		{"negativo", inventory.MovementInput{ProductID: "p1", Kind: entity.MovementAjuste, QuantityIn: -1}},
		{"tipo desconocido", inventory.MovementInput{ProductID: "p1", Kind: "traslado", QuantityIn: 1}},
		{"venta y compra", inventory.MovementInput{ProductID: "p1", Kind: entity.MovementEntrada, QuantityIn: 1, SaleID: "s", PurchaseID: "c"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RecordMovement(ctx, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRecordMovement_UnknownReferences(t *testing.T) {
	ctx := context.Background()
	uc, _ := newLedger(t, entity.Product{ID: "p1"})

	_, err := uc.RecordMovement(ctx, entrada("nope", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in := entrada("p1", 1)
	in.PurchaseID = "no-existe"
	_, err = uc.RecordMovement(ctx, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// ReverseMovement
// ─────────────────────────────────────────────────────────────────────────────

func TestReverseMovement_RoundTrip(t *testing.T) {
	ctx := context.Background()
	uc, _ := newLedger(t, entity.Product{ID: "p1"})
	_, err := uc.RecordMovement(ctx, entrada("p1", 10))
	require.NoError(t, err)

	id, err := uc.RecordMovement(ctx, salida("p1", 4))
	require.NoError(t, err)
	assert.Equal(t, int64(6), stockOf(t, uc, "p1"))

	revID, err := uc.ReverseMovement(ctx, id, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(10), stockOf(t, uc, "p1"))

	movs, err := uc.MovementsForProduct(ctx, "p1", nil, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, 3)
	orig, rev := movs[1], movs[2]
	require.NotNil(t, orig.ReversedBy)
	assert.Equal(t, revID, *orig.ReversedBy)
	require.NotNil(t, rev.ReversalOf)
	assert.Equal(t, id, *rev.ReversalOf)
	assert.Equal(t, entity.MovementAjuste, rev.Kind)
	assert.Equal(t, int64(4), rev.QuantityIn)
	assert.Equal(t, "u2", rev.CreatedBy)
}

func TestReverseMovement_Conflicts(t *testing.T) {
	ctx := context.Background()
	uc, _ := newLedger(t, entity.Product{ID: "p1"})
	id, err := uc.RecordMovement(ctx, entrada("p1", 5))
	require.NoError(t, err)
	revID, err := uc.ReverseMovement(ctx, id, "u1")
	require.NoError(t, err)

	_, err = uc.ReverseMovement(ctx, id, "u1")
	assert.ErrorIs(t, err, domain.ErrConflict, "doble reverso")

	_, err = uc.ReverseMovement(ctx, revID, "u1")
	assert.ErrorIs(t, err, domain.ErrConflict, "reverso de un reverso")

	_, err = uc.ReverseMovement(ctx, "no-existe", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReverseMovement_WouldGoNegative(t *testing.T) {
	ctx := context.Background()
	uc, _ := newLedger(t, entity.Product{ID: "p1"})
	id, err := uc.RecordMovement(ctx, entrada("p1", 5))
	require.NoError(t, err)
	_, err = uc.RecordMovement(ctx, salida("p1", 4))
	require.NoError(t, err)

	_, err = uc.ReverseMovement(ctx, id, "u1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(1), stockOf(t, uc, "p1"))
}

func TestReverseMovement_MovimientoDeVentaEsConflicto(t *testing.T) {
	ctx := context.Background()
	uc, store := newLedger(t, entity.Product{ID: "p1"})
	_, err := uc.RecordMovement(ctx, entrada("p1", 10))
	require.NoError(t, err)

	var saleMovID string
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		if err := r.Transactions.Create(ctx, &entity.Transaction{ID: "v1", Kind: entity.KindSale, Status: entity.StatusPendiente}); err != nil {
			return err
		}
		mov, err := uc.ApplyInTx(ctx, r, inventory.MovementInput{
			ProductID: "p1", Kind: entity.MovementSalida, QuantityOut: 4, SaleID: "v1", ActorID: "u1",
		})
		if err != nil {
			return err
		}
		saleMovID = mov.ID
		return nil
	}))
	require.Equal(t, int64(6), stockOf(t, uc, "p1"))

	_, err = uc.ReverseMovement(ctx, saleMovID, "u1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(6), stockOf(t, uc, "p1"), "la venta conserva su salida")

	movs, err := uc.MovementsForProduct(ctx, "p1", nil, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Nil(t, m.ReversedBy)
	}
}

func TestRecordMovement_EnlazadoATransaccionEsConflicto(t *testing.T) {
	ctx := context.Background()
	uc, store := newLedger(t, entity.Product{ID: "p1"})
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		return r.Transactions.Create(ctx, &entity.Transaction{ID: "c1", Kind: entity.KindPurchase, Status: entity.StatusCompletada})
	}))

	in := entrada("p1", 3)
	in.PurchaseID = "c1"
	_, err := uc.RecordMovement(ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(0), stockOf(t, uc, "p1"))
}

// ─────────────────────────────────────────────────────────────────────────────
// Propiedades: stock nunca negativo y contador == kardex
// ─────────────────────────────────────────────────────────────────────────────

func TestLedger_RandomSequencesKeepInvariants(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 20; round++ {
		uc, _ := newLedger(t, entity.Product{ID: "p1"})
		var ids []string
		var expected int64
		for step := 0; step < 60; step++ {
			qty := int64(rng.Intn(8) + 1)
			switch rng.Intn(3) {
			case 0:
				id, err := uc.RecordMovement(ctx, entrada("p1", qty))
				require.NoError(t, err)
				ids = append(ids, id)
				expected += qty
			case 1:
				id, err := uc.RecordMovement(ctx, salida("p1", qty))
				if qty > expected {
					require.ErrorIs(t, err, domain.ErrInsufficientStock)
					continue
				}
				require.NoError(t, err)
				ids = append(ids, id)
				expected -= qty
			case 2:
				if len(ids) == 0 {
					continue
				}
				i := rng.Intn(len(ids))
				if _, err := uc.ReverseMovement(ctx, ids[i], "u1"); err == nil {
					ids = append(ids[:i], ids[i+1:]...)
				} else {
					require.True(t, errors.Is(err, domain.ErrInsufficientStock))
				}
				expected = stockOf(t, uc, "p1")
			}
			require.GreaterOrEqual(t, stockOf(t, uc, "p1"), int64(0))
		}
		rec, err := uc.Reconcile(ctx, "p1")
		require.NoError(t, err)
		assert.True(t, rec.InSync(), "round %d: stored %d derived %d", round, rec.Stored, rec.Derived)
		assert.Equal(t, expected, rec.Stored)
	}
}

func TestReconcile_UnknownProduct(t *testing.T) {
	uc, _ := newLedger(t)
	_, err := uc.Reconcile(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// Stock bajo
// ─────────────────────────────────────────────────────────────────────────────

func TestListLowStock_SuggestedQuantityAndOrder(t *testing.T) {
	ctx := context.Background()
	uc, store := newLedger(t,
		entity.Product{ID: "a", Name: "Aceite", MinStock: 10},
		entity.Product{ID: "b", Name: "Buñuelo", MinStock: 3},
		entity.Product{ID: "c", Name: "Café", MinStock: 2},
	)
	_, err := uc.RecordMovement(ctx, entrada("a", 4))
	require.NoError(t, err)
	_, err = uc.RecordMovement(ctx, entrada("c", 5))
	require.NoError(t, err)

	list, err := inventory.NewLowStockUseCase(store).ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "a", list[0].ProductID)
	assert.Equal(t, int64(15), list[0].IdealStock)
	assert.Equal(t, int64(11), list[0].SuggestedOrderQty)
	assert.Equal(t, 1, list[0].Priority)

	assert.Equal(t, "b", list[1].ProductID)
	assert.Equal(t, int64(5), list[1].IdealStock) // ceil(4.5)
	assert.Equal(t, int64(5), list[1].SuggestedOrderQty)
	assert.Equal(t, 2, list[1].Priority)
}
