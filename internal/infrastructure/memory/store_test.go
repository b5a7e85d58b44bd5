package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		return r.Products.Create(ctx, &entity.Product{ID: "p1", Name: "Arroz"})
	}))

	boom := errors.New("boom")
	err := store.Run(ctx, func(r repository.Repos) error {
		require.NoError(t, r.Products.UpdateStock(ctx, "p1", 50))
		require.NoError(t, r.Movements.Create(ctx, &entity.StockMovement{
			ID: "m1", ProductID: "p1", QuantityIn: 50, Kind: entity.MovementEntrada, EffectiveAt: time.Now(),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), p.Stock)
		m, err := r.Movements.GetByID(ctx, "m1")
		require.NoError(t, err)
		assert.Nil(t, m)
		return nil
	}))
}

func TestRun_ReturnedEntitiesAreCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		return r.Products.Create(ctx, &entity.Product{ID: "p1", Name: "Arroz"})
	}))

	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		p, _ := r.Products.GetByID(ctx, "p1")
		p.Stock = 999
		return nil
	}))
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		p, _ := r.Products.GetByID(ctx, "p1")
		assert.Equal(t, int64(0), p.Stock)
		return nil
	}))
}

func TestInvoiceNumber_NotReusedAfterRollback(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	var first, second int64
	_ = store.Run(ctx, func(r repository.Repos) error {
		first, _ = r.Invoices.NextNumber(ctx)
		return errors.New("rollback")
	})
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		var err error
		second, err = r.Invoices.NextNumber(ctx)
		return err
	}))
	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestInvoiceCreate_DuplicateSaleIsConflict(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	err := store.Run(ctx, func(r repository.Repos) error {
		require.NoError(t, r.Transactions.Create(ctx, &entity.Transaction{ID: "s1", Kind: entity.KindSale}))
		require.NoError(t, r.Invoices.Create(ctx, &entity.Invoice{ID: "i1", SaleID: "s1", Number: "FACT-000000000001"}))
		return r.Invoices.Create(ctx, &entity.Invoice{ID: "i2", SaleID: "s1", Number: "FACT-000000000002"})
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTransactionDelete_NullsMovementReference(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	saleID := "s1"
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		require.NoError(t, r.Products.Create(ctx, &entity.Product{ID: "p1"}))
		require.NoError(t, r.Transactions.Create(ctx, &entity.Transaction{ID: saleID, Kind: entity.KindSale}))
		require.NoError(t, r.Movements.Create(ctx, &entity.StockMovement{
			ID: "m1", ProductID: "p1", SaleID: &saleID, QuantityOut: 1, Kind: entity.MovementSalida,
		}))
		return r.Transactions.Delete(ctx, entity.KindSale, saleID)
	}))
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		m, err := r.Movements.GetByID(ctx, "m1")
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Nil(t, m.SaleID)
		return nil
	}))
}

func TestListByProduct_ChronologicalWithPagination(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		require.NoError(t, r.Products.Create(ctx, &entity.Product{ID: "p1"}))
		// Insertados fuera de orden cronológico; m2 y m3 comparten instante.
		for _, m := range []entity.StockMovement{
			{ID: "m3", EffectiveAt: base.Add(time.Hour)},
			{ID: "m1", EffectiveAt: base},
			{ID: "m2", EffectiveAt: base.Add(time.Hour)},
		} {
			m.ProductID, m.QuantityIn, m.Kind = "p1", 1, entity.MovementEntrada
			require.NoError(t, r.Movements.Create(ctx, &m))
		}
		return nil
	}))

	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		all, err := r.Movements.ListByProduct(ctx, "p1", nil, nil, 10, 0)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"m1", "m3", "m2"}, []string{all[0].ID, all[1].ID, all[2].ID})

		page, err := r.Movements.ListByProduct(ctx, "p1", nil, nil, 1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "m3", page[0].ID)

		from := base.Add(time.Minute)
		later, err := r.Movements.ListByProduct(ctx, "p1", &from, nil, 10, 0)
		require.NoError(t, err)
		assert.Len(t, later, 2)
		return nil
	}))
}
