package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// LowStockUseCase genera la lista de reposición: productos bajo su stock mínimo.
type LowStockUseCase struct {
	txRunner TxRunner
}

// NewLowStockUseCase construye el caso de uso de reposición.
func NewLowStockUseCase(txRunner TxRunner) *LowStockUseCase {
	return &LowStockUseCase{txRunner: txRunner}
}

var idealFactor = decimal.NewFromFloat(1.5)

// ListLowStock devuelve los productos con stock < mínimo y la cantidad sugerida de pedido,
// ordenados por mayor déficit.
func (uc *LowStockUseCase) ListLowStock(ctx context.Context) ([]dto.LowStockDTO, error) {
	var products []*entity.Product
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		products, err = r.Products.ListBelowMinimum(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.LowStockDTO, 0, len(products))
	for _, p := range products {
		if !p.BelowMinimum() {
			continue
		}
		ideal := decimal.NewFromInt(p.MinStock).Mul(idealFactor).Ceil().IntPart()
		suggested := ideal - p.Stock
		if suggested < 0 {
			suggested = 0
		}
		out = append(out, dto.LowStockDTO{
			ProductID:         p.ID,
			ProductName:       p.Name,
			CurrentStock:      p.Stock,
			MinStock:          p.MinStock,
			IdealStock:        ideal,
			SuggestedOrderQty: suggested,
		})
	}

	// Mayor déficit primero; desempate por nombre para un orden estable.
	sort.SliceStable(out, func(i, j int) bool {
		di := out[i].MinStock - out[i].CurrentStock
		dj := out[j].MinStock - out[j].CurrentStock
		if di != dj {
			return di > dj
		}
		return out[i].ProductName < out[j].ProductName
	})

	// 1 = más urgente
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
