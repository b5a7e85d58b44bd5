package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// LedgerUseCase kardex: registra movimientos de inventario de forma transaccional
// (entrada, salida, ajuste) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// El contador products.stock es la fuente de verdad; los movimientos son la traza de auditoría.
type LedgerUseCase struct {
	txRunner TxRunner
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, now: time.Now}
}

// MovementInput entrada para registrar un movimiento.
// SaleID y PurchaseID son opcionales y mutuamente excluyentes.
type MovementInput struct {
	ProductID   string
	Kind        string
	QuantityIn  int64
	QuantityOut int64
	SaleID      string
	PurchaseID  string
	ActorID     string
	Note        string
	EffectiveAt time.Time
}

func (in MovementInput) validate() error {
	verr := domain.NewValidationError()
	if in.ProductID == "" {
		verr.Add("product_id", "requerido")
	}
	if in.SaleID != "" && in.PurchaseID != "" {
		verr.Add("sale_id", "un movimiento no puede referenciar venta y compra a la vez")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}
	return inventory.ValidateMovement(in.Kind, in.QuantityIn, in.QuantityOut)
}

// RecordMovement valida, bloquea el producto, aplica el delta al contador y guarda el movimiento
// en una sola transacción. Retorna el ID del movimiento.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, in MovementInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	if in.EffectiveAt.IsZero() {
		in.EffectiveAt = uc.now()
	}
	var id string
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if in.SaleID != "" {
			if err := requireTransaction(ctx, r, entity.KindSale, in.SaleID); err != nil {
				return err
			}
		}
		if in.PurchaseID != "" {
			if err := requireTransaction(ctx, r, entity.KindPurchase, in.PurchaseID); err != nil {
				return err
			}
		}
		// Los asientos de una venta/compra los escribe solo el orquestador.
		if in.SaleID != "" || in.PurchaseID != "" {
			return fmt.Errorf("%w: los movimientos de una venta o compra se registran editando la transacción", domain.ErrConflict)
		}
		mov, err := uc.ApplyInTx(ctx, r, in)
		if err != nil {
			return err
		}
		id = mov.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// ApplyInTx aplica un movimiento usando los repositorios del caller (misma transacción).
// La validación de referencias queda a cargo del caller. Si retorna error el caller debe hacer rollback.
func (uc *LedgerUseCase) ApplyInTx(ctx context.Context, r repository.Repos, in MovementInput) (*entity.StockMovement, error) {
	if err := inventory.ValidateMovement(in.Kind, in.QuantityIn, in.QuantityOut); err != nil {
		return nil, err
	}
	// Bloquea la fila del producto (SELECT FOR UPDATE) para evitar condiciones de carrera
	product, err := r.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	next, err := inventory.ApplyDelta(product.ID, product.Stock, in.QuantityIn, in.QuantityOut)
	if err != nil {
		return nil, err
	}
	if err := r.Products.UpdateStock(ctx, product.ID, next); err != nil {
		return nil, err
	}
	now := uc.now()
	effective := in.EffectiveAt
	if effective.IsZero() {
		effective = now
	}
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		SaleID:      optional(in.SaleID),
		PurchaseID:  optional(in.PurchaseID),
		QuantityIn:  in.QuantityIn,
		QuantityOut: in.QuantityOut,
		Kind:        in.Kind,
		EffectiveAt: effective,
		CreatedBy:   in.ActorID,
		Note:        in.Note,
		CreatedAt:   now,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// ReverseMovement compensa un movimiento manual con un ajuste inverso en una sola transacción.
// Los movimientos de una venta o compra se compensan editándola o eliminándola.
func (uc *LedgerUseCase) ReverseMovement(ctx context.Context, movementID, actorID string) (string, error) {
	if movementID == "" {
		return "", domain.FieldError("movement_id", "requerido")
	}
	var id string
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		orig, err := r.Movements.GetByID(ctx, movementID)
		if err != nil {
			return err
		}
		if orig == nil {
			return domain.ErrNotFound
		}
		if orig.SaleID != nil || orig.PurchaseID != nil {
			return fmt.Errorf("%w: el movimiento %s pertenece a una venta o compra; use su edición", domain.ErrConflict, orig.ID)
		}
		rev, err := uc.ReverseInTx(ctx, r, movementID, actorID)
		if err != nil {
			return err
		}
		id = rev.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// ReverseInTx aplica el delta inverso de movementID dentro de la tx del caller y enlaza ambos asientos.
// El reverso conserva las referencias a venta/compra del original.
func (uc *LedgerUseCase) ReverseInTx(ctx context.Context, r repository.Repos, movementID, actorID string) (*entity.StockMovement, error) {
	orig, err := r.Movements.GetByID(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if orig == nil {
		return nil, domain.ErrNotFound
	}
	if orig.ReversalOf != nil {
		return nil, fmt.Errorf("%w: el movimiento %s es un reverso", domain.ErrConflict, orig.ID)
	}
	if orig.ReversedBy != nil {
		return nil, fmt.Errorf("%w: el movimiento %s ya fue reversado", domain.ErrConflict, orig.ID)
	}
	in := MovementInput{
		ProductID:   orig.ProductID,
		Kind:        entity.MovementAjuste,
		QuantityIn:  orig.QuantityOut,
		QuantityOut: orig.QuantityIn,
		ActorID:     actorID,
		Note:        "reverso de " + orig.ID,
	}
	if orig.SaleID != nil {
		in.SaleID = *orig.SaleID
	}
	if orig.PurchaseID != nil {
		in.PurchaseID = *orig.PurchaseID
	}
	rev, err := uc.applyReversal(ctx, r, in, orig.ID)
	if err != nil {
		return nil, err
	}
	if err := r.Movements.MarkReversed(ctx, orig.ID, rev.ID); err != nil {
		return nil, err
	}
	return rev, nil
}

func (uc *LedgerUseCase) applyReversal(ctx context.Context, r repository.Repos, in MovementInput, origID string) (*entity.StockMovement, error) {
	product, err := r.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	next, err := inventory.ApplyDelta(product.ID, product.Stock, in.QuantityIn, in.QuantityOut)
	if err != nil {
		return nil, err
	}
	if err := r.Products.UpdateStock(ctx, product.ID, next); err != nil {
		return nil, err
	}
	now := uc.now()
	rev := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		SaleID:      optional(in.SaleID),
		PurchaseID:  optional(in.PurchaseID),
		QuantityIn:  in.QuantityIn,
		QuantityOut: in.QuantityOut,
		Kind:        in.Kind,
		EffectiveAt: now,
		CreatedBy:   in.ActorID,
		Note:        in.Note,
		ReversalOf:  &origID,
		CreatedAt:   now,
	}
	if err := r.Movements.Create(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

// CurrentStock devuelve el contador autoritativo del producto.
func (uc *LedgerUseCase) CurrentStock(ctx context.Context, productID string) (int64, error) {
	var stock int64
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		stock = p.Stock
		return nil
	})
	return stock, err
}

// MovementsForProduct kardex del producto en orden cronológico.
func (uc *LedgerUseCase) MovementsForProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	var list []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		list, err = r.Movements.ListByProduct(ctx, productID, from, to, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Reconciliation compara el contador con el stock derivado del kardex.
type Reconciliation struct {
	ProductID string
	Stored    int64
	Derived   int64
}

// InSync indica si ambas fuentes coinciden.
func (r Reconciliation) InSync() bool { return r.Stored == r.Derived }

// Reconcile lee contador y suma de movimientos en la misma tx (vista consistente).
func (uc *LedgerUseCase) Reconcile(ctx context.Context, productID string) (*Reconciliation, error) {
	var out *Reconciliation
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		in, outQty, err := r.Movements.SumByProduct(ctx, productID)
		if err != nil {
			return err
		}
		out = &Reconciliation{ProductID: productID, Stored: p.Stock, Derived: in - outQty}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func requireTransaction(ctx context.Context, r repository.Repos, kind entity.TransactionKind, id string) error {
	tx, err := r.Transactions.GetByID(ctx, kind, id)
	if err != nil {
		return err
	}
	if tx == nil {
		return domain.ErrNotFound
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
