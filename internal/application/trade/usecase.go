package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	appinventory "github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Options reglas configurables del orquestador (LEDGER_MONEY_SCALE, LEDGER_DELETE_POLICY).
type Options struct {
	MoneyScale    int32
	CascadeDelete bool
}

// TransactionUseCase orquesta ventas y compras: cabecera, líneas y movimientos de kardex
// en una sola unidad atómica. Si cualquier paso falla no queda nada escrito.
type TransactionUseCase struct {
	txRunner appinventory.TxRunner
	ledger   *appinventory.LedgerUseCase
	rates    inventory.TaxRateProvider
	calc     inventory.LineCalculator
	cascade  bool
	log      *logger.Logger
	now      func() time.Time
}

// NewTransactionUseCase construye el orquestador.
func NewTransactionUseCase(
	txRunner appinventory.TxRunner,
	ledger *appinventory.LedgerUseCase,
	rates inventory.TaxRateProvider,
	opts Options,
	log *logger.Logger,
) *TransactionUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &TransactionUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		rates:    rates,
		calc:     inventory.NewLineCalculator(opts.MoneyScale),
		cascade:  opts.CascadeDelete,
		log:      log,
		now:      time.Now,
	}
}

// Create registra la transacción completa. Para ventas verifica primero el stock de todas las
// líneas (agregadas por producto) y rechaza todo si alguna no alcanza.
func (uc *TransactionUseCase) Create(ctx context.Context, kind entity.TransactionKind, h HeaderInput, lines []LineInput) (*TransactionDetail, error) {
	if err := validateInput(kind, h, lines); err != nil {
		return nil, err
	}
	now := uc.now()
	tx := &entity.Transaction{
		ID:             uuid.New().String(),
		Kind:           kind,
		CounterpartyID: h.CounterpartyID,
		UserID:         h.ActorID,
		Date:           h.Date,
		Status:         h.Status,
		PaymentMethod:  h.PaymentMethod,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if tx.Date.IsZero() {
		tx.Date = now
	}
	if tx.Status == "" {
		tx.Status = defaultStatus(kind)
	}
	if tx.PaymentMethod == "" && kind == entity.KindSale {
		tx.PaymentMethod = entity.PaymentEfectivo
	}

	var out *TransactionDetail
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if err := requireCounterparty(ctx, r, kind, h.CounterpartyID); err != nil {
			return err
		}
		want := aggregate(lines)
		products, err := lockProducts(ctx, r, lockOrder(quantities(want)))
		if err != nil {
			return err
		}
		if kind == entity.KindSale {
			if err := checkSufficiency(products, want, nil); err != nil {
				return err
			}
		}

		items, totals := uc.buildLines(tx, products, lines)
		tx.Subtotal, tx.TaxTotal, tx.Total = totals.Subtotal, totals.TaxTotal, totals.Total
		if err := r.Transactions.Create(ctx, tx); err != nil {
			return err
		}
		if err := uc.persistLines(ctx, r, tx, items, h.ActorID); err != nil {
			return err
		}
		out = &TransactionDetail{Transaction: tx, Lines: items}
		return nil
	})
	if err != nil {
		uc.logRejected("create", kind, tx.ID, len(lines), err)
		return nil, err
	}
	uc.log.Info().
		Str("kind", string(kind)).
		Str("id", tx.ID).
		Int("lines", len(lines)).
		Str("total", tx.Total.String()).
		Msg("transacción registrada")
	return out, nil
}

// Update reemplaza las líneas de la transacción. El efecto neto en stock es
// (nuevas - anteriores) por producto; los movimientos anteriores se compensan con reversos.
func (uc *TransactionUseCase) Update(ctx context.Context, kind entity.TransactionKind, id string, h HeaderInput, lines []LineInput) (*TransactionDetail, error) {
	if err := validateInput(kind, h, lines); err != nil {
		return nil, err
	}
	var out *TransactionDetail
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		tx, err := r.Transactions.GetForUpdate(ctx, kind, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return domain.ErrNotFound
		}
		if kind == entity.KindSale {
			inv, err := r.Invoices.GetBySaleID(ctx, id)
			if err != nil {
				return err
			}
			if inv != nil {
				return fmt.Errorf("%w: la venta %s ya fue facturada (%s)", domain.ErrConflict, id, inv.Number)
			}
		}
		if err := requireCounterparty(ctx, r, kind, h.CounterpartyID); err != nil {
			return err
		}

		old, err := r.Movements.ListActiveByTransaction(ctx, kind, id)
		if err != nil {
			return err
		}
		oldQty := movedQuantities(kind, old)
		want := aggregate(lines)
		products, err := lockProducts(ctx, r, lockOrder(oldQty, quantities(want)))
		if err != nil {
			return err
		}

		switch kind {
		case entity.KindSale:
			if err := checkSufficiency(products, want, oldQty); err != nil {
				return err
			}
		case entity.KindPurchase:
			if err := checkPurchaseShrink(products, want, oldQty); err != nil {
				return err
			}
		}

		// Venta: primero se devuelve lo anterior y luego se descuenta lo nuevo.
		// Compra: primero entra lo nuevo y luego se retira lo anterior.
		// Así ningún paso intermedio deja stock negativo.
		if kind == entity.KindSale {
			if err := uc.reverseAll(ctx, r, old, h.ActorID); err != nil {
				return err
			}
		}

		tx.CounterpartyID = h.CounterpartyID
		if !h.Date.IsZero() {
			tx.Date = h.Date
		}
		if h.Status != "" {
			tx.Status = h.Status
		}
		if h.PaymentMethod != "" {
			tx.PaymentMethod = h.PaymentMethod
		}
		tx.UpdatedAt = uc.now()

		if err := r.Transactions.DeleteLines(ctx, kind, id); err != nil {
			return err
		}
		items, totals := uc.buildLines(tx, products, lines)
		paid, err := r.Payments.SumByTransaction(ctx, kind, id)
		if err != nil {
			return err
		}
		if paid.GreaterThan(totals.Total) {
			return fmt.Errorf("%w: la transacción %s tiene pagos por %s y el nuevo total sería %s",
				domain.ErrConflict, id, paid.String(), totals.Total.String())
		}
		tx.Subtotal, tx.TaxTotal, tx.Total = totals.Subtotal, totals.TaxTotal, totals.Total
		if err := r.Transactions.Update(ctx, tx); err != nil {
			return err
		}
		if err := uc.persistLines(ctx, r, tx, items, h.ActorID); err != nil {
			return err
		}
		if kind == entity.KindPurchase {
			if err := uc.reverseAll(ctx, r, old, h.ActorID); err != nil {
				return err
			}
		}
		out = &TransactionDetail{Transaction: tx, Lines: items}
		return nil
	})
	if err != nil {
		uc.logRejected("update", kind, id, len(lines), err)
		return nil, err
	}
	uc.log.Info().
		Str("kind", string(kind)).
		Str("id", id).
		Int("lines", len(lines)).
		Str("total", out.Transaction.Total.String()).
		Msg("transacción actualizada")
	return out, nil
}

// Delete elimina la transacción y restaura el stock que movió.
// Con factura o pagos: conflicto, salvo que la política sea cascade.
func (uc *TransactionUseCase) Delete(ctx context.Context, kind entity.TransactionKind, id, actorID string) error {
	if !kind.Valid() {
		return domain.FieldError("kind", "debe ser sale o purchase")
	}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		tx, err := r.Transactions.GetForUpdate(ctx, kind, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return domain.ErrNotFound
		}
		if err := uc.releaseDependents(ctx, r, kind, id); err != nil {
			return err
		}

		old, err := r.Movements.ListActiveByTransaction(ctx, kind, id)
		if err != nil {
			return err
		}
		oldQty := movedQuantities(kind, old)
		products, err := lockProducts(ctx, r, lockOrder(oldQty))
		if err != nil {
			return err
		}
		if kind == entity.KindPurchase {
			if err := checkPurchaseShrink(products, nil, oldQty); err != nil {
				return err
			}
		}
		if err := uc.reverseAll(ctx, r, old, actorID); err != nil {
			return err
		}
		if err := r.Transactions.DeleteLines(ctx, kind, id); err != nil {
			return err
		}
		return r.Transactions.Delete(ctx, kind, id)
	})
	if err != nil {
		uc.logRejected("delete", kind, id, 0, err)
		return err
	}
	uc.log.Info().Str("kind", string(kind)).Str("id", id).Msg("transacción eliminada")
	return nil
}

// Get cabecera con líneas.
func (uc *TransactionUseCase) Get(ctx context.Context, kind entity.TransactionKind, id string) (*TransactionDetail, error) {
	if !kind.Valid() {
		return nil, domain.FieldError("kind", "debe ser sale o purchase")
	}
	var out *TransactionDetail
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		tx, err := r.Transactions.GetByID(ctx, kind, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return domain.ErrNotFound
		}
		lines, err := r.Transactions.ListLines(ctx, kind, id)
		if err != nil {
			return err
		}
		out = &TransactionDetail{Transaction: tx, Lines: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List cabeceras paginadas, más recientes primero.
func (uc *TransactionUseCase) List(ctx context.Context, kind entity.TransactionKind, limit, offset int) ([]*entity.Transaction, error) {
	if !kind.Valid() {
		return nil, domain.FieldError("kind", "debe ser sale o purchase")
	}
	var out []*entity.Transaction
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		out, err = r.Transactions.List(ctx, kind, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// buildLines calcula cada línea con la tasa vigente a la fecha de la transacción.
func (uc *TransactionUseCase) buildLines(tx *entity.Transaction, products map[string]*entity.Product, lines []LineInput) ([]*entity.LineItem, inventory.Totals) {
	rate := uc.rates.RateFor(tx.Date)
	var totals inventory.Totals
	items := make([]*entity.LineItem, 0, len(lines))
	for _, l := range lines {
		price := catalogPrice(tx.Kind, products[l.ProductID])
		if l.UnitPrice != nil {
			price = *l.UnitPrice
		}
		amounts := uc.calc.ComputeLine(l.Quantity, price, rate)
		totals.Add(amounts)
		items = append(items, &entity.LineItem{
			ID:            uuid.New().String(),
			TransactionID: tx.ID,
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			UnitPrice:     price,
			TaxRate:       rate,
			Subtotal:      amounts.Subtotal,
			Tax:           amounts.Tax,
			Total:         amounts.Total,
		})
	}
	return items, totals
}

// persistLines guarda las líneas y registra un movimiento de kardex por cada una.
func (uc *TransactionUseCase) persistLines(ctx context.Context, r repository.Repos, tx *entity.Transaction, items []*entity.LineItem, actorID string) error {
	for _, li := range items {
		if err := r.Transactions.CreateLine(ctx, tx.Kind, li); err != nil {
			return err
		}
		in := appinventory.MovementInput{
			ProductID:   li.ProductID,
			ActorID:     actorID,
			EffectiveAt: tx.Date,
		}
		if tx.Kind == entity.KindSale {
			in.Kind, in.QuantityOut, in.SaleID = entity.MovementSalida, li.Quantity, tx.ID
		} else {
			in.Kind, in.QuantityIn, in.PurchaseID = entity.MovementEntrada, li.Quantity, tx.ID
		}
		if _, err := uc.ledger.ApplyInTx(ctx, r, in); err != nil {
			return err
		}
	}
	return nil
}

func (uc *TransactionUseCase) reverseAll(ctx context.Context, r repository.Repos, movements []*entity.StockMovement, actorID string) error {
	for _, m := range movements {
		if _, err := uc.ledger.ReverseInTx(ctx, r, m.ID, actorID); err != nil {
			return err
		}
	}
	return nil
}

// releaseDependents aplica la política de borrado sobre factura y pagos.
func (uc *TransactionUseCase) releaseDependents(ctx context.Context, r repository.Repos, kind entity.TransactionKind, id string) error {
	var inv *entity.Invoice
	if kind == entity.KindSale {
		var err error
		if inv, err = r.Invoices.GetBySaleID(ctx, id); err != nil {
			return err
		}
	}
	paid, err := r.Payments.SumByTransaction(ctx, kind, id)
	if err != nil {
		return err
	}
	payments, err := r.Payments.ListByTransaction(ctx, kind, id)
	if err != nil {
		return err
	}
	if inv == nil && len(payments) == 0 {
		return nil
	}
	if !uc.cascade {
		if inv != nil {
			return fmt.Errorf("%w: la venta %s tiene la factura %s", domain.ErrConflict, id, inv.Number)
		}
		return fmt.Errorf("%w: la transacción %s tiene pagos por %s", domain.ErrConflict, id, paid.String())
	}
	if inv != nil {
		if err := r.Invoices.DeleteBySaleID(ctx, id); err != nil {
			return err
		}
	}
	return r.Payments.DeleteByTransaction(ctx, kind, id)
}

func (uc *TransactionUseCase) logRejected(op string, kind entity.TransactionKind, id string, lines int, err error) {
	var ev *zerolog.Event
	if isBusinessRejection(err) {
		ev = uc.log.Warn()
	} else {
		ev = uc.log.Error()
	}
	ev.Err(err).
		Str("op", op).
		Str("kind", string(kind)).
		Str("id", id).
		Int("lines", lines).
		Msg("transacción rechazada")
}

func isBusinessRejection(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict)
}

func defaultStatus(kind entity.TransactionKind) string {
	if kind == entity.KindPurchase {
		return entity.StatusCompletada
	}
	return entity.StatusPendiente
}

func catalogPrice(kind entity.TransactionKind, p *entity.Product) decimal.Decimal {
	if kind == entity.KindPurchase {
		return p.PurchasePrice
	}
	return p.SalePrice
}

func requireCounterparty(ctx context.Context, r repository.Repos, kind entity.TransactionKind, id string) error {
	if kind == entity.KindSale {
		c, err := r.Counterparties.GetClient(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("cliente %s: %w", id, domain.ErrNotFound)
		}
		return nil
	}
	s, err := r.Counterparties.GetSupplier(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("proveedor %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// lockProducts bloquea las filas en el orden recibido (ascendente).
func lockProducts(ctx context.Context, r repository.Repos, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		p, err := r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
		out[id] = p
	}
	return out, nil
}

// checkSufficiency venta: stock + lo que devuelve la versión anterior >= demanda nueva.
// Los productos se revisan en orden ascendente para un mensaje determinístico.
func checkSufficiency(products map[string]*entity.Product, want map[string]*demand, released map[string]int64) error {
	for _, id := range lockOrder(quantities(want)) {
		p := products[id]
		available := p.Stock + released[id]
		if want[id].quantity > available {
			return &domain.StockError{
				Field:     fmt.Sprintf("items[%d].quantity", want[id].firstLine),
				ProductID: id,
				Requested: want[id].quantity,
				Available: available,
			}
		}
	}
	return nil
}

// checkPurchaseShrink compra: retirar lo que entró antes no puede dejar stock negativo.
func checkPurchaseShrink(products map[string]*entity.Product, want map[string]*demand, previous map[string]int64) error {
	for _, id := range lockOrder(previous) {
		var incoming int64
		if d, ok := want[id]; ok {
			incoming = d.quantity
		}
		final := products[id].Stock + incoming - previous[id]
		if final < 0 {
			return &domain.StockError{
				ProductID: id,
				Requested: previous[id] - incoming,
				Available: products[id].Stock,
			}
		}
	}
	return nil
}

// movedQuantities cantidad vigente por producto (salidas de la venta o entradas de la compra).
func movedQuantities(kind entity.TransactionKind, movements []*entity.StockMovement) map[string]int64 {
	out := make(map[string]int64, len(movements))
	for _, m := range movements {
		if kind == entity.KindSale {
			out[m.ProductID] += m.QuantityOut - m.QuantityIn
		} else {
			out[m.ProductID] += m.QuantityIn - m.QuantityOut
		}
	}
	return out
}
