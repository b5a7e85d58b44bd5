package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync/atomic"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.ProductRepository       = (*productRepo)(nil)
	_ repository.StockMovementRepository = (*movementRepo)(nil)
	_ repository.TransactionRepository   = (*transactionRepo)(nil)
	_ repository.InvoiceRepository       = (*invoiceRepo)(nil)
	_ repository.PaymentRepository       = (*paymentRepo)(nil)
	_ repository.CounterpartyRepository  = (*counterpartyRepo)(nil)
)

// ── Productos ────────────────────────────────────────────────────────────────

type productRepo struct{ s *state }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *p
	cp.Stock = 0
	r.s.products[p.ID] = cp
	p.Stock = 0
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate no necesita bloqueo: Store.Run ya serializa las unidades.
func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) UpdateStock(_ context.Context, id string, stock int64) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	p.UpdatedAt = time.Now()
	r.s.products[id] = p
	return nil
}

func (r *productRepo) ListBelowMinimum(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.BelowMinimum() {
			cp := p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Kardex ───────────────────────────────────────────────────────────────────

type movementRepo struct{ s *state }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if _, ok := r.s.products[m.ProductID]; !ok {
		return fmt.Errorf("movimiento: %w", domain.ErrNotFound)
	}
	if _, ok := r.s.movements[m.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.movements[m.ID] = *m
	r.s.movementOrder = append(r.s.movementOrder, m.ID)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *movementRepo) MarkReversed(_ context.Context, id, reversalID string) error {
	m, ok := r.s.movements[id]
	if !ok {
		return domain.ErrNotFound
	}
	if m.ReversedBy != nil {
		return domain.ErrConflict
	}
	m.ReversedBy = &reversalID
	r.s.movements[id] = m
	return nil
}

func (r *movementRepo) ListByProduct(_ context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	list := make([]*entity.StockMovement, 0)
	for _, id := range r.s.movementOrder {
		m := r.s.movements[id]
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.EffectiveAt.Before(*from) {
			continue
		}
		if to != nil && m.EffectiveAt.After(*to) {
			continue
		}
		list = append(list, &m)
	}
	// Estable: a igual effective_at se conserva el orden de inserción.
	sort.SliceStable(list, func(i, j int) bool { return list[i].EffectiveAt.Before(list[j].EffectiveAt) })
	if offset >= len(list) {
		return []*entity.StockMovement{}, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *movementRepo) ListActiveByTransaction(_ context.Context, kind entity.TransactionKind, transactionID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, id := range r.s.movementOrder {
		m := r.s.movements[id]
		if !m.Active() || !refersTo(m.SaleID, m.PurchaseID, kind, transactionID) {
			continue
		}
		out = append(out, &m)
	}
	return out, nil
}

func (r *movementRepo) SumByProduct(_ context.Context, productID string) (int64, int64, error) {
	var in, out int64
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			in += m.QuantityIn
			out += m.QuantityOut
		}
	}
	return in, out, nil
}

func refersTo(saleID, purchaseID *string, kind entity.TransactionKind, id string) bool {
	switch kind {
	case entity.KindSale:
		return saleID != nil && *saleID == id
	case entity.KindPurchase:
		return purchaseID != nil && *purchaseID == id
	}
	return false
}

// ── Ventas y compras ─────────────────────────────────────────────────────────

type transactionRepo struct{ s *state }

func (r *transactionRepo) headers(kind entity.TransactionKind) (map[string]entity.Transaction, error) {
	switch kind {
	case entity.KindSale:
		return r.s.sales, nil
	case entity.KindPurchase:
		return r.s.purchases, nil
	}
	return nil, fmt.Errorf("tipo de transacción %q: %w", kind, domain.ErrInvalidInput)
}

func (r *transactionRepo) lines(kind entity.TransactionKind) map[string][]entity.LineItem {
	if kind == entity.KindSale {
		return r.s.saleLines
	}
	return r.s.purchaseLines
}

func (r *transactionRepo) Create(_ context.Context, tx *entity.Transaction) error {
	h, err := r.headers(tx.Kind)
	if err != nil {
		return err
	}
	if _, ok := h[tx.ID]; ok {
		return domain.ErrDuplicate
	}
	h[tx.ID] = *tx
	return nil
}

func (r *transactionRepo) Update(_ context.Context, tx *entity.Transaction) error {
	h, err := r.headers(tx.Kind)
	if err != nil {
		return err
	}
	if _, ok := h[tx.ID]; !ok {
		return domain.ErrNotFound
	}
	h[tx.ID] = *tx
	return nil
}

func (r *transactionRepo) GetByID(_ context.Context, kind entity.TransactionKind, id string) (*entity.Transaction, error) {
	h, err := r.headers(kind)
	if err != nil {
		return nil, err
	}
	tx, ok := h[id]
	if !ok {
		return nil, nil
	}
	return &tx, nil
}

func (r *transactionRepo) GetForUpdate(ctx context.Context, kind entity.TransactionKind, id string) (*entity.Transaction, error) {
	return r.GetByID(ctx, kind, id)
}

func (r *transactionRepo) List(_ context.Context, kind entity.TransactionKind, limit, offset int) ([]*entity.Transaction, error) {
	h, err := r.headers(kind)
	if err != nil {
		return nil, err
	}
	list := make([]*entity.Transaction, 0, len(h))
	for _, tx := range h {
		list = append(list, &tx)
	}
	// Más recientes primero, como ORDER BY date DESC, created_at DESC, id.
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	if offset >= len(list) {
		return []*entity.Transaction{}, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// Delete elimina cabecera y líneas; los movimientos conservan el asiento con la referencia en NULL
// (equivalente a ON DELETE SET NULL).
func (r *transactionRepo) Delete(_ context.Context, kind entity.TransactionKind, id string) error {
	h, err := r.headers(kind)
	if err != nil {
		return err
	}
	if _, ok := h[id]; !ok {
		return domain.ErrNotFound
	}
	delete(h, id)
	delete(r.lines(kind), id)
	for mid, m := range r.s.movements {
		if !refersTo(m.SaleID, m.PurchaseID, kind, id) {
			continue
		}
		if kind == entity.KindSale {
			m.SaleID = nil
		} else {
			m.PurchaseID = nil
		}
		r.s.movements[mid] = m
	}
	return nil
}

func (r *transactionRepo) CreateLine(_ context.Context, kind entity.TransactionKind, line *entity.LineItem) error {
	h, err := r.headers(kind)
	if err != nil {
		return err
	}
	if _, ok := h[line.TransactionID]; !ok {
		return fmt.Errorf("línea: %w", domain.ErrNotFound)
	}
	l := r.lines(kind)
	l[line.TransactionID] = append(l[line.TransactionID], *line)
	return nil
}

func (r *transactionRepo) ListLines(_ context.Context, kind entity.TransactionKind, transactionID string) ([]*entity.LineItem, error) {
	if _, err := r.headers(kind); err != nil {
		return nil, err
	}
	src := r.lines(kind)[transactionID]
	out := make([]*entity.LineItem, 0, len(src))
	for i := range src {
		li := src[i]
		out = append(out, &li)
	}
	return out, nil
}

func (r *transactionRepo) DeleteLines(_ context.Context, kind entity.TransactionKind, transactionID string) error {
	if _, err := r.headers(kind); err != nil {
		return err
	}
	delete(r.lines(kind), transactionID)
	return nil
}

// ── Facturas ─────────────────────────────────────────────────────────────────

type invoiceRepo struct {
	s   *state
	seq *atomic.Int64
}

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	if _, ok := r.s.sales[inv.SaleID]; !ok {
		return fmt.Errorf("factura: %w", domain.ErrNotFound)
	}
	for _, existing := range r.s.invoices {
		if existing.SaleID == inv.SaleID {
			return fmt.Errorf("%w: la venta %s ya tiene factura", domain.ErrConflict, inv.SaleID)
		}
		if existing.Number == inv.Number {
			return fmt.Errorf("%w: número de factura %s repetido", domain.ErrConflict, inv.Number)
		}
	}
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r *invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *invoiceRepo) GetBySaleID(_ context.Context, saleID string) (*entity.Invoice, error) {
	for _, inv := range r.s.invoices {
		if inv.SaleID == saleID {
			return &inv, nil
		}
	}
	return nil, nil
}

// NextNumber vive fuera del snapshot: igual que una secuencia, no retrocede con el rollback.
func (r *invoiceRepo) NextNumber(_ context.Context) (int64, error) {
	return r.seq.Add(1), nil
}

func (r *invoiceRepo) DeleteBySaleID(_ context.Context, saleID string) error {
	for id, inv := range r.s.invoices {
		if inv.SaleID == saleID {
			delete(r.s.invoices, id)
		}
	}
	return nil
}

// ── Pagos ────────────────────────────────────────────────────────────────────

type paymentRepo struct{ s *state }

func (r *paymentRepo) Create(_ context.Context, p *entity.Payment) error {
	kind, id := p.Target()
	if !refersTo(p.SaleID, p.PurchaseID, kind, id) {
		return domain.FieldError("sale_id", "el pago debe referenciar una venta o una compra")
	}
	r.s.payments[p.ID] = *p
	r.s.paymentOrder = append(r.s.paymentOrder, p.ID)
	return nil
}

func (r *paymentRepo) ListByTransaction(_ context.Context, kind entity.TransactionKind, transactionID string) ([]*entity.Payment, error) {
	out := make([]*entity.Payment, 0)
	for _, id := range r.s.paymentOrder {
		p, ok := r.s.payments[id]
		if !ok || !refersTo(p.SaleID, p.PurchaseID, kind, transactionID) {
			continue
		}
		out = append(out, &p)
	}
	return out, nil
}

func (r *paymentRepo) SumByTransaction(_ context.Context, kind entity.TransactionKind, transactionID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.s.payments {
		if refersTo(p.SaleID, p.PurchaseID, kind, transactionID) {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (r *paymentRepo) DeleteByTransaction(_ context.Context, kind entity.TransactionKind, transactionID string) error {
	for id, p := range r.s.payments {
		if refersTo(p.SaleID, p.PurchaseID, kind, transactionID) {
			delete(r.s.payments, id)
		}
	}
	r.s.paymentOrder = slices.DeleteFunc(r.s.paymentOrder, func(id string) bool {
		_, ok := r.s.payments[id]
		return !ok
	})
	return nil
}

// ── Clientes y proveedores ───────────────────────────────────────────────────

type counterpartyRepo struct{ s *state }

func (r *counterpartyRepo) CreateClient(_ context.Context, c *entity.Client) error {
	if _, ok := r.s.clients[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.clients[c.ID] = *c
	return nil
}

func (r *counterpartyRepo) CreateSupplier(_ context.Context, s *entity.Supplier) error {
	if _, ok := r.s.suppliers[s.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.suppliers[s.ID] = *s
	return nil
}

func (r *counterpartyRepo) GetClient(_ context.Context, id string) (*entity.Client, error) {
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *counterpartyRepo) GetSupplier(_ context.Context, id string) (*entity.Supplier, error) {
	s, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}
