package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Store almacén en proceso para DB_DRIVER=memory y para tests.
// Run serializa las unidades bajo un mutex y trabaja sobre una copia del estado:
// si fn falla la copia se descarta y no queda rastro de la unidad.
type Store struct {
	mu         sync.Mutex
	st         *state
	invoiceSeq atomic.Int64
}

// state guarda valores (no punteros) para que el clon sea independiente.
type state struct {
	products      map[string]entity.Product
	movements     map[string]entity.StockMovement
	movementOrder []string
	sales         map[string]entity.Transaction
	purchases     map[string]entity.Transaction
	saleLines     map[string][]entity.LineItem
	purchaseLines map[string][]entity.LineItem
	invoices      map[string]entity.Invoice
	payments      map[string]entity.Payment
	paymentOrder  []string
	clients       map[string]entity.Client
	suppliers     map[string]entity.Supplier
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: &state{
		products:      map[string]entity.Product{},
		movements:     map[string]entity.StockMovement{},
		sales:         map[string]entity.Transaction{},
		purchases:     map[string]entity.Transaction{},
		saleLines:     map[string][]entity.LineItem{},
		purchaseLines: map[string][]entity.LineItem{},
		invoices:      map[string]entity.Invoice{},
		payments:      map[string]entity.Payment{},
		clients:       map[string]entity.Client{},
		suppliers:     map[string]entity.Supplier{},
	}}
}

func (s *state) clone() *state {
	return &state{
		products:      maps.Clone(s.products),
		movements:     maps.Clone(s.movements),
		movementOrder: slices.Clone(s.movementOrder),
		sales:         maps.Clone(s.sales),
		purchases:     maps.Clone(s.purchases),
		saleLines:     cloneLines(s.saleLines),
		purchaseLines: cloneLines(s.purchaseLines),
		invoices:      maps.Clone(s.invoices),
		payments:      maps.Clone(s.payments),
		paymentOrder:  slices.Clone(s.paymentOrder),
		clients:       maps.Clone(s.clients),
		suppliers:     maps.Clone(s.suppliers),
	}
}

func cloneLines(in map[string][]entity.LineItem) map[string][]entity.LineItem {
	out := make(map[string][]entity.LineItem, len(in))
	for k, v := range in {
		out[k] = slices.Clone(v)
	}
	return out
}

// Run ejecuta fn como una unidad atómica. Si fn retorna error el estado no cambia.
func (s *Store) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(work.repos(&s.invoiceSeq)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *state) repos(seq *atomic.Int64) repository.Repos {
	return repository.Repos{
		Products:       &productRepo{s: s},
		Movements:      &movementRepo{s: s},
		Transactions:   &transactionRepo{s: s},
		Invoices:       &invoiceRepo{s: s, seq: seq},
		Payments:       &paymentRepo{s: s},
		Counterparties: &counterpartyRepo{s: s},
	}
}
