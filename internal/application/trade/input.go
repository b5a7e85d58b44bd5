package trade

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// HeaderInput cabecera de una venta o compra.
// CounterpartyID es el cliente (venta) o el proveedor (compra).
type HeaderInput struct {
	CounterpartyID string
	ActorID        string
	Date           time.Time // cero = ahora (create) o sin cambio (update)
	Status         string    // vacío = por defecto (create) o sin cambio (update)
	PaymentMethod  string
}

// LineInput línea solicitada. UnitPrice nil = precio del catálogo.
type LineInput struct {
	ProductID string
	Quantity  int64
	UnitPrice *decimal.Decimal
}

// TransactionDetail cabecera con sus líneas.
type TransactionDetail struct {
	Transaction *entity.Transaction
	Lines       []*entity.LineItem
}

func validateInput(kind entity.TransactionKind, h HeaderInput, lines []LineInput) error {
	verr := domain.NewValidationError()
	if !kind.Valid() {
		verr.Add("kind", "debe ser sale o purchase")
	}
	if h.CounterpartyID == "" {
		if kind == entity.KindPurchase {
			verr.Add("counterparty_id", "proveedor requerido")
		} else {
			verr.Add("counterparty_id", "cliente requerido")
		}
	}
	if h.Status != "" && kind.Valid() && !entity.ValidStatus(kind, h.Status) {
		verr.Add("status", fmt.Sprintf("estado %q no válido para %s", h.Status, kind))
	}
	if h.PaymentMethod != "" && !entity.ValidPaymentMethod(h.PaymentMethod) {
		verr.Add("payment_method", "debe ser efectivo, tarjeta_credito o tarjeta_debito")
	}
	if len(lines) == 0 {
		verr.Add("items", "se requiere al menos una línea")
	}
	for i, l := range lines {
		if l.ProductID == "" {
			verr.Add(fmt.Sprintf("items[%d].product_id", i), "requerido")
		}
		if l.Quantity <= 0 {
			verr.Add(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor que cero")
		} else if l.Quantity > inventory.MaxQuantity {
			verr.Add(fmt.Sprintf("items[%d].quantity", i), fmt.Sprintf("no puede superar %d", inventory.MaxQuantity))
		}
		if l.UnitPrice != nil && l.UnitPrice.IsNegative() {
			verr.Add(fmt.Sprintf("items[%d].unit_price", i), "no puede ser negativo")
		}
	}
	return verr.OrNil()
}

// demand cantidad agregada por producto; firstLine es el índice de la primera línea
// del producto para nombrar el campo en los errores.
type demand struct {
	quantity  int64
	firstLine int
}

// aggregate suma las cantidades por producto: dos líneas del mismo producto
// no pueden saltarse la verificación de stock.
func aggregate(lines []LineInput) map[string]*demand {
	out := make(map[string]*demand, len(lines))
	for i, l := range lines {
		d, ok := out[l.ProductID]
		if !ok {
			d = &demand{firstLine: i}
			out[l.ProductID] = d
		}
		d.quantity += l.Quantity
	}
	return out
}

// lockOrder IDs en orden ascendente: todas las unidades bloquean filas en el mismo orden.
func lockOrder(sets ...map[string]int64) []string {
	seen := map[string]struct{}{}
	var ids []string
	for _, s := range sets {
		for id := range s {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids
}

func quantities(d map[string]*demand) map[string]int64 {
	out := make(map[string]int64, len(d))
	for id, v := range d {
		out[id] = v.quantity
	}
	return out
}
