package seed

import (
	"context"
	"fmt"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Result IDs creados por Demo.
type Result struct {
	ClientIDs   []string
	SupplierIDs []string
	ProductIDs  []string
	Movements   int
}

type demoProduct struct {
	name     string
	purchase string
	sale     string
	minStock int64
	opening  int64
}

var (
	demoClients = []dto.CreateCounterpartyRequest{
		{Name: "Papelería El Cuaderno", TaxID: "900123456-1", Email: "compras@elcuaderno.co"},
		{Name: "María Fernanda Ríos", TaxID: "1020304050", Phone: "3001234567"},
	}
	demoSuppliers = []dto.CreateCounterpartyRequest{
		{Name: "Distribuidora Andina S.A.S.", TaxID: "800987654-3", Email: "ventas@andina.co"},
		{Name: "Importadora del Pacífico Ltda.", TaxID: "811222333-9"},
	}
	demoProducts = []demoProduct{
		{name: "Cuaderno argollado 100 hojas", purchase: "6500", sale: "9800", minStock: 20, opening: 50},
		{name: "Esfero negro caja x12", purchase: "9000", sale: "14500", minStock: 10, opening: 8},
		{name: "Resma papel carta", purchase: "15200", sale: "21900", minStock: 15, opening: 40},
		{name: "Marcador borrable", purchase: "2100", sale: "3500", minStock: 30, opening: 0},
	}
)

// Demo crea clientes, proveedores y productos de ejemplo. Los saldos iniciales se registran
// como ajustes de entrada en el kardex para que contador y movimientos coincidan.
func Demo(ctx context.Context, catalog *usecase.CatalogUseCase, ledger *inventory.LedgerUseCase, actorID string) (*Result, error) {
	res := &Result{}
	for _, c := range demoClients {
		out, err := catalog.CreateClient(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("cliente %s: %w", c.Name, err)
		}
		res.ClientIDs = append(res.ClientIDs, out.ID)
	}
	for _, s := range demoSuppliers {
		out, err := catalog.CreateSupplier(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("proveedor %s: %w", s.Name, err)
		}
		res.SupplierIDs = append(res.SupplierIDs, out.ID)
	}
	for _, p := range demoProducts {
		out, err := catalog.CreateProduct(ctx, dto.CreateProductRequest{
			Name:          p.name,
			PurchasePrice: decimal.RequireFromString(p.purchase),
			SalePrice:     decimal.RequireFromString(p.sale),
			MinStock:      p.minStock,
		})
		if err != nil {
			return nil, fmt.Errorf("producto %s: %w", p.name, err)
		}
		res.ProductIDs = append(res.ProductIDs, out.ID)
		if p.opening == 0 {
			continue
		}
		if _, err := ledger.RecordMovement(ctx, inventory.MovementInput{
			ProductID:  out.ID,
			Kind:       entity.MovementAjuste,
			QuantityIn: p.opening,
			ActorID:    actorID,
			Note:       "saldo inicial",
		}); err != nil {
			return nil, fmt.Errorf("saldo inicial %s: %w", p.name, err)
		}
		res.Movements++
	}
	return res, nil
}
