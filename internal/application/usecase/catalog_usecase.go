package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD.
type TxRunner interface {
	Run(ctx context.Context, fn func(r repository.Repos) error) error
}

// CatalogUseCase alta y consulta de productos, clientes y proveedores.
// Stock se maneja vía movimientos: un producto nuevo siempre inicia en 0.
type CatalogUseCase struct {
	txRunner TxRunner
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(txRunner TxRunner) *CatalogUseCase {
	return &CatalogUseCase{txRunner: txRunner}
}

// CreateProduct crea un nuevo producto.
func (uc *CatalogUseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	verr := domain.NewValidationError()
	if in.Name == "" {
		verr.Add("name", "requerido")
	}
	if in.PurchasePrice.IsNegative() {
		verr.Add("purchase_price", "no puede ser negativo")
	}
	if in.SalePrice.IsNegative() {
		verr.Add("sale_price", "no puede ser negativo")
	}
	if in.MinStock < 0 {
		verr.Add("min_stock", "no puede ser negativo")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "unidad"
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		CategoryID:    in.CategoryID,
		Name:          in.Name,
		Description:   in.Description,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		MinStock:      in.MinStock,
		UnitMeasure:   in.UnitMeasure,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		return r.Products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetProduct obtiene un producto por ID.
func (uc *CatalogUseCase) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		product, err = r.Products.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// CreateClient crea un cliente.
func (uc *CatalogUseCase) CreateClient(ctx context.Context, in dto.CreateCounterpartyRequest) (*dto.CounterpartyResponse, error) {
	if err := validateCounterparty(in); err != nil {
		return nil, err
	}
	c := &entity.Client{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: time.Now(),
	}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		return r.Counterparties.CreateClient(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return &dto.CounterpartyResponse{ID: c.ID, Name: c.Name, TaxID: c.TaxID, Email: c.Email, Phone: c.Phone}, nil
}

// CreateSupplier crea un proveedor.
func (uc *CatalogUseCase) CreateSupplier(ctx context.Context, in dto.CreateCounterpartyRequest) (*dto.CounterpartyResponse, error) {
	if err := validateCounterparty(in); err != nil {
		return nil, err
	}
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		LegalName: in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: time.Now(),
	}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		return r.Counterparties.CreateSupplier(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return &dto.CounterpartyResponse{ID: s.ID, Name: s.LegalName, TaxID: s.TaxID, Email: s.Email, Phone: s.Phone}, nil
}

func validateCounterparty(in dto.CreateCounterpartyRequest) error {
	verr := domain.NewValidationError()
	if in.Name == "" {
		verr.Add("name", "requerido")
	}
	if in.TaxID == "" {
		verr.Add("tax_id", "requerido")
	}
	return verr.OrNil()
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		CategoryID:    p.CategoryID,
		Name:          p.Name,
		Description:   p.Description,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		Stock:         p.Stock,
		MinStock:      p.MinStock,
		UnitMeasure:   p.UnitMeasure,
	}
}
