package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/billing"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/trade"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC    *usecase.CatalogUseCase
	Ledger       *inventory.LedgerUseCase
	LowStock     *inventory.LowStockUseCase
	Transactions *trade.TransactionUseCase
	Invoices     *billing.InvoiceUseCase
	Payments     *billing.PaymentUseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	products := protected.Group("/products")
	products.Post("/", catalogHandler.CreateProduct)
	products.Get("/:id", catalogHandler.GetProduct)
	protected.Post("/clients", catalogHandler.CreateClient)
	protected.Post("/suppliers", catalogHandler.CreateSupplier)

	// Kardex: registro manual y reversos solo para admin y bodeguero
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.LowStock)
	invGroup.Post("/movements", RequireRole(RoleAdmin, RoleBodeguero), inventoryHandler.RegisterMovement)
	invGroup.Post("/movements/:id/reverse", RequireRole(RoleAdmin, RoleBodeguero), inventoryHandler.ReverseMovement)
	invGroup.Get("/products/:id/stock", inventoryHandler.GetStock)
	invGroup.Get("/products/:id/movements", inventoryHandler.ListMovements)
	invGroup.Get("/products/:id/reconcile", inventoryHandler.Reconcile)
	invGroup.Get("/low-stock", inventoryHandler.GetLowStock)

	paymentHandler := NewPaymentHandler(deps.Payments)

	sales := protected.Group("/sales")
	saleHandler := NewTransactionHandler(deps.Transactions, entity.KindSale)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Put("/:id", saleHandler.Update)
	sales.Delete("/:id", saleHandler.Delete)
	sales.Get("/:id/payments", paymentHandler.ListForSale)

	purchases := protected.Group("/purchases")
	purchaseHandler := NewTransactionHandler(deps.Transactions, entity.KindPurchase)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Put("/:id", purchaseHandler.Update)
	purchases.Delete("/:id", purchaseHandler.Delete)
	purchases.Get("/:id/payments", paymentHandler.ListForPurchase)

	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Invoices)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)

	protected.Post("/payments", paymentHandler.Register)
}
