package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del kardex (protegido).
type InventoryHandler struct {
	ledger   *inventory.LedgerUseCase
	lowStock *inventory.LowStockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, lowStock *inventory.LowStockUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, lowStock: lowStock}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type (entrada|salida|ajuste), quantity_in, quantity_out"
// @Success      201   {object}  dto.MovementCreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	id, err := h.ledger.RecordMovementFromRequest(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementCreatedResponse{ID: id})
}

// ReverseMovement godoc
// @Summary      Reversar movimiento
// @Description  Registra un ajuste compensatorio con las cantidades invertidas.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      201  {object}  dto.MovementCreatedResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/reverse [post]
func (h *InventoryHandler) ReverseMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	id, err := h.ledger.ReverseMovement(c.Context(), c.Params("id"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementCreatedResponse{ID: id})
}

// GetStock stock actual del producto.
// GET /api/inventory/products/:id/stock
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	id := c.Params("id")
	stock, err := h.ledger.CurrentStock(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockResponse{ProductID: id, Stock: stock})
}

// ListMovements kardex del producto. Query: from, to (RFC3339 o YYYY-MM-DD), limit, offset.
// GET /api/inventory/products/:id/movements
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	verr := domain.NewValidationError()
	from, ok := parseDateQuery(c, "from")
	if !ok {
		verr.Add("from", "fecha inválida")
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		verr.Add("to", "fecha inválida")
	}
	if err := verr.OrNil(); err != nil {
		return writeError(c, err)
	}
	page := pageFromQuery(c)
	list, err := h.ledger.MovementsForProduct(c.Context(), c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(fiber.Map{
		"items": out,
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Reconcile compara el contador con el stock derivado del kardex.
// GET /api/inventory/products/:id/reconcile
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	rec, err := h.ledger.Reconcile(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReconcileResponse{
		ProductID: rec.ProductID,
		Stored:    rec.Stored,
		Derived:   rec.Derived,
		InSync:    rec.InSync(),
	})
}

// GetLowStock godoc
// @Summary      Productos bajo stock mínimo
// @Description  Cantidad sugerida = ceil(min_stock * 1.5) - stock, ordenado por mayor déficit.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.LowStockDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	list, err := h.lowStock.ListLowStock(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"items": list,
	})
}

func parseDateQuery(c *fiber.Ctx, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	return nil, false
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		SaleID:      m.SaleID,
		PurchaseID:  m.PurchaseID,
		Type:        m.Kind,
		QuantityIn:  m.QuantityIn,
		QuantityOut: m.QuantityOut,
		EffectiveAt: m.EffectiveAt,
		CreatedBy:   m.CreatedBy,
		Note:        m.Note,
		ReversalOf:  m.ReversalOf,
		ReversedBy:  m.ReversedBy,
	}
}
