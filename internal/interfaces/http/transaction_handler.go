package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/trade"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// TransactionHandler CRUD de ventas o compras. Una instancia por tipo.
type TransactionHandler struct {
	uc   *trade.TransactionUseCase
	kind entity.TransactionKind
}

// NewTransactionHandler construye el handler para el tipo indicado (sale | purchase).
func NewTransactionHandler(uc *trade.TransactionUseCase, kind entity.TransactionKind) *TransactionHandler {
	return &TransactionHandler{uc: uc, kind: kind}
}

// Create godoc
// @Summary      Registrar venta o compra
// @Description  Cabecera, líneas y movimientos de kardex en una sola transacción.
// @Description  Ventas: si alguna línea no tiene stock se rechaza todo (409 INSUFFICIENT_STOCK).
// @Tags         trade
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransactionRequest  true  "counterparty_id, items[{product_id, quantity, unit_price?}]"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
// @Router       /api/purchases [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.TransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	header, lines := toTradeInput(userID, in)
	detail, err := h.uc.Create(c.Context(), h.kind, header, lines)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(detail.Transaction, detail.Lines))
}

// Update reemplaza cabecera y líneas; el stock se ajusta por la diferencia.
// PUT /api/sales/:id | /api/purchases/:id
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.TransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	header, lines := toTradeInput(userID, in)
	detail, err := h.uc.Update(c.Context(), h.kind, c.Params("id"), header, lines)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransactionResponse(detail.Transaction, detail.Lines))
}

// Delete elimina la transacción y restaura el stock.
// DELETE /api/sales/:id | /api/purchases/:id
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.Context(), h.kind, c.Params("id"), userID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID cabecera con líneas.
// GET /api/sales/:id | /api/purchases/:id
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	detail, err := h.uc.Get(c.Context(), h.kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransactionResponse(detail.Transaction, detail.Lines))
}

// List cabeceras paginadas. Query: limit, offset.
// GET /api/sales | /api/purchases
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	list, err := h.uc.List(c.Context(), h.kind, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.TransactionListResponse{
		Items: make([]dto.TransactionResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, tx := range list {
		out.Items = append(out.Items, toTransactionResponse(tx, nil))
	}
	return c.JSON(out)
}

func toTradeInput(actorID string, in dto.TransactionRequest) (trade.HeaderInput, []trade.LineInput) {
	h := trade.HeaderInput{
		CounterpartyID: in.CounterpartyID,
		ActorID:        actorID,
		Status:         in.Status,
		PaymentMethod:  in.PaymentMethod,
	}
	if in.Date != nil {
		h.Date = *in.Date
	}
	lines := make([]trade.LineInput, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, trade.LineInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return h, lines
}

func toTransactionResponse(tx *entity.Transaction, lines []*entity.LineItem) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:             tx.ID,
		Kind:           string(tx.Kind),
		CounterpartyID: tx.CounterpartyID,
		UserID:         tx.UserID,
		Date:           tx.Date,
		Status:         tx.Status,
		PaymentMethod:  tx.PaymentMethod,
		Subtotal:       tx.Subtotal,
		TaxTotal:       tx.TaxTotal,
		Total:          tx.Total,
	}
	for _, l := range lines {
		resp.Items = append(resp.Items, dto.TransactionItemResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			TaxRate:   l.TaxRate,
			Subtotal:  l.Subtotal,
			Tax:       l.Tax,
			Total:     l.Total,
		})
	}
	return resp
}
