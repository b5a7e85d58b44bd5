package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/billing"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// PaymentHandler registro y consulta de pagos (protegido).
type PaymentHandler struct {
	uc *billing.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *billing.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar pago
// @Description  Exactamente uno de sale_id / purchase_id. Efectivo: cambio = recibido - monto.
// @Tags         billing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterPaymentRequest  true  "pago"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *PaymentHandler) Register(c *fiber.Ctx) error {
	if GetUserID(c) == "" {
		return unauthorized(c)
	}
	var in dto.RegisterPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	p, err := h.uc.RegisterPayment(c.Context(), billing.PaymentInput{
		SaleID:         in.SaleID,
		PurchaseID:     in.PurchaseID,
		Amount:         in.Amount,
		AmountReceived: in.AmountReceived,
		Method:         in.Method,
		Reference:      in.Reference,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPaymentResponse(p))
}

// ListForSale pagos de una venta.
// GET /api/sales/:id/payments
func (h *PaymentHandler) ListForSale(c *fiber.Ctx) error {
	return h.list(c, entity.KindSale)
}

// ListForPurchase pagos de una compra.
// GET /api/purchases/:id/payments
func (h *PaymentHandler) ListForPurchase(c *fiber.Ctx) error {
	return h.list(c, entity.KindPurchase)
}

func (h *PaymentHandler) list(c *fiber.Ctx, kind entity.TransactionKind) error {
	list, err := h.uc.ListPayments(c.Context(), kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPaymentResponse(p))
	}
	return c.JSON(out)
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:             p.ID,
		SaleID:         p.SaleID,
		PurchaseID:     p.PurchaseID,
		Amount:         p.Amount,
		AmountReceived: p.AmountReceived,
		Change:         p.Change,
		Method:         p.Method,
		PaidAt:         p.PaidAt,
		Reference:      p.Reference,
	}
}
