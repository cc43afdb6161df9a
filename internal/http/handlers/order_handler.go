package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "ecommerceapi/internal/log"
	"ecommerceapi/internal/services"
	"ecommerceapi/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
}

type createOrderRequest struct {
	UserID     int64           `json:"usuarioId"`
	TotalValue decimal.Decimal `json:"valorTotal"`
}

// GET /api/pedidos/detalhespedido/:pedidoId
func (h *OrderHandler) Details(c *fiber.Ctx) error {
	const notFound = "Detalhes do pedido não encontrados."
	oid, ok := validate.ID(c.Params("pedidoId"))
	if !ok {
		return fail(c, fiber.StatusNotFound, notFound)
	}
	lines, err := h.Order.Details(oid, currentUser(c).ID)
	if errors.Is(err, services.ErrOrderNotFound) {
		return fail(c, fiber.StatusNotFound, notFound)
	}
	if err != nil {
		applog.Error(c, "order.details.fail", err, map[string]any{"order_id": oid})
		return fail(c, fiber.StatusInternalServerError, msgGeneric)
	}
	return c.JSON(lines)
}

// GET /api/pedidos/pedidosporusuario/:usuarioId
func (h *OrderHandler) History(c *fiber.Ctx) error {
	uid, ok := validate.ID(c.Params("usuarioId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "usuarioId"})
		return fail(c, fiber.StatusBadRequest, "Id de usuário inválido.")
	}
	if !owns(c, "access.denied.order", uid) {
		return fail(c, fiber.StatusForbidden, msgForbidden)
	}
	orders, err := h.Order.History(uid)
	if errors.Is(err, services.ErrOrderNotFound) {
		return fail(c, fiber.StatusNotFound, "Não foram encontrados pedidos para o usuário especificado.")
	}
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, msgGeneric)
	}
	return c.JSON(orders)
}

// POST /api/pedidos
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in createOrderRequest
	if err := c.BodyParser(&in); err != nil || in.TotalValue.IsNegative() {
		applog.Security(c, "validation.fail", map[string]any{"field": "body"})
		return fail(c, fiber.StatusBadRequest, msgBadPayload)
	}
	if in.UserID == 0 {
		in.UserID = currentUser(c).ID
	}
	if !owns(c, "access.denied.order", in.UserID) {
		return fail(c, fiber.StatusForbidden, msgForbidden)
	}

	placed, err := h.Order.Place(in.UserID, in.TotalValue)
	if errors.Is(err, services.ErrCartEmpty) {
		return fail(c, fiber.StatusNotFound, "Não há itens no carrinho para criar o pedido.")
	}
	if err != nil {
		applog.Error(c, "order.place.fail", err, map[string]any{"user": in.UserID})
		return fail(c, fiber.StatusBadRequest, "Ocorreu um erro ao processar o pedido.")
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id":     placed.Order.ID,
		"lines":        len(placed.Details),
		"server_total": placed.ServerTotal.String(),
		"client_total": in.TotalValue.String(),
		"mismatch":     !in.TotalValue.IsZero() && !in.TotalValue.Equal(placed.ServerTotal),
	})
	return c.JSON(fiber.Map{"orderId": placed.Order.ID})
}
