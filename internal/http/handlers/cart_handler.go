package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"ecommerceapi/internal/domain"
	applog "ecommerceapi/internal/log"
	"ecommerceapi/internal/services"
	"ecommerceapi/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

// GET /api/itenscarrinhocompra/:usuarioId
func (h *CartHandler) Get(c *fiber.Ctx) error {
	uid, ok := validate.ID(c.Params("usuarioId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "usuarioId"})
		return fail(c, fiber.StatusBadRequest, "Id de usuário inválido.")
	}
	// Existence is checked before ownership so an unknown id keeps its 404.
	// That tells a signed-in caller which ids exist; the miss is logged.
	lines, err := h.Cart.View(uid)
	if errors.Is(err, services.ErrUserNotFound) {
		applog.Security(c, "cart.view.unknown_user", map[string]any{"target_user": uid})
		return fail(c, fiber.StatusNotFound, fmt.Sprintf("Usuário com o id = %d não encontrado", uid))
	}
	if err != nil {
		applog.Error(c, "cart.view.fail", err, map[string]any{"user": uid})
		return fail(c, fiber.StatusInternalServerError, msgGeneric)
	}
	if !owns(c, "access.denied.cart", uid) {
		return fail(c, fiber.StatusForbidden, msgForbidden)
	}
	return c.JSON(lines)
}

// POST /api/itenscarrinhocompra
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in domain.CartItem
	if err := c.BodyParser(&in); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "body"})
		return fail(c, fiber.StatusBadRequest, msgBadPayload)
	}
	if in.ClientID == 0 {
		in.ClientID = currentUser(c).ID
	}
	if !owns(c, "access.denied.cart", in.ClientID) {
		return fail(c, fiber.StatusForbidden, msgForbidden)
	}

	res, err := h.Cart.Add(in)
	switch {
	case errors.Is(err, services.ErrInvalidQuantity):
		applog.Security(c, "validation.fail", map[string]any{"field": "quantidade"})
		return fail(c, fiber.StatusBadRequest, "Quantidade ou preço inválido.")
	case errors.Is(err, services.ErrProductNotFound):
		return fail(c, fiber.StatusNotFound, msgProductNotFound)
	case errors.Is(err, services.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, msgUserNotFound)
	case err != nil:
		applog.Error(c, "cart.add.fail", err, map[string]any{"product": in.ProductID})
		return fail(c, fiber.StatusInternalServerError, msgGeneric)
	}

	applog.Audit(c, "cart.add", map[string]any{
		"product":        res.Item.ProductID,
		"qty":            res.Item.Quantity,
		"merged":         res.Merged,
		"price_mismatch": res.PriceMismatch(),
	})
	return c.SendStatus(fiber.StatusCreated)
}

// PUT /api/itenscarrinhocompra?produtoId=&acao=
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Query("produtoId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "produtoId"})
		return fail(c, fiber.StatusBadRequest, "Id de produto inválido.")
	}
	action := c.Query("acao")

	removed, err := h.Cart.UpdateQuantity(currentUser(c).ID, pid, action)
	switch {
	case errors.Is(err, services.ErrCartItemNotFound):
		return fail(c, fiber.StatusNotFound, "Nenhum item encontrado no carrinho")
	case errors.Is(err, services.ErrInvalidAction):
		applog.Security(c, "validation.fail", map[string]any{"field": "acao", "value": action})
		return fail(c, fiber.StatusBadRequest, "Ação Inválida. Use : 'aumentar', 'diminuir', ou 'deletar' para realizar uma ação")
	case err != nil:
		applog.Error(c, "cart.update.fail", err, map[string]any{"product": pid})
		return fail(c, fiber.StatusInternalServerError, msgGeneric)
	}

	applog.Audit(c, "cart.update", map[string]any{"product": pid, "action": action, "removed": removed})
	if removed {
		return c.SendStatus(fiber.StatusOK)
	}
	return c.SendString(fmt.Sprintf("Operacao : %s realizada com sucesso", action))
}
