package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "ecommerceapi/internal/log"
	"ecommerceapi/internal/services"
	"ecommerceapi/internal/validate"
)

const msgProductNotFound = "Produto não encontrado."

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/produtos?q=&page=&pageSize=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q := ""
	if raw := c.Query("q"); strings.TrimSpace(raw) != "" {
		var ok bool
		if q, ok = validate.Q(raw); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "q", "value": raw})
			return fail(c, fiber.StatusBadRequest, "Termo de busca inválido.")
		}
	}
	page, size := validate.Page(c.Query("page"), c.Query("pageSize"))

	products, err := h.Catalog.Search(q, page, size)
	if err != nil {
		applog.Error(c, "catalog.search.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, msgGeneric)
	}
	return c.JSON(products)
}

// GET /api/produtos/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusNotFound, msgProductNotFound)
	}
	p, err := h.Catalog.GetProduct(id)
	if errors.Is(err, services.ErrProductNotFound) {
		return fail(c, fiber.StatusNotFound, msgProductNotFound)
	}
	if err != nil {
		applog.Error(c, "catalog.get.fail", err, map[string]any{"product": id})
		return fail(c, fiber.StatusInternalServerError, msgGeneric)
	}
	return c.JSON(p)
}
