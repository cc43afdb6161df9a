package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"ecommerceapi/internal/log"
	"ecommerceapi/internal/services"
	"ecommerceapi/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// POST /api/usuarios/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in registerRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, msgBadPayload)
	}
	name, ok := validate.Name(in.Name)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "nome"})
		return fail(c, fiber.StatusBadRequest, "Nome inválido.")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "email"})
		return fail(c, fiber.StatusBadRequest, "Email inválido.")
	}
	if !validate.Password(in.Password) {
		log.Security(c, "validation.fail", map[string]any{"field": "senha"})
		return fail(c, fiber.StatusBadRequest, "A senha deve ter de 8 a 64 caracteres, com maiúscula, minúscula, número e símbolo.")
	}

	u, err := h.Auth.Register(name, email, in.Password)
	if errors.Is(err, services.ErrEmailTaken) {
		return fail(c, fiber.StatusConflict, "Email já cadastrado.")
	}
	if err != nil {
		log.Error(c, "auth.register.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, msgGeneric)
	}
	log.Audit(c, "auth.register", map[string]any{"email": u.Email})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": u.ID, "nome": u.Name, "email": u.Email})
}

// POST /api/usuarios/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, msgBadPayload)
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": in.Email, "reason": "bad_format"})
		return fail(c, fiber.StatusUnauthorized, "Email ou senha inválidos.")
	}

	u, tok, err := h.Auth.Login(email, in.Password)
	if errors.Is(err, services.ErrBadCreds) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return fail(c, fiber.StatusUnauthorized, "Email ou senha inválidos.")
	}
	if err != nil {
		log.Error(c, "auth.login.error", err, nil)
		return fail(c, fiber.StatusInternalServerError, msgGeneric)
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.JSON(fiber.Map{
		"accessToken": tok.Value,
		"tokenType":   "Bearer",
		"expiresAt":   tok.ExpiresAt.UTC().Format(time.RFC3339),
		"usuarioId":   u.ID,
		"usuarioNome": u.Name,
	})
}
