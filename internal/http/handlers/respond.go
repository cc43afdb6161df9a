package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ecommerceapi/internal/domain"
	applog "ecommerceapi/internal/log"
)

const (
	msgGeneric      = "Ocorreu um erro ao processar a solicitação."
	msgForbidden    = "Acesso negado."
	msgUserNotFound = "Usuário não encontrado."
	msgBadPayload   = "Dados inválidos."
)

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// ErrorHandler logs the failure and answers JSON without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := msgGeneric
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	applog.Error(c, "server.error", err, map[string]any{"status": code})
	return fail(c, code, msg)
}

// currentUser is the actor set by RequireUser.
func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
