package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "ecommerceapi/internal/log"
	"ecommerceapi/internal/services"
)

func bearer(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}

// RequireUser resolves the Bearer token's email claim to a user and stores it
// as the request actor.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearer(c.Get(fiber.HeaderAuthorization))
		if !ok {
			applog.Security(c, "access.denied.token", map[string]any{"reason": "missing"})
			return fail(c, fiber.StatusUnauthorized, "Token de acesso ausente.")
		}
		u, err := auth.CurrentUser(raw)
		switch {
		case errors.Is(err, services.ErrInvalidToken):
			applog.Security(c, "access.denied.token", map[string]any{"reason": "invalid"})
			return fail(c, fiber.StatusUnauthorized, "Token inválido ou expirado.")
		case errors.Is(err, services.ErrUserNotFound):
			return fail(c, fiber.StatusNotFound, msgUserNotFound)
		case err != nil:
			applog.Error(c, "auth.resolve.fail", err, nil)
			return fail(c, fiber.StatusInternalServerError, msgGeneric)
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// owns reports whether the actor is userID; denials are logged.
func owns(c *fiber.Ctx, action string, userID int64) bool {
	if u := currentUser(c); u != nil && u.ID == userID {
		return true
	}
	applog.Security(c, action, map[string]any{"target_user": userID})
	return false
}
