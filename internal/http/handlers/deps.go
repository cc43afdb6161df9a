package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jmoiron/sqlx"

	"ecommerceapi/internal/config"
	applog "ecommerceapi/internal/log"
	"ecommerceapi/internal/repos"
	"ecommerceapi/internal/services"
)

type Deps struct {
	Auth           *services.AuthService
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	catalogSvc := services.NewCatalogService(prodRepo)
	cartSvc := services.NewCartService(db, cartRepo, prodRepo, userRepo)
	orderSvc := services.NewOrderService(db, cartRepo, orderRepo)

	return &Deps{
		Auth:           authSvc,
		AuthHandler:    &AuthHandler{Auth: authSvc},
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Order: orderSvc},
	}
}

// Mount registers the API routes. Global middleware stays with the caller.
func Mount(app *fiber.App, d *Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	// Identity (login throttled)
	app.Post("/api/usuarios/register", d.AuthHandler.Register)
	app.Post("/api/usuarios/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return fail(c, fiber.StatusTooManyRequests, "Muitas tentativas. Tente novamente mais tarde.")
		},
	}), d.AuthHandler.Login)

	// Catalog
	app.Get("/api/produtos", d.ProductHandler.List)
	app.Get("/api/produtos/:id", d.ProductHandler.Detail)

	user := RequireUser(d.Auth)

	// Cart
	app.Get("/api/itenscarrinhocompra/:usuarioId", user, d.CartHandler.Get)
	app.Post("/api/itenscarrinhocompra", user, d.CartHandler.Add)
	app.Put("/api/itenscarrinhocompra", user, d.CartHandler.UpdateQuantity)

	// Orders
	app.Get("/api/pedidos/detalhespedido/:pedidoId", user, d.OrderHandler.Details)
	app.Get("/api/pedidos/pedidosporusuario/:usuarioId", user, d.OrderHandler.History)
	app.Post("/api/pedidos", user, d.OrderHandler.Create)
}
