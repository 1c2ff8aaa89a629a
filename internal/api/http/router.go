package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/store-service/internal/api/http/handlers"
	"github.com/spec-kit/store-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Stores         *handlers.StoresHandler
	Products       *handlers.ProductsHandler
	Orders         *handlers.OrdersHandler
	Partners       *handlers.PartnersHandler
	AuthMiddleware *auth.AuthMiddleware
	CSRFGuard      *auth.CSRFGuard
}

// RegisterRoutes wires HTTP routes. The CSRF guard wraps every route
// group; it only validates state-changing methods.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Use(cfg.CSRFGuard.Middleware())

	authGroup := app.Group("/auth")
	authGroup.Get("/csrf", cfg.Auth.CSRFToken)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/forgot", cfg.Auth.ForgotPassword)
	authGroup.Get("/password/reset", cfg.Auth.ValidateResetToken)
	authGroup.Post("/password/reset", cfg.Auth.ResetPassword)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle)
	admin.Get("/users", cfg.Users.List)
	admin.Post("/users", cfg.Users.Create)
	admin.Get("/users/:id", cfg.Users.Get)
	admin.Put("/users/:id/role", cfg.Users.UpdateRole)
	admin.Delete("/users/:id", cfg.Users.Deactivate)
	admin.Post("/users/:id/password", cfg.Auth.AdminResetPassword)
	admin.Post("/users/:id/permissions", cfg.Users.GrantPermission)
	admin.Delete("/users/:id/permissions", cfg.Users.RevokePermission)

	stores := app.Group("/stores", cfg.AuthMiddleware.Handle)
	stores.Get("/", cfg.Stores.List)
	stores.Post("/", cfg.Stores.Create)
	stores.Get("/:id", cfg.Stores.Get)
	stores.Put("/:id", cfg.Stores.Update)

	products := app.Group("/products", cfg.AuthMiddleware.Handle)
	products.Get("/", cfg.Products.List)
	products.Post("/", cfg.Products.Create)
	products.Get("/:id", cfg.Products.Get)
	products.Put("/:id", cfg.Products.Update)
	products.Post("/:id/stock", cfg.Products.AdjustStock)

	orders := app.Group("/orders", cfg.AuthMiddleware.Handle)
	orders.Get("/", cfg.Orders.List)
	orders.Post("/", cfg.Orders.Create)
	orders.Get("/:id", cfg.Orders.Get)
	orders.Put("/:id/status", cfg.Orders.UpdateStatus)

	suppliers := app.Group("/suppliers", cfg.AuthMiddleware.Handle)
	suppliers.Get("/", cfg.Partners.ListSuppliers)
	suppliers.Post("/", cfg.Partners.CreateSupplier)
	suppliers.Put("/:id", cfg.Partners.UpdateSupplier)

	customers := app.Group("/customers", cfg.AuthMiddleware.Handle)
	customers.Get("/", cfg.Partners.ListCustomers)
	customers.Post("/", cfg.Partners.CreateCustomer)
	customers.Put("/:id", cfg.Partners.UpdateCustomer)
}
