package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/medical-records-service/internal/api/http/handlers"
	"github.com/spec-kit/medical-records-service/internal/auth"
	"github.com/spec-kit/medical-records-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Records        *handlers.RecordsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/me", cfg.Users.Me)
	users.Get("/", auth.RequireRole(domain.RoleAdmin), cfg.Users.List)

	records := api.Group("/records", cfg.AuthMiddleware.Handle)
	records.Get("/", cfg.Records.ListRecords)
	records.Get("/:id", cfg.Records.GetRecord)

	manage := auth.RequireRole(domain.RoleDoctor, domain.RoleAdmin)
	records.Post("/", manage, cfg.Records.CreateRecord)
	records.Put("/:id", manage, cfg.Records.UpdateRecord)
	records.Delete("/:id", manage, cfg.Records.DeleteRecord)
}
