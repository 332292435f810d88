package api

import (
	"github.com/gofiber/fiber/v2"

	"medical-record-service/internal/api/handlers"
	"medical-record-service/internal/api/middleware"
	"medical-record-service/internal/app"
)

// NewServer builds the HTTP surface over a wired pipeline. Every /api route
// sits behind the actor middleware; report routes register before the admin
// entity wildcards so they keep precedence.
func NewServer(a *app.App) *fiber.App {
	srv := fiber.New()

	srv.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := srv.Group("/api", middleware.RequireActor())
	handlers.RegisterReportRoutes(api, handlers.NewReportHandler(a.Reports, a.Logger))
	handlers.RegisterAdminRoutes(api, handlers.NewAdminHandler(a.Admin, a.Logger))

	return srv
}
