package routes

import (
	"github.com/gofiber/fiber/v2"

	"project-tracker/interfaces/api/handlers"
)

func SetupHealthRoutes(app *fiber.App, h *handlers.Handlers) {
	app.Get("/health", h.HealthHandler.Health)
	app.Get("/metrics", h.HealthHandler.Metrics())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Project Tracker API",
			"docs":    "/api/v1",
			"health":  "/health",
		})
	})
}
