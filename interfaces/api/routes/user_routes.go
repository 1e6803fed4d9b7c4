package routes

import (
	"github.com/gofiber/fiber/v2"

	"project-tracker/interfaces/api/handlers"
	"project-tracker/interfaces/api/middleware"
)

func SetupUserRoutes(api fiber.Router, h *handlers.Handlers, protected fiber.Handler) {
	users := api.Group("/users", protected)
	users.Get("/profile", h.UserHandler.GetProfile)
	users.Put("/profile", h.UserHandler.UpdateProfile)
	users.Post("/profile/password", h.UserHandler.ChangePassword)
	users.Get("/lookup/:username", h.UserHandler.Lookup)
	users.Get("/:username", h.UserHandler.GetByUsername)
}

func SetupAdminRoutes(api fiber.Router, h *handlers.Handlers, protected fiber.Handler) {
	admin := api.Group("/admin", protected, middleware.AdminOnly())
	admin.Get("/users", h.AdminHandler.ListUsers)
	admin.Post("/users", h.AdminHandler.CreateUser)
	admin.Get("/users/:username", h.AdminHandler.GetUser)
	admin.Put("/users/:username", h.AdminHandler.UpdateUser)
	admin.Delete("/users/:username", h.AdminHandler.DeleteUser)
}
