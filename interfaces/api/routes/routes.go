package routes

import (
	"github.com/gofiber/fiber/v2"

	"project-tracker/interfaces/api/handlers"
	websocketHandler "project-tracker/interfaces/api/websocket"
)

// SetupRoutes protected คือ middleware.Protected ที่ผูกกับ UserService แล้ว ws เป็น nil ได้
func SetupRoutes(app *fiber.App, h *handlers.Handlers, protected fiber.Handler, ws *websocketHandler.WebSocketHandler) {
	SetupHealthRoutes(app, h)

	api := app.Group("/api/v1")

	SetupAuthRoutes(api, h, protected)
	SetupUserRoutes(api, h, protected)
	SetupAdminRoutes(api, h, protected)
	SetupProjectRoutes(api, h, protected)
	SetupTaskRoutes(api, h, protected)

	if ws != nil {
		SetupWebSocketRoutes(app, ws)
	}
}
