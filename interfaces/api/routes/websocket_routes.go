package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	websocketHandler "project-tracker/interfaces/api/websocket"
)

func SetupWebSocketRoutes(app *fiber.App, ws *websocketHandler.WebSocketHandler) {
	app.Use("/ws", ws.WebSocketUpgrade)
	app.Get("/ws", websocket.New(ws.HandleWebSocket))
}
