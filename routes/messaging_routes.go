package routes

import (
	"github.com/anjiri1684/tutor_market/handlers"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// MessagingRoutes registers the chat socket. It authenticates with its first
// frame because browsers cannot set headers on a websocket handshake.
func MessagingRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	api.Use("/ws", handlers.UpgradeChat)
	api.Get("/ws", websocket.New(h.ServeOrderChat))
}
