package routes

import (
	"github.com/anjiri1684/tutor_market/handlers"
	"github.com/anjiri1684/tutor_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App, h *handlers.Handler, jwtSecret string) {
	admin := app.Group("/api/v1/admin", middleware.Protected(jwtSecret), middleware.AdminRequired())

	admin.Get("/users", h.AdminListUsers)
	admin.Get("/services", h.AdminListServices)
	admin.Put("/services/:serviceId/status", h.ToggleServiceStatus)
	admin.Get("/orders", h.AdminListOrders)
}
