package routes

import (
	"github.com/anjiri1684/tutor_market/handlers"
	"github.com/anjiri1684/tutor_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func OrderRoutes(app *fiber.App, h *handlers.Handler, jwtSecret string) {
	orders := app.Group("/api/v1/orders", middleware.Protected(jwtSecret))

	orders.Post("/checkout/:serviceId", h.Checkout)
	orders.Get("/me", h.ListMyOrders)
	orders.Get("/me/stats", h.GetMyOrderStats)
	orders.Get("/:orderId", h.GetOrder)
	orders.Put("/:orderId/status", h.UpdateOrderStatus)
	orders.Post("/:orderId/review", h.SubmitReview)
	orders.Get("/:orderId/messages", h.GetMessages)
	orders.Post("/:orderId/messages", h.SendMessage)
}
