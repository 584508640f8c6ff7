package routes

import (
	"github.com/anjiri1684/tutor_market/handlers"
	"github.com/anjiri1684/tutor_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func TutorRoutes(app *fiber.App, h *handlers.Handler, jwtSecret string) {
	tutor := app.Group("/api/v1/tutor", middleware.Protected(jwtSecret), middleware.TutorRequired())

	tutor.Get("/services", h.ListMyServices)
	tutor.Post("/services", h.CreateService)
	tutor.Put("/services/:serviceId/status", h.ToggleServiceStatus)
	tutor.Get("/orders", h.ListTutorOrders)
	tutor.Get("/dashboard", h.GetTutorDashboard)
}
