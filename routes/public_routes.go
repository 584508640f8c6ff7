package routes

import (
	"github.com/anjiri1684/tutor_market/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	api.Get("/health", handlers.Health)
	api.Get("/locales/:lang", h.GetLocale)

	services := api.Group("/services")
	services.Get("", h.BrowseServices)
	services.Get("/:serviceId", h.GetService)
	services.Get("/:serviceId/reviews", h.GetServiceReviews)
}
