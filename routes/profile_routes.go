package routes

import (
	"github.com/anjiri1684/tutor_market/handlers"
	"github.com/anjiri1684/tutor_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App, h *handlers.Handler, jwtSecret string) {
	profile := app.Group("/api/v1/profile", middleware.Protected(jwtSecret))
	profile.Get("/me", h.GetMyProfile)
	profile.Put("/me", h.UpdateMyProfile)
}
