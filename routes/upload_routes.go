package routes

import (
	"github.com/anjiri1684/tutor_market/handlers"
	"github.com/anjiri1684/tutor_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(app *fiber.App, h *handlers.Handler, jwtSecret string) {
	app.Get("/api/v1/uploads/signature", middleware.Protected(jwtSecret), middleware.TutorRequired(), h.GenerateUploadSignature)
}
