package routes

import (
	"github.com/anjiri1684/tutor_market/handlers"
	"github.com/anjiri1684/tutor_market/middleware"
	"github.com/gofiber/fiber/v2"
)

// Setup registers every API route. jwtSecret signs and verifies the bearer
// tokens of the protected groups.
func Setup(app *fiber.App, h *handlers.Handler, jwtSecret string) {
	app.Use("/api/v1", middleware.Locale(h.Catalog))

	PublicRoutes(app, h)
	AuthRoutes(app, h, jwtSecret)
	ProfileRoutes(app, h, jwtSecret)
	TutorRoutes(app, h, jwtSecret)
	OrderRoutes(app, h, jwtSecret)
	MessagingRoutes(app, h)
	AdminRoutes(app, h, jwtSecret)
	UploadRoutes(app, h, jwtSecret)
}
