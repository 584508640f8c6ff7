package routes

import (
	"github.com/anjiri1684/tutor_market/handlers"
	"github.com/anjiri1684/tutor_market/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App, h *handlers.Handler, jwtSecret string) {
	auth := app.Group("/api/v1/auth")

	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/forgot-password", h.ForgotPassword)
	auth.Post("/reset-password", h.ResetPassword)

	auth.Post("/logout", middleware.Protected(jwtSecret), h.Logout)
	auth.Get("/me", middleware.Protected(jwtSecret), h.Me)
	auth.Put("/password", middleware.Protected(jwtSecret), h.ChangePassword)
}
