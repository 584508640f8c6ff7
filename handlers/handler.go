package handlers

import (
	"errors"

	"github.com/anjiri1684/tutor_market/i18n"
	"github.com/anjiri1684/tutor_market/middleware"
	"github.com/anjiri1684/tutor_market/payments"
	"github.com/anjiri1684/tutor_market/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves the HTTP API on top of the services.
type Handler struct {
	Auth      *services.AuthService
	Profiles  *services.ProfileService
	Listings  *services.ListingService
	Orders    *services.OrderService
	Reviews   *services.ReviewService
	Messaging *services.MessagingService
	Admin     *services.AdminService

	Catalog       *i18n.Catalog
	CloudinaryURL string
	Logger        *zap.Logger
}

func t(c *fiber.Ctx, key string) string {
	return middleware.Localizer(c).T(key)
}

func locale(c *fiber.Ctx) string {
	if l := middleware.Localizer(c); l != nil {
		return l.Locale
	}
	return "en"
}

func fail(c *fiber.Ctx, status int, key string) error {
	return c.Status(status).JSON(fiber.Map{"error": t(c, key)})
}

// parseBody decodes and validates the request body. On failure the response
// has already been written and the returned bool is false.
func parseBody(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, fail(c, fiber.StatusBadRequest, "errors.invalid_body")
	}
	if err := validate.Struct(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   t(c, "errors.validation"),
			"details": validationDetails(err, locale(c)),
		})
	}
	return true, nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, bool, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, false, fail(c, fiber.StatusBadRequest, "errors.invalid_id")
	}
	return id, true, nil
}

func currentUser(c *fiber.Ctx) (uuid.UUID, string, error) {
	return middleware.CurrentUser(c)
}

// classify maps service errors to a status code and a catalog key.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, "errors.not_found"
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, "errors.forbidden"
	case errors.Is(err, services.ErrServiceInactive):
		return fiber.StatusConflict, "errors.service_inactive"
	case errors.Is(err, services.ErrInvalidTransition):
		return fiber.StatusConflict, "errors.invalid_transition"
	case errors.Is(err, services.ErrAlreadyReviewed):
		return fiber.StatusConflict, "errors.already_reviewed"
	case errors.Is(err, services.ErrOrderNotCompleted):
		return fiber.StatusConflict, "errors.order_not_completed"
	case errors.Is(err, services.ErrEmptyMessage):
		return fiber.StatusBadRequest, "errors.empty_message"
	case errors.Is(err, services.ErrPaymentDeclined):
		return fiber.StatusPaymentRequired, "errors.payment_declined"
	case errors.Is(err, payments.ErrUnsupportedMethod):
		return fiber.StatusBadRequest, "errors.unsupported_method"
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict, "errors.email_taken"
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "errors.invalid_credentials"
	case errors.Is(err, services.ErrInvalidResetToken):
		return fiber.StatusBadRequest, "errors.invalid_reset_token"
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest, "errors.validation"
	}
	return fiber.StatusInternalServerError, "errors.internal"
}

func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	status, key := classify(err)
	switch status {
	case fiber.StatusInternalServerError:
		h.Logger.Error("request failed", zap.String("path", c.Path()), zap.String("method", c.Method()), zap.Error(err))
	case fiber.StatusBadRequest:
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(status).JSON(fiber.Map{"error": t(c, key), "details": err.Error()})
		}
	}
	return fail(c, status, key)
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
