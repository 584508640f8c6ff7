package middleware

import (
	"errors"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrNoUser = errors.New("no authenticated user")

func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// CurrentUser reads the id and role from the token stored by Protected.
func CurrentUser(c *fiber.Ctx) (uuid.UUID, string, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, "", ErrNoUser
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", ErrNoUser
	}
	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", ErrNoUser
	}
	role, _ := claims["role"].(string)
	return userID, role, nil
}

func requireRole(role, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, current, err := CurrentUser(c)
		if err != nil || current != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": message,
			})
		}
		return c.Next()
	}
}

func AdminRequired() fiber.Handler {
	return requireRole(models.RoleAdmin, "Forbidden: Admin access required")
}

func TutorRequired() fiber.Handler {
	return requireRole(models.RoleTutor, "Forbidden: Tutor access required")
}
