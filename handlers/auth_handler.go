package handlers

import (
	"github.com/anjiri1684/tutor_market/models"
	"github.com/anjiri1684/tutor_market/services"
	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=student tutor"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	Profile *models.Profile `json:"profile"`
	Token   string          `json:"token,omitempty"`
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	profile, err := h.Auth.Register(c.UserContext(), services.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	token, err := h.Auth.IssueToken(profile)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(UserResponse{Profile: profile, Token: token})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	token, profile, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(UserResponse{Profile: profile, Token: token})
}

// Logout is stateless: the client drops its token.
func (h *Handler) Logout(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}
	profile, err := h.Profiles.Get(c.UserContext(), userID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(UserResponse{Profile: profile})
}

func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	type Request struct {
		Email string `json:"email" validate:"required,email"`
	}
	var req Request
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	if err := h.Auth.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": t(c, "messages.reset_sent")})
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	type Request struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=6"`
	}
	var req Request
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	if err := h.Auth.ResetPassword(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": t(c, "messages.password_reset")})
}

func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	type Request struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=6"`
	}
	var req Request
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	userID, _, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}

	if err := h.Auth.ChangePassword(c.UserContext(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": t(c, "messages.password_changed")})
}
