package handlers

import (
	"github.com/anjiri1684/tutor_market/services"
	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	Bio      *string `json:"bio" validate:"omitempty,max=2000"`
}

func (h *Handler) GetMyProfile(c *fiber.Ctx) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}
	profile, err := h.Profiles.Get(c.UserContext(), userID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(profile)
}

func (h *Handler) UpdateMyProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	userID, _, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}

	profile, err := h.Profiles.Update(c.UserContext(), userID, services.ProfileUpdate{FullName: req.FullName, Bio: req.Bio})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(profile)
}
