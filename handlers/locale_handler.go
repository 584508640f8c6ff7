package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// GetLocale returns a translation catalog for the frontend with its text
// direction.
func (h *Handler) GetLocale(c *fiber.Ctx) error {
	lang := c.Params("lang")
	raw, ok := h.Catalog.Raw(lang)
	if !ok {
		return fail(c, fiber.StatusNotFound, "errors.not_found")
	}

	return c.JSON(fiber.Map{
		"locale":       lang,
		"dir":          h.Catalog.Localizer(lang).Dir(),
		"translations": json.RawMessage(raw),
	})
}
