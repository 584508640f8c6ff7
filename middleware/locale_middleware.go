package middleware

import (
	"github.com/anjiri1684/tutor_market/i18n"
	"github.com/gofiber/fiber/v2"
)

const localizerKey = "localizer"

// Locale resolves the request language from ?lang= or Accept-Language and
// stores a Localizer for the handlers.
func Locale(catalog *i18n.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locale := catalog.Match(c.Query("lang"), c.Get(fiber.HeaderAcceptLanguage))
		c.Locals(localizerKey, catalog.Localizer(locale))
		c.Set(fiber.HeaderContentLanguage, locale)
		return c.Next()
	}
}

// Localizer returns the request's localizer. It is nil-safe when Locale did
// not run, in which case keys are returned untranslated.
func Localizer(c *fiber.Ctx) *i18n.Localizer {
	l, _ := c.Locals(localizerKey).(*i18n.Localizer)
	return l
}
