package middleware

import (
	"katalog/internal/i18n"

	ut "github.com/go-playground/universal-translator"
	"github.com/gofiber/fiber/v2"
)

const translatorKey = "translator"

// Localize is a Fiber middleware that picks the response language from the
// Accept-Language header and stores its translator in the context.
func Localize(translators *i18n.Translators) fiber.Handler {
	return func(c *fiber.Ctx) error {
		trans := translators.Default()
		// Without the header Fiber would pick the first offer, not our default.
		if c.Get(fiber.HeaderAcceptLanguage) != "" {
			trans = translators.Get(c.AcceptsLanguages(i18n.Supported...))
		}

		c.Locals(translatorKey, trans)
		c.Set(fiber.HeaderContentLanguage, trans.Locale())
		return c.Next()
	}
}

// Translator returns the translator chosen by Localize, or fallback when the
// middleware did not run for this request.
func Translator(c *fiber.Ctx, fallback ut.Translator) ut.Translator {
	if trans, ok := c.Locals(translatorKey).(ut.Translator); ok {
		return trans
	}
	return fallback
}
