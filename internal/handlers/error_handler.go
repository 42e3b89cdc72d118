package handlers

import (
	"errors"
	"log"

	"katalog/internal/i18n"
	"katalog/internal/middleware"
	"katalog/internal/repositories"
	"katalog/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the Fiber error handler of the API. Validation failures
// become the 422 envelope; every other error keeps the status/message shape
// of the product responses. Unexpected errors are logged, never echoed.
func ErrorHandler(translators *i18n.Translators) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		trans := middleware.Translator(c, translators.Default())

		var verrs *validation.Errors
		if errors.As(err, &verrs) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": i18n.T(trans, i18n.MsgValidationFailed),
				"errors":  verrs.Messages(trans),
			})
		}

		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": i18n.T(trans, i18n.MsgNotFound),
			})
		}

		if errors.Is(err, errInvalidBody) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": i18n.T(trans, i18n.MsgInvalidBody),
				"error":   err.Error(),
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"status":  "error",
				"message": fiberErr.Message,
			})
		}

		// Driver and runtime text stays in the log.
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": i18n.T(trans, i18n.MsgServerError),
			"error":   fiber.ErrInternalServerError.Message,
		})
	}
}
