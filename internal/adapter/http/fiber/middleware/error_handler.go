package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is the app-wide Fiber error handler. It covers the admin API
// and health routes; the webhook handlers never return errors because Twilio
// must always receive a well-formed reply document.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		// 4xx responses are caller mistakes and not worth an error log.
		if code >= fiber.StatusInternalServerError {
			log.Error("Request failed",
				zap.Int("status", code),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
