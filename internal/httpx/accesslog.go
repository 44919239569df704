package httpx

import (
	"time"

	"guvenlik-backend/internal/log"

	"github.com/gofiber/fiber/v2"
)

// AccessLog logs one line per request after the handler chain ran; 5xx
// responses are logged at error level. Requires the requestid middleware
// to run first for the request_id field.
func AccessLog(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// ErrorHandler henüz çalışmadı; durumu hatadan al
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		attrs := []any{
			"request_id", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.IP(),
		}
		if status >= fiber.StatusInternalServerError {
			logger.ErrorContext(c.UserContext(), "HTTP isteği", attrs...)
		} else {
			logger.InfoContext(c.UserContext(), "HTTP isteği", attrs...)
		}
		return err
	}
}
