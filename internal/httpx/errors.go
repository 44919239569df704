// Package httpx fiber tarafındaki ortak hata yanıtlarını ve yardımcıları içerir.
package httpx

import (
	"errors"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/log"
	"guvenlik-backend/internal/messages"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// Lang, Accept-Language başlığına göre yanıt dilini seçer.
func Lang(c *fiber.Ctx, catalog messages.Catalog) string {
	return messages.DetectLanguage(c.Get(fiber.HeaderAcceptLanguage), catalog.Default())
}

// ErrorHandler maps error kinds to status codes and localized bodies.
func ErrorHandler(catalog messages.Catalog, logger *log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		lang := Lang(c, catalog)

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(ErrorResponse{Error: fe.Message})
		}

		var ve *apperr.ValidationError
		if errors.As(err, &ve) {
			details := make(map[string]string, len(ve.Fields))
			for field, code := range ve.Fields {
				details[field] = catalog.T(lang, code)
			}
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
				Error:   catalog.T(lang, "validation_failed"),
				Code:    "validation_failed",
				Details: details,
			})
		}

		var ce *apperr.ConflictError
		if errors.As(err, &ce) {
			code := "conflict"
			if ce.Entity == "exchange_rate" {
				code = "rate_exists"
			}
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: catalog.T(lang, code), Code: code})
		}

		if apperr.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: catalog.T(lang, apperr.CodeNotFound), Code: apperr.CodeNotFound})
		}

		if apperr.IsUpstream(err) {
			logger.WarnContext(c.UserContext(), "kur kaynağı hatası", "error", err, "path", c.Path())
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: catalog.T(lang, "upstream"), Code: "upstream"})
		}

		if apperr.IsQuery(err) {
			logger.ErrorContext(c.UserContext(), "veritabanı hatası", "error", err, "path", c.Path())
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: catalog.T(lang, "query_failed"), Code: "query_failed"})
		}

		logger.ErrorContext(c.UserContext(), "beklenmeyen hata", "error", err, "path", c.Path())
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: catalog.T(lang, "internal")})
	}
}

// UUIDParam parses a route parameter as uuid.
func UUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Geçersiz id")
	}
	return id, nil
}

// UUIDQuery parses an optional query parameter; empty means nil.
func UUIDQuery(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, name+" geçersiz")
	}
	return &id, nil
}
