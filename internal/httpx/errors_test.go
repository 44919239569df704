package httpx

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/log"
	"guvenlik-backend/internal/messages"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(messages.New(messages.LangTR), log.Discard())})
	app.Get("/", func(c *fiber.Ctx) error { return err })
	return app
}

func do(t *testing.T, err error, lang string) (int, ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	resp, e := newApp(err).Test(req)
	require.NoError(t, e)
	defer resp.Body.Close()

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperr.Invalid("exchange_rate", apperr.CodeRequired), 422, "validation_failed"},
		{"rate conflict", &apperr.ConflictError{Entity: "exchange_rate", Key: "USD/2024-06-01"}, 409, "rate_exists"},
		{"other conflict", &apperr.ConflictError{Entity: "user", Key: "a@b"}, 409, "conflict"},
		{"not found", &apperr.NotFoundError{Entity: "transaction", ID: "x"}, 404, "not_found"},
		{"upstream", &apperr.UpstreamError{Source: "tcmb", Reason: "status 503"}, 502, "upstream"},
		{"query", apperr.Query("list", errors.New("conn reset")), 500, "query_failed"},
		{"unknown", errors.New("boom"), 500, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := do(t, tc.err, "")
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestValidationDetailsAreLocalized(t *testing.T) {
	err := apperr.Violations{"exchange_rate": apperr.CodeRequired, "amount_original": apperr.CodeNegative}.Err()

	_, tr := do(t, err, "tr-TR")
	assert.Equal(t, "Zorunlu alan", tr.Details["exchange_rate"])
	assert.Equal(t, "Girilen bilgiler geçersiz", tr.Error)

	_, en := do(t, err, "en-US,en;q=0.8")
	assert.Equal(t, "Required", en.Details["exchange_rate"])
	assert.Equal(t, "Must not be negative", en.Details["amount_original"])
}

func TestFiberErrorPassesThrough(t *testing.T) {
	status, body := do(t, fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi"), "")
	assert.Equal(t, 400, status)
	assert.Equal(t, "Geçersiz istek gövdesi", body.Error)
}
