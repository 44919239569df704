package ledger

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"guvenlik-backend/internal/httpx"
	"guvenlik-backend/internal/log"
	"guvenlik-backend/internal/messages"
	"guvenlik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc, _ := newService(t)
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(messages.New(messages.LangTR), log.Discard())})
	app.Post("/api/transactions/expense", CreateQuickExpenseHandler(svc))
	app.Post("/api/transactions/income", CreateQuickIncomeHandler(svc))
	app.Post("/api/transactions", CreateTransactionHandler(svc))
	app.Get("/api/transactions", ListTransactionsHandler(svc))
	app.Get("/api/transactions/:id", GetTransactionHandler(svc))
	app.Put("/api/transactions/:id", UpdateTransactionHandler(svc))
	app.Delete("/api/transactions/:id", DeleteTransactionHandler(svc))
	return app
}

func send(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestTransactionRoutes(t *testing.T) {
	app := newTestApp(t)

	resp, raw := send(t, app, "POST", "/api/transactions/income",
		`{"amount_original": "100", "original_currency": "USD", "exchange_rate": 32.5, "should_invoice": true, "transaction_date": "2024-06-01"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))

	var income models.FinancialTransaction
	require.NoError(t, json.Unmarshal(raw, &income))
	assert.True(t, dec("3250").Equal(income.AmountTRY))
	assert.True(t, dec("650").Equal(income.OutputVAT.Decimal))

	resp, raw = send(t, app, "POST", "/api/transactions/expense",
		`{"amount_original": "250,50", "has_invoice": false, "transaction_date": "2024-06-03"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = send(t, app, "GET", "/api/transactions?period=2024-06&view_mode=official", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []models.FinancialTransaction
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)
	assert.Equal(t, income.ID, list[0].ID)

	resp, raw = send(t, app, "PUT", "/api/transactions/"+income.ID.String(),
		`{"direction": "income", "amount_original": 200, "transaction_date": "2024-06-01"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var updated models.FinancialTransaction
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.True(t, dec("200").Equal(updated.AmountTRY))

	resp, _ = send(t, app, "DELETE", "/api/transactions/"+income.ID.String(), "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = send(t, app, "GET", "/api/transactions/"+income.ID.String(), "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTransactionValidationResponse(t *testing.T) {
	app := newTestApp(t)

	resp, raw := send(t, app, "POST", "/api/transactions/income",
		`{"amount_original": "abc", "original_currency": "USD"}`)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var body httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Geçersiz sayı", body.Details["amount_original"])
	assert.Equal(t, "Zorunlu alan", body.Details["exchange_rate"])

	resp, _ = send(t, app, "POST", "/api/transactions", `{"direction": "income", "amount_original": 1, "has_invoice": true}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = send(t, app, "POST", "/api/transactions", `{not json`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = send(t, app, "GET", "/api/transactions?period=2024-13", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = send(t, app, "GET", "/api/transactions?customer_id=nope", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = send(t, app, "GET", "/api/transactions/not-a-uuid", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
