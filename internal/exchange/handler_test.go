package exchange

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/database/dbtest"
	"guvenlik-backend/internal/httpx"
	"guvenlik-backend/internal/log"
	"guvenlik-backend/internal/messages"
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/money"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, feedStatus int) *fiber.App {
	t.Helper()
	store := NewRateStore(dbtest.New(t))
	srv := feedServer(t, feedStatus, bulletin)
	fetcher := NewFetcher(NewTCMBClient(srv.URL, time.Second), store, log.Discard())

	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(messages.New(messages.LangTR), log.Discard())})
	app.Get("/api/exchange-rates", ListRatesHandler(store))
	app.Get("/api/exchange-rates/latest", LatestRateHandler(store))
	app.Post("/api/admin/exchange-rates", CreateRateHandler(store))
	app.Post("/api/admin/exchange-rates/fetch", FetchRateHandler(fetcher))
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestManualRateRoutes(t *testing.T) {
	app := newTestApp(t, http.StatusOK)

	status, _ := do(t, app, "GET", "/api/exchange-rates/latest", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	body := `{"currency":"usd","rate_date":"2024-06-01","buy_rate":"32,10","sell_rate":32.2}`
	status, out := do(t, app, "POST", "/api/admin/exchange-rates", body)
	require.Equal(t, fiber.StatusCreated, status, string(out))

	status, out = do(t, app, "POST", "/api/admin/exchange-rates", body)
	assert.Equal(t, fiber.StatusConflict, status)
	var e httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(out, &e))
	assert.Equal(t, "rate_exists", e.Code)

	status, out = do(t, app, "GET", "/api/exchange-rates/latest?currency=USD", "")
	require.Equal(t, 200, status)
	var r models.ExchangeRate
	require.NoError(t, json.Unmarshal(out, &r))
	assert.Equal(t, "32.1", r.EffectiveRate.String())
	assert.Equal(t, models.RateSourceManual, r.Source)

	status, _ = do(t, app, "POST", "/api/admin/exchange-rates", `{"currency":"TRY","rate_date":"x","effective_rate":"-1"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestFetchRoute(t *testing.T) {
	app := newTestApp(t, http.StatusOK)
	status, out := do(t, app, "POST", "/api/admin/exchange-rates/fetch", "")
	require.Equal(t, 200, status, string(out))

	status, out = do(t, app, "GET", "/api/exchange-rates?currency=usd", "")
	require.Equal(t, 200, status)
	var rows []models.ExchangeRate
	require.NoError(t, json.Unmarshal(out, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, models.RateSourceTCMB, rows[0].Source)

	down := newTestApp(t, http.StatusServiceUnavailable)
	status, _ = do(t, down, "POST", "/api/admin/exchange-rates/fetch", "")
	assert.Equal(t, fiber.StatusBadGateway, status)
}

func TestNormalizeManual(t *testing.T) {
	r, err := NormalizeManual(RateInput{Currency: "eur", RateDate: "2024-06-01", EffectiveRate: money.Raw("35.5")})
	require.NoError(t, err)
	assert.Equal(t, "EUR", r.Currency)
	assert.False(t, r.BuyRate.Valid)

	_, err = NormalizeManual(RateInput{Currency: "USD", RateDate: "2024-06-01"})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, apperr.CodeRequired, ve.Fields["effective_rate"])

	_, err = NormalizeManual(RateInput{Currency: "JPY", RateDate: "01.06.2024", BuyRate: money.Raw("abc")})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, apperr.CodeUnsupportedCurrency, ve.Fields["currency"])
	assert.Equal(t, apperr.CodeInvalidDate, ve.Fields["rate_date"])
	assert.Equal(t, apperr.CodeInvalidNumber, ve.Fields["buy_rate"])
	_, has := ve.Fields["effective_rate"]
	assert.False(t, has)
}
