package exchange

import (
	"slices"
	"strings"
	"time"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/money"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var manualCurrencies = []string{money.USD, money.EUR, money.GBP}

type RateInput struct {
	Currency      string           `json:"currency"`
	RateDate      string           `json:"rate_date"`
	BuyRate       money.RawDecimal `json:"buy_rate"`
	SellRate      money.RawDecimal `json:"sell_rate"`
	EffectiveRate money.RawDecimal `json:"effective_rate"`
}

// NormalizeManual validates a manually entered rate. effective_rate falls
// back to buy_rate when omitted.
func NormalizeManual(in RateInput) (*models.ExchangeRate, error) {
	v := apperr.Violations{}
	r := &models.ExchangeRate{Source: models.RateSourceManual}

	r.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	switch {
	case r.Currency == "":
		v.Add("currency", apperr.CodeRequired)
	case !slices.Contains(manualCurrencies, r.Currency):
		v.Add("currency", apperr.CodeUnsupportedCurrency)
	}

	if strings.TrimSpace(in.RateDate) == "" {
		v.Add("rate_date", apperr.CodeRequired)
	} else if d, err := time.Parse("2006-01-02", strings.TrimSpace(in.RateDate)); err != nil {
		v.Add("rate_date", apperr.CodeInvalidDate)
	} else {
		r.RateDate = d
	}

	if d, ok := parsePositive(v, "buy_rate", in.BuyRate); ok {
		r.BuyRate = money.Null(d)
	}
	if d, ok := parsePositive(v, "sell_rate", in.SellRate); ok {
		r.SellRate = money.Null(d)
	}
	if d, ok := parsePositive(v, "effective_rate", in.EffectiveRate); ok {
		r.EffectiveRate = d
	}

	if !in.EffectiveRate.Set {
		if r.BuyRate.Valid {
			r.EffectiveRate = r.BuyRate.Decimal
		} else if _, has := v["buy_rate"]; !has {
			v.Add("effective_rate", apperr.CodeRequired)
		}
	}

	if err := v.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func parsePositive(v apperr.Violations, field string, raw money.RawDecimal) (decimal.Decimal, bool) {
	d, ok, err := raw.Parse()
	switch {
	case !ok:
		return decimal.Zero, false
	case err != nil:
		v.Add(field, apperr.CodeInvalidNumber)
		return decimal.Zero, false
	case !d.IsPositive():
		v.Add(field, apperr.CodeMustBePositive)
		return decimal.Zero, false
	}
	return d, true
}

// -------------------------
// GET /api/exchange-rates?currency=USD&limit=30
// -------------------------
func ListRatesHandler(store *GormRateStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := store.List(c.UserContext(), c.Query("currency"), c.QueryInt("limit", defaultListLimit))
		if err != nil {
			return err
		}
		return c.JSON(rows)
	}
}

// -------------------------
// GET /api/exchange-rates/latest?currency=USD
// -------------------------
func LatestRateHandler(store *GormRateStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := store.Latest(c.UserContext(), c.Query("currency", money.USD))
		if err != nil {
			return err
		}
		return c.JSON(r)
	}
}

// -------------------------
// POST /api/admin/exchange-rates
// Aynı gün için ikinci kayıt 409 döner.
// -------------------------
func CreateRateHandler(store *GormRateStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in RateInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		r, err := NormalizeManual(in)
		if err != nil {
			return err
		}
		if err := store.Insert(c.UserContext(), r); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(r)
	}
}

// -------------------------
// POST /api/admin/exchange-rates/fetch
// TCMB'den anlık çekim
// -------------------------
func FetchRateHandler(f *Fetcher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := f.FetchAndStore(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(r)
	}
}
