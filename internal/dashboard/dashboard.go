package dashboard

import (
	"strconv"
	"time"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/financial"
	"guvenlik-backend/internal/ledger"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultTrendCount = 6
	maxTrendCount     = 24
)

type KPIResponse struct {
	Period   string          `json:"period"`
	ViewMode ledger.ViewMode `json:"view_mode"`
	financial.KPIs
}

type TrendPoint struct {
	Label string `json:"label"` // YYYY-MM
	financial.PLTotals
}

type TrendResponse struct {
	ViewMode    ledger.ViewMode    `json:"view_mode"`
	From        string             `json:"from"`
	To          string             `json:"to"`
	Points      []TrendPoint       `json:"points"`
	GrandTotals financial.PLTotals `json:"grand_totals"`
}

// now, varsayılan ay için; testlerde sabitlenir.
var now = time.Now

// GET /api/dashboard/kpis?period=2024-06&view_mode=official
// period boşsa içinde bulunulan ay
func KPIHandler(svc *financial.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		period := c.Query("period", ledger.PeriodOf(now()))
		sel, err := financial.ParsePeriodSelector(period, "")
		if err != nil {
			return err
		}
		mode, err := ledger.ParseViewMode(c.Query("view_mode"))
		if err != nil {
			return err
		}

		k, err := svc.KPIs(c.UserContext(), sel, mode)
		if err != nil {
			return err
		}
		return c.JSON(KPIResponse{Period: sel.Token, ViewMode: mode, KPIs: k})
	}
}

// GET /api/dashboard/trend?count=6&to=2024-06&view_mode=total
func TrendHandler(svc *financial.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v := apperr.Violations{}

		count := defaultTrendCount
		if raw := c.Query("count"); raw != "" {
			n, err := strconv.Atoi(raw)
			switch {
			case err != nil:
				v.Add("count", apperr.CodeInvalidNumber)
			case n < 1 || n > maxTrendCount:
				v.Add("count", apperr.CodeOutOfRange)
			default:
				count = n
			}
		}

		end := now()
		if raw := c.Query("to"); raw != "" {
			t, err := ledger.ParsePeriod(raw)
			if err != nil {
				v.Add("to", apperr.CodeInvalidPeriod)
			}
			end = t
		}

		mode, err := ledger.ParseViewMode(c.Query("view_mode"))
		if err != nil {
			v.Add("view_mode", apperr.CodeInvalidViewMode)
		}
		if err := v.Err(); err != nil {
			return err
		}

		trend, err := svc.Trend(c.UserContext(), end, count, mode)
		if err != nil {
			return err
		}
		return c.JSON(buildTrend(trend, mode))
	}
}

func buildTrend(trend financial.TrendResult, mode ledger.ViewMode) TrendResponse {
	rows := trend.Periods
	resp := TrendResponse{ViewMode: mode, Points: make([]TrendPoint, 0, len(rows)), GrandTotals: trend.Totals}
	for _, r := range rows {
		resp.Points = append(resp.Points, TrendPoint{Label: r.Period, PLTotals: r.PLTotals})
	}
	if len(rows) > 0 {
		resp.From = rows[0].Period
		resp.To = rows[len(rows)-1].Period
	}
	return resp
}
