package financial

import (
	"fmt"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/httpx"
	"guvenlik-backend/internal/ledger"
	"guvenlik-backend/internal/messages"

	"github.com/gofiber/fiber/v2"
)

// -----------------------------------
// Yardımcı: period / period_type / view_mode
// -----------------------------------

func parseReportQuery(c *fiber.Ctx) (PeriodSelector, ledger.ViewMode, error) {
	v := apperr.Violations{}

	pt, err := ParsePeriodType(c.Query("period_type"))
	if err != nil {
		v.Add("period_type", apperr.CodeInvalidPeriod)
	}
	sel, err := ParsePeriodSelector(c.Query("period"), pt)
	if err != nil {
		v.Add("period", apperr.CodeInvalidPeriod)
	}
	mode, err := ledger.ParseViewMode(c.Query("view_mode"))
	if err != nil {
		v.Add("view_mode", apperr.CodeInvalidViewMode)
	}
	return sel, mode, v.Err()
}

// -----------------------------------
// GET /api/financial/profit-loss
// ?period=2024-06|2024-Q2&view_mode=total|official|unofficial
// -----------------------------------
func ProfitLossHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sel, mode, err := parseReportQuery(c)
		if err != nil {
			return err
		}
		totals, err := svc.ProfitLoss(c.UserContext(), sel, mode)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"period":    sel.Token,
			"view_mode": mode,
			"totals":    totals,
		})
	}
}

// -----------------------------------
// GET /api/financial/profit-loss/by-period
// -----------------------------------
func ProfitLossByPeriodHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sel, mode, err := parseReportQuery(c)
		if err != nil {
			return err
		}
		rows, err := svc.ProfitLossByPeriod(c.UserContext(), sel, mode)
		if err != nil {
			return err
		}
		return c.JSON(rows)
	}
}

// -----------------------------------
// GET /api/financial/categories?period=2024-06&view_mode=
// -----------------------------------
func CategoriesHandler(svc *Service, catalog messages.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sel, mode, err := parseReportQuery(c)
		if err != nil {
			return err
		}
		if sel.Type == PeriodQuarter {
			return apperr.Invalid("period", apperr.CodeInvalidPeriod)
		}
		groups, err := svc.Categories(c.UserContext(), sel.Token, mode)
		if err != nil {
			return err
		}
		lang := httpx.Lang(c, catalog)
		for i := range groups {
			if groups[i].CategoryName == UncategorizedLabel {
				groups[i].CategoryName = catalog.T(lang, UncategorizedLabel)
			}
		}
		return c.JSON(groups)
	}
}

// -----------------------------------
// GET /api/financial/vat?period=2024-Q1&period_type=quarter&view_mode=
// -----------------------------------
func VATHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sel, mode, err := parseReportQuery(c)
		if err != nil {
			return err
		}
		rows, err := svc.VAT(c.UserContext(), VATQuery{Period: sel, ViewMode: mode})
		if err != nil {
			return err
		}
		return c.JSON(rows)
	}
}

// -----------------------------------
// GET /api/financial/profit-loss/export
// -----------------------------------
func ExportProfitLossHandler(svc *Service, catalog messages.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sel, mode, err := parseReportQuery(c)
		if err != nil {
			return err
		}
		rows, err := svc.ProfitLossByPeriod(c.UserContext(), sel, mode)
		if err != nil {
			return err
		}
		totals, err := svc.ProfitLoss(c.UserContext(), sel, mode)
		if err != nil {
			return err
		}

		labels := PLLabelsTR
		if httpx.Lang(c, catalog) == messages.LangEN {
			labels = PLLabelsEN
		}
		buf, err := ExportPL(rows, totals, labels)
		if err != nil {
			return err
		}
		return sendXLSX(c, "kar-zarar", sel, buf.Bytes())
	}
}

// -----------------------------------
// GET /api/financial/vat/export
// -----------------------------------
func ExportVATHandler(svc *Service, catalog messages.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sel, mode, err := parseReportQuery(c)
		if err != nil {
			return err
		}
		rows, err := svc.VAT(c.UserContext(), VATQuery{Period: sel, ViewMode: mode})
		if err != nil {
			return err
		}

		labels := VATLabelsTR
		if httpx.Lang(c, catalog) == messages.LangEN {
			labels = VATLabelsEN
		}
		buf, err := ExportVAT(rows, labels)
		if err != nil {
			return err
		}
		return sendXLSX(c, "kdv", sel, buf.Bytes())
	}
}

func sendXLSX(c *fiber.Ctx, name string, sel PeriodSelector, body []byte) error {
	if !sel.IsZero() {
		name += "-" + sel.Token
	}
	c.Set(fiber.HeaderContentType, XLSXContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
	return c.Send(body)
}
