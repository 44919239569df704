package recurring

import (
	"strings"
	"time"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/money"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var twenty = decimal.NewFromInt(20)

type TemplateInput struct {
	Name              string           `json:"name"`
	Direction         string           `json:"direction"`
	Amount            money.RawDecimal `json:"amount"`
	Description       string           `json:"description"`
	ExpenseCategoryID *uuid.UUID       `json:"expense_category_id"`
	IncomeType        string           `json:"income_type"`
	CustomerID        *uuid.UUID       `json:"customer_id"`
	PaymentMethod     string           `json:"payment_method"`
	Invoiced          bool             `json:"invoiced"`
	VATRate           money.RawDecimal `json:"vat_rate"`
	DayOfMonth        int              `json:"day_of_month"`
	IsActive          *bool            `json:"is_active"`
}

// NormalizeTemplate validates a template. day_of_month defaults to 1 and
// vat_rate to 20; new templates are active unless told otherwise.
func NormalizeTemplate(in TemplateInput) (*models.RecurringTemplate, error) {
	v := apperr.Violations{}
	t := &models.RecurringTemplate{
		Name:          strings.TrimSpace(in.Name),
		Direction:     models.Direction(in.Direction),
		Description:   strings.TrimSpace(in.Description),
		CustomerID:    in.CustomerID,
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Invoiced:      in.Invoiced,
		DayOfMonth:    in.DayOfMonth,
		IsActive:      in.IsActive == nil || *in.IsActive,
		VATRate:       twenty,
	}

	if t.Name == "" {
		v.Add("name", apperr.CodeRequired)
	}

	switch {
	case in.Direction == "":
		v.Add("direction", apperr.CodeRequired)
	case !t.Direction.Valid():
		v.Add("direction", apperr.CodeInvalidDirection)
	case t.Direction == models.DirectionIncome:
		if in.ExpenseCategoryID != nil {
			v.Add("expense_category_id", apperr.CodeNotApplicable)
		}
		t.IncomeType = strings.TrimSpace(in.IncomeType)
	default:
		if in.IncomeType != "" {
			v.Add("income_type", apperr.CodeNotApplicable)
		}
		t.ExpenseCategoryID = in.ExpenseCategoryID
	}

	switch amount, ok, err := in.Amount.Parse(); {
	case !ok:
		v.Add("amount", apperr.CodeRequired)
	case err != nil:
		v.Add("amount", apperr.CodeInvalidNumber)
	case !amount.IsPositive():
		v.Add("amount", apperr.CodeMustBePositive)
	default:
		t.Amount = money.Round(amount, money.TRY)
	}

	switch rate, ok, err := in.VATRate.Parse(); {
	case !ok:
	case err != nil:
		v.Add("vat_rate", apperr.CodeInvalidNumber)
	case rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)):
		v.Add("vat_rate", apperr.CodeOutOfRange)
	default:
		t.VATRate = rate
	}

	if t.DayOfMonth == 0 {
		t.DayOfMonth = 1
	} else if t.DayOfMonth < 1 || t.DayOfMonth > 31 {
		v.Add("day_of_month", apperr.CodeOutOfRange)
	}

	if err := v.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// -------------------------
// GET /api/recurring-templates
// -------------------------
func ListTemplatesHandler(store *GormTemplateStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := store.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(rows)
	}
}

// -------------------------
// POST /api/admin/recurring-templates
// -------------------------
func CreateTemplateHandler(store *GormTemplateStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in TemplateInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		t, err := NormalizeTemplate(in)
		if err != nil {
			return err
		}
		if err := store.Create(c.UserContext(), t); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}

// -------------------------
// POST /api/admin/recurring-templates/run
// Zamanı gelen şablonları worker beklemeden işler.
// -------------------------
func RunDueHandler(p *Processor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := p.ProcessDue(c.UserContext(), time.Now())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"created": n})
	}
}
