package ledger

import (
	"context"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/httpx"
	"guvenlik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type createFunc func(ctx context.Context, in TransactionInput) (*models.FinancialTransaction, error)

func createHandler(create createFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in TransactionInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		tx, err := create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(tx)
	}
}

// -------------------------
// POST /api/transactions/expense
// -------------------------
func CreateQuickExpenseHandler(svc *Service) fiber.Handler {
	return createHandler(svc.CreateQuickExpense)
}

// -------------------------
// POST /api/transactions/income
// -------------------------
func CreateQuickIncomeHandler(svc *Service) fiber.Handler {
	return createHandler(svc.CreateQuickIncome)
}

// -------------------------
// POST /api/transactions
// -------------------------
func CreateTransactionHandler(svc *Service) fiber.Handler {
	return createHandler(svc.Create)
}

// -------------------------
// PUT /api/transactions/:id
// -------------------------
func UpdateTransactionHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.UUIDParam(c, "id")
		if err != nil {
			return err
		}
		var in TransactionInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		tx, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return err
		}
		return c.JSON(tx)
	}
}

// -------------------------
// DELETE /api/transactions/:id
// -------------------------
func DeleteTransactionHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.UUIDParam(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------
// GET /api/transactions/:id
// -------------------------
func GetTransactionHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.UUIDParam(c, "id")
		if err != nil {
			return err
		}
		tx, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(tx)
	}
}

// -------------------------
// GET /api/transactions
// ?direction=&period=YYYY-MM&customer_id=&site_id=&expense_category_id=
// &payment_method=&view_mode=&recurring_only=true
// -------------------------
func ListTransactionsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := ParseTransactionFilter(c)
		if err != nil {
			return err
		}
		rows, err := svc.List(c.UserContext(), f)
		if err != nil {
			return err
		}
		return c.JSON(rows)
	}
}

// ParseTransactionFilter reads list filters from the query string.
func ParseTransactionFilter(c *fiber.Ctx) (TransactionFilter, error) {
	var f TransactionFilter
	v := apperr.Violations{}

	if d := models.Direction(c.Query("direction")); d != "" {
		if !d.Valid() {
			v.Add("direction", apperr.CodeInvalidDirection)
		}
		f.Direction = d
	}
	if p := c.Query("period"); p != "" {
		if _, err := ParsePeriod(p); err != nil {
			v.Add("period", apperr.CodeInvalidPeriod)
		}
		f.Period = p
	}
	mode, err := ParseViewMode(c.Query("view_mode"))
	if err != nil {
		v.Add("view_mode", apperr.CodeInvalidViewMode)
	}
	f.ViewMode = mode
	if err := v.Err(); err != nil {
		return f, err
	}

	if f.CustomerID, err = httpx.UUIDQuery(c, "customer_id"); err != nil {
		return f, err
	}
	if f.SiteID, err = httpx.UUIDQuery(c, "site_id"); err != nil {
		return f, err
	}
	if f.ExpenseCategoryID, err = httpx.UUIDQuery(c, "expense_category_id"); err != nil {
		return f, err
	}
	f.PaymentMethod = c.Query("payment_method")
	f.RecurringOnly = c.QueryBool("recurring_only", false)
	return f, nil
}
