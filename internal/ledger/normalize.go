package ledger

import (
	"slices"
	"strings"
	"time"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var (
	defaultVATRate = decimal.NewFromInt(20)
	maxVATRate     = decimal.NewFromInt(100)
)

// now, varsayılan işlem tarihi için; testlerde değiştirilir.
var now = time.Now

// TransactionInput is the raw form body. Numeric fields keep their text so
// a malformed value is reported against its own field.
type TransactionInput struct {
	Direction        string           `json:"direction"`
	AmountOriginal   money.RawDecimal `json:"amount_original"`
	OriginalCurrency string           `json:"original_currency"`
	ExchangeRate     money.RawDecimal `json:"exchange_rate"`
	ShouldInvoice    *bool            `json:"should_invoice"`
	HasInvoice       *bool            `json:"has_invoice"`
	VATRate          money.RawDecimal `json:"vat_rate"`
	COGSTRY          money.RawDecimal `json:"cogs_try"`
	TransactionDate  string           `json:"transaction_date"`
	Description      string           `json:"description"`
	PaymentMethod    string           `json:"payment_method"`

	ExpenseCategoryID   *uuid.UUID `json:"expense_category_id"`
	IncomeType          string     `json:"income_type"`
	CustomerID          *uuid.UUID `json:"customer_id"`
	SiteID              *uuid.UUID `json:"site_id"`
	ProposalID          *uuid.UUID `json:"proposal_id"`
	WorkOrderID         *uuid.UUID `json:"work_order_id"`
	RecurringTemplateID *uuid.UUID `json:"recurring_template_id"`
}

type entryPath struct {
	currencies []string
	// strict: yöne uymayan alan doluysa hata; değilse sessizce boşaltılır
	strict bool
}

var (
	quickExpensePath = entryPath{currencies: []string{money.TRY}}
	quickIncomePath  = entryPath{currencies: []string{money.TRY, money.USD}}
	generalPath      = entryPath{currencies: []string{money.TRY, money.USD, money.EUR, money.GBP}, strict: true}
)

// NormalizeQuickExpense: gider hızlı girişi, yalnızca TRY.
func NormalizeQuickExpense(in TransactionInput) (*models.FinancialTransaction, error) {
	in.OriginalCurrency = money.TRY
	in.ExchangeRate = money.RawDecimal{}
	return normalize(models.DirectionExpense, in, quickExpensePath)
}

// NormalizeQuickIncome: gelir hızlı girişi, TRY veya USD.
func NormalizeQuickIncome(in TransactionInput) (*models.FinancialTransaction, error) {
	return normalize(models.DirectionIncome, in, quickIncomePath)
}

// NormalizeGeneral validates the full ledger form; direction comes from the input.
func NormalizeGeneral(in TransactionInput) (*models.FinancialTransaction, error) {
	dir := models.Direction(strings.ToLower(strings.TrimSpace(in.Direction)))
	if dir == "" {
		return nil, apperr.Invalid("direction", apperr.CodeRequired)
	}
	if !dir.Valid() {
		return nil, apperr.Invalid("direction", apperr.CodeInvalidDirection)
	}
	return normalize(dir, in, generalPath)
}

func normalize(dir models.Direction, in TransactionInput, path entryPath) (*models.FinancialTransaction, error) {
	v := apperr.Violations{}
	tx := &models.FinancialTransaction{
		Direction:     dir,
		Description:   strings.TrimSpace(in.Description),
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		CustomerID:    in.CustomerID,
		SiteID:        in.SiteID,
		WorkOrderID:   in.WorkOrderID,

		RecurringTemplateID: in.RecurringTemplateID,
	}

	amount, ok, err := in.AmountOriginal.Parse()
	switch {
	case !ok:
		v.Add("amount_original", apperr.CodeRequired)
	case err != nil:
		v.Add("amount_original", apperr.CodeInvalidNumber)
	case amount.IsNegative():
		v.Add("amount_original", apperr.CodeNegative)
	}
	tx.AmountOriginal = amount

	currency := strings.ToUpper(strings.TrimSpace(in.OriginalCurrency))
	if currency == "" {
		currency = money.TRY
	}
	if !slices.Contains(path.currencies, currency) {
		v.Add("original_currency", apperr.CodeUnsupportedCurrency)
	}
	tx.OriginalCurrency = currency

	if currency != money.TRY {
		rate, ok, err := in.ExchangeRate.Parse()
		switch {
		case !ok:
			v.Add("exchange_rate", apperr.CodeRequired)
		case err != nil:
			v.Add("exchange_rate", apperr.CodeInvalidNumber)
		case !rate.IsPositive():
			v.Add("exchange_rate", apperr.CodeMustBePositive)
		default:
			tx.ExchangeRate = money.Null(rate)
		}
	}

	vatRate, ok, err := in.VATRate.Parse()
	switch {
	case !ok:
		vatRate = defaultVATRate
	case err != nil:
		v.Add("vat_rate", apperr.CodeInvalidNumber)
	case vatRate.IsNegative() || vatRate.GreaterThan(maxVATRate):
		v.Add("vat_rate", apperr.CodeOutOfRange)
	}
	tx.VATRate = vatRate

	date, err := parseDate(in.TransactionDate)
	if err != nil {
		v.Add("transaction_date", apperr.CodeInvalidDate)
	}
	tx.TransactionDate = date
	tx.Period = date.Format("2006-01")

	// yöne göre alanlar
	if dir == models.DirectionIncome {
		if path.strict {
			if in.HasInvoice != nil {
				v.Add("has_invoice", apperr.CodeNotApplicable)
			}
			if in.ExpenseCategoryID != nil {
				v.Add("expense_category_id", apperr.CodeNotApplicable)
			}
		}
		tx.ShouldInvoice = boolPtr(in.ShouldInvoice != nil && *in.ShouldInvoice)
		tx.IncomeType = strings.TrimSpace(in.IncomeType)
		if tx.IncomeType == "" {
			tx.IncomeType = models.IncomeTypeDefault
		}
		tx.ProposalID = in.ProposalID

		if c, ok, err := in.COGSTRY.Parse(); ok {
			switch {
			case err != nil:
				v.Add("cogs_try", apperr.CodeInvalidNumber)
			case c.IsNegative():
				v.Add("cogs_try", apperr.CodeNegative)
			default:
				tx.COGSTRY = money.Null(money.Round2(c))
			}
		}
	} else {
		if path.strict {
			if in.ShouldInvoice != nil {
				v.Add("should_invoice", apperr.CodeNotApplicable)
			}
			if strings.TrimSpace(in.IncomeType) != "" {
				v.Add("income_type", apperr.CodeNotApplicable)
			}
			if in.ProposalID != nil {
				v.Add("proposal_id", apperr.CodeNotApplicable)
			}
			if in.COGSTRY.Set {
				v.Add("cogs_try", apperr.CodeNotApplicable)
			}
		}
		tx.HasInvoice = boolPtr(in.HasInvoice != nil && *in.HasInvoice)
		tx.ExpenseCategoryID = in.ExpenseCategoryID
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	tx.AmountTRY, err = money.ToTRY(tx.AmountOriginal, currency, tx.ExchangeRate)
	if err != nil {
		return nil, apperr.Invalid("exchange_rate", apperr.CodeRequired)
	}

	if tx.IsOfficial() {
		vat := money.Null(money.Percent(tx.AmountTRY, tx.VATRate))
		if dir == models.DirectionIncome {
			tx.OutputVAT = vat
		} else {
			tx.InputVAT = vat
		}
	}
	return tx, nil
}

// parseDate: boşsa bugün; her durumda UTC gece yarısı.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		n := now()
		return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	if len(raw) > len(dateLayout) {
		// "2024-06-01T00:00:00Z": yalnızca geçerli RFC 3339 değerin tarih kısmı alınır
		if _, err := time.Parse(time.RFC3339, raw); err != nil {
			return time.Time{}, err
		}
		raw = raw[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func boolPtr(b bool) *bool { return &b }
