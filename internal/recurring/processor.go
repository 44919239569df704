package recurring

import (
	"context"
	"time"

	"guvenlik-backend/internal/ledger"
	"guvenlik-backend/internal/log"
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/money"

	"github.com/google/uuid"
)

// TemplateSource is the template store as seen by the processor.
type TemplateSource interface {
	Active(ctx context.Context, period string) ([]models.RecurringTemplate, error)
	MarkGenerated(ctx context.Context, id uuid.UUID, period string) error
	Generated(ctx context.Context, id uuid.UUID, period string) (bool, error)
}

// TransactionCreator is satisfied by *ledger.Service.
type TransactionCreator interface {
	Create(ctx context.Context, in ledger.TransactionInput) (*models.FinancialTransaction, error)
}

type Processor struct {
	templates TemplateSource
	ledger    TransactionCreator
	logger    *log.Logger
}

func NewProcessor(templates TemplateSource, ledger TransactionCreator, logger *log.Logger) *Processor {
	return &Processor{templates: templates, ledger: ledger, logger: logger.WithComponent("recurring")}
}

// ProcessDue creates this month's transaction for every active template
// whose day has arrived and which has not run for the period yet. A failing
// template is logged and skipped; the others still run. A template whose
// transaction exists but whose period was never marked is only marked.
func (p *Processor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	period := ledger.PeriodOf(now)
	templates, err := p.templates.Active(ctx, period)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, t := range templates {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		due := DueDate(now, t.DayOfMonth)
		if now.Day() < due.Day() {
			continue
		}

		done, err := p.templates.Generated(ctx, t.ID, period)
		if err != nil {
			p.logger.ErrorContext(ctx, "şablon işlemi kontrol edilemedi", "template_id", t.ID, "error", err)
			continue
		}
		if done {
			if err := p.templates.MarkGenerated(ctx, t.ID, period); err != nil {
				p.logger.ErrorContext(ctx, "şablon dönemi işaretlenemedi",
					"template_id", t.ID, "period", period, "error", err)
			}
			continue
		}

		tx, err := p.ledger.Create(ctx, templateInput(t, due))
		if err != nil {
			p.logger.ErrorContext(ctx, "şablondan işlem oluşturulamadı",
				"template_id", t.ID, "name", t.Name, "error", err)
			continue
		}
		if err := p.templates.MarkGenerated(ctx, t.ID, period); err != nil {
			p.logger.ErrorContext(ctx, "şablon dönemi işaretlenemedi",
				"template_id", t.ID, "period", period, "error", err)
		}
		created++
		p.logger.InfoContext(ctx, "tekrarlayan işlem oluşturuldu",
			"template_id", t.ID, "transaction_id", tx.ID, "period", period, "amount_try", tx.AmountTRY)
	}

	p.logger.InfoContext(ctx, "tekrarlayan işlemler tamamlandı",
		"created", created, "checked", len(templates), "period", period)
	return created, nil
}

// DueDate: şablon günü, ayın son gününe kırpılır (31 -> 28/29/30).
func DueDate(now time.Time, day int) time.Time {
	if day < 1 {
		day = 1
	}
	last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, time.UTC)
}

func templateInput(t models.RecurringTemplate, date time.Time) ledger.TransactionInput {
	id := t.ID
	invoiced := t.Invoiced
	desc := t.Description
	if desc == "" {
		desc = t.Name
	}

	in := ledger.TransactionInput{
		Direction:           string(t.Direction),
		AmountOriginal:      money.RawFrom(t.Amount),
		OriginalCurrency:    money.TRY,
		VATRate:             money.RawFrom(t.VATRate),
		TransactionDate:     date.Format("2006-01-02"),
		Description:         desc,
		PaymentMethod:       t.PaymentMethod,
		CustomerID:          t.CustomerID,
		RecurringTemplateID: &id,
	}
	if t.Direction == models.DirectionIncome {
		in.ShouldInvoice = &invoiced
		in.IncomeType = t.IncomeType
	} else {
		in.HasInvoice = &invoiced
		in.ExpenseCategoryID = t.ExpenseCategoryID
	}
	return in
}
