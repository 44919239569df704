package ledger

import (
	"context"
	"sort"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FactFilter struct {
	Periods    []string // boşsa tüm dönemler
	ViewMode   ViewMode
	CustomerID *uuid.UUID
	SourceType string
}

// FactReader is the read-only P&L feed every report is built from.
type FactReader interface {
	Facts(ctx context.Context, f FactFilter) ([]models.ProfitAndLossFact, error)
}

// GormFactStore builds facts from financial_transactions and paid
// subscription_payments.
type GormFactStore struct {
	db *gorm.DB
}

func NewFactStore(db *gorm.DB) *GormFactStore {
	return &GormFactStore{db: db}
}

func (s *GormFactStore) Facts(ctx context.Context, f FactFilter) ([]models.ProfitAndLossFact, error) {
	txFacts, err := s.transactionFacts(ctx, f)
	if err != nil {
		return nil, err
	}
	subFacts, err := s.subscriptionFacts(ctx, f)
	if err != nil {
		return nil, err
	}

	facts := make([]models.ProfitAndLossFact, 0, len(txFacts)+len(subFacts))
	for _, fact := range append(txFacts, subFacts...) {
		if f.SourceType != "" && fact.SourceType != f.SourceType {
			continue
		}
		facts = append(facts, fact)
	}
	sort.SliceStable(facts, func(i, j int) bool {
		if facts[i].Period != facts[j].Period {
			return facts[i].Period < facts[j].Period
		}
		return facts[i].CreatedAt.Before(facts[j].CreatedAt)
	})
	return facts, nil
}

func (s *GormFactStore) transactionFacts(ctx context.Context, f FactFilter) ([]models.ProfitAndLossFact, error) {
	q := s.db.WithContext(ctx).Model(&models.FinancialTransaction{}).Preload("ExpenseCategory")
	if len(f.Periods) > 0 {
		q = q.Where("period IN ?", f.Periods)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	q = whereInvoiced(q, f.ViewMode)

	var rows []models.FinancialTransaction
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperr.Query("transaction facts", err)
	}

	facts := make([]models.ProfitAndLossFact, 0, len(rows))
	for i := range rows {
		facts = append(facts, TransactionFact(&rows[i]))
	}
	return facts, nil
}

// TransactionFact maps one transaction to its P&L row. Expense amounts are negated.
func TransactionFact(tx *models.FinancialTransaction) models.ProfitAndLossFact {
	fact := models.ProfitAndLossFact{
		Period:     tx.Period,
		PeriodDate: firstOfMonth(tx.TransactionDate),
		Direction:  tx.Direction,
		IsOfficial: tx.IsOfficial(),
		SourceID:   tx.ID,
		CustomerID: tx.CustomerID,
		CreatedAt:  tx.CreatedAt,
	}
	if tx.Direction == models.DirectionIncome {
		fact.AmountTRY = tx.AmountTRY
		fact.COGSTRY = tx.COGSTRY
		fact.OutputVAT = tx.OutputVAT
		fact.SourceType = tx.IncomeType
		if fact.SourceType == "" {
			fact.SourceType = models.IncomeTypeDefault
		}
		return fact
	}

	fact.AmountTRY = tx.AmountTRY.Abs().Neg()
	fact.InputVAT = tx.InputVAT
	fact.CategoryID = tx.ExpenseCategoryID
	fact.SourceType = models.CategoryCodeDefault
	if tx.ExpenseCategory != nil && tx.ExpenseCategory.Code != "" {
		fact.SourceType = tx.ExpenseCategory.Code
	}
	return fact
}

func (s *GormFactStore) subscriptionFacts(ctx context.Context, f FactFilter) ([]models.ProfitAndLossFact, error) {
	q := s.db.WithContext(ctx).
		Model(&models.SubscriptionPayment{}).
		Preload("Subscription").
		Joins("JOIN subscriptions ON subscriptions.id = subscription_payments.subscription_id").
		Where("subscription_payments.status = ?", models.PaymentPaid)
	if len(f.Periods) > 0 {
		q = q.Where("subscription_payments.period IN ?", f.Periods)
	}
	if f.CustomerID != nil {
		q = q.Where("subscriptions.customer_id = ?", *f.CustomerID)
	}
	switch f.ViewMode {
	case ViewOfficial:
		q = q.Where("subscription_payments.should_invoice = ?", true)
	case ViewUnofficial:
		q = q.Where("subscription_payments.should_invoice = ?", false)
	}

	var rows []models.SubscriptionPayment
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperr.Query("subscription facts", err)
	}

	facts := make([]models.ProfitAndLossFact, 0, len(rows)*2)
	for i := range rows {
		facts = append(facts, SubscriptionFacts(&rows[i])...)
	}
	return facts, nil
}

// SubscriptionFacts: tahsilat geliri ve (maliyet varsa) abonelik maliyeti satırı.
func SubscriptionFacts(p *models.SubscriptionPayment) []models.ProfitAndLossFact {
	customer := p.Subscription.CustomerID
	var customerID *uuid.UUID
	if customer != uuid.Nil {
		customerID = &customer
	}

	revenue := models.ProfitAndLossFact{
		Period:     p.Period,
		PeriodDate: firstOfMonth(p.PeriodDate),
		Direction:  models.DirectionIncome,
		AmountTRY:  p.AmountTRY,
		IsOfficial: p.ShouldInvoice,
		SourceType: models.SourceSubscription,
		SourceID:   p.ID,
		CustomerID: customerID,
		CreatedAt:  p.CreatedAt,
	}
	if p.ShouldInvoice {
		vat := p.OutputVAT
		if !vat.Valid {
			vat = money.Null(decimal.Zero)
		}
		revenue.OutputVAT = vat
	}
	out := []models.ProfitAndLossFact{revenue}

	if p.CostTRY.IsPositive() {
		out = append(out, models.ProfitAndLossFact{
			Period:     p.Period,
			PeriodDate: revenue.PeriodDate,
			Direction:  models.DirectionExpense,
			AmountTRY:  p.CostTRY.Neg(),
			IsOfficial: p.ShouldInvoice,
			SourceType: models.SourceSubscriptionCOGS,
			SourceID:   p.ID,
			CustomerID: customerID,
			CreatedAt:  p.CreatedAt,
		})
	}
	return out
}
