package ledger

import (
	"context"
	"testing"
	"time"

	"guvenlik-backend/internal/database/dbtest"
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSubscription(t *testing.T, db *gorm.DB, customer uuid.UUID, payments ...models.SubscriptionPayment) {
	t.Helper()
	sub := models.Subscription{
		CustomerID:  customer,
		Status:      models.SubscriptionActive,
		MonthlyFee:  dec("500"),
		MonthlyCost: dec("120"),
		StartDate:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&sub).Error)
	for i := range payments {
		payments[i].SubscriptionID = sub.ID
		require.NoError(t, db.Create(&payments[i]).Error)
	}
}

func TestFactsFromTransactionsAndSubscriptions(t *testing.T) {
	db := dbtest.New(t)
	store := NewTransactionStore(db)
	facts := NewFactStore(db)
	ctx := context.Background()

	simOperator := category(t, db, models.CategoryCodeSIMOperator)
	customer := uuid.New()

	mustInsert(t, store, NormalizeQuickIncome, TransactionInput{
		AmountOriginal: money.Raw("1000"), ShouldInvoice: yes(), COGSTRY: money.Raw("400"),
		TransactionDate: "2024-01-15", CustomerID: &customer,
	})
	mustInsert(t, store, NormalizeQuickIncome, TransactionInput{
		AmountOriginal: money.Raw("80"), IncomeType: models.IncomeTypeSIMRental, TransactionDate: "2024-01-20",
	})
	mustInsert(t, store, NormalizeQuickExpense, TransactionInput{
		AmountOriginal: money.Raw("30"), HasInvoice: yes(), ExpenseCategoryID: &simOperator.ID, TransactionDate: "2024-01-25",
	})
	mustInsert(t, store, NormalizeQuickExpense, TransactionInput{
		AmountOriginal: money.Raw("200"), TransactionDate: "2024-02-02",
	})

	seedSubscription(t, db, customer,
		models.SubscriptionPayment{
			Period: "2024-01", PeriodDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			AmountTRY: dec("500"), OutputVAT: money.Null(dec("100")), ShouldInvoice: true,
			CostTRY: dec("120"), Status: models.PaymentPaid,
		},
		models.SubscriptionPayment{
			Period: "2024-02", PeriodDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			AmountTRY: dec("500"), CostTRY: dec("120"), Status: models.PaymentPending,
		},
	)

	all, err := facts.Facts(ctx, FactFilter{})
	require.NoError(t, err)
	require.Len(t, all, 6, "4 transactions + subscription revenue + subscription cogs; pending payment skipped")

	byType := map[string]models.ProfitAndLossFact{}
	for _, f := range all {
		byType[f.SourceType] = f
	}
	assert.True(t, dec("1000").Equal(byType[models.IncomeTypeDefault].AmountTRY))
	assert.True(t, dec("400").Equal(byType[models.IncomeTypeDefault].COGSTRY.Decimal))
	assert.True(t, byType[models.IncomeTypeDefault].IsOfficial)
	assert.True(t, dec("-30").Equal(byType[models.CategoryCodeSIMOperator].AmountTRY))
	assert.True(t, dec("6").Equal(byType[models.CategoryCodeSIMOperator].InputVAT.Decimal))
	assert.True(t, dec("80").Equal(byType[models.IncomeTypeSIMRental].AmountTRY))
	assert.True(t, dec("-200").Equal(byType[models.CategoryCodeDefault].AmountTRY))
	assert.True(t, dec("500").Equal(byType[models.SourceSubscription].AmountTRY))
	assert.True(t, dec("-120").Equal(byType[models.SourceSubscriptionCOGS].AmountTRY))
	assert.Equal(t, &customer, byType[models.SourceSubscription].CustomerID)

	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Period, all[i].Period)
	}

	jan, err := facts.Facts(ctx, FactFilter{Periods: []string{"2024-01"}})
	require.NoError(t, err)
	assert.Len(t, jan, 5)

	official, err := facts.Facts(ctx, FactFilter{ViewMode: ViewOfficial})
	require.NoError(t, err)
	assert.Len(t, official, 4)
	for _, f := range official {
		assert.True(t, f.IsOfficial)
	}

	unofficial, err := facts.Facts(ctx, FactFilter{ViewMode: ViewUnofficial})
	require.NoError(t, err)
	assert.Len(t, unofficial, 2)

	mine, err := facts.Facts(ctx, FactFilter{CustomerID: &customer})
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	sims, err := facts.Facts(ctx, FactFilter{SourceType: models.IncomeTypeSIMRental})
	require.NoError(t, err)
	require.Len(t, sims, 1)
}

func TestSubscriptionFactsWithoutCost(t *testing.T) {
	p := &models.SubscriptionPayment{
		ID: uuid.New(), Period: "2024-04", PeriodDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		AmountTRY: dec("250"), ShouldInvoice: true, CostTRY: decimal.Zero,
	}
	out := SubscriptionFacts(p)
	require.Len(t, out, 1)
	assert.True(t, out[0].OutputVAT.Valid)
	assert.True(t, out[0].OutputVAT.Decimal.IsZero())
	assert.Nil(t, out[0].CustomerID)
}

func TestLastPeriods(t *testing.T) {
	end := time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"2023-11", "2023-12", "2024-01", "2024-02"}, LastPeriods(end, 4))
	assert.Nil(t, LastPeriods(end, 0))

	_, err := ParsePeriod("2024-13")
	assert.Error(t, err)
	_, err = ParsePeriod("2024-1")
	assert.Error(t, err)
	p, err := ParsePeriod("2024-07")
	require.NoError(t, err)
	assert.Equal(t, time.July, p.Month())
}
