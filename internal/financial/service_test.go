package financial

import (
	"context"
	"errors"
	"testing"
	"time"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/database/dbtest"
	"guvenlik-backend/internal/ledger"
	"guvenlik-backend/internal/log"
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/money"
	"guvenlik-backend/internal/subscription"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func yes() *bool { b := true; return &b }

// seedLedger: Ocak ve Şubat 2024 için örnek kayıtlar.
func seedLedger(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := dbtest.New(t)
	logger := log.Discard()
	txs := ledger.NewTransactionStore(db)
	ledgerSvc := ledger.NewService(txs, nil, logger)
	ctx := context.Background()

	var rent, simOp models.ExpenseCategory
	require.NoError(t, db.Where("code = ?", "rent").First(&rent).Error)
	require.NoError(t, db.Where("code = ?", models.CategoryCodeSIMOperator).First(&simOp).Error)

	inputs := []struct {
		fn func(context.Context, ledger.TransactionInput) (*models.FinancialTransaction, error)
		in ledger.TransactionInput
	}{
		{ledgerSvc.CreateQuickIncome, ledger.TransactionInput{AmountOriginal: money.Raw("1000"), ShouldInvoice: yes(), COGSTRY: money.Raw("400"), TransactionDate: "2024-01-10"}},
		{ledgerSvc.CreateQuickIncome, ledger.TransactionInput{AmountOriginal: money.Raw("100"), IncomeType: models.IncomeTypeSIMRental, TransactionDate: "2024-01-12"}},
		{ledgerSvc.CreateQuickExpense, ledger.TransactionInput{AmountOriginal: money.Raw("200"), HasInvoice: yes(), ExpenseCategoryID: &rent.ID, TransactionDate: "2024-01-15"}},
		{ledgerSvc.CreateQuickExpense, ledger.TransactionInput{AmountOriginal: money.Raw("40"), ExpenseCategoryID: &simOp.ID, TransactionDate: "2024-01-20"}},
		{ledgerSvc.CreateQuickExpense, ledger.TransactionInput{AmountOriginal: money.Raw("60"), ExpenseCategoryID: &rent.ID, TransactionDate: "2024-02-01"}},
		{ledgerSvc.CreateQuickExpense, ledger.TransactionInput{AmountOriginal: money.Raw("25"), TransactionDate: "2024-02-03"}},
	}
	for _, s := range inputs {
		_, err := s.fn(ctx, s.in)
		require.NoError(t, err)
	}

	sub := models.Subscription{
		CustomerID: uuid.New(), Status: models.SubscriptionActive,
		MonthlyFee: d("500"), MonthlyCost: d("100"), StartDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&sub).Error)
	require.NoError(t, db.Create(&models.SubscriptionPayment{
		SubscriptionID: sub.ID, Period: "2024-01", PeriodDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		AmountTRY: d("500"), OutputVAT: money.Null(d("100")), ShouldInvoice: true, CostTRY: d("100"), Status: models.PaymentPaid,
	}).Error)

	svc := NewService(ledger.NewFactStore(db), txs, subscription.NewStatsSource(db), logger)
	return svc, db
}

func TestServiceProfitLoss(t *testing.T) {
	svc, _ := seedLedger(t)
	ctx := context.Background()

	jan, err := svc.ProfitLoss(ctx, PeriodSelector{Token: "2024-01", Type: PeriodMonth, Months: []string{"2024-01"}}, ledger.ViewTotal)
	require.NoError(t, err)
	assertDec(t, "1600", jan.Revenue)
	assertDec(t, "400", jan.COGS)
	assertDec(t, "340", jan.Expenses)
	assertDec(t, "860", jan.NetProfit)

	q1, err := ParsePeriodSelector("2024-Q1", "")
	require.NoError(t, err)
	all, err := svc.ProfitLoss(ctx, q1, ledger.ViewOfficial)
	require.NoError(t, err)
	assertDec(t, "1500", all.Revenue)
	assertDec(t, "300", all.Expenses)

	rows, err := svc.ProfitLossByPeriod(ctx, PeriodSelector{}, ledger.ViewTotal)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assertDec(t, "-85", rows[1].NetProfit)
}

func TestServiceCategoriesAndVAT(t *testing.T) {
	svc, _ := seedLedger(t)
	ctx := context.Background()

	groups, err := svc.Categories(ctx, "", ledger.ViewTotal)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "Kira", groups[0].CategoryName)
	assertDec(t, "260", groups[0].Total)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, "Operatör Faturası", groups[1].CategoryName)
	assert.Equal(t, UncategorizedLabel, groups[2].CategoryName)

	vat, err := svc.VAT(ctx, VATQuery{Period: mustSelector(t, "2024-Q1", PeriodQuarter)})
	require.NoError(t, err)
	require.Len(t, vat, 1)
	assertDec(t, "300", vat[0].OutputVAT)
	assertDec(t, "40", vat[0].InputVAT)
	assertDec(t, "260", vat[0].NetVAT)

	empty, err := svc.VAT(ctx, VATQuery{Period: mustSelector(t, "2024-Q2", PeriodQuarter)})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestServiceKPIsAndTrend(t *testing.T) {
	svc, _ := seedLedger(t)
	ctx := context.Background()

	k, err := svc.KPIs(ctx, mustSelector(t, "2024-01", PeriodMonth), ledger.ViewTotal)
	require.NoError(t, err)
	assertDec(t, "500", k.MRR)
	assertDec(t, "500", k.ARPC)
	assertDec(t, "60", k.SIMNetProfit)
	assertDec(t, "400", k.SubscriptionNetProfit)
	assertDec(t, "1260", k.NetProfit)
	assertDec(t, "260", k.VATPayable)
	assertDec(t, "25", k.MaterialCostPct.Decimal)

	trend, err := svc.Trend(ctx, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), 4, ledger.ViewTotal)
	require.NoError(t, err)
	require.Len(t, trend.Periods, 4)
	assert.Equal(t, "2023-12", trend.Periods[0].Period)
	assert.True(t, trend.Periods[0].Revenue.IsZero())
	assertDec(t, "1600", trend.Periods[1].Revenue)
	assert.True(t, trend.Periods[3].Expenses.IsZero())
}

type failingStats struct{}

func (failingStats) Stats(ctx context.Context) (subscription.Stats, error) {
	return subscription.Stats{}, apperr.Query("stats", errors.New("connection refused"))
}

func TestServiceKPIsPropagatesQueryFailure(t *testing.T) {
	db := dbtest.New(t)
	svc := NewService(ledger.NewFactStore(db), ledger.NewTransactionStore(db), failingStats{}, log.Discard())
	_, err := svc.KPIs(context.Background(), PeriodSelector{}, ledger.ViewTotal)
	assert.True(t, apperr.IsQuery(err))
}

type staticFacts []models.ProfitAndLossFact

func (f staticFacts) Facts(context.Context, ledger.FactFilter) ([]models.ProfitAndLossFact, error) {
	return f, nil
}

func TestTrendTotalsRoundOnce(t *testing.T) {
	facts := staticFacts{
		{Period: "2024-01", AmountTRY: d("0.005")},
		{Period: "2024-02", AmountTRY: d("0.005")},
		{Period: "2024-03", AmountTRY: d("0.005")},
	}
	svc := NewService(facts, nil, nil, log.Discard())

	trend, err := svc.Trend(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 3, ledger.ViewTotal)
	require.NoError(t, err)
	require.Len(t, trend.Periods, 3)
	for _, p := range trend.Periods {
		assertDec(t, "0.01", p.Revenue)
	}
	// 0.015 -> 0.02; ayların yuvarlanmış toplamı 0.03 olurdu
	assertDec(t, "0.02", trend.Totals.Revenue)
	assertDec(t, "0.02", trend.Totals.NetProfit)
}
