package ledger

import (
	"context"
	"testing"
	"time"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/database/dbtest"
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func category(t *testing.T, db *gorm.DB, code string) models.ExpenseCategory {
	t.Helper()
	var c models.ExpenseCategory
	require.NoError(t, db.Where("code = ?", code).First(&c).Error)
	return c
}

func mustInsert(t *testing.T, store *GormTransactionStore, fn func(TransactionInput) (*models.FinancialTransaction, error), in TransactionInput) *models.FinancialTransaction {
	t.Helper()
	tx, err := fn(in)
	require.NoError(t, err)
	require.NoError(t, store.Insert(context.Background(), tx))
	return tx
}

func TestStoreCRUD(t *testing.T) {
	db := dbtest.New(t)
	store := NewTransactionStore(db)
	ctx := context.Background()

	tx := mustInsert(t, store, NormalizeQuickIncome, TransactionInput{
		AmountOriginal: money.Raw("1500.75"), ShouldInvoice: yes(), TransactionDate: "2024-05-10",
	})
	assert.NotEqual(t, uuid.Nil, tx.ID)

	got, err := store.Get(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, dec("1500.75").Equal(got.AmountTRY))
	assert.Equal(t, "2024-05", got.Period)
	require.NotNil(t, got.ShouldInvoice)
	assert.True(t, *got.ShouldInvoice)
	assert.Nil(t, got.HasInvoice)
	assert.True(t, dec("300.15").Equal(got.OutputVAT.Decimal))
	assert.False(t, got.InputVAT.Valid)

	updated, err := NormalizeGeneral(TransactionInput{
		Direction: "income", AmountOriginal: money.Raw("100"), ShouldInvoice: no(), TransactionDate: "2024-06-01",
	})
	require.NoError(t, err)
	updated.ID = tx.ID
	require.NoError(t, store.Update(ctx, updated))

	got, err = store.Get(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-06", got.Period)
	assert.False(t, got.OutputVAT.Valid, "update must clear VAT")
	assert.False(t, *got.ShouldInvoice)

	require.NoError(t, store.Delete(ctx, tx.ID))
	_, err = store.Get(ctx, tx.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, apperr.IsNotFound(store.Delete(ctx, tx.ID)))

	missing := *updated
	missing.ID = uuid.New()
	assert.True(t, apperr.IsNotFound(store.Update(ctx, &missing)))
}

func TestStoreQueryFilters(t *testing.T) {
	db := dbtest.New(t)
	store := NewTransactionStore(db)
	ctx := context.Background()

	rent := category(t, db, "rent")
	customer := uuid.New()
	site := uuid.New()
	template := uuid.New()

	mustInsert(t, store, NormalizeQuickIncome, TransactionInput{
		AmountOriginal: money.Raw("1000"), ShouldInvoice: yes(), TransactionDate: "2024-01-05",
		CustomerID: &customer, SiteID: &site, PaymentMethod: "bank",
	})
	mustInsert(t, store, NormalizeQuickIncome, TransactionInput{
		AmountOriginal: money.Raw("300"), TransactionDate: "2024-01-20", PaymentMethod: "cash",
	})
	mustInsert(t, store, NormalizeQuickExpense, TransactionInput{
		AmountOriginal: money.Raw("400"), HasInvoice: yes(), TransactionDate: "2024-01-10",
		ExpenseCategoryID: &rent.ID, RecurringTemplateID: &template,
	})
	mustInsert(t, store, NormalizeQuickExpense, TransactionInput{
		AmountOriginal: money.Raw("50"), TransactionDate: "2024-02-01",
	})

	count := func(f TransactionFilter) int {
		rows, err := store.Query(ctx, f)
		require.NoError(t, err)
		return len(rows)
	}

	assert.Equal(t, 4, count(TransactionFilter{}))
	assert.Equal(t, 2, count(TransactionFilter{Direction: models.DirectionIncome}))
	assert.Equal(t, 3, count(TransactionFilter{Period: "2024-01"}))
	assert.Equal(t, 1, count(TransactionFilter{CustomerID: &customer}))
	assert.Equal(t, 1, count(TransactionFilter{SiteID: &site}))
	assert.Equal(t, 1, count(TransactionFilter{ExpenseCategoryID: &rent.ID}))
	assert.Equal(t, 1, count(TransactionFilter{PaymentMethod: "cash"}))
	assert.Equal(t, 1, count(TransactionFilter{RecurringOnly: true}))
	assert.Equal(t, 2, count(TransactionFilter{ViewMode: ViewOfficial}))
	assert.Equal(t, 2, count(TransactionFilter{ViewMode: ViewUnofficial}))
	assert.Equal(t, 1, count(TransactionFilter{ViewMode: ViewOfficial, Direction: models.DirectionExpense}))

	unknown := uuid.New()
	assert.Equal(t, 0, count(TransactionFilter{CustomerID: &unknown}), "unmatched key is empty, not an error")

	rows, err := store.Query(ctx, TransactionFilter{ExpenseCategoryID: &rent.ID})
	require.NoError(t, err)
	require.NotNil(t, rows[0].ExpenseCategory)
	assert.Equal(t, "rent", rows[0].ExpenseCategory.Code)
}

func TestStoreQueryOrder(t *testing.T) {
	db := dbtest.New(t)
	store := NewTransactionStore(db)

	first := mustInsert(t, store, NormalizeQuickIncome, TransactionInput{AmountOriginal: money.Raw("1"), TransactionDate: "2024-03-01"})
	time.Sleep(5 * time.Millisecond)
	second := mustInsert(t, store, NormalizeQuickIncome, TransactionInput{AmountOriginal: money.Raw("2"), TransactionDate: "2024-03-01"})
	newest := mustInsert(t, store, NormalizeQuickIncome, TransactionInput{AmountOriginal: money.Raw("3"), TransactionDate: "2024-03-15"})
	oldest := mustInsert(t, store, NormalizeQuickIncome, TransactionInput{AmountOriginal: money.Raw("4"), TransactionDate: "2024-02-28"})

	rows, err := store.Query(context.Background(), TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []uuid.UUID{newest.ID, second.ID, first.ID, oldest.ID},
		[]uuid.UUID{rows[0].ID, rows[1].ID, rows[2].ID, rows[3].ID})
}

func TestParseViewMode(t *testing.T) {
	m, err := ParseViewMode("")
	require.NoError(t, err)
	assert.Equal(t, ViewTotal, m)

	m, err = ParseViewMode("unofficial")
	require.NoError(t, err)
	assert.True(t, m.Includes(false))
	assert.False(t, m.Includes(true))

	_, err = ParseViewMode("draft")
	assert.True(t, apperr.IsValidation(err))
}
