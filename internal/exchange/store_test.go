package exchange

import (
	"context"
	"testing"
	"time"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/database/dbtest"
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, dd int) time.Time { return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC) }

func TestInsertDuplicateIsConflict(t *testing.T) {
	store := NewRateStore(dbtest.New(t))
	ctx := context.Background()

	first := &models.ExchangeRate{Currency: "usd", RateDate: day(2024, 6, 1), EffectiveRate: d("32.1234"), Source: models.RateSourceManual}
	require.NoError(t, store.Insert(ctx, first))
	assert.Equal(t, "USD", first.Currency)

	err := store.Insert(ctx, &models.ExchangeRate{Currency: "USD", RateDate: day(2024, 6, 1), EffectiveRate: d("33"), Source: models.RateSourceManual})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Contains(t, err.Error(), "USD/2024-06-01")
}

func TestUpsertKeepsOneRowPerDay(t *testing.T) {
	db := dbtest.New(t)
	store := NewRateStore(db)
	ctx := context.Background()

	for _, rate := range []string{"32.10", "32.55"} {
		require.NoError(t, store.Upsert(ctx, &models.ExchangeRate{
			Currency: "USD", RateDate: day(2024, 6, 1), BuyRate: money.Null(d(rate)),
			EffectiveRate: d(rate), Source: models.RateSourceTCMB,
		}))
	}

	var count int64
	require.NoError(t, db.Model(&models.ExchangeRate{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	r, err := store.OnDate(ctx, "usd", day(2024, 6, 1))
	require.NoError(t, err)
	assert.True(t, d("32.55").Equal(r.EffectiveRate), r.EffectiveRate.String())
}

func TestLatestAndList(t *testing.T) {
	store := NewRateStore(dbtest.New(t))
	ctx := context.Background()

	_, err := store.Latest(ctx, "USD")
	assert.True(t, apperr.IsNotFound(err))

	rows := []models.ExchangeRate{
		{Currency: "USD", RateDate: day(2024, 5, 31), EffectiveRate: d("32.00")},
		{Currency: "USD", RateDate: day(2024, 6, 3), EffectiveRate: d("32.40")},
		{Currency: "EUR", RateDate: day(2024, 6, 4), EffectiveRate: d("35.00")},
	}
	for i := range rows {
		rows[i].Source = models.RateSourceManual
		require.NoError(t, store.Insert(ctx, &rows[i]))
	}

	latest, err := store.Latest(ctx, "usd")
	require.NoError(t, err)
	assert.Equal(t, day(2024, 6, 3), latest.RateDate.UTC())

	all, err := store.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "EUR", all[0].Currency)

	usd, err := store.List(ctx, "USD", 1)
	require.NoError(t, err)
	require.Len(t, usd, 1)
	assert.True(t, d("32.40").Equal(usd[0].EffectiveRate))

	_, err = store.OnDate(ctx, "USD", day(2024, 6, 1))
	assert.True(t, apperr.IsNotFound(err))
}
