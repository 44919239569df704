package exchange

import (
	"context"
	"errors"
	"strings"
	"time"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultListLimit = 30
	maxListLimit     = 365
)

// GormRateStore persists exchange_rates; (currency, rate_date) is unique.
type GormRateStore struct {
	db *gorm.DB
}

func NewRateStore(db *gorm.DB) *GormRateStore {
	return &GormRateStore{db: db}
}

func rateKey(currency string, date time.Time) string {
	return currency + "/" + date.Format("2006-01-02")
}

// Insert fails with a ConflictError when the day is already recorded.
func (s *GormRateStore) Insert(ctx context.Context, r *models.ExchangeRate) error {
	r.Currency = strings.ToUpper(r.Currency)
	r.RateDate = dayOf(r.RateDate)

	err := s.db.WithContext(ctx).Create(r).Error
	if apperr.IsDuplicateKey(err) {
		return &apperr.ConflictError{Entity: "exchange_rate", Key: rateKey(r.Currency, r.RateDate), Err: err}
	}
	return apperr.Query("insert exchange rate", err)
}

// Upsert writes the row or overwrites the rates of an existing day.
func (s *GormRateStore) Upsert(ctx context.Context, r *models.ExchangeRate) error {
	r.Currency = strings.ToUpper(r.Currency)
	r.RateDate = dayOf(r.RateDate)

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "currency"}, {Name: "rate_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"buy_rate", "sell_rate", "effective_rate", "source", "updated_at"}),
		}).
		Create(r).Error
	return apperr.Query("upsert exchange rate", err)
}

// Latest returns the most recent rate for currency.
func (s *GormRateStore) Latest(ctx context.Context, currency string) (*models.ExchangeRate, error) {
	currency = strings.ToUpper(currency)
	var r models.ExchangeRate
	err := s.db.WithContext(ctx).
		Where("currency = ?", currency).
		Order("rate_date DESC").
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Entity: "exchange_rate", ID: currency}
	}
	if err != nil {
		return nil, apperr.Query("latest exchange rate", err)
	}
	return &r, nil
}

func (s *GormRateStore) OnDate(ctx context.Context, currency string, date time.Time) (*models.ExchangeRate, error) {
	currency = strings.ToUpper(currency)
	date = dayOf(date)
	var r models.ExchangeRate
	err := s.db.WithContext(ctx).
		Where("currency = ? AND rate_date = ?", currency, date).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Entity: "exchange_rate", ID: rateKey(currency, date)}
	}
	if err != nil {
		return nil, apperr.Query("exchange rate on date", err)
	}
	return &r, nil
}

// List: en yeni kur önce. currency boşsa tüm dövizler.
func (s *GormRateStore) List(ctx context.Context, currency string, limit int) ([]models.ExchangeRate, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	q := s.db.WithContext(ctx).Model(&models.ExchangeRate{})
	if currency != "" {
		q = q.Where("currency = ?", strings.ToUpper(currency))
	}
	var rows []models.ExchangeRate
	if err := q.Order("rate_date DESC").Order("currency ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, apperr.Query("list exchange rates", err)
	}
	return rows, nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
