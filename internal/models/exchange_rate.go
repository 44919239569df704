package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RateSourceManual = "manual"
	RateSourceTCMB   = "tcmb"
)

// ExchangeRate: (currency, rate_date) başına tek kayıt
type ExchangeRate struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Currency      string              `gorm:"size:3;not null;uniqueIndex:idx_exchange_rates_currency_date" json:"currency"`
	RateDate      time.Time           `gorm:"type:date;not null;uniqueIndex:idx_exchange_rates_currency_date" json:"rate_date"`
	BuyRate       decimal.NullDecimal `gorm:"type:numeric(12,4)" json:"buy_rate"`
	SellRate      decimal.NullDecimal `gorm:"type:numeric(12,4)" json:"sell_rate"`
	EffectiveRate decimal.Decimal     `gorm:"type:numeric(12,4);not null" json:"effective_rate"`
	Source        string              `gorm:"size:20;not null" json:"source"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (r *ExchangeRate) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
