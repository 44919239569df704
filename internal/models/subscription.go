package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	SubscriptionActive    = "active"
	SubscriptionPaused    = "paused"
	SubscriptionCancelled = "cancelled"

	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Subscription: aylık izleme / bakım aboneliği
type Subscription struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;index;not null" json:"customer_id"`
	SiteID      *uuid.UUID      `gorm:"type:uuid" json:"site_id"`
	Status      string          `gorm:"size:20;index;not null" json:"status"`
	MonthlyFee  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"monthly_fee"`
	MonthlyCost decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"monthly_cost"`
	StartDate   time.Time       `gorm:"type:date;not null" json:"start_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// SubscriptionPayment: bir dönemin tahsilatı; yalnızca "paid" olanlar P&L'e girer
type SubscriptionPayment struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	SubscriptionID uuid.UUID           `gorm:"type:uuid;index;not null" json:"subscription_id"`
	Subscription   Subscription        `json:"-"`
	Period         string              `gorm:"size:7;not null;index" json:"period"`
	PeriodDate     time.Time           `gorm:"type:date;not null" json:"period_date"`
	AmountTRY      decimal.Decimal     `gorm:"column:amount_try;type:numeric(14,2);not null" json:"amount_try"`
	OutputVAT      decimal.NullDecimal `gorm:"column:output_vat;type:numeric(14,2)" json:"output_vat"`
	ShouldInvoice  bool                `gorm:"not null" json:"should_invoice"`
	CostTRY        decimal.Decimal     `gorm:"column:cost_try;type:numeric(14,2);not null" json:"cost_try"`
	Status         string              `gorm:"size:20;index;not null" json:"status"`
	PaidAt         *time.Time          `json:"paid_at"`
	CreatedAt      time.Time           `json:"created_at"`
}

func (p *SubscriptionPayment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
