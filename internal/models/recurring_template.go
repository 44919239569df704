package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecurringTemplate: her ay otomatik oluşturulan işlem şablonu (kira, hat faturası vb.)
type RecurringTemplate struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"size:150;not null" json:"name"`
	Direction   Direction       `gorm:"size:10;not null" json:"direction"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"` // TRY
	Description string          `gorm:"size:500" json:"description"`

	ExpenseCategoryID *uuid.UUID `gorm:"type:uuid" json:"expense_category_id"`
	IncomeType        string     `gorm:"size:30" json:"income_type"`
	CustomerID        *uuid.UUID `gorm:"type:uuid" json:"customer_id"`
	PaymentMethod     string     `gorm:"size:30" json:"payment_method"`

	Invoiced   bool            `gorm:"not null" json:"invoiced"` // gelirde should_invoice, giderde has_invoice
	VATRate    decimal.Decimal `gorm:"column:vat_rate;type:numeric(5,2);not null" json:"vat_rate"`
	DayOfMonth int             `gorm:"not null" json:"day_of_month"` // 1-31, kısa aylarda ay sonuna çekilir

	IsActive            bool   `gorm:"not null;index" json:"is_active"`
	LastGeneratedPeriod string `gorm:"size:7" json:"last_generated_period"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *RecurringTemplate) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
