package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Direction string

const (
	DirectionIncome  Direction = "income"  // gelir
	DirectionExpense Direction = "expense" // gider
)

func (d Direction) Valid() bool {
	return d == DirectionIncome || d == DirectionExpense
}

// Gelir tipleri (income_type); P&L fact'lerinde source_type olarak da kullanılır.
const (
	IncomeTypeDefault   = "income"
	IncomeTypeSIMRental = "sim_rental"
	IncomeTypeService   = "service"
	IncomeTypeSale      = "sale"
)

// FinancialTransaction: tek bir para hareketi (gelir / gider)
type FinancialTransaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Direction Direction `gorm:"size:10;not null;index" json:"direction"`

	AmountOriginal   decimal.Decimal     `gorm:"type:numeric(14,2);not null" json:"amount_original"`
	OriginalCurrency string              `gorm:"size:3;not null" json:"original_currency"`
	ExchangeRate     decimal.NullDecimal `gorm:"type:numeric(12,4)" json:"exchange_rate"` // 1 birim döviz = ? TRY
	AmountTRY        decimal.Decimal     `gorm:"column:amount_try;type:numeric(14,2);not null" json:"amount_try"`

	// yalnızca yöne uygun olan dolu olur
	ShouldInvoice *bool `json:"should_invoice"` // gelir
	HasInvoice    *bool `json:"has_invoice"`    // gider

	VATRate   decimal.Decimal     `gorm:"column:vat_rate;type:numeric(5,2);not null" json:"vat_rate"`
	OutputVAT decimal.NullDecimal `gorm:"column:output_vat;type:numeric(14,2)" json:"output_vat"`
	InputVAT  decimal.NullDecimal `gorm:"column:input_vat;type:numeric(14,2)" json:"input_vat"`
	COGSTRY   decimal.NullDecimal `gorm:"column:cogs_try;type:numeric(14,2)" json:"cogs_try"`

	TransactionDate time.Time `gorm:"type:date;not null;index" json:"transaction_date"`
	Period          string    `gorm:"size:7;not null;index" json:"period"` // YYYY-MM

	Description   string `gorm:"size:500" json:"description"`
	PaymentMethod string `gorm:"size:30;index" json:"payment_method"`

	ExpenseCategoryID *uuid.UUID       `gorm:"type:uuid;index" json:"expense_category_id"`
	ExpenseCategory   *ExpenseCategory `json:"expense_category,omitempty"`
	IncomeType        string           `gorm:"size:30" json:"income_type"`

	CustomerID          *uuid.UUID `gorm:"type:uuid;index" json:"customer_id"`
	SiteID              *uuid.UUID `gorm:"type:uuid;index" json:"site_id"`
	ProposalID          *uuid.UUID `gorm:"type:uuid;index" json:"proposal_id"`
	WorkOrderID         *uuid.UUID `gorm:"type:uuid" json:"work_order_id"`
	RecurringTemplateID *uuid.UUID `gorm:"type:uuid;index" json:"recurring_template_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *FinancialTransaction) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// IsOfficial: faturalı mı (yöne göre should_invoice / has_invoice)
func (t *FinancialTransaction) IsOfficial() bool {
	flag := t.HasInvoice
	if t.Direction == DirectionIncome {
		flag = t.ShouldInvoice
	}
	return flag != nil && *flag
}
