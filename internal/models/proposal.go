package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Proposal: teklif (burada yalnızca maliyet hesabı için okunur)
type Proposal struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID *uuid.UUID     `gorm:"type:uuid;index" json:"customer_id"`
	SiteID     *uuid.UUID     `gorm:"type:uuid" json:"site_id"`
	Title      string         `gorm:"size:200" json:"title"`
	Currency   string         `gorm:"size:3;not null" json:"currency"`
	Status     string         `gorm:"size:20" json:"status"`
	Items      []ProposalItem `json:"items,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// ProposalItem: eski kayıtlarda cost_usd / unit_price_usd, yenilerde cost / unit_price dolu.
type ProposalItem struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	ProposalID  uuid.UUID           `gorm:"type:uuid;index;not null" json:"proposal_id"`
	Description string              `gorm:"size:300" json:"description"`
	Quantity    decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"quantity"`

	UnitPrice    decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"unit_price"`
	UnitPriceUSD decimal.NullDecimal `gorm:"column:unit_price_usd;type:numeric(14,2)" json:"unit_price_usd"`
	Cost         decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"cost"`
	CostUSD      decimal.NullDecimal `gorm:"column:cost_usd;type:numeric(14,2)" json:"cost_usd"`

	// detaylı maliyet kalemleri
	ProductCost  decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"product_cost"`
	LaborCost    decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"labor_cost"`
	ShippingCost decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"shipping_cost"`
	MaterialCost decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"material_cost"`
	MiscCost     decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"misc_cost"`

	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *ProposalItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
