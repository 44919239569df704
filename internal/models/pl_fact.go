package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fact kaynak tipleri (gelir tipleri ve kategori kodlarına ek olarak)
const (
	SourceSubscription     = "subscription"
	SourceSubscriptionCOGS = "subscription_cogs"
)

// ProfitAndLossFact: raporların ortak girdisi, tablo değil (ledger.FactStore üretir).
// AmountTRY gelirde pozitif, giderde negatif.
type ProfitAndLossFact struct {
	Period     string              `json:"period"`
	PeriodDate time.Time           `json:"period_date"`
	Direction  Direction           `json:"direction"`
	AmountTRY  decimal.Decimal     `json:"amount_try"`
	COGSTRY    decimal.NullDecimal `json:"cogs_try"`
	OutputVAT  decimal.NullDecimal `json:"output_vat"`
	InputVAT   decimal.NullDecimal `json:"input_vat"`
	IsOfficial bool                `json:"is_official"`
	SourceType string              `json:"source_type"`
	SourceID   uuid.UUID           `json:"source_id"`
	CustomerID *uuid.UUID          `json:"customer_id"`
	CategoryID *uuid.UUID          `json:"category_id"`
	CreatedAt  time.Time           `json:"created_at"`
}
