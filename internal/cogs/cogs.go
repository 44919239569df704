// Package cogs teklif kalemlerinden satılan malın maliyetini (SMM) hesaplar.
package cogs

import (
	"guvenlik-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Item is the canonical cost shape of a proposal line. Missing values are zero.
type Item struct {
	Quantity decimal.Decimal
	Cost     decimal.Decimal

	ProductCost  decimal.Decimal
	LaborCost    decimal.Decimal
	ShippingCost decimal.Decimal
	MaterialCost decimal.Decimal
	MiscCost     decimal.Decimal
}

// NormalizeItem maps legacy and current column names once, at ingestion:
// cost <- cost else cost_usd. A missing or zero quantity counts as 1.
func NormalizeItem(rec models.ProposalItem) Item {
	qty := firstSet(rec.Quantity)
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	return Item{
		Quantity:     qty,
		Cost:         firstSet(rec.Cost, rec.CostUSD),
		ProductCost:  firstSet(rec.ProductCost),
		LaborCost:    firstSet(rec.LaborCost),
		ShippingCost: firstSet(rec.ShippingCost),
		MaterialCost: firstSet(rec.MaterialCost),
		MiscCost:     firstSet(rec.MiscCost),
	}
}

// NormalizeItems is NormalizeItem over a slice.
func NormalizeItems(recs []models.ProposalItem) []Item {
	items := make([]Item, 0, len(recs))
	for _, r := range recs {
		items = append(items, NormalizeItem(r))
	}
	return items
}

// firstSet returns the first non-null value, or zero.
func firstSet(values ...decimal.NullDecimal) decimal.Decimal {
	for _, v := range values {
		if v.Valid {
			return v.Decimal
		}
	}
	return decimal.Zero
}

// HasDetail reports whether any granular cost is non-zero.
func (it Item) HasDetail() bool {
	for _, c := range it.granular() {
		if !c.IsZero() {
			return true
		}
	}
	return false
}

func (it Item) granular() []decimal.Decimal {
	return []decimal.Decimal{it.ProductCost, it.LaborCost, it.ShippingCost, it.MaterialCost, it.MiscCost}
}

// UnitCost: detay varsa beş kalemin toplamı, yoksa tek "cost" alanı.
func (it Item) UnitCost() decimal.Decimal {
	if !it.HasDetail() {
		return it.Cost
	}
	sum := decimal.Zero
	for _, c := range it.granular() {
		sum = sum.Add(c)
	}
	return sum
}

// Total returns unit cost times quantity; a zero quantity counts as 1,
// a negative one is used as is.
func (it Item) Total() decimal.Decimal {
	qty := it.Quantity
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	return it.UnitCost().Mul(qty)
}

// ComputeCOGS sums item totals. The detail-or-fallback choice is made per item.
func ComputeCOGS(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Total())
	}
	return total
}
