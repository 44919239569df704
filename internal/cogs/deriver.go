package cogs

import (
	"context"
	"errors"
	"strings"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProposalItemReader reads the cost lines of a proposal.
type ProposalItemReader interface {
	ProposalItems(ctx context.Context, proposalID uuid.UUID) ([]models.ProposalItem, error)
}

// RateLookup returns the most recent stored rate for a currency.
type RateLookup interface {
	Latest(ctx context.Context, currency string) (*models.ExchangeRate, error)
}

// ToTRY converts a proposal-currency COGS total. A foreign total uses the
// transaction's own rate, else latest; with neither it fails.
func ToTRY(total decimal.Decimal, currency string, txRate, latest decimal.NullDecimal) (decimal.Decimal, error) {
	if strings.EqualFold(currency, money.TRY) {
		return money.Round2(total), nil
	}
	rate := txRate
	if !rate.Valid || !rate.Decimal.IsPositive() {
		rate = latest
	}
	return money.ToTRY(total, currency, rate)
}

// Deriver computes cogs_try for proposal-linked income.
type Deriver struct {
	items ProposalItemReader
	rates RateLookup
}

func NewDeriver(items ProposalItemReader, rates RateLookup) *Deriver {
	return &Deriver{items: items, rates: rates}
}

// Derive loads the proposal's items and returns their COGS in lira.
func (d *Deriver) Derive(ctx context.Context, proposalID uuid.UUID, currency string, txRate decimal.NullDecimal) (decimal.Decimal, error) {
	recs, err := d.items.ProposalItems(ctx, proposalID)
	if err != nil {
		return decimal.Zero, err
	}
	total := ComputeCOGS(NormalizeItems(recs))

	var latest decimal.NullDecimal
	if !strings.EqualFold(currency, money.TRY) && (!txRate.Valid || !txRate.Decimal.IsPositive()) && d.rates != nil {
		r, err := d.rates.Latest(ctx, strings.ToUpper(currency))
		switch {
		case err == nil:
			latest = money.Null(r.EffectiveRate)
		case apperr.IsNotFound(err):
		default:
			return decimal.Zero, err
		}
	}

	out, err := ToTRY(total, currency, txRate, latest)
	if errors.Is(err, money.ErrMissingRate) {
		return decimal.Zero, apperr.Invalid("exchange_rate", apperr.CodeRequired)
	}
	return out, err
}

// GormItemReader reads proposal_items.
type GormItemReader struct {
	db *gorm.DB
}

func NewItemReader(db *gorm.DB) *GormItemReader {
	return &GormItemReader{db: db}
}

func (r *GormItemReader) ProposalItems(ctx context.Context, proposalID uuid.UUID) ([]models.ProposalItem, error) {
	var items []models.ProposalItem
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Order("sort_order ASC").
		Find(&items).Error
	if err != nil {
		return nil, apperr.Query("proposal items", err)
	}
	return items, nil
}
