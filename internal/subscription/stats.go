// Package subscription abonelik istatistiklerini (MRR, müşteri sayısı) okur.
package subscription

import (
	"context"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Stats struct {
	MRR                   decimal.Decimal `json:"mrr"`
	DistinctCustomerCount int64           `json:"distinct_customer_count"`
}

// StatsSource supplies subscription statistics for dashboards.
type StatsSource interface {
	Stats(ctx context.Context) (Stats, error)
}

type GormStatsSource struct {
	db *gorm.DB
}

func NewStatsSource(db *gorm.DB) *GormStatsSource {
	return &GormStatsSource{db: db}
}

// Stats: aktif aboneliklerin aylık ücret toplamı ve farklı müşteri sayısı.
func (s *GormStatsSource) Stats(ctx context.Context) (Stats, error) {
	var fees []decimal.Decimal
	err := s.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("status = ?", models.SubscriptionActive).
		Pluck("monthly_fee", &fees).Error
	if err != nil {
		return Stats{}, apperr.Query("subscription mrr", err)
	}

	var customers int64
	err = s.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("status = ?", models.SubscriptionActive).
		Distinct("customer_id").
		Count(&customers).Error
	if err != nil {
		return Stats{}, apperr.Query("subscription customers", err)
	}

	mrr := decimal.Zero
	for _, f := range fees {
		mrr = mrr.Add(f)
	}
	return Stats{MRR: mrr.Round(2), DistinctCustomerCount: customers}, nil
}
