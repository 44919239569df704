package recurring

import (
	"context"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormTemplateStore struct {
	db *gorm.DB
}

func NewTemplateStore(db *gorm.DB) *GormTemplateStore {
	return &GormTemplateStore{db: db}
}

func (s *GormTemplateStore) Create(ctx context.Context, t *models.RecurringTemplate) error {
	return apperr.Query("insert recurring template", s.db.WithContext(ctx).Create(t).Error)
}

// List: aktifler önce, sonra ada göre.
func (s *GormTemplateStore) List(ctx context.Context) ([]models.RecurringTemplate, error) {
	var rows []models.RecurringTemplate
	err := s.db.WithContext(ctx).
		Order("is_active DESC").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Query("list recurring templates", err)
	}
	return rows, nil
}

// Active returns templates that may still be due in period.
func (s *GormTemplateStore) Active(ctx context.Context, period string) ([]models.RecurringTemplate, error) {
	var rows []models.RecurringTemplate
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("last_generated_period IS NULL OR last_generated_period = '' OR last_generated_period < ?", period).
		Order("day_of_month ASC").
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Query("active recurring templates", err)
	}
	return rows, nil
}

func (s *GormTemplateStore) MarkGenerated(ctx context.Context, id uuid.UUID, period string) error {
	res := s.db.WithContext(ctx).
		Model(&models.RecurringTemplate{}).
		Where("id = ?", id).
		Update("last_generated_period", period)
	if res.Error != nil {
		return apperr.Query("mark recurring template", res.Error)
	}
	if res.RowsAffected == 0 {
		return &apperr.NotFoundError{Entity: "recurring_template", ID: id.String()}
	}
	return nil
}

// Generated reports whether a transaction for the template already exists in period.
func (s *GormTemplateStore) Generated(ctx context.Context, id uuid.UUID, period string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.FinancialTransaction{}).
		Where("recurring_template_id = ? AND period = ?", id, period).
		Count(&n).Error
	if err != nil {
		return false, apperr.Query("recurring transaction lookup", err)
	}
	return n > 0, nil
}
