package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sistem tarafından kullanılan kategori kodları
const (
	CategoryCodeDefault     = "expense"
	CategoryCodeSIMOperator = "sim_operator"
)

// ExpenseCategory: gider kategorisi, iki dilli isim
type ExpenseCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code      string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	NameTR    string    `gorm:"column:name_tr;size:100" json:"name_tr"`
	NameEN    string    `gorm:"column:name_en;size:100" json:"name_en"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	SortOrder int       `gorm:"not null" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *ExpenseCategory) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
