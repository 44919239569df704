package ledger

import (
	"context"
	"errors"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ViewMode: resmi (faturalı) / gayriresmi / toplam görünüm
type ViewMode string

const (
	ViewTotal      ViewMode = "total"
	ViewOfficial   ViewMode = "official"
	ViewUnofficial ViewMode = "unofficial"
)

// ParseViewMode treats an empty value as total.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case "", ViewTotal:
		return ViewTotal, nil
	case ViewOfficial, ViewUnofficial:
		return ViewMode(s), nil
	}
	return "", apperr.Invalid("view_mode", apperr.CodeInvalidViewMode)
}

// Includes reports whether a row with the given invoice state is visible.
func (m ViewMode) Includes(official bool) bool {
	switch m {
	case ViewOfficial:
		return official
	case ViewUnofficial:
		return !official
	default:
		return true
	}
}

type TransactionFilter struct {
	Direction         models.Direction
	Period            string
	CustomerID        *uuid.UUID
	SiteID            *uuid.UUID
	ExpenseCategoryID *uuid.UUID
	PaymentMethod     string
	ViewMode          ViewMode
	RecurringOnly     bool
}

// TransactionStore persists financial transactions.
type TransactionStore interface {
	Insert(ctx context.Context, tx *models.FinancialTransaction) error
	Update(ctx context.Context, tx *models.FinancialTransaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.FinancialTransaction, error)
	Query(ctx context.Context, f TransactionFilter) ([]models.FinancialTransaction, error)
}

type GormTransactionStore struct {
	db *gorm.DB
}

func NewTransactionStore(db *gorm.DB) *GormTransactionStore {
	return &GormTransactionStore{db: db}
}

func (s *GormTransactionStore) Insert(ctx context.Context, tx *models.FinancialTransaction) error {
	return apperr.Query("insert transaction", s.db.WithContext(ctx).Omit("ExpenseCategory").Create(tx).Error)
}

// Update overwrites every column except created_at.
func (s *GormTransactionStore) Update(ctx context.Context, tx *models.FinancialTransaction) error {
	res := s.db.WithContext(ctx).
		Model(tx).
		Select("*").
		Omit("ID", "CreatedAt", "ExpenseCategory").
		Updates(tx)
	if res.Error != nil {
		return apperr.Query("update transaction", res.Error)
	}
	if res.RowsAffected == 0 {
		return &apperr.NotFoundError{Entity: "transaction", ID: tx.ID.String()}
	}
	return nil
}

func (s *GormTransactionStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.FinancialTransaction{}, "id = ?", id)
	if res.Error != nil {
		return apperr.Query("delete transaction", res.Error)
	}
	if res.RowsAffected == 0 {
		return &apperr.NotFoundError{Entity: "transaction", ID: id.String()}
	}
	return nil
}

func (s *GormTransactionStore) Get(ctx context.Context, id uuid.UUID) (*models.FinancialTransaction, error) {
	var tx models.FinancialTransaction
	err := s.db.WithContext(ctx).Preload("ExpenseCategory").First(&tx, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Entity: "transaction", ID: id.String()}
	}
	if err != nil {
		return nil, apperr.Query("get transaction", err)
	}
	return &tx, nil
}

// Query: tarih azalan, aynı gün içinde son eklenen önce.
func (s *GormTransactionStore) Query(ctx context.Context, f TransactionFilter) ([]models.FinancialTransaction, error) {
	q := s.db.WithContext(ctx).Model(&models.FinancialTransaction{}).Preload("ExpenseCategory")

	if f.Direction != "" {
		q = q.Where("direction = ?", f.Direction)
	}
	if f.Period != "" {
		q = q.Where("period = ?", f.Period)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.SiteID != nil {
		q = q.Where("site_id = ?", *f.SiteID)
	}
	if f.ExpenseCategoryID != nil {
		q = q.Where("expense_category_id = ?", *f.ExpenseCategoryID)
	}
	if f.PaymentMethod != "" {
		q = q.Where("payment_method = ?", f.PaymentMethod)
	}
	if f.RecurringOnly {
		q = q.Where("recurring_template_id IS NOT NULL")
	}
	q = whereInvoiced(q, f.ViewMode)

	var rows []models.FinancialTransaction
	if err := q.Order("transaction_date DESC").Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, apperr.Query("list transactions", err)
	}
	return rows, nil
}

// whereInvoiced: gelirde should_invoice, giderde has_invoice belirleyicidir.
func whereInvoiced(q *gorm.DB, mode ViewMode) *gorm.DB {
	switch mode {
	case ViewOfficial:
		return q.Where("((direction = ? AND should_invoice = ?) OR (direction = ? AND has_invoice = ?))",
			models.DirectionIncome, true, models.DirectionExpense, true)
	case ViewUnofficial:
		return q.Where("((direction = ? AND COALESCE(should_invoice, ?) = ?) OR (direction = ? AND COALESCE(has_invoice, ?) = ?))",
			models.DirectionIncome, false, false, models.DirectionExpense, false, false)
	}
	return q
}
