package database

import (
	"fmt"

	"guvenlik-backend/internal/log"
	"guvenlik-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Open, Postgres bağlantısını açar. TranslateError açık: tekil anahtar ihlali
// gorm.ErrDuplicatedKey olarak döner.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}
	return db, nil
}

// Migrate tabloları oluşturur ve varsayılan gider kategorilerini ekler.
func Migrate(db *gorm.DB, logger *log.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.ExpenseCategory{},
		&models.FinancialTransaction{},
		&models.ExchangeRate{},
		&models.Proposal{},
		&models.ProposalItem{},
		&models.Subscription{},
		&models.SubscriptionPayment{},
		&models.RecurringTemplate{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate hatası: %w", err)
	}

	seeded, err := SeedCategories(db)
	if err != nil {
		return err
	}
	if logger != nil {
		logger.Info("migration tamamlandı", "seeded_categories", seeded)
	}
	return nil
}

// DefaultCategories: ilk kurulumda eklenen gider kategorileri
var DefaultCategories = []models.ExpenseCategory{
	{Code: models.CategoryCodeDefault, NameTR: "Genel Gider", NameEN: "General Expense", SortOrder: 0},
	{Code: "rent", NameTR: "Kira", NameEN: "Rent", SortOrder: 10},
	{Code: "salary", NameTR: "Maaş", NameEN: "Salaries", SortOrder: 20},
	{Code: "material", NameTR: "Malzeme", NameEN: "Materials", SortOrder: 30},
	{Code: models.CategoryCodeSIMOperator, NameTR: "Operatör Faturası", NameEN: "SIM Operator Bill", SortOrder: 40},
	{Code: "fuel", NameTR: "Yakıt", NameEN: "Fuel", SortOrder: 50},
	{Code: "utilities", NameTR: "Elektrik / Su / İnternet", NameEN: "Utilities", SortOrder: 60},
	{Code: "tax", NameTR: "Vergi ve Harçlar", NameEN: "Taxes and Fees", SortOrder: 70},
	{Code: "other", NameTR: "Diğer", NameEN: "Other", SortOrder: 100},
}

// SeedCategories eksik kategorileri ekler; mevcut kodlara dokunmaz.
func SeedCategories(db *gorm.DB) (int64, error) {
	rows := make([]models.ExpenseCategory, len(DefaultCategories))
	copy(rows, DefaultCategories)
	for i := range rows {
		rows[i].IsActive = true
	}

	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("kategori seed hatası: %w", res.Error)
	}
	return res.RowsAffected, nil
}
