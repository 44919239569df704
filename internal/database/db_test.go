package database_test

import (
	"testing"

	"guvenlik-backend/internal/database"
	"guvenlik-backend/internal/database/dbtest"
	"guvenlik-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSeedsCategoriesOnce(t *testing.T) {
	db := dbtest.New(t)

	var count int64
	require.NoError(t, db.Model(&models.ExpenseCategory{}).Count(&count).Error)
	assert.Equal(t, int64(len(database.DefaultCategories)), count)

	// rename one, seeding again must not overwrite or duplicate
	require.NoError(t, db.Model(&models.ExpenseCategory{}).
		Where("code = ?", "rent").Update("name_tr", "Ofis Kirası").Error)

	seeded, err := database.SeedCategories(db)
	require.NoError(t, err)
	assert.Zero(t, seeded)

	require.NoError(t, db.Model(&models.ExpenseCategory{}).Count(&count).Error)
	assert.Equal(t, int64(len(database.DefaultCategories)), count)

	var rent models.ExpenseCategory
	require.NoError(t, db.Where("code = ?", "rent").First(&rent).Error)
	assert.Equal(t, "Ofis Kirası", rent.NameTR)
	assert.True(t, rent.IsActive)
}
