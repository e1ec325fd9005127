package repository

import (
	"github.com/shoplist/api/internal/models"
	"gorm.io/gorm"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Item{},
	}
}

// Migrate creates or updates the schema. Items carry user_id without a
// foreign key constraint.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(registerModels()...); err != nil {
		return err
	}
	return runCustomMigrations(db)
}

// runCustomMigrations handles schema changes AutoMigrate can't handle
func runCustomMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		addActiveItemsIndex,
	}

	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}

	return nil
}

// addActiveItemsIndex backs the list and sum queries, which only read live rows.
func addActiveItemsIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_items_user_active
		ON items(user_id)
		WHERE NOT deleted
	`).Error
}
