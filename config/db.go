package config

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"restaurant-ordering-api/models"
)

// OpenDB opens the SQLite database at path and migrates the schema. The
// returned handle is passed to handlers explicitly; there is no package-level
// database singleton.
func OpenDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Restaurant{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
