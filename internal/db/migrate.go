package db

import (
	"digital_wallet/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"
	"gorm.io/gorm" // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(gdb *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := gdb.AutoMigrate(&domain.User{}, &domain.Wallet{}, &domain.Transaction{}); err != nil {
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
