package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/caresync/authsvc/internal/infrastructure/repositories"
)

// Open creates a new database connection with production-ready settings.
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: "auth.",
		},
	}

	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate creates the identity table and its indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBIdentity{}); err != nil {
		return fmt.Errorf("failed to migrate identities table: %w", err)
	}
	return nil
}
