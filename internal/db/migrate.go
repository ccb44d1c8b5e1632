package db

import (
	"fmt"

	"github.com/baliyoga/baliyoga-backend/internal/app/model"
	"github.com/baliyoga/baliyoga-backend/pkg/logger"
)

// Migrate brings the schema up to date.
func Migrate() error {
	logger.Info("Running database migrations")

	if err := database.AutoMigrate(
		&model.Listing{},
		&model.Subscription{},
		&model.FeaturedRotation{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migrations completed")
	return nil
}
