package db

import (
	"fmt"

	"github.com/baliyoga/baliyoga-backend/config"
	"github.com/baliyoga/baliyoga-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var database *gorm.DB

// Initialize opens the Postgres connection.
func Initialize(cfg *config.DatabaseConfig) error {
	logger.Info("Connecting to database", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"name": cfg.DBName,
	})

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	database = db
	logger.Info("Database connection established")
	return nil
}

// GetDB returns the shared database handle.
func GetDB() *gorm.DB {
	return database
}

// Close closes the underlying connection pool.
func Close() error {
	if database == nil {
		return nil
	}
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
