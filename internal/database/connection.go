// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/perfume-storefront/internal/config"
	"github.com/javajoker/perfume-storefront/internal/models"
)

// Initialize opens the postgres database that backs the visitor state store.
func Initialize(cfg config.DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	level := logger.Warn
	switch cfg.LogLevel {
	case "silent":
		level = logger.Silent
	case "info":
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connection established")
	return db, nil
}

func Close(db *gorm.DB, log *logrus.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.WithError(err).Error("Error closing database connection")
		return
	}
	log.Info("Database connection closed")
}

func RunMigrations(db *gorm.DB, log *logrus.Logger) error {
	log.Info("Running database migrations")

	if err := db.AutoMigrate(&models.ClientState{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_client_states_updated ON client_states(updated_at)",
	}
	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.WithError(err).Warnf("Failed to create index: %s", index)
		}
	}

	return nil
}

// PurgeStale removes state rows untouched for longer than ttl.
func PurgeStale(db *gorm.DB, ttl time.Duration) (int64, error) {
	result := db.Where("updated_at < ?", time.Now().Add(-ttl)).Delete(&models.ClientState{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge stale state: %w", result.Error)
	}
	return result.RowsAffected, nil
}
