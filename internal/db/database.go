package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"xchain-backend/internal/config"
	"xchain-backend/internal/models"
)

var DB *gorm.DB

// gormConfig is shared by the production and test connections.
func gormConfig(logQueries bool) *gorm.Config {
	level := logger.Silent
	if logQueries {
		level = logger.Info
	}
	return &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
		Logger:                                   logger.Default.LogMode(level),
	}
}

// Open connects to PostgreSQL with the pool limits from cfg.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}
	if cfg.Driver != "" && cfg.Driver != "postgres" {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	database, err := gorm.Open(postgres.Open(cfg.DSN), gormConfig(cfg.LogQueries))
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return database, nil
}

// Migrate creates or updates every table.
func Migrate(database *gorm.DB) error {
	tables := append(models.All(), &DataMigrationRecord{})
	if err := database.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("AutoMigrate failed: %w", err)
	}
	return nil
}

// InitDB connects, migrates and seeds, storing the handle in DB.
func InitDB(cfg *config.Config) error {
	database, err := Open(cfg.Database)
	if err != nil {
		return err
	}
	logrus.Info("✅ Database connected successfully")

	if err := Migrate(database); err != nil {
		return err
	}
	if err := RunDataMigrations(database, cfg.Bridge); err != nil {
		return err
	}
	logrus.Info("✅ Database schema migrated successfully")

	DB = database
	return nil
}
