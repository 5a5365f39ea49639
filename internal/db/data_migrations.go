package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"xchain-backend/internal/config"
	"xchain-backend/internal/models"
)

// DataMigration represents a data migration
type DataMigration struct {
	Version     string
	Description string
	Up          func(tx *gorm.DB, bridge config.BridgeConfig) error
}

// DataMigrationRecord marks an applied data migration
type DataMigrationRecord struct {
	Version   string    `gorm:"primaryKey;size:32"`
	AppliedAt time.Time `gorm:"not null"`
}

func (DataMigrationRecord) TableName() string {
	return "data_migrations"
}

// GetDataMigrations return all data migrations
func GetDataMigrations() []DataMigration {
	return []DataMigration{
		{
			Version:     "data_001",
			Description: "Create the global state row",
			Up:          seedGlobalState,
		},
		{
			Version:     "data_002",
			Description: "Open ledger accounts for the bridge and the bank",
			Up:          openSystemAccounts,
		},
	}
}

// RunDataMigrations applies every migration not yet recorded, each in its
// own transaction.
func RunDataMigrations(database *gorm.DB, bridge config.BridgeConfig) error {
	for _, m := range GetDataMigrations() {
		var count int64
		if err := database.Model(&DataMigrationRecord{}).Where("version = ?", m.Version).Count(&count).Error; err != nil {
			return fmt.Errorf("check data migration %s: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		logrus.WithField("version", m.Version).Infof("🔄 %s", m.Description)
		err := database.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx, bridge); err != nil {
				return err
			}
			return tx.Create(&DataMigrationRecord{Version: m.Version, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("data migration %s failed: %w", m.Version, err)
		}
	}
	return nil
}

func seedGlobalState(tx *gorm.DB, _ config.BridgeConfig) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.GlobalState{ID: models.GlobalStateID}).Error
}

func openSystemAccounts(tx *gorm.DB, bridge config.BridgeConfig) error {
	for _, name := range []string{bridge.Self, bridge.Bank} {
		err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.LedgerAccount{Name: name}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
