package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchain-backend/internal/config"
	"xchain-backend/internal/models"
)

func TestDataMigrationsAreIdempotent(t *testing.T) {
	bridge := config.Default().Bridge
	database, err := ConnectAndInitializeTestDB(bridge)
	require.NoError(t, err)

	require.NoError(t, RunDataMigrations(database, bridge))

	var states int64
	require.NoError(t, database.Model(&models.GlobalState{}).Count(&states).Error)
	assert.Equal(t, int64(1), states)

	var accounts []models.LedgerAccount
	require.NoError(t, database.Order("name").Find(&accounts).Error)
	require.Len(t, accounts, 2)
	assert.ElementsMatch(t, []string{bridge.Self, bridge.Bank}, []string{accounts[0].Name, accounts[1].Name})

	var applied int64
	require.NoError(t, database.Model(&DataMigrationRecord{}).Count(&applied).Error)
	assert.Equal(t, int64(len(GetDataMigrations())), applied)
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(config.DatabaseConfig{})
	assert.Error(t, err)

	_, err = Open(config.DatabaseConfig{DSN: "x", Driver: "mysql"})
	assert.Error(t, err)
}
