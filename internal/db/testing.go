package db

import (
	"fmt"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"xchain-backend/internal/config"
)

var testDBSeq uint64

// ConnectTestDB opens a private in-memory SQLite database. The pool is
// limited to one connection so every query sees the same memory database.
func ConnectTestDB() (*gorm.DB, error) {
	name := fmt.Sprintf("file:xchain_test_%d?mode=memory&cache=shared", atomic.AddUint64(&testDBSeq, 1))
	database, err := gorm.Open(sqlite.Open(name), gormConfig(false))
	if err != nil {
		return nil, err
	}
	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return database, nil
}

// ConnectAndInitializeTestDB opens a test database with the schema and seed
// data in place.
func ConnectAndInitializeTestDB(bridge config.BridgeConfig) (*gorm.DB, error) {
	database, err := ConnectTestDB()
	if err != nil {
		return nil, err
	}
	if err := Migrate(database); err != nil {
		return nil, err
	}
	if err := RunDataMigrations(database, bridge); err != nil {
		return nil, err
	}
	return database, nil
}
