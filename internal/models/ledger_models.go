package models

import (
	"time"

	"xchain-backend/internal/asset"
)

// LedgerAccount is an open native ledger account
type LedgerAccount struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:64;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

func (LedgerAccount) TableName() string {
	return "ledger_accounts"
}

// LedgerBalance is one account's holding of one symbol
type LedgerBalance struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Account   string    `json:"account" gorm:"size:64;not null;uniqueIndex:idx_balance_account_symbol"`
	Symbol    string    `json:"symbol" gorm:"size:7;not null;uniqueIndex:idx_balance_account_symbol"`
	Precision uint8     `json:"precision" gorm:"not null"`
	Amount    int64     `json:"amount" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LedgerBalance) TableName() string {
	return "ledger_balances"
}

// Asset returns the balance as an asset.
func (b *LedgerBalance) Asset() asset.Asset {
	return asset.New(b.Amount, asset.Symbol{Code: b.Symbol, Precision: b.Precision})
}

// LedgerTransfer records one movement of funds
type LedgerTransfer struct {
	ID          uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	RequestID   string      `json:"request_id" gorm:"size:36;index"`
	FromAccount string      `json:"from" gorm:"size:64;index"`
	ToAccount   string      `json:"to" gorm:"size:64;not null;index"`
	Quantity    asset.Asset `json:"quantity" gorm:"embedded;embeddedPrefix:quantity_"`
	Memo        string      `json:"memo" gorm:"size:256"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (LedgerTransfer) TableName() string {
	return "ledger_transfers"
}
