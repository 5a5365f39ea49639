package models

import (
	"strconv"
	"time"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/fsm"
)

// GlobalStateID is the primary key of the singleton state row.
const GlobalStateID = 1

// FarmConf configures the reward side system fired on inbound approval.
type FarmConf struct {
	Contract      string                 `json:"contract"`
	LandID        uint64                 `json:"land_id"`
	XinRewardConf map[string]asset.Asset `json:"xin_reward_conf"` // coin code -> reward per whole token
}

// GlobalState holds the bridge roles and fee rate
type GlobalState struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	Admin        string    `json:"admin" gorm:"size:64"`
	Maker        string    `json:"maker" gorm:"size:64"`
	Checker      string    `json:"checker" gorm:"size:64"`
	FeeCollector string    `json:"fee_collector" gorm:"size:64"`
	FeeRate      int64     `json:"fee_rate" gorm:"not null;default:0"` // over fee.RateBase
	Farm         FarmConf  `json:"farm" gorm:"serializer:json;type:text"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (GlobalState) TableName() string {
	return "global_state"
}

// Chain is a registered external chain
type Chain struct {
	ID               uint      `json:"-" gorm:"primaryKey"`
	Chain            string    `json:"chain" gorm:"size:32;not null;uniqueIndex"`
	BaseChain        string    `json:"base_chain" gorm:"size:32;not null"`
	CommonXinAccount string    `json:"common_xin_account" gorm:"size:256"`
	CreatedAt        time.Time `json:"created_at"`
}

func (Chain) TableName() string {
	return "chains"
}

// IsRootChain reports a chain that is its own base chain.
func (c *Chain) IsRootChain() bool {
	return c.Chain == c.BaseChain
}

// IsSharedCustodial reports a chain receiving all deposits on one address.
func (c *Chain) IsSharedCustodial() bool {
	return c.CommonXinAccount != ""
}

// Coin is a registered token symbol
type Coin struct {
	Code      string    `json:"code" gorm:"primaryKey;size:7"`
	Precision uint8     `json:"precision" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Coin) TableName() string {
	return "coins"
}

func (c *Coin) Symbol() asset.Symbol {
	return asset.Symbol{Code: c.Code, Precision: c.Precision}
}

// ChainCoin enables a coin on a chain with a fixed fee
type ChainCoin struct {
	ID        uint        `json:"-" gorm:"primaryKey"`
	Chain     string      `json:"chain" gorm:"size:32;not null;uniqueIndex:idx_chain_coin"`
	CoinCode  string      `json:"coin" gorm:"size:7;not null;uniqueIndex:idx_chain_coin"`
	Fee       asset.Asset `json:"fee" gorm:"embedded;embeddedPrefix:fee_"`
	CreatedAt time.Time   `json:"created_at"`
}

func (ChainCoin) TableName() string {
	return "chain_coins"
}

// AddressStatus is the provisioning state of a deposit address
type AddressStatus string

const (
	AddressStatusRequested   AddressStatus = "requested"
	AddressStatusProvisioned AddressStatus = "provisioned"
)

// AccountXChainAddress binds (account, base chain, wallet) to an external deposit address
type AccountXChainAddress struct {
	ID              uint64        `json:"id" gorm:"primaryKey;autoIncrement"`
	Account         string        `json:"account" gorm:"size:64;not null;uniqueIndex:idx_account_chain_wallet"`
	BaseChain       string        `json:"base_chain" gorm:"size:32;not null;uniqueIndex:idx_account_chain_wallet"`
	MulsignWalletID uint32        `json:"mulsign_wallet_id" gorm:"not null;uniqueIndex:idx_account_chain_wallet"`
	Status          AddressStatus `json:"status" gorm:"size:16;not null;index"`
	XinTo           string        `json:"xin_to" gorm:"size:256"`
	XinToHash       *string       `json:"-" gorm:"size:66;uniqueIndex"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (AccountXChainAddress) TableName() string {
	return "account_xchain_addresses"
}

// IDString is the decimal record id used as the xin_to of shared custodial chains.
func (a *AccountXChainAddress) IDString() string {
	return strconv.FormatUint(a.ID, 10)
}

// XinOrder is a deposit from an external chain into the native ledger
type XinOrder struct {
	ID              uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	TxID            string      `json:"txid" gorm:"column:txid;size:256;not null"`
	TxIDHash        string      `json:"-" gorm:"column:txid_hash;size:66;not null;uniqueIndex"`
	AmcTxID         string      `json:"amc_txid" gorm:"column:amc_txid;size:66"`
	Account         string      `json:"account" gorm:"size:64;not null;index"`
	MulsignWalletID uint32      `json:"mulsign_wallet_id"`
	XinFrom         string      `json:"xin_from" gorm:"size:256"`
	XinTo           string      `json:"xin_to" gorm:"size:256"`
	Chain           string      `json:"chain" gorm:"size:32;not null;index"`
	CoinName        string      `json:"coin_name" gorm:"size:7;not null"`
	Quantity        asset.Asset `json:"quantity" gorm:"embedded;embeddedPrefix:quantity_"`
	Status          fsm.Status  `json:"status" gorm:"size:16;not null;index"`
	Maker           string      `json:"maker" gorm:"size:64"`
	Checker         string      `json:"checker" gorm:"size:64"`
	CloseReason     string      `json:"close_reason" gorm:"size:256"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	ClosedAt        *time.Time  `json:"closed_at"`
}

func (XinOrder) TableName() string {
	return "xin_orders"
}

// XoutOrder is a withdrawal from the native ledger to an external chain
type XoutOrder struct {
	ID              uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Account         string      `json:"account" gorm:"size:64;not null;index"`
	AmcTxID         string      `json:"amc_txid" gorm:"column:amc_txid;size:66;not null;uniqueIndex"`
	MulsignWalletID uint32      `json:"mulsign_wallet_id"`
	XoutTo          string      `json:"xout_to" gorm:"size:256;not null"`
	XoutFrom        string      `json:"xout_from" gorm:"size:256"`
	Chain           string      `json:"chain" gorm:"size:32;not null;index"`
	CoinName        string      `json:"coin_name" gorm:"size:7;not null"`
	ApplyQuantity   asset.Asset `json:"apply_quantity" gorm:"embedded;embeddedPrefix:apply_quantity_"`
	Quantity        asset.Asset `json:"quantity" gorm:"embedded;embeddedPrefix:quantity_"`
	Fee             asset.Asset `json:"fee" gorm:"embedded;embeddedPrefix:fee_"`
	TxID            string      `json:"txid" gorm:"column:txid;size:256"`
	TxIDHash        *string     `json:"-" gorm:"column:txid_hash;size:66;uniqueIndex"`
	Status          fsm.Status  `json:"status" gorm:"size:16;not null;index"`
	Maker           string      `json:"maker" gorm:"size:64"`
	Checker         string      `json:"checker" gorm:"size:64"`
	Memo            string      `json:"memo" gorm:"size:256"`
	CloseReason     string      `json:"close_reason" gorm:"size:256"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	ClosedAt        *time.Time  `json:"closed_at"`
}

func (XoutOrder) TableName() string {
	return "xout_orders"
}

// All lists every table for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&GlobalState{},
		&Chain{},
		&Coin{},
		&ChainCoin{},
		&AccountXChainAddress{},
		&XinOrder{},
		&XoutOrder{},
		&LedgerAccount{},
		&LedgerBalance{},
		&LedgerTransfer{},
	}
}
