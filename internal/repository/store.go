package repository

import (
	"context"

	"gorm.io/gorm"

	"xchain-backend/internal/errs"
	"xchain-backend/internal/fsm"
)

// Store groups the repositories over one database handle. A Store obtained
// inside WithTx is bound to that transaction.
type Store interface {
	State() StateRepository
	Chains() ChainRepository
	Coins() CoinRepository
	ChainCoins() ChainCoinRepository
	Addresses() AddressRepository
	XinOrders() XinOrderRepository
	XoutOrders() XoutOrderRepository

	// DB returns the underlying handle, the transaction when bound to one.
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

type store struct {
	db *gorm.DB
}

// NewStore creates a Store over db
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) State() StateRepository { return NewStateRepository(s.db) }
func (s *store) Chains() ChainRepository { return NewChainRepository(s.db) }
func (s *store) Coins() CoinRepository { return NewCoinRepository(s.db) }
func (s *store) ChainCoins() ChainCoinRepository { return NewChainCoinRepository(s.db) }
func (s *store) Addresses() AddressRepository { return NewAddressRepository(s.db) }
func (s *store) XinOrders() XinOrderRepository { return NewXinOrderRepository(s.db) }
func (s *store) XoutOrders() XoutOrderRepository { return NewXoutOrderRepository(s.db) }
func (s *store) DB() *gorm.DB { return s.db }

func (s *store) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// OrderFilter narrows order listings; zero fields match everything.
type OrderFilter struct {
	Account string
	Chain   string
	Status  string
	Limit   int
	Offset  int
}

func (f OrderFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Account != "" {
		q = q.Where("account = ?", f.Account)
	}
	if f.Chain != "" {
		q = q.Where("chain = ?", f.Chain)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// updateStatus is a compare-and-set on the status column.
func updateStatus(q *gorm.DB, kind string, id uint64, from, to fsm.Status, fields map[string]interface{}) error {
	values := map[string]interface{}{"status": to}
	for k, v := range fields {
		values[k] = v
	}
	res := q.Where("id = ? AND status = ?", id, from).Updates(values)
	if res.Error != nil {
		return translate(res.Error, "update "+kind+" order status")
	}
	if res.RowsAffected == 0 {
		return errs.StatusInvalid("%s order %d is no longer %s", kind, id, from)
	}
	return nil
}
