// Package ledger is the native token ledger the bridge moves funds on. It
// shares the database with the order tables so a ledger bound to an action's
// transaction commits or rolls back together with it.
package ledger

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/errs"
	"xchain-backend/internal/models"
)

// MaxMemoLength bounds transfer memos.
const MaxMemoLength = 256

// Ledger moves and issues native tokens between open accounts.
type Ledger interface {
	OpenAccount(ctx context.Context, name string) error
	AccountExists(ctx context.Context, name string) (bool, error)
	Transfer(ctx context.Context, from, to string, quantity asset.Asset, memo string) error
	Issue(ctx context.Context, to string, quantity asset.Asset, memo string) error
	Balance(ctx context.Context, account string, sym asset.Symbol) (asset.Asset, error)
	Balances(ctx context.Context, account string) ([]asset.Asset, error)
}

type gormLedger struct {
	db        *gorm.DB
	requestID string
}

// New binds a ledger to db; requestID is stamped on every transfer record.
func New(db *gorm.DB, requestID string) Ledger {
	return &gormLedger{db: db, requestID: requestID}
}

func (l *gormLedger) OpenAccount(ctx context.Context, name string) error {
	if name == "" || len(name) > 64 {
		return errs.InvalidParam("invalid account name: %q", name)
	}
	exists, err := l.AccountExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return errs.AlreadyExists("account already open: %s", name)
	}
	if err := l.db.WithContext(ctx).Create(&models.LedgerAccount{Name: name}).Error; err != nil {
		return errors.Wrap(err, "open ledger account")
	}
	return nil
}

func (l *gormLedger) AccountExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&models.LedgerAccount{}).Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "count ledger account")
	}
	return count > 0, nil
}

func (l *gormLedger) Transfer(ctx context.Context, from, to string, quantity asset.Asset, memo string) error {
	if from == to {
		return errs.InvalidParam("cannot transfer to self")
	}
	if err := l.checkMovement(ctx, to, quantity, memo); err != nil {
		return err
	}
	if ok, err := l.AccountExists(ctx, from); err != nil {
		return err
	} else if !ok {
		return errs.InvalidParam("from account not open: %s", from)
	}

	if err := l.debit(ctx, from, quantity); err != nil {
		return err
	}
	if err := l.credit(ctx, to, quantity); err != nil {
		return err
	}
	return l.record(ctx, from, to, quantity, memo)
}

func (l *gormLedger) Issue(ctx context.Context, to string, quantity asset.Asset, memo string) error {
	if err := l.checkMovement(ctx, to, quantity, memo); err != nil {
		return err
	}
	if err := l.credit(ctx, to, quantity); err != nil {
		return err
	}
	return l.record(ctx, "", to, quantity, memo)
}

func (l *gormLedger) Balance(ctx context.Context, account string, sym asset.Symbol) (asset.Asset, error) {
	var row models.LedgerBalance
	err := l.db.WithContext(ctx).Where("account = ? AND symbol = ?", account, sym.Code).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return asset.New(0, sym), nil
	}
	if err != nil {
		return asset.Asset{}, errors.Wrap(err, "get ledger balance")
	}
	return row.Asset(), nil
}

func (l *gormLedger) Balances(ctx context.Context, account string) ([]asset.Asset, error) {
	var rows []models.LedgerBalance
	if err := l.db.WithContext(ctx).Where("account = ?", account).Order("symbol ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list ledger balances")
	}
	out := make([]asset.Asset, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].Asset())
	}
	return out, nil
}

func (l *gormLedger) checkMovement(ctx context.Context, to string, quantity asset.Asset, memo string) error {
	if !quantity.IsValid() {
		return errs.InvalidParam("invalid quantity: %s", quantity)
	}
	if !quantity.IsPositive() {
		return errs.InvalidParam("must transfer positive quantity")
	}
	if len(memo) > MaxMemoLength {
		return errs.InvalidParam("memo has more than %d bytes", MaxMemoLength)
	}
	ok, err := l.AccountExists(ctx, to)
	if err != nil {
		return err
	}
	if !ok {
		return errs.InvalidParam("to account not open: %s", to)
	}
	return nil
}

func (l *gormLedger) debit(ctx context.Context, account string, quantity asset.Asset) error {
	var row models.LedgerBalance
	err := l.db.WithContext(ctx).Where("account = ? AND symbol = ?", account, quantity.Symbol.Code).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.InvalidParam("overdrawn balance")
	}
	if err != nil {
		return errors.Wrap(err, "get ledger balance")
	}
	if row.Precision != quantity.Symbol.Precision {
		return errs.New(errs.CodeSymbolMismatch, "symbol precision mismatch for %s", quantity.Symbol.Code)
	}

	res := l.db.WithContext(ctx).Model(&models.LedgerBalance{}).
		Where("id = ? AND amount >= ?", row.ID, quantity.Amount).
		Update("amount", gorm.Expr("amount - ?", quantity.Amount))
	if res.Error != nil {
		return errors.Wrap(res.Error, "debit ledger balance")
	}
	if res.RowsAffected == 0 {
		return errs.InvalidParam("overdrawn balance")
	}
	return nil
}

func (l *gormLedger) credit(ctx context.Context, account string, quantity asset.Asset) error {
	db := l.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.LedgerBalance{
		Account:   account,
		Symbol:    quantity.Symbol.Code,
		Precision: quantity.Symbol.Precision,
	}).Error
	if err != nil {
		return errors.Wrap(err, "create ledger balance")
	}

	var row models.LedgerBalance
	if err := db.Where("account = ? AND symbol = ?", account, quantity.Symbol.Code).First(&row).Error; err != nil {
		return errors.Wrap(err, "get ledger balance")
	}
	if row.Precision != quantity.Symbol.Precision {
		return errs.New(errs.CodeSymbolMismatch, "symbol precision mismatch for %s", quantity.Symbol.Code)
	}
	if _, err := asset.New(row.Amount, quantity.Symbol).Add(quantity); err != nil {
		return err
	}

	err = db.Model(&models.LedgerBalance{}).
		Where("id = ?", row.ID).
		Update("amount", gorm.Expr("amount + ?", quantity.Amount)).Error
	return errors.Wrap(err, "credit ledger balance")
}

func (l *gormLedger) record(ctx context.Context, from, to string, quantity asset.Asset, memo string) error {
	err := l.db.WithContext(ctx).Create(&models.LedgerTransfer{
		RequestID:   l.requestID,
		FromAccount: from,
		ToAccount:   to,
		Quantity:    quantity,
		Memo:        memo,
	}).Error
	return errors.Wrap(err, "record ledger transfer")
}
