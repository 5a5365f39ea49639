package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/config"
	"xchain-backend/internal/db"
	"xchain-backend/internal/errs"
	"xchain-backend/internal/events"
	"xchain-backend/internal/models"
	"xchain-backend/internal/repository"
)

const (
	adminAcct    = "admin"
	makerAcct    = "maker"
	checkerAcct  = "checker"
	collectorAcc = "feecollect"
)

var (
	ethSym = asset.Symbol{Code: "ETH", Precision: 8}
	btcSym = asset.Symbol{Code: "BTC", Precision: 8}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.OrderEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) all() []events.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.OrderEvent(nil), p.events...)
}

type fakeNotifier struct {
	intents []events.RewardIntent
	fail    error
}

func (n *fakeNotifier) NotifyReward(_ context.Context, intent events.RewardIntent) error {
	if n.fail != nil {
		return n.fail
	}
	n.intents = append(n.intents, intent)
	return nil
}

type fixture struct {
	ctx       context.Context
	db        *gorm.DB
	bridge    config.BridgeConfig
	exec      *Executor
	publisher *recordingPublisher
	notifier  *fakeNotifier
	logs      *logtest.Hook

	admin     *AdminService
	registry  *RegistryService
	addresses *AddressService
	xin       *XinOrderService
	xout      *XoutOrderService
	transfers *TransferService
	accounts  *AccountService
}

// newFixture returns an initialized bridge with eth and btc registered, a
// 10 bp fee rate and funded bridge reserves.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	bridge := config.Default().Bridge
	database, err := db.ConnectAndInitializeTestDB(bridge)
	require.NoError(t, err)

	log, logs := logtest.NewNullLogger()

	f := &fixture{
		ctx:       context.Background(),
		db:        database,
		bridge:    bridge,
		publisher: &recordingPublisher{},
		notifier:  &fakeNotifier{},
		logs:      logs,
	}
	f.exec = NewExecutor(repository.NewStore(database), bridge, f.publisher, log)
	f.exec.SetClock(func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) })

	f.admin = NewAdminService(f.exec)
	f.registry = NewRegistryService(f.exec)
	f.addresses = NewAddressService(f.exec)
	f.xin = NewXinOrderService(f.exec, f.addresses, f.notifier)
	f.xout = NewXoutOrderService(f.exec)
	f.transfers = NewTransferService(f.exec, f.xout)
	f.accounts = NewAccountService(f.exec)

	self := bridge.Self
	require.NoError(t, f.admin.Init(f.ctx, self, InitParams{
		Admin: adminAcct, Maker: makerAcct, Checker: checkerAcct, FeeCollector: collectorAcc,
	}))
	require.NoError(t, f.admin.SetFeeRate(f.ctx, self, 10))

	for _, name := range []string{"alice", "bob", collectorAcc} {
		require.NoError(t, f.accounts.OpenAccount(f.ctx, self, name))
	}
	require.NoError(t, f.accounts.Issue(f.ctx, self, self, asset.MustParse("100.00000000 ETH"), "reserve"))
	require.NoError(t, f.accounts.Issue(f.ctx, self, self, asset.MustParse("100.00000000 BTC"), "reserve"))
	require.NoError(t, f.accounts.Issue(f.ctx, self, "bob", asset.MustParse("5.00000000 BTC"), ""))

	require.NoError(t, f.registry.AddChain(f.ctx, self, "eth", "eth", ""))
	require.NoError(t, f.registry.AddChain(f.ctx, self, "btc", "btc", ""))
	require.NoError(t, f.registry.AddCoin(f.ctx, self, ethSym))
	require.NoError(t, f.registry.AddCoin(f.ctx, self, btcSym))
	require.NoError(t, f.registry.AddChainCoin(f.ctx, self, "eth", ethSym, asset.MustParse("0.00010000 ETH")))
	require.NoError(t, f.registry.AddChainCoin(f.ctx, self, "btc", btcSym, asset.MustParse("0.00050000 BTC")))
	return f
}

func (f *fixture) balance(t *testing.T, account string, sym asset.Symbol) string {
	t.Helper()
	var row models.LedgerBalance
	err := f.db.Where("account = ? AND symbol = ?", account, sym.Code).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return asset.New(0, sym).String()
	}
	require.NoError(t, err)
	return row.Asset().String()
}

func (f *fixture) lastTransfer(t *testing.T) models.LedgerTransfer {
	t.Helper()
	var tr models.LedgerTransfer
	require.NoError(t, f.db.Order("id DESC").First(&tr).Error)
	return tr
}

// warned reports whether an entry with msg was logged at warn level.
func (f *fixture) warned(msg string) bool {
	for _, e := range f.logs.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == msg {
			return true
		}
	}
	return false
}

func (f *fixture) transferCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.LedgerTransfer{}).Count(&n).Error)
	return n
}

func TestAdminInitAndFeeRate(t *testing.T) {
	f := newFixture(t)

	state, err := f.admin.GetState(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, makerAcct, state.Maker)
	assert.Equal(t, checkerAcct, state.Checker)
	assert.Equal(t, collectorAcc, state.FeeCollector)
	assert.Equal(t, int64(10), state.FeeRate)

	err = f.admin.Init(f.ctx, adminAcct, InitParams{Admin: "x", Maker: "x", Checker: "x", FeeCollector: "x"})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	err = f.admin.Init(f.ctx, f.bridge.Self, InitParams{Admin: "x"})
	assert.ErrorIs(t, err, errs.ErrInvalidParam)

	assert.ErrorIs(t, f.admin.SetFeeRate(f.ctx, f.bridge.Self, 10001), errs.ErrInvalidParam)
	assert.ErrorIs(t, f.admin.SetFeeRate(f.ctx, adminAcct, 20), errs.ErrUnauthorized)

	state, err = f.admin.GetState(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), state.FeeRate)
	assert.Equal(t, makerAcct, state.Maker)
}

func TestSetRewardConf(t *testing.T) {
	f := newFixture(t)
	p := RewardConfParams{Contract: "aplink.farm", LandID: 3, CoinCode: "ETH", UnitReward: asset.MustParse("0.5000 APL")}

	assert.ErrorIs(t, f.admin.SetRewardConf(f.ctx, "alice", p), errs.ErrUnauthorized)
	require.NoError(t, f.admin.SetRewardConf(f.ctx, adminAcct, p))

	state, err := f.admin.GetState(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "aplink.farm", state.Farm.Contract)
	assert.Equal(t, uint64(3), state.Farm.LandID)
	assert.Equal(t, "0.5000 APL", state.Farm.XinRewardConf["ETH"].String())

	p.CoinCode = "DOGE"
	assert.ErrorIs(t, f.admin.SetRewardConf(f.ctx, adminAcct, p), errs.ErrNotFound)

	p.CoinCode = "ETH"
	p.UnitReward = asset.MustParse("0.0000 APL")
	require.NoError(t, f.admin.SetRewardConf(f.ctx, adminAcct, p))
	state, err = f.admin.GetState(f.ctx)
	require.NoError(t, err)
	assert.NotContains(t, state.Farm.XinRewardConf, "ETH")
}

func TestRegistry(t *testing.T) {
	f := newFixture(t)
	self := f.bridge.Self

	assert.ErrorIs(t, f.registry.AddChain(f.ctx, self, "eth", "eth", ""), errs.ErrAlreadyExists)
	assert.ErrorIs(t, f.registry.AddChain(f.ctx, "alice", "bsc", "bsc", ""), errs.ErrUnauthorized)
	require.NoError(t, f.registry.AddChain(f.ctx, adminAcct, "bsc", "bsc", ""))

	assert.ErrorIs(t, f.registry.AddCoin(f.ctx, self, ethSym), errs.ErrAlreadyExists)

	err := f.registry.AddChainCoin(f.ctx, self, "bsc", ethSym, asset.MustParse("0.0001 BTC"))
	assert.ErrorIs(t, err, errs.ErrSymbolMismatch)
	assert.ErrorIs(t, f.registry.AddChainCoin(f.ctx, self, "eth", ethSym, asset.MustParse("0.00010000 ETH")), errs.ErrAlreadyExists)
	require.NoError(t, f.registry.AddChainCoin(f.ctx, self, "bsc", ethSym, asset.MustParse("0.00020000 ETH")))

	coins, err := f.registry.ListChainCoins(f.ctx, "bsc")
	require.NoError(t, err)
	require.Len(t, coins, 1)
	assert.Equal(t, "0.00020000 ETH", coins[0].Fee.String())

	require.NoError(t, f.registry.DelChainCoin(f.ctx, self, "bsc", "ETH"))
	assert.ErrorIs(t, f.registry.DelChainCoin(f.ctx, self, "bsc", "ETH"), errs.ErrNotFound)

	// deleting a chain still referenced by chain coins is allowed
	require.NoError(t, f.registry.DelChain(f.ctx, self, "eth"))
	assert.ErrorIs(t, f.registry.DelChain(f.ctx, self, "eth"), errs.ErrNotFound)
	assert.ErrorIs(t, f.registry.DelCoin(f.ctx, self, "DOGE"), errs.ErrNotFound)

	chains, err := f.registry.ListChains(f.ctx)
	require.NoError(t, err)
	assert.Len(t, chains, 2)
}

func TestExecutorPublishesOnlyAfterCommit(t *testing.T) {
	f := newFixture(t)

	_, err := f.transfers.Transfer(f.ctx, "bob", TransferParams{
		To: f.bridge.Self, Quantity: asset.MustParse("1.00000000 BTC"), Memo: "1Addr:btc:BTC,8:0:x",
	})
	require.NoError(t, err)
	require.Len(t, f.publisher.all(), 1)

	_, err = f.transfers.Transfer(f.ctx, "bob", TransferParams{
		To: f.bridge.Self, Quantity: asset.MustParse("1.00000000 BTC"), Memo: "1Addr:doge:BTC,8:0:x",
	})
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Len(t, f.publisher.all(), 1)
}

func TestExecutorRunsCommitHooksOnlyAfterCommit(t *testing.T) {
	f := newFixture(t)
	var ran []string

	err := f.exec.Execute(f.ctx, Action{Name: "hooks", Caller: "bob"}, func(a *ActionContext) error {
		a.AfterCommit(func(context.Context) { ran = append(ran, "rolled back") })
		return errs.InvalidParam("rejected")
	})
	assert.ErrorIs(t, err, errs.ErrInvalidParam)
	assert.Empty(t, ran)

	err = f.exec.Execute(f.ctx, Action{Name: "hooks", Caller: "bob"}, func(a *ActionContext) error {
		a.AfterCommit(func(context.Context) { ran = append(ran, "committed") })
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"committed"}, ran)
}

func TestRegistryDeleteLogsDanglingReferences(t *testing.T) {
	f := newFixture(t)
	self := f.bridge.Self

	require.NoError(t, f.registry.DelChain(f.ctx, self, "eth"))
	assert.True(t, f.warned("deleted chain is still referenced by chain coins"))

	// a failing reference count is reported, not swallowed
	require.NoError(t, f.db.Migrator().DropTable(&models.ChainCoin{}))
	require.NoError(t, f.registry.DelCoin(f.ctx, self, "BTC"))
	assert.True(t, f.warned("count chain coins of deleted coin"))
	require.NoError(t, f.registry.DelChain(f.ctx, self, "btc"))
	assert.True(t, f.warned("count chain coins of deleted chain"))
}

func TestAccountService(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.accounts.OpenAccount(f.ctx, "alice", "carol"), errs.ErrUnauthorized)
	require.NoError(t, f.accounts.OpenAccount(f.ctx, f.bridge.Bank, "carol"))
	assert.ErrorIs(t, f.accounts.OpenAccount(f.ctx, f.bridge.Bank, "carol"), errs.ErrAlreadyExists)

	require.NoError(t, f.accounts.Issue(f.ctx, f.bridge.Bank, "carol", asset.MustParse("1.00000000 ETH"), "mint"))
	assert.ErrorIs(t, f.accounts.Issue(f.ctx, "carol", "carol", asset.MustParse("1.00000000 ETH"), ""), errs.ErrUnauthorized)

	balances, err := f.accounts.Balances(f.ctx, "carol")
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, "1.00000000 ETH", balances[0].String())
}
