package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/errs"
	"xchain-backend/internal/fsm"
	"xchain-backend/internal/models"
	"xchain-backend/internal/repository"
	"xchain-backend/internal/utils"
)

func provisionAddress(t *testing.T, f *fixture, account, chain string, walletID uint64, xinTo string) {
	t.Helper()
	_, err := f.addresses.RequestAddress(f.ctx, account, account, chain, walletID)
	require.NoError(t, err)
	_, err = f.addresses.AssignAddress(f.ctx, makerAcct, account, chain, walletID, xinTo)
	require.NoError(t, err)
}

func ethDeposit(to, txid, xinTo, quantity string) InboundOrderParams {
	return InboundOrderParams{
		To:       to,
		Chain:    "eth",
		Coin:     ethSym,
		TxID:     txid,
		XinFrom:  "0xsender",
		XinTo:    xinTo,
		Quantity: asset.MustParse(quantity),
	}
}

func TestInboundDepositFlow(t *testing.T) {
	f := newFixture(t)
	provisionAddress(t, f, "alice", "eth", 0, "0xabc")
	require.NoError(t, f.admin.SetRewardConf(f.ctx, f.bridge.Self, RewardConfParams{
		Contract: "aplink.farm", LandID: 1, CoinCode: "ETH", UnitReward: asset.MustParse("0.5000 APL"),
	}))

	order, err := f.xin.CreateInboundOrder(f.ctx, makerAcct, ethDeposit("alice", "0xdeposit1", "0xabc", "1.00000000 ETH"))
	require.NoError(t, err)
	assert.Equal(t, fsm.StatusCreated, order.Status)
	assert.Equal(t, makerAcct, order.Maker)
	assert.Equal(t, uint32(0), order.MulsignWalletID)

	_, err = f.xin.CreateInboundOrder(f.ctx, makerAcct, ethDeposit("alice", "0xdeposit1", "0xabc", "2.00000000 ETH"))
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)

	approved, err := f.xin.ApproveInboundOrder(f.ctx, checkerAcct, order.ID)
	require.NoError(t, err)
	assert.Equal(t, fsm.StatusChecked, approved.Status)
	assert.Equal(t, checkerAcct, approved.Checker)
	assert.True(t, utils.IsHash(approved.AmcTxID))
	require.NotNil(t, approved.ClosedAt)

	assert.Equal(t, "1.00000000 ETH", f.balance(t, "alice", ethSym))
	assert.Equal(t, "99.00000000 ETH", f.balance(t, f.bridge.Self, ethSym))
	assert.Equal(t, "1", f.lastTransfer(t).Memo)

	require.Len(t, f.notifier.intents, 1)
	intent := f.notifier.intents[0]
	assert.Equal(t, "aplink.farm", intent.Contract)
	assert.Equal(t, uint64(1), intent.LandID)
	assert.Equal(t, "alice", intent.Account)
	assert.Equal(t, "0.5000 APL", intent.Reward.String())

	_, err = f.xin.ApproveInboundOrder(f.ctx, checkerAcct, order.ID)
	assert.ErrorIs(t, err, errs.ErrStatusInvalid)

	stored, err := f.xin.GetInboundOrder(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, fsm.StatusChecked, stored.Status)
	assert.Equal(t, approved.AmcTxID, stored.AmcTxID)

	evs := f.publisher.all()
	require.Len(t, evs, 2)
	assert.Equal(t, fsm.StatusCreated, evs[0].Status)
	assert.Equal(t, fsm.StatusChecked, evs[1].Status)
}

func TestInboundCreateValidation(t *testing.T) {
	f := newFixture(t)
	provisionAddress(t, f, "alice", "eth", 0, "0xabc")
	provisionAddress(t, f, "alice", "btc", 0, "bc1alice")

	cases := []struct {
		name   string
		caller string
		mutate func(p *InboundOrderParams)
		want   error
	}{
		{"not maker", checkerAcct, func(p *InboundOrderParams) {}, errs.ErrUnauthorized},
		{"symbol mismatch", makerAcct, func(p *InboundOrderParams) { p.Coin = btcSym }, errs.ErrSymbolMismatch},
		{"closed account", makerAcct, func(p *InboundOrderParams) { p.To = "nobody" }, errs.ErrInvalidParam},
		{"zero quantity", makerAcct, func(p *InboundOrderParams) { p.Quantity = asset.MustParse("0.00000000 ETH") }, errs.ErrInvalidParam},
		{"empty txid", makerAcct, func(p *InboundOrderParams) { p.TxID = "" }, errs.ErrInvalidParam},
		{"unregistered chain coin", makerAcct, func(p *InboundOrderParams) { p.Chain = "bsc" }, errs.ErrNotFound},
		{"empty sender", makerAcct, func(p *InboundOrderParams) { p.XinFrom = "" }, errs.ErrIllegalAddress},
		{"unknown deposit address", makerAcct, func(p *InboundOrderParams) { p.XinTo = "0xnothing" }, errs.ErrNotFound},
		{"address of another base chain", makerAcct, func(p *InboundOrderParams) { p.XinTo = "bc1alice" }, errs.ErrAddressMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := ethDeposit("alice", "0xdeposit", "0xabc", "1.00000000 ETH")
			tc.mutate(&p)
			_, err := f.xin.CreateInboundOrder(f.ctx, tc.caller, p)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, total, err := f.xin.ListInboundOrders(f.ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestInboundSharedCustodialChain(t *testing.T) {
	f := newFixture(t)
	self := f.bridge.Self
	require.NoError(t, f.registry.AddChain(f.ctx, self, "trx", "trx", "TCommonDeposit"))
	require.NoError(t, f.registry.AddChainCoin(f.ctx, self, "trx", ethSym, asset.MustParse("0.00000000 ETH")))

	p := ethDeposit("alice", "trx-tx-1", "TOther", "1.00000000 ETH")
	p.Chain = "trx"
	_, err := f.xin.CreateInboundOrder(f.ctx, makerAcct, p)
	assert.ErrorIs(t, err, errs.ErrAddressMismatch)

	p.XinTo = "TCommonDeposit"
	order, err := f.xin.CreateInboundOrder(f.ctx, makerAcct, p)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), order.MulsignWalletID)
}

func TestInboundLockMemo(t *testing.T) {
	f := newFixture(t)
	provisionAddress(t, f, "alice", "eth", 7, "0xmultisig")

	order, err := f.xin.CreateInboundOrder(f.ctx, makerAcct, ethDeposit("alice", "0xdeposit7", "0xmultisig", "0.25000000 ETH"))
	require.NoError(t, err)
	assert.Equal(t, uint32(7), order.MulsignWalletID)

	_, err = f.xin.ApproveInboundOrder(f.ctx, checkerAcct, order.ID)
	require.NoError(t, err)

	tr := f.lastTransfer(t)
	assert.Equal(t, "lock:7", tr.Memo)
	assert.Equal(t, "alice", tr.ToAccount)
	assert.Equal(t, "0.25000000 ETH", tr.Quantity.String())
	assert.Empty(t, f.notifier.intents)
}

func TestInboundRewardFailureDoesNotRollBack(t *testing.T) {
	f := newFixture(t)
	f.notifier.fail = errors.New("nats down")
	provisionAddress(t, f, "alice", "eth", 0, "0xabc")
	require.NoError(t, f.admin.SetRewardConf(f.ctx, adminAcct, RewardConfParams{
		Contract: "aplink.farm", CoinCode: "ETH", UnitReward: asset.MustParse("1.0000 APL"),
	}))

	order, err := f.xin.CreateInboundOrder(f.ctx, makerAcct, ethDeposit("alice", "0xdeposit", "0xabc", "3.00000000 ETH"))
	require.NoError(t, err)

	approved, err := f.xin.ApproveInboundOrder(f.ctx, checkerAcct, order.ID)
	require.NoError(t, err)
	assert.Equal(t, fsm.StatusChecked, approved.Status)
	assert.Equal(t, "3.00000000 ETH", f.balance(t, "alice", ethSym))
}

func TestInboundRewardSentOnlyAfterCommit(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.admin.SetRewardConf(f.ctx, adminAcct, RewardConfParams{
		Contract: "aplink.farm", CoinCode: "ETH", UnitReward: asset.MustParse("1.0000 APL"),
	}))
	order := &models.XinOrder{ID: 9, Account: "alice", CoinName: "ETH", Quantity: asset.MustParse("2.00000000 ETH")}

	err := f.exec.Execute(f.ctx, Action{Name: "checkxinord", Caller: checkerAcct}, func(a *ActionContext) error {
		f.xin.notifyReward(a, order)
		return errs.StatusInvalid("commit failed")
	})
	assert.ErrorIs(t, err, errs.ErrStatusInvalid)
	assert.Empty(t, f.notifier.intents)

	err = f.exec.Execute(f.ctx, Action{Name: "checkxinord", Caller: checkerAcct}, func(a *ActionContext) error {
		f.xin.notifyReward(a, order)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, f.notifier.intents, 1)
	assert.Equal(t, "2.0000 APL", f.notifier.intents[0].Reward.String())
	assert.Equal(t, "xin reward: 9", f.notifier.intents[0].Memo)
}

func TestInboundRewardSkippedBelowOneToken(t *testing.T) {
	f := newFixture(t)
	provisionAddress(t, f, "alice", "eth", 0, "0xabc")
	require.NoError(t, f.admin.SetRewardConf(f.ctx, adminAcct, RewardConfParams{
		Contract: "aplink.farm", CoinCode: "ETH", UnitReward: asset.MustParse("1.0000 APL"),
	}))

	order, err := f.xin.CreateInboundOrder(f.ctx, makerAcct, ethDeposit("alice", "0xsmall", "0xabc", "0.90000000 ETH"))
	require.NoError(t, err)
	_, err = f.xin.ApproveInboundOrder(f.ctx, checkerAcct, order.ID)
	require.NoError(t, err)
	assert.Empty(t, f.notifier.intents)
}

func TestInboundCancel(t *testing.T) {
	f := newFixture(t)
	provisionAddress(t, f, "alice", "eth", 0, "0xabc")
	order, err := f.xin.CreateInboundOrder(f.ctx, makerAcct, ethDeposit("alice", "0xdeposit", "0xabc", "1.00000000 ETH"))
	require.NoError(t, err)
	before := f.transferCount(t)

	_, err = f.xin.CancelInboundOrder(f.ctx, makerAcct, order.ID, "spam")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	canceled, err := f.xin.CancelInboundOrder(f.ctx, checkerAcct, order.ID, "reorg")
	require.NoError(t, err)
	assert.Equal(t, fsm.StatusCanceled, canceled.Status)
	assert.Equal(t, "reorg", canceled.CloseReason)
	assert.Equal(t, before, f.transferCount(t))

	_, err = f.xin.ApproveInboundOrder(f.ctx, checkerAcct, order.ID)
	assert.ErrorIs(t, err, errs.ErrStatusInvalid)
	_, err = f.xin.ApproveInboundOrder(f.ctx, checkerAcct, 999)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	orders, total, err := f.xin.ListInboundOrders(f.ctx, repository.OrderFilter{Account: "alice", Status: string(fsm.StatusCanceled)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestApproveWithoutReserveRollsBack(t *testing.T) {
	f := newFixture(t)
	provisionAddress(t, f, "alice", "eth", 0, "0xabc")
	order, err := f.xin.CreateInboundOrder(f.ctx, makerAcct, ethDeposit("alice", "0xhuge", "0xabc", "500.00000000 ETH"))
	require.NoError(t, err)

	_, err = f.xin.ApproveInboundOrder(f.ctx, checkerAcct, order.ID)
	assert.ErrorIs(t, err, errs.ErrInvalidParam)

	var stored models.XinOrder
	require.NoError(t, f.db.First(&stored, order.ID).Error)
	assert.Equal(t, fsm.StatusCreated, stored.Status)
	assert.Empty(t, stored.AmcTxID)
}
