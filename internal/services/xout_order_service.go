package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/errs"
	"xchain-backend/internal/events"
	"xchain-backend/internal/fee"
	"xchain-backend/internal/fsm"
	"xchain-backend/internal/metrics"
	"xchain-backend/internal/models"
	"xchain-backend/internal/repository"
	"xchain-backend/internal/utils"
)

// withdrawMemoFields is the field count of
// external_address:chain:coin,precision:wallet_id:user_memo
const withdrawMemoFields = 5

type markSentParams struct {
	ID       uint64 `json:"id"`
	TxID     string `json:"txid"`
	XoutFrom string `json:"xout_from"`
}

// XoutOrderService runs the outbound (withdrawal) order workflow
type XoutOrderService struct {
	exec *Executor
}

func NewXoutOrderService(exec *Executor) *XoutOrderService {
	return &XoutOrderService{exec: exec}
}

// OnIncomingTransfer turns a transfer to the bridge account into a
// withdrawal order. Transfers not meant for the bridge return (nil, nil).
func (s *XoutOrderService) OnIncomingTransfer(a *ActionContext, n events.TransferNotice) (*models.XoutOrder, error) {
	if len(n.Memo) > a.Bridge.MaxMemoLength {
		return nil, errs.InvalidParam("memo has more than %d bytes", a.Bridge.MaxMemoLength)
	}
	if n.From == a.Bridge.Self || n.To != a.Bridge.Self {
		return nil, nil
	}
	if n.Issuer != a.Bridge.Bank {
		return nil, nil
	}
	if n.Memo == a.Bridge.RefuelMemo {
		return nil, nil
	}

	parts := strings.SplitN(n.Memo, ":", withdrawMemoFields)
	if len(parts) < withdrawMemoFields {
		return nil, errs.InvalidParam("memo must be address:chain:coin,precision:wallet_id:memo")
	}
	xoutTo, chain, coinStr, walletStr, userMemo := parts[0], parts[1], parts[2], parts[3], parts[4]
	if xoutTo == "" {
		return nil, errs.InvalidParam("withdraw address is empty")
	}
	coin, err := asset.ParseSymbol(coinStr)
	if err != nil {
		return nil, err
	}
	if coin != n.Quantity.Symbol {
		return nil, errs.New(errs.CodeSymbolMismatch, "memo coin %s does not match quantity %s", coin, n.Quantity.Symbol)
	}
	chainCoin, err := a.Store.ChainCoins().Get(a, chain, coin.Code)
	if err != nil {
		return nil, err
	}
	walletID, err := strconv.ParseUint(walletStr, 10, 32)
	if err != nil {
		return nil, errs.InvalidParam("invalid wallet id: %q", walletStr)
	}
	if !n.Quantity.IsPositive() {
		return nil, errs.InvalidParam("quantity must be positive")
	}

	f, err := fee.Compute(chainCoin.Fee, n.Quantity, a.State.FeeRate)
	if err != nil {
		return nil, err
	}
	if f.Amount > n.Quantity.Amount {
		return nil, errs.InvalidParam("fee %s exceeds quantity %s", f, n.Quantity)
	}
	net, err := n.Quantity.Sub(f)
	if err != nil {
		return nil, err
	}

	order := &models.XoutOrder{
		Account:         n.From,
		AmcTxID:         a.TxID(),
		MulsignWalletID: uint32(walletID),
		XoutTo:          xoutTo,
		Chain:           chain,
		CoinName:        coin.Code,
		ApplyQuantity:   n.Quantity,
		Quantity:        net,
		Fee:             f,
		Status:          fsm.StatusCreated,
		Memo:            userMemo,
		CreatedAt:       a.Now,
		UpdatedAt:       a.Now,
	}
	if err := a.Store.XoutOrders().Create(a, order); err != nil {
		return nil, err
	}
	a.Log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"account":  order.Account,
		"quantity": order.ApplyQuantity.String(),
		"fee":      order.Fee.String(),
	}).Info("xout order created")
	a.Emit(xoutEvent(order, n.From))
	return order, nil
}

// HandleTransferNotice processes a notice delivered by the bank feed. The
// feed speaks for the bank only; a notice naming another issuer is refused.
func (s *XoutOrderService) HandleTransferNotice(ctx context.Context, n events.TransferNotice) error {
	bank := s.exec.Bridge().Bank
	if n.Issuer != "" && n.Issuer != bank {
		return errs.Unauthorized("transfer feed only carries notices from %s, got %s", bank, n.Issuer)
	}
	_, err := s.Notify(ctx, bank, n)
	return err
}

// Notify processes a transfer notice whose issuer is the authenticated
// caller. Funds accepted for withdrawal are credited to the bridge in the
// same action, so a later cancel refunds what the bank handed over.
func (s *XoutOrderService) Notify(ctx context.Context, caller string, n events.TransferNotice) (*models.XoutOrder, error) {
	n.Issuer = caller
	var out *models.XoutOrder
	err := s.exec.Execute(ctx, Action{Name: "ontransfer", Caller: caller, Params: n}, func(a *ActionContext) error {
		order, err := s.OnIncomingTransfer(a, n)
		if err != nil || order == nil {
			return err
		}
		memo := "bank deposit: " + strconv.FormatUint(order.ID, 10)
		if err := a.Ledger.Issue(a, a.Bridge.Self, order.ApplyQuantity, memo); err != nil {
			return err
		}
		out = order
		return nil
	})
	return out, err
}

// MarkSent records the external transaction that pays out the order.
func (s *XoutOrderService) MarkSent(ctx context.Context, caller string, id uint64, txid, xoutFrom string) (*models.XoutOrder, error) {
	var out *models.XoutOrder
	p := markSentParams{ID: id, TxID: txid, XoutFrom: xoutFrom}
	err := s.exec.Execute(ctx, Action{Name: "setxousent", Caller: caller, Params: p}, func(a *ActionContext) error {
		if err := requireMaker(a); err != nil {
			return err
		}
		order, err := a.Store.XoutOrders().GetByID(a, id)
		if err != nil {
			return err
		}
		if err := fsm.Xout.Transition(order.Status, fsm.StatusSent); err != nil {
			return err
		}
		if txid == "" {
			return errs.InvalidParam("txid is required")
		}
		hash := utils.HashString(txid)
		used, err := a.Store.XoutOrders().ExistsByTxIDHash(a, hash)
		if err != nil {
			return err
		}
		if used {
			return errs.AlreadyExists("txid already existing: %s", txid)
		}

		err = a.Store.XoutOrders().UpdateStatus(a, id, order.Status, fsm.StatusSent, map[string]interface{}{
			"txid":       txid,
			"txid_hash":  hash,
			"xout_from":  xoutFrom,
			"maker":      a.Caller,
			"updated_at": a.Now,
		})
		if err != nil {
			return err
		}
		order.Status = fsm.StatusSent
		order.TxID = txid
		order.TxIDHash = &hash
		order.XoutFrom = xoutFrom
		order.Maker = a.Caller

		a.Emit(xoutEvent(order, a.Caller))
		out = order
		return nil
	})
	return out, err
}

// ConfirmSent marks the external payout as confirmed on chain.
func (s *XoutOrderService) ConfirmSent(ctx context.Context, caller string, id uint64) (*models.XoutOrder, error) {
	var out *models.XoutOrder
	err := s.exec.Execute(ctx, Action{Name: "setxouconfm", Caller: caller, Params: orderActionParams{ID: id}}, func(a *ActionContext) error {
		if err := requireMaker(a); err != nil {
			return err
		}
		order, err := a.Store.XoutOrders().GetByID(a, id)
		if err != nil {
			return err
		}
		if err := fsm.Xout.Transition(order.Status, fsm.StatusConfirmed); err != nil {
			return err
		}
		err = a.Store.XoutOrders().UpdateStatus(a, id, order.Status, fsm.StatusConfirmed, map[string]interface{}{
			"updated_at": a.Now,
		})
		if err != nil {
			return err
		}
		order.Status = fsm.StatusConfirmed

		a.Emit(xoutEvent(order, a.Caller))
		out = order
		return nil
	})
	return out, err
}

// ApproveOutboundOrder closes a confirmed order and pays the fee to the fee
// collector.
func (s *XoutOrderService) ApproveOutboundOrder(ctx context.Context, caller string, id uint64) (*models.XoutOrder, error) {
	var out *models.XoutOrder
	err := s.exec.Execute(ctx, Action{Name: "checkxouord", Caller: caller, Params: orderActionParams{ID: id}}, func(a *ActionContext) error {
		if err := requireChecker(a); err != nil {
			return err
		}
		order, err := a.Store.XoutOrders().GetByID(a, id)
		if err != nil {
			return err
		}
		if err := fsm.Xout.Transition(order.Status, fsm.StatusChecked); err != nil {
			return err
		}

		closedAt := a.Now
		err = a.Store.XoutOrders().UpdateStatus(a, id, order.Status, fsm.StatusChecked, map[string]interface{}{
			"checker":    a.Caller,
			"closed_at":  closedAt,
			"updated_at": a.Now,
		})
		if err != nil {
			return err
		}
		order.Status = fsm.StatusChecked
		order.Checker = a.Caller
		order.ClosedAt = &closedAt

		if order.Fee.IsPositive() {
			if a.State.FeeCollector == "" {
				return errs.InvalidParam("fee collector is not set")
			}
			memo := strconv.FormatUint(order.ID, 10)
			if err := a.Ledger.Transfer(a, a.Bridge.Self, a.State.FeeCollector, order.Fee, memo); err != nil {
				return err
			}
			collected, _ := order.Fee.Decimal().Float64()
			metrics.FeesCollected.WithLabelValues(order.Fee.Symbol.Code).Add(collected)
		}

		a.Emit(xoutEvent(order, a.Caller))
		out = order
		return nil
	})
	return out, err
}

// CancelOutboundOrder closes an open order and refunds the full applied
// quantity, fee included.
func (s *XoutOrderService) CancelOutboundOrder(ctx context.Context, caller string, id uint64, reason string) (*models.XoutOrder, error) {
	var out *models.XoutOrder
	err := s.exec.Execute(ctx, Action{Name: "cancelxouord", Caller: caller, Params: orderActionParams{ID: id, Reason: reason}}, func(a *ActionContext) error {
		if err := requireMakerOrChecker(a); err != nil {
			return err
		}
		order, err := a.Store.XoutOrders().GetByID(a, id)
		if err != nil {
			return err
		}
		if err := fsm.Xout.Transition(order.Status, fsm.StatusCanceled); err != nil {
			return err
		}

		closedAt := a.Now
		err = a.Store.XoutOrders().UpdateStatus(a, id, order.Status, fsm.StatusCanceled, map[string]interface{}{
			"checker":      a.Caller,
			"close_reason": reason,
			"closed_at":    closedAt,
			"updated_at":   a.Now,
		})
		if err != nil {
			return err
		}
		order.Status = fsm.StatusCanceled
		order.Checker = a.Caller
		order.CloseReason = reason
		order.ClosedAt = &closedAt

		refundMemo := releaseMemo(order.ID, order.MulsignWalletID)
		if err := a.Ledger.Transfer(a, a.Bridge.Self, order.Account, order.ApplyQuantity, refundMemo); err != nil {
			return err
		}

		a.Emit(xoutEvent(order, a.Caller))
		out = order
		return nil
	})
	return out, err
}

func (s *XoutOrderService) GetOutboundOrder(ctx context.Context, id uint64) (*models.XoutOrder, error) {
	return s.exec.Store().XoutOrders().GetByID(ctx, id)
}

func (s *XoutOrderService) ListOutboundOrders(ctx context.Context, filter repository.OrderFilter) ([]*models.XoutOrder, int64, error) {
	return s.exec.Store().XoutOrders().List(ctx, filter)
}

func xoutEvent(o *models.XoutOrder, actor string) events.OrderEvent {
	return events.OrderEvent{
		Kind:     events.OrderKindXout,
		OrderID:  o.ID,
		Account:  o.Account,
		Chain:    o.Chain,
		Status:   o.Status,
		Quantity: o.Quantity,
		Actor:    actor,
	}
}
