package services

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/errs"
	"xchain-backend/internal/events"
	"xchain-backend/internal/fsm"
	"xchain-backend/internal/metrics"
	"xchain-backend/internal/models"
	"xchain-backend/internal/repository"
	"xchain-backend/internal/utils"
)

// InboundOrderParams describe a deposit observed on an external chain.
type InboundOrderParams struct {
	To       string       `json:"to"`
	Chain    string       `json:"chain"`
	Coin     asset.Symbol `json:"coin"`
	TxID     string       `json:"txid"`
	XinFrom  string       `json:"xin_from"`
	XinTo    string       `json:"xin_to"`
	Quantity asset.Asset  `json:"quantity"`
}

type orderActionParams struct {
	ID     uint64 `json:"id"`
	Reason string `json:"reason,omitempty"`
}

// XinOrderService runs the inbound (deposit) order workflow
type XinOrderService struct {
	exec      *Executor
	addresses *AddressService
	notifier  events.RewardNotifier
}

func NewXinOrderService(exec *Executor, addresses *AddressService, notifier events.RewardNotifier) *XinOrderService {
	if notifier == nil {
		notifier = events.NoopRewardNotifier{}
	}
	return &XinOrderService{exec: exec, addresses: addresses, notifier: notifier}
}

// CreateInboundOrder records a deposit in created for the checker to approve.
func (s *XinOrderService) CreateInboundOrder(ctx context.Context, caller string, p InboundOrderParams) (*models.XinOrder, error) {
	var out *models.XinOrder
	err := s.exec.Execute(ctx, Action{Name: "mkxinorder", Caller: caller, Params: p}, func(a *ActionContext) error {
		if err := requireMaker(a); err != nil {
			return err
		}
		if p.Quantity.Symbol != p.Coin {
			return errs.New(errs.CodeSymbolMismatch, "quantity symbol %s does not match coin %s", p.Quantity.Symbol, p.Coin)
		}
		open, err := a.Ledger.AccountExists(a, p.To)
		if err != nil {
			return err
		}
		if !open {
			return errs.InvalidParam("to account does not exist: %s", p.To)
		}
		if !p.Quantity.IsValid() || !p.Quantity.IsPositive() {
			return errs.InvalidParam("quantity must be positive")
		}
		if p.TxID == "" {
			return errs.InvalidParam("txid is required")
		}
		if _, err := a.Store.ChainCoins().Get(a, p.Chain, p.Coin.Code); err != nil {
			return err
		}
		if p.XinFrom == "" {
			return errs.New(errs.CodeIllegalAddress, "xin_from is required")
		}
		_, walletID, err := s.addresses.ResolveAddress(a, p.To, p.Chain, p.XinTo)
		if err != nil {
			return err
		}

		hash := utils.HashString(p.TxID)
		used, err := a.Store.XinOrders().ExistsByTxIDHash(a, hash)
		if err != nil {
			return err
		}
		if used {
			return errs.AlreadyExists("txid already existing: %s", p.TxID)
		}

		order := &models.XinOrder{
			TxID:            p.TxID,
			TxIDHash:        hash,
			Account:         p.To,
			MulsignWalletID: walletID,
			XinFrom:         p.XinFrom,
			XinTo:           p.XinTo,
			Chain:           p.Chain,
			CoinName:        p.Coin.Code,
			Quantity:        p.Quantity,
			Status:          fsm.StatusCreated,
			Maker:           a.State.Maker,
			CreatedAt:       a.Now,
			UpdatedAt:       a.Now,
		}
		if err := a.Store.XinOrders().Create(a, order); err != nil {
			return err
		}
		a.Emit(xinEvent(order, a.Caller))
		out = order
		return nil
	})
	return out, err
}

// ApproveInboundOrder releases the deposit to the account and fires the farm
// reward when one is configured for the coin.
func (s *XinOrderService) ApproveInboundOrder(ctx context.Context, caller string, id uint64) (*models.XinOrder, error) {
	var out *models.XinOrder
	err := s.exec.Execute(ctx, Action{Name: "checkxinord", Caller: caller, Params: orderActionParams{ID: id}}, func(a *ActionContext) error {
		if err := requireChecker(a); err != nil {
			return err
		}
		order, err := a.Store.XinOrders().GetByID(a, id)
		if err != nil {
			return err
		}
		if err := fsm.Xin.Transition(order.Status, fsm.StatusChecked); err != nil {
			return err
		}

		closedAt := a.Now
		order.AmcTxID = a.TxID()
		order.Checker = a.Caller
		order.ClosedAt = &closedAt
		err = a.Store.XinOrders().UpdateStatus(a, id, order.Status, fsm.StatusChecked, map[string]interface{}{
			"amc_txid":   order.AmcTxID,
			"checker":    order.Checker,
			"closed_at":  closedAt,
			"updated_at": a.Now,
		})
		if err != nil {
			return err
		}
		order.Status = fsm.StatusChecked

		if err := a.Ledger.Transfer(a, a.Bridge.Self, order.Account, order.Quantity, releaseMemo(order.ID, order.MulsignWalletID)); err != nil {
			return err
		}
		s.notifyReward(a, order)

		a.Emit(xinEvent(order, a.Caller))
		out = order
		return nil
	})
	return out, err
}

// notifyReward sends the reward intent once the approval has committed and
// never fails it.
func (s *XinOrderService) notifyReward(a *ActionContext, order *models.XinOrder) {
	farm := a.State.Farm
	unit, ok := farm.XinRewardConf[order.CoinName]
	if !ok || farm.Contract == "" {
		return
	}
	log := a.Log.WithFields(logrus.Fields{"order_id": order.ID, "coin": order.CoinName})

	reward, err := unit.MulInt(order.Quantity.Amount / order.Quantity.Symbol.Unit())
	if err != nil {
		metrics.RewardNotifyFailures.Inc()
		log.WithError(err).Warn("reward overflow")
		return
	}
	if !reward.IsPositive() {
		return
	}

	intent := events.RewardIntent{
		Contract:  farm.Contract,
		LandID:    farm.LandID,
		Account:   order.Account,
		Reward:    reward,
		Memo:      "xin reward: " + strconv.FormatUint(order.ID, 10),
		OrderID:   order.ID,
		RequestID: a.RequestID,
	}
	a.AfterCommit(func(ctx context.Context) {
		if err := s.notifier.NotifyReward(ctx, intent); err != nil {
			metrics.RewardNotifyFailures.Inc()
			log.WithError(err).Warn("failed to notify reward")
			return
		}
		log.WithField("reward", reward.String()).Info("reward notified")
	})
}

// CancelInboundOrder closes a created order without moving funds.
func (s *XinOrderService) CancelInboundOrder(ctx context.Context, caller string, id uint64, reason string) (*models.XinOrder, error) {
	var out *models.XinOrder
	err := s.exec.Execute(ctx, Action{Name: "cancelxinord", Caller: caller, Params: orderActionParams{ID: id, Reason: reason}}, func(a *ActionContext) error {
		if err := requireChecker(a); err != nil {
			return err
		}
		order, err := a.Store.XinOrders().GetByID(a, id)
		if err != nil {
			return err
		}
		if err := fsm.Xin.Transition(order.Status, fsm.StatusCanceled); err != nil {
			return err
		}

		closedAt := a.Now
		err = a.Store.XinOrders().UpdateStatus(a, id, order.Status, fsm.StatusCanceled, map[string]interface{}{
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

		a.Emit(xinEvent(order, a.Caller))
		out = order
		return nil
	})
	return out, err
}

func (s *XinOrderService) GetInboundOrder(ctx context.Context, id uint64) (*models.XinOrder, error) {
	return s.exec.Store().XinOrders().GetByID(ctx, id)
}

func (s *XinOrderService) ListInboundOrders(ctx context.Context, filter repository.OrderFilter) ([]*models.XinOrder, int64, error) {
	return s.exec.Store().XinOrders().List(ctx, filter)
}

// releaseMemo is the memo on funds leaving the bridge for an account:
// the order id, or lock:<wallet> for multisig wallets.
func releaseMemo(orderID uint64, walletID uint32) string {
	if walletID > 0 {
		return "lock:" + strconv.FormatUint(uint64(walletID), 10)
	}
	return strconv.FormatUint(orderID, 10)
}

func xinEvent(o *models.XinOrder, actor string) events.OrderEvent {
	return events.OrderEvent{
		Kind:     events.OrderKindXin,
		OrderID:  o.ID,
		Account:  o.Account,
		Chain:    o.Chain,
		Status:   o.Status,
		Quantity: o.Quantity,
		Actor:    actor,
	}
}
