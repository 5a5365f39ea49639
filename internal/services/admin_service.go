package services

import (
	"context"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/errs"
	"xchain-backend/internal/fee"
	"xchain-backend/internal/models"
)

// InitParams are the roles assigned by Init.
type InitParams struct {
	Admin        string `json:"admin"`
	Maker        string `json:"maker"`
	Checker      string `json:"checker"`
	FeeCollector string `json:"fee_collector"`
}

// RewardConfParams configures the farm reward for one coin.
type RewardConfParams struct {
	Contract   string      `json:"contract"`
	LandID     uint64      `json:"land_id"`
	CoinCode   string      `json:"coin"`
	UnitReward asset.Asset `json:"unit_reward"`
}

// AdminService manages the global state: roles, fee rate and rewards
type AdminService struct {
	exec *Executor
}

func NewAdminService(exec *Executor) *AdminService {
	return &AdminService{exec: exec}
}

// Init sets every role; calling it again overwrites them.
func (s *AdminService) Init(ctx context.Context, caller string, p InitParams) error {
	return s.exec.Execute(ctx, Action{Name: "init", Caller: caller, Params: p}, func(a *ActionContext) error {
		if err := requireSelf(a); err != nil {
			return err
		}
		if p.Admin == "" || p.Maker == "" || p.Checker == "" || p.FeeCollector == "" {
			return errs.InvalidParam("admin, maker, checker and fee_collector are required")
		}
		a.State.Admin = p.Admin
		a.State.Maker = p.Maker
		a.State.Checker = p.Checker
		a.State.FeeCollector = p.FeeCollector
		a.MarkStateDirty()

		a.Log.WithField("maker", p.Maker).WithField("checker", p.Checker).Info("bridge roles set")
		return nil
	})
}

// SetFeeRate sets the proportional fee in units of 1/fee.RateBase.
func (s *AdminService) SetFeeRate(ctx context.Context, caller string, rate int64) error {
	return s.exec.Execute(ctx, Action{Name: "setfeerate", Caller: caller, Params: rate}, func(a *ActionContext) error {
		if err := requireSelf(a); err != nil {
			return err
		}
		if rate < 0 || rate > fee.RateBase {
			return errs.InvalidParam("fee rate must be within [0, %d]", fee.RateBase)
		}
		a.State.FeeRate = rate
		a.MarkStateDirty()
		return nil
	})
}

// SetRewardConf sets the farm target and the per-token reward of a coin. A
// zero unit reward removes the coin's entry.
func (s *AdminService) SetRewardConf(ctx context.Context, caller string, p RewardConfParams) error {
	return s.exec.Execute(ctx, Action{Name: "setrewardconf", Caller: caller, Params: p}, func(a *ActionContext) error {
		if err := requireSelfOrAdmin(a); err != nil {
			return err
		}
		if p.Contract == "" {
			return errs.InvalidParam("farm contract is required")
		}
		if !p.UnitReward.IsValid() || p.UnitReward.Amount < 0 {
			return errs.InvalidParam("invalid unit reward: %s", p.UnitReward)
		}
		if _, err := a.Store.Coins().Get(a, p.CoinCode); err != nil {
			return err
		}

		farm := &a.State.Farm
		farm.Contract = p.Contract
		farm.LandID = p.LandID
		if farm.XinRewardConf == nil {
			farm.XinRewardConf = make(map[string]asset.Asset)
		}
		if p.UnitReward.IsZero() {
			delete(farm.XinRewardConf, p.CoinCode)
		} else {
			farm.XinRewardConf[p.CoinCode] = p.UnitReward
		}
		a.MarkStateDirty()
		return nil
	})
}

// GetState returns the stored global state.
func (s *AdminService) GetState(ctx context.Context) (*models.GlobalState, error) {
	return s.exec.Store().State().Get(ctx)
}
