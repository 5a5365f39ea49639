package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/errs"
	"xchain-backend/internal/models"
)

// RegistryService maintains chains, coins and the chain-coin fee pairs
type RegistryService struct {
	exec *Executor
}

func NewRegistryService(exec *Executor) *RegistryService {
	return &RegistryService{exec: exec}
}

type chainParams struct {
	Chain            string `json:"chain"`
	BaseChain        string `json:"base_chain,omitempty"`
	CommonXinAccount string `json:"common_xin_account,omitempty"`
}

func (s *RegistryService) AddChain(ctx context.Context, caller, chain, baseChain, commonXinAccount string) error {
	p := chainParams{Chain: chain, BaseChain: baseChain, CommonXinAccount: commonXinAccount}
	return s.exec.Execute(ctx, Action{Name: "addchain", Caller: caller, Params: p}, func(a *ActionContext) error {
		if err := requireSelfOrAdmin(a); err != nil {
			return err
		}
		if chain == "" || baseChain == "" {
			return errs.InvalidParam("chain and base_chain are required")
		}
		exists, err := a.Store.Chains().Exists(a, chain)
		if err != nil {
			return err
		}
		if exists {
			return errs.AlreadyExists("chain already exists: %s", chain)
		}
		return a.Store.Chains().Create(a, &models.Chain{
			Chain:            chain,
			BaseChain:        baseChain,
			CommonXinAccount: commonXinAccount,
		})
	})
}

// DelChain removes a chain. Chain-coin rows still naming it are left in
// place and reported in the log.
func (s *RegistryService) DelChain(ctx context.Context, caller, chain string) error {
	return s.exec.Execute(ctx, Action{Name: "delchain", Caller: caller, Params: chainParams{Chain: chain}}, func(a *ActionContext) error {
		if err := requireSelfOrAdmin(a); err != nil {
			return err
		}
		if err := a.Store.Chains().Delete(a, chain); err != nil {
			return err
		}
		n, err := a.Store.ChainCoins().CountByChain(a, chain)
		if err != nil {
			a.Log.WithField("chain", chain).WithError(err).Warn("count chain coins of deleted chain")
		} else if n > 0 {
			a.Log.WithFields(logrus.Fields{"chain": chain, "chain_coins": n}).
				Warn("deleted chain is still referenced by chain coins")
		}
		return nil
	})
}

func (s *RegistryService) AddCoin(ctx context.Context, caller string, sym asset.Symbol) error {
	return s.exec.Execute(ctx, Action{Name: "addcoin", Caller: caller, Params: sym.String()}, func(a *ActionContext) error {
		if err := requireSelfOrAdmin(a); err != nil {
			return err
		}
		if !sym.IsValid() {
			return errs.InvalidParam("invalid symbol: %s", sym)
		}
		exists, err := a.Store.Coins().Exists(a, sym.Code)
		if err != nil {
			return err
		}
		if exists {
			return errs.AlreadyExists("coin already exists: %s", sym.Code)
		}
		return a.Store.Coins().Create(a, &models.Coin{Code: sym.Code, Precision: sym.Precision})
	})
}

// DelCoin removes a coin. Chain-coin rows still naming it are left in place
// and reported in the log.
func (s *RegistryService) DelCoin(ctx context.Context, caller, code string) error {
	return s.exec.Execute(ctx, Action{Name: "delcoin", Caller: caller, Params: code}, func(a *ActionContext) error {
		if err := requireSelfOrAdmin(a); err != nil {
			return err
		}
		if err := a.Store.Coins().Delete(a, code); err != nil {
			return err
		}
		n, err := a.Store.ChainCoins().CountByCoin(a, code)
		if err != nil {
			a.Log.WithField("coin", code).WithError(err).Warn("count chain coins of deleted coin")
		} else if n > 0 {
			a.Log.WithFields(logrus.Fields{"coin": code, "chain_coins": n}).
				Warn("deleted coin is still referenced by chain coins")
		}
		return nil
	})
}

type chainCoinParams struct {
	Chain string `json:"chain"`
	Coin  string `json:"coin"`
	Fee   string `json:"fee,omitempty"`
}

// AddChainCoin enables coin on chain with a fixed fee in the same symbol.
func (s *RegistryService) AddChainCoin(ctx context.Context, caller, chain string, coin asset.Symbol, fixedFee asset.Asset) error {
	p := chainCoinParams{Chain: chain, Coin: coin.String(), Fee: fixedFee.String()}
	return s.exec.Execute(ctx, Action{Name: "addchaincoin", Caller: caller, Params: p}, func(a *ActionContext) error {
		if err := requireSelfOrAdmin(a); err != nil {
			return err
		}
		if coin != fixedFee.Symbol {
			return errs.New(errs.CodeSymbolMismatch, "fee symbol %s does not match coin %s", fixedFee.Symbol, coin)
		}
		if !fixedFee.IsValid() || fixedFee.Amount < 0 {
			return errs.InvalidParam("invalid fee: %s", fixedFee)
		}
		exists, err := a.Store.ChainCoins().Exists(a, chain, coin.Code)
		if err != nil {
			return err
		}
		if exists {
			return errs.AlreadyExists("chain coin already exists: %s/%s", chain, coin.Code)
		}
		return a.Store.ChainCoins().Create(a, &models.ChainCoin{Chain: chain, CoinCode: coin.Code, Fee: fixedFee})
	})
}

func (s *RegistryService) DelChainCoin(ctx context.Context, caller, chain, coinCode string) error {
	p := chainCoinParams{Chain: chain, Coin: coinCode}
	return s.exec.Execute(ctx, Action{Name: "delchaincoin", Caller: caller, Params: p}, func(a *ActionContext) error {
		if err := requireSelfOrAdmin(a); err != nil {
			return err
		}
		return a.Store.ChainCoins().Delete(a, chain, coinCode)
	})
}

func (s *RegistryService) ListChains(ctx context.Context) ([]*models.Chain, error) {
	return s.exec.Store().Chains().List(ctx)
}

func (s *RegistryService) ListCoins(ctx context.Context) ([]*models.Coin, error) {
	return s.exec.Store().Coins().List(ctx)
}

func (s *RegistryService) ListChainCoins(ctx context.Context, chain string) ([]*models.ChainCoin, error) {
	return s.exec.Store().ChainCoins().List(ctx, chain)
}
