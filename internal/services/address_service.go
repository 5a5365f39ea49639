package services

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"xchain-backend/internal/errs"
	"xchain-backend/internal/models"
	"xchain-backend/internal/utils"
)

// AddressService is the deposit address directory
type AddressService struct {
	exec *Executor
}

func NewAddressService(exec *Executor) *AddressService {
	return &AddressService{exec: exec}
}

type addressParams struct {
	Account  string `json:"account"`
	Chain    string `json:"base_chain"`
	WalletID uint64 `json:"mulsign_wallet_id"`
	XinTo    string `json:"xin_to,omitempty"`
}

// RequestAddress opens a deposit address slot for (account, baseChain,
// walletID). Chains with a common deposit account are provisioned at once
// with the record id as the slot marker.
func (s *AddressService) RequestAddress(ctx context.Context, caller, account, baseChain string, walletID uint64) (*models.AccountXChainAddress, error) {
	var out *models.AccountXChainAddress
	p := addressParams{Account: account, Chain: baseChain, WalletID: walletID}
	err := s.exec.Execute(ctx, Action{Name: "reqxintoaddr", Caller: caller, Params: p}, func(a *ActionContext) error {
		if caller == "" || caller != account {
			return errs.Unauthorized("only %s may request its deposit address", account)
		}
		chain, err := a.Store.Chains().Get(a, baseChain)
		if err != nil {
			return err
		}
		if walletID < math.MaxUint32 {
			if _, err := a.Store.Addresses().Get(a, account, baseChain, uint32(walletID)); err == nil {
				return errs.AlreadyExists("the record already exists")
			} else if !errors.Is(err, errs.ErrNotFound) {
				return err
			}
		}
		if !chain.IsRootChain() {
			return errs.InvalidParam("base chain is incorrect: %s", baseChain)
		}
		if walletID >= math.MaxUint32 {
			return errs.InvalidParam("mulsign_wallet_id overflow")
		}

		addr := &models.AccountXChainAddress{
			Account:         account,
			BaseChain:       baseChain,
			MulsignWalletID: uint32(walletID),
			Status:          models.AddressStatusRequested,
		}
		if err := a.Store.Addresses().Create(a, addr); err != nil {
			return err
		}
		if chain.IsSharedCustodial() {
			addr.Status = models.AddressStatusProvisioned
			addr.XinTo = addr.IDString()
			hash := utils.HashString(addr.XinTo)
			addr.XinToHash = &hash
			if err := a.Store.Addresses().Update(a, addr); err != nil {
				return err
			}
		}
		out = addr
		return nil
	})
	return out, err
}

// AssignAddress binds an external deposit address to a requested slot.
// Assigning the address the slot already holds succeeds without change.
func (s *AddressService) AssignAddress(ctx context.Context, caller, account, baseChain string, walletID uint64, xinTo string) (*models.AccountXChainAddress, error) {
	var out *models.AccountXChainAddress
	p := addressParams{Account: account, Chain: baseChain, WalletID: walletID, XinTo: xinTo}
	err := s.exec.Execute(ctx, Action{Name: "setaddress", Caller: caller, Params: p}, func(a *ActionContext) error {
		if err := requireMaker(a); err != nil {
			return err
		}
		if xinTo == "" || len(xinTo) >= a.Bridge.MaxAddressLength {
			return errs.New(errs.CodeIllegalAddress, "illegal address")
		}
		if _, err := a.Store.Chains().Get(a, baseChain); err != nil {
			return err
		}
		if walletID >= math.MaxUint32 {
			return errs.NotFound("xchain address not found: %s/%s/%d", account, baseChain, walletID)
		}
		addr, err := a.Store.Addresses().Get(a, account, baseChain, uint32(walletID))
		if err != nil {
			return err
		}

		hash := utils.HashString(xinTo)
		bound, err := a.Store.Addresses().GetByXinToHash(a, hash)
		switch {
		case err == nil && bound.ID != addr.ID:
			return errs.AlreadyExists("xin_to already bound to another record: %s", xinTo)
		case err == nil:
			out = addr
			return nil
		case !errors.Is(err, errs.ErrNotFound):
			return err
		}

		addr.Status = models.AddressStatusProvisioned
		addr.XinTo = xinTo
		addr.XinToHash = &hash
		addr.UpdatedAt = a.Now
		if err := a.Store.Addresses().Update(a, addr); err != nil {
			return err
		}
		out = addr
		return nil
	})
	return out, err
}

// ResolveAddress validates a deposit address for chainName and returns the
// base chain and wallet id it belongs to. account is not consulted: the
// deposit address alone identifies the slot.
func (s *AddressService) ResolveAddress(a *ActionContext, account, chainName, xinTo string) (string, uint32, error) {
	chain, err := a.Store.Chains().Get(a, chainName)
	if err != nil {
		return "", 0, err
	}
	if chain.IsSharedCustodial() {
		if chain.CommonXinAccount != xinTo {
			return "", 0, errs.New(errs.CodeAddressMismatch, "xin_to address is not common_xin_account: %s", xinTo)
		}
		return chain.BaseChain, 0, nil
	}

	addr, err := a.Store.Addresses().GetByXinToHash(a, utils.HashString(xinTo))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", 0, errs.NotFound("xchaddrs: the record does not exist, %s, %s", account, chainName)
		}
		return "", 0, err
	}
	if addr.BaseChain != chain.BaseChain {
		return "", 0, errs.New(errs.CodeAddressMismatch, "incorrect base_chain used: %s, %s", addr.BaseChain, chain.BaseChain)
	}
	return chain.BaseChain, addr.MulsignWalletID, nil
}

func (s *AddressService) ListAddresses(ctx context.Context, account string) ([]*models.AccountXChainAddress, error) {
	return s.exec.Store().Addresses().ListByAccount(ctx, account)
}

func (s *AddressService) GetAddressByXinTo(ctx context.Context, xinTo string) (*models.AccountXChainAddress, error) {
	return s.exec.Store().Addresses().GetByXinToHash(ctx, utils.HashString(xinTo))
}
