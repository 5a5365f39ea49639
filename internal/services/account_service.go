package services

import (
	"context"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/errs"
	"xchain-backend/internal/ledger"
)

type issueParams struct {
	To       string      `json:"to"`
	Quantity asset.Asset `json:"quantity"`
	Memo     string      `json:"memo"`
}

// AccountService opens ledger accounts and mints funds into them
type AccountService struct {
	exec *Executor
}

func NewAccountService(exec *Executor) *AccountService {
	return &AccountService{exec: exec}
}

func (s *AccountService) OpenAccount(ctx context.Context, caller, name string) error {
	return s.exec.Execute(ctx, Action{Name: "open", Caller: caller, Params: name}, func(a *ActionContext) error {
		if err := requireSelfOrBank(a); err != nil {
			return err
		}
		if name == "" {
			return errs.InvalidParam("account name is required")
		}
		return a.Ledger.OpenAccount(a, name)
	})
}

func (s *AccountService) Issue(ctx context.Context, caller, to string, quantity asset.Asset, memo string) error {
	p := issueParams{To: to, Quantity: quantity, Memo: memo}
	return s.exec.Execute(ctx, Action{Name: "issue", Caller: caller, Params: p}, func(a *ActionContext) error {
		if err := requireSelfOrBank(a); err != nil {
			return err
		}
		return a.Ledger.Issue(a, to, quantity, memo)
	})
}

// Balances lists the holdings of account.
func (s *AccountService) Balances(ctx context.Context, account string) ([]asset.Asset, error) {
	return ledger.New(s.exec.Store().DB(), "").Balances(ctx, account)
}
