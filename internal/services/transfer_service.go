package services

import (
	"context"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/errs"
	"xchain-backend/internal/events"
	"xchain-backend/internal/models"
)

// TransferParams move funds from the caller.
type TransferParams struct {
	To       string      `json:"to"`
	Quantity asset.Asset `json:"quantity"`
	Memo     string      `json:"memo"`
}

// TransferService moves ledger funds between accounts. A transfer to the
// bridge account is delivered to the outbound engine in the same
// transaction.
type TransferService struct {
	exec *Executor
	xout *XoutOrderService
}

func NewTransferService(exec *Executor, xout *XoutOrderService) *TransferService {
	return &TransferService{exec: exec, xout: xout}
}

// Transfer returns the withdrawal order the transfer opened, if any.
func (s *TransferService) Transfer(ctx context.Context, caller string, p TransferParams) (*models.XoutOrder, error) {
	var out *models.XoutOrder
	err := s.exec.Execute(ctx, Action{Name: "transfer", Caller: caller, Params: p}, func(a *ActionContext) error {
		if caller == "" {
			return errs.Unauthorized("missing sender")
		}
		if err := a.Ledger.Transfer(a, caller, p.To, p.Quantity, p.Memo); err != nil {
			return err
		}
		if p.To != a.Bridge.Self {
			return nil
		}
		order, err := s.xout.OnIncomingTransfer(a, events.TransferNotice{
			Issuer:   a.Bridge.Bank,
			From:     caller,
			To:       p.To,
			Quantity: p.Quantity,
			Memo:     p.Memo,
		})
		out = order
		return err
	})
	return out, err
}
