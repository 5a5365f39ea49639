package services

import (
	"xchain-backend/internal/errs"
)

func requireSelf(a *ActionContext) error {
	if a.Caller == "" || a.Caller != a.Bridge.Self {
		return errs.Unauthorized("only %s may perform this action", a.Bridge.Self)
	}
	return nil
}

func requireSelfOrAdmin(a *ActionContext) error {
	if a.Caller != "" && (a.Caller == a.Bridge.Self || a.Caller == a.State.Admin) {
		return nil
	}
	return errs.Unauthorized("no auth for operate")
}

func requireMaker(a *ActionContext) error {
	if a.State.Maker == "" || a.Caller != a.State.Maker {
		return errs.Unauthorized("only the maker may perform this action")
	}
	return nil
}

func requireChecker(a *ActionContext) error {
	if a.State.Checker == "" || a.Caller != a.State.Checker {
		return errs.Unauthorized("only the checker may perform this action")
	}
	return nil
}

func requireMakerOrChecker(a *ActionContext) error {
	if a.Caller != "" && (a.Caller == a.State.Maker || a.Caller == a.State.Checker) {
		return nil
	}
	return errs.Unauthorized("account is not checker or maker")
}

func requireSelfOrBank(a *ActionContext) error {
	if a.Caller != "" && (a.Caller == a.Bridge.Self || a.Caller == a.Bridge.Bank) {
		return nil
	}
	return errs.Unauthorized("only %s or %s may perform this action", a.Bridge.Self, a.Bridge.Bank)
}
