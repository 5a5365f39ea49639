// Package fee computes bridging fees without floating point.
package fee

import (
	"math"

	"github.com/holiman/uint256"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/errs"
)

// RateBase is the denominator of the proportional fee rate (basis points).
const RateBase = 10000

// MulDiv returns floor(a*b/c) with a 256-bit intermediate product.
func MulDiv(a, b, c int64) (int64, error) {
	if a < 0 || b < 0 || c <= 0 {
		return 0, errs.InvalidParam("muldiv operands out of range: %d*%d/%d", a, b, c)
	}
	z, overflow := new(uint256.Int).MulDivOverflow(
		uint256.NewInt(uint64(a)),
		uint256.NewInt(uint64(b)),
		uint256.NewInt(uint64(c)),
	)
	if overflow || !z.IsUint64() || z.Uint64() > math.MaxInt64 {
		return 0, errs.InvalidParam("muldiv overflow: %d*%d/%d", a, b, c)
	}
	return int64(z.Uint64()), nil
}

// Compute returns the total fee for moving quantity over a chain-coin pair:
// the proportional part quantity*feeRate/RateBase, rescaled to the fixed
// fee's precision, plus the fixed chainCoinFee.
func Compute(chainCoinFee, quantity asset.Asset, feeRate int64) (asset.Asset, error) {
	if quantity.Amount < 0 || feeRate < 0 {
		return asset.Asset{}, errs.InvalidParam("fee inputs must not be negative")
	}
	deal, err := MulDiv(quantity.Amount, feeRate, RateBase)
	if err != nil {
		return asset.Asset{}, err
	}
	deal, err = MulDiv(deal, chainCoinFee.Symbol.Unit(), quantity.Symbol.Unit())
	if err != nil {
		return asset.Asset{}, err
	}
	if chainCoinFee.Symbol != quantity.Symbol {
		return asset.Asset{}, errs.New(errs.CodeSymbolMismatch, "fee symbol %s does not match quantity symbol %s",
			chainCoinFee.Symbol, quantity.Symbol)
	}
	return asset.New(deal, chainCoinFee.Symbol).Add(chainCoinFee)
}
