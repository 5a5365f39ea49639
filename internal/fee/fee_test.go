package fee

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/errs"
)

func TestComputeBTCWithdrawal(t *testing.T) {
	fixed := asset.MustParse("0.00050000 BTC")
	quantity := asset.MustParse("2.00000000 BTC")

	f, err := Compute(fixed, quantity, 10)
	require.NoError(t, err)
	assert.Equal(t, "0.00250000 BTC", f.String())

	net, err := quantity.Sub(f)
	require.NoError(t, err)
	assert.Equal(t, "1.99750000 BTC", net.String())
}

func TestComputeTruncates(t *testing.T) {
	zero := asset.MustParse("0.00000000 BTC")
	// 0.00000999 BTC at 10 bp is 0.00000000999, truncated to zero.
	f, err := Compute(zero, asset.MustParse("0.00000999 BTC"), 10)
	require.NoError(t, err)
	assert.True(t, f.IsZero())
}

func TestComputeMonotonic(t *testing.T) {
	fixed := asset.MustParse("0.0001 ETH")
	prev := int64(-1)
	for amount := int64(0); amount < 50000; amount += 137 {
		f, err := Compute(fixed, asset.New(amount, fixed.Symbol), 25)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, f.Amount, prev)
		prev = f.Amount
	}
}

func TestComputeBoundedByQuantity(t *testing.T) {
	zero := asset.MustParse("0.00000000 ETH")
	for _, rate := range []int64{0, 1, 10, 5000, RateBase - 1} {
		for _, amount := range []int64{1, 99, 100000000, math.MaxInt64 / 2} {
			q := asset.New(amount, zero.Symbol)
			f, err := Compute(zero, q, rate)
			require.NoError(t, err)
			assert.LessOrEqual(t, f.Amount, q.Amount)
		}
	}
}

func TestComputeSymbolMismatch(t *testing.T) {
	_, err := Compute(asset.MustParse("0.0005 BTC"), asset.MustParse("1.00000000 ETH"), 10)
	assert.ErrorIs(t, err, errs.ErrSymbolMismatch)
}

func TestMulDivLargeOperands(t *testing.T) {
	v, err := MulDiv(math.MaxInt64, RateBase, RateBase)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), v)

	_, err = MulDiv(math.MaxInt64, 2, 1)
	assert.ErrorIs(t, err, errs.ErrInvalidParam)

	_, err = MulDiv(1, 1, 0)
	assert.Error(t, err)
}
