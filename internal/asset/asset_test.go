package asset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchain-backend/internal/errs"
)

func TestParseAsset(t *testing.T) {
	a, err := ParseAsset("2.00000000 BTC")
	require.NoError(t, err)
	assert.Equal(t, int64(200000000), a.Amount)
	assert.Equal(t, Symbol{Code: "BTC", Precision: 8}, a.Symbol)
	assert.Equal(t, "2.00000000 BTC", a.String())

	a, err = ParseAsset("15 APL")
	require.NoError(t, err)
	assert.Equal(t, int64(15), a.Amount)
	assert.Equal(t, uint8(0), a.Symbol.Precision)

	a, err = ParseAsset("-0.0005 ETH")
	require.NoError(t, err)
	assert.Equal(t, int64(-5), a.Amount)
	assert.Equal(t, "-0.0005 ETH", a.String())
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, str := range []string{"", "1.0", "1.0 eth", "x BTC", "1.0 TOOLONGCODE", "1 BTC extra"} {
		_, err := ParseAsset(str)
		assert.ErrorIs(t, err, errs.ErrInvalidParam, str)
	}
}

func TestParseSymbol(t *testing.T) {
	s, err := ParseSymbol("ETH,8")
	require.NoError(t, err)
	assert.Equal(t, Symbol{Code: "ETH", Precision: 8}, s)
	assert.Equal(t, int64(100000000), s.Unit())
	assert.Equal(t, "ETH,8", s.String())

	for _, str := range []string{"ETH", "ETH,", "eth,8", "ETH,19", ",8"} {
		_, err := ParseSymbol(str)
		assert.Error(t, err, str)
	}
}

func TestArithmetic(t *testing.T) {
	a := MustParse("2.00000000 BTC")
	b := MustParse("0.00250000 BTC")

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, "1.99750000 BTC", diff.String())

	sum, err := diff.Add(b)
	require.NoError(t, err)
	assert.Equal(t, a, sum)

	_, err = a.Add(MustParse("1.00000000 ETH"))
	assert.ErrorIs(t, err, errs.ErrSymbolMismatch)

	scaled, err := MustParse("0.5 APL").MulInt(3)
	require.NoError(t, err)
	assert.Equal(t, "1.5 APL", scaled.String())
}

func TestJSON(t *testing.T) {
	type wrapper struct {
		Quantity Asset `json:"quantity"`
	}
	out, err := json.Marshal(wrapper{Quantity: MustParse("1.00000000 ETH")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"quantity":"1.00000000 ETH"}`, string(out))

	var in wrapper
	require.NoError(t, json.Unmarshal(out, &in))
	assert.Equal(t, MustParse("1.00000000 ETH"), in.Quantity)
}
