// Package asset implements fixed-point token quantities ("1.00000000 BTC")
// and their symbols ("BTC,8").
package asset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"xchain-backend/internal/errs"
)

// MaxPrecision bounds the number of decimals a symbol may carry.
const MaxPrecision = 18

const maxCodeLen = 7

// Symbol identifies a token by code and decimal precision.
type Symbol struct {
	Code      string `json:"code" gorm:"column:symbol;size:7"`
	Precision uint8  `json:"precision" gorm:"column:precision"`
}

// NewSymbol validates and builds a symbol.
func NewSymbol(code string, precision uint8) (Symbol, error) {
	s := Symbol{Code: code, Precision: precision}
	if !s.IsValid() {
		return Symbol{}, errs.InvalidParam("invalid symbol: %s,%d", code, precision)
	}
	return s, nil
}

// ParseSymbol reads the "CODE,precision" form used in memos.
func ParseSymbol(str string) (Symbol, error) {
	parts := strings.Split(strings.TrimSpace(str), ",")
	if len(parts) != 2 {
		return Symbol{}, errs.InvalidParam("symbol must be CODE,precision: %q", str)
	}
	p, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 8)
	if err != nil {
		return Symbol{}, errs.InvalidParam("invalid symbol precision: %q", parts[1])
	}
	return NewSymbol(strings.TrimSpace(parts[0]), uint8(p))
}

// IsValid reports whether the code is 1-7 upper case letters and the
// precision is within range.
func (s Symbol) IsValid() bool {
	if len(s.Code) == 0 || len(s.Code) > maxCodeLen || s.Precision > MaxPrecision {
		return false
	}
	for _, c := range s.Code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// Unit returns 10^precision.
func (s Symbol) Unit() int64 {
	return Pow10(s.Precision)
}

func (s Symbol) String() string {
	return fmt.Sprintf("%s,%d", s.Code, s.Precision)
}

// Pow10 returns 10^p for p <= MaxPrecision.
func Pow10(p uint8) int64 {
	v := int64(1)
	for i := uint8(0); i < p; i++ {
		v *= 10
	}
	return v
}

// Asset is an integer amount of the smallest unit of Symbol.
type Asset struct {
	Amount int64  `gorm:"column:amount"`
	Symbol Symbol `gorm:"embedded"`
}

// New builds an asset from raw units.
func New(amount int64, sym Symbol) Asset {
	return Asset{Amount: amount, Symbol: sym}
}

// ParseAsset reads "1.00000000 BTC"; the precision is the number of decimals
// written.
func ParseAsset(str string) (Asset, error) {
	fields := strings.Fields(str)
	if len(fields) != 2 {
		return Asset{}, errs.InvalidParam("asset must be \"<amount> <CODE>\": %q", str)
	}
	amountStr, code := fields[0], fields[1]

	precision := 0
	if dot := strings.IndexByte(amountStr, '.'); dot >= 0 {
		precision = len(amountStr) - dot - 1
	}
	if precision > MaxPrecision {
		return Asset{}, errs.InvalidParam("asset precision too high: %q", str)
	}
	sym, err := NewSymbol(code, uint8(precision))
	if err != nil {
		return Asset{}, err
	}

	d, err := decimal.NewFromString(amountStr)
	if err != nil {
		return Asset{}, errs.InvalidParam("invalid asset amount: %q", amountStr)
	}
	units := d.Shift(int32(precision))
	if !units.Equal(units.Truncate(0)) {
		return Asset{}, errs.InvalidParam("invalid asset amount: %q", amountStr)
	}
	if units.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || units.LessThan(decimal.NewFromInt(-math.MaxInt64)) {
		return Asset{}, errs.InvalidParam("asset amount out of range: %q", amountStr)
	}
	return Asset{Amount: units.IntPart(), Symbol: sym}, nil
}

// MustParse is ParseAsset for literals known to be valid.
func MustParse(str string) Asset {
	a, err := ParseAsset(str)
	if err != nil {
		panic(err)
	}
	return a
}

// IsValid reports a valid symbol and an amount within int64 bounds.
func (a Asset) IsValid() bool {
	return a.Symbol.IsValid() && a.Amount > -math.MaxInt64
}

// IsPositive reports amount > 0.
func (a Asset) IsPositive() bool {
	return a.Amount > 0
}

// IsZero reports amount == 0.
func (a Asset) IsZero() bool {
	return a.Amount == 0
}

// Add returns a + b; symbols must match.
func (a Asset) Add(b Asset) (Asset, error) {
	if a.Symbol != b.Symbol {
		return Asset{}, errs.New(errs.CodeSymbolMismatch, "attempt to add asset with different symbol: %s vs %s", a.Symbol, b.Symbol)
	}
	if (b.Amount > 0 && a.Amount > math.MaxInt64-b.Amount) || (b.Amount < 0 && a.Amount < -math.MaxInt64-b.Amount) {
		return Asset{}, errs.InvalidParam("addition overflow")
	}
	return Asset{Amount: a.Amount + b.Amount, Symbol: a.Symbol}, nil
}

// Sub returns a - b; symbols must match.
func (a Asset) Sub(b Asset) (Asset, error) {
	return a.Add(Asset{Amount: -b.Amount, Symbol: b.Symbol})
}

// MulInt scales the amount by n.
func (a Asset) MulInt(n int64) (Asset, error) {
	if n != 0 && a.Amount != 0 {
		p := a.Amount * n
		if p/n != a.Amount {
			return Asset{}, errs.InvalidParam("multiplication overflow")
		}
		return Asset{Amount: p, Symbol: a.Symbol}, nil
	}
	return Asset{Amount: 0, Symbol: a.Symbol}, nil
}

// Decimal returns the amount as a decimal number of whole tokens.
func (a Asset) Decimal() decimal.Decimal {
	return decimal.New(a.Amount, -int32(a.Symbol.Precision))
}

func (a Asset) String() string {
	return fmt.Sprintf("%s %s", a.Decimal().StringFixed(int32(a.Symbol.Precision)), a.Symbol.Code)
}

func (a Asset) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Asset) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		*a = Asset{}
		return nil
	}
	parsed, err := ParseAsset(str)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
