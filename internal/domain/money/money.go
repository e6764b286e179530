package money

import (
	"database/sql/driver"

	"campus-market/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errs.Kind("invalid money amount", errs.ErrValidation)

const scale = 2

// Money is a currency amount with two fractional digits. The zero value is 0.00.
type Money struct {
	amount decimal.Decimal
}

var Zero = Money{}

func New(d decimal.Decimal) Money {
	return Money{amount: d.Round(scale)}
}

func FromInt(units int64) Money {
	return Money{amount: decimal.NewFromInt(units)}
}

func FromFloat(f float64) Money {
	return New(decimal.NewFromFloat(f))
}

func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, ErrInvalidAmount
	}
	return New(d), nil
}

func (m Money) Add(o Money) Money { return Money{amount: m.amount.Add(o.amount)} }
func (m Money) Sub(o Money) Money { return Money{amount: m.amount.Sub(o.amount)} }

// MulRatio multiplies by num/den, rounding half away from zero to two places.
func (m Money) MulRatio(num, den int64) Money {
	if den == 0 {
		return Zero
	}
	r := decimal.NewFromInt(num).Div(decimal.NewFromInt(den))
	return New(m.amount.Mul(r))
}

func (m Money) MulInt(n int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(n))}
}

// Floor returns the whole units of m, rounded toward negative infinity.
func (m Money) Floor() int64 {
	return m.amount.Floor().IntPart()
}

func (m Money) ClampZero() Money {
	if m.amount.IsNegative() {
		return Zero
	}
	return m
}

func Max(a, b Money) Money {
	if a.amount.GreaterThan(b.amount) {
		return a
	}
	return b
}

func Min(a, b Money) Money {
	if a.amount.LessThan(b.amount) {
		return a
	}
	return b
}

func (m Money) IsZero() bool                    { return m.amount.IsZero() }
func (m Money) IsNegative() bool                { return m.amount.IsNegative() }
func (m Money) IsPositive() bool                { return m.amount.IsPositive() }
func (m Money) Equal(o Money) bool              { return m.amount.Equal(o.amount) }
func (m Money) GreaterThan(o Money) bool        { return m.amount.GreaterThan(o.amount) }
func (m Money) LessThan(o Money) bool           { return m.amount.LessThan(o.amount) }
func (m Money) LessThanOrEqual(o Money) bool    { return m.amount.LessThanOrEqual(o.amount) }
func (m Money) GreaterThanOrEqual(o Money) bool { return m.amount.GreaterThanOrEqual(o.amount) }
func (m Money) Decimal() decimal.Decimal        { return m.amount }
func (m Money) String() string                  { return m.amount.StringFixed(scale) }

func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Scan reads a NUMERIC column.
func (m *Money) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return err
	}
	*m = New(d)
	return nil
}

func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}
