package coupon

import (
	"regexp"
	"strings"
	"time"

	"campus-market/internal/domain/money"
	"campus-market/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCouponCode      = errs.Kind("invalid coupon code format", errs.ErrValidation)
	ErrInvalidDiscountAmount  = errs.Kind("discount amount cannot be negative", errs.ErrValidation)
	ErrInvalidDiscountPercent = errs.Kind("percentage discount must be between 0 and 100", errs.ErrValidation)
	ErrAmbiguousDiscount      = errs.Kind("discount must be either a fixed amount or a percentage", errs.ErrValidation)
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

type Code string

func NewCouponCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type Discount struct {
	amountOff  *money.Money
	percentOff *decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

func NewFixedDiscount(amountOff money.Money) (Discount, error) {
	if amountOff.IsNegative() {
		return Discount{}, ErrInvalidDiscountAmount
	}
	return Discount{amountOff: &amountOff}, nil
}

func NewPercentageDiscount(percentOff decimal.Decimal) (Discount, error) {
	if percentOff.IsNegative() || percentOff.GreaterThan(hundred) {
		return Discount{}, ErrInvalidDiscountPercent
	}
	return Discount{percentOff: &percentOff}, nil
}

func NewDiscount(amountOff *money.Money, percentOff *decimal.Decimal) (Discount, error) {
	if (amountOff == nil) == (percentOff == nil) {
		return Discount{}, ErrAmbiguousDiscount
	}
	if amountOff != nil {
		return NewFixedDiscount(*amountOff)
	}
	return NewPercentageDiscount(*percentOff)
}

func (d Discount) IsPercentage() bool { return d.percentOff != nil }
func (d Discount) IsFixed() bool      { return d.amountOff != nil }

func (d Discount) AmountOff() money.Money {
	if d.amountOff != nil {
		return *d.amountOff
	}
	return money.Zero
}

func (d Discount) PercentOff() decimal.Decimal {
	if d.percentOff != nil {
		return *d.percentOff
	}
	return decimal.Zero
}

// DiscountOn returns how much of total this discount removes. Never more than total.
func (d Discount) DiscountOn(total money.Money) money.Money {
	if total.IsNegative() || total.IsZero() {
		return money.Zero
	}
	var off money.Money
	if d.IsPercentage() {
		off = money.New(total.Decimal().Mul(d.PercentOff()).Div(hundred))
	} else {
		off = d.AmountOff()
	}
	return money.Min(off, total)
}

func (d Discount) Apply(total money.Money) money.Money {
	return total.Sub(d.DiscountOn(total)).ClampZero()
}

// Applied is the one-shot coupon record embedded by value in an order.
type Applied struct {
	CouponID       uuid.UUID   `json:"coupon_id"`
	Code           Code        `json:"code"`
	DiscountAmount money.Money `json:"discount_amount"`
	AppliedAt      time.Time   `json:"applied_at"`
}
