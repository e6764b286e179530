package coupon

import (
	"time"

	"campus-market/internal/domain/money"
	"campus-market/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCouponExpired        = errs.Kind("coupon has expired", errs.ErrValidation)
	ErrCouponNotYetValid    = errs.Kind("coupon is not yet valid", errs.ErrValidation)
	ErrCouponNotFound       = errs.Kind("coupon not found", errs.ErrNotFound)
	ErrCouponAlreadyApplied = errs.Kind("a coupon is already applied to this order", errs.ErrConflict)
)

type Coupon struct {
	id        uuid.UUID
	code      Code
	discount  Discount
	validFrom *time.Time
	validTo   *time.Time
	createdAt time.Time
}

func NewCoupon(
	id uuid.UUID,
	code string,
	amountOff *money.Money,
	percentOff *decimal.Decimal,
	validFrom, validTo *time.Time,
) (*Coupon, error) {
	couponCode, err := NewCouponCode(code)
	if err != nil {
		return nil, err
	}

	discount, err := NewDiscount(amountOff, percentOff)
	if err != nil {
		return nil, err
	}

	return &Coupon{
		id:        id,
		code:      couponCode,
		discount:  discount,
		validFrom: validFrom,
		validTo:   validTo,
	}, nil
}

func ReconstructCoupon(id uuid.UUID, code Code, discount Discount, validFrom, validTo *time.Time, createdAt time.Time) *Coupon {
	return &Coupon{
		id:        id,
		code:      code,
		discount:  discount,
		validFrom: validFrom,
		validTo:   validTo,
		createdAt: createdAt,
	}
}

func (c *Coupon) IsValidAt(t time.Time) bool {
	if c.validFrom != nil && t.Before(*c.validFrom) {
		return false
	}
	if c.validTo != nil && t.After(*c.validTo) {
		return false
	}
	return true
}

func (c *Coupon) ValidateUsage(t time.Time) error {
	if !c.IsValidAt(t) {
		if c.validFrom != nil && t.Before(*c.validFrom) {
			return ErrCouponNotYetValid
		}
		return ErrCouponExpired
	}
	return nil
}

// Redeem validates the coupon at now and produces the record an order embeds.
func (c *Coupon) Redeem(total money.Money, now time.Time) (Applied, error) {
	if err := c.ValidateUsage(now); err != nil {
		return Applied{}, err
	}
	return Applied{
		CouponID:       c.id,
		Code:           c.code,
		DiscountAmount: c.discount.DiscountOn(total),
		AppliedAt:      now,
	}, nil
}

func (c *Coupon) ID() uuid.UUID         { return c.id }
func (c *Coupon) Code() Code            { return c.code }
func (c *Coupon) Discount() Discount    { return c.discount }
func (c *Coupon) ValidFrom() *time.Time { return c.validFrom }
func (c *Coupon) ValidTo() *time.Time   { return c.validTo }
func (c *Coupon) CreatedAt() time.Time  { return c.createdAt }
