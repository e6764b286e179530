//go:build unit || e2e

package builder

import (
	"time"

	"campus-market/internal/domain/coupon"
	"campus-market/internal/domain/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CouponBuilder struct {
	ID         uuid.UUID
	Code       string
	AmountOff  *money.Money
	PercentOff *decimal.Decimal
	ValidFrom  *time.Time
	ValidTo    *time.Time
}

// NewCouponBuilder starts from an open-ended 5.00-off coupon.
func NewCouponBuilder() *CouponBuilder {
	off := money.FromInt(5)
	return &CouponBuilder{
		ID:        uuid.New(),
		Code:      "WELCOME5",
		AmountOff: &off,
	}
}

func (c *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(c)
	return c
}

// Build methods
func (c *CouponBuilder) BuildDomain() (*coupon.Coupon, error) {
	return coupon.NewCoupon(c.ID, c.Code, c.AmountOff, c.PercentOff, c.ValidFrom, c.ValidTo)
}

func (c *CouponBuilder) MustBuild() *coupon.Coupon {
	cp, err := c.BuildDomain()
	if err != nil {
		panic(err)
	}
	return cp
}

// Fluent builder methods
func (c *CouponBuilder) WithCode(code string) *CouponBuilder {
	c.Code = code
	return c
}

func (c *CouponBuilder) WithAmountOff(amount money.Money) *CouponBuilder {
	c.AmountOff = &amount
	c.PercentOff = nil
	return c
}

func (c *CouponBuilder) WithPercentOff(percent int64) *CouponBuilder {
	p := decimal.NewFromInt(percent)
	c.PercentOff = &p
	c.AmountOff = nil
	return c
}

func (c *CouponBuilder) ValidBetween(from, to time.Time) *CouponBuilder {
	c.ValidFrom = &from
	c.ValidTo = &to
	return c
}
