package repository

import (
	"context"
	"log/slog"

	"campus-market/internal/domain/coupon"
	"campus-market/internal/infra"
	"campus-market/internal/infra/repository/converter"
)

type CouponRepository struct {
	db      DBTX
	slogger *slog.Logger
}

func NewCouponRepository(db DBTX, slogger *slog.Logger) *CouponRepository {
	return &CouponRepository{db: db, slogger: slogger}
}

func (r *CouponRepository) FindByCode(ctx context.Context, code coupon.Code) (*coupon.Coupon, error) {
	var row converter.CouponRow
	err := r.db.QueryRow(ctx,
		`SELECT id, code, amount_off, percent_off, valid_from, valid_to, created_at
		FROM coupons WHERE code = $1`, code.String(),
	).Scan(&row.ID, &row.Code, &row.AmountOff, &row.PercentOff, &row.ValidFrom, &row.ValidTo, &row.CreatedAt)
	if err != nil {
		return nil, infra.ClassifyPgError(r.slogger, "failed to get coupon", err)
	}
	return converter.CouponFromRow(row)
}

func (r *CouponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	row := converter.CouponToRow(c)
	return exec(ctx, r.db, r.slogger, "failed to create coupon",
		`INSERT INTO coupons (id, code, amount_off, percent_off, valid_from, valid_to, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		row.ID, row.Code, row.AmountOff, row.PercentOff, row.ValidFrom, row.ValidTo, row.CreatedAt)
}
