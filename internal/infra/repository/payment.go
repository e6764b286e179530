package repository

import (
	"context"
	"log/slog"

	"campus-market/internal/infra"
	"campus-market/internal/usecase/shared"
)

type PaymentRepository struct {
	db      DBTX
	slogger *slog.Logger
}

func NewPaymentRepository(db DBTX, slogger *slog.Logger) *PaymentRepository {
	return &PaymentRepository{db: db, slogger: slogger}
}

// Record uses ON CONFLICT so a replayed charge does not abort the surrounding transaction.
func (r *PaymentRepository) Record(ctx context.Context, c shared.Charge) error {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO payment_charges (charge_id, target_kind, target_id, amount, received_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (charge_id) DO NOTHING`,
		c.ChargeID, c.TargetKind, c.TargetID, c.Amount, c.ReceivedAt)
	if err != nil {
		return infra.ClassifyPgError(r.slogger, "failed to record payment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.slogger, infra.KindDuplicateKey, "payment already recorded", nil)
	}
	return nil
}
