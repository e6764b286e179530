package repository

import (
	"context"
	"log/slog"

	"campus-market/internal/domain/refund"
	"campus-market/internal/infra"
	"campus-market/internal/infra/repository/converter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const refundColumns = `id, requester_id, target_kind, target_id, amount, reason, status, processor_id,
	approved_at, rejected_at, processed_at, disputed_at, version, created_at, updated_at`

type RefundRepository struct {
	db      DBTX
	slogger *slog.Logger
}

func NewRefundRepository(db DBTX, slogger *slog.Logger) *RefundRepository {
	return &RefundRepository{db: db, slogger: slogger}
}

func (r *RefundRepository) FindByID(ctx context.Context, id uuid.UUID) (*refund.Request, error) {
	row, err := scanRefund(r.db.QueryRow(ctx, `SELECT `+refundColumns+` FROM refund_requests WHERE id = $1`, id))
	if err != nil {
		return nil, infra.ClassifyPgError(r.slogger, "failed to get refund request", err)
	}
	return converter.RefundFromRow(row), nil
}

func (r *RefundRepository) Create(ctx context.Context, req *refund.Request) error {
	row := converter.RefundToRow(req)
	return exec(ctx, r.db, r.slogger, "failed to create refund request",
		`INSERT INTO refund_requests (`+refundColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		row.ID, row.RequesterID, row.TargetKind, row.TargetID, row.Amount, row.Reason, row.Status, row.ProcessorID,
		row.ApprovedAt, row.RejectedAt, row.ProcessedAt, row.DisputedAt, row.Version, row.CreatedAt, row.UpdatedAt)
}

func (r *RefundRepository) Update(ctx context.Context, req *refund.Request) error {
	row := converter.RefundToRow(req)
	return execVersioned(ctx, r.db, r.slogger, "failed to update refund request",
		`UPDATE refund_requests SET
			status = $3, processor_id = $4,
			approved_at = $5, rejected_at = $6, processed_at = $7, disputed_at = $8,
			updated_at = $9, version = version + 1
		WHERE id = $1 AND version = $2`,
		row.ID, row.Version, row.Status, row.ProcessorID,
		row.ApprovedAt, row.RejectedAt, row.ProcessedAt, row.DisputedAt,
		row.UpdatedAt)
}

func (r *RefundRepository) HasActive(ctx context.Context, target refund.Target) (bool, error) {
	return r.exists(ctx, "failed to check active refund", target, `status IN ('pending', 'approved')`)
}

func (r *RefundRepository) HasProcessed(ctx context.Context, target refund.Target) (bool, error) {
	return r.exists(ctx, "failed to check processed refund", target, `status = 'processed'`)
}

func (r *RefundRepository) exists(ctx context.Context, msg string, target refund.Target, cond string) (bool, error) {
	var found bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM refund_requests WHERE target_kind = $1 AND target_id = $2 AND `+cond+`)`,
		string(target.Kind), target.ID,
	).Scan(&found)
	if err != nil {
		return false, infra.ClassifyPgError(r.slogger, msg, err)
	}
	return found, nil
}

func scanRefund(row pgx.Row) (converter.RefundRow, error) {
	var r converter.RefundRow
	err := row.Scan(
		&r.ID, &r.RequesterID, &r.TargetKind, &r.TargetID, &r.Amount, &r.Reason, &r.Status, &r.ProcessorID,
		&r.ApprovedAt, &r.RejectedAt, &r.ProcessedAt, &r.DisputedAt, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}
