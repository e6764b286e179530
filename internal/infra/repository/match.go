package repository

import (
	"context"
	"log/slog"
	"time"

	"campus-market/internal/domain/match"
	"campus-market/internal/infra"
	"campus-market/internal/infra/repository/converter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const matchColumns = `id, resource1_id, resource2_id, requester_id, owner_id, score,
	requester_suggested_price, owner_suggested_price, requester_original_price, owner_original_price,
	first_acceptance_time, requester_accepted, owner_accepted,
	resource1_payment, resource2_receipt, agreed_price, delivery_fee, total_amount, final_amount, coupon,
	status, cancellation_reason, cancelled_by, timeout_penalty_applied_to,
	service_request_id, refund_request_id,
	accepted_at, paid_at, completed_at, cancelled_at, version, created_at, updated_at`

type MatchRepository struct {
	db      DBTX
	slogger *slog.Logger
}

func NewMatchRepository(db DBTX, slogger *slog.Logger) *MatchRepository {
	return &MatchRepository{db: db, slogger: slogger}
}

func (r *MatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*match.Match, error) {
	row, err := scanMatch(r.db.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id))
	if err != nil {
		return nil, infra.ClassifyPgError(r.slogger, "failed to get match", err)
	}
	return converter.MatchFromRow(row)
}

func (r *MatchRepository) Create(ctx context.Context, m *match.Match) error {
	row, err := converter.MatchToRow(m)
	if err != nil {
		return err
	}
	return exec(ctx, r.db, r.slogger, "failed to create match",
		`INSERT INTO matches (`+matchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33)`,
		row.ID, row.Resource1ID, row.Resource2ID, row.RequesterID, row.OwnerID, row.Score,
		row.RequesterSuggestedPrice, row.OwnerSuggestedPrice, row.RequesterOriginalPrice, row.OwnerOriginalPrice,
		row.FirstAcceptanceTime, row.RequesterAccepted, row.OwnerAccepted,
		row.Resource1Payment, row.Resource2Receipt, row.AgreedPrice, row.DeliveryFee, row.TotalAmount, row.FinalAmount, row.Coupon,
		row.Status, row.CancellationReason, row.CancelledBy, row.TimeoutPenaltyAppliedTo,
		row.ServiceRequestID, row.RefundRequestID,
		row.AcceptedAt, row.PaidAt, row.CompletedAt, row.CancelledAt, row.Version, row.CreatedAt, row.UpdatedAt)
}

func (r *MatchRepository) Update(ctx context.Context, m *match.Match) error {
	row, err := converter.MatchToRow(m)
	if err != nil {
		return err
	}
	return execVersioned(ctx, r.db, r.slogger, "failed to update match",
		`UPDATE matches SET
			requester_suggested_price = $3, owner_suggested_price = $4,
			first_acceptance_time = $5, requester_accepted = $6, owner_accepted = $7,
			resource1_payment = $8, resource2_receipt = $9, agreed_price = $10,
			delivery_fee = $11, total_amount = $12, final_amount = $13, coupon = $14,
			status = $15, cancellation_reason = $16, cancelled_by = $17, timeout_penalty_applied_to = $18,
			service_request_id = $19, refund_request_id = $20,
			accepted_at = $21, paid_at = $22, completed_at = $23, cancelled_at = $24,
			updated_at = $25, version = version + 1
		WHERE id = $1 AND version = $2`,
		row.ID, row.Version,
		row.RequesterSuggestedPrice, row.OwnerSuggestedPrice,
		row.FirstAcceptanceTime, row.RequesterAccepted, row.OwnerAccepted,
		row.Resource1Payment, row.Resource2Receipt, row.AgreedPrice,
		row.DeliveryFee, row.TotalAmount, row.FinalAmount, row.Coupon,
		row.Status, row.CancellationReason, row.CancelledBy, row.TimeoutPenaltyAppliedTo,
		row.ServiceRequestID, row.RefundRequestID,
		row.AcceptedAt, row.PaidAt, row.CompletedAt, row.CancelledAt,
		row.UpdatedAt)
}

func (r *MatchRepository) ListStalePending(ctx context.Context, before time.Time, limit int) ([]*match.Match, error) {
	sql := `SELECT ` + matchColumns + ` FROM matches
		WHERE status = 'pending' AND first_acceptance_time IS NOT NULL AND first_acceptance_time < $1
		ORDER BY first_acceptance_time, id`
	args := []any{before}
	if limit > 0 {
		args = append(args, limit)
		sql += ` LIMIT $2`
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.ClassifyPgError(r.slogger, "failed to list stale matches", err)
	}
	defer rows.Close()

	var out []*match.Match
	for rows.Next() {
		row, err := scanMatch(rows)
		if err != nil {
			return nil, infra.ClassifyPgError(r.slogger, "failed to scan match", err)
		}
		m, err := converter.MatchFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.ClassifyPgError(r.slogger, "failed to list stale matches", err)
	}
	return out, nil
}

func scanMatch(row pgx.Row) (converter.MatchRow, error) {
	var m converter.MatchRow
	err := row.Scan(
		&m.ID, &m.Resource1ID, &m.Resource2ID, &m.RequesterID, &m.OwnerID, &m.Score,
		&m.RequesterSuggestedPrice, &m.OwnerSuggestedPrice, &m.RequesterOriginalPrice, &m.OwnerOriginalPrice,
		&m.FirstAcceptanceTime, &m.RequesterAccepted, &m.OwnerAccepted,
		&m.Resource1Payment, &m.Resource2Receipt, &m.AgreedPrice, &m.DeliveryFee, &m.TotalAmount, &m.FinalAmount, &m.Coupon,
		&m.Status, &m.CancellationReason, &m.CancelledBy, &m.TimeoutPenaltyAppliedTo,
		&m.ServiceRequestID, &m.RefundRequestID,
		&m.AcceptedAt, &m.PaidAt, &m.CompletedAt, &m.CancelledAt, &m.Version, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}
