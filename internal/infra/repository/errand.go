package repository

import (
	"context"
	"log/slog"

	"campus-market/internal/domain/errand"
	"campus-market/internal/infra"
	"campus-market/internal/infra/repository/converter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const errandColumns = `id, resource_id, match_id, requester_id, runner_id, status,
	base_fee, door_delivery_fee, tips, delivery_fee, total_amount, final_amount, coupon,
	pickup_address, dropoff_address, start_time, arrival_time, door_delivery,
	pickup_proof_url, dropoff_proof_url, earnings, refund_request_id,
	assigned_at, picked_up_at, dropped_off_at, completed_at, version, created_at, updated_at`

type ErrandRepository struct {
	db      DBTX
	slogger *slog.Logger
}

func NewErrandRepository(db DBTX, slogger *slog.Logger) *ErrandRepository {
	return &ErrandRepository{db: db, slogger: slogger}
}

func (r *ErrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*errand.Errand, error) {
	return r.findOne(ctx, "failed to get errand", `SELECT `+errandColumns+` FROM errands WHERE id = $1`, id)
}

func (r *ErrandRepository) FindByResourceID(ctx context.Context, resourceID uuid.UUID) (*errand.Errand, error) {
	return r.findOne(ctx, "failed to get errand by resource", `SELECT `+errandColumns+` FROM errands WHERE resource_id = $1`, resourceID)
}

func (r *ErrandRepository) findOne(ctx context.Context, msg, sql string, arg uuid.UUID) (*errand.Errand, error) {
	row, err := scanErrand(r.db.QueryRow(ctx, sql, arg))
	if err != nil {
		return nil, infra.ClassifyPgError(r.slogger, msg, err)
	}
	return converter.ErrandFromRow(row)
}

func (r *ErrandRepository) Create(ctx context.Context, e *errand.Errand) error {
	row, err := converter.ErrandToRow(e)
	if err != nil {
		return err
	}
	return exec(ctx, r.db, r.slogger, "failed to create errand",
		`INSERT INTO errands (`+errandColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29)`,
		row.ID, row.ResourceID, row.MatchID, row.RequesterID, row.RunnerID, row.Status,
		row.BaseFee, row.DoorDeliveryFee, row.Tips, row.DeliveryFee, row.TotalAmount, row.FinalAmount, row.Coupon,
		row.PickupAddress, row.DropoffAddress, row.StartTime, row.ArrivalTime, row.DoorDelivery,
		row.PickupProofURL, row.DropoffProofURL, row.Earnings, row.RefundRequestID,
		row.AssignedAt, row.PickedUpAt, row.DroppedOffAt, row.CompletedAt, row.Version, row.CreatedAt, row.UpdatedAt)
}

func (r *ErrandRepository) Update(ctx context.Context, e *errand.Errand) error {
	row, err := converter.ErrandToRow(e)
	if err != nil {
		return err
	}
	return execVersioned(ctx, r.db, r.slogger, "failed to update errand",
		`UPDATE errands SET
			runner_id = $3, status = $4, total_amount = $5, final_amount = $6, coupon = $7,
			pickup_proof_url = $8, dropoff_proof_url = $9, earnings = $10, refund_request_id = $11,
			assigned_at = $12, picked_up_at = $13, dropped_off_at = $14, completed_at = $15,
			updated_at = $16, version = version + 1
		WHERE id = $1 AND version = $2`,
		row.ID, row.Version,
		row.RunnerID, row.Status, row.TotalAmount, row.FinalAmount, row.Coupon,
		row.PickupProofURL, row.DropoffProofURL, row.Earnings, row.RefundRequestID,
		row.AssignedAt, row.PickedUpAt, row.DroppedOffAt, row.CompletedAt,
		row.UpdatedAt)
}

func scanErrand(row pgx.Row) (converter.ErrandRow, error) {
	var e converter.ErrandRow
	err := row.Scan(
		&e.ID, &e.ResourceID, &e.MatchID, &e.RequesterID, &e.RunnerID, &e.Status,
		&e.BaseFee, &e.DoorDeliveryFee, &e.Tips, &e.DeliveryFee, &e.TotalAmount, &e.FinalAmount, &e.Coupon,
		&e.PickupAddress, &e.DropoffAddress, &e.StartTime, &e.ArrivalTime, &e.DoorDelivery,
		&e.PickupProofURL, &e.DropoffProofURL, &e.Earnings, &e.RefundRequestID,
		&e.AssignedAt, &e.PickedUpAt, &e.DroppedOffAt, &e.CompletedAt, &e.Version, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}
