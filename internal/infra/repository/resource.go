package repository

import (
	"context"
	"log/slog"

	"campus-market/internal/domain/resource"
	"campus-market/internal/infra"
	"campus-market/internal/infra/repository/converter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const resourceColumns = `id, type, price, owner_id, status, specifications,
	match_id, errand_id, refund_request_id, version, created_at, updated_at`

type ResourceRepository struct {
	db      DBTX
	slogger *slog.Logger
}

func NewResourceRepository(db DBTX, slogger *slog.Logger) *ResourceRepository {
	return &ResourceRepository{db: db, slogger: slogger}
}

func (r *ResourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	row, err := scanResource(r.db.QueryRow(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id))
	if err != nil {
		return nil, infra.ClassifyPgError(r.slogger, "failed to get resource", err)
	}
	return converter.ResourceFromRow(row)
}

func (r *ResourceRepository) Create(ctx context.Context, res *resource.Resource) error {
	row, err := converter.ResourceToRow(res)
	if err != nil {
		return err
	}
	return exec(ctx, r.db, r.slogger, "failed to create resource",
		`INSERT INTO resources (`+resourceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		row.ID, row.Type, row.Price, row.OwnerID, row.Status, row.Specifications,
		row.MatchID, row.ErrandID, row.RefundRequestID, row.Version, row.CreatedAt, row.UpdatedAt)
}

func (r *ResourceRepository) Update(ctx context.Context, res *resource.Resource) error {
	row, err := converter.ResourceToRow(res)
	if err != nil {
		return err
	}
	return execVersioned(ctx, r.db, r.slogger, "failed to update resource",
		`UPDATE resources SET
			price = $3, status = $4, specifications = $5,
			match_id = $6, errand_id = $7, refund_request_id = $8,
			updated_at = $9, version = version + 1
		WHERE id = $1 AND version = $2`,
		row.ID, row.Version, row.Price, row.Status, row.Specifications,
		row.MatchID, row.ErrandID, row.RefundRequestID, row.UpdatedAt)
}

func scanResource(row pgx.Row) (converter.ResourceRow, error) {
	var r converter.ResourceRow
	err := row.Scan(
		&r.ID, &r.Type, &r.Price, &r.OwnerID, &r.Status, &r.Specifications,
		&r.MatchID, &r.ErrandID, &r.RefundRequestID, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}
