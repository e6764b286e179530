package repository

import (
	"context"
	"log/slog"

	"campus-market/internal/domain/user"
	"campus-market/internal/infra"
	"campus-market/internal/infra/repository/converter"

	"github.com/google/uuid"
)

type UserRepository struct {
	db      DBTX
	slogger *slog.Logger
}

func NewUserRepository(db DBTX, slogger *slog.Logger) *UserRepository {
	return &UserRepository{db: db, slogger: slogger}
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var row converter.UserRow
	err := r.db.QueryRow(ctx,
		`SELECT id, email, role, credit_score, reputation_points, potential_matches, version, created_at, updated_at
		FROM users WHERE id = $1`, id,
	).Scan(&row.ID, &row.Email, &row.Role, &row.CreditScore, &row.ReputationPoints,
		&row.PotentialMatches, &row.Version, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return nil, infra.ClassifyPgError(r.slogger, "failed to get user", err)
	}
	return converter.UserFromRow(row)
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	row, err := converter.UserToRow(u)
	if err != nil {
		return err
	}
	return exec(ctx, r.db, r.slogger, "failed to create user",
		`INSERT INTO users (id, email, role, credit_score, reputation_points, potential_matches, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		row.ID, row.Email, row.Role, row.CreditScore, row.ReputationPoints,
		row.PotentialMatches, row.Version, row.CreatedAt, row.UpdatedAt)
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	row, err := converter.UserToRow(u)
	if err != nil {
		return err
	}
	return execVersioned(ctx, r.db, r.slogger, "failed to update user",
		`UPDATE users SET
			role = $3, credit_score = $4, reputation_points = $5, potential_matches = $6,
			updated_at = $7, version = version + 1
		WHERE id = $1 AND version = $2`,
		row.ID, row.Version, row.Role, row.CreditScore, row.ReputationPoints, row.PotentialMatches, row.UpdatedAt)
}
