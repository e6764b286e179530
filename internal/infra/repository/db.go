package repository

import (
	"context"
	"log/slog"

	"campus-market/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// execVersioned runs a version-guarded UPDATE and reports a stale write when
// no row matched.
func execVersioned(ctx context.Context, db DBTX, slogger *slog.Logger, msg, sql string, args ...any) error {
	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return infra.ClassifyPgError(slogger, msg, err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(slogger, infra.KindStaleWrite, msg, nil)
	}
	return nil
}

func exec(ctx context.Context, db DBTX, slogger *slog.Logger, msg, sql string, args ...any) error {
	if _, err := db.Exec(ctx, sql, args...); err != nil {
		return infra.ClassifyPgError(slogger, msg, err)
	}
	return nil
}
