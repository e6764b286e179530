//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"campus-market/internal/domain/coupon"
	"campus-market/internal/domain/match"
	"campus-market/internal/domain/resource"
	"campus-market/internal/domain/user"
	"campus-market/internal/infra/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Fixtures go through the production repositories so rows always carry the
// same encoding the application reads back.

func InsertUsers(t *testing.T, db repository.DBTX, users ...*user.User) {
	t.Helper()
	repo := repository.NewUserRepository(db, slog.Default())
	for _, u := range users {
		require.NoError(t, repo.Create(context.Background(), u), "insert user %s", u.ID())
	}
}

func InsertResources(t *testing.T, db repository.DBTX, resources ...*resource.Resource) {
	t.Helper()
	repo := repository.NewResourceRepository(db, slog.Default())
	for _, r := range resources {
		require.NoError(t, repo.Create(context.Background(), r), "insert resource %s", r.ID())
	}
}

func InsertMatch(t *testing.T, db repository.DBTX, m *match.Match) {
	t.Helper()
	require.NoError(t, repository.NewMatchRepository(db, slog.Default()).Create(context.Background(), m))
}

func InsertCoupon(t *testing.T, db repository.DBTX, c *coupon.Coupon) {
	t.Helper()
	require.NoError(t, repository.NewCouponRepository(db, slog.Default()).Create(context.Background(), c))
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates every application table, leaving the goose version table alone
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('goose_db_version')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
