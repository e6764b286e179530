//go:build unit

package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-market/internal/domain/match"
	"campus-market/internal/domain/money"
	"campus-market/internal/domain/refund"
	"campus-market/internal/domain/user"
	"campus-market/internal/infra"
	"campus-market/internal/infra/memory"
	"campus-market/internal/usecase/shared"
	"campus-market/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WithinRollsBackOnError(t *testing.T) {
	store := memory.NewStore()
	u := builder.NewUserBuilder().MustBuild()
	boom := errors.New("boom")

	err := store.Within(t.Context(), func(ctx context.Context, tx shared.Tx) error {
		require.NoError(t, tx.Users().Create(ctx, u))
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = store.WithinReadOnly(t.Context(), func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Users().FindByID(ctx, u.ID())
		return err
	})
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}

func TestStore_ReadOnlyRejectsWrites(t *testing.T) {
	store := memory.NewStore()

	err := store.WithinReadOnly(t.Context(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().Create(ctx, builder.NewUserBuilder().MustBuild())
	})
	require.Error(t, err)
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	called := false
	err := memory.NewStore().Within(ctx, func(context.Context, shared.Tx) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStore_UniqueConstraints(t *testing.T) {
	t.Run("user email", func(t *testing.T) {
		store := memory.NewStore()
		first := builder.NewUserBuilder().WithEmail("dup@campus.example.com").MustBuild()
		second := builder.NewUserBuilder().WithEmail("dup@campus.example.com").MustBuild()

		err := store.Within(t.Context(), func(ctx context.Context, tx shared.Tx) error {
			require.NoError(t, tx.Users().Create(ctx, first))
			return tx.Users().Create(ctx, second)
		})
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	})

	t.Run("one active refund per target", func(t *testing.T) {
		store := memory.NewStore()
		target, err := refund.NewTarget(refund.TargetMatch, uuid.New())
		require.NoError(t, err)
		now := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
		first, err := refund.NewRequest(uuid.New(), target, money.FromInt(5), "", now)
		require.NoError(t, err)
		second, err := refund.NewRequest(uuid.New(), target, money.FromInt(5), "", now)
		require.NoError(t, err)

		err = store.Within(t.Context(), func(ctx context.Context, tx shared.Tx) error {
			require.NoError(t, tx.Refunds().Create(ctx, first))
			return tx.Refunds().Create(ctx, second)
		})
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	})

	t.Run("charge id", func(t *testing.T) {
		store := memory.NewStore()
		charge := shared.Charge{ChargeID: "ch_1", TargetKind: "match", TargetID: uuid.New(), Amount: money.FromInt(1)}

		require.NoError(t, store.Within(t.Context(), func(ctx context.Context, tx shared.Tx) error {
			return tx.Payments().Record(ctx, charge)
		}))
		err := store.Within(t.Context(), func(ctx context.Context, tx shared.Tx) error {
			return tx.Payments().Record(ctx, charge)
		})
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	})
}

func TestStore_StaleWrite(t *testing.T) {
	store := memory.NewStore()
	u := builder.NewUserBuilder().MustBuild()
	require.NoError(t, store.Within(t.Context(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().Create(ctx, u)
	}))

	var loaded *user.User
	require.NoError(t, store.WithinReadOnly(t.Context(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		loaded, err = tx.Users().FindByID(ctx, u.ID())
		return err
	}))

	// another writer bumps the row first
	require.NoError(t, store.Within(t.Context(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().Update(ctx, u)
	}))

	err := store.Within(t.Context(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().Update(ctx, loaded)
	})
	assert.True(t, infra.IsKind(err, infra.KindStaleWrite))
}

func TestStore_ListStalePending(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	older := builder.NewMatchBuilder().AcceptedBy(match.SideRequester, base.Add(-3*time.Hour)).BuildDomain()
	old := builder.NewMatchBuilder().AcceptedBy(match.SideOwner, base.Add(-2*time.Hour)).BuildDomain()
	fresh := builder.NewMatchBuilder().AcceptedBy(match.SideOwner, base).BuildDomain()
	untouched := builder.NewMatchBuilder().BuildDomain()
	require.NoError(t, store.Within(t.Context(), func(ctx context.Context, tx shared.Tx) error {
		for _, m := range []*match.Match{fresh, old, untouched, older} {
			if err := tx.Matches().Create(ctx, m); err != nil {
				return err
			}
		}
		return nil
	}))

	var got []*match.Match
	require.NoError(t, store.WithinReadOnly(t.Context(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		got, err = tx.Matches().ListStalePending(ctx, base.Add(-time.Hour), 0)
		return err
	}))
	require.Len(t, got, 2)
	assert.Equal(t, older.ID(), got[0].ID())
	assert.Equal(t, old.ID(), got[1].ID())

	require.NoError(t, store.WithinReadOnly(t.Context(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		got, err = tx.Matches().ListStalePending(ctx, base.Add(-time.Hour), 1)
		return err
	}))
	require.Len(t, got, 1)
}
