//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"campus-market/internal/domain/coupon"
	"campus-market/internal/domain/errand"
	"campus-market/internal/domain/match"
	"campus-market/internal/domain/money"
	"campus-market/internal/domain/resource"
	"campus-market/internal/domain/user"
	"campus-market/internal/usecase/commands"
	"campus-market/internal/usecase/shared"
	"campus-market/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchUseCase_Accept(t *testing.T) {
	t.Run("first acceptance notifies the counterparty", func(t *testing.T) {
		w := newWorld(t)
		mb := builder.NewMatchBuilder()
		requester, owner := w.marketParties(t, mb)
		m := mb.BuildDomain()
		w.seedMatch(t, m)

		result, err := w.matches.Accept(t.Context(), m.ID(), owner.ID())
		require.NoError(t, err)

		assert.Equal(t, match.OutcomeFirstAcceptance, result.Outcome)
		assert.True(t, result.Match.OwnerAccepted)
		require.NotNil(t, result.Match.AcceptanceDeadline)
		assert.Equal(t, t0.Add(match.AcceptanceWindow), *result.Match.AcceptanceDeadline)
		require.Len(t, w.notifier.msgs, 1)
		assert.Equal(t, requester.ID(), w.notifier.msgs[0].RecipientID)
		assert.Equal(t, shared.EventMatchFirstAcceptance, w.notifier.msgs[0].Event)
	})

	t.Run("second acceptance inside the window", func(t *testing.T) {
		w := newWorld(t)
		mb := builder.NewMatchBuilder().AcceptedBy(match.SideOwner, t0)
		requester, _ := w.marketParties(t, mb)
		m := mb.BuildDomain()
		w.seedMatch(t, m)
		w.clock.Set(t0.Add(23*time.Hour + 59*time.Minute))

		result, err := w.matches.Accept(t.Context(), m.ID(), requester.ID())
		require.NoError(t, err)

		assert.Equal(t, match.OutcomeAccepted, result.Outcome)
		stored := w.match(t, m.ID())
		assert.Equal(t, match.StatusAccepted, stored.Status())
		assert.Nil(t, stored.TimeoutPenaltyAppliedTo())
		assert.Equal(t, user.DefaultCreditScore, w.user(t, requester.ID()).CreditScore())
		assert.Equal(t, []shared.Event{shared.EventMatchAccepted, shared.EventMatchAccepted}, w.notifier.events())
	})

	t.Run("late acceptance cancels and penalizes the caller", func(t *testing.T) {
		w := newWorld(t)
		mb := builder.NewMatchBuilder().AcceptedBy(match.SideOwner, t0)
		requester, owner := w.marketParties(t, mb)
		m := mb.BuildDomain()
		w.seedMatch(t, m)
		w.clock.Set(t0.Add(24*time.Hour + time.Minute))

		result, err := w.matches.Accept(t.Context(), m.ID(), requester.ID())
		require.NoError(t, err)

		assert.Equal(t, match.OutcomeTimedOut, result.Outcome)
		stored := w.match(t, m.ID())
		assert.Equal(t, match.StatusCancelled, stored.Status())
		assert.Equal(t, match.ReasonNegotiationTimeout, stored.CancellationReason())
		require.NotNil(t, stored.TimeoutPenaltyAppliedTo())
		assert.Equal(t, requester.ID(), *stored.TimeoutPenaltyAppliedTo())
		assert.Equal(t, user.DefaultCreditScore-user.TimeoutPenalty, w.user(t, requester.ID()).CreditScore())
		assert.Equal(t, user.DefaultCreditScore, w.user(t, owner.ID()).CreditScore())
		assert.Equal(t, []shared.Event{shared.EventMatchTimedOut, shared.EventMatchTimedOut}, w.notifier.events())
	})

	t.Run("errors leave the match untouched", func(t *testing.T) {
		w := newWorld(t)
		mb := builder.NewMatchBuilder().AcceptedBy(match.SideOwner, t0)
		_, owner := w.marketParties(t, mb)
		m := mb.BuildDomain()
		w.seedMatch(t, m)

		_, err := w.matches.Accept(t.Context(), m.ID(), owner.ID())
		require.ErrorIs(t, err, match.ErrInconsistentAcceptance)
		_, err = w.matches.Accept(t.Context(), m.ID(), uuid.New())
		require.ErrorIs(t, err, match.ErrNotParty)
		_, err = w.matches.Accept(t.Context(), uuid.New(), owner.ID())
		require.ErrorIs(t, err, match.ErrMatchNotFound)

		assert.Equal(t, m.Version(), w.match(t, m.ID()).Version())
		assert.Empty(t, w.notifier.events())
	})

	t.Run("notification failures do not fail the operation", func(t *testing.T) {
		w := newWorld(t)
		w.notifier.fail = errDeliveryDown
		mb := builder.NewMatchBuilder()
		_, owner := w.marketParties(t, mb)
		m := mb.BuildDomain()
		w.seedMatch(t, m)

		_, err := w.matches.Accept(t.Context(), m.ID(), owner.ID())
		require.NoError(t, err)
		assert.True(t, w.match(t, m.ID()).OwnerAccepted())
	})
}

func TestMatchUseCase_RejectAndCancel(t *testing.T) {
	t.Run("reject a pending match", func(t *testing.T) {
		w := newWorld(t)
		mb := builder.NewMatchBuilder()
		requester, owner := w.marketParties(t, mb)
		m := mb.BuildDomain()
		w.seedMatch(t, m)

		view, err := w.matches.Reject(t.Context(), m.ID(), owner.ID())
		require.NoError(t, err)

		assert.Equal(t, string(match.StatusCancelled), view.Status)
		assert.Equal(t, owner.ID(), *view.CancelledBy)
		require.Len(t, w.notifier.msgs, 1)
		assert.Equal(t, requester.ID(), w.notifier.msgs[0].RecipientID)
	})

	t.Run("cancel releases both resources", func(t *testing.T) {
		w := newWorld(t)
		mb := builder.NewMatchBuilder().Settled(match.StatusAccepted, money.FromInt(28), money.Zero)
		_, owner := w.marketParties(t, mb)
		m := mb.BuildDomain()
		w.seedMatch(t, m)

		view, err := w.matches.Cancel(t.Context(), m.ID(), owner.ID(), "item broke")
		require.NoError(t, err)

		assert.Equal(t, string(match.StatusCancelled), view.Status)
		assert.Equal(t, "item broke", view.CancellationReason)
		assert.Equal(t, resource.StatusMatching, w.resource(t, m.Resource1ID()).Status())
		assert.Equal(t, resource.StatusMatching, w.resource(t, m.Resource2ID()).Status())
	})

	t.Run("cancel needs a reason and keeps resources", func(t *testing.T) {
		w := newWorld(t)
		mb := builder.NewMatchBuilder().Settled(match.StatusPaid, money.FromInt(28), money.Zero)
		requester, _ := w.marketParties(t, mb)
		m := mb.BuildDomain()
		w.seedMatch(t, m)

		_, err := w.matches.Cancel(t.Context(), m.ID(), requester.ID(), "  ")
		require.ErrorIs(t, err, match.ErrReasonRequired)
		assert.Equal(t, resource.StatusMatched, w.resource(t, m.Resource1ID()).Status())
	})

	t.Run("missing resource rolls the cancellation back", func(t *testing.T) {
		w := newWorld(t)
		mb := builder.NewMatchBuilder().Settled(match.StatusAccepted, money.FromInt(28), money.Zero)
		requester, _ := w.marketParties(t, mb)
		mb.Parties.Resource2ID = uuid.New()
		m := mb.BuildDomain()
		w.seedMatch(t, m)

		_, err := w.matches.Cancel(t.Context(), m.ID(), requester.ID(), "changed my mind")
		require.ErrorIs(t, err, resource.ErrResourceNotFound)

		assert.Equal(t, match.StatusAccepted, w.match(t, m.ID()).Status())
		assert.Equal(t, resource.StatusMatched, w.resource(t, m.Resource1ID()).Status())
	})
}

func TestMatchUseCase_ConfirmOrder(t *testing.T) {
	req := commands.ConfirmOrderRequest{
		PickupAddress:  resource.Address{Building: "Library", District: "north"},
		DropoffAddress: resource.Address{Building: "Gym", District: "north"},
		DeliveryTime:   time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC),
		DoorDelivery:   true,
		Tips:           money.FromInt(1),
	}

	t.Run("prices delivery and spawns the service request", func(t *testing.T) {
		w := newWorld(t)
		mb := builder.NewMatchBuilder().Settled(match.StatusAccepted, money.FromInt(28), money.Zero)
		requester, _ := w.marketParties(t, mb)
		m := mb.BuildDomain()
		w.seedMatch(t, m)

		result, err := w.matches.ConfirmOrder(t.Context(), m.ID(), requester.ID(), req)
		require.NoError(t, err)

		// off peak, same district: 2 units, plus the door fee
		assert.Equal(t, "7.00", result.Match.DeliveryFee.String())
		assert.Equal(t, "35.00", result.Match.TotalAmount.String())
		assert.Equal(t, string(match.StatusPaid), result.Match.Status)

		sr := w.resource(t, result.ServiceRequest)
		assert.Equal(t, resource.TypeServiceRequest, sr.Type())
		assert.Equal(t, resource.StatusPending, sr.Status())
		assert.Equal(t, requester.ID(), sr.OwnerID())
		assert.Equal(t, m.ID(), *sr.MatchID())
		assert.Equal(t, "7.00", sr.Price().String())
		assert.Equal(t, "8.00", sr.PaidAmount().String())
	})

	t.Run("only once", func(t *testing.T) {
		w := newWorld(t)
		mb := builder.NewMatchBuilder().Settled(match.StatusAccepted, money.FromInt(28), money.Zero)
		requester, owner := w.marketParties(t, mb)
		m := mb.BuildDomain()
		w.seedMatch(t, m)

		_, err := w.matches.ConfirmOrder(t.Context(), m.ID(), owner.ID(), req)
		require.ErrorIs(t, err, match.ErrNotRequester)

		_, err = w.matches.ConfirmOrder(t.Context(), m.ID(), requester.ID(), req)
		require.NoError(t, err)
		_, err = w.matches.ConfirmOrder(t.Context(), m.ID(), requester.ID(), req)
		require.ErrorIs(t, err, match.ErrNotAccepted)
	})
}

func TestMatchUseCase_Complete(t *testing.T) {
	setup := func(t *testing.T, errandStatus errand.Status) (*world, *match.Match, uuid.UUID) {
		w := newWorld(t)
		srID := uuid.New()
		mb := builder.NewMatchBuilder().
			Settled(match.StatusErranding, money.FromInt(28), money.FromInt(4)).
			WithServiceRequest(srID)
		_, owner := w.marketParties(t, mb)
		m := mb.BuildDomain()
		w.seedMatch(t, m)
		e := builder.NewErrandBuilder().WithResource(srID).WithStatus(errandStatus).BuildDomain()
		w.seed(t, func(ctx context.Context, tx shared.Tx) error { return tx.Errands().Create(ctx, e) })
		return w, m, owner.ID()
	}

	t.Run("pays the owner", func(t *testing.T) {
		w, m, ownerID := setup(t, errand.StatusCompleted)

		view, err := w.matches.Complete(t.Context(), m.ID(), ownerID)
		require.NoError(t, err)

		assert.Equal(t, string(match.StatusCompleted), view.Status)
		wl, txs := w.ledger(t, ownerID)
		require.NotNil(t, wl)
		assert.Equal(t, "32.00", wl.Balance().String())
		require.Len(t, txs, 1)
		assert.Equal(t, m.ID(), txs[0].Reference.ID)
		owner := w.user(t, ownerID)
		assert.Equal(t, int64(32), owner.ReputationPoints())
		assert.Equal(t, user.DefaultCreditScore+1, owner.CreditScore())
	})

	t.Run("waits for the errand", func(t *testing.T) {
		w, m, ownerID := setup(t, errand.StatusDroppedOff)

		_, err := w.matches.Complete(t.Context(), m.ID(), ownerID)
		require.ErrorIs(t, err, match.ErrErrandNotCompleted)

		wl, _ := w.ledger(t, ownerID)
		assert.Nil(t, wl)
	})

	t.Run("processed refund blocks the payout", func(t *testing.T) {
		w := newWorld(t)
		srID := uuid.New()
		mb := builder.NewMatchBuilder().
			Settled(match.StatusErranding, money.FromInt(28), money.FromInt(4)).
			WithServiceRequest(srID)
		requester, owner := w.marketParties(t, mb)
		m := mb.BuildDomain()
		w.seedMatch(t, m)
		sr := builder.NewResourceBuilder().
			WithOwner(requester.ID()).
			WithMatch(m.ID()).
			With(func(b *builder.ResourceBuilder) { b.ID = srID }).
			BuildDomain()
		w.seedResources(t, sr)
		e := builder.NewErrandBuilder().WithResource(srID).WithStatus(errand.StatusCompleted).BuildDomain()
		w.seed(t, func(ctx context.Context, tx shared.Tx) error { return tx.Errands().Create(ctx, e) })

		admin := uuid.New()
		requested, err := w.refunds.Request(t.Context(), requester.ID(), commands.RefundRequest{TargetType: "match", TargetID: m.ID()})
		require.NoError(t, err)
		// final 32.00 minus the 10.00 errand base fee
		assert.Equal(t, "22.00", requested.Amount.String())

		_, err = w.matches.Complete(t.Context(), m.ID(), owner.ID())
		require.ErrorIs(t, err, match.ErrRefundOutstanding)

		_, err = w.refunds.Approve(t.Context(), requested.ID, admin)
		require.NoError(t, err)
		_, err = w.refunds.Process(t.Context(), requested.ID, admin)
		require.NoError(t, err)

		_, err = w.matches.Complete(t.Context(), m.ID(), owner.ID())
		require.ErrorIs(t, err, match.ErrRefundOutstanding)

		assert.Equal(t, match.StatusErranding, w.match(t, m.ID()).Status())
		ownerWallet, _ := w.ledger(t, owner.ID())
		assert.Nil(t, ownerWallet)
		requesterWallet, _ := w.ledger(t, requester.ID())
		require.NotNil(t, requesterWallet)
		assert.Equal(t, "22.00", requesterWallet.Balance().String())
	})
}

func TestMatchUseCase_ApplyCoupon(t *testing.T) {
	w := newWorld(t)
	mb := builder.NewMatchBuilder().Settled(match.StatusAccepted, money.FromInt(28), money.Zero)
	requester, _ := w.marketParties(t, mb)
	m := mb.BuildDomain()
	w.seedMatch(t, m)
	w.seed(t, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().Create(ctx, builder.NewCouponBuilder().MustBuild())
	})

	_, err := w.matches.ApplyCoupon(t.Context(), m.ID(), requester.ID(), "NOPE99")
	require.ErrorIs(t, err, coupon.ErrCouponNotFound)

	view, err := w.matches.ApplyCoupon(t.Context(), m.ID(), requester.ID(), "welcome5")
	require.NoError(t, err)
	assert.Equal(t, "23.00", view.FinalAmount.String())
	require.NotNil(t, view.Coupon)
	assert.Equal(t, "WELCOME5", view.Coupon.Code)
}

func TestMatchUseCase_ExpireStale(t *testing.T) {
	w := newWorld(t)

	staleB := builder.NewMatchBuilder().AcceptedBy(match.SideOwner, t0.Add(-25*time.Hour))
	requester, owner := w.marketParties(t, staleB)
	stale := staleB.BuildDomain()
	fresh := builder.NewMatchBuilder().
		WithParties(requester.ID(), owner.ID()).
		AcceptedBy(match.SideRequester, t0.Add(-time.Hour)).
		BuildDomain()
	w.seedMatch(t, stale)
	w.seedMatch(t, fresh)

	n, err := w.matches.ExpireStale(t.Context(), 10)
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	expired := w.match(t, stale.ID())
	assert.Equal(t, match.StatusCancelled, expired.Status())
	assert.Equal(t, requester.ID(), *expired.TimeoutPenaltyAppliedTo())
	assert.Equal(t, user.DefaultCreditScore-user.TimeoutPenalty, w.user(t, requester.ID()).CreditScore())
	assert.Equal(t, match.StatusPending, w.match(t, fresh.ID()).Status())

	n, err = w.matches.ExpireStale(t.Context(), 10)
	require.NoError(t, err)
	assert.Zero(t, n)
}
