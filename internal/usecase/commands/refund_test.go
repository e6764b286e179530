//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"campus-market/internal/domain/errand"
	"campus-market/internal/domain/match"
	"campus-market/internal/domain/money"
	"campus-market/internal/domain/refund"
	"campus-market/internal/domain/resource"
	"campus-market/internal/domain/wallet"
	"campus-market/internal/usecase/commands"
	"campus-market/internal/usecase/shared"
	"campus-market/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidMatch(t *testing.T, w *world) (*match.Match, uuid.UUID, uuid.UUID) {
	t.Helper()
	mb := builder.NewMatchBuilder().Settled(match.StatusPaid, money.FromInt(28), money.FromInt(4))
	requester, owner := w.marketParties(t, mb)
	m := mb.BuildDomain()
	w.seedMatch(t, m)
	return m, requester.ID(), owner.ID()
}

func TestRefundUseCase_MatchFlow(t *testing.T) {
	w := newWorld(t)
	m, requesterID, _ := paidMatch(t, w)
	admin := uuid.New()
	req := commands.RefundRequest{TargetType: "match", TargetID: m.ID(), Reason: "  seller never showed up "}

	quote, err := w.refunds.Quote(t.Context(), requesterID, "match", m.ID())
	require.NoError(t, err)
	assert.Equal(t, "32.00", quote.Amount.String())

	view, err := w.refunds.Request(t.Context(), requesterID, req)
	require.NoError(t, err)
	assert.Equal(t, string(refund.StatusPending), view.Status)
	assert.Equal(t, "32.00", view.Amount.String())
	assert.Equal(t, "seller never showed up", view.Reason)
	assert.Equal(t, m.ID(), *view.MatchID)
	assert.Equal(t, view.ID, *w.match(t, m.ID()).RefundRequestID())

	_, err = w.refunds.Request(t.Context(), requesterID, req)
	require.ErrorIs(t, err, refund.ErrActiveRequestExists)

	_, err = w.refunds.Process(t.Context(), view.ID, admin)
	require.ErrorIs(t, err, refund.ErrNotApproved)

	_, err = w.refunds.Approve(t.Context(), view.ID, admin)
	require.NoError(t, err)
	processed, err := w.refunds.Process(t.Context(), view.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, string(refund.StatusProcessed), processed.Status)
	assert.Equal(t, admin, *processed.ProcessorID)

	wl, txs := w.ledger(t, requesterID)
	require.NotNil(t, wl)
	assert.Equal(t, "32.00", wl.Balance().String())
	require.Len(t, txs, 1)
	assert.Equal(t, wallet.Reference{Kind: wallet.RefRefundRequest, ID: view.ID}, txs[0].Reference)

	_, err = w.refunds.Request(t.Context(), requesterID, req)
	require.ErrorIs(t, err, refund.ErrAlreadyRefunded)

	assert.Equal(t, []shared.Event{
		shared.EventRefundRequested,
		shared.EventRefundReviewed,
		shared.EventRefundReviewed,
	}, w.notifier.events())
}

func TestRefundUseCase_RejectThenDispute(t *testing.T) {
	w := newWorld(t)
	m, requesterID, ownerID := paidMatch(t, w)
	admin := uuid.New()

	view, err := w.refunds.Request(t.Context(), requesterID, commands.RefundRequest{TargetType: "match", TargetID: m.ID()})
	require.NoError(t, err)

	_, err = w.refunds.Dispute(t.Context(), view.ID, requesterID)
	require.ErrorIs(t, err, refund.ErrNotRejected)

	rejected, err := w.refunds.Reject(t.Context(), view.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, string(refund.StatusRejected), rejected.Status)
	assert.Nil(t, w.match(t, m.ID()).RefundRequestID())

	_, err = w.refunds.Dispute(t.Context(), view.ID, ownerID)
	require.ErrorIs(t, err, refund.ErrNotRequester)
	disputed, err := w.refunds.Dispute(t.Context(), view.ID, requesterID)
	require.NoError(t, err)
	assert.Equal(t, string(refund.StatusDisputed), disputed.Status)

	// the other party may open a fresh request once the first is closed
	again, err := w.refunds.Request(t.Context(), ownerID, commands.RefundRequest{TargetType: "match", TargetID: m.ID()})
	require.NoError(t, err)
	assert.NotEqual(t, view.ID, again.ID)

	wl, _ := w.ledger(t, requesterID)
	assert.Nil(t, wl)
}

func TestRefundUseCase_ErrandTarget(t *testing.T) {
	w := newWorld(t)
	owner := builder.NewUserBuilder().MustBuild()
	w.seedUsers(t, owner)
	sr := builder.NewResourceBuilder().WithOwner(owner.ID()).BuildDomain()
	w.seedResources(t, sr)
	e := builder.NewErrandBuilder().
		WithResource(sr.ID()).
		WithRequester(owner.ID()).
		WithStatus(errand.StatusPending).
		WithFees(money.FromInt(6), money.FromInt(2), money.Zero).
		BuildDomain()
	w.seed(t, func(ctx context.Context, tx shared.Tx) error { return tx.Errands().Create(ctx, e) })

	_, err := w.refunds.Quote(t.Context(), uuid.New(), "errand", e.ID())
	require.ErrorIs(t, err, refund.ErrNotEntitled)

	view, err := w.refunds.Request(t.Context(), owner.ID(), commands.RefundRequest{TargetType: "errand", TargetID: e.ID()})
	require.NoError(t, err)
	assert.Equal(t, "8.00", view.Amount.String())
	assert.Equal(t, e.ID(), *view.ErrandID)

	var linked *errand.Errand
	w.read(t, func(ctx context.Context, tx shared.Tx) error {
		var err error
		linked, err = tx.Errands().FindByID(ctx, e.ID())
		return err
	})
	assert.Equal(t, view.ID, *linked.RefundRequestID())
}

func TestRefundUseCase_MatchOrderRefundedOnce(t *testing.T) {
	w := newWorld(t)
	mb := builder.NewMatchBuilder().Settled(match.StatusAccepted, money.FromInt(28), money.Zero)
	requester, _ := w.marketParties(t, mb)
	m := mb.BuildDomain()
	w.seedMatch(t, m)

	confirmed, err := w.matches.ConfirmOrder(t.Context(), m.ID(), requester.ID(), commands.ConfirmOrderRequest{
		PickupAddress:  resource.Address{Building: "Library", District: "north"},
		DropoffAddress: resource.Address{Building: "Gym", District: "north"},
		DeliveryTime:   time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC),
		DoorDelivery:   true,
		Tips:           money.FromInt(50),
	})
	require.NoError(t, err)
	charged := confirmed.Match.FinalAmount
	assert.Equal(t, "35.00", charged.String())

	matchID := m.ID()
	e := builder.NewErrandBuilder().
		WithResource(confirmed.ServiceRequest).
		WithRequester(requester.ID()).
		With(func(b *builder.ErrandBuilder) { b.MatchID = &matchID }).
		BuildDomain()
	w.seed(t, func(ctx context.Context, tx shared.Tx) error { return tx.Errands().Create(ctx, e) })

	for _, target := range []commands.RefundRequest{
		{TargetType: "resource", TargetID: confirmed.ServiceRequest},
		{TargetType: "errand", TargetID: e.ID()},
	} {
		_, err := w.refunds.Quote(t.Context(), requester.ID(), target.TargetType, target.TargetID)
		require.ErrorIs(t, err, refund.ErrCoveredByMatch, target.TargetType)
		_, err = w.refunds.Request(t.Context(), requester.ID(), target)
		require.ErrorIs(t, err, refund.ErrCoveredByMatch, target.TargetType)
	}

	view, err := w.refunds.Request(t.Context(), requester.ID(), commands.RefundRequest{TargetType: "match", TargetID: m.ID()})
	require.NoError(t, err)
	assert.True(t, view.Amount.LessThanOrEqual(charged), "refund %s exceeds charge %s", view.Amount, charged)
	assert.Nil(t, w.resource(t, confirmed.ServiceRequest).RefundRequestID())
}

func TestRefundUseCase_RequestRejections(t *testing.T) {
	cases := []struct {
		name  string
		setup func(t *testing.T, w *world) (actor uuid.UUID, req commands.RefundRequest)
		errIs error
	}{
		{
			name: "stranger",
			setup: func(t *testing.T, w *world) (uuid.UUID, commands.RefundRequest) {
				m, _, _ := paidMatch(t, w)
				return uuid.New(), commands.RefundRequest{TargetType: "match", TargetID: m.ID()}
			},
			errIs: refund.ErrNotEntitled,
		},
		{
			name: "match not yet paid",
			setup: func(t *testing.T, w *world) (uuid.UUID, commands.RefundRequest) {
				mb := builder.NewMatchBuilder().Settled(match.StatusAccepted, money.FromInt(28), money.Zero)
				requester, _ := w.marketParties(t, mb)
				m := mb.BuildDomain()
				w.seedMatch(t, m)
				return requester.ID(), commands.RefundRequest{TargetType: "match", TargetID: m.ID()}
			},
			errIs: refund.ErrNothingToRefund,
		},
		{
			name: "unknown target kind",
			setup: func(*testing.T, *world) (uuid.UUID, commands.RefundRequest) {
				return uuid.New(), commands.RefundRequest{TargetType: "wallet", TargetID: uuid.New()}
			},
			errIs: refund.ErrInvalidTargetKind,
		},
		{
			name: "missing match",
			setup: func(*testing.T, *world) (uuid.UUID, commands.RefundRequest) {
				return uuid.New(), commands.RefundRequest{TargetType: "match", TargetID: uuid.New()}
			},
			errIs: match.ErrMatchNotFound,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newWorld(t)
			actor, req := c.setup(t, w)

			_, err := w.refunds.Request(t.Context(), actor, req)
			require.ErrorIs(t, err, c.errIs)
			assert.Empty(t, w.notifier.events())
		})
	}
}
