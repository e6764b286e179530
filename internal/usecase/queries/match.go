package queries

//go:generate mockgen -source=match.go -destination=../../../tests/mock/queries/match.go -package=queriesmock

import (
	"context"

	"campus-market/internal/domain/errand"
	"campus-market/internal/domain/match"
	"campus-market/internal/domain/refund"
	"campus-market/internal/domain/user"
	"campus-market/internal/infra"
	"campus-market/internal/usecase/shared"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a query.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role.AtLeast(user.RoleAdmin)
}

type MarketQueries interface {
	GetMatch(ctx context.Context, id uuid.UUID, actor Actor) (*MatchView, error)
	GetErrand(ctx context.Context, id uuid.UUID, actor Actor) (*ErrandView, error)
	GetRefund(ctx context.Context, id uuid.UUID, actor Actor) (*RefundView, error)
}

type marketQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewMarketQueries(uow shared.UnitOfWork) MarketQueries {
	return &marketQueriesImpl{uow: uow}
}

func (q *marketQueriesImpl) GetMatch(ctx context.Context, id uuid.UUID, actor Actor) (*MatchView, error) {
	var view *MatchView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		m, err := tx.Matches().FindByID(ctx, id)
		if err != nil {
			return notFound(err, match.ErrMatchNotFound)
		}
		if !actor.IsAdmin() && !m.IsParty(actor.ID) {
			return match.ErrNotParty
		}
		view = NewMatchView(m)
		return nil
	})
	return view, err
}

func (q *marketQueriesImpl) GetErrand(ctx context.Context, id uuid.UUID, actor Actor) (*ErrandView, error) {
	var view *ErrandView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, err := tx.Errands().FindByID(ctx, id)
		if err != nil {
			return notFound(err, errand.ErrErrandNotFound)
		}
		if !actor.IsAdmin() && !e.IsParticipant(actor.ID) {
			return errand.ErrNotParticipant
		}
		view = NewErrandView(e)
		return nil
	})
	return view, err
}

func (q *marketQueriesImpl) GetRefund(ctx context.Context, id uuid.UUID, actor Actor) (*RefundView, error) {
	var view *RefundView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := tx.Refunds().FindByID(ctx, id)
		if err != nil {
			return notFound(err, refund.ErrRefundNotFound)
		}
		if !actor.IsAdmin() && r.RequesterID() != actor.ID {
			return refund.ErrNotRequester
		}
		view = NewRefundView(r)
		return nil
	})
	return view, err
}

func notFound(err, sentinel error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return sentinel
	}
	return err
}
