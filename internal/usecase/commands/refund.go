package commands

//go:generate mockgen -source=refund.go -destination=../../../tests/mock/commands/refund.go -package=commandsmock

import (
	"context"
	"slices"
	"time"

	"campus-market/internal/domain/refund"
	"campus-market/internal/domain/wallet"
	"campus-market/internal/pkg/clock"
	"campus-market/internal/usecase/queries"
	"campus-market/internal/usecase/shared"

	"github.com/google/uuid"
)

type RefundRequest struct {
	TargetType string
	TargetID   uuid.UUID
	Reason     string
}

type RefundCommands interface {
	Request(ctx context.Context, actorID uuid.UUID, req RefundRequest) (*queries.RefundView, error)
	Quote(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID) (*queries.RefundQuoteView, error)
	Approve(ctx context.Context, refundID, adminID uuid.UUID) (*queries.RefundView, error)
	Reject(ctx context.Context, refundID, adminID uuid.UUID) (*queries.RefundView, error)
	Process(ctx context.Context, refundID, adminID uuid.UUID) (*queries.RefundView, error)
	Dispute(ctx context.Context, refundID, actorID uuid.UUID) (*queries.RefundView, error)
}

type refundUseCaseImpl struct {
	uow    shared.UnitOfWork
	notify notifier
	clock  clock.Clock
}

func NewRefundUseCase(uow shared.UnitOfWork, n shared.Notifier, clk clock.Clock) RefundCommands {
	return &refundUseCaseImpl{uow: uow, notify: notifier{n: n}, clock: clk}
}

type refundable interface {
	LinkRefund(refundID uuid.UUID, now time.Time) error
	UnlinkRefund(refundID uuid.UUID, now time.Time) error
}

// refundTarget is a loaded refund target with the users entitled to refund it.
type refundTarget struct {
	item     refund.Item
	entitled []uuid.UUID
	agg      refundable
	save     func(ctx context.Context) error
}

func loadRefundTarget(ctx context.Context, tx shared.Tx, target refund.Target) (*refundTarget, error) {
	switch target.Kind {
	case refund.TargetResource:
		r, err := loadResource(ctx, tx, target.ID)
		if err != nil {
			return nil, err
		}
		// The match charge already includes a spawned request's delivery.
		if r.MatchID() != nil {
			return nil, refund.ErrCoveredByMatch
		}
		return &refundTarget{
			item:     refund.ResourceItemOf(r),
			entitled: []uuid.UUID{r.OwnerID()},
			agg:      r,
			save:     func(ctx context.Context) error { return repoErr(tx.Resources().Update(ctx, r), nil) },
		}, nil

	case refund.TargetErrand:
		e, err := loadErrand(ctx, tx, target.ID)
		if err != nil {
			return nil, err
		}
		// Entitlement follows ownership of the linked service request.
		linked, err := loadResource(ctx, tx, e.ResourceID())
		if err != nil {
			return nil, err
		}
		if e.MatchID() != nil || linked.MatchID() != nil {
			return nil, refund.ErrCoveredByMatch
		}
		return &refundTarget{
			item:     refund.ErrandItemOf(e),
			entitled: []uuid.UUID{linked.OwnerID()},
			agg:      e,
			save:     func(ctx context.Context) error { return repoErr(tx.Errands().Update(ctx, e), nil) },
		}, nil

	case refund.TargetMatch:
		m, err := loadMatch(ctx, tx, target.ID)
		if err != nil {
			return nil, err
		}
		item := refund.MatchItemOf(m, nil)
		if m.ServiceRequestID() != nil {
			sr, err := loadResource(ctx, tx, *m.ServiceRequestID())
			if err != nil {
				return nil, err
			}
			item = refund.MatchItemOf(m, sr)
		}
		return &refundTarget{
			item:     item,
			entitled: []uuid.UUID{m.RequesterID(), m.OwnerID()},
			agg:      m,
			save:     func(ctx context.Context) error { return repoErr(tx.Matches().Update(ctx, m), nil) },
		}, nil
	}
	return nil, refund.ErrInvalidTargetKind
}

func (t *refundTarget) authorize(actorID uuid.UUID) error {
	if !slices.Contains(t.entitled, actorID) {
		return refund.ErrNotEntitled
	}
	return nil
}

func (uc *refundUseCaseImpl) Quote(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID) (*queries.RefundQuoteView, error) {
	target, err := parseTarget(targetType, targetID)
	if err != nil {
		return nil, err
	}

	var view *queries.RefundQuoteView
	err = uc.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		t, err := loadRefundTarget(ctx, tx, target)
		if err != nil {
			return err
		}
		if err := t.authorize(actorID); err != nil {
			return err
		}
		now := uc.clock.Now()
		view = &queries.RefundQuoteView{
			TargetType: string(target.Kind),
			TargetID:   target.ID,
			Amount:     refund.Calculate(t.item, now),
			QuotedAt:   now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Request creates the refund request and links it onto the item in one
// transaction, so a failed link leaves no orphaned request behind.
func (uc *refundUseCaseImpl) Request(ctx context.Context, actorID uuid.UUID, req RefundRequest) (*queries.RefundView, error) {
	target, err := parseTarget(req.TargetType, req.TargetID)
	if err != nil {
		return nil, err
	}

	var view *queries.RefundView
	var msgs []shared.Message
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		t, err := loadRefundTarget(ctx, tx, target)
		if err != nil {
			return err
		}
		if err := t.authorize(actorID); err != nil {
			return err
		}

		processed, err := tx.Refunds().HasProcessed(ctx, target)
		if err != nil {
			return err
		}
		if processed {
			return refund.ErrAlreadyRefunded
		}
		active, err := tx.Refunds().HasActive(ctx, target)
		if err != nil {
			return err
		}
		if active {
			return refund.ErrActiveRequestExists
		}

		amount := refund.Calculate(t.item, now)
		if !amount.IsPositive() {
			return refund.ErrNothingToRefund
		}
		r, err := refund.NewRequest(actorID, target, amount, req.Reason, now)
		if err != nil {
			return err
		}
		if err := createErr(tx.Refunds().Create(ctx, r), refund.ErrActiveRequestExists); err != nil {
			return err
		}
		if err := t.agg.LinkRefund(r.ID(), now); err != nil {
			return err
		}
		if err := t.save(ctx); err != nil {
			return err
		}

		view = queries.NewRefundView(r)
		msgs = []shared.Message{{
			RecipientID: actorID,
			Event:       shared.EventRefundRequested,
			Payload:     map[string]any{"refund_id": r.ID().String(), "amount": amount.String()},
		}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notify.send(ctx, msgs...)
	return view, nil
}

func (uc *refundUseCaseImpl) Approve(ctx context.Context, refundID, adminID uuid.UUID) (*queries.RefundView, error) {
	return uc.review(ctx, refundID, func(ctx context.Context, tx shared.Tx, r *refund.Request, now time.Time) error {
		return r.Approve(adminID, now)
	})
}

// Reject closes the request and frees the item for a new one.
func (uc *refundUseCaseImpl) Reject(ctx context.Context, refundID, adminID uuid.UUID) (*queries.RefundView, error) {
	return uc.review(ctx, refundID, func(ctx context.Context, tx shared.Tx, r *refund.Request, now time.Time) error {
		if err := r.Reject(adminID, now); err != nil {
			return err
		}
		t, err := loadRefundTarget(ctx, tx, r.Target())
		if err != nil {
			return err
		}
		if err := t.agg.UnlinkRefund(r.ID(), now); err != nil {
			logInconsistency(ctx, err, "refund.reject", r)
			return err
		}
		return t.save(ctx)
	})
}

// Process settles an approved request by crediting the requester's wallet.
func (uc *refundUseCaseImpl) Process(ctx context.Context, refundID, adminID uuid.UUID) (*queries.RefundView, error) {
	return uc.review(ctx, refundID, func(ctx context.Context, tx shared.Tx, r *refund.Request, now time.Time) error {
		if err := r.Process(adminID, now); err != nil {
			return err
		}
		return creditWallet(ctx, tx, r.RequesterID(), r.Amount(), "refund processed",
			wallet.Reference{Kind: wallet.RefRefundRequest, ID: r.ID()}, now)
	})
}

func (uc *refundUseCaseImpl) review(
	ctx context.Context,
	refundID uuid.UUID,
	apply func(ctx context.Context, tx shared.Tx, r *refund.Request, now time.Time) error,
) (*queries.RefundView, error) {
	var view *queries.RefundView
	var msgs []shared.Message
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := loadRefund(ctx, tx, refundID)
		if err != nil {
			return err
		}
		if err := apply(ctx, tx, r, uc.clock.Now()); err != nil {
			return err
		}
		if err := repoErr(tx.Refunds().Update(ctx, r), nil); err != nil {
			return err
		}
		view = queries.NewRefundView(r)
		msgs = []shared.Message{{
			RecipientID: r.RequesterID(),
			Event:       shared.EventRefundReviewed,
			Payload:     map[string]any{"refund_id": r.ID().String(), "status": r.Status().String()},
		}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notify.send(ctx, msgs...)
	return view, nil
}

func (uc *refundUseCaseImpl) Dispute(ctx context.Context, refundID, actorID uuid.UUID) (*queries.RefundView, error) {
	var view *queries.RefundView
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := loadRefund(ctx, tx, refundID)
		if err != nil {
			return err
		}
		if err := r.Dispute(actorID, uc.clock.Now()); err != nil {
			return err
		}
		if err := repoErr(tx.Refunds().Update(ctx, r), nil); err != nil {
			return err
		}
		view = queries.NewRefundView(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func parseTarget(targetType string, targetID uuid.UUID) (refund.Target, error) {
	kind, err := refund.NewTargetKind(targetType)
	if err != nil {
		return refund.Target{}, err
	}
	return refund.NewTarget(kind, targetID)
}

func loadRefund(ctx context.Context, tx shared.Tx, id uuid.UUID) (*refund.Request, error) {
	r, err := tx.Refunds().FindByID(ctx, id)
	return r, repoErr(err, refund.ErrRefundNotFound)
}
