package commands

//go:generate mockgen -source=match.go -destination=../../../tests/mock/commands/match.go -package=commandsmock

import (
	"context"
	"log/slog"
	"time"

	"campus-market/internal/domain/coupon"
	"campus-market/internal/domain/errand"
	"campus-market/internal/domain/match"
	"campus-market/internal/domain/money"
	"campus-market/internal/domain/resource"
	"campus-market/internal/domain/user"
	"campus-market/internal/domain/wallet"
	"campus-market/internal/infra"
	"campus-market/internal/pkg/clock"
	"campus-market/internal/pkg/errs"
	"campus-market/internal/usecase/queries"
	"campus-market/internal/usecase/shared"

	"github.com/google/uuid"
)

type AcceptResult struct {
	Outcome match.AcceptOutcome
	Match   *queries.MatchView
}

type ConfirmOrderRequest struct {
	PickupAddress  resource.Address
	DropoffAddress resource.Address
	DeliveryTime   time.Time
	DoorDelivery   bool
	Tips           money.Money
}

type ConfirmOrderResult struct {
	Match          *queries.MatchView
	ServiceRequest uuid.UUID
}

type MatchCommands interface {
	Accept(ctx context.Context, matchID, actorID uuid.UUID) (*AcceptResult, error)
	Reject(ctx context.Context, matchID, actorID uuid.UUID) (*queries.MatchView, error)
	Cancel(ctx context.Context, matchID, actorID uuid.UUID, reason string) (*queries.MatchView, error)
	ConfirmOrder(ctx context.Context, matchID, actorID uuid.UUID, req ConfirmOrderRequest) (*ConfirmOrderResult, error)
	Complete(ctx context.Context, matchID, actorID uuid.UUID) (*queries.MatchView, error)
	ApplyCoupon(ctx context.Context, matchID, actorID uuid.UUID, code string) (*queries.MatchView, error)
	// ExpireStale cancels pending matches whose acceptance window lapsed and
	// reports how many were cancelled.
	ExpireStale(ctx context.Context, limit int) (int, error)
}

type matchUseCaseImpl struct {
	uow    shared.UnitOfWork
	pricer match.PriceCalculator
	notify notifier
	clock  clock.Clock
}

func NewMatchUseCase(uow shared.UnitOfWork, pricer match.PriceCalculator, n shared.Notifier, clk clock.Clock) MatchCommands {
	return &matchUseCaseImpl{uow: uow, pricer: pricer, notify: notifier{n: n}, clock: clk}
}

func (uc *matchUseCaseImpl) Accept(ctx context.Context, matchID, actorID uuid.UUID) (*AcceptResult, error) {
	var (
		result AcceptResult
		msgs   []shared.Message
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		m, err := loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}

		outcome, err := m.Accept(actorID, now)
		if err != nil {
			logInconsistency(ctx, err, "match.accept", m)
			return err
		}

		if outcome == match.OutcomeTimedOut {
			late, err := loadUser(ctx, tx, actorID)
			if err != nil {
				return err
			}
			late.ApplyTimeoutPenalty(now)
			if err := repoErr(tx.Users().Update(ctx, late), nil); err != nil {
				return err
			}
		}

		if err := repoErr(tx.Matches().Update(ctx, m), nil); err != nil {
			return err
		}

		result = AcceptResult{Outcome: outcome, Match: queries.NewMatchView(m)}
		msgs = acceptMessages(m, actorID, outcome)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notify.send(ctx, msgs...)
	return &result, nil
}

func acceptMessages(m *match.Match, actorID uuid.UUID, outcome match.AcceptOutcome) []shared.Message {
	payload := map[string]any{"match_id": m.ID().String()}
	switch outcome {
	case match.OutcomeFirstAcceptance:
		return []shared.Message{{RecipientID: m.Counterparty(actorID), Event: shared.EventMatchFirstAcceptance, Payload: payload}}
	case match.OutcomeAccepted:
		return bothParties(m, shared.EventMatchAccepted, payload)
	case match.OutcomeTimedOut:
		payload["penalized_user_id"] = actorID.String()
		return bothParties(m, shared.EventMatchTimedOut, payload)
	}
	return nil
}

func bothParties(m *match.Match, event shared.Event, payload map[string]any) []shared.Message {
	return []shared.Message{
		{RecipientID: m.RequesterID(), Event: event, Payload: payload},
		{RecipientID: m.OwnerID(), Event: event, Payload: payload},
	}
}

func (uc *matchUseCaseImpl) Reject(ctx context.Context, matchID, actorID uuid.UUID) (*queries.MatchView, error) {
	var view *queries.MatchView
	var msgs []shared.Message
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		m, err := loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if err := m.Reject(actorID, uc.clock.Now()); err != nil {
			return err
		}
		if err := repoErr(tx.Matches().Update(ctx, m), nil); err != nil {
			return err
		}
		view = queries.NewMatchView(m)
		msgs = []shared.Message{{
			RecipientID: m.Counterparty(actorID),
			Event:       shared.EventMatchRejected,
			Payload:     map[string]any{"match_id": m.ID().String()},
		}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notify.send(ctx, msgs...)
	return view, nil
}

func (uc *matchUseCaseImpl) Cancel(ctx context.Context, matchID, actorID uuid.UUID, reason string) (*queries.MatchView, error) {
	var view *queries.MatchView
	var msgs []shared.Message
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		m, err := loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if err := m.Cancel(actorID, reason, now); err != nil {
			return err
		}

		// Both sides go back to the pool on every cancellation path.
		for _, id := range []uuid.UUID{m.Resource1ID(), m.Resource2ID()} {
			r, err := loadResource(ctx, tx, id)
			if err != nil {
				return err
			}
			r.ReleaseToPool(now)
			if err := repoErr(tx.Resources().Update(ctx, r), nil); err != nil {
				return err
			}
		}

		if err := repoErr(tx.Matches().Update(ctx, m), nil); err != nil {
			return err
		}
		view = queries.NewMatchView(m)
		msgs = []shared.Message{{
			RecipientID: m.Counterparty(actorID),
			Event:       shared.EventMatchCancelled,
			Payload:     map[string]any{"match_id": m.ID().String(), "reason": m.CancellationReason()},
		}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notify.send(ctx, msgs...)
	return view, nil
}

func (uc *matchUseCaseImpl) ConfirmOrder(ctx context.Context, matchID, actorID uuid.UUID, req ConfirmOrderRequest) (*ConfirmOrderResult, error) {
	var result ConfirmOrderResult
	var msgs []shared.Message
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		m, err := loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}

		price := uc.pricer.QuoteDelivery(match.DeliveryRequest{
			Pickup:       req.PickupAddress,
			Dropoff:      req.DropoffAddress,
			DeliveryTime: req.DeliveryTime,
			DoorDelivery: req.DoorDelivery,
		})
		spec := resource.ServiceSpec{
			PickupAddress:  req.PickupAddress,
			DropoffAddress: req.DropoffAddress,
			StartTime:      req.DeliveryTime,
			DoorDelivery:   req.DoorDelivery,
			Tips:           req.Tips,
		}
		sr, err := resource.NewSpawnedServiceRequest(m.RequesterID(), m.ID(), price, spec, now)
		if err != nil {
			return err
		}

		if err := m.ConfirmOrder(actorID, price, sr.ID(), now); err != nil {
			return err
		}
		// resources(match_id) is unique, so a racing second confirm fails here.
		if err := createErr(tx.Resources().Create(ctx, sr), match.ErrServiceRequestAlreadySpawned); err != nil {
			return err
		}
		if err := repoErr(tx.Matches().Update(ctx, m), nil); err != nil {
			return err
		}

		result = ConfirmOrderResult{Match: queries.NewMatchView(m), ServiceRequest: sr.ID()}
		msgs = bothParties(m, shared.EventMatchOrderConfirmed, map[string]any{
			"match_id":           m.ID().String(),
			"service_request_id": sr.ID().String(),
			"delivery_fee":       price.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notify.send(ctx, msgs...)
	return &result, nil
}

func (uc *matchUseCaseImpl) Complete(ctx context.Context, matchID, actorID uuid.UUID) (*queries.MatchView, error) {
	var view *queries.MatchView
	var msgs []shared.Message
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		m, err := loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}

		done, err := linkedErrandCompleted(ctx, tx, m)
		if err != nil {
			return err
		}
		payout, err := m.Complete(actorID, done, now)
		if err != nil {
			return err
		}

		owner, err := loadUser(ctx, tx, m.OwnerID())
		if err != nil {
			return err
		}
		if err := creditWallet(ctx, tx, owner.ID(), payout, "match completed",
			wallet.Reference{Kind: wallet.RefMatch, ID: m.ID()}, now); err != nil {
			return err
		}
		owner.AwardCompletion(payout, now)
		if err := repoErr(tx.Users().Update(ctx, owner), nil); err != nil {
			return err
		}
		if err := repoErr(tx.Matches().Update(ctx, m), nil); err != nil {
			return err
		}

		view = queries.NewMatchView(m)
		msgs = bothParties(m, shared.EventMatchCompleted, map[string]any{
			"match_id": m.ID().String(),
			"payout":   payout.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notify.send(ctx, msgs...)
	return view, nil
}

func linkedErrandCompleted(ctx context.Context, tx shared.Tx, m *match.Match) (bool, error) {
	if m.ServiceRequestID() == nil {
		return false, nil
	}
	e, err := tx.Errands().FindByResourceID(ctx, *m.ServiceRequestID())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return e.Status() == errand.StatusCompleted, nil
}

func (uc *matchUseCaseImpl) ApplyCoupon(ctx context.Context, matchID, actorID uuid.UUID, code string) (*queries.MatchView, error) {
	couponCode, err := coupon.NewCouponCode(code)
	if err != nil {
		return nil, err
	}

	var view *queries.MatchView
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		m, err := loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		c, err := tx.Coupons().FindByCode(ctx, couponCode)
		if err != nil {
			return repoErr(err, coupon.ErrCouponNotFound)
		}
		if err := m.ApplyCoupon(actorID, c, uc.clock.Now()); err != nil {
			return err
		}
		if err := repoErr(tx.Matches().Update(ctx, m), nil); err != nil {
			return err
		}
		view = queries.NewMatchView(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (uc *matchUseCaseImpl) ExpireStale(ctx context.Context, limit int) (int, error) {
	var stale []*match.Match
	err := uc.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		stale, err = tx.Matches().ListStalePending(ctx, uc.clock.Now().Add(-match.AcceptanceWindow), limit)
		return err
	})
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, candidate := range stale {
		ok, err := uc.expireOne(ctx, candidate.ID())
		if err != nil {
			if errs.IsExpected(err) || errs.Is(err, errs.ErrInternalInconsistency) {
				slog.DebugContext(ctx, "skipping match during expiry sweep",
					slog.String("match_id", candidate.ID().String()),
					slog.String("reason", err.Error()))
				continue
			}
			return expired, err
		}
		if ok {
			expired++
		}
	}
	return expired, nil
}

func (uc *matchUseCaseImpl) expireOne(ctx context.Context, matchID uuid.UUID) (bool, error) {
	var msgs []shared.Message
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		m, err := loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		late, err := m.Expire(now)
		if err != nil {
			logInconsistency(ctx, err, "match.expire", m)
			return err
		}
		u, err := loadUser(ctx, tx, late)
		if err != nil {
			return err
		}
		u.ApplyTimeoutPenalty(now)
		if err := repoErr(tx.Users().Update(ctx, u), nil); err != nil {
			return err
		}
		if err := repoErr(tx.Matches().Update(ctx, m), nil); err != nil {
			return err
		}
		msgs = bothParties(m, shared.EventMatchTimedOut, map[string]any{
			"match_id":          m.ID().String(),
			"penalized_user_id": late.String(),
		})
		return nil
	})
	if err != nil {
		return false, err
	}
	uc.notify.send(ctx, msgs...)
	return true, nil
}

func loadMatch(ctx context.Context, tx shared.Tx, id uuid.UUID) (*match.Match, error) {
	m, err := tx.Matches().FindByID(ctx, id)
	return m, repoErr(err, match.ErrMatchNotFound)
}

func loadUser(ctx context.Context, tx shared.Tx, id uuid.UUID) (*user.User, error) {
	u, err := tx.Users().FindByID(ctx, id)
	return u, repoErr(err, user.ErrUserNotFound)
}

func loadResource(ctx context.Context, tx shared.Tx, id uuid.UUID) (*resource.Resource, error) {
	r, err := tx.Resources().FindByID(ctx, id)
	return r, repoErr(err, resource.ErrResourceNotFound)
}
