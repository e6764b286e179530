package commands

//go:generate mockgen -source=errand.go -destination=../../../tests/mock/commands/errand.go -package=commandsmock

import (
	"context"

	"campus-market/internal/domain/coupon"
	"campus-market/internal/domain/errand"
	"campus-market/internal/domain/resource"
	"campus-market/internal/domain/user"
	"campus-market/internal/domain/wallet"
	"campus-market/internal/pkg/clock"
	"campus-market/internal/usecase/queries"
	"campus-market/internal/usecase/shared"

	"github.com/google/uuid"
)

type ErrandCommands interface {
	Claim(ctx context.Context, resourceID, runnerID uuid.UUID) (*queries.ErrandView, error)
	Pickup(ctx context.Context, errandID, actorID uuid.UUID, proofURL string) (*queries.ErrandView, error)
	Dropoff(ctx context.Context, errandID, actorID uuid.UUID, proofURL string) (*queries.ErrandView, error)
	Complete(ctx context.Context, errandID, actorID uuid.UUID) (*queries.ErrandView, error)
	ApplyCoupon(ctx context.Context, errandID, actorID uuid.UUID, code string) (*queries.ErrandView, error)
}

type errandUseCaseImpl struct {
	uow    shared.UnitOfWork
	notify notifier
	clock  clock.Clock
}

func NewErrandUseCase(uow shared.UnitOfWork, n shared.Notifier, clk clock.Clock) ErrandCommands {
	return &errandUseCaseImpl{uow: uow, notify: notifier{n: n}, clock: clk}
}

// Claim writes the target resource, the offer, the runner profile, the new
// errand and, for a match-spawned request, the match. All or nothing.
func (uc *errandUseCaseImpl) Claim(ctx context.Context, resourceID, runnerID uuid.UUID) (*queries.ErrandView, error) {
	var view *queries.ErrandView
	var msgs []shared.Message
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		runner, err := loadUser(ctx, tx, runnerID)
		if err != nil {
			return err
		}
		if !runner.IsRunner() {
			return user.ErrNotRunner
		}
		target, err := loadResource(ctx, tx, resourceID)
		if err != nil {
			return err
		}
		if err := target.EnsureClaimable(); err != nil {
			return err
		}
		pm, err := runner.PotentialMatchFor(resourceID)
		if err != nil {
			return err
		}
		offer, err := loadResource(ctx, tx, pm.OfferResourceID)
		if err != nil {
			return err
		}

		e, err := errand.Claim(target, offer, runner, now)
		if err != nil {
			return err
		}

		// errands(resource_id) is unique, so a racing second claim fails here.
		if err := createErr(tx.Errands().Create(ctx, e), errand.ErrAlreadyClaimed); err != nil {
			return err
		}
		for _, r := range []*resource.Resource{target, offer} {
			if err := repoErr(tx.Resources().Update(ctx, r), nil); err != nil {
				return err
			}
		}
		if err := repoErr(tx.Users().Update(ctx, runner), nil); err != nil {
			return err
		}

		if target.MatchID() != nil {
			m, err := loadMatch(ctx, tx, *target.MatchID())
			if err != nil {
				return err
			}
			if err := m.StartErrand(now); err != nil {
				return err
			}
			if err := repoErr(tx.Matches().Update(ctx, m), nil); err != nil {
				return err
			}
		}

		view = queries.NewErrandView(e)
		msgs = []shared.Message{{
			RecipientID: e.RequesterID(),
			Event:       shared.EventErrandClaimed,
			Payload:     map[string]any{"errand_id": e.ID().String(), "runner_id": runnerID.String()},
		}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notify.send(ctx, msgs...)
	return view, nil
}

func (uc *errandUseCaseImpl) Pickup(ctx context.Context, errandID, actorID uuid.UUID, proofURL string) (*queries.ErrandView, error) {
	proof, err := errand.NewProofRef(proofURL)
	if err != nil {
		return nil, err
	}
	return uc.transition(ctx, errandID, shared.EventErrandPickedUp, func(e *errand.Errand) error {
		return e.Pickup(actorID, proof, uc.clock.Now())
	})
}

func (uc *errandUseCaseImpl) Dropoff(ctx context.Context, errandID, actorID uuid.UUID, proofURL string) (*queries.ErrandView, error) {
	proof, err := errand.NewProofRef(proofURL)
	if err != nil {
		return nil, err
	}
	return uc.transition(ctx, errandID, shared.EventErrandDroppedOff, func(e *errand.Errand) error {
		return e.Dropoff(actorID, proof, uc.clock.Now())
	})
}

func (uc *errandUseCaseImpl) transition(ctx context.Context, errandID uuid.UUID, event shared.Event, apply func(*errand.Errand) error) (*queries.ErrandView, error) {
	var view *queries.ErrandView
	var msgs []shared.Message
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, err := loadErrand(ctx, tx, errandID)
		if err != nil {
			return err
		}
		if err := apply(e); err != nil {
			logInconsistency(ctx, err, string(event), e)
			return err
		}
		if err := repoErr(tx.Errands().Update(ctx, e), nil); err != nil {
			return err
		}
		view = queries.NewErrandView(e)
		msgs = []shared.Message{{
			RecipientID: e.RequesterID(),
			Event:       event,
			Payload:     map[string]any{"errand_id": e.ID().String()},
		}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notify.send(ctx, msgs...)
	return view, nil
}

// Complete pays the runner and advances the errand in one transaction.
func (uc *errandUseCaseImpl) Complete(ctx context.Context, errandID, actorID uuid.UUID) (*queries.ErrandView, error) {
	var view *queries.ErrandView
	var msgs []shared.Message
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		e, err := loadErrand(ctx, tx, errandID)
		if err != nil {
			return err
		}
		runnerID := actorID
		if e.RunnerID() != nil {
			runnerID = *e.RunnerID()
		}
		runner, err := loadUser(ctx, tx, runnerID)
		if err != nil {
			return err
		}

		earnings, err := e.Complete(actorID, runner.CreditScore(), now)
		if err != nil {
			logInconsistency(ctx, err, "errand.complete", e)
			return err
		}

		if err := creditWallet(ctx, tx, runner.ID(), earnings, "errand completed",
			wallet.Reference{Kind: wallet.RefErrand, ID: e.ID()}, now); err != nil {
			return err
		}
		runner.AwardCompletion(earnings, now)
		if err := repoErr(tx.Users().Update(ctx, runner), nil); err != nil {
			return err
		}
		if err := repoErr(tx.Errands().Update(ctx, e), nil); err != nil {
			return err
		}

		view = queries.NewErrandView(e)
		payload := map[string]any{"errand_id": e.ID().String(), "earnings": earnings.String()}
		msgs = []shared.Message{
			{RecipientID: e.RequesterID(), Event: shared.EventErrandCompleted, Payload: payload},
			{RecipientID: runner.ID(), Event: shared.EventErrandCompleted, Payload: payload},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notify.send(ctx, msgs...)
	return view, nil
}

func (uc *errandUseCaseImpl) ApplyCoupon(ctx context.Context, errandID, actorID uuid.UUID, code string) (*queries.ErrandView, error) {
	couponCode, err := coupon.NewCouponCode(code)
	if err != nil {
		return nil, err
	}

	var view *queries.ErrandView
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, err := loadErrand(ctx, tx, errandID)
		if err != nil {
			return err
		}
		c, err := tx.Coupons().FindByCode(ctx, couponCode)
		if err != nil {
			return repoErr(err, coupon.ErrCouponNotFound)
		}
		if err := e.ApplyCoupon(actorID, c, uc.clock.Now()); err != nil {
			return err
		}
		if err := repoErr(tx.Errands().Update(ctx, e), nil); err != nil {
			return err
		}
		view = queries.NewErrandView(e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func loadErrand(ctx context.Context, tx shared.Tx, id uuid.UUID) (*errand.Errand, error) {
	e, err := tx.Errands().FindByID(ctx, id)
	return e, repoErr(err, errand.ErrErrandNotFound)
}
