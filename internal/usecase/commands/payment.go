package commands

//go:generate mockgen -source=payment.go -destination=../../../tests/mock/commands/payment.go -package=commandsmock

import (
	"context"
	"strings"

	"campus-market/internal/domain/money"
	"campus-market/internal/infra"
	"campus-market/internal/pkg/clock"
	"campus-market/internal/pkg/errs"
	"campus-market/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	PaymentTargetMatch    = "match"
	PaymentTargetResource = "resource"
)

var (
	ErrChargeIDRequired     = errs.Kind("charge id is required", errs.ErrValidation)
	ErrInvalidPaymentTarget = errs.Kind("payment target must be match or resource", errs.ErrValidation)
	ErrInvalidPaymentAmount = errs.Kind("payment amount must be positive", errs.ErrValidation)
)

type PaymentConfirmation struct {
	ChargeID   string
	TargetType string
	TargetID   uuid.UUID
	Amount     money.Money
}

type PaymentResult struct {
	ChargeID string
	// Replayed is true when the charge id had already been applied.
	Replayed bool
	// Changed is false when the target was already past payment.
	Changed bool
	Status  string
}

type PaymentCommands interface {
	ConfirmPayment(ctx context.Context, req PaymentConfirmation) (*PaymentResult, error)
}

type paymentUseCaseImpl struct {
	uow    shared.UnitOfWork
	notify notifier
	clock  clock.Clock
}

func NewPaymentUseCase(uow shared.UnitOfWork, n shared.Notifier, clk clock.Clock) PaymentCommands {
	return &paymentUseCaseImpl{uow: uow, notify: notifier{n: n}, clock: clk}
}

// ConfirmPayment applies a gateway callback exactly once per charge id.
func (uc *paymentUseCaseImpl) ConfirmPayment(ctx context.Context, req PaymentConfirmation) (*PaymentResult, error) {
	chargeID := strings.TrimSpace(req.ChargeID)
	if chargeID == "" {
		return nil, ErrChargeIDRequired
	}
	if req.TargetType != PaymentTargetMatch && req.TargetType != PaymentTargetResource {
		return nil, ErrInvalidPaymentTarget
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidPaymentAmount
	}

	result := PaymentResult{ChargeID: chargeID}
	var msgs []shared.Message
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		result.Replayed, result.Changed, msgs = false, false, nil

		err := tx.Payments().Record(ctx, shared.Charge{
			ChargeID:   chargeID,
			TargetKind: req.TargetType,
			TargetID:   req.TargetID,
			Amount:     req.Amount,
			ReceivedAt: now,
		})
		if infra.IsKind(err, infra.KindDuplicateKey) {
			result.Replayed = true
			return nil
		}
		if err != nil {
			return err
		}

		switch req.TargetType {
		case PaymentTargetMatch:
			m, err := loadMatch(ctx, tx, req.TargetID)
			if err != nil {
				return err
			}
			changed, err := m.MarkPaid(now)
			if err != nil {
				return err
			}
			if changed {
				if err := repoErr(tx.Matches().Update(ctx, m), nil); err != nil {
					return err
				}
				msgs = bothParties(m, shared.EventMatchPaid, map[string]any{"match_id": m.ID().String()})
			}
			result.Changed, result.Status = changed, m.Status().String()

		case PaymentTargetResource:
			r, err := loadResource(ctx, tx, req.TargetID)
			if err != nil {
				return err
			}
			changed, err := r.MarkPaid(now)
			if err != nil {
				return err
			}
			if changed {
				if err := repoErr(tx.Resources().Update(ctx, r), nil); err != nil {
					return err
				}
			}
			result.Changed, result.Status = changed, r.Status().String()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notify.send(ctx, msgs...)
	return &result, nil
}
