package errand

import (
	"log/slog"
	"time"

	"campus-market/internal/domain/coupon"
	"campus-market/internal/domain/money"
	"campus-market/internal/domain/resource"
	"campus-market/internal/domain/user"
	"campus-market/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrErrandNotFound      = errs.Kind("errand not found", errs.ErrNotFound)
	ErrNotAssignedRunner   = errs.Kind("only the assigned runner may perform this action", errs.ErrForbidden)
	ErrNotRequester        = errs.Kind("only the errand requester may perform this action", errs.ErrForbidden)
	ErrNotParticipant      = errs.Kind("actor is neither the requester nor the runner of the errand", errs.ErrForbidden)
	ErrOwnRequest          = errs.Kind("runner cannot claim their own request", errs.ErrForbidden)
	ErrInvalidTransition   = errs.Kind("errand cannot move to the requested status", errs.ErrInvalidState)
	ErrRefundOutstanding   = errs.Kind("errand has an open or settled refund request", errs.ErrInvalidState)
	ErrCouponNotAllowed    = errs.Kind("coupon cannot be applied in the current errand status", errs.ErrInvalidState)
	ErrOfferMismatch       = errs.Kind("offer does not match the runner's potential match", errs.ErrValidation)
	ErrAlreadyClaimed      = errs.Kind("service request was already claimed", errs.ErrConflict)
	ErrRefundAlreadyLinked = errs.Kind("errand already has an active refund request", errs.ErrConflict)
	ErrRefundLinkMismatch  = errs.Kind("refund request is not linked to this errand", errs.ErrInternalInconsistency)
	ErrMissingRunner       = errs.Kind("errand has no assigned runner", errs.ErrInternalInconsistency)
)

// Amounts are derived from the claimed service request at claim time.
//
//	DeliveryFee = BaseFee + DoorDeliveryFee (the resource price)
//	TotalAmount = DeliveryFee + Tips
//	FinalAmount = TotalAmount - coupon discount
type Amounts struct {
	BaseFee         money.Money
	DoorDeliveryFee money.Money
	Tips            money.Money
	DeliveryFee     money.Money
	TotalAmount     money.Money
	FinalAmount     money.Money
}

type Route struct {
	Pickup       resource.Address
	Dropoff      resource.Address
	StartTime    time.Time
	ArrivalTime  *time.Time
	DoorDelivery bool
}

type Proofs struct {
	Pickup  *ProofRef
	Dropoff *ProofRef
}

type Timestamps struct {
	AssignedAt   *time.Time
	PickedUpAt   *time.Time
	DroppedOffAt *time.Time
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Errand struct {
	id              uuid.UUID
	resourceID      uuid.UUID
	matchID         *uuid.UUID
	requesterID     uuid.UUID
	runnerID        *uuid.UUID
	status          Status
	amounts         Amounts
	coupon          *coupon.Applied
	route           Route
	proofs          Proofs
	earnings        money.Money
	refundRequestID *uuid.UUID
	version         int
	ts              Timestamps
}

// Claim assigns a service request to a runner. It mutates every record the
// claim touches; the caller persists all of them in one unit of work.
func Claim(target, offer *resource.Resource, runner *user.User, now time.Time) (*Errand, error) {
	if !runner.IsRunner() {
		return nil, user.ErrNotRunner
	}
	if err := target.EnsureClaimable(); err != nil {
		return nil, err
	}
	if target.OwnerID() == runner.ID() {
		return nil, ErrOwnRequest
	}
	spec, ok := target.ServiceSpec()
	if !ok {
		return nil, resource.ErrServiceSpecMissing
	}

	pm, err := runner.PotentialMatchFor(target.ID())
	if err != nil {
		return nil, err
	}
	if pm.OfferResourceID != offer.ID() {
		return nil, ErrOfferMismatch
	}
	if err := offer.MarkUnavailable(now); err != nil {
		return nil, err
	}

	e := &Errand{
		id:          uuid.New(),
		resourceID:  target.ID(),
		matchID:     target.MatchID(),
		requesterID: target.OwnerID(),
		status:      StatusAssigned,
		amounts:     amountsFor(target.Price(), spec),
		route: Route{
			Pickup:       spec.PickupAddress,
			Dropoff:      spec.DropoffAddress,
			StartTime:    spec.StartTime,
			ArrivalTime:  spec.ArrivalTime,
			DoorDelivery: spec.DoorDelivery,
		},
	}
	runnerID := runner.ID()
	e.runnerID = &runnerID
	t := now
	e.ts = Timestamps{AssignedAt: &t, CreatedAt: now, UpdatedAt: now}

	if err := target.AssignErrand(e.id, now); err != nil {
		return nil, err
	}
	if _, err := runner.ConsumePotentialMatch(target.ID(), now); err != nil {
		return nil, err
	}
	return e, nil
}

func amountsFor(price money.Money, spec resource.ServiceSpec) Amounts {
	door := spec.DoorDeliveryFee()
	a := Amounts{
		BaseFee:         price.Sub(door).ClampZero(),
		DoorDeliveryFee: door,
		Tips:            spec.Tips,
		DeliveryFee:     price,
	}
	a.TotalAmount = a.DeliveryFee.Add(a.Tips)
	a.FinalAmount = a.TotalAmount
	return a
}

func ReconstructErrand(
	id, resourceID uuid.UUID,
	matchID *uuid.UUID,
	requesterID uuid.UUID,
	runnerID *uuid.UUID,
	status Status,
	amounts Amounts,
	applied *coupon.Applied,
	route Route,
	proofs Proofs,
	earnings money.Money,
	refundRequestID *uuid.UUID,
	version int,
	ts Timestamps,
) *Errand {
	return &Errand{
		id:              id,
		resourceID:      resourceID,
		matchID:         matchID,
		requesterID:     requesterID,
		runnerID:        runnerID,
		status:          status,
		amounts:         amounts,
		coupon:          applied,
		route:           route,
		proofs:          proofs,
		earnings:        earnings,
		refundRequestID: refundRequestID,
		version:         version,
		ts:              ts,
	}
}

func (e *Errand) Pickup(actor uuid.UUID, proof ProofRef, now time.Time) error {
	if err := e.ensureRunner(actor); err != nil {
		return err
	}
	if err := e.advance(StatusAssigned, StatusPickedUp); err != nil {
		return err
	}
	e.proofs.Pickup = &proof
	t := now
	e.ts.PickedUpAt = &t
	e.ts.UpdatedAt = now
	return nil
}

func (e *Errand) Dropoff(actor uuid.UUID, proof ProofRef, now time.Time) error {
	if err := e.ensureRunner(actor); err != nil {
		return err
	}
	if err := e.advance(StatusPickedUp, StatusDroppedOff); err != nil {
		return err
	}
	e.proofs.Dropoff = &proof
	t := now
	e.ts.DroppedOffAt = &t
	e.ts.UpdatedAt = now
	return nil
}

// Complete finishes the errand and returns the runner's earnings:
// deliveryFee scaled by the runner's credit score as a percentage.
func (e *Errand) Complete(actor uuid.UUID, runnerCreditScore int, now time.Time) (money.Money, error) {
	if err := e.ensureRunner(actor); err != nil {
		return money.Zero, err
	}
	if e.refundRequestID != nil {
		return money.Zero, ErrRefundOutstanding
	}
	if err := e.advance(StatusDroppedOff, StatusCompleted); err != nil {
		return money.Zero, err
	}
	e.earnings = Earnings(e.amounts.DeliveryFee, runnerCreditScore)
	t := now
	e.ts.CompletedAt = &t
	e.ts.UpdatedAt = now
	return e.earnings, nil
}

func Earnings(deliveryFee money.Money, creditScore int) money.Money {
	return deliveryFee.MulRatio(int64(creditScore), int64(user.MaxCreditScore))
}

func (e *Errand) ApplyCoupon(actor uuid.UUID, c *coupon.Coupon, now time.Time) error {
	if actor != e.requesterID {
		return ErrNotRequester
	}
	if e.status != StatusPending && e.status != StatusAssigned {
		return ErrCouponNotAllowed
	}
	if e.coupon != nil {
		return coupon.ErrCouponAlreadyApplied
	}
	applied, err := c.Redeem(e.amounts.TotalAmount, now)
	if err != nil {
		return err
	}
	e.coupon = &applied
	e.amounts.FinalAmount = e.amounts.TotalAmount.Sub(applied.DiscountAmount).ClampZero()
	e.ts.UpdatedAt = now
	return nil
}

func (e *Errand) LinkRefund(refundID uuid.UUID, now time.Time) error {
	if e.refundRequestID != nil {
		return ErrRefundAlreadyLinked
	}
	e.refundRequestID = &refundID
	e.ts.UpdatedAt = now
	return nil
}

func (e *Errand) UnlinkRefund(refundID uuid.UUID, now time.Time) error {
	if e.refundRequestID == nil || *e.refundRequestID != refundID {
		return ErrRefundLinkMismatch
	}
	e.refundRequestID = nil
	e.ts.UpdatedAt = now
	return nil
}

// IsParticipant reports whether actor is the requester or the assigned runner.
func (e *Errand) IsParticipant(actor uuid.UUID) bool {
	return actor == e.requesterID || (e.runnerID != nil && *e.runnerID == actor)
}

func (e *Errand) ensureRunner(actor uuid.UUID) error {
	if e.runnerID == nil {
		return ErrMissingRunner
	}
	if *e.runnerID != actor {
		return ErrNotAssignedRunner
	}
	return nil
}

func (e *Errand) advance(from, to Status) error {
	if e.status != from {
		return ErrInvalidTransition
	}
	if next, ok := from.Next(); !ok || next != to {
		return ErrInvalidTransition
	}
	e.status = to
	return nil
}

func (e *Errand) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("id", e.id.String()),
		slog.String("resource_id", e.resourceID.String()),
		slog.String("status", string(e.status)),
		slog.String("delivery_fee", e.amounts.DeliveryFee.String()),
		slog.String("final_amount", e.amounts.FinalAmount.String()),
		slog.Int("version", e.version),
	}
	if e.runnerID != nil {
		attrs = append(attrs, slog.String("runner_id", e.runnerID.String()))
	}
	return slog.GroupValue(attrs...)
}

func (e *Errand) ID() uuid.UUID               { return e.id }
func (e *Errand) ResourceID() uuid.UUID       { return e.resourceID }
func (e *Errand) MatchID() *uuid.UUID         { return e.matchID }
func (e *Errand) RequesterID() uuid.UUID      { return e.requesterID }
func (e *Errand) RunnerID() *uuid.UUID        { return e.runnerID }
func (e *Errand) Status() Status              { return e.status }
func (e *Errand) Amounts() Amounts            { return e.amounts }
func (e *Errand) Coupon() *coupon.Applied     { return e.coupon }
func (e *Errand) Route() Route                { return e.route }
func (e *Errand) Proofs() Proofs              { return e.proofs }
func (e *Errand) Earnings() money.Money       { return e.earnings }
func (e *Errand) RefundRequestID() *uuid.UUID { return e.refundRequestID }
func (e *Errand) Version() int                { return e.version }
func (e *Errand) Timestamps() Timestamps      { return e.ts }
func (e *Errand) CreatedAt() time.Time        { return e.ts.CreatedAt }
func (e *Errand) UpdatedAt() time.Time        { return e.ts.UpdatedAt }
