package match

import (
	"log/slog"
	"strings"
	"time"

	"campus-market/internal/domain/coupon"
	"campus-market/internal/domain/money"
	"campus-market/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrMatchNotFound                = errs.Kind("match not found", errs.ErrNotFound)
	ErrNotParty                     = errs.Kind("actor is not a party to the match", errs.ErrForbidden)
	ErrNotRequester                 = errs.Kind("only the match requester may perform this action", errs.ErrForbidden)
	ErrNotPending                   = errs.Kind("match is not pending", errs.ErrInvalidState)
	ErrNotAccepted                  = errs.Kind("match is not accepted", errs.ErrInvalidState)
	ErrNotCancellable               = errs.Kind("match cannot be cancelled in its current status", errs.ErrInvalidState)
	ErrNotCompletable               = errs.Kind("match cannot be completed in its current status", errs.ErrInvalidState)
	ErrNotPayable                   = errs.Kind("match cannot be marked paid in its current status", errs.ErrInvalidState)
	ErrNotErrandable                = errs.Kind("match cannot start an errand in its current status", errs.ErrInvalidState)
	ErrCouponNotAllowed             = errs.Kind("coupon cannot be applied in the current match status", errs.ErrInvalidState)
	ErrErrandNotCompleted           = errs.Kind("linked errand has not been completed", errs.ErrInvalidState)
	ErrRefundOutstanding            = errs.Kind("match has an open or settled refund request", errs.ErrInvalidState)
	ErrWindowNotElapsed             = errs.Kind("acceptance window has not elapsed", errs.ErrInvalidState)
	ErrServiceRequestAlreadySpawned = errs.Kind("a service request was already created for this match", errs.ErrConflict)
	ErrRefundAlreadyLinked          = errs.Kind("match already has an active refund request", errs.ErrConflict)
	ErrReasonRequired               = errs.Kind("cancellation reason is required", errs.ErrValidation)
	ErrNegativePrice                = errs.Kind("price cannot be negative", errs.ErrValidation)
	ErrSameParty                    = errs.Kind("requester and owner must differ", errs.ErrValidation)
	ErrInconsistentAcceptance       = errs.Kind("acceptance flags are inconsistent with match status", errs.ErrInternalInconsistency)
	ErrRefundLinkMismatch           = errs.Kind("refund request is not linked to this match", errs.ErrInternalInconsistency)
)

type Parties struct {
	Resource1ID uuid.UUID
	Resource2ID uuid.UUID
	RequesterID uuid.UUID
	OwnerID     uuid.UUID
}

// Prices holds the negotiation inputs. A nil suggestion falls back to the original price.
type Prices struct {
	RequesterSuggested *money.Money
	OwnerSuggested     *money.Money
	RequesterOriginal  money.Money
	OwnerOriginal      money.Money
}

type Match struct {
	id      uuid.UUID
	parties Parties
	score   float64
	prices  Prices

	firstAcceptanceTime *time.Time
	requesterAccepted   bool
	ownerAccepted       bool

	resource1Payment money.Money
	resource2Receipt money.Money
	agreedPrice      money.Money
	deliveryFee      money.Money
	totalAmount      money.Money
	finalAmount      money.Money
	coupon           *coupon.Applied

	status                  Status
	cancellationReason      string
	cancelledBy             *uuid.UUID
	timeoutPenaltyAppliedTo *uuid.UUID
	serviceRequestID        *uuid.UUID
	refundRequestID         *uuid.UUID

	acceptedAt  *time.Time
	paidAt      *time.Time
	completedAt *time.Time
	cancelledAt *time.Time
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

func NewMatch(parties Parties, score float64, prices Prices, now time.Time) (*Match, error) {
	if parties.RequesterID == parties.OwnerID {
		return nil, ErrSameParty
	}
	for _, p := range []*money.Money{prices.RequesterSuggested, prices.OwnerSuggested, &prices.RequesterOriginal, &prices.OwnerOriginal} {
		if p != nil && p.IsNegative() {
			return nil, ErrNegativePrice
		}
	}
	return &Match{
		id:        uuid.New(),
		parties:   parties,
		score:     score,
		prices:    prices,
		status:    StatusPending,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Settlement is the persisted price outcome of a match.
type Settlement struct {
	Resource1Payment money.Money
	Resource2Receipt money.Money
	AgreedPrice      money.Money
	DeliveryFee      money.Money
	TotalAmount      money.Money
	FinalAmount      money.Money
	Coupon           *coupon.Applied
}

type Negotiation struct {
	FirstAcceptanceTime *time.Time
	RequesterAccepted   bool
	OwnerAccepted       bool
}

type Closure struct {
	Reason                  string
	CancelledBy             *uuid.UUID
	TimeoutPenaltyAppliedTo *uuid.UUID
}

type Links struct {
	ServiceRequestID *uuid.UUID
	RefundRequestID  *uuid.UUID
}

type Timestamps struct {
	AcceptedAt  *time.Time
	PaidAt      *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func ReconstructMatch(
	id uuid.UUID,
	parties Parties,
	score float64,
	prices Prices,
	negotiation Negotiation,
	settlement Settlement,
	status Status,
	closure Closure,
	links Links,
	ts Timestamps,
	version int,
) *Match {
	return &Match{
		id:                      id,
		parties:                 parties,
		score:                   score,
		prices:                  prices,
		firstAcceptanceTime:     negotiation.FirstAcceptanceTime,
		requesterAccepted:       negotiation.RequesterAccepted,
		ownerAccepted:           negotiation.OwnerAccepted,
		resource1Payment:        settlement.Resource1Payment,
		resource2Receipt:        settlement.Resource2Receipt,
		agreedPrice:             settlement.AgreedPrice,
		deliveryFee:             settlement.DeliveryFee,
		totalAmount:             settlement.TotalAmount,
		finalAmount:             settlement.FinalAmount,
		coupon:                  settlement.Coupon,
		status:                  status,
		cancellationReason:      closure.Reason,
		cancelledBy:             closure.CancelledBy,
		timeoutPenaltyAppliedTo: closure.TimeoutPenaltyAppliedTo,
		serviceRequestID:        links.ServiceRequestID,
		refundRequestID:         links.RefundRequestID,
		acceptedAt:              ts.AcceptedAt,
		paidAt:                  ts.PaidAt,
		completedAt:             ts.CompletedAt,
		cancelledAt:             ts.CancelledAt,
		version:                 version,
		createdAt:               ts.CreatedAt,
		updatedAt:               ts.UpdatedAt,
	}
}

func (m *Match) SideOf(actor uuid.UUID) (Side, error) {
	switch actor {
	case m.parties.RequesterID:
		return SideRequester, nil
	case m.parties.OwnerID:
		return SideOwner, nil
	default:
		return 0, ErrNotParty
	}
}

func (m *Match) IsParty(actor uuid.UUID) bool {
	_, err := m.SideOf(actor)
	return err == nil
}

// Counterparty returns the other party's user id.
func (m *Match) Counterparty(actor uuid.UUID) uuid.UUID {
	if actor == m.parties.RequesterID {
		return m.parties.OwnerID
	}
	return m.parties.RequesterID
}

// Accept runs the two-phase acceptance protocol. The window is evaluated only
// here, when the second party acts. On OutcomeTimedOut the match is cancelled
// and the caller is recorded as penalized; applying the penalty to the user
// profile is the caller's job within the same unit of work.
func (m *Match) Accept(actor uuid.UUID, now time.Time) (AcceptOutcome, error) {
	side, err := m.SideOf(actor)
	if err != nil {
		return "", err
	}
	if m.status != StatusPending {
		return "", ErrNotPending
	}

	mine, theirs := m.flags(side)
	switch {
	case !mine && !theirs:
		if m.firstAcceptanceTime != nil {
			return "", ErrInconsistentAcceptance
		}
		m.setFlag(side)
		t := now
		m.firstAcceptanceTime = &t
		m.updatedAt = now
		return OutcomeFirstAcceptance, nil

	case !mine && theirs:
		if m.firstAcceptanceTime == nil {
			return "", ErrInconsistentAcceptance
		}
		if now.After(m.AcceptanceDeadline()) {
			m.cancel(ReasonNegotiationTimeout, nil, now)
			late := actor
			m.timeoutPenaltyAppliedTo = &late
			return OutcomeTimedOut, nil
		}
		m.setFlag(side)
		m.lockPrices()
		m.status = StatusAccepted
		m.timeoutPenaltyAppliedTo = nil
		t := now
		m.acceptedAt = &t
		m.updatedAt = now
		return OutcomeAccepted, nil

	default:
		return "", ErrInconsistentAcceptance
	}
}

// AcceptanceDeadline is the zero time until someone has accepted.
func (m *Match) AcceptanceDeadline() time.Time {
	if m.firstAcceptanceTime == nil {
		return time.Time{}
	}
	return m.firstAcceptanceTime.Add(AcceptanceWindow)
}

// Expire cancels a pending match whose window lapsed without the second
// acceptance and returns the party that never accepted.
func (m *Match) Expire(now time.Time) (uuid.UUID, error) {
	if m.status != StatusPending {
		return uuid.Nil, ErrNotPending
	}
	if m.firstAcceptanceTime == nil || !now.After(m.AcceptanceDeadline()) {
		return uuid.Nil, ErrWindowNotElapsed
	}

	var late uuid.UUID
	switch {
	case m.requesterAccepted && !m.ownerAccepted:
		late = m.parties.OwnerID
	case m.ownerAccepted && !m.requesterAccepted:
		late = m.parties.RequesterID
	default:
		return uuid.Nil, ErrInconsistentAcceptance
	}
	m.cancel(ReasonNegotiationTimeout, nil, now)
	m.timeoutPenaltyAppliedTo = &late
	return late, nil
}

func (m *Match) Reject(actor uuid.UUID, now time.Time) error {
	if _, err := m.SideOf(actor); err != nil {
		return err
	}
	if m.status != StatusPending {
		return ErrNotPending
	}
	by := actor
	m.cancel(ReasonRejected, &by, now)
	return nil
}

// Cancel aborts an accepted, paid or erranding match. Both linked resources
// must be released back to the pool by the caller in the same unit of work.
func (m *Match) Cancel(actor uuid.UUID, reason string, now time.Time) error {
	if _, err := m.SideOf(actor); err != nil {
		return err
	}
	switch m.status {
	case StatusAccepted, StatusPaid, StatusErranding:
	default:
		return ErrNotCancellable
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	by := actor
	m.cancel(reason, &by, now)
	return nil
}

// ConfirmOrder fixes the delivery fee and links the spawned service request.
func (m *Match) ConfirmOrder(actor uuid.UUID, deliveryFee money.Money, serviceRequestID uuid.UUID, now time.Time) error {
	if actor != m.parties.RequesterID {
		if m.IsParty(actor) {
			return ErrNotRequester
		}
		return ErrNotParty
	}
	if m.status != StatusAccepted {
		return ErrNotAccepted
	}
	if m.serviceRequestID != nil {
		return ErrServiceRequestAlreadySpawned
	}
	if deliveryFee.IsNegative() {
		return ErrNegativePrice
	}

	m.deliveryFee = deliveryFee
	m.recalculate()
	id := serviceRequestID
	m.serviceRequestID = &id
	m.markPaid(now)
	return nil
}

// MarkPaid applies a confirmed gateway payment. changed is false for a match
// that is already past payment.
func (m *Match) MarkPaid(now time.Time) (changed bool, err error) {
	switch m.status {
	case StatusAccepted:
		m.markPaid(now)
		return true, nil
	case StatusPaid, StatusErranding, StatusCompleted:
		return false, nil
	default:
		return false, ErrNotPayable
	}
}

func (m *Match) StartErrand(now time.Time) error {
	switch m.status {
	case StatusPaid:
		m.status = StatusErranding
		m.updatedAt = now
		return nil
	case StatusErranding:
		return nil
	default:
		return ErrNotErrandable
	}
}

// Complete closes the match once the linked errand is done. The returned
// amount is what the owner's wallet must be credited with.
func (m *Match) Complete(actor uuid.UUID, linkedErrandCompleted bool, now time.Time) (money.Money, error) {
	if _, err := m.SideOf(actor); err != nil {
		return money.Zero, err
	}
	if m.status != StatusPaid && m.status != StatusErranding {
		return money.Zero, ErrNotCompletable
	}
	// Reject unlinks, so a linked refund is pending, approved or processed.
	if m.refundRequestID != nil {
		return money.Zero, ErrRefundOutstanding
	}
	if !linkedErrandCompleted {
		return money.Zero, ErrErrandNotCompleted
	}
	m.status = StatusCompleted
	t := now
	m.completedAt = &t
	m.updatedAt = now
	return m.finalAmount, nil
}

func (m *Match) ApplyCoupon(actor uuid.UUID, c *coupon.Coupon, now time.Time) error {
	if actor != m.parties.RequesterID {
		if m.IsParty(actor) {
			return ErrNotRequester
		}
		return ErrNotParty
	}
	if m.status != StatusAccepted && m.status != StatusPaid {
		return ErrCouponNotAllowed
	}
	if m.coupon != nil {
		return coupon.ErrCouponAlreadyApplied
	}
	applied, err := c.Redeem(m.totalAmount, now)
	if err != nil {
		return err
	}
	m.coupon = &applied
	m.recalculate()
	m.updatedAt = now
	return nil
}

func (m *Match) LinkRefund(refundID uuid.UUID, now time.Time) error {
	if m.refundRequestID != nil {
		return ErrRefundAlreadyLinked
	}
	m.refundRequestID = &refundID
	m.updatedAt = now
	return nil
}

func (m *Match) UnlinkRefund(refundID uuid.UUID, now time.Time) error {
	if m.refundRequestID == nil || *m.refundRequestID != refundID {
		return ErrRefundLinkMismatch
	}
	m.refundRequestID = nil
	m.updatedAt = now
	return nil
}

func (m *Match) flags(side Side) (mine, theirs bool) {
	if side == SideRequester {
		return m.requesterAccepted, m.ownerAccepted
	}
	return m.ownerAccepted, m.requesterAccepted
}

func (m *Match) setFlag(side Side) {
	if side == SideRequester {
		m.requesterAccepted = true
		return
	}
	m.ownerAccepted = true
}

func (m *Match) lockPrices() {
	m.resource1Payment = fallback(m.prices.RequesterSuggested, m.prices.RequesterOriginal)
	m.resource2Receipt = fallback(m.prices.OwnerSuggested, m.prices.OwnerOriginal)
	m.agreedPrice = m.resource1Payment
	m.recalculate()
}

// recalculate keeps totalAmount = agreedPrice + deliveryFee and
// finalAmount = totalAmount - discount, never below zero.
func (m *Match) recalculate() {
	m.totalAmount = m.agreedPrice.Add(m.deliveryFee)
	m.finalAmount = m.totalAmount
	if m.coupon != nil {
		m.finalAmount = m.totalAmount.Sub(m.coupon.DiscountAmount).ClampZero()
	}
}

func (m *Match) markPaid(now time.Time) {
	m.status = StatusPaid
	t := now
	m.paidAt = &t
	m.updatedAt = now
}

func (m *Match) cancel(reason string, by *uuid.UUID, now time.Time) {
	m.status = StatusCancelled
	m.cancellationReason = reason
	m.cancelledBy = by
	t := now
	m.cancelledAt = &t
	m.updatedAt = now
}

func fallback(p *money.Money, def money.Money) money.Money {
	if p != nil {
		return *p
	}
	return def
}

// LogValue exposes the full negotiation state for investigation logs.
func (m *Match) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("id", m.id.String()),
		slog.String("status", string(m.status)),
		slog.String("requester_id", m.parties.RequesterID.String()),
		slog.String("owner_id", m.parties.OwnerID.String()),
		slog.Bool("requester_accepted", m.requesterAccepted),
		slog.Bool("owner_accepted", m.ownerAccepted),
		slog.String("agreed_price", m.agreedPrice.String()),
		slog.String("delivery_fee", m.deliveryFee.String()),
		slog.String("total_amount", m.totalAmount.String()),
		slog.String("final_amount", m.finalAmount.String()),
		slog.Int("version", m.version),
	}
	if m.firstAcceptanceTime != nil {
		attrs = append(attrs, slog.Time("first_acceptance_time", *m.firstAcceptanceTime))
	}
	if m.serviceRequestID != nil {
		attrs = append(attrs, slog.String("service_request_id", m.serviceRequestID.String()))
	}
	return slog.GroupValue(attrs...)
}

func (m *Match) ID() uuid.UUID                       { return m.id }
func (m *Match) Parties() Parties                    { return m.parties }
func (m *Match) Resource1ID() uuid.UUID              { return m.parties.Resource1ID }
func (m *Match) Resource2ID() uuid.UUID              { return m.parties.Resource2ID }
func (m *Match) RequesterID() uuid.UUID              { return m.parties.RequesterID }
func (m *Match) OwnerID() uuid.UUID                  { return m.parties.OwnerID }
func (m *Match) Score() float64                      { return m.score }
func (m *Match) Prices() Prices                      { return m.prices }
func (m *Match) FirstAcceptanceTime() *time.Time     { return m.firstAcceptanceTime }
func (m *Match) RequesterAccepted() bool             { return m.requesterAccepted }
func (m *Match) OwnerAccepted() bool                 { return m.ownerAccepted }
func (m *Match) Resource1Payment() money.Money       { return m.resource1Payment }
func (m *Match) Resource2Receipt() money.Money       { return m.resource2Receipt }
func (m *Match) AgreedPrice() money.Money            { return m.agreedPrice }
func (m *Match) DeliveryFee() money.Money            { return m.deliveryFee }
func (m *Match) TotalAmount() money.Money            { return m.totalAmount }
func (m *Match) FinalAmount() money.Money            { return m.finalAmount }
func (m *Match) Coupon() *coupon.Applied             { return m.coupon }
func (m *Match) Status() Status                      { return m.status }
func (m *Match) CancellationReason() string          { return m.cancellationReason }
func (m *Match) CancelledBy() *uuid.UUID             { return m.cancelledBy }
func (m *Match) TimeoutPenaltyAppliedTo() *uuid.UUID { return m.timeoutPenaltyAppliedTo }
func (m *Match) ServiceRequestID() *uuid.UUID        { return m.serviceRequestID }
func (m *Match) RefundRequestID() *uuid.UUID         { return m.refundRequestID }
func (m *Match) AcceptedAt() *time.Time              { return m.acceptedAt }
func (m *Match) PaidAt() *time.Time                  { return m.paidAt }
func (m *Match) CompletedAt() *time.Time             { return m.completedAt }
func (m *Match) CancelledAt() *time.Time             { return m.cancelledAt }
func (m *Match) Version() int                        { return m.version }
func (m *Match) CreatedAt() time.Time                { return m.createdAt }
func (m *Match) UpdatedAt() time.Time                { return m.updatedAt }

func (m *Match) Negotiation() Negotiation {
	return Negotiation{
		FirstAcceptanceTime: m.firstAcceptanceTime,
		RequesterAccepted:   m.requesterAccepted,
		OwnerAccepted:       m.ownerAccepted,
	}
}

func (m *Match) Settlement() Settlement {
	return Settlement{
		Resource1Payment: m.resource1Payment,
		Resource2Receipt: m.resource2Receipt,
		AgreedPrice:      m.agreedPrice,
		DeliveryFee:      m.deliveryFee,
		TotalAmount:      m.totalAmount,
		FinalAmount:      m.finalAmount,
		Coupon:           m.coupon,
	}
}

func (m *Match) Closure() Closure {
	return Closure{
		Reason:                  m.cancellationReason,
		CancelledBy:             m.cancelledBy,
		TimeoutPenaltyAppliedTo: m.timeoutPenaltyAppliedTo,
	}
}

func (m *Match) Links() Links {
	return Links{ServiceRequestID: m.serviceRequestID, RefundRequestID: m.refundRequestID}
}

func (m *Match) Timestamps() Timestamps {
	return Timestamps{
		AcceptedAt:  m.acceptedAt,
		PaidAt:      m.paidAt,
		CompletedAt: m.completedAt,
		CancelledAt: m.cancelledAt,
		CreatedAt:   m.createdAt,
		UpdatedAt:   m.updatedAt,
	}
}
