package refund

import (
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"campus-market/internal/domain/money"
	"campus-market/internal/pkg/errs"
	"campus-market/internal/pkg/ptr"

	"github.com/google/uuid"
)

const MaxReasonLength = 500

var (
	ErrRefundNotFound      = errs.Kind("refund request not found", errs.ErrNotFound)
	ErrNotRequester        = errs.Kind("only the refund requester may perform this action", errs.ErrForbidden)
	ErrNotEntitled         = errs.Kind("actor does not own the refund target", errs.ErrForbidden)
	ErrNotPending          = errs.Kind("refund request is not pending", errs.ErrInvalidState)
	ErrNotApproved         = errs.Kind("refund request is not approved", errs.ErrInvalidState)
	ErrNotRejectable       = errs.Kind("refund request can no longer be rejected", errs.ErrInvalidState)
	ErrNotRejected         = errs.Kind("only a rejected refund request can be disputed", errs.ErrInvalidState)
	ErrActiveRequestExists = errs.Kind("an active refund request already exists for this item", errs.ErrConflict)
	ErrAlreadyRefunded     = errs.Kind("item has already been refunded", errs.ErrConflict)
	ErrCoveredByMatch      = errs.Kind("item was ordered through a match; refund the match instead", errs.ErrConflict)
	ErrNothingToRefund     = errs.Kind("nothing is refundable for this item", errs.ErrValidation)
	ErrReasonTooLong       = errs.Kind("refund reason is too long", errs.ErrValidation)
	ErrInvalidRefundAmount = errs.Kind("refund amount must be positive", errs.ErrValidation)
	ErrTargetIDRequired    = errs.Kind("refund target id is required", errs.ErrValidation)
)

// Target identifies exactly one refundable item.
type Target struct {
	Kind TargetKind
	ID   uuid.UUID
}

func NewTarget(kind TargetKind, id uuid.UUID) (Target, error) {
	if !kind.IsValid() {
		return Target{}, ErrInvalidTargetKind
	}
	if id == uuid.Nil {
		return Target{}, ErrTargetIDRequired
	}
	return Target{Kind: kind, ID: id}, nil
}

// ResourceID, ErrandID and MatchID expose the target as the three mutually
// exclusive references; exactly one is non-nil.
func (t Target) ResourceID() *uuid.UUID { return t.idIf(TargetResource) }
func (t Target) ErrandID() *uuid.UUID   { return t.idIf(TargetErrand) }
func (t Target) MatchID() *uuid.UUID    { return t.idIf(TargetMatch) }

func (t Target) idIf(k TargetKind) *uuid.UUID {
	if t.Kind != k {
		return nil
	}
	id := t.ID
	return &id
}

type Timestamps struct {
	ApprovedAt  *time.Time
	RejectedAt  *time.Time
	ProcessedAt *time.Time
	DisputedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Request struct {
	id          uuid.UUID
	requesterID uuid.UUID
	target      Target
	amount      money.Money
	reason      string
	status      Status
	processorID *uuid.UUID
	version     int
	ts          Timestamps
}

func NewRequest(requesterID uuid.UUID, target Target, amount money.Money, reason string, now time.Time) (*Request, error) {
	if !target.Kind.IsValid() {
		return nil, ErrInvalidTargetKind
	}
	if target.ID == uuid.Nil {
		return nil, ErrTargetIDRequired
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidRefundAmount
	}
	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) > MaxReasonLength {
		return nil, ErrReasonTooLong
	}
	return &Request{
		id:          uuid.New(),
		requesterID: requesterID,
		target:      target,
		amount:      amount,
		reason:      reason,
		status:      StatusPending,
		ts:          Timestamps{CreatedAt: now, UpdatedAt: now},
	}, nil
}

func ReconstructRequest(
	id, requesterID uuid.UUID,
	target Target,
	amount money.Money,
	reason string,
	status Status,
	processorID *uuid.UUID,
	version int,
	ts Timestamps,
) *Request {
	return &Request{
		id:          id,
		requesterID: requesterID,
		target:      target,
		amount:      amount,
		reason:      reason,
		status:      status,
		processorID: processorID,
		version:     version,
		ts:          ts,
	}
}

func (r *Request) Approve(processorID uuid.UUID, now time.Time) error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	r.status = StatusApproved
	r.ts.ApprovedAt = ptr.Of(now)
	r.review(processorID, now)
	return nil
}

// Reject closes an active request. The caller clears the item link.
func (r *Request) Reject(processorID uuid.UUID, now time.Time) error {
	if !r.status.IsActive() {
		return ErrNotRejectable
	}
	r.status = StatusRejected
	r.ts.RejectedAt = ptr.Of(now)
	r.review(processorID, now)
	return nil
}

// Process settles an approved request. The caller credits the requester's
// wallet with Amount in the same unit of work.
func (r *Request) Process(processorID uuid.UUID, now time.Time) error {
	if r.status != StatusApproved {
		return ErrNotApproved
	}
	r.status = StatusProcessed
	r.ts.ProcessedAt = ptr.Of(now)
	r.review(processorID, now)
	return nil
}

func (r *Request) Dispute(actor uuid.UUID, now time.Time) error {
	if actor != r.requesterID {
		return ErrNotRequester
	}
	if r.status != StatusRejected {
		return ErrNotRejected
	}
	r.status = StatusDisputed
	r.ts.DisputedAt = ptr.Of(now)
	r.ts.UpdatedAt = now
	return nil
}

func (r *Request) review(processorID uuid.UUID, now time.Time) {
	r.processorID = &processorID
	r.ts.UpdatedAt = now
}

func (r *Request) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", r.id.String()),
		slog.String("target_kind", string(r.target.Kind)),
		slog.String("target_id", r.target.ID.String()),
		slog.String("status", string(r.status)),
		slog.String("amount", r.amount.String()),
		slog.Int("version", r.version),
	)
}

func (r *Request) ID() uuid.UUID           { return r.id }
func (r *Request) RequesterID() uuid.UUID  { return r.requesterID }
func (r *Request) Target() Target          { return r.target }
func (r *Request) Amount() money.Money     { return r.amount }
func (r *Request) Reason() string          { return r.reason }
func (r *Request) Status() Status          { return r.status }
func (r *Request) ProcessorID() *uuid.UUID { return r.processorID }
func (r *Request) Version() int            { return r.version }
func (r *Request) Timestamps() Timestamps  { return r.ts }
func (r *Request) CreatedAt() time.Time    { return r.ts.CreatedAt }
func (r *Request) UpdatedAt() time.Time    { return r.ts.UpdatedAt }
