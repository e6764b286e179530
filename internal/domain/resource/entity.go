package resource

import (
	"time"

	"campus-market/internal/domain/money"
	"campus-market/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrResourceNotFound    = errs.Kind("resource not found", errs.ErrNotFound)
	ErrInvalidType         = errs.Kind("invalid resource type", errs.ErrValidation)
	ErrNegativePrice       = errs.Kind("price cannot be negative", errs.ErrValidation)
	ErrNotServiceRequest   = errs.Kind("resource is not a service request", errs.ErrValidation)
	ErrNotClaimable        = errs.Kind("resource can no longer be claimed", errs.ErrInvalidState)
	ErrOfferNotActive      = errs.Kind("offer resource is no longer active", errs.ErrInvalidState)
	ErrNotPayable          = errs.Kind("resource cannot be marked paid in its current status", errs.ErrInvalidState)
	ErrRefundAlreadyLinked = errs.Kind("resource already has an active refund request", errs.ErrConflict)
	ErrRefundLinkMismatch  = errs.Kind("refund request is not linked to this resource", errs.ErrInternalInconsistency)
	ErrServiceSpecMissing  = errs.Kind("service request has no service specification", errs.ErrInternalInconsistency)
)

// DoorDeliveryFee is the flat platform fee for delivery to the door.
var DoorDeliveryFee = money.FromInt(5)

type Resource struct {
	id              uuid.UUID
	typ             Type
	price           money.Money
	ownerID         uuid.UUID
	status          Status
	specs           Specifications
	matchID         *uuid.UUID
	errandID        *uuid.UUID
	refundRequestID *uuid.UUID
	version         int
	createdAt       time.Time
	updatedAt       time.Time
}

func NewResource(typ Type, ownerID uuid.UUID, price money.Money, specs Specifications, now time.Time) (*Resource, error) {
	if !typ.IsValid() {
		return nil, ErrInvalidType
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if err := checkSpecFor(typ, specs); err != nil {
		return nil, err
	}

	status := StatusSubmitted
	if typ == TypeServiceOffer {
		status = StatusActive
	}

	return &Resource{
		id:        uuid.New(),
		typ:       typ,
		price:     price,
		ownerID:   ownerID,
		status:    status,
		specs:     specs,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// NewSpawnedServiceRequest creates the delivery job posting that a confirmed
// match hands to runners.
func NewSpawnedServiceRequest(ownerID, matchID uuid.UUID, price money.Money, spec ServiceSpec, now time.Time) (*Resource, error) {
	r, err := NewResource(TypeServiceRequest, ownerID, price, spec, now)
	if err != nil {
		return nil, err
	}
	r.status = StatusPending
	r.matchID = &matchID
	return r, nil
}

func ReconstructResource(
	id uuid.UUID,
	typ Type,
	price money.Money,
	ownerID uuid.UUID,
	status Status,
	specs Specifications,
	matchID, errandID, refundRequestID *uuid.UUID,
	version int,
	createdAt, updatedAt time.Time,
) *Resource {
	return &Resource{
		id:              id,
		typ:             typ,
		price:           price,
		ownerID:         ownerID,
		status:          status,
		specs:           specs,
		matchID:         matchID,
		errandID:        errandID,
		refundRequestID: refundRequestID,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (r *Resource) IsServiceRequest() bool { return r.typ == TypeServiceRequest }

func (r *Resource) ServiceSpec() (ServiceSpec, bool) {
	s, ok := r.specs.(ServiceSpec)
	return s, ok
}

// PaidAmount is what the owner paid for the posting: price plus any tips.
func (r *Resource) PaidAmount() money.Money {
	if s, ok := r.ServiceSpec(); ok {
		return r.price.Add(s.Tips)
	}
	return r.price
}

func (r *Resource) EnsureClaimable() error {
	if !r.IsServiceRequest() {
		return ErrNotServiceRequest
	}
	switch r.status {
	case StatusMatched, StatusCanceled, StatusExpired:
		return ErrNotClaimable
	}
	if r.errandID != nil {
		return ErrNotClaimable
	}
	return nil
}

func (r *Resource) AssignErrand(errandID uuid.UUID, now time.Time) error {
	if err := r.EnsureClaimable(); err != nil {
		return err
	}
	r.status = StatusMatched
	r.errandID = &errandID
	r.touch(now)
	return nil
}

func (r *Resource) EnsureActiveOffer() error {
	if r.status != StatusActive {
		return ErrOfferNotActive
	}
	return nil
}

func (r *Resource) MarkUnavailable(now time.Time) error {
	if err := r.EnsureActiveOffer(); err != nil {
		return err
	}
	r.status = StatusUnavailable
	r.touch(now)
	return nil
}

// ReleaseToPool makes the resource eligible for matching again.
func (r *Resource) ReleaseToPool(now time.Time) {
	r.status = StatusMatching
	r.touch(now)
}

func (r *Resource) MarkPaid(now time.Time) (changed bool, err error) {
	switch r.status {
	case StatusPaid, StatusMatched:
		return false, nil
	case StatusSubmitted, StatusPending:
		r.status = StatusPaid
		r.touch(now)
		return true, nil
	default:
		return false, ErrNotPayable
	}
}

func (r *Resource) LinkRefund(refundID uuid.UUID, now time.Time) error {
	if r.refundRequestID != nil {
		return ErrRefundAlreadyLinked
	}
	r.refundRequestID = &refundID
	r.touch(now)
	return nil
}

func (r *Resource) UnlinkRefund(refundID uuid.UUID, now time.Time) error {
	if r.refundRequestID == nil || *r.refundRequestID != refundID {
		return ErrRefundLinkMismatch
	}
	r.refundRequestID = nil
	r.touch(now)
	return nil
}

func (r *Resource) touch(now time.Time) {
	r.updatedAt = now
}

func (r *Resource) ID() uuid.UUID               { return r.id }
func (r *Resource) Type() Type                  { return r.typ }
func (r *Resource) Price() money.Money          { return r.price }
func (r *Resource) OwnerID() uuid.UUID          { return r.ownerID }
func (r *Resource) Status() Status              { return r.status }
func (r *Resource) Specs() Specifications       { return r.specs }
func (r *Resource) MatchID() *uuid.UUID         { return r.matchID }
func (r *Resource) ErrandID() *uuid.UUID        { return r.errandID }
func (r *Resource) RefundRequestID() *uuid.UUID { return r.refundRequestID }
func (r *Resource) Version() int                { return r.version }
func (r *Resource) CreatedAt() time.Time        { return r.createdAt }
func (r *Resource) UpdatedAt() time.Time        { return r.updatedAt }
