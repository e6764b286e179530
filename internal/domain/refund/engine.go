package refund

import (
	"time"

	"campus-market/internal/domain/errand"
	"campus-market/internal/domain/match"
	"campus-market/internal/domain/money"
	"campus-market/internal/domain/resource"
)

// GraceWindow is how long after its start or arrival time a resource
// becomes refundable in full.
const GraceWindow = 30 * time.Minute

// Item is a read-only snapshot of the entity a refund targets.
type Item interface {
	TargetKind() TargetKind
	sealed()
}

type ResourceItem struct {
	Type           resource.Type
	Status         resource.Status
	PaidAmount     money.Money
	GraceReference *time.Time
}

type ErrandItem struct {
	Status          errand.Status
	BaseFee         money.Money
	Tips            money.Money
	DoorDeliveryFee money.Money
	FinalAmount     money.Money
}

type MatchItem struct {
	Status        match.Status
	FinalAmount   money.Money
	ErrandBaseFee money.Money
}

func (ResourceItem) TargetKind() TargetKind { return TargetResource }
func (ErrandItem) TargetKind() TargetKind   { return TargetErrand }
func (MatchItem) TargetKind() TargetKind    { return TargetMatch }

func (ResourceItem) sealed() {}
func (ErrandItem) sealed()   {}
func (MatchItem) sealed()    {}

func ResourceItemOf(r *resource.Resource) ResourceItem {
	item := ResourceItem{Type: r.Type(), Status: r.Status(), PaidAmount: r.PaidAmount()}
	switch s := r.Specs().(type) {
	case resource.ServiceSpec:
		item.GraceReference = s.GraceReference()
	case resource.RentalSpec:
		start := s.StartDate
		item.GraceReference = &start
	}
	return item
}

func ErrandItemOf(e *errand.Errand) ErrandItem {
	a := e.Amounts()
	return ErrandItem{
		Status:          e.Status(),
		BaseFee:         a.BaseFee,
		Tips:            a.Tips,
		DoorDeliveryFee: a.DoorDeliveryFee,
		FinalAmount:     a.FinalAmount,
	}
}

// MatchItemOf snapshots a match. serviceRequest is the resource spawned by
// confirm-order and may be nil.
func MatchItemOf(m *match.Match, serviceRequest *resource.Resource) MatchItem {
	return MatchItem{
		Status:        m.Status(),
		FinalAmount:   m.FinalAmount(),
		ErrandBaseFee: ErrandBaseFee(serviceRequest),
	}
}

// ErrandBaseFee is the paid price of the linked service request minus its
// flat door-delivery fee.
func ErrandBaseFee(serviceRequest *resource.Resource) money.Money {
	if serviceRequest == nil {
		return money.Zero
	}
	fee := serviceRequest.Price()
	if s, ok := serviceRequest.ServiceSpec(); ok {
		fee = fee.Sub(s.DoorDeliveryFee())
	}
	return fee
}

// Calculate returns the refundable amount for item at now. It has no side
// effects and never returns a negative amount.
func Calculate(item Item, now time.Time) money.Money {
	var amount money.Money
	switch it := item.(type) {
	case ResourceItem:
		amount = resourceRefund(it, now)
	case ErrandItem:
		amount = errandRefund(it)
	case MatchItem:
		amount = matchRefund(it)
	}
	return amount.ClampZero()
}

func resourceRefund(it ResourceItem, now time.Time) money.Money {
	if it.Type == resource.TypeServiceRequest {
		switch it.Status {
		case resource.StatusMatching, resource.StatusPending:
			return it.PaidAmount
		}
	}
	if it.Status == resource.StatusCanceled {
		return money.Zero
	}
	if it.GraceReference == nil {
		return money.Zero
	}
	if now.After(it.GraceReference.Add(GraceWindow)) {
		return it.PaidAmount
	}
	return money.Zero
}

// errandRefund never exceeds what the requester actually paid.
func errandRefund(it ErrandItem) money.Money {
	var amount money.Money
	switch it.Status {
	case errand.StatusPending:
		amount = it.BaseFee.Add(it.Tips).Add(it.DoorDeliveryFee)
	case errand.StatusAssigned:
		amount = it.Tips.Add(it.DoorDeliveryFee)
	case errand.StatusPickedUp:
		amount = it.DoorDeliveryFee
	default:
		return money.Zero
	}
	return money.Min(amount, it.FinalAmount)
}

func matchRefund(it MatchItem) money.Money {
	switch it.Status {
	case match.StatusPaid:
		return it.FinalAmount
	case match.StatusErranding:
		return it.FinalAmount.Sub(it.ErrandBaseFee)
	default:
		return money.Zero
	}
}
