//go:build unit || e2e

package builder

import (
	"time"

	"campus-market/internal/domain/errand"
	"campus-market/internal/domain/money"
	"campus-market/internal/domain/resource"

	"github.com/google/uuid"
)

type ErrandBuilder struct {
	ID          uuid.UUID
	ResourceID  uuid.UUID
	MatchID     *uuid.UUID
	RequesterID uuid.UUID
	RunnerID    *uuid.UUID
	Status      errand.Status
	Amounts     errand.Amounts
	CreatedAt   time.Time
}

// NewErrandBuilder starts from an assigned errand with a 10.00 delivery fee.
func NewErrandBuilder() *ErrandBuilder {
	runnerID := uuid.New()
	b := &ErrandBuilder{
		ID:          uuid.New(),
		ResourceID:  uuid.New(),
		RequesterID: uuid.New(),
		RunnerID:    &runnerID,
		Status:      errand.StatusAssigned,
		CreatedAt:   time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
	}
	return b.WithFees(money.FromInt(10), money.Zero, money.Zero)
}

func (e *ErrandBuilder) With(mutate func(*ErrandBuilder)) *ErrandBuilder {
	mutate(e)
	return e
}

// Build methods
func (e *ErrandBuilder) BuildDomain() *errand.Errand {
	spec := DefaultServiceSpec()
	route := errand.Route{
		Pickup:       spec.PickupAddress,
		Dropoff:      spec.DropoffAddress,
		StartTime:    spec.StartTime,
		DoorDelivery: e.Amounts.DoorDeliveryFee.IsPositive(),
	}
	ts := errand.Timestamps{CreatedAt: e.CreatedAt, UpdatedAt: e.CreatedAt}
	return errand.ReconstructErrand(
		e.ID, e.ResourceID, e.MatchID, e.RequesterID, e.RunnerID, e.Status,
		e.Amounts, nil, route, errand.Proofs{}, money.Zero, nil, 0, ts,
	)
}

// Fluent builder methods

// WithFees derives the amounts the way a claim does: deliveryFee = base + door.
func (e *ErrandBuilder) WithFees(base, tips money.Money, door money.Money) *ErrandBuilder {
	delivery := base.Add(door)
	total := delivery.Add(tips)
	e.Amounts = errand.Amounts{
		BaseFee:         base,
		DoorDeliveryFee: door,
		Tips:            tips,
		DeliveryFee:     delivery,
		TotalAmount:     total,
		FinalAmount:     total,
	}
	return e
}

func (e *ErrandBuilder) WithDoorDelivery() *ErrandBuilder {
	return e.WithFees(e.Amounts.BaseFee, e.Amounts.Tips, resource.DoorDeliveryFee)
}

func (e *ErrandBuilder) WithStatus(status errand.Status) *ErrandBuilder {
	e.Status = status
	return e
}

func (e *ErrandBuilder) WithRunner(runnerID uuid.UUID) *ErrandBuilder {
	e.RunnerID = &runnerID
	return e
}

func (e *ErrandBuilder) WithRequester(requesterID uuid.UUID) *ErrandBuilder {
	e.RequesterID = requesterID
	return e
}

func (e *ErrandBuilder) WithResource(resourceID uuid.UUID) *ErrandBuilder {
	e.ResourceID = resourceID
	return e
}

func (e *ErrandBuilder) WithoutRunner() *ErrandBuilder {
	e.RunnerID = nil
	return e
}
