//go:build unit || e2e

package builder

import (
	"time"

	"campus-market/internal/domain/money"
	"campus-market/internal/domain/resource"

	"github.com/google/uuid"
)

type ResourceBuilder struct {
	ID        uuid.UUID
	Type      resource.Type
	OwnerID   uuid.UUID
	Price     money.Money
	Status    resource.Status
	Specs     resource.Specifications
	MatchID   *uuid.UUID
	ErrandID  *uuid.UUID
	RefundID  *uuid.UUID
	CreatedAt time.Time
}

func DefaultServiceSpec() resource.ServiceSpec {
	return resource.ServiceSpec{
		PickupAddress:  resource.Address{Building: "Library", District: "north"},
		DropoffAddress: resource.Address{Building: "Dorm B", District: "south"},
		StartTime:      time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
	}
}

// NewResourceBuilder starts from a pending service request worth 10.00.
func NewResourceBuilder() *ResourceBuilder {
	return &ResourceBuilder{
		ID:        uuid.New(),
		Type:      resource.TypeServiceRequest,
		OwnerID:   uuid.New(),
		Price:     money.FromInt(10),
		Status:    resource.StatusPending,
		Specs:     DefaultServiceSpec(),
		CreatedAt: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (r *ResourceBuilder) With(mutate func(*ResourceBuilder)) *ResourceBuilder {
	mutate(r)
	return r
}

// Build methods
func (r *ResourceBuilder) BuildDomain() *resource.Resource {
	return resource.ReconstructResource(
		r.ID, r.Type, r.Price, r.OwnerID, r.Status, r.Specs,
		r.MatchID, r.ErrandID, r.RefundID, 0, r.CreatedAt, r.CreatedAt,
	)
}

// Fluent builder methods
func (r *ResourceBuilder) WithOwner(ownerID uuid.UUID) *ResourceBuilder {
	r.OwnerID = ownerID
	return r
}

func (r *ResourceBuilder) WithPrice(price money.Money) *ResourceBuilder {
	r.Price = price
	return r
}

func (r *ResourceBuilder) WithStatus(status resource.Status) *ResourceBuilder {
	r.Status = status
	return r
}

func (r *ResourceBuilder) WithMatch(matchID uuid.UUID) *ResourceBuilder {
	r.MatchID = &matchID
	return r
}

func (r *ResourceBuilder) WithServiceSpec(mutate func(*resource.ServiceSpec)) *ResourceBuilder {
	spec, ok := r.Specs.(resource.ServiceSpec)
	if !ok {
		spec = DefaultServiceSpec()
	}
	mutate(&spec)
	r.Specs = spec
	return r
}

func (r *ResourceBuilder) AsOffer() *ResourceBuilder {
	r.Type = resource.TypeServiceOffer
	r.Status = resource.StatusActive
	r.Specs = DefaultServiceSpec()
	return r
}

func (r *ResourceBuilder) AsTrade(typ resource.Type) *ResourceBuilder {
	r.Type = typ
	r.Status = resource.StatusMatching
	r.Specs = resource.TradeSpec{
		PickupAddress:   resource.Address{Building: "Library", District: "north"},
		DeliveryAddress: resource.Address{Building: "Dorm B", District: "south"},
	}
	return r
}
