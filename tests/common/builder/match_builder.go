//go:build unit || e2e

package builder

import (
	"time"

	"campus-market/internal/domain/coupon"
	"campus-market/internal/domain/match"
	"campus-market/internal/domain/money"

	"github.com/google/uuid"
)

type MatchBuilder struct {
	ID          uuid.UUID
	Parties     match.Parties
	Score       float64
	Prices      match.Prices
	Negotiation match.Negotiation
	Settlement  match.Settlement
	Status      match.Status
	Links       match.Links
	CreatedAt   time.Time
}

// NewMatchBuilder starts from a fresh pending match: the requester offers
// 30.00 (suggesting 28.00) against the owner's 25.00 listing.
func NewMatchBuilder() *MatchBuilder {
	suggested := money.FromInt(28)
	return &MatchBuilder{
		ID: uuid.New(),
		Parties: match.Parties{
			Resource1ID: uuid.New(),
			Resource2ID: uuid.New(),
			RequesterID: uuid.New(),
			OwnerID:     uuid.New(),
		},
		Score: 0.8,
		Prices: match.Prices{
			RequesterSuggested: &suggested,
			RequesterOriginal:  money.FromInt(30),
			OwnerOriginal:      money.FromInt(25),
		},
		Status:    match.StatusPending,
		CreatedAt: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *MatchBuilder) With(mutate func(*MatchBuilder)) *MatchBuilder {
	mutate(m)
	return m
}

// Build methods
func (m *MatchBuilder) BuildNew() (*match.Match, error) {
	return match.NewMatch(m.Parties, m.Score, m.Prices, m.CreatedAt)
}

func (m *MatchBuilder) BuildDomain() *match.Match {
	ts := match.Timestamps{CreatedAt: m.CreatedAt, UpdatedAt: m.CreatedAt}
	return match.ReconstructMatch(
		m.ID, m.Parties, m.Score, m.Prices, m.Negotiation, m.Settlement,
		m.Status, match.Closure{}, m.Links, ts, 0,
	)
}

// Fluent builder methods
func (m *MatchBuilder) WithParties(requesterID, ownerID uuid.UUID) *MatchBuilder {
	m.Parties.RequesterID = requesterID
	m.Parties.OwnerID = ownerID
	return m
}

func (m *MatchBuilder) WithResources(resource1ID, resource2ID uuid.UUID) *MatchBuilder {
	m.Parties.Resource1ID = resource1ID
	m.Parties.Resource2ID = resource2ID
	return m
}

// AcceptedBy marks one side as having accepted first at t.
func (m *MatchBuilder) AcceptedBy(side match.Side, t time.Time) *MatchBuilder {
	if side == match.SideRequester {
		m.Negotiation.RequesterAccepted = true
	} else {
		m.Negotiation.OwnerAccepted = true
	}
	m.Negotiation.FirstAcceptanceTime = &t
	return m
}

// Settled puts the match in status with agreed price and delivery fee locked.
func (m *MatchBuilder) Settled(status match.Status, agreed, deliveryFee money.Money) *MatchBuilder {
	m.Status = status
	m.Negotiation.RequesterAccepted = true
	m.Negotiation.OwnerAccepted = true
	t := m.CreatedAt
	m.Negotiation.FirstAcceptanceTime = &t
	total := agreed.Add(deliveryFee)
	m.Settlement = match.Settlement{
		Resource1Payment: agreed,
		Resource2Receipt: m.Prices.OwnerOriginal,
		AgreedPrice:      agreed,
		DeliveryFee:      deliveryFee,
		TotalAmount:      total,
		FinalAmount:      total,
	}
	return m
}

func (m *MatchBuilder) WithFinalAmount(amount money.Money) *MatchBuilder {
	m.Settlement.FinalAmount = amount
	return m
}

func (m *MatchBuilder) WithCoupon(applied coupon.Applied) *MatchBuilder {
	m.Settlement.Coupon = &applied
	m.Settlement.FinalAmount = m.Settlement.TotalAmount.Sub(applied.DiscountAmount).ClampZero()
	return m
}

func (m *MatchBuilder) WithServiceRequest(resourceID uuid.UUID) *MatchBuilder {
	m.Links.ServiceRequestID = &resourceID
	return m
}
