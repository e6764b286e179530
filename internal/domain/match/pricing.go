package match

import (
	"time"

	"campus-market/internal/domain/money"
	"campus-market/internal/domain/resource"
)

type DeliveryRequest struct {
	Pickup       resource.Address
	Dropoff      resource.Address
	DeliveryTime time.Time
	DoorDelivery bool
}

type PriceCalculator interface {
	QuoteDelivery(req DeliveryRequest) money.Money
}

// PeakWindow is a daily [Start, End) interval expressed as offsets from local midnight.
type PeakWindow struct {
	Start time.Duration
	End   time.Duration
}

func (w PeakWindow) Contains(t time.Time) bool {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := t.Sub(midnight)
	return offset >= w.Start && offset < w.End
}

var DefaultPeakWindows = []PeakWindow{
	{Start: 11 * time.Hour, End: 13 * time.Hour},
	{Start: 17 * time.Hour, End: 19 * time.Hour},
}

type DefaultDeliveryPricer struct {
	Unit        money.Money
	PeakWindows []PeakWindow
	Location    *time.Location
}

func NewDefaultDeliveryPricer(loc *time.Location) *DefaultDeliveryPricer {
	if loc == nil {
		loc = time.UTC
	}
	return &DefaultDeliveryPricer{
		Unit:        money.FromInt(1),
		PeakWindows: DefaultPeakWindows,
		Location:    loc,
	}
}

// QuoteDelivery: one unit within a district, two across districts, doubled
// outside peak windows, plus the door-delivery fee when requested.
func (p *DefaultDeliveryPricer) QuoteDelivery(req DeliveryRequest) money.Money {
	units := int64(2)
	if req.Pickup.SameDistrict(req.Dropoff) {
		units = 1
	}
	if !p.isPeak(req.DeliveryTime) {
		units *= 2
	}

	price := p.Unit.MulInt(units)
	if req.DoorDelivery {
		price = price.Add(resource.DoorDeliveryFee)
	}
	return price
}

func (p *DefaultDeliveryPricer) isPeak(t time.Time) bool {
	local := t.In(p.Location)
	for _, w := range p.PeakWindows {
		if w.Contains(local) {
			return true
		}
	}
	return false
}
