package resource

import (
	"encoding/json"
	"strings"
	"time"

	"campus-market/internal/domain/money"
	"campus-market/internal/pkg/errs"
)

var (
	ErrSpecificationMismatch = errs.Kind("specifications do not match resource type", errs.ErrValidation)
	ErrInvalidAddress        = errs.Kind("address requires a building and a district", errs.ErrValidation)
	ErrInvalidRentalPeriod   = errs.Kind("rental end must be after start", errs.ErrValidation)
	ErrNegativeTips          = errs.Kind("tips cannot be negative", errs.ErrValidation)
)

type Address struct {
	Building string `json:"building"`
	District string `json:"district"`
	Detail   string `json:"detail,omitempty"`
}

func NewAddress(building, district, detail string) (Address, error) {
	a := Address{
		Building: strings.TrimSpace(building),
		District: strings.TrimSpace(district),
		Detail:   strings.TrimSpace(detail),
	}
	if a.Building == "" || a.District == "" {
		return Address{}, ErrInvalidAddress
	}
	return a, nil
}

func (a Address) SameDistrict(o Address) bool {
	return strings.EqualFold(a.District, o.District)
}

// Specifications is the per-type payload of a Resource. The concrete type is
// fixed by the resource type; see SpecFor.
type Specifications interface {
	kind() specKind
}

type specKind string

const (
	kindTrade   specKind = "trade"
	kindRental  specKind = "rental"
	kindService specKind = "service"
)

// buy / sell
type TradeSpec struct {
	PickupAddress   Address `json:"pickupAddress"`
	DeliveryAddress Address `json:"deliveryAddress"`
	Condition       string  `json:"condition,omitempty"`
}

// rent / lease
type RentalSpec struct {
	StartDate     time.Time   `json:"startDate"`
	EndDate       time.Time   `json:"endDate"`
	Deposit       money.Money `json:"deposit"`
	PickupAddress Address     `json:"pickupAddress"`
}

// service-request / service-offer
type ServiceSpec struct {
	PickupAddress  Address     `json:"pickupAddress"`
	DropoffAddress Address     `json:"dropoffAddress"`
	StartTime      time.Time   `json:"startTime"`
	ArrivalTime    *time.Time  `json:"arrivalTime,omitempty"`
	DoorDelivery   bool        `json:"doorDelivery"`
	Tips           money.Money `json:"tips"`
}

func (TradeSpec) kind() specKind   { return kindTrade }
func (RentalSpec) kind() specKind  { return kindRental }
func (ServiceSpec) kind() specKind { return kindService }

func (s RentalSpec) Validate() error {
	if !s.EndDate.After(s.StartDate) {
		return ErrInvalidRentalPeriod
	}
	return nil
}

func (s ServiceSpec) Validate() error {
	if s.Tips.IsNegative() {
		return ErrNegativeTips
	}
	return nil
}

// DoorDeliveryFee returns the flat platform fee this spec adds to a delivery.
func (s ServiceSpec) DoorDeliveryFee() money.Money {
	if s.DoorDelivery {
		return DoorDeliveryFee
	}
	return money.Zero
}

// GraceReference is the moment the expiry grace window is measured from.
func (s ServiceSpec) GraceReference() *time.Time {
	if s.ArrivalTime != nil {
		return s.ArrivalTime
	}
	if s.StartTime.IsZero() {
		return nil
	}
	t := s.StartTime
	return &t
}

func kindFor(t Type) (specKind, bool) {
	switch t {
	case TypeBuy, TypeSell:
		return kindTrade, true
	case TypeRent, TypeLease:
		return kindRental, true
	case TypeServiceRequest, TypeServiceOffer:
		return kindService, true
	default:
		return "", false
	}
}

func checkSpecFor(t Type, spec Specifications) error {
	want, ok := kindFor(t)
	if !ok {
		return ErrInvalidType
	}
	if spec == nil || spec.kind() != want {
		return ErrSpecificationMismatch
	}
	switch s := spec.(type) {
	case RentalSpec:
		return s.Validate()
	case ServiceSpec:
		return s.Validate()
	}
	return nil
}

type specEnvelope struct {
	Kind specKind        `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func MarshalSpecifications(spec Specifications) ([]byte, error) {
	if spec == nil {
		return nil, ErrSpecificationMismatch
	}
	data, err := json.Marshal(spec)
	if err != nil {
		return nil, errs.Wrap(err, "marshal specifications")
	}
	return json.Marshal(specEnvelope{Kind: spec.kind(), Data: data})
}

// UnmarshalSpecifications decodes a stored payload and rejects one whose kind
// does not belong to t.
func UnmarshalSpecifications(t Type, raw []byte) (Specifications, error) {
	var env specEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errs.Mark(errs.Wrap(err, "decode specifications"), ErrSpecificationMismatch)
	}
	want, ok := kindFor(t)
	if !ok {
		return nil, ErrInvalidType
	}
	if env.Kind != want {
		return nil, ErrSpecificationMismatch
	}

	var (
		spec Specifications
		err  error
	)
	switch env.Kind {
	case kindTrade:
		var s TradeSpec
		err = json.Unmarshal(env.Data, &s)
		spec = s
	case kindRental:
		var s RentalSpec
		err = json.Unmarshal(env.Data, &s)
		spec = s
	case kindService:
		var s ServiceSpec
		err = json.Unmarshal(env.Data, &s)
		spec = s
	}
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "decode specifications"), ErrSpecificationMismatch)
	}
	return spec, nil
}
