package resource

type Type string

const (
	TypeBuy            Type = "buy"
	TypeSell           Type = "sell"
	TypeRent           Type = "rent"
	TypeLease          Type = "lease"
	TypeServiceRequest Type = "service-request"
	TypeServiceOffer   Type = "service-offer"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeBuy, TypeSell, TypeRent, TypeLease, TypeServiceRequest, TypeServiceOffer:
		return true
	default:
		return false
	}
}

func (t Type) IsService() bool {
	return t == TypeServiceRequest || t == TypeServiceOffer
}

type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusMatching    Status = "matching"
	StatusMatched     Status = "matched"
	StatusPending     Status = "pending"
	StatusPaid        Status = "paid"
	StatusCanceled    Status = "canceled"
	StatusActive      Status = "active"
	StatusUnavailable Status = "unavailable"
	StatusExpired     Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusMatching, StatusMatched, StatusPending, StatusPaid,
		StatusCanceled, StatusActive, StatusUnavailable, StatusExpired:
		return true
	default:
		return false
	}
}
